package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPCommitterPatchesTripPosition(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody map[string]float64

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewHTTPCommitter(srv.URL, srv.Client())
	err := c.CommitPosition(context.Background(), 7, Position{Lat: -8.8390, Lng: 13.2894, Timestamp: time.Now()})
	if err != nil {
		t.Fatal(err)
	}

	if gotMethod != http.MethodPatch {
		t.Errorf("expected PATCH, got %s", gotMethod)
	}
	if gotPath != "/trips/7/position" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotBody["latitude"] != -8.8390 || gotBody["longitude"] != 13.2894 {
		t.Errorf("unexpected body %v", gotBody)
	}
}

func TestHTTPCommitterRejectedUpdate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "trip not active", http.StatusConflict)
	}))
	defer srv.Close()

	c := NewHTTPCommitter(srv.URL, srv.Client())
	if err := c.CommitPosition(context.Background(), 7, Position{}); err == nil {
		t.Error("expected an error for a non-2xx response")
	}
}
