package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPCommitter patches the trip's current position over the server REST API.
type HTTPCommitter struct {
	baseURL string
	client  *http.Client
}

func NewHTTPCommitter(baseURL string, client *http.Client) *HTTPCommitter {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPCommitter{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (c *HTTPCommitter) CommitPosition(ctx context.Context, tripID int64, pos Position) error {
	payload, err := json.Marshal(map[string]float64{
		"latitude":  pos.Lat,
		"longitude": pos.Lng,
	})
	if err != nil {
		return err
	}

	u := fmt.Sprintf("%s/trips/%d/position", c.baseURL, tripID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("position update rejected: %s", resp.Status)
	}
	return nil
}
