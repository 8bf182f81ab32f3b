package api

import (
	"encoding/json"
	"net/http"

	"fleet-tracking-system/geocoding"
	"fleet-tracking-system/geoindex"
	"fleet-tracking-system/livemap"
	"fleet-tracking-system/routing"
)

var (
	Renderer     *livemap.Renderer
	Resolver     *geocoding.Resolver
	RouteBuilder *routing.Builder
	Index        *geoindex.Index
)

// Init wires the handler dependencies; called once from main before the
// router is registered.
func Init(renderer *livemap.Renderer, resolver *geocoding.Resolver, builder *routing.Builder, index *geoindex.Index) {
	Renderer = renderer
	Resolver = resolver
	RouteBuilder = builder
	Index = index
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
