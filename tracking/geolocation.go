// Package tracking is the driver-side GPS glue: it watches a position source,
// throttles the sample stream, and commits location updates to the trip on
// the server.
package tracking

import (
	"context"
	"time"
)

// Position is one GPS fix.
type Position struct {
	Lat       float64   `json:"latitude"`
	Lng       float64   `json:"longitude"`
	AccuracyM float64   `json:"accuracy_m,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// PositionError is the typed geolocation failure set.
type PositionError int

const (
	PermissionDenied PositionError = iota + 1
	PositionUnavailable
	Timeout
)

func (e PositionError) Error() string {
	switch e {
	case PermissionDenied:
		return "geolocation permission denied"
	case PositionUnavailable:
		return "position unavailable"
	case Timeout:
		return "position request timed out"
	default:
		return "unknown geolocation error"
	}
}

// UserMessage maps the failure to the text shown in the driver portal. The
// portal always offers manual text entry as a fallback.
func (e PositionError) UserMessage() string {
	switch e {
	case PermissionDenied:
		return "Location access is blocked. Enable it in your browser settings or enter the location manually."
	case PositionUnavailable:
		return "Your location is currently unavailable. Enter the location manually."
	case Timeout:
		return "Locating you timed out. Try again or enter the location manually."
	default:
		return "Could not determine your location. Enter it manually."
	}
}

// WatchOptions configure a position request or subscription.
type WatchOptions struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaxAge       time.Duration
}

// PositionSource abstracts the device geolocation API: a one-shot read and a
// watch subscription. Watch delivers fixes (or a PositionError) to fn until
// the returned stop function is called or the context ends. Stop must be safe
// to call more than once.
type PositionSource interface {
	Current(ctx context.Context, opts WatchOptions) (Position, error)
	Watch(ctx context.Context, opts WatchOptions, fn func(Position, error)) (stop func(), err error)
}
