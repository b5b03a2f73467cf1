package models

import "time"

// Leaderboard source values reported to clients.
const (
	SourceCache = "cache"
	SourceStore = "store"
)

// Default geolocation values used when resolution fails.
const (
	DefaultCountry = "XX"
	DefaultCity    = "Unknown"
)

// IPRecord is one tracked IP address with its visit counter and the
// most recently resolved geolocation.
//
// The JSON field names (lastSeen, lat, lon) are part of the public
// leaderboard contract consumed by the website and must not change.
type IPRecord struct {
	IP        string    `json:"ip"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Visits    uint64    `json:"visits"`
	LastSeen  time.Time `json:"lastSeen"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lon"`
}

// Location is a resolved geographic position for an IP address.
type Location struct {
	Country   string
	City      string
	Latitude  float64
	Longitude float64
}

// DefaultLocation returns the location used when geolocation could not
// be resolved.
func DefaultLocation() Location {
	return Location{
		Country: DefaultCountry,
		City:    DefaultCity,
	}
}

// LeaderboardResponse is the body of GET /leaderboard.
type LeaderboardResponse struct {
	Leaderboard []IPRecord `json:"leaderboard"`
	Source      string     `json:"source"`
}

// TrackRequest is the body of POST /track.
type TrackRequest struct {
	IP string `json:"ip"`
}

// TrackResponse is the success body of POST /track.
type TrackResponse struct {
	Success  bool   `json:"success"`
	IP       string `json:"ip"`
	Location string `json:"location"`
}

// ErrorResponse is the standard error body. Error is machine-readable,
// Message is for humans and may be omitted.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
