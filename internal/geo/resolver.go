package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/evyataryagoni/geoip-leaderboard/internal/logger"
	"github.com/evyataryagoni/geoip-leaderboard/internal/models"
)

// Resolver translates an IP address into a geographic location.
// Resolution is best-effort: implementations never return an error,
// they report success through the resolved flag so callers can tell
// "actually unknown" apart from "lookup failed".
type Resolver interface {
	// Resolve returns the location for ip and whether the lookup
	// actually succeeded. When resolved is false the returned location
	// holds the default values.
	Resolve(ctx context.Context, ip string) (location models.Location, resolved bool)
}

// ipinfoResponse mirrors the fields we use from the ipinfo.io API.
// Loc is "lat,lon" as a single string.
type ipinfoResponse struct {
	Country string `json:"country"`
	City    string `json:"city"`
	Loc     string `json:"loc"`
}

// IPInfoResolver resolves IPs against the ipinfo.io HTTP API.
type IPInfoResolver struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *logger.Logger
}

// NewIPInfoResolver creates a resolver backed by ipinfo.io.
//
// Parameters:
//   - baseURL: API base URL (e.g., "https://ipinfo.io")
//   - token: API token (empty string for the unauthenticated tier)
//   - timeout: per-lookup deadline; lookups never block longer than this
//   - log: logger (optional, can be nil)
func NewIPInfoResolver(baseURL, token string, timeout time.Duration, log *logger.Logger) *IPInfoResolver {
	if log == nil {
		log = logger.NewDefault()
	}
	return &IPInfoResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  log.WithComponent("IPInfoResolver"),
	}
}

// Resolve looks up ip on ipinfo.io. Any failure (timeout, transport
// error, bad status, malformed body) degrades to the default location
// with resolved=false; the cause is only visible in logs.
func (r *IPInfoResolver) Resolve(ctx context.Context, ip string) (models.Location, bool) {
	url := fmt.Sprintf("%s/%s/json", r.baseURL, ip)
	if r.token != "" {
		url = fmt.Sprintf("%s/%s?token=%s", r.baseURL, ip, r.token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to build geolocation request")
		return models.DefaultLocation(), false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn().Err(err).Str("ip", ip).Msg("Geolocation lookup failed")
		return models.DefaultLocation(), false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Warn().Int("status", resp.StatusCode).Str("ip", ip).Msg("Geolocation lookup returned non-OK status")
		return models.DefaultLocation(), false
	}

	var body ipinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		r.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to decode geolocation response")
		return models.DefaultLocation(), false
	}

	loc := models.Location{
		Country: body.Country,
		City:    body.City,
	}
	if loc.Country == "" {
		loc.Country = models.DefaultCountry
	}
	if loc.City == "" {
		loc.City = models.DefaultCity
	}
	loc.Latitude, loc.Longitude = parseLoc(body.Loc)

	r.logger.Debug().
		Str("ip", ip).
		Str("country", loc.Country).
		Str("city", loc.City).
		Msg("Geolocation resolved")

	return loc, true
}

// parseLoc splits an ipinfo "lat,lon" pair. Missing or malformed input
// yields (0, 0), matching the defaults.
func parseLoc(loc string) (float64, float64) {
	parts := strings.SplitN(loc, ",", 2)
	if len(parts) != 2 {
		return 0, 0
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0
	}

	return lat, lon
}
