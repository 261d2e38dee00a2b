// Package geocode resolves text addresses to coordinates and back
// using the OpenStreetMap Nominatim API. It is strictly best-effort:
// every failure degrades to a nil/empty result and is never surfaced
// to callers.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/WahidMubarrat/EmerCare/pkg/circuitbreaker"
)

const userAgent = "EmerCare-Healthcare-App/1.0"

// Coordinates is a resolved lat/lng pair.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Geocoder is the best-effort collaborator contract. Forward returns
// nil when the address cannot be resolved; Reverse returns "" when no
// city is known for the point.
type Geocoder interface {
	Forward(ctx context.Context, street, city, postcode string) *Coordinates
	Reverse(ctx context.Context, lat, lng float64) string
}

// Config holds the Nominatim endpoint and cache tuning.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type client struct {
	cfg     Config
	http    *http.Client
	cache   *gocache.Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewClient returns a caching Nominatim geocoder. Lookups for the same
// address or point within the TTL are served from memory; a run of
// upstream failures trips the breaker so registrations are not slowed
// down by a dead geocoding service.
func NewClient(cfg Config) Geocoder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://nominatim.openstreetmap.org"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 24 * time.Hour
	}
	return &client{
		cfg:   cfg,
		http:  &http.Client{Timeout: cfg.Timeout},
		cache: gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		breaker: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "nominatim",
			MaxFailures: 5,
			Cooldown:    time.Minute,
		}),
	}
}

type forwardResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

type reverseResult struct {
	Address struct {
		City         string `json:"city"`
		Town         string `json:"town"`
		Village      string `json:"village"`
		Municipality string `json:"municipality"`
		County       string `json:"county"`
	} `json:"address"`
}

func (c *client) Forward(ctx context.Context, street, city, postcode string) *Coordinates {
	var parts []string
	for _, p := range []string{street, city, postcode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return nil
	}
	address := strings.Join(parts, ", ")

	if cached, ok := c.cache.Get("fwd:" + address); ok {
		if coords, ok := cached.(*Coordinates); ok {
			lookups.WithLabelValues("forward", "cached").Inc()
			return coords
		}
	}

	endpoint := fmt.Sprintf("%s/search?q=%s&format=json&limit=1", c.cfg.BaseURL, url.QueryEscape(address))

	var results []forwardResult
	if err := c.get(ctx, endpoint, &results); err != nil {
		lookups.WithLabelValues("forward", "error").Inc()
		log.Warn().Err(err).Str("address", address).Msg("forward geocoding failed")
		return nil
	}
	if len(results) == 0 {
		lookups.WithLabelValues("forward", "miss").Inc()
		log.Warn().Str("address", address).Msg("no geocoding result for address")
		c.cache.Set("fwd:"+address, (*Coordinates)(nil), gocache.DefaultExpiration)
		return nil
	}
	lookups.WithLabelValues("forward", "ok").Inc()

	var coords Coordinates
	if _, err := fmt.Sscanf(results[0].Lat, "%f", &coords.Latitude); err != nil {
		return nil
	}
	if _, err := fmt.Sscanf(results[0].Lon, "%f", &coords.Longitude); err != nil {
		return nil
	}

	c.cache.Set("fwd:"+address, &coords, gocache.DefaultExpiration)
	return &coords
}

func (c *client) Reverse(ctx context.Context, lat, lng float64) string {
	key := fmt.Sprintf("rev:%.5f,%.5f", lat, lng)
	if cached, ok := c.cache.Get(key); ok {
		if city, ok := cached.(string); ok {
			lookups.WithLabelValues("reverse", "cached").Inc()
			return city
		}
	}

	endpoint := fmt.Sprintf("%s/reverse?lat=%f&lon=%f&format=json", c.cfg.BaseURL, lat, lng)

	var result reverseResult
	if err := c.get(ctx, endpoint, &result); err != nil {
		lookups.WithLabelValues("reverse", "error").Inc()
		log.Warn().Err(err).Float64("lat", lat).Float64("lng", lng).Msg("reverse geocoding failed")
		return ""
	}
	lookups.WithLabelValues("reverse", "ok").Inc()

	addr := result.Address
	city := addr.City
	for _, fallback := range []string{addr.Town, addr.Village, addr.Municipality, addr.County} {
		if city != "" {
			break
		}
		city = fallback
	}

	c.cache.Set(key, city, gocache.DefaultExpiration)
	return city
}

func (c *client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.breaker.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %s", resp.Status)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}
