// Package geoip resolves the rough location of the IP address an event was
// submitted from. Results, including failures, are cached with a TTL, and
// outbound lookups are rate limited.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mmynk/mealpoints/internal/metrics"
)

// Location labels used when no lookup result is available.
const (
	LocationPrivate = "local network"
	LocationUnknown = "unknown"
)

// lookupConcurrency bounds parallel outbound requests in LookupAll.
const lookupConcurrency = 4

// Options configures a Resolver. Zero values select defaults.
type Options struct {
	// Endpoint is the base URL of an ipapi.co compatible service.
	Endpoint string
	// CacheTTL is how long a result is reused. Default 24h.
	CacheTTL time.Duration
	// CacheSize bounds the number of cached addresses. Default 1024.
	CacheSize int
	// RequestsPerSecond limits outbound lookups. Default 1.
	RequestsPerSecond float64
	// Timeout bounds a single outbound lookup. Default 5s.
	Timeout time.Duration
	// Client performs the HTTP requests. Default http.DefaultClient.
	Client *http.Client
	// Metrics records lookup outcomes. May be nil.
	Metrics *metrics.Metrics
}

// Resolver looks up and caches IP locations. It is safe for concurrent use.
type Resolver struct {
	endpoint string
	timeout  time.Duration
	client   *http.Client
	cache    *expirable.LRU[string, string]
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
}

// NewResolver creates a Resolver from opts.
func NewResolver(opts Options) *Resolver {
	if opts.Endpoint == "" {
		opts.Endpoint = "https://ipapi.co"
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 1024
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}

	return &Resolver{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		timeout:  opts.Timeout,
		client:   opts.Client,
		cache:    expirable.NewLRU[string, string](opts.CacheSize, nil, opts.CacheTTL),
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		metrics:  opts.Metrics,
	}
}

// Lookup returns a human readable location for ip. It never fails: private
// addresses map to LocationPrivate and lookup errors to LocationUnknown.
func (r *Resolver) Lookup(ctx context.Context, ip string) string {
	ip = NormalizeIP(ip)
	if IsPrivate(ip) {
		r.metrics.GeoLookup(metrics.GeoPrivate)
		return LocationPrivate
	}

	if location, ok := r.cache.Get(ip); ok {
		r.metrics.GeoLookup(metrics.GeoCacheHit)
		return location
	}

	// A cancelled wait says nothing about the address, so it is not cached.
	if err := r.limiter.Wait(ctx); err != nil {
		slog.Debug("IP lookup not attempted", "ip", ip, "error", err)
		r.metrics.GeoLookup(metrics.GeoFailed)
		return LocationUnknown
	}

	location, err := r.fetch(ctx, ip)
	if err != nil {
		slog.Warn("IP lookup failed", "ip", ip, "error", err)
		r.metrics.GeoLookup(metrics.GeoFailed)
		r.cache.Add(ip, LocationUnknown)
		return LocationUnknown
	}

	r.metrics.GeoLookup(metrics.GeoResolved)
	r.cache.Add(ip, location)
	return location
}

// LookupAll resolves each distinct address in ips concurrently and returns
// a map keyed by normalized address.
func (r *Resolver) LookupAll(ctx context.Context, ips []string) map[string]string {
	seen := make(map[string]bool, len(ips))
	unique := make([]string, 0, len(ips))
	for _, ip := range ips {
		ip = NormalizeIP(ip)
		if ip == "" || seen[ip] {
			continue
		}
		seen[ip] = true
		unique = append(unique, ip)
	}

	results := make([]string, len(unique))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for i, ip := range unique {
		g.Go(func() error {
			results[i] = r.Lookup(gctx, ip)
			return nil
		})
	}
	_ = g.Wait()

	locations := make(map[string]string, len(unique))
	for i, ip := range unique {
		locations[ip] = results[i]
	}
	return locations
}

// lookupResponse is the subset of the ipapi.co JSON body we use.
type lookupResponse struct {
	Error       bool   `json:"error"`
	Reason      string `json:"reason"`
	CountryName string `json:"country_name"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	City        string `json:"city"`
}

func (r *Resolver) fetch(ctx context.Context, ip string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/%s/json/", r.endpoint, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", "mealpoints")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to query location service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("location service returned %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode location response: %w", err)
	}
	if body.Error {
		return "", fmt.Errorf("location service error: %s", body.Reason)
	}

	country := body.CountryName
	if country == "" {
		country = body.Country
	}
	var parts []string
	for _, part := range []string{country, body.Region, body.City} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		return LocationUnknown, nil
	}
	return strings.Join(parts, " "), nil
}
