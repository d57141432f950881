package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/internal/geoip"
	"github.com/mmynk/mealpoints/pkg/api"
	"github.com/mmynk/mealpoints/pkg/api/apiconnect"
)

var _ apiconnect.GeoServiceHandler = (*GeoService)(nil)

// LocationResolver turns IP addresses into display locations.
type LocationResolver interface {
	Lookup(ctx context.Context, ip string) string
	LookupAll(ctx context.Context, ips []string) map[string]string
}

// GeoService implements the Connect GeoService.
type GeoService struct {
	resolver LocationResolver
}

// NewGeoService creates a GeoService backed by resolver.
func NewGeoService(resolver LocationResolver) *GeoService {
	return &GeoService{resolver: resolver}
}

// LookupLocation resolves the location of a single address.
func (s *GeoService) LookupLocation(ctx context.Context, req *connect.Request[api.LookupLocationRequest]) (*connect.Response[api.LookupLocationResponse], error) {
	ip := geoip.NormalizeIP(req.Msg.Ip)
	if ip == "" {
		verr := &ValidationError{}
		verr.add("ip", "must not be empty")
		return nil, toConnectError(verr)
	}

	location := s.resolver.Lookup(ctx, ip)
	slog.Debug("LookupLocation resolved", "ip", ip, "location", location)

	return connect.NewResponse(&api.LookupLocationResponse{
		Ip:       ip,
		Location: location,
	}), nil
}

// LookupLocations resolves many addresses at once, as the event history needs.
func (s *GeoService) LookupLocations(ctx context.Context, req *connect.Request[api.LookupLocationsRequest]) (*connect.Response[api.LookupLocationsResponse], error) {
	ips := make([]string, 0, len(req.Msg.Ips))
	for _, ip := range req.Msg.Ips {
		if ip = strings.TrimSpace(ip); ip != "" {
			ips = append(ips, ip)
		}
	}

	locations := s.resolver.LookupAll(ctx, ips)
	slog.Info("LookupLocations resolved", "requested", len(req.Msg.Ips), "resolved", len(locations))

	return connect.NewResponse(&api.LookupLocationsResponse{
		Locations: locations,
	}), nil
}
