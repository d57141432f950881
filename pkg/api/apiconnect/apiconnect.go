// Package apiconnect wires the mealpoints services to Connect: procedure
// names, handler constructors that route a service's procedures, and typed
// clients. Every handler and client uses api.Codec.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/pkg/api"
)

const (
	MemberServiceName = "mealpoints.v1.MemberService"
	EventServiceName  = "mealpoints.v1.EventService"
	StatsServiceName  = "mealpoints.v1.StatsService"
	GeoServiceName    = "mealpoints.v1.GeoService"
)

const (
	MemberServiceListMembersProcedure   = "/mealpoints.v1.MemberService/ListMembers"
	MemberServiceCreateMemberProcedure  = "/mealpoints.v1.MemberService/CreateMember"
	MemberServiceCreateMembersProcedure = "/mealpoints.v1.MemberService/CreateMembers"
	MemberServiceDeleteMemberProcedure  = "/mealpoints.v1.MemberService/DeleteMember"

	EventServiceListEventsProcedure    = "/mealpoints.v1.EventService/ListEvents"
	EventServiceCreateEventProcedure   = "/mealpoints.v1.EventService/CreateEvent"
	EventServiceDeleteEventProcedure   = "/mealpoints.v1.EventService/DeleteEvent"
	EventServiceSuggestPointsProcedure = "/mealpoints.v1.EventService/SuggestPoints"

	StatsServiceGetLeaderboardProcedure = "/mealpoints.v1.StatsService/GetLeaderboard"

	GeoServiceLookupLocationProcedure  = "/mealpoints.v1.GeoService/LookupLocation"
	GeoServiceLookupLocationsProcedure = "/mealpoints.v1.GeoService/LookupLocations"
)

// MemberServiceHandler is implemented by the member roster service.
type MemberServiceHandler interface {
	ListMembers(context.Context, *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error)
	CreateMember(context.Context, *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error)
	CreateMembers(context.Context, *connect.Request[api.CreateMembersRequest]) (*connect.Response[api.CreateMembersResponse], error)
	DeleteMember(context.Context, *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error)
}

// EventServiceHandler is implemented by the event ledger service.
type EventServiceHandler interface {
	ListEvents(context.Context, *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error)
	CreateEvent(context.Context, *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error)
	SuggestPoints(context.Context, *connect.Request[api.SuggestPointsRequest]) (*connect.Response[api.SuggestPointsResponse], error)
}

// StatsServiceHandler is implemented by the leaderboard service.
type StatsServiceHandler interface {
	GetLeaderboard(context.Context, *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error)
}

// GeoServiceHandler is implemented by the IP location service.
type GeoServiceHandler interface {
	LookupLocation(context.Context, *connect.Request[api.LookupLocationRequest]) (*connect.Response[api.LookupLocationResponse], error)
	LookupLocations(context.Context, *connect.Request[api.LookupLocationsRequest]) (*connect.Response[api.LookupLocationsResponse], error)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}

// router dispatches requests under a service prefix to its procedure handlers.
type router map[string]http.Handler

func (r router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	handler, ok := r[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}
	handler.ServeHTTP(w, req)
}

// NewMemberServiceHandler builds an HTTP handler for svc. It returns the
// path prefix to mount the handler on.
func NewMemberServiceHandler(svc MemberServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + MemberServiceName + "/", router{
		MemberServiceListMembersProcedure:   connect.NewUnaryHandler(MemberServiceListMembersProcedure, svc.ListMembers, opts...),
		MemberServiceCreateMemberProcedure:  connect.NewUnaryHandler(MemberServiceCreateMemberProcedure, svc.CreateMember, opts...),
		MemberServiceCreateMembersProcedure: connect.NewUnaryHandler(MemberServiceCreateMembersProcedure, svc.CreateMembers, opts...),
		MemberServiceDeleteMemberProcedure:  connect.NewUnaryHandler(MemberServiceDeleteMemberProcedure, svc.DeleteMember, opts...),
	}
}

// NewEventServiceHandler builds an HTTP handler for svc.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + EventServiceName + "/", router{
		EventServiceListEventsProcedure:    connect.NewUnaryHandler(EventServiceListEventsProcedure, svc.ListEvents, opts...),
		EventServiceCreateEventProcedure:   connect.NewUnaryHandler(EventServiceCreateEventProcedure, svc.CreateEvent, opts...),
		EventServiceDeleteEventProcedure:   connect.NewUnaryHandler(EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...),
		EventServiceSuggestPointsProcedure: connect.NewUnaryHandler(EventServiceSuggestPointsProcedure, svc.SuggestPoints, opts...),
	}
}

// NewStatsServiceHandler builds an HTTP handler for svc.
func NewStatsServiceHandler(svc StatsServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + StatsServiceName + "/", router{
		StatsServiceGetLeaderboardProcedure: connect.NewUnaryHandler(StatsServiceGetLeaderboardProcedure, svc.GetLeaderboard, opts...),
	}
}

// NewGeoServiceHandler builds an HTTP handler for svc.
func NewGeoServiceHandler(svc GeoServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	return "/" + GeoServiceName + "/", router{
		GeoServiceLookupLocationProcedure:  connect.NewUnaryHandler(GeoServiceLookupLocationProcedure, svc.LookupLocation, opts...),
		GeoServiceLookupLocationsProcedure: connect.NewUnaryHandler(GeoServiceLookupLocationsProcedure, svc.LookupLocations, opts...),
	}
}

// MemberServiceClient calls a MemberService.
type MemberServiceClient interface {
	MemberServiceHandler
}

// EventServiceClient calls an EventService.
type EventServiceClient interface {
	EventServiceHandler
}

// StatsServiceClient calls a StatsService.
type StatsServiceClient interface {
	StatsServiceHandler
}

// GeoServiceClient calls a GeoService.
type GeoServiceClient interface {
	GeoServiceHandler
}

// NewMemberServiceClient constructs a client for the MemberService at baseURL.
func NewMemberServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) MemberServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &memberServiceClient{
		listMembers:   connect.NewClient[api.ListMembersRequest, api.ListMembersResponse](httpClient, baseURL+MemberServiceListMembersProcedure, opts...),
		createMember:  connect.NewClient[api.CreateMemberRequest, api.CreateMemberResponse](httpClient, baseURL+MemberServiceCreateMemberProcedure, opts...),
		createMembers: connect.NewClient[api.CreateMembersRequest, api.CreateMembersResponse](httpClient, baseURL+MemberServiceCreateMembersProcedure, opts...),
		deleteMember:  connect.NewClient[api.DeleteMemberRequest, api.DeleteMemberResponse](httpClient, baseURL+MemberServiceDeleteMemberProcedure, opts...),
	}
}

type memberServiceClient struct {
	listMembers   *connect.Client[api.ListMembersRequest, api.ListMembersResponse]
	createMember  *connect.Client[api.CreateMemberRequest, api.CreateMemberResponse]
	createMembers *connect.Client[api.CreateMembersRequest, api.CreateMembersResponse]
	deleteMember  *connect.Client[api.DeleteMemberRequest, api.DeleteMemberResponse]
}

func (c *memberServiceClient) ListMembers(ctx context.Context, req *connect.Request[api.ListMembersRequest]) (*connect.Response[api.ListMembersResponse], error) {
	return c.listMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) CreateMember(ctx context.Context, req *connect.Request[api.CreateMemberRequest]) (*connect.Response[api.CreateMemberResponse], error) {
	return c.createMember.CallUnary(ctx, req)
}

func (c *memberServiceClient) CreateMembers(ctx context.Context, req *connect.Request[api.CreateMembersRequest]) (*connect.Response[api.CreateMembersResponse], error) {
	return c.createMembers.CallUnary(ctx, req)
}

func (c *memberServiceClient) DeleteMember(ctx context.Context, req *connect.Request[api.DeleteMemberRequest]) (*connect.Response[api.DeleteMemberResponse], error) {
	return c.deleteMember.CallUnary(ctx, req)
}

// NewEventServiceClient constructs a client for the EventService at baseURL.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &eventServiceClient{
		listEvents:    connect.NewClient[api.ListEventsRequest, api.ListEventsResponse](httpClient, baseURL+EventServiceListEventsProcedure, opts...),
		createEvent:   connect.NewClient[api.CreateEventRequest, api.CreateEventResponse](httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		deleteEvent:   connect.NewClient[api.DeleteEventRequest, api.DeleteEventResponse](httpClient, baseURL+EventServiceDeleteEventProcedure, opts...),
		suggestPoints: connect.NewClient[api.SuggestPointsRequest, api.SuggestPointsResponse](httpClient, baseURL+EventServiceSuggestPointsProcedure, opts...),
	}
}

type eventServiceClient struct {
	listEvents    *connect.Client[api.ListEventsRequest, api.ListEventsResponse]
	createEvent   *connect.Client[api.CreateEventRequest, api.CreateEventResponse]
	deleteEvent   *connect.Client[api.DeleteEventRequest, api.DeleteEventResponse]
	suggestPoints *connect.Client[api.SuggestPointsRequest, api.SuggestPointsResponse]
}

func (c *eventServiceClient) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) SuggestPoints(ctx context.Context, req *connect.Request[api.SuggestPointsRequest]) (*connect.Response[api.SuggestPointsResponse], error) {
	return c.suggestPoints.CallUnary(ctx, req)
}

// NewStatsServiceClient constructs a client for the StatsService at baseURL.
func NewStatsServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) StatsServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &statsServiceClient{
		getLeaderboard: connect.NewClient[api.GetLeaderboardRequest, api.GetLeaderboardResponse](httpClient, baseURL+StatsServiceGetLeaderboardProcedure, opts...),
	}
}

type statsServiceClient struct {
	getLeaderboard *connect.Client[api.GetLeaderboardRequest, api.GetLeaderboardResponse]
}

func (c *statsServiceClient) GetLeaderboard(ctx context.Context, req *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error) {
	return c.getLeaderboard.CallUnary(ctx, req)
}

// NewGeoServiceClient constructs a client for the GeoService at baseURL.
func NewGeoServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GeoServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &geoServiceClient{
		lookupLocation:  connect.NewClient[api.LookupLocationRequest, api.LookupLocationResponse](httpClient, baseURL+GeoServiceLookupLocationProcedure, opts...),
		lookupLocations: connect.NewClient[api.LookupLocationsRequest, api.LookupLocationsResponse](httpClient, baseURL+GeoServiceLookupLocationsProcedure, opts...),
	}
}

type geoServiceClient struct {
	lookupLocation  *connect.Client[api.LookupLocationRequest, api.LookupLocationResponse]
	lookupLocations *connect.Client[api.LookupLocationsRequest, api.LookupLocationsResponse]
}

func (c *geoServiceClient) LookupLocation(ctx context.Context, req *connect.Request[api.LookupLocationRequest]) (*connect.Response[api.LookupLocationResponse], error) {
	return c.lookupLocation.CallUnary(ctx, req)
}

func (c *geoServiceClient) LookupLocations(ctx context.Context, req *connect.Request[api.LookupLocationsRequest]) (*connect.Response[api.LookupLocationsResponse], error) {
	return c.lookupLocations.CallUnary(ctx, req)
}
