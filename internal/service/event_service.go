package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/internal/calculator"
	"github.com/mmynk/mealpoints/internal/geoip"
	"github.com/mmynk/mealpoints/internal/metrics"
	"github.com/mmynk/mealpoints/internal/models"
	"github.com/mmynk/mealpoints/internal/storage"
	"github.com/mmynk/mealpoints/pkg/api"
	"github.com/mmynk/mealpoints/pkg/api/apiconnect"
)

var _ apiconnect.EventServiceHandler = (*EventService)(nil)

// EventService implements the Connect EventService
type EventService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewEventService creates a new EventService. m may be nil.
func NewEventService(store storage.Store, m *metrics.Metrics) *EventService {
	return &EventService{store: store, metrics: m}
}

// ListEvents returns events newest first, optionally limited to one year.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	slog.Info("ListEvents request received", "year", req.Msg.Year)

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		slog.Error("ListEvents failed", "error", err)
		return nil, toConnectError(err)
	}

	window := calculator.AllTimeWindow()
	if req.Msg.Year != 0 {
		window = calculator.YearWindow(int(req.Msg.Year))
	}

	protoEvents := make([]*api.Event, 0, len(events))
	for _, event := range events {
		if window.Contains(event.Date) {
			protoEvents = append(protoEvents, eventToAPI(event))
		}
	}

	slog.Info("ListEvents successful", "count", len(protoEvents))

	return connect.NewResponse(&api.ListEventsResponse{
		Events: protoEvents,
	}), nil
}

// CreateEvent records a dinner. Without explicit points the attendee-count
// tier is used; explicit points are clamped to the valid range.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	slog.Info("CreateEvent request received",
		"date", req.Msg.Date,
		"location", req.Msg.Location,
		"attendees_count", len(req.Msg.AttendeeIds),
	)

	in, err := validateEventInput(req.Msg.Date, req.Msg.Location, req.Msg.Description, req.Msg.AttendeeIds, req.Msg.Points)
	if err != nil {
		slog.Warn("CreateEvent validation failed", "error", err)
		return nil, toConnectError(err)
	}

	attendees := storage.UniqueAttendees(in.attendees)
	event := &models.Event{
		Date:        in.date,
		Location:    in.location,
		Description: in.description,
		Points:      calculator.ResolvePoints(len(attendees), in.points),
		Attendees:   attendees,
		IPAddress:   geoip.ClientIP(req.Header(), req.Peer().Addr),
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "error", err)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown attendee: %w", err))
		}
		return nil, toConnectError(err)
	}

	s.metrics.EventCreated(event.Points, len(event.Attendees))
	slog.Info("Event created",
		"event_id", event.ID,
		"points", event.Points,
		"attendees_count", len(event.Attendees),
	)

	return connect.NewResponse(&api.CreateEventResponse{
		Event: eventToAPI(event),
	}), nil
}

// DeleteEvent removes an event and its attendance.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	slog.Info("DeleteEvent request received", "event_id", req.Msg.EventId)

	if err := s.store.DeleteEvent(ctx, req.Msg.EventId); err != nil {
		slog.Error("DeleteEvent failed", "event_id", req.Msg.EventId, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Event deleted", "event_id", req.Msg.EventId)

	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// SuggestPoints previews the points an event would record.
func (s *EventService) SuggestPoints(ctx context.Context, req *connect.Request[api.SuggestPointsRequest]) (*connect.Response[api.SuggestPointsResponse], error) {
	if req.Msg.AttendeeCount < 0 {
		verr := &ValidationError{}
		verr.add("attendeeCount", "must not be negative")
		return nil, toConnectError(verr)
	}

	count := int(req.Msg.AttendeeCount)
	var manual *int
	if req.Msg.ManualPoints != nil {
		p := int(*req.Msg.ManualPoints)
		manual = &p
	}

	return connect.NewResponse(&api.SuggestPointsResponse{
		Suggested: int32(calculator.SuggestPoints(count)),
		Points:    int32(calculator.ResolvePoints(count, manual)),
	}), nil
}
