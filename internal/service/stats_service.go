package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/mealpoints/internal/calculator"
	"github.com/mmynk/mealpoints/internal/storage"
	"github.com/mmynk/mealpoints/pkg/api"
	"github.com/mmynk/mealpoints/pkg/api/apiconnect"
)

var _ apiconnect.StatsServiceHandler = (*StatsService)(nil)

// DefaultTopN is the leaderboard size used when none is configured.
const DefaultTopN = 5

// StatsService implements the Connect StatsService.
type StatsService struct {
	store storage.Store
	topN  int
	now   func() time.Time
}

// NewStatsService creates a StatsService whose Top list holds topN rows.
func NewStatsService(store storage.Store, topN int) *StatsService {
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &StatsService{store: store, topN: topN, now: time.Now}
}

// GetLeaderboard ranks every member by points for the selected year, or for
// all time.
func (s *StatsService) GetLeaderboard(ctx context.Context, req *connect.Request[api.GetLeaderboardRequest]) (*connect.Response[api.GetLeaderboardResponse], error) {
	slog.Info("GetLeaderboard request received",
		"year", req.Msg.Year,
		"all_time", req.Msg.AllTime,
		"top_n", req.Msg.TopN,
	)

	// Members and events must come from the same snapshot
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		slog.Error("GetLeaderboard failed - could not load snapshot", "error", err)
		return nil, toConnectError(err)
	}

	members, events := calculatorInputs(snapshot.Members, snapshot.Events)

	years := calculator.AvailableYears(events, s.now())
	selected := calculator.SelectYear(years, int(req.Msg.Year))

	window := calculator.YearWindow(selected)
	if req.Msg.AllTime {
		window = calculator.AllTimeWindow()
	}

	standings := calculator.Rank(calculator.Aggregate(members, events, window))

	topN := s.topN
	if req.Msg.TopN > 0 {
		topN = int(req.Msg.TopN)
	}
	top := calculator.TopN(standings, topN)

	protoYears := make([]int32, len(years))
	for i, y := range years {
		protoYears[i] = int32(y)
	}

	slog.Info("GetLeaderboard successful",
		"selected_year", selected,
		"all_time", req.Msg.AllTime,
		"members_count", len(standings),
		"events_count", len(events),
	)

	return connect.NewResponse(&api.GetLeaderboardResponse{
		Years:        protoYears,
		SelectedYear: int32(selected),
		AllTime:      req.Msg.AllTime,
		Standings:    standingsToAPI(standings),
		Top:          standingsToAPI(top),
	}), nil
}
