package service

import (
	"github.com/mmynk/mealpoints/internal/calculator"
	"github.com/mmynk/mealpoints/internal/models"
	"github.com/mmynk/mealpoints/pkg/api"
)

func memberToAPI(m *models.Member) *api.Member {
	return &api.Member{
		Id:        m.ID,
		Name:      m.Name,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
	}
}

func membersToAPI(members []*models.Member) []*api.Member {
	out := make([]*api.Member, len(members))
	for i, m := range members {
		out[i] = memberToAPI(m)
	}
	return out
}

func eventToAPI(e *models.Event) *api.Event {
	return &api.Event{
		Id:          e.ID,
		Date:        e.Date,
		Location:    e.Location,
		Description: e.Description,
		Points:      int32(e.Points),
		AttendeeIds: e.Attendees,
		IpAddress:   e.IPAddress,
		CreatedAt:   e.CreatedAt,
	}
}

func standingsToAPI(standings []calculator.Standing) []*api.Standing {
	out := make([]*api.Standing, len(standings))
	for i, s := range standings {
		out[i] = &api.Standing{
			Rank:        int32(s.Rank),
			MemberId:    s.MemberID,
			Name:        s.Name,
			TotalPoints: int32(s.TotalPoints),
			EventCount:  int32(s.EventCount),
		}
	}
	return out
}

// calculatorInputs converts stored records into the calculator's minimal types.
func calculatorInputs(members []*models.Member, events []*models.Event) ([]calculator.Member, []calculator.Event) {
	calcMembers := make([]calculator.Member, len(members))
	for i, m := range members {
		calcMembers[i] = calculator.Member{ID: m.ID, Name: m.Name}
	}
	calcEvents := make([]calculator.Event, len(events))
	for i, e := range events {
		calcEvents[i] = calculator.Event{Date: e.Date, Points: e.Points, Attendees: e.Attendees}
	}
	return calcMembers, calcEvents
}
