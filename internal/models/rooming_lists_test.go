package models

import (
	"testing"

	"rooming-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomingListCard(t *testing.T) {
	card := NewRoomingListCard(&domain.RoomingList{
		RoomingListID: 1,
		EventID:       "E1",
		RFPName:       "Ultra Gala",
		CutOffDate:    "2025-09-30",
		Status:        "Approved",
		Bookings: []domain.Booking{
			{CheckInDate: "2025-10-02", CheckOutDate: "2025-10-05"},
			{CheckInDate: "2025-09-28", CheckOutDate: "2025-10-01"},
		},
	})

	assert.Equal(t, "SEP", card.CutOffMonth)
	assert.Equal(t, 30, card.CutOffDay)
	assert.Equal(t, "2025-09-28", card.CheckInDate)
	assert.Equal(t, "2025-10-05", card.CheckOutDate)
	assert.Equal(t, "Sep 28 - Oct 5, 2025", card.StayRange)
	assert.Equal(t, 2, card.BookingCount)
}

func TestNewRoomingListCard_NoBookings(t *testing.T) {
	card := NewRoomingListCard(&domain.RoomingList{CutOffDate: "n/a"})
	assert.Empty(t, card.StayRange)
	assert.Empty(t, card.CutOffMonth)
	assert.Equal(t, 0, card.BookingCount)
}

func TestNewEventGroupModels_PaletteWraps(t *testing.T) {
	groups := make([]domain.EventGroup, 10)
	for i := range groups {
		groups[i] = domain.EventGroup{EventID: domain.ID(string(rune('A' + i)))}
	}
	models := NewEventGroupModels(groups)
	require.Len(t, models, 10)
	assert.Equal(t, "#2563eb", models[0].Color)
	assert.Equal(t, "#ec4899", models[7].Color)
	assert.Equal(t, "#2563eb", models[8].Color)
	assert.NotNil(t, models[0].Items)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Showing 3 of 8", Summary(3, 8))
}

func TestNewGetRoomingListsModel_NilStatusesBecomeEmpty(t *testing.T) {
	m := NewGetRoomingListsModel("gala", nil, []domain.EventGroup{{EventID: "E1"}}, 1, 4, []string{"Approved"})
	assert.Equal(t, []string{}, m.Query.Statuses)
	assert.Equal(t, "gala", m.Query.Search)
	assert.Equal(t, "Showing 1 of 4", m.Summary)
	require.Len(t, m.Groups, 1)
	assert.Equal(t, []string{"Approved"}, m.Statuses)
}
