package models

import (
	"fmt"

	"rooming-data/internal/domain"
)

// EventPalette colors event groups by position, wrapping after eight.
var EventPalette = []string{
	"#2563eb",
	"#a855f7",
	"#06b6d4",
	"#f59e0b",
	"#10b981",
	"#ef4444",
	"#8b5cf6",
	"#ec4899",
}

func ColorForIndex(i int) string {
	if i < 0 {
		i = -i
	}
	return EventPalette[i%len(EventPalette)]
}

// RoomingListCard is a rooming list plus the values the dashboard card shows.
type RoomingListCard struct {
	RoomingListID int       `json:"roomingListId"`
	EventID       domain.ID `json:"eventId"`
	EventName     string    `json:"eventName"`
	HotelID       domain.ID `json:"hotelId"`
	HotelName     string    `json:"hotelName,omitempty"`
	RFPName       string    `json:"rfpName"`
	AgreementType string    `json:"agreementType"`
	CutOffDate    string    `json:"cutOffDate"`
	Status        string    `json:"status"`

	CutOffMonth  string `json:"cutOffMonth"`
	CutOffDay    int    `json:"cutOffDay"`
	CheckInDate  string `json:"checkInDate,omitempty"`
	CheckOutDate string `json:"checkOutDate,omitempty"`
	StayRange    string `json:"stayRange,omitempty"`
	BookingCount int    `json:"bookingCount"`
}

func NewRoomingListCard(r *domain.RoomingList) RoomingListCard {
	c := RoomingListCard{
		RoomingListID: r.RoomingListID,
		EventID:       r.EventID,
		EventName:     r.EventName,
		HotelID:       r.HotelID,
		HotelName:     r.HotelName,
		RFPName:       r.RFPName,
		AgreementType: r.AgreementType,
		CutOffDate:    r.CutOffDate,
		Status:        r.Status,
		CutOffMonth:   domain.MonthAbbreviation(r.CutOffDate),
		CutOffDay:     domain.DayOfMonth(r.CutOffDate),
		BookingCount:  r.BookingCount(),
	}
	if in, out, ok := domain.StayWindow(r.Bookings); ok {
		c.CheckInDate = in
		c.CheckOutDate = out
		c.StayRange = domain.FormatDateRange(in, out)
	}
	return c
}

type EventGroupModel struct {
	EventID   domain.ID         `json:"eventId"`
	EventName string            `json:"eventName"`
	Color     string            `json:"color"`
	Items     []RoomingListCard `json:"items"`
}

func NewEventGroupModels(groups []domain.EventGroup) []EventGroupModel {
	out := make([]EventGroupModel, 0, len(groups))
	for i, g := range groups {
		items := make([]RoomingListCard, 0, len(g.Items))
		for _, r := range g.Items {
			items = append(items, NewRoomingListCard(r))
		}
		out = append(out, EventGroupModel{
			EventID:   g.EventID,
			EventName: g.EventName,
			Color:     ColorForIndex(i),
			Items:     items,
		})
	}
	return out
}

type QueryModel struct {
	Search   string   `json:"search"`
	Statuses []string `json:"statuses"`
}

// GetRoomingListsModel is the GET /api/rooming-lists result.
type GetRoomingListsModel struct {
	Query    QueryModel        `json:"query"`
	Groups   []EventGroupModel `json:"groups"`
	Matched  int               `json:"matched"`
	Total    int               `json:"total"`
	Summary  string            `json:"summary"`
	Statuses []string          `json:"statuses"`
}

// NewGetRoomingListsModel builds the list result for the given query.
// A nil status filter is reported as an empty list.
func NewGetRoomingListsModel(search string, statuses []string, groups []domain.EventGroup, matched, total int, catalogStatuses []string) GetRoomingListsModel {
	if statuses == nil {
		statuses = []string{}
	}
	return GetRoomingListsModel{
		Query:    QueryModel{Search: search, Statuses: statuses},
		Groups:   NewEventGroupModels(groups),
		Matched:  matched,
		Total:    total,
		Summary:  Summary(matched, total),
		Statuses: catalogStatuses,
	}
}

func Summary(matched, total int) string {
	return fmt.Sprintf("Showing %d of %d", matched, total)
}

// HealthModel is the /healthz result.
type HealthModel struct {
	Status        string `json:"status"`
	CatalogLoaded bool   `json:"catalog_loaded"`
	Records       int    `json:"records"`
	LoadedAt      string `json:"loaded_at,omitempty"`
}
