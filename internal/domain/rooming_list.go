package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is an identifier that arrives either as a JSON string or a JSON number.
// It is always written back as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Booking is one room booking inside a rooming list.
type Booking struct {
	BookingID        int    `json:"bookingId,omitempty"`
	GuestName        string `json:"guestName,omitempty"`
	GuestPhoneNumber string `json:"guestPhoneNumber,omitempty"`
	CheckInDate      string `json:"checkInDate"`
	CheckOutDate     string `json:"checkOutDate"`
}

// RoomingList is one RFP room block for an event at a hotel.
// RoomingListID is the identity and never changes.
type RoomingList struct {
	RoomingListID int       `json:"roomingListId"`
	EventID       ID        `json:"eventId"`
	EventName     string    `json:"eventName"`
	HotelID       ID        `json:"hotelId"`
	HotelName     string    `json:"hotelName,omitempty"`
	RFPName       string    `json:"rfpName"`
	AgreementType string    `json:"agreementType"`
	CutOffDate    string    `json:"cutOffDate"`
	Status        string    `json:"status"`
	Bookings      []Booking `json:"bookings"`
}

// UnmarshalJSON also accepts the snake_case agreement_type key used by older
// data exports.
func (r *RoomingList) UnmarshalJSON(b []byte) error {
	type alias RoomingList
	aux := struct {
		*alias
		AgreementTypeSnake string `json:"agreement_type"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if r.AgreementType == "" {
		r.AgreementType = aux.AgreementTypeSnake
	}
	if r.Bookings == nil {
		r.Bookings = []Booking{}
	}
	return nil
}

// BookingCount returns the number of bookings.
func (r *RoomingList) BookingCount() int {
	return len(r.Bookings)
}

// EventGroup is a derived partition of rooming lists sharing one EventID.
type EventGroup struct {
	EventID   ID             `json:"eventId"`
	EventName string         `json:"eventName"`
	Items     []*RoomingList `json:"items"`
}

// DecodeRoomingLists parses a JSON array of rooming lists.
func DecodeRoomingLists(data []byte) ([]*RoomingList, error) {
	var lists []*RoomingList
	if err := json.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("failed to decode rooming lists: %w", err)
	}
	out := lists[:0]
	for _, l := range lists {
		if l != nil {
			out = append(out, l)
		}
	}
	return out, nil
}
