package repository

import (
	"context"
	"database/sql"
	"fmt"

	"rooming-data/internal/domain"
)

// SQLRoomingListsRepo reads rooming_lists and rooming_list_bookings. The
// queries take no parameters so they run unchanged on Postgres and SQLite.
type SQLRoomingListsRepo struct {
	db *sql.DB
}

func NewSQLRoomingListsRepo(db *sql.DB) *SQLRoomingListsRepo {
	return &SQLRoomingListsRepo{db: db}
}

var _ RoomingListsRepository = (*SQLRoomingListsRepo)(nil)

const selectRoomingLists = `
	SELECT
		rooming_list_id,
		event_id,
		event_name,
		hotel_id,
		hotel_name,
		rfp_name,
		agreement_type,
		cut_off_date,
		status
	FROM rooming_lists
	ORDER BY rooming_list_id
`

const selectRoomingListBookings = `
	SELECT
		booking_id,
		rooming_list_id,
		guest_name,
		guest_phone_number,
		check_in_date,
		check_out_date
	FROM rooming_list_bookings
	ORDER BY rooming_list_id, booking_id
`

func (r *SQLRoomingListsRepo) ListRoomingLists(ctx context.Context) ([]*domain.RoomingList, error) {
	rows, err := r.db.QueryContext(ctx, selectRoomingLists)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooming lists: %w", err)
	}
	defer rows.Close()

	lists := make([]*domain.RoomingList, 0)
	byID := make(map[int]*domain.RoomingList)
	for rows.Next() {
		var (
			l         domain.RoomingList
			eventID   string
			hotelID   string
			hotelName sql.NullString
			cutOff    sql.NullString
		)
		if err := rows.Scan(
			&l.RoomingListID,
			&eventID,
			&l.EventName,
			&hotelID,
			&hotelName,
			&l.RFPName,
			&l.AgreementType,
			&cutOff,
			&l.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rooming list: %w", err)
		}
		l.EventID = domain.ID(eventID)
		l.HotelID = domain.ID(hotelID)
		l.HotelName = hotelName.String
		l.CutOffDate = normalizeDate(cutOff.String)
		l.Bookings = []domain.Booking{}
		lists = append(lists, &l)
		byID[l.RoomingListID] = &l
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rooming lists: %w", err)
	}

	if err := r.attachBookings(ctx, byID); err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *SQLRoomingListsRepo) attachBookings(ctx context.Context, byID map[int]*domain.RoomingList) error {
	rows, err := r.db.QueryContext(ctx, selectRoomingListBookings)
	if err != nil {
		return fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			b             domain.Booking
			roomingListID int
			guestName     sql.NullString
			guestPhone    sql.NullString
			checkIn       sql.NullString
			checkOut      sql.NullString
		)
		if err := rows.Scan(&b.BookingID, &roomingListID, &guestName, &guestPhone, &checkIn, &checkOut); err != nil {
			return fmt.Errorf("failed to scan booking: %w", err)
		}
		l, ok := byID[roomingListID]
		if !ok {
			continue
		}
		b.GuestName = guestName.String
		b.GuestPhoneNumber = guestPhone.String
		b.CheckInDate = normalizeDate(checkIn.String)
		b.CheckOutDate = normalizeDate(checkOut.String)
		l.Bookings = append(l.Bookings, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return nil
}

// normalizeDate turns driver date renderings (e.g. RFC3339 from DATE columns)
// back into YYYY-MM-DD. Unparseable values pass through.
func normalizeDate(s string) string {
	if s == "" {
		return s
	}
	t, err := domain.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
