package repository

import (
	"context"
	"database/sql"
	"testing"

	"rooming-data/internal/common/database"
	"rooming-data/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLRoomingListsRepo_Mock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+rooming_list_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"rooming_list_id", "event_id", "event_name", "hotel_id", "hotel_name",
			"rfp_name", "agreement_type", "cut_off_date", "status",
		}).
			AddRow(1, "E1", "Spring Expo", "10", "Grand", "Ultra Gala", "leisure", "2025-09-30T00:00:00Z", "Approved").
			AddRow(2, "E2", "Fall Expo", "11", nil, "Rolling Block", "staff", "2025-08-15", "Pending"))
	mock.ExpectQuery(`SELECT\s+booking_id`).
		WillReturnRows(sqlmock.NewRows([]string{
			"booking_id", "rooming_list_id", "guest_name", "guest_phone_number", "check_in_date", "check_out_date",
		}).
			AddRow(7, 1, "Ann", nil, "2025-10-01", "2025-10-04").
			AddRow(8, 99, "Orphan", nil, "2025-10-01", "2025-10-02"))

	lists, err := NewSQLRoomingListsRepo(db).ListRoomingLists(context.Background())
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, "2025-09-30", lists[0].CutOffDate)
	assert.Equal(t, "Grand", lists[0].HotelName)
	require.Len(t, lists[0].Bookings, 1)
	assert.Equal(t, "Ann", lists[0].Bookings[0].GuestName)
	assert.Empty(t, lists[1].HotelName)
	assert.Empty(t, lists[1].Bookings)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLRoomingListsRepo_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(sql.ErrConnDone)

	_, err = NewSQLRoomingListsRepo(db).ListRoomingLists(context.Background())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestSQLRoomingListsRepo_SQLite(t *testing.T) {
	db, err := database.NewSQLiteDB(":memory:")
	require.NoError(t, err)
	defer database.Close(db)

	ctx := context.Background()
	for _, stmt := range []string{
		`CREATE TABLE rooming_lists (
			rooming_list_id INTEGER PRIMARY KEY,
			event_id TEXT NOT NULL,
			event_name TEXT NOT NULL,
			hotel_id TEXT NOT NULL,
			hotel_name TEXT,
			rfp_name TEXT NOT NULL,
			agreement_type TEXT NOT NULL,
			cut_off_date DATE,
			status TEXT NOT NULL
		)`,
		`CREATE TABLE rooming_list_bookings (
			booking_id INTEGER PRIMARY KEY,
			rooming_list_id INTEGER NOT NULL,
			guest_name TEXT,
			guest_phone_number TEXT,
			check_in_date DATE,
			check_out_date DATE
		)`,
		`INSERT INTO rooming_lists VALUES (1, 'E1', 'Spring Expo', '10', 'Grand', 'Ultra Gala', 'leisure', '2025-09-30', 'Approved')`,
		`INSERT INTO rooming_lists VALUES (2, 'E2', 'Fall Expo', '11', NULL, 'Rolling Block', 'staff', '2025-08-15', 'Pending')`,
		`INSERT INTO rooming_list_bookings VALUES (5, 1, 'Ann', '555-0100', '2025-10-01', '2025-10-04')`,
		`INSERT INTO rooming_list_bookings VALUES (6, 1, 'Bo', NULL, '2025-10-02', '2025-10-05')`,
	} {
		_, err := db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}

	lists, err := NewSQLRoomingListsRepo(db).ListRoomingLists(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	assert.Equal(t, domain.ID("E1"), lists[0].EventID)
	assert.Equal(t, "2025-09-30", lists[0].CutOffDate)
	require.Len(t, lists[0].Bookings, 2)
	assert.Equal(t, "2025-10-01", lists[0].Bookings[0].CheckInDate)
	assert.Equal(t, "555-0100", lists[0].Bookings[0].GuestPhoneNumber)
	assert.Equal(t, 0, lists[1].BookingCount())
}
