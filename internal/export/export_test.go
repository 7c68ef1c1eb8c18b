package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"rooming-data/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func groups() []domain.EventGroup {
	return []domain.EventGroup{
		{EventID: "E2", EventName: "Fall Expo", Items: []*domain.RoomingList{
			{RoomingListID: 2, EventID: "E2", RFPName: "Rolling Block", AgreementType: "staff", Status: "Pending", CutOffDate: "2025-08-15"},
		}},
		{EventID: "E1", EventName: "Spring Expo", Items: []*domain.RoomingList{
			{RoomingListID: 1, EventID: "E1", RFPName: "Ultra Gala", AgreementType: "leisure", Status: "Approved", CutOffDate: "2025-09-30",
				Bookings: []domain.Booking{{CheckInDate: "2025-10-01", CheckOutDate: "2025-10-04"}}},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "rooming-lists.csv", f.Filename())

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRender_CSV(t *testing.T) {
	b, err := Render(FormatCSV, groups())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(b)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header, records[0])
	assert.Equal(t, "Fall Expo", records[1][0])
	assert.Equal(t, "Ultra Gala", records[2][2])
	assert.Equal(t, "2025-10-01", records[2][6])
	assert.Equal(t, "1", records[2][8])
}

func TestRender_XLSX(t *testing.T) {
	b, err := Render(FormatXLSX, groups())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rooming Lists")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Event", rows[0][0])
	assert.Equal(t, "Rolling Block", rows[1][2])
	assert.Equal(t, "Spring Expo", rows[2][0])
}
