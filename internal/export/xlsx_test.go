package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/homefix/internal/dto"
)

func TestBookingsXLSX(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 30, 0, 0, time.UTC)
	rows := []dto.BookingListDTO{
		{ID: 1, Reference: "ref-1", Date: "2026-06-10", TimeSlot: "10:00-12:00", Status: "confirmed",
			CustomerName: "John Smith", ServiceName: "Plumbing Repair", TechnicianName: "Mike Johnson", Price: 89},
		{ID: 2, Reference: "ref-2", Status: "cancelled"},
	}

	raw, err := BookingsXLSX(rows, now)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetName}, f.GetSheetList())

	v, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "Reference", v)

	v, err = f.GetCellValue(sheetName, "F3")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", v)

	v, err = f.GetCellValue(sheetName, "E4")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", v)

	assert.Equal(t, "bookings_2026-06-01.xlsx", FileName(now))
}
