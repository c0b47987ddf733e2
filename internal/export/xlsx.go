package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/BruksfildServices01/homefix/internal/dto"
)

const sheetName = "Bookings"

var headers = []string{
	"ID", "Reference", "Date", "Time slot", "Status",
	"Customer", "Customer email", "Service", "Technician", "Address", "Price",
}

// BookingsXLSX renders the admin bookings list as a spreadsheet.
func BookingsXLSX(rows []dto.BookingListDTO, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings export %s", generatedAt.Format("2006-01-02 15:04")))
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cell, h)
		if err == nil {
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
	}

	for r, b := range rows {
		values := []any{
			b.ID, b.Reference, b.Date, b.TimeSlot, b.Status,
			b.CustomerName, b.CustomerEmail, b.ServiceName, b.TechnicianName, b.Address, b.Price,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+3)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "B", 38)
	f.SetColWidth(sheetName, "C", "K", 20)

	f.DeleteSheet("Sheet1")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func FileName(now time.Time) string {
	return fmt.Sprintf("bookings_%s.xlsx", now.Format("2006-01-02"))
}
