// Package reports renders the shop's tabular reports as spreadsheets.
package reports

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xelth-com/recoverydesk/internal/models"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of the generated workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// header row of the data table
const headerRow = 4

type column struct {
	label string
	width float64
}

var deliveryColumns = []column{
	{"Job ID", 12},
	{"Date", 12},
	{"Customer", 24},
	{"Phone", 16},
	{"Device", 24},
	{"Serial Number", 20},
	{"Status", 14},
	{"Delivered To", 24},
	{"Delivery Mode", 18},
	{"Inward Date", 12},
	{"Completed Date", 14},
	{"Estimated Amount", 16},
}

var backupColumns = []column{
	{"Job ID", 12},
	{"Customer", 24},
	{"Phone", 16},
	{"Device", 24},
	{"Serial Number", 20},
	{"Complaint", 32},
	{"Received Date", 14},
	{"Status", 14},
	{"Estimated Amount", 16},
	{"Created At", 22},
	{"Notes", 32},
}

// DeliveryReportWorkbook renders the delivery report
func DeliveryReportWorkbook(rows []models.DeliveryReport, generated time.Time) (*bytes.Buffer, error) {
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.JobID,
			r.Date,
			r.CustomerName,
			r.PhoneNumber,
			r.DeviceInfo,
			r.SerialNumber,
			r.Status.Label(),
			r.DeliveredTo,
			string(r.DeliveryMode),
			r.InwardDate,
			r.CompletedDate,
			amountCell(r.EstimatedAmount),
		})
	}
	return workbook("Delivery Report", deliveryColumns, data, generated)
}

// BackupJobDataWorkbook renders the business analytics rows
func BackupJobDataWorkbook(rows []models.BackupJobData, generated time.Time) (*bytes.Buffer, error) {
	data := make([][]any, 0, len(rows))
	for _, r := range rows {
		data = append(data, []any{
			r.JobID,
			r.CustomerName,
			r.PhoneNumber,
			r.DeviceInfo,
			r.SerialNumber,
			r.Complaint,
			r.ReceivedDate,
			r.Status.Label(),
			amountCell(r.EstimatedAmount),
			r.CreatedAt,
			r.Notes,
		})
	}
	return workbook("Business Analytics", backupColumns, data, generated)
}

func amountCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func workbook(title string, cols []column, rows [][]any, generated time.Time) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := title
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 16},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, err
	}

	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellStyle(sheet, "A1", "A1", titleStyle)
	_ = f.SetRowHeight(sheet, 1, 30)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04:05")))

	for i, c := range cols {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, c.label)
		_ = f.SetCellStyle(sheet, cell, cell, headerStyle)
		_ = f.SetColWidth(sheet, name, name, c.width)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, headerRow+1+r)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	totalCell, _ := excelize.CoordinatesToCellName(1, headerRow+len(rows)+2)
	_ = f.SetCellValue(sheet, totalCell, fmt.Sprintf("Total records: %d", len(rows)))

	return f.WriteToBuffer()
}
