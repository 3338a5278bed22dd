package printer

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/xelth-com/recoverydesk/internal/models"
)

// ErrNoTags is returned when there is nothing to print
var ErrNoTags = errors.New("no job tags to print")

// LabelConfig holds the sheet layout for job tags
type LabelConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
	// QRPrefix is prepended to the job id in the QR payload
	QRPrefix string `json:"qrPrefix"`
}

// WithDefaults fills zero layout values with a 2x5 A4 sheet
func (c LabelConfig) WithDefaults() LabelConfig {
	if c.Cols <= 0 {
		c.Cols = 2
	}
	if c.Rows <= 0 {
		c.Rows = 5
	}
	if c.MarginTop == 0 {
		c.MarginTop = 10
	}
	if c.MarginLeft == 0 {
		c.MarginLeft = 8
	}
	if c.GapX == 0 {
		c.GapX = 4
	}
	if c.GapY == 0 {
		c.GapY = 4
	}
	return c
}

// JobTag is what gets printed on the sticker attached to a drive
type JobTag struct {
	JobID        string
	CustomerName string
	PhoneNumber  string
	Device       string
	SerialNumber string
	ReceivedDate string
}

// TagFromMaster builds a tag from the merged job view
func TagFromMaster(m models.MasterRecordData) JobTag {
	return JobTag{
		JobID:        m.JobID,
		CustomerName: m.CustomerName,
		PhoneNumber:  m.PhoneNumber,
		Device:       strings.TrimSpace(m.Model + " " + m.Capacity),
		SerialNumber: m.SerialNumber,
		ReceivedDate: m.ReceivedDate,
	}
}

// GenerateJobTagsPDF lays the tags out on A4 pages, one QR code per tag
func GenerateJobTagsPDF(tags []JobTag, cfg LabelConfig) ([]byte, error) {
	if len(tags) == 0 {
		return nil, ErrNoTags
	}
	cfg = cfg.WithDefaults()

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY
	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, tag := range tags {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrPng, err := qrcode.Encode(cfg.QRPrefix+tag.JobID, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode qr for %s: %w", tag.JobID, err)
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

		// QR on the left, text block on the right
		qrSize := labelH * 0.8
		if qrSize > labelW*0.45 {
			qrSize = labelW * 0.45
		}
		qrY := y + (labelH-qrSize)/2
		pdf.ImageOptions(imgName, x+2, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		textX := x + qrSize + 4
		textW := labelW - qrSize - 6

		pdf.SetXY(textX, y+4)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(textW, 7, tag.JobID, "", 2, "L", false, 0, "")

		pdf.SetFont("Arial", "", 8)
		for _, line := range tagLines(tag) {
			pdf.SetX(textX)
			pdf.CellFormat(textW, 4.5, tr(line), "", 2, "L", false, 0, "")
		}

		pdf.Rect(x, y, labelW, labelH, "D")
	}

	if err := pdf.Error(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tagLines(tag JobTag) []string {
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Customer", tag.CustomerName)
	add("Phone", tag.PhoneNumber)
	add("Device", tag.Device)
	add("S/N", tag.SerialNumber)
	add("Received", tag.ReceivedDate)
	return lines
}
