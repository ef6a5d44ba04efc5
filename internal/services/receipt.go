package services

import (
	"bytes"
	"fmt"

	"dormdesk/internal/models"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

func renderReceipt(org *models.Organization, resident *models.Resident, room *models.Room, b *models.Billing) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, org.Name)
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	if org.Address != "" {
		pdf.Cell(0, 5, org.Address)
		pdf.Ln(5)
	}
	if org.Phone != "" {
		pdf.Cell(0, 5, "Tel: "+org.Phone)
		pdf.Ln(5)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Receipt No: %s", b.ID.String()))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Billing Month: %s", b.BillingMonth))
	pdf.Ln(6)
	if b.PaidAt != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Paid On: %s", b.PaidAt.Format("02-Jan-2006")))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "RECEIVED FROM:")
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, resident.FullName)
	pdf.Ln(6)
	if room != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Room %s, floor %d", room.Number, room.Floor))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	headers := []string{"Description", "Units", "Amount"}
	colWidths := []float64{100, 30, 40}
	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label  string
		units  *decimal.Decimal
		amount decimal.Decimal
	}{
		{"Rent", nil, b.RentAmount},
		{"Water", &b.WaterUnits, b.WaterAmount},
		{"Electricity", &b.ElectricUnits, b.ElectricAmount},
		{"Other charges", nil, b.OtherAmount},
	}
	for _, line := range lines {
		units := ""
		if line.units != nil {
			units = line.units.StringFixed(2)
		}
		pdf.CellFormat(colWidths[0], 8, line.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, units, "1", 0, "R", false, 0, "")
		pdf.CellFormat(colWidths[2], 8, line.amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.Ln(3)

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(130, 8, "TOTAL PAID:", "", 0, "R", false, 0, "")
	pdf.CellFormat(40, 8, b.TotalAmount.StringFixed(2), "", 0, "R", false, 0, "")
	pdf.Ln(14)

	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(128, 128, 128)
	pdf.Cell(0, 5, "This is a computer generated receipt.")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate receipt: %w", err)
	}
	return buf.Bytes(), nil
}
