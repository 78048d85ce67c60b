package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// excelBuilder is a thin cursor over an excelize workbook: one active
// sheet, rows appended top to bottom.
type excelBuilder struct {
	file  *excelize.File
	sheet string
	row   int
}

func newExcelBuilder() *excelBuilder {
	return &excelBuilder{file: excelize.NewFile()}
}

func (b *excelBuilder) addSheet(name string) error {
	if len(name) > 31 {
		name = name[:31]
	}
	if b.sheet == "" {
		b.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := b.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	b.sheet = name
	b.row = 1
	return nil
}

func (b *excelBuilder) writeHeader(columns []string) error {
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, b.row)
		if err != nil {
			return err
		}
		if err := b.file.SetCellValue(b.sheet, cell, col); err != nil {
			return err
		}
	}
	style, err := b.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, b.row)
		endCell, _ := excelize.CoordinatesToCellName(len(columns), b.row)
		_ = b.file.SetCellStyle(b.sheet, startCell, endCell, style)
	}
	b.row++
	return nil
}

func (b *excelBuilder) writeRow(values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, b.row)
		if err != nil {
			return err
		}
		if err := b.file.SetCellValue(b.sheet, cell, val); err != nil {
			return err
		}
	}
	b.row++
	return nil
}

// WriteExcel renders the metrics as an xlsx workbook with one sheet per
// report section.
func WriteExcel(m Metrics, w io.Writer) error {
	b := newExcelBuilder()
	defer b.file.Close()

	if err := b.addSheet("Summary"); err != nil {
		return err
	}
	if err := b.writeHeader([]string{"Metric", "Value"}); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Period start", m.Window.Start},
		{"Period end", m.Window.End},
		{"Total revenue", m.TotalRevenue},
		{"Appointments", m.AppointmentCount},
		{"Average transaction", m.AvgTransaction},
		{"Clients", m.Clients.Total},
		{"New clients", m.Clients.New},
		{"Returning clients", m.Clients.Returning},
	}
	for _, row := range summary {
		if err := b.writeRow(row); err != nil {
			return err
		}
	}

	if err := b.addSheet("Services"); err != nil {
		return err
	}
	if err := b.writeHeader([]string{"Service", "Bookings", "Revenue"}); err != nil {
		return err
	}
	for _, sr := range m.RevenueByService {
		if err := b.writeRow([]interface{}{sr.Name, sr.Count, sr.Revenue}); err != nil {
			return err
		}
	}

	if err := b.addSheet("Staff"); err != nil {
		return err
	}
	if err := b.writeHeader([]string{"Technician", "Appointments", "Revenue", "Hours", "Avg revenue"}); err != nil {
		return err
	}
	for _, sp := range m.StaffPerformance {
		if err := b.writeRow([]interface{}{sp.Name, sp.Count, sp.Revenue, sp.Hours, sp.AvgRevenue}); err != nil {
			return err
		}
	}

	if err := b.addSheet("Popularity"); err != nil {
		return err
	}
	if err := b.writeHeader([]string{"Service", "Bookings"}); err != nil {
		return err
	}
	for _, sp := range m.TopServices {
		if err := b.writeRow([]interface{}{sp.Name, sp.Count}); err != nil {
			return err
		}
	}

	if err := b.file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
