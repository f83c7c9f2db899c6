package infra

// report.go — Inventory overview PDF using go-pdf/fpdf.
// A4 portrait: counters header, then the low-stock table
// (name, category, quantity, threshold, location).

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stockatelier/internal/dto"
	"stockatelier/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerateInventoryReport writes the stock overview PDF into storagePath
// (created if needed) and returns the absolute path of the generated file.
func GenerateInventoryReport(stats *dto.DashboardStats, lowStock []model.StockItem, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("report: create storage dir: %w", err)
	}

	now := time.Now()
	filePath := filepath.Join(storagePath, fmt.Sprintf("inventory_%s.pdf", now.Format("20060102_150405")))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 10, "Inventory Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, now.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// ── Counters ─────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Stock items: %d", stats.TotalProducts), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Low stock: %d", stats.LowStock), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Machines: %d", stats.Machines), "", 1, "L", false, 0, "")
	for _, c := range stats.ByCategory {
		pdf.CellFormat(contentW, 6, fmt.Sprintf("  %s: %d", c.Category, c.Count), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	// ── Low-stock table ───────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(contentW, 8, "Items at or below alert threshold", "", 1, "L", false, 0, "")

	col1 := contentW * 0.34 // name
	col2 := contentW * 0.16 // category
	col3 := contentW * 0.13 // quantity
	col4 := contentW * 0.14 // threshold
	col5 := contentW * 0.23 // location

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Name", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Qty", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 6, "Alert", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col5, 6, "Location", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range lowStock {
		name := item.Name
		if len(name) > 34 {
			name = name[:33] + "…"
		}
		pdf.CellFormat(col1, 6, name, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 6, item.Category, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 6, fmt.Sprint(item.Quantity), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 6, fmt.Sprint(item.AlertThreshold), "", 0, "R", false, 0, "")
		pdf.CellFormat(col5, 6, item.Location, "", 1, "L", false, 0, "")
	}
	if len(lowStock) == 0 {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(contentW, 6, "Nothing below threshold.", "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("report: write file: %w", err)
	}
	return filePath, nil
}
