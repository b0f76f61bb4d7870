package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

// tableColumn describes one column of the item table. A width of zero
// means "auto": the leftover width is split evenly among auto columns.
type tableColumn struct {
	header string
	width  float64
	left   bool // left-aligned; everything else is centered
}

var itemColumns = []tableColumn{
	{header: "No.\nItem", width: 12},
	{header: "Id do documento", width: 40},
	{header: "Tipo de serviço", left: true},
	{header: "Qtd", width: 12},
	{header: "Qtd fiscais", width: 18},
	{header: "Pontuação parcial", width: 28},
	{header: "Pontuação Total", width: 28},
	{header: "Observações", left: true},
}

// drawItemTable flows the line items across pages, repeating the header
// row on every continuation page, and returns the Y coordinate of the
// last drawn row's bottom edge.
func (c *Composer) drawItemTable(pdf *gofpdf.Fpdf, tr func(string) string, items []models.LineItem, pageW, pageH float64) float64 {
	widths := columnWidths(pageW - marginX*2)

	pdf.SetFont(fontFamily, "B", tableFontPt)
	headerCells := make([][]string, len(itemColumns))
	for i, col := range itemColumns {
		headerCells[i] = wrapCell(pdf, tr(col.header), widths[i]-tableCellPad*2)
	}

	y := tableStartY
	y = drawRow(pdf, headerCells, widths, y, true, false)

	for idx, item := range items {
		pdf.SetFont(fontFamily, "", tableFontPt)
		cells := make([][]string, len(itemColumns))
		for i, value := range itemCells(idx, item) {
			cells[i] = wrapCell(pdf, tr(value), widths[i]-tableCellPad*2)
		}

		rowH := rowHeight(cells)
		if y+rowH > pageH-tableBottom {
			pdf.AddPage()
			y = 20
			pdf.SetFont(fontFamily, "B", tableFontPt)
			y = drawRow(pdf, headerCells, widths, y, true, false)
			pdf.SetFont(fontFamily, "", tableFontPt)
		}

		y = drawRow(pdf, cells, widths, y, false, idx%2 == 1)
	}

	return y
}

// itemCells renders one line item into its eight column values. The
// per-item score is printed twice (partial and total columns) on
// purpose; do not collapse them.
func itemCells(idx int, item models.LineItem) []string {
	description := serviceNotFound
	if item.Service != nil && item.Service.Description != "" {
		description = item.Service.Description
	}

	quantity := item.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	score := fmt.Sprintf("%.2f", item.ComputedScore)

	return []string{
		strconv.Itoa(idx + 1),
		item.DocumentID,
		description,
		strconv.FormatFloat(quantity, 'f', -1, 64),
		strconv.Itoa(item.FiscalCount),
		score,
		score,
		item.Notes,
	}
}

// drawRow paints a single row (optionally shaded) and returns the Y of
// its bottom edge. Cells are pre-wrapped into lines.
func drawRow(pdf *gofpdf.Fpdf, cells [][]string, widths []float64, y float64, header, shaded bool) float64 {
	rowH := rowHeight(cells)

	if header {
		pdf.SetFillColor(240, 240, 240)
		pdf.Rect(marginX, y, sum(widths), rowH, "F")
	} else if shaded {
		pdf.SetFillColor(250, 250, 250)
		pdf.Rect(marginX, y, sum(widths), rowH, "F")
	}

	x := marginX
	for i, lines := range cells {
		for k, line := range lines {
			baseline := y + tableCellPad + float64(k)*tableLineHt + tableLineHt*0.75
			tx := x + tableCellPad
			if header || !itemColumns[i].left {
				tx = x + (widths[i]-pdf.GetStringWidth(line))/2
			}
			pdf.Text(tx, baseline, line)
		}
		x += widths[i]
	}

	return y + rowH
}

func rowHeight(cells [][]string) float64 {
	maxLines := 1
	for _, lines := range cells {
		if len(lines) > maxLines {
			maxLines = len(lines)
		}
	}
	return float64(maxLines)*tableLineHt + tableCellPad*2
}

// wrapCell splits already-translated text on explicit newlines, then to
// the cell's inner width using the current font. Translated text is
// cp1252 bytes, so wrapping must go through the byte-oriented
// SplitLines; SplitText decodes runes and cannot take codepage bytes.
func wrapCell(pdf *gofpdf.Fpdf, text string, width float64) []string {
	if text == "" {
		return []string{""}
	}
	var lines []string
	for _, part := range strings.Split(text, "\n") {
		if part == "" {
			lines = append(lines, "")
			continue
		}
		for _, line := range pdf.SplitLines([]byte(part), width) {
			lines = append(lines, string(line))
		}
	}
	return lines
}

func columnWidths(tableWidth float64) []float64 {
	widths := make([]float64, len(itemColumns))
	fixed := 0.0
	autoCount := 0
	for i, col := range itemColumns {
		widths[i] = col.width
		if col.width == 0 {
			autoCount++
		} else {
			fixed += col.width
		}
	}
	if autoCount > 0 {
		auto := (tableWidth - fixed) / float64(autoCount)
		for i := range widths {
			if widths[i] == 0 {
				widths[i] = auto
			}
		}
	}
	return widths
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
