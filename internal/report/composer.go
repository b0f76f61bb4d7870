// Package report renders a productivity record into a paginated,
// landscape PDF artifact. Layout is fully deterministic: every position
// derives from measured text widths and the fixed page geometry, so the
// same record and profile always produce the same document.
package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

const (
	fontFamily = "Helvetica"

	marginX      = 20.0
	tableStartY  = 75.0
	tableBottom  = 20.0 // table flow breaks against pageH - tableBottom
	notesBottom  = 30.0 // notes flow breaks against pageH - notesBottom
	notesLineHt  = 7.0
	tableFontPt  = 7.0
	tableLineHt  = 3.0
	tableCellPad = 2.0

	serviceNotFound = "Serviço não encontrado"
	totalLabel      = "TOTAL GERAL DE PONTOS:"
	notesLabel      = "Observações:"

	// maximum wrapped notes lines repeated near the bottom of the last page
	trailingNotesLines = 6
)

// months holds pt-BR abbreviations for the emission date (dd/MMM/yyyy).
var months = [...]string{"jan", "fev", "mar", "abr", "mai", "jun", "jul", "ago", "set", "out", "nov", "dez"}

// Artifact is a fully rendered downloadable document.
type Artifact struct {
	Filename string
	Content  []byte
	Pages    int
}

// Composer lays out productivity reports. It is stateless across calls;
// one instance can serve any number of sequential compositions.
type Composer struct {
	orgName  string
	deptName string
	logger   *zap.Logger
}

// NewComposer wires a composer with the organization header lines.
func NewComposer(orgName, deptName string, logger *zap.Logger) *Composer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Composer{orgName: orgName, deptName: deptName, logger: logger}
}

// Filename builds the deterministic artifact name from the record's
// period and sequential number.
func Filename(period string, recordNumber int64) string {
	return fmt.Sprintf("report_%s_%d.pdf", strings.ReplaceAll(period, "/", "_"), recordNumber)
}

// Compose renders the record into a complete PDF. It never fails on
// degenerate content: unresolved services, absent matricula and absent
// notes all have fallback renderings. now feeds the emission date and
// the generation footer only; it has no influence on pagination.
func (c *Composer) Compose(rec models.ProductivityRecord, profile models.UserProfile, now time.Time) (*Artifact, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetCreationDate(now)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Header block, page 1 only.
	pdf.SetFont(fontFamily, "B", 12)
	textCentered(pdf, pageW/2, 20, tr(c.orgName))
	textCentered(pdf, pageW/2, 28, tr(c.deptName))

	pdf.SetFont(fontFamily, "B", 14)
	textCentered(pdf, pageW/2, 40, tr("RELATÓRIO DE PRODUTIVIDADE"))

	pdf.SetLineWidth(0.5)
	pdf.Line(marginX, 45, pageW-marginX, 45)

	pdf.SetFont(fontFamily, "", 10)
	pdf.Text(marginX, 55, tr("Fiscal: "+profile.Name))
	pdf.Text(marginX, 62, tr("Matrícula: "+matriculaDisplay(profile)))
	pdf.Text(pageW-80, 55, tr("Competência: "+rec.Period))
	pdf.Text(pageW-80, 62, tr("Data de emissão: "+emissionDate(now)))

	tableEndY := c.drawItemTable(pdf, tr, rec.Items, pageW, pageH)

	// Grand total, right-aligned below the table.
	finalY := tableEndY + 10
	pdf.SetFont(fontFamily, "B", 10)
	total := fmt.Sprintf("%s %.2f", totalLabel, rec.TotalPoints)
	pdf.Text(pageW-60-pdf.GetStringWidth(tr(total)), finalY, tr(total))

	// Leading notes block with per-line pagination.
	if rec.Notes != "" {
		cursorY := finalY + 15
		if cursorY+10 > pageH-notesBottom {
			pdf.AddPage()
			cursorY = 20
		}
		pdf.SetFont(fontFamily, "B", 10)
		pdf.Text(marginX, cursorY, tr(notesLabel))
		cursorY += 8

		pdf.SetFont(fontFamily, "", 10)
		for _, line := range wrapNotes(pdf, tr(rec.Notes), pageW-marginX*2) {
			if cursorY+notesLineHt > pageH-notesBottom {
				pdf.AddPage()
				cursorY = 20
			}
			pdf.Text(marginX, cursorY, line)
			cursorY += notesLineHt
		}
	}

	// Per-page footer with the fiscal's name, truncated to fit.
	totalPages := pdf.PageCount()
	pageCountY := pageH - 12
	pdf.SetFont(fontFamily, "", 8)
	for i := 1; i <= totalPages; i++ {
		pdf.SetPage(i)
		label := pageLabel(profile.Name, i, totalPages, pageW-40, func(s string) float64 {
			return pdf.GetStringWidth(tr(s))
		})
		pdf.Text(pageW-marginX-pdf.GetStringWidth(tr(label)), pageCountY, tr(label))
	}

	// Generation footer, last page only.
	pdf.SetPage(totalPages)
	rodapeY := pageH - 20
	pdf.SetFont(fontFamily, "I", 8)
	generated := "Relatório gerado em " + now.Format("02/01/2006 15:04")
	textCentered(pdf, pageW/2, rodapeY, tr(generated))

	// Trailing notes excerpt: the last few wrapped lines repeated above
	// the generation footer, clamped so it stays below the main content.
	if rec.Notes != "" {
		lastLines, bottomStartY := trailingExcerpt(wrapNotes(pdf, tr(rec.Notes), pageW-marginX*2), rodapeY, finalY)

		pdf.SetFont(fontFamily, "B", 8)
		pdf.Text(marginX, bottomStartY, tr(notesLabel))
		y := bottomStartY + 6
		pdf.SetFont(fontFamily, "", 8)
		for _, line := range lastLines {
			pdf.Text(marginX, y, line)
			y += notesLineHt
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	artifact := &Artifact{
		Filename: Filename(rec.Period, rec.RecordNumber),
		Content:  buf.Bytes(),
		Pages:    totalPages,
	}

	c.logger.Debug("report composed",
		zap.String("filename", artifact.Filename),
		zap.Int("pages", artifact.Pages),
		zap.Int("items", len(rec.Items)))

	return artifact, nil
}

// wrapNotes wraps translated notes text to the given width at the
// current font. The text is cp1252 bytes after translation, so the
// wrapping has to stay byte oriented.
func wrapNotes(pdf *gofpdf.Fpdf, text string, width float64) []string {
	raw := pdf.SplitLines([]byte(text), width)
	lines := make([]string, len(raw))
	for i, b := range raw {
		lines[i] = string(b)
	}
	return lines
}

// trailingExcerpt picks the last wrapped notes lines repeated above the
// generation footer, plus the Y the block starts at. The start is
// clamped so the block never overlaps the grand total line at finalY.
func trailingExcerpt(lines []string, rodapeY, finalY float64) ([]string, float64) {
	last := lines
	if len(last) > trailingNotesLines {
		last = last[len(last)-trailingNotesLines:]
	}
	startY := rodapeY - 8 - float64(len(last))*notesLineHt
	if startY < 60 {
		startY = 60
		if finalY+10 > startY {
			startY = finalY + 10
		}
	}
	return last, startY
}

// pageLabel builds the footer label "<name> — Página i / N", truncating
// the name rune by rune with an ellipsis until the label fits in avail,
// and degrading to the bare page counter when even an empty name does
// not fit.
func pageLabel(name string, page, total int, avail float64, width func(string) float64) string {
	suffix := fmt.Sprintf(" — Página %d / %d", page, total)
	trimmed := strings.TrimSpace(name)
	label := trimmed + suffix
	if width(label) <= avail {
		return label
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		label = string(runes) + "..." + suffix
		if width(label) <= avail {
			return label
		}
	}

	return fmt.Sprintf("Página %d / %d", page, total)
}

// matriculaDisplay renders the registration number, or an em dash when
// none was recorded. The login is never used as a fallback.
func matriculaDisplay(profile models.UserProfile) string {
	if profile.Matricula == "" {
		return "—"
	}
	return profile.Matricula
}

func emissionDate(now time.Time) string {
	return fmt.Sprintf("%02d/%s/%d", now.Day(), months[now.Month()-1], now.Year())
}

// textCentered draws s with its horizontal center at x.
func textCentered(pdf *gofpdf.Fpdf, x, y float64, s string) {
	pdf.Text(x-pdf.GetStringWidth(s)/2, y, s)
}
