package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
	"github.com/dmarinho2/prt-fiscal/internal/scoring"
)

var fixedNow = time.Date(2025, time.March, 14, 10, 30, 0, 0, time.UTC)

func testComposer() *Composer {
	return NewComposer("PREFEITURA MUNICIPAL DE NOVA CRUZ", "SECRETARIA MUNICIPAL DE TRIBUTAÇÃO E ARRECADAÇÃO", nil)
}

func singleItemRecord() models.ProductivityRecord {
	score := scoring.ItemScore(20, 2, 1)
	return models.ProductivityRecord{
		RecordNumber: 7,
		Period:       "03/2025",
		TotalPoints:  score,
		Items: []models.LineItem{
			{
				DocumentID:    "DOC-100",
				FiscalCount:   2,
				ComputedScore: score,
				Service:       &models.ServiceSummary{Description: "Auto de infração", BasePoints: 20},
			},
		},
	}
}

func fiscalProfile() models.UserProfile {
	return models.UserProfile{Name: "Maria Souza", Login: "maria@fiscal.gov.br", Matricula: "12345", Role: models.RoleStandard}
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "report_03_2025_7.pdf", Filename("03/2025", 7))
	assert.Equal(t, "report_12_2024_153.pdf", Filename("12/2024", 153))
}

func TestComposeSingleItem(t *testing.T) {
	artifact, err := testComposer().Compose(singleItemRecord(), fiscalProfile(), fixedNow)
	require.NoError(t, err)

	assert.Equal(t, "report_03_2025_7.pdf", artifact.Filename)
	assert.Equal(t, 1, artifact.Pages)
	assert.NotEmpty(t, artifact.Content)
	assert.True(t, strings.HasPrefix(string(artifact.Content[:5]), "%PDF-"))
}

func TestComposeIsDeterministic(t *testing.T) {
	rec := singleItemRecord()
	rec.Notes = "Fiscalização concentrada no distrito industrial durante a primeira quinzena."
	profile := fiscalProfile()

	composer := testComposer()
	first, err := composer.Compose(rec, profile, fixedNow)
	require.NoError(t, err)
	second, err := composer.Compose(rec, profile, fixedNow)
	require.NoError(t, err)

	assert.Equal(t, first.Pages, second.Pages)
	assert.Equal(t, first.Content, second.Content)
}

func TestComposeOverflowsToSecondPage(t *testing.T) {
	rec := singleItemRecord()
	rec.Items = nil
	for i := 0; i < 60; i++ {
		score := scoring.ItemScore(10, 1, 1)
		rec.Items = append(rec.Items, models.LineItem{
			DocumentID:    fmt.Sprintf("DOC-%03d", i+1),
			FiscalCount:   1,
			ComputedScore: score,
			Service:       &models.ServiceSummary{Description: "Vistoria de alvará", BasePoints: 10},
		})
	}
	rec.TotalPoints = scoring.Total(rec.Items)

	artifact, err := testComposer().Compose(rec, fiscalProfile(), fixedNow)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, artifact.Pages, 2)
}

func TestComposeLongNotesAddPages(t *testing.T) {
	rec := singleItemRecord()
	base, err := testComposer().Compose(rec, fiscalProfile(), fixedNow)
	require.NoError(t, err)

	rec.Notes = strings.Repeat("Diligência externa com deslocamento ao contribuinte e lavratura de termo. ", 200)
	withNotes, err := testComposer().Compose(rec, fiscalProfile(), fixedNow)
	require.NoError(t, err)

	assert.Greater(t, withNotes.Pages, base.Pages)
}

func TestComposeUnresolvedServiceAndMissingMatricula(t *testing.T) {
	rec := singleItemRecord()
	rec.Items[0].Service = nil
	profile := fiscalProfile()
	profile.Matricula = ""

	artifact, err := testComposer().Compose(rec, profile, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, artifact.Pages)
}

func TestComposeHandlesAccentedText(t *testing.T) {
	rec := singleItemRecord()
	rec.Notes = "Ações de fiscalização no período, com ênfase em notificações — coordenação: João"
	rec.Items[0].Service = &models.ServiceSummary{Description: "Apreensão de mercadorias", BasePoints: 20}
	rec.Items[0].Notes = "diligência à tarde"

	profile := fiscalProfile()
	profile.Name = "José Conceição"

	artifact, err := testComposer().Compose(rec, profile, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, 1, artifact.Pages)
	assert.NotEmpty(t, artifact.Content)
}

func TestTrailingExcerpt(t *testing.T) {
	lines := func(n int) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = fmt.Sprintf("linha %d", i+1)
		}
		return out
	}

	tests := []struct {
		name      string
		lines     []string
		rodapeY   float64
		finalY    float64
		wantLines []string
		wantY     float64
	}{
		{
			name:      "short notes keep every line",
			lines:     lines(2),
			rodapeY:   190,
			finalY:    85,
			wantLines: []string{"linha 1", "linha 2"},
			wantY:     168, // 190 - 8 - 2*7
		},
		{
			name:      "long notes keep only the last six lines",
			lines:     lines(10),
			rodapeY:   190,
			finalY:    85,
			wantLines: []string{"linha 5", "linha 6", "linha 7", "linha 8", "linha 9", "linha 10"},
			wantY:     140, // 190 - 8 - 6*7
		},
		{
			name:      "start clamps to the floor",
			lines:     lines(6),
			rodapeY:   100,
			finalY:    40,
			wantLines: lines(6),
			wantY:     60,
		},
		{
			name:      "clamped start stays below the grand total",
			lines:     lines(6),
			rodapeY:   100,
			finalY:    85,
			wantLines: lines(6),
			wantY:     95, // finalY + 10
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, startY := trailingExcerpt(tt.lines, tt.rodapeY, tt.finalY)
			assert.Equal(t, tt.wantLines, got)
			assert.InDelta(t, tt.wantY, startY, 1e-9)
		})
	}
}

func TestMatriculaDisplay(t *testing.T) {
	assert.Equal(t, "12345", matriculaDisplay(models.UserProfile{Matricula: "12345", Login: "a@b.c"}))
	assert.Equal(t, "—", matriculaDisplay(models.UserProfile{Login: "a@b.c"}))
}

func TestEmissionDate(t *testing.T) {
	assert.Equal(t, "14/mar/2025", emissionDate(fixedNow))
	assert.Equal(t, "01/jan/2026", emissionDate(time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPageLabelFitsWithoutTruncation(t *testing.T) {
	width := func(s string) float64 { return float64(len([]rune(s))) }
	label := pageLabel("Ana", 1, 2, 100, width)
	assert.Equal(t, "Ana — Página 1 / 2", label)
}

func TestPageLabelTruncatesWithEllipsis(t *testing.T) {
	width := func(s string) float64 { return float64(len([]rune(s))) }
	suffix := " — Página 1 / 3"
	avail := float64(len([]rune(suffix)) + 8) // room for five name runes plus "..."

	label := pageLabel("Francisco das Chagas Oliveira", 1, 3, avail, width)
	assert.True(t, strings.HasSuffix(label, suffix))
	assert.Contains(t, label, "...")
	assert.LessOrEqual(t, width(label), avail)
	assert.True(t, strings.HasPrefix(label, "Franc"))
}

func TestPageLabelFallsBackToBareCounter(t *testing.T) {
	width := func(s string) float64 { return float64(len([]rune(s))) }
	label := pageLabel("Qualquer Nome", 2, 5, 13, width)
	assert.Equal(t, "Página 2 / 5", label)
}

func TestItemCellsDuplicateScoreColumn(t *testing.T) {
	item := models.LineItem{
		DocumentID:    "DOC-9",
		FiscalCount:   2,
		Quantity:      2,
		ComputedScore: 12.5,
		Notes:         "plantão",
		Service:       &models.ServiceSummary{Description: "Notificação"},
	}

	cells := itemCells(3, item)
	assert.Equal(t, []string{"4", "DOC-9", "Notificação", "2", "2", "12.50", "12.50", "plantão"}, cells)
}

func TestItemCellsFallbacks(t *testing.T) {
	cells := itemCells(0, models.LineItem{DocumentID: "DOC-1", FiscalCount: 3})
	assert.Equal(t, "Serviço não encontrado", cells[2])
	assert.Equal(t, "1", cells[3]) // absent quantity renders as 1
	assert.Equal(t, "0.00", cells[5])
}

func TestColumnWidths(t *testing.T) {
	widths := columnWidths(257)
	require.Len(t, widths, 8)
	assert.InDelta(t, 257, sum(widths), 1e-9)
	// the two text-heavy columns share the leftover width equally
	assert.InDelta(t, widths[2], widths[7], 1e-9)
	assert.Greater(t, widths[2], 40.0)
}
