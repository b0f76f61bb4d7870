package supabase

import (
	"time"

	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

// Backend column values for record status and role. The domain enums
// are English; the schema predates them and stays Portuguese.
const (
	statusActive  = "ativo"
	statusDeleted = "excluido"

	papelAdmin = "admin"
)

type serviceRow struct {
	ID          string  `json:"id"`
	Code        string  `json:"codigo"`
	Description string  `json:"descricao"`
	BasePoints  float64 `json:"pontuacao_base"`
	Active      bool    `json:"ativo"`
}

func (r serviceRow) toModel() models.Service {
	return models.Service{
		ID:          r.ID,
		Code:        r.Code,
		Description: r.Description,
		BasePoints:  r.BasePoints,
		Active:      r.Active,
	}
}

type serviceSummaryRow struct {
	Description string  `json:"descricao"`
	BasePoints  float64 `json:"pontuacao_base"`
}

type itemRow struct {
	ID            string             `json:"id"`
	ServiceID     string             `json:"servico_id"`
	DocumentID    string             `json:"id_documento"`
	FiscalCount   int                `json:"qtd_fiscais"`
	Quantity      *float64           `json:"quantidade"`
	ComputedScore float64            `json:"pontuacao_calculada"`
	Notes         string             `json:"observacoes"`
	Service       *serviceSummaryRow `json:"servico"`
}

func (r itemRow) toModel() models.LineItem {
	item := models.LineItem{
		ID:            r.ID,
		ServiceID:     r.ServiceID,
		DocumentID:    r.DocumentID,
		FiscalCount:   r.FiscalCount,
		ComputedScore: r.ComputedScore,
		Notes:         r.Notes,
	}
	if r.Quantity != nil {
		item.Quantity = *r.Quantity
	}
	if r.Service != nil {
		item.Service = &models.ServiceSummary{
			Description: r.Service.Description,
			BasePoints:  r.Service.BasePoints,
		}
	}
	return item
}

type profileRow struct {
	UserID    string  `json:"user_id"`
	Name      string  `json:"nome"`
	Login     string  `json:"login"`
	Matricula *string `json:"matricula"`
	Papel     string  `json:"papel"`
}

func (r profileRow) toModel() models.UserProfile {
	profile := models.UserProfile{
		UserID: r.UserID,
		Name:   r.Name,
		Login:  r.Login,
		Role:   models.RoleStandard,
	}
	if r.Matricula != nil {
		profile.Matricula = *r.Matricula
	}
	if r.Papel == papelAdmin {
		profile.Role = models.RoleAdmin
	}
	return profile
}

type recordRow struct {
	ID           string      `json:"id"`
	RecordNumber int64       `json:"numero_registro"`
	Period       string      `json:"competencia"`
	CreatedAt    time.Time   `json:"data_criacao"`
	TotalPoints  float64     `json:"total_pontos"`
	Status       string      `json:"situacao"`
	Notes        string      `json:"anotacoes"`
	Items        []itemRow   `json:"itens_servico"`
	Owner        *profileRow `json:"user"`
}

func (r recordRow) toModel() models.ProductivityRecord {
	rec := models.ProductivityRecord{
		ID:           r.ID,
		RecordNumber: r.RecordNumber,
		Period:       r.Period,
		CreatedAt:    r.CreatedAt,
		TotalPoints:  r.TotalPoints,
		Status:       models.StatusActive,
		Notes:        r.Notes,
	}
	if r.Status == statusDeleted {
		rec.Status = models.StatusDeleted
	}
	for _, item := range r.Items {
		rec.Items = append(rec.Items, item.toModel())
	}
	if r.Owner != nil {
		owner := r.Owner.toModel()
		rec.Owner = &owner
	}
	return rec
}

func toRecords(rows []recordRow) []models.ProductivityRecord {
	records := make([]models.ProductivityRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.toModel())
	}
	return records
}

// recordWrite is the insert/update payload for a record row. The
// backend fills id, numero_registro, data_criacao and situacao.
type recordWrite struct {
	UserID      string  `json:"user_id,omitempty"`
	Period      string  `json:"competencia"`
	TotalPoints float64 `json:"total_pontos"`
	Notes       string  `json:"anotacoes,omitempty"`
}

type itemWrite struct {
	RecordID      string   `json:"registro_id"`
	ServiceID     string   `json:"servico_id"`
	DocumentID    string   `json:"id_documento"`
	FiscalCount   int      `json:"qtd_fiscais"`
	Quantity      *float64 `json:"quantidade,omitempty"`
	ComputedScore float64  `json:"pontuacao_calculada"`
	Notes         string   `json:"observacoes,omitempty"`
}

// nullableQuantity maps the domain's "<= 0 means absent" convention to
// the backend's nullable column.
func nullableQuantity(q float64) *float64 {
	if q <= 0 {
		return nil
	}
	return &q
}
