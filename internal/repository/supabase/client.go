package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dmarinho2/prt-fiscal/internal/config"
	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

// ErrNotFound indicates the requested row does not exist (or is hidden
// by a row-level policy).
var ErrNotFound = errors.New("row not found")

const (
	servicesTable = "servicos"
	recordsTable  = "registros_produtividade"
	itemsTable    = "itens_servico"
	profilesTable = "profiles"

	// embedded select used whenever records are read with their items
	recordSelect = "*,itens_servico(*,servico:servicos(descricao,pontuacao_base))"
	adminSelect  = recordSelect + ",user:profiles!registros_produtividade_user_id_fkey(user_id,nome,login,matricula,papel)"
)

// APIClient is a resty-backed Repository implementation speaking the
// backend's PostgREST dialect.
type APIClient struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// NewClient builds the backend client from configuration values.
func NewClient(cfg config.SupabaseConfig, logger *zap.Logger) *APIClient {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.URL, "/") + "/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{httpClient: restyClient, logger: logger}
}

// apiError mirrors the PostgREST error payload.
type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// ListActiveServices fetches the selectable service catalog.
func (c *APIClient) ListActiveServices(ctx context.Context) ([]models.Service, error) {
	var rows []serviceRow
	if err := c.get(ctx, servicesTable, map[string]string{
		"select": "*",
		"ativo":  "eq.true",
		"order":  "descricao",
	}, &rows); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	services := make([]models.Service, 0, len(rows))
	for _, row := range rows {
		services = append(services, row.toModel())
	}

	c.logger.Debug("service catalog loaded", zap.Int("services", len(services)))
	return services, nil
}

// ListRecords returns the caller's active records, newest first,
// optionally narrowed to one period.
func (c *APIClient) ListRecords(ctx context.Context, userID string, filter models.RecordFilter) ([]models.ProductivityRecord, error) {
	params := map[string]string{
		"select":   recordSelect,
		"user_id":  "eq." + userID,
		"situacao": "eq." + statusActive,
		"order":    "data_criacao.desc",
	}
	if period := filter.Period(); period != "" {
		params["competencia"] = "eq." + period
	}

	var rows []recordRow
	if err := c.get(ctx, recordsTable, params, &rows); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return toRecords(rows), nil
}

// ListAllRecords is the admin variant: every owner, owner profile
// embedded, and soft-deleted rows included on request.
func (c *APIClient) ListAllRecords(ctx context.Context, filter models.RecordFilter) ([]models.ProductivityRecord, error) {
	params := map[string]string{
		"select": adminSelect,
		"order":  "data_criacao.desc",
	}
	if !filter.IncludeInactive {
		params["situacao"] = "eq." + statusActive
	}
	if period := filter.Period(); period != "" {
		params["competencia"] = "eq." + period
	}

	var rows []recordRow
	if err := c.get(ctx, recordsTable, params, &rows); err != nil {
		return nil, fmt.Errorf("list all records: %w", err)
	}
	return toRecords(rows), nil
}

// GetRecord loads one record with its resolved items.
func (c *APIClient) GetRecord(ctx context.Context, recordID string) (*models.ProductivityRecord, error) {
	var rows []recordRow
	if err := c.get(ctx, recordsTable, map[string]string{
		"select": adminSelect,
		"id":     "eq." + recordID,
	}, &rows); err != nil {
		return nil, fmt.Errorf("get record %s: %w", recordID, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	rec := rows[0].toModel()
	return &rec, nil
}

// CreateRecord inserts the record row, then its items. The backend
// assigns id, numero_registro and data_criacao.
func (c *APIClient) CreateRecord(ctx context.Context, userID string, rec models.ProductivityRecord) (*models.ProductivityRecord, error) {
	payload := recordWrite{
		UserID:      userID,
		Period:      rec.Period,
		TotalPoints: rec.TotalPoints,
		Notes:       rec.Notes,
	}

	var created []recordRow
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody(payload).
		SetResult(&created).
		SetError(&apiError{}).
		Post("/" + recordsTable)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	if err := checkStatus(resp); err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}
	if len(created) == 0 {
		return nil, errors.New("insert record: empty representation returned")
	}

	if err := c.insertItems(ctx, created[0].ID, rec.Items); err != nil {
		return nil, err
	}

	result := created[0].toModel()
	result.Items = rec.Items
	return &result, nil
}

// ReplaceRecord updates the record row and swaps the full item set:
// delete all existing items, insert the new set. There is no partial
// item update on purpose.
func (c *APIClient) ReplaceRecord(ctx context.Context, recordID string, rec models.ProductivityRecord) error {
	payload := recordWrite{
		Period:      rec.Period,
		TotalPoints: rec.TotalPoints,
		Notes:       rec.Notes,
	}

	if err := c.patch(ctx, recordsTable, map[string]string{"id": "eq." + recordID}, payload); err != nil {
		return fmt.Errorf("update record %s: %w", recordID, err)
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("registro_id", "eq."+recordID).
		SetError(&apiError{}).
		Delete("/" + itemsTable)
	if err != nil {
		return fmt.Errorf("delete items of %s: %w", recordID, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("delete items of %s: %w", recordID, err)
	}

	return c.insertItems(ctx, recordID, rec.Items)
}

// SoftDeleteRecord flips the record status; rows are never removed.
func (c *APIClient) SoftDeleteRecord(ctx context.Context, recordID string) error {
	if err := c.patch(ctx, recordsTable, map[string]string{"id": "eq." + recordID}, map[string]string{
		"situacao": statusDeleted,
	}); err != nil {
		return fmt.Errorf("soft delete record %s: %w", recordID, err)
	}
	return nil
}

// GetProfile fetches the report metadata and resolved role for a user.
func (c *APIClient) GetProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var rows []profileRow
	if err := c.get(ctx, profilesTable, map[string]string{
		"select":  "user_id,nome,login,matricula,papel",
		"user_id": "eq." + userID,
	}, &rows); err != nil {
		return nil, fmt.Errorf("get profile %s: %w", userID, err)
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	profile := rows[0].toModel()
	return &profile, nil
}

func (c *APIClient) insertItems(ctx context.Context, recordID string, items []models.LineItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]itemWrite, 0, len(items))
	for _, item := range items {
		rows = append(rows, itemWrite{
			RecordID:      recordID,
			ServiceID:     item.ServiceID,
			DocumentID:    item.DocumentID,
			FiscalCount:   item.FiscalCount,
			Quantity:      nullableQuantity(item.Quantity),
			ComputedScore: item.ComputedScore,
			Notes:         item.Notes,
		})
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(rows).
		SetError(&apiError{}).
		Post("/" + itemsTable)
	if err != nil {
		return fmt.Errorf("insert items of %s: %w", recordID, err)
	}
	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("insert items of %s: %w", recordID, err)
	}
	return nil
}

func (c *APIClient) get(ctx context.Context, table string, params map[string]string, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		SetError(&apiError{}).
		Get("/" + table)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

func (c *APIClient) patch(ctx context.Context, table string, params map[string]string, body any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetBody(body).
		SetError(&apiError{}).
		Patch("/" + table)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() < http.StatusBadRequest {
		return nil
	}

	message := ""
	if apiErr, ok := resp.Error().(*apiError); ok && apiErr != nil {
		message = apiErr.Message
	}
	return fmt.Errorf("backend api error: status=%d, message=%s", resp.StatusCode(), message)
}
