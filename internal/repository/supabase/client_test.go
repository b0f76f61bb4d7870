package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarinho2/prt-fiscal/internal/config"
	"github.com/dmarinho2/prt-fiscal/internal/domain/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.SupabaseConfig{URL: server.URL, APIKey: "test-key"}, nil)
}

func TestListActiveServices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/servicos", r.URL.Path)
		assert.Equal(t, "eq.true", r.URL.Query().Get("ativo"))
		assert.Equal(t, "test-key", r.Header.Get("apikey"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"svc-1","codigo":"001","descricao":"Auto de infração","pontuacao_base":20,"ativo":true}]`))
	})

	services, err := client.ListActiveServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "Auto de infração", services[0].Description)
	assert.Equal(t, 20.0, services[0].BasePoints)
}

func TestListRecordsAppliesFilters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.user-1", q.Get("user_id"))
		assert.Equal(t, "eq.ativo", q.Get("situacao"))
		assert.Equal(t, "eq.03/2025", q.Get("competencia"))
		assert.Equal(t, "data_criacao.desc", q.Get("order"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListRecords(context.Background(), "user-1", models.RecordFilter{Month: "3", Year: "2025"})
	require.NoError(t, err)
}

func TestListAllRecordsIncludesInactive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("situacao"), "inactive rows must not be filtered out")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListAllRecords(context.Background(), models.RecordFilter{IncludeInactive: true})
	require.NoError(t, err)
}

func TestGetRecordNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.GetRecord(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReplaceRecordSwapsItemSet(t *testing.T) {
	var calls []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		w.Header().Set("Content-Type", "application/json")

		if r.Method == http.MethodPost {
			var items []itemWrite
			require.NoError(t, json.NewDecoder(r.Body).Decode(&items))
			require.Len(t, items, 1)
			assert.Equal(t, "rec-1", items[0].RecordID)
			assert.Nil(t, items[0].Quantity, "absent quantity is not sent")
		}

		_, _ = w.Write([]byte(`[]`))
	})

	rec := models.ProductivityRecord{
		Period:      "03/2025",
		TotalPoints: 10,
		Items: []models.LineItem{
			{ServiceID: "svc-1", DocumentID: "DOC-1", FiscalCount: 2, ComputedScore: 10},
		},
	}

	require.NoError(t, client.ReplaceRecord(context.Background(), "rec-1", rec))
	assert.Equal(t, []string{
		"PATCH /rest/v1/registros_produtividade",
		"DELETE /rest/v1/itens_servico",
		"POST /rest/v1/itens_servico",
	}, calls)
}

func TestSoftDeleteRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.rec-1", r.URL.Query().Get("id"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "excluido", payload["situacao"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	})

	require.NoError(t, client.SoftDeleteRecord(context.Background(), "rec-1"))
}

func TestBackendErrorSurfacesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
	})

	_, err := client.ListActiveServices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
	assert.Contains(t, err.Error(), "JWT expired")
}
