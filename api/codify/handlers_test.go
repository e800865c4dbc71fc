package codify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	engine "CodifyEngine/internal/codify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	dict    []engine.AliasEntry
	saved   map[string][]engine.CodifiedItem
	loadErr error
}

func (s *stubStore) LoadDictionary(ctx context.Context) ([]engine.AliasEntry, error) {
	return s.dict, s.loadErr
}

func (s *stubStore) SaveBatch(ctx context.Context, batchID string, items []engine.CodifiedItem) error {
	if s.saved == nil {
		s.saved = make(map[string][]engine.CodifiedItem)
	}
	s.saved[batchID] = items
	return nil
}

func TestFastPassHandler(t *testing.T) {
	store := &stubStore{
		dict: []engine.AliasEntry{
			{NormalizedAlias: "interest rate", CanonicalCode: "FIN.INT", CanonicalCodeID: "FIN.INT", Confidence: 1.0},
		},
	}
	body := `{"batch_id":"b-1","items":[{"label":"Interest Rates","value":0.065},{"label":"zzqx unknowable","value":12}]}`
	req := httptest.NewRequest(http.MethodPost, "/codify/fastpass", strings.NewReader(body))
	rec := httptest.NewRecorder()

	FastPassHandler(store).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                  `json:"success"`
		BatchID string                `json:"batch_id"`
		Items   []engine.CodifiedItem `json:"items"`
		Stats   engine.FastPassStats  `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "b-1", resp.BatchID)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "FIN.INT", resp.Items[0].ItemCode)
	assert.Equal(t, engine.StatusMatched, resp.Items[0].MappingStatus)
	assert.Equal(t, engine.StatusPendingReview, resp.Items[1].MappingStatus)
	assert.Equal(t, engine.FastPassStats{Matched: 1, PendingReview: 1, Total: 2}, resp.Stats)

	require.Contains(t, store.saved, "b-1")
	assert.Len(t, store.saved["b-1"], 2)
}

func TestFastPassHandlerGeneratesBatchID(t *testing.T) {
	store := &stubStore{}
	body := `{"items":[{"label":"anything","value":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/codify/fastpass", strings.NewReader(body))
	rec := httptest.NewRecorder()

	FastPassHandler(store).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		BatchID string `json:"batch_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BatchID)
}

func TestFastPassHandlerRejectsBadRequests(t *testing.T) {
	store := &stubStore{}

	req := httptest.NewRequest(http.MethodGet, "/codify/fastpass", nil)
	rec := httptest.NewRecorder()
	FastPassHandler(store).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/codify/fastpass", strings.NewReader("not json"))
	rec = httptest.NewRecorder()
	FastPassHandler(store).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/codify/fastpass", strings.NewReader(`{"batch_id":"b","items":[]}`))
	rec = httptest.NewRecorder()
	FastPassHandler(store).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.saved)
}
