package templater

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"CodifyEngine/internal/sheet"
	"CodifyEngine/internal/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartTemplate(t *testing.T, filename, content string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("template", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/templater/populate", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestScanHandlerInventoriesCSVTemplate(t *testing.T) {
	csv := "Revenue,<REV.TOTAL>\n<all.revenue.name>,<all.revenue.value>\n"
	req := multipartTemplate(t, "appraisal.csv", csv, nil)
	rec := httptest.NewRecorder()

	ScanHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success      bool                             `json:"success"`
		Specific     []template.PlaceholderOccurrence `json:"specific"`
		FallbackRows []template.CategoryFallbackRow   `json:"fallback_rows"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Specific, 1)
	assert.Equal(t, "<REV.TOTAL>", resp.Specific[0].Token)
	require.Len(t, resp.FallbackRows, 1)
	assert.Equal(t, "revenue", resp.FallbackRows[0].Category)
}

func TestPopulateHandlerJSONReport(t *testing.T) {
	csv := "Revenue,<REV.TOTAL>\n<all.revenue.name>,<all.revenue.value>\n"
	items := `[
		{"id":"a","original_name":"Total Revenue","item_code":"REV.TOTAL","value":500000,"data_type":"currency","category":"revenue","mapping_status":"matched","confidence":1},
		{"id":"b","original_name":"Plot sales","value":250000,"data_type":"currency","category":"revenue","mapping_status":"confirmed","confidence":1}
	]`
	req := multipartTemplate(t, "appraisal.csv", csv, map[string]string{
		"items":  items,
		"format": "json",
	})
	rec := httptest.NewRecorder()

	PopulateHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                     `json:"success"`
		Stats   template.PopulationStats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Stats.TotalPlaceholders)
	assert.Equal(t, 1, resp.Stats.Matched)
	assert.Equal(t, 1, resp.Stats.FallbacksInserted)
}

func TestPopulateHandlerReturnsWorkbook(t *testing.T) {
	csv := "Revenue,<REV.TOTAL>\n"
	items := `[{"id":"a","original_name":"Total Revenue","item_code":"REV.TOTAL","value":500000,"data_type":"currency","category":"revenue","mapping_status":"matched","confidence":1}]`
	req := multipartTemplate(t, "appraisal.csv", csv, map[string]string{"items": items})
	rec := httptest.NewRecorder()

	PopulateHandler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "appraisal_populated.xlsx")

	sheets, err := sheet.LoadXLSX(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, sheets, 1)
	assert.Equal(t, "500000", sheets[0].Cells[0][1])
}

func TestPopulateHandlerRejectsBadUploads(t *testing.T) {
	req := multipartTemplate(t, "appraisal.pdf", "whatever", map[string]string{"items": "[]"})
	rec := httptest.NewRecorder()
	PopulateHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = multipartTemplate(t, "appraisal.csv", "a,b\n", nil)
	rec = httptest.NewRecorder()
	PopulateHandler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
