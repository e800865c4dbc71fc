package templater

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"CodifyEngine/api"
	"CodifyEngine/api/constants"
	engine "CodifyEngine/internal/codify"
	"CodifyEngine/internal/logger"
	"CodifyEngine/internal/sheet"
	"CodifyEngine/internal/template"
)

const maxUploadBytes = 32 << 20

// loadTemplateUpload parses the "template" part of a multipart upload into
// sheets, picking the parser from the filename extension.
func loadTemplateUpload(r *http.Request) ([]sheet.Sheet, string, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, "", fmt.Errorf("failed to parse multipart form: %w", err)
	}
	file, header, err := r.FormFile("template")
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", constants.ErrMissingFile, err)
	}
	defer file.Close()

	sheets, err := parseByExtension(file, header.Filename)
	if err != nil {
		return nil, "", err
	}
	return sheets, header.Filename, nil
}

func parseByExtension(file multipart.File, filename string) ([]sheet.Sheet, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx":
		return sheet.LoadXLSX(file)
	case ".xls":
		return sheet.LoadXLS(file)
	case ".csv":
		name := strings.TrimSuffix(filepath.Base(filename), ext)
		return sheet.LoadCSV(file, name)
	default:
		return nil, fmt.Errorf("%s: %q", constants.ErrUnsupportedFormat, ext)
	}
}

// ScanHandler inventories the placeholders of an uploaded template without
// populating it.
func ScanHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sheets, filename, err := loadTemplateUpload(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		scan := template.Scan(sheets)

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":       true,
			"template":      filename,
			"specific":      scan.Specific,
			"fallback_rows": scan.FallbackRows,
		})
	}
}

// PopulateHandler fills an uploaded template from the codified items in the
// "items" form field. The default response is the populated workbook as
// .xlsx; format=json returns the population report instead.
func PopulateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sheets, filename, err := loadTemplateUpload(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		itemsJSON := r.FormValue("items")
		if strings.TrimSpace(itemsJSON) == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingItems)
			return
		}
		var items []engine.CodifiedItem
		if err := json.Unmarshal([]byte(itemsJSON), &items); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}

		result := template.Populate(sheets, items)

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf(
				"Populated template %s: %d/%d placeholders matched, %d fallbacks, %d overflow",
				filename, result.Stats.Matched, result.Stats.TotalPlaceholders,
				result.Stats.FallbacksInserted, result.Stats.OverflowCount))
		}

		if r.FormValue("format") == "json" || r.URL.Query().Get("format") == "json" {
			w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success":                true,
				"template":               filename,
				"stats":                  result.Stats,
				"matched_placeholders":   result.MatchedPlaceholders,
				"unmatched_placeholders": result.UnmatchedPlaceholders,
				"fallbacks_used":         result.FallbacksUsed,
				"overflow_items":         result.OverflowItems,
			})
			return
		}

		var buf bytes.Buffer
		if err := sheet.WriteXLSX(result.Sheets, &buf); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, "failed to write workbook: "+err.Error())
			return
		}
		outName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + "_populated.xlsx"
		w.Header().Set(constants.ContentTypeText, constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outName))
		w.Write(buf.Bytes())
	}
}
