package codify

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"CodifyEngine/api"
	"CodifyEngine/api/constants"
	"CodifyEngine/api/utils"
	engine "CodifyEngine/internal/codify"
	"CodifyEngine/internal/logger"
	"CodifyEngine/internal/normalize"

	"github.com/google/uuid"
)

// dictionarySource is the slice of AliasStore the Fast Pass handler needs.
type dictionarySource interface {
	LoadDictionary(ctx context.Context) ([]engine.AliasEntry, error)
	SaveBatch(ctx context.Context, batchID string, items []engine.CodifiedItem) error
}

// FastPassHandler codifies a batch of raw line items against the alias
// dictionary and persists the result for review.
func FastPassHandler(store dictionarySource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req struct {
			BatchID string           `json:"batch_id"`
			Items   []engine.RawItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if len(req.Items) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingItems)
			return
		}
		if req.BatchID == "" {
			req.BatchID = uuid.New().String()
		}

		dict, err := store.LoadDictionary(r.Context())
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
			return
		}
		lookup := engine.BuildLookup(dict)
		items, stats := engine.RunFastPass(req.Items, lookup)

		if err := store.SaveBatch(r.Context(), req.BatchID, items); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
			return
		}

		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Fast Pass batch " + req.BatchID + " codified")
		}
		api.LogInfo("Fast Pass batch %s: %d matched, %d pending review", req.BatchID, stats.Matched, stats.PendingReview)

		w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success":  true,
			"batch_id": req.BatchID,
			"items":    items,
			"stats":    stats,
		})
	}
}

// AliasDictionaryHandler serves the dictionary: GET lists with pagination,
// POST upserts a single alias.
func AliasDictionaryHandler(store *AliasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			listAliases(store, w, r)
		case http.MethodPost:
			upsertAlias(store, w, r)
		default:
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
		}
	}
}

func listAliases(store *AliasStore, w http.ResponseWriter, r *http.Request) {
	params, err := utils.ExtractPagination(r)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	total, err := store.CountAliases(r.Context())
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
		return
	}
	params.SetPaginationStats(total)

	entries, err := store.ListAliases(r.Context(), params.Limit, params.Offset)
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
		return
	}
	w.Header().Set(constants.ContentTypeText, constants.ContentTypeJSON)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"rows":       entries,
		"pagination": params,
	})
}

func upsertAlias(store *AliasStore, w http.ResponseWriter, r *http.Request) {
	var req struct {
		Alias      string  `json:"alias"`
		Code       string  `json:"code"`
		CodeID     string  `json:"code_id"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return
	}
	if strings.TrimSpace(req.Alias) == "" || strings.TrimSpace(req.Code) == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return
	}
	if req.Confidence <= 0 || req.Confidence > 1 {
		req.Confidence = 1.0
	}
	if req.CodeID == "" {
		req.CodeID = req.Code
	}
	entry := engine.AliasEntry{
		NormalizedAlias: normalize.NormalizeLabel(req.Alias),
		CanonicalCode:   req.Code,
		CanonicalCodeID: req.CodeID,
		Confidence:      req.Confidence,
		Source:          "manual",
	}
	if err := store.UpsertAlias(r.Context(), entry); err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
		return
	}
	api.RespondWithPayload(w, true, "", entry)
}

// BulkUpsertAliasesHandler seeds or refreshes many aliases at once. Raw
// alias labels are normalized before storage; entries with an empty alias
// or code are rejected as a whole batch.
func BulkUpsertAliasesHandler(store *AliasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req struct {
			Aliases []struct {
				Alias      string  `json:"alias"`
				Code       string  `json:"code"`
				CodeID     string  `json:"code_id"`
				Confidence float64 `json:"confidence"`
			} `json:"aliases"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Aliases) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		entries := make([]engine.AliasEntry, 0, len(req.Aliases))
		for _, a := range req.Aliases {
			if strings.TrimSpace(a.Alias) == "" || strings.TrimSpace(a.Code) == "" {
				api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
				return
			}
			if a.Confidence <= 0 || a.Confidence > 1 {
				a.Confidence = 1.0
			}
			if a.CodeID == "" {
				a.CodeID = a.Code
			}
			entries = append(entries, engine.AliasEntry{
				NormalizedAlias: normalize.NormalizeLabel(a.Alias),
				CanonicalCode:   a.Code,
				CanonicalCodeID: a.CodeID,
				Confidence:      a.Confidence,
				Source:          "import",
			})
		}
		if err := store.BulkUpsertAliases(r.Context(), entries); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
			return
		}
		api.RespondWithPayload(w, true, "", map[string]int{"upserted": len(entries)})
	}
}

// DeleteAliasHandler removes one alias. The alias in the request body is
// normalized before the lookup so callers can pass the raw label form.
func DeleteAliasHandler(store *AliasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req struct {
			Alias string `json:"alias"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Alias) == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if err := store.DeleteAlias(r.Context(), normalize.NormalizeLabel(req.Alias)); err != nil {
			api.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		api.RespondWithResult(w, true, "")
	}
}

// ListItemsHandler returns codified items for one batch, paginated, for the
// review UI.
func ListItemsHandler(store *AliasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		batchID := r.URL.Query().Get("batch_id")
		if batchID == "" {
			api.RespondWithError(w, http.StatusBadRequest, "batch_id required")
			return
		}
		params, err := utils.ExtractPagination(r)
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		items, err := store.ListItems(r.Context(), batchID, params.Limit, params.Offset)
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
			return
		}
		api.RespondWithPayload(w, true, "", items)
	}
}

// ConfirmItemsHandler applies a reviewer's decision: the named items become
// confirmed under the given code and their normalized names are learned as
// aliases unless learn=false.
func ConfirmItemsHandler(store *AliasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req struct {
			ItemIDs []string `json:"item_ids"`
			Code    string   `json:"code"`
			Learn   *bool    `json:"learn"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if len(req.ItemIDs) == 0 || strings.TrimSpace(req.Code) == "" {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		learn := req.Learn == nil || *req.Learn
		if err := store.ConfirmItems(r.Context(), req.ItemIDs, req.Code, learn); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("Confirmed " + strings.Join(req.ItemIDs, ",") + " as " + req.Code)
		}
		api.RespondWithResult(w, true, "")
	}
}

// RejectItemsHandler marks items a reviewer rejected as unmatched.
func RejectItemsHandler(store *AliasStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		var req struct {
			ItemIDs []string `json:"item_ids"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.ItemIDs) == 0 {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
			return
		}
		if err := store.RejectItems(r.Context(), req.ItemIDs); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, pgUserFriendlyMessage(err))
			return
		}
		api.RespondWithResult(w, true, "")
	}
}
