package codify

import (
	"context"
	"errors"
	"fmt"

	engine "CodifyEngine/internal/codify"
	"CodifyEngine/internal/normalize"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AliasStore persists the alias dictionary and codified line items.
type AliasStore struct {
	pool *pgxpool.Pool
}

func NewAliasStore(pool *pgxpool.Pool) *AliasStore {
	return &AliasStore{pool: pool}
}

// LoadDictionary returns every alias dictionary entry. The Fast Pass loads
// the full dictionary once per batch rather than querying per item.
func (s *AliasStore) LoadDictionary(ctx context.Context) ([]engine.AliasEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT normalized_alias, canonical_code, canonical_code_id, confidence, source
		FROM codifyengine.alias_dictionary
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load alias dictionary: %w", err)
	}
	defer rows.Close()

	var entries []engine.AliasEntry
	for rows.Next() {
		var e engine.AliasEntry
		if err := rows.Scan(&e.NormalizedAlias, &e.CanonicalCode, &e.CanonicalCodeID, &e.Confidence, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan alias row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpsertAlias inserts an alias or, on conflict, replaces its code and
// confidence. The caller is expected to pass an already normalized alias.
func (s *AliasStore) UpsertAlias(ctx context.Context, e engine.AliasEntry) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO codifyengine.alias_dictionary (normalized_alias, canonical_code, canonical_code_id, confidence, source)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (normalized_alias) DO UPDATE
		SET canonical_code = EXCLUDED.canonical_code,
			canonical_code_id = EXCLUDED.canonical_code_id,
			confidence = EXCLUDED.confidence,
			source = EXCLUDED.source
	`, e.NormalizedAlias, e.CanonicalCode, e.CanonicalCodeID, e.Confidence, e.Source)
	if err != nil {
		return fmt.Errorf("failed to upsert alias %q: %w", e.NormalizedAlias, err)
	}
	return nil
}

// BulkUpsertAliases loads many dictionary entries in one statement, used
// for seeding the dictionary from an exported code master.
func (s *AliasStore) BulkUpsertAliases(ctx context.Context, entries []engine.AliasEntry) error {
	if len(entries) == 0 {
		return errors.New("no aliases given")
	}
	aliases := make([]string, 0, len(entries))
	codes := make([]string, 0, len(entries))
	codeIDs := make([]string, 0, len(entries))
	confidences := make([]float64, 0, len(entries))
	sources := make([]string, 0, len(entries))
	for _, e := range entries {
		aliases = append(aliases, e.NormalizedAlias)
		codes = append(codes, e.CanonicalCode)
		codeIDs = append(codeIDs, e.CanonicalCodeID)
		confidences = append(confidences, e.Confidence)
		sources = append(sources, e.Source)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO codifyengine.alias_dictionary (normalized_alias, canonical_code, canonical_code_id, confidence, source)
		SELECT * FROM unnest($1::text[], $2::text[], $3::text[], $4::float8[], $5::text[])
		ON CONFLICT (normalized_alias) DO UPDATE
		SET canonical_code = EXCLUDED.canonical_code,
			canonical_code_id = EXCLUDED.canonical_code_id,
			confidence = EXCLUDED.confidence,
			source = EXCLUDED.source
	`, aliases, codes, codeIDs, confidences, sources)
	if err != nil {
		return fmt.Errorf("failed to bulk upsert %d aliases: %w", len(entries), err)
	}
	return nil
}

func (s *AliasStore) DeleteAlias(ctx context.Context, alias string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM codifyengine.alias_dictionary WHERE normalized_alias = $1`, alias)
	if err != nil {
		return fmt.Errorf("failed to delete alias %q: %w", alias, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("alias %q not found", alias)
	}
	return nil
}

func (s *AliasStore) ListAliases(ctx context.Context, limit, offset int) ([]engine.AliasEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT normalized_alias, canonical_code, canonical_code_id, confidence, source
		FROM codifyengine.alias_dictionary
		ORDER BY normalized_alias
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	var entries []engine.AliasEntry
	for rows.Next() {
		var e engine.AliasEntry
		if err := rows.Scan(&e.NormalizedAlias, &e.CanonicalCode, &e.CanonicalCodeID, &e.Confidence, &e.Source); err != nil {
			return nil, fmt.Errorf("failed to scan alias row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *AliasStore) CountAliases(ctx context.Context) (int, error) {
	var total int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM codifyengine.alias_dictionary`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return total, nil
}

// SaveBatch stores the codified output of one Fast Pass run.
func (s *AliasStore) SaveBatch(ctx context.Context, batchID string, items []engine.CodifiedItem) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, it := range items {
		_, err := tx.Exec(ctx, `
			INSERT INTO codifyengine.line_items
				(item_id, batch_id, original_name, normalized_name, item_code, value, data_type, category, mapping_status, confidence, is_computed_total, created_at)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11, now())
		`, it.ID, batchID, it.OriginalName, normalize.NormalizeLabel(it.OriginalName), it.ItemCode, fmt.Sprintf("%v", it.Value),
			string(it.DataType), it.Category, string(it.MappingStatus), it.Confidence, it.IsComputedTotal)
		if err != nil {
			return fmt.Errorf("failed to insert line item %s: %w", it.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListItems returns codified items for one batch, in insertion order.
func (s *AliasStore) ListItems(ctx context.Context, batchID string, limit, offset int) ([]engine.CodifiedItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT item_id, original_name, COALESCE(item_code, ''), value, data_type, category, mapping_status, confidence, is_computed_total
		FROM codifyengine.line_items
		WHERE batch_id = $1
		ORDER BY created_at, item_id
		LIMIT $2 OFFSET $3
	`, batchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for batch %s: %w", batchID, err)
	}
	defer rows.Close()

	var items []engine.CodifiedItem
	for rows.Next() {
		var it engine.CodifiedItem
		var value, dataType, status string
		if err := rows.Scan(&it.ID, &it.OriginalName, &it.ItemCode, &value, &dataType, &it.Category, &status, &it.Confidence, &it.IsComputedTotal); err != nil {
			return nil, fmt.Errorf("failed to scan line item row: %w", err)
		}
		it.Value = value
		it.DataType = engine.DataType(dataType)
		it.MappingStatus = engine.MappingStatus(status)
		items = append(items, it)
	}
	return items, rows.Err()
}

// ConfirmItems marks reviewed items as confirmed under the given code and
// learns an alias from each item's normalized name so the next Fast Pass
// matches it exactly.
func (s *AliasStore) ConfirmItems(ctx context.Context, itemIDs []string, code string, learn bool) error {
	if len(itemIDs) == 0 {
		return errors.New("no item ids given")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE codifyengine.line_items
		SET mapping_status = 'confirmed', item_code = $2, confidence = 1.0
		WHERE item_id = ANY($1)
	`, itemIDs, code)
	if err != nil {
		return fmt.Errorf("failed to confirm items: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if learn {
		_, err = tx.Exec(ctx, `
			INSERT INTO codifyengine.alias_dictionary (normalized_alias, canonical_code, canonical_code_id, confidence, source)
			SELECT normalized_name, item_code, item_code, 1.0, 'review'
			FROM codifyengine.line_items
			WHERE item_id = ANY($1) AND normalized_name <> ''
			ON CONFLICT (normalized_alias) DO UPDATE
			SET canonical_code = EXCLUDED.canonical_code,
				canonical_code_id = EXCLUDED.canonical_code_id,
				confidence = EXCLUDED.confidence,
				source = EXCLUDED.source
		`, itemIDs)
		if err != nil {
			return fmt.Errorf("failed to learn aliases from confirmed items: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RejectItems marks reviewed items as unmatched and clears any fuzzy code.
func (s *AliasStore) RejectItems(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return errors.New("no item ids given")
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE codifyengine.line_items
		SET mapping_status = 'unmatched', item_code = NULL, confidence = 0
		WHERE item_id = ANY($1)
	`, itemIDs)
	if err != nil {
		return fmt.Errorf("failed to reject items: %w", err)
	}
	return nil
}

// pgUserFriendlyMessage maps low-level Postgres errors onto messages the
// review UI can show directly.
func pgUserFriendlyMessage(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}
	switch pgErr.Code {
	case "23505":
		return "An alias with this normalized name already exists."
	case "23503":
		return "Some referenced data was not found (please refresh and try again)."
	case "23514":
		return "Some fields have invalid values. Please check and try again."
	default:
		return "Database error while processing the request. Please try again."
	}
}
