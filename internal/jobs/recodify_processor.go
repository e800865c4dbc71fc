package jobs

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"CodifyEngine/internal/codify"
	"CodifyEngine/internal/config"
	"CodifyEngine/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
	"github.com/robfig/cron/v3"
)

// RecodifyConfig holds configuration for the re-codification job
type RecodifyConfig struct {
	Schedule  string // Cron schedule (default: "0 18 * * *" for 6 PM daily)
	BatchSize int    // Number of pending items to update per bulk UPDATE
	TimeZone  string // Timezone for scheduling
}

// recodifyUpdate represents a pending item that matched after a dictionary change
type recodifyUpdate struct {
	itemID     string
	code       string
	confidence float64
}

// NewDefaultRecodifyConfig creates a new RecodifyConfig with default values
func NewDefaultRecodifyConfig() *RecodifyConfig {
	schedule := os.Getenv("RECODIFY_SCHEDULE")
	if schedule == "" {
		schedule = config.DefaultRecodifySchedule
	}

	batchSize := config.RecodifyBatchSize
	if bs := os.Getenv("RECODIFY_BATCH_SIZE"); bs != "" {
		if parsed, err := strconv.Atoi(bs); err == nil && parsed > 0 {
			batchSize = parsed
		}
	}

	return &RecodifyConfig{
		Schedule:  schedule,
		BatchSize: batchSize,
		TimeZone:  config.DefaultTimeZone,
	}
}

// RunRecodifyScheduler starts the cron job that re-runs the Fast Pass over
// items still in pending_review. Aliases learned or added since the original
// batch make previously missed items match.
func RunRecodifyScheduler(cfg *RecodifyConfig, db *pgxpool.Pool) error {
	if cfg.Schedule == "" {
		cfg.Schedule = config.DefaultRecodifySchedule
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = config.RecodifyBatchSize
	}
	if cfg.TimeZone == "" {
		cfg.TimeZone = config.DefaultTimeZone
	}

	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		loc = time.UTC
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Invalid timezone %s, falling back to UTC: %v", cfg.TimeZone, err))
	}

	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.Schedule, func() {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Starting re-codification job at %s", time.Now().In(loc).Format(time.RFC3339)))
		err := ProcessPendingItems(db, cfg.BatchSize)
		if err != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("Re-codification job failed: %v", err))
			log.Printf("ERROR: Re-codification job failed: %v", err)
		} else {
			logger.GlobalLogger.LogAudit("Re-codification job completed successfully")
		}
	})

	if err != nil {
		return fmt.Errorf("unable to schedule re-codification processor: %v", err)
	}

	c.Start()
	logger.GlobalLogger.LogAudit(fmt.Sprintf("Re-codification scheduler started with schedule: %s (timezone: %s)", cfg.Schedule, cfg.TimeZone))
	log.Printf("[AUDIT] Re-codification scheduler started: %s (%s)", cfg.Schedule, cfg.TimeZone)

	return nil
}

// ProcessPendingItems re-matches every pending_review line item against the
// current alias dictionary. The dictionary is loaded once; items are fetched
// and updated in batches. batchSize controls how many items go into a single
// bulk UPDATE (not how many are processed overall).
func ProcessPendingItems(db *pgxpool.Pool, batchSize int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Hour)
	defer cancel()

	startTime := time.Now()
	logger.GlobalLogger.LogAudit("Re-codification: Starting to count pending items")

	pgDB := db.Config().ConnConfig.Database
	pgUser := db.Config().ConnConfig.User
	pgPass := db.Config().ConnConfig.Password
	pgHost := db.Config().ConnConfig.Host
	pgPort := db.Config().ConnConfig.Port

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", pgUser, pgPass, pgHost, pgPort, pgDB)
	sqlDB, err := sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open sql.DB connection: %w", err)
	}
	defer sqlDB.Close()

	var totalCount int
	countQuery := `SELECT COUNT(*) FROM codifyengine.line_items WHERE mapping_status = 'pending_review'`
	err = sqlDB.QueryRowContext(ctx, countQuery).Scan(&totalCount)
	if err != nil {
		return fmt.Errorf("failed to count pending items: %w", err)
	}

	if totalCount == 0 {
		logger.GlobalLogger.LogAudit("No pending items found")
		return nil
	}

	log.Printf("[AUDIT] Total pending items: %d", totalCount)
	logger.GlobalLogger.LogAudit(fmt.Sprintf("Found %d pending items to re-match", totalCount))

	// Load the full dictionary ONCE (avoid N+1 query problem)
	log.Println("[AUDIT] Loading alias dictionary...")
	lookup, err := loadDictionaryForJob(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("failed to load alias dictionary: %w", err)
	}
	log.Printf("[AUDIT] Loaded %d dictionary entries", len(lookup))

	if len(lookup) == 0 {
		logger.GlobalLogger.LogAudit("Alias dictionary is empty, nothing to re-match against")
		return nil
	}

	type itemRow struct {
		id           string
		originalName string
		category     string
		value        sql.NullString
	}

	offset := 0
	totalProcessed := 0
	totalMatched := 0

	if batchSize <= 0 {
		batchSize = config.RecodifyBatchSize
	}

	log.Printf("[AUDIT] Starting batch processing (batch size: %d)...", batchSize)

	for {
		query := `
			SELECT item_id, original_name, COALESCE(category, ''), value
			FROM codifyengine.line_items
			WHERE mapping_status = 'pending_review'
			ORDER BY created_at, item_id
			LIMIT $1 OFFSET $2
		`
		rows, err := sqlDB.QueryContext(ctx, query, batchSize, offset)
		if err != nil {
			return fmt.Errorf("failed to query pending items at offset %d: %w", offset, err)
		}

		var items []itemRow
		for rows.Next() {
			var ir itemRow
			if err := rows.Scan(&ir.id, &ir.originalName, &ir.category, &ir.value); err != nil {
				logger.GlobalLogger.LogAudit(fmt.Sprintf("Failed to scan pending item row: %v", err))
				continue
			}
			items = append(items, ir)
		}
		rows.Close()

		if len(items) == 0 {
			break
		}

		log.Printf("[AUDIT] Processing batch: items %d-%d of %d", totalProcessed+1, totalProcessed+len(items), totalCount)

		updates := make([]recodifyUpdate, 0, len(items))
		for _, ir := range items {
			totalProcessed++

			raw := codify.RawItem{Label: ir.originalName, Category: ir.category}
			if ir.value.Valid {
				if v, err := strconv.ParseFloat(ir.value.String, 64); err == nil {
					raw.Value = v
				}
			}
			matched := codify.MatchFuzzy(raw, lookup, codify.DefaultFuzzyThreshold)
			if matched.MappingStatus == codify.StatusMatched {
				updates = append(updates, recodifyUpdate{
					itemID:     ir.id,
					code:       matched.ItemCode,
					confidence: matched.Confidence,
				})
				totalMatched++
			}
		}

		if len(updates) > 0 {
			if err := bulkUpdateMatchedItems(ctx, sqlDB, updates); err != nil {
				return fmt.Errorf("failed to bulk update matched items: %w", err)
			}
		}

		// Matched rows drop out of the pending filter, so only advance the
		// offset past the ones still left pending.
		offset += len(items) - len(updates)
	}

	duration := time.Since(startTime)
	log.Printf("[AUDIT] Re-codification finished: %d/%d items matched in %s", totalMatched, totalProcessed, duration.Round(time.Second))
	logger.GlobalLogger.LogAudit(fmt.Sprintf("Re-codification finished: %d/%d items matched in %s", totalMatched, totalProcessed, duration.Round(time.Second)))

	return nil
}

// loadDictionaryForJob loads every dictionary entry and builds the collision
// resolved lookup used by the matcher.
func loadDictionaryForJob(ctx context.Context, db *sql.DB) (map[string]codify.AliasEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT normalized_alias, canonical_code, canonical_code_id, confidence, COALESCE(source, '')
		FROM codifyengine.alias_dictionary
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []codify.AliasEntry
	for rows.Next() {
		var e codify.AliasEntry
		if err := rows.Scan(&e.NormalizedAlias, &e.CanonicalCode, &e.CanonicalCodeID, &e.Confidence, &e.Source); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codify.BuildLookup(entries), nil
}

// bulkUpdateMatchedItems flips a batch of items to matched in one statement.
func bulkUpdateMatchedItems(ctx context.Context, db *sql.DB, updates []recodifyUpdate) error {
	itemIDs := make([]string, 0, len(updates))
	codes := make([]string, 0, len(updates))
	confidences := make([]float64, 0, len(updates))
	for _, u := range updates {
		itemIDs = append(itemIDs, u.itemID)
		codes = append(codes, u.code)
		confidences = append(confidences, u.confidence)
	}

	query := `
		UPDATE codifyengine.line_items AS li
		SET mapping_status = 'matched',
			item_code = u.code,
			confidence = u.confidence
		FROM (
			SELECT unnest($1::uuid[]) AS item_id,
				unnest($2::text[]) AS code,
				unnest($3::float8[]) AS confidence
		) AS u
		WHERE li.item_id = u.item_id
	`
	_, err := db.ExecContext(ctx, query, pq.Array(itemIDs), pq.Array(codes), pq.Array(confidences))
	return err
}
