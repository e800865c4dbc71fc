package jobs

import (
	"fmt"
	"log"

	"CodifyEngine/internal/logger"
	"CodifyEngine/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	recodifyConfig := NewDefaultRecodifyConfig()

	// Override from services.yaml if provided
	if s.config != nil {
		if schedule, ok := s.config["recodify_schedule"].(string); ok && schedule != "" {
			recodifyConfig.Schedule = schedule
		}
		if batchSize, ok := s.config["recodify_batch_size"].(int); ok && batchSize > 0 {
			recodifyConfig.BatchSize = batchSize
		}
	}

	err := RunRecodifyScheduler(recodifyConfig, s.db)
	if err != nil {
		return fmt.Errorf("failed to start re-codification scheduler: %v", err)
	}

	logger.GlobalLogger.LogAudit("Re-codification scheduler started")
	log.Println("Cron service started, re-codification scheduled")

	return nil
}

func (s *CronService) Stop() error {
	// Cron entries are managed internally by RunRecodifyScheduler
	log.Println("Cron service stopped.")
	return nil
}
