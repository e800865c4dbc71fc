package codify

import (
	"CodifyEngine/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CodifyService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
}

func NewCodifyService(cfg map[string]interface{}, pool *pgxpool.Pool) serviceiface.Service {
	return &CodifyService{config: cfg, pool: pool}
}

func (s *CodifyService) Name() string {
	return "codify"
}

func (s *CodifyService) Start() error {
	go StartCodifyService(s.pool)
	return nil
}

func (s *CodifyService) Stop() error {
	// Implement stop logic if needed
	return nil
}
