package templater

import "CodifyEngine/internal/serviceiface"

type TemplaterService struct {
	config map[string]interface{}
}

func NewTemplaterService(cfg map[string]interface{}) serviceiface.Service {
	return &TemplaterService{config: cfg}
}

func (s *TemplaterService) Name() string {
	return "templater"
}

func (s *TemplaterService) Start() error {
	go StartTemplaterService()
	return nil
}

func (s *TemplaterService) Stop() error {
	// Implement stop logic if needed
	return nil
}
