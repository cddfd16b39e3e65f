package service

import (
	"context"
	"jobify-api/internal/repo"
)

type DiagnosticsService struct {
	diagnosticsRepo repo.Diagnostics
}

func NewDiagnosticsService(repos *repo.Repositories) *DiagnosticsService {
	return &DiagnosticsService{repos.Diagnostics}
}

// Ping reports whether the record store answers.
func (s *DiagnosticsService) Ping(ctx context.Context) error {
	return s.diagnosticsRepo.Ping(ctx)
}
