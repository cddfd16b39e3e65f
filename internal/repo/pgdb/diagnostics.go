package pgdb

import (
	"context"
	"jobify-api/pkg/postgres"
)

type DiagnosticsRepo struct {
	*postgres.Postgres
}

func NewDiagnosticsRepo(pgdb *postgres.Postgres) *DiagnosticsRepo {
	return &DiagnosticsRepo{pgdb}
}

func (r *DiagnosticsRepo) Ping(ctx context.Context) error {
	var one int

	return r.Database.QueryRowContext(ctx, "SELECT 1").Scan(&one)
}
