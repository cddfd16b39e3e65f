package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo/repo_errors"
	"jobify-api/pkg/postgres"
	"time"

	"github.com/google/uuid"
)

type ServiceProviderRepo struct {
	*postgres.Postgres
}

func NewServiceProviderRepo(pgdb *postgres.Postgres) *ServiceProviderRepo {
	return &ServiceProviderRepo{pgdb}
}

func (r *ServiceProviderRepo) CreateServiceProvider(ctx context.Context, input *entity.RegisterServiceProviderInput) (uuid.UUID, error) {
	id := uuid.New()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("service_provider").
		Columns("id", "email", "password", "first_name", "last_name", "address", "city", "country", "status", "created_at").
		Values(id, input.Email, input.Password, input.FirstName, input.LastName,
			input.Address, input.City, input.Country, common.AccountActive, time.Now().UTC()).
		ToSql()

	if _, err := r.Database.ExecContext(ctx, sqlReq, args...); err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, repo_errors.ErrAlreadyExists
		}

		return uuid.Nil, err
	}

	return id, nil
}

func (r *ServiceProviderRepo) GetServiceProviderById(ctx context.Context, id uuid.UUID) (*entity.ServiceProvider, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("id, email, password, first_name, last_name, address, city, country, iban, bank_name, status, created_at").
		From("service_provider").
		Where("id = ?", id).
		ToSql()

	var sp entity.ServiceProvider
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).
		Scan(&sp.Id, &sp.Email, &sp.Password, &sp.FirstName, &sp.LastName, &sp.Address, &sp.City,
			&sp.Country, &sp.Iban, &sp.BankName, &sp.Status, &sp.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &sp, nil
}

func (r *ServiceProviderRepo) UpdateBankDetails(ctx context.Context, id uuid.UUID, iban string, bankName string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("service_provider").
		Set("iban", iban).
		Set("bank_name", bankName).
		Where("id = ?", id).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// execAffected runs an update and reports whether any row matched.
func execAffected(ctx context.Context, db execer, sqlReq string, args ...any) (bool, error) {
	res, err := db.ExecContext(ctx, sqlReq, args...)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return n > 0, nil
}
