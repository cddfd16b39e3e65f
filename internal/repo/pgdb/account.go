package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo/repo_errors"
	"jobify-api/pkg/postgres"

	"github.com/google/uuid"
)

type AccountRepo struct {
	*postgres.Postgres
}

func NewAccountRepo(pgdb *postgres.Postgres) *AccountRepo {
	return &AccountRepo{pgdb}
}

func tableFor(role entity.Role) (string, error) {
	switch role {
	case entity.RoleClient:
		return "client", nil
	case entity.RoleServiceProvider:
		return "service_provider", nil
	}

	return "", fmt.Errorf("unknown role %q", role)
}

// GetAccountByEmail looks in the service provider table first, then in clients.
func (r *AccountRepo) GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error) {
	for _, role := range []entity.Role{entity.RoleServiceProvider, entity.RoleClient} {
		table, _ := tableFor(role)
		sqlReq, args, _ := r.SqlBuilder.
			Select("id, email, password, status").
			From(table).
			Where("email = ?", email).
			ToSql()

		account := entity.Account{Role: role}
		err := r.Database.QueryRowContext(ctx, sqlReq, args...).
			Scan(&account.Id, &account.Email, &account.Password, &account.Status)
		if err == nil {
			return &account, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	return nil, repo_errors.ErrNotFound
}

func (r *AccountRepo) GetAccountById(ctx context.Context, role entity.Role, id uuid.UUID) (*entity.Account, error) {
	table, err := tableFor(role)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("id, email, password, status").
		From(table).
		Where("id = ?", id).
		ToSql()

	account := entity.Account{Role: role}
	err = r.Database.QueryRowContext(ctx, sqlReq, args...).
		Scan(&account.Id, &account.Email, &account.Password, &account.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &account, nil
}

func (r *AccountRepo) UpdatePassword(ctx context.Context, role entity.Role, id uuid.UUID, passwordHash string) error {
	return r.updateColumn(ctx, role, id, "password", passwordHash)
}

func (r *AccountRepo) UpdateAccountStatus(ctx context.Context, role entity.Role, id uuid.UUID, status string) error {
	return r.updateColumn(ctx, role, id, "status", status)
}

func (r *AccountRepo) updateColumn(ctx context.Context, role entity.Role, id uuid.UUID, column string, value string) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Update(table).
		Set(column, value).
		Where("id = ?", id).
		ToSql()

	updated, err := execAffected(ctx, r.Database, sqlReq, args...)
	if err != nil {
		return err
	}
	if !updated {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *AccountRepo) DeleteAccount(ctx context.Context, role entity.Role, id uuid.UUID) (bool, error) {
	table, err := tableFor(role)
	if err != nil {
		return false, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Delete(table).
		Where("id = ?", id).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}
