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

const clientColumns = "client.id, client.email, client.password, client.type, client.first_name, client.last_name, client.company_name, client.address, client.city, client.country, client.status, client.created_at"

type ClientRepo struct {
	*postgres.Postgres
}

func NewClientRepo(pgdb *postgres.Postgres) *ClientRepo {
	return &ClientRepo{pgdb}
}

func (r *ClientRepo) CreateClient(ctx context.Context, input *entity.RegisterClientInput) (uuid.UUID, error) {
	id := uuid.New()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("client").
		Columns("id", "email", "password", "type", "first_name", "last_name", "company_name", "address", "city", "country", "status", "created_at").
		Values(id, input.Email, input.Password, input.Type, input.FirstName, input.LastName, input.CompanyName,
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

func (r *ClientRepo) GetClientById(ctx context.Context, id uuid.UUID) (*entity.Client, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(clientColumns).
		From("client").
		Where("id = ?", id).
		ToSql()

	var client entity.Client
	err := scanClient(r.Database.QueryRowContext(ctx, sqlReq, args...), &client)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &client, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner, c *entity.Client) error {
	return row.Scan(&c.Id, &c.Email, &c.Password, &c.Type, &c.FirstName, &c.LastName, &c.CompanyName,
		&c.Address, &c.City, &c.Country, &c.Status, &c.CreatedAt)
}
