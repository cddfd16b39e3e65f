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

const jobAdColumns = "job_ad.id, job_ad.client_id, job_ad.title, job_ad.description, job_ad.hourly_rate, job_ad.payment_currency, job_ad.working_hours, job_ad.duration, job_ad.work_deadline, job_ad.application_deadline, job_ad.status, COALESCE(job_ad.customer_id, ''), job_ad.created_at"

type JobAdRepo struct {
	*postgres.Postgres
}

func NewJobAdRepo(pgdb *postgres.Postgres) *JobAdRepo {
	return &JobAdRepo{pgdb}
}

func (r *JobAdRepo) CreateJobAd(ctx context.Context, input *entity.CreateJobAdInput) (uuid.UUID, error) {
	id := uuid.New()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("job_ad").
		Columns("id", "client_id", "title", "description", "hourly_rate", "payment_currency", "working_hours",
			"duration", "work_deadline", "application_deadline", "status", "created_at").
		Values(id, input.ClientId, input.Title, input.Description, input.HourlyRate, input.PaymentCurrency,
			input.WorkingHours, input.Duration, input.WorkDeadline.UTC(), input.ApplicationDeadline.UTC(),
			common.JobAdActive, time.Now().UTC()).
		ToSql()

	if _, err := r.Database.ExecContext(ctx, sqlReq, args...); err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *JobAdRepo) GetJobAdById(ctx context.Context, id uuid.UUID) (*entity.JobAd, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(jobAdColumns).
		From("job_ad").
		Where("id = ?", id).
		ToSql()

	var jobAd entity.JobAd
	err := scanJobAd(r.Database.QueryRowContext(ctx, sqlReq, args...), &jobAd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &jobAd, nil
}

func (r *JobAdRepo) GetJobAdWithClient(ctx context.Context, id uuid.UUID) (*entity.JobAdWithClient, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(jobAdColumns + ", " + clientColumns).
		From("job_ad").
		Join("client ON client.id = job_ad.client_id").
		Where("job_ad.id = ?", id).
		ToSql()

	var j entity.JobAdWithClient
	c := &j.Client
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(
		&j.Id, &j.ClientId, &j.Title, &j.Description, &j.HourlyRate, &j.PaymentCurrency, &j.WorkingHours,
		&j.Duration, &j.WorkDeadline, &j.ApplicationDeadline, &j.Status, &j.CustomerId, &j.CreatedAt,
		&c.Id, &c.Email, &c.Password, &c.Type, &c.FirstName, &c.LastName, &c.CompanyName,
		&c.Address, &c.City, &c.Country, &c.Status, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &j, nil
}

func (r *JobAdRepo) UpdateJobAdStatus(ctx context.Context, id uuid.UUID, status string) error {
	sqlReq, args, _ := r.SqlBuilder.
		Update("job_ad").
		Set("status", status).
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

func scanJobAd(row rowScanner, j *entity.JobAd) error {
	return row.Scan(&j.Id, &j.ClientId, &j.Title, &j.Description, &j.HourlyRate, &j.PaymentCurrency, &j.WorkingHours,
		&j.Duration, &j.WorkDeadline, &j.ApplicationDeadline, &j.Status, &j.CustomerId, &j.CreatedAt)
}
