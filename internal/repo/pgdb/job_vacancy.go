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

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

const jobVacancyColumns = "id, job_ad_id, service_provider_id, job_status, application_status, COALESCE(service_provider_stripe_account_id, ''), applied_at"

type JobVacancyRepo struct {
	*postgres.Postgres
}

func NewJobVacancyRepo(pgdb *postgres.Postgres) *JobVacancyRepo {
	return &JobVacancyRepo{pgdb}
}

func (r *JobVacancyRepo) CreateJobVacancy(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) (uuid.UUID, error) {
	id := uuid.New()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("job_vacancy").
		Columns("id", "job_ad_id", "service_provider_id", "job_status", "application_status", "applied_at").
		Values(id, jobAdId, serviceProviderId, common.JobNeutral, common.ApplicationApplied, time.Now().UTC()).
		Suffix("ON CONFLICT (job_ad_id, service_provider_id) DO NOTHING").
		ToSql()

	inserted, err := execAffected(ctx, r.Database, sqlReq, args...)
	if err != nil {
		return uuid.Nil, err
	}
	if !inserted {
		return uuid.Nil, repo_errors.ErrAlreadyExists
	}

	return id, nil
}

func (r *JobVacancyRepo) GetJobVacancy(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) (*entity.JobVacancy, error) {
	return r.getOne(ctx, "job_ad_id = ? AND service_provider_id = ?", jobAdId, serviceProviderId)
}

func (r *JobVacancyRepo) GetSelectedJobVacancy(ctx context.Context, jobAdId uuid.UUID) (*entity.JobVacancy, error) {
	return r.getOne(ctx, "job_ad_id = ? AND application_status = ?", jobAdId, common.ApplicationSelected)
}

func (r *JobVacancyRepo) GetCompletedJobVacancy(ctx context.Context, jobAdId uuid.UUID) (*entity.JobVacancy, error) {
	return r.getOne(ctx, "job_ad_id = ? AND job_status = ?", jobAdId, common.JobCompleted)
}

func (r *JobVacancyRepo) getOne(ctx context.Context, pred string, args ...any) (*entity.JobVacancy, error) {
	sqlReq, sqlArgs, _ := r.SqlBuilder.
		Select(jobVacancyColumns).
		From("job_vacancy").
		Where(pred, args...).
		Limit(1).
		ToSql()

	var v entity.JobVacancy
	err := scanJobVacancy(r.Database.QueryRowContext(ctx, sqlReq, sqlArgs...), &v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &v, nil
}

func (r *JobVacancyRepo) GetJobVacancies(ctx context.Context, jobAdId uuid.UUID) ([]entity.JobVacancy, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(jobVacancyColumns).
		From("job_vacancy").
		Where("job_ad_id = ?", jobAdId).
		OrderBy("applied_at ASC", "id ASC").
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vacancies := make([]entity.JobVacancy, 0)
	for rows.Next() {
		var v entity.JobVacancy
		if err := scanJobVacancy(rows, &v); err != nil {
			return nil, err
		}
		vacancies = append(vacancies, v)
	}

	return vacancies, rows.Err()
}

// SelectCandidate rejects every other vacancy of the job ad before selecting
// the chosen one, so the one-selected index never sees two selected rows.
func (r *JobVacancyRepo) SelectCandidate(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) error {
	return inTx(ctx, r.Database, func(tx *sql.Tx) error {
		return selectCandidate(ctx, tx, r.SqlBuilder, jobAdId, serviceProviderId)
	})
}

func selectCandidate(ctx context.Context, tx *sql.Tx, builder squirrel.StatementBuilderType, jobAdId uuid.UUID, serviceProviderId uuid.UUID) error {
	checkReq, checkArgs, _ := builder.
		Select("id").
		From("job_vacancy").
		Where("job_ad_id = ? AND service_provider_id = ?", jobAdId, serviceProviderId).
		ToSql()

	var id uuid.UUID
	if err := tx.QueryRowContext(ctx, checkReq, checkArgs...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repo_errors.ErrNotFound
		}

		return err
	}

	rejectReq, rejectArgs, _ := builder.
		Update("job_vacancy").
		Set("application_status", common.ApplicationRejected).
		Where("job_ad_id = ? AND service_provider_id <> ?", jobAdId, serviceProviderId).
		ToSql()

	if _, err := tx.ExecContext(ctx, rejectReq, rejectArgs...); err != nil {
		return err
	}

	selectReq, selectArgs, _ := builder.
		Update("job_vacancy").
		Set("application_status", common.ApplicationSelected).
		Where("id = ?", id).
		ToSql()

	_, err := tx.ExecContext(ctx, selectReq, selectArgs...)

	return err
}

func (r *JobVacancyRepo) UpdateJobStatus(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID, status string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("job_vacancy").
		Set("job_status", status).
		Where("job_ad_id = ? AND service_provider_id = ?", jobAdId, serviceProviderId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func (r *JobVacancyRepo) SaveStripeAccount(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID, accountId string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("job_vacancy").
		Set("service_provider_stripe_account_id", accountId).
		Where("job_ad_id = ? AND service_provider_id = ?", jobAdId, serviceProviderId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func (r *JobVacancyRepo) HasStripeAccount(ctx context.Context, serviceProviderId uuid.UUID, accountId string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("COUNT(*)").
		From("job_vacancy").
		Where("service_provider_id = ? AND service_provider_stripe_account_id = ?", serviceProviderId, accountId).
		ToSql()

	var n int
	if err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&n); err != nil {
		return false, err
	}

	return n > 0, nil
}

func (r *JobVacancyRepo) CompleteApplication(ctx context.Context, jobAdId uuid.UUID, accountId string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("job_vacancy").
		Set("application_status", common.ApplicationCompleted).
		Where("job_ad_id = ? AND service_provider_stripe_account_id = ?", jobAdId, accountId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func scanJobVacancy(row rowScanner, v *entity.JobVacancy) error {
	return row.Scan(&v.Id, &v.JobAdId, &v.ServiceProviderId, &v.JobStatus, &v.ApplicationStatus,
		&v.ServiceProviderStripeAccountId, &v.AppliedAt)
}
