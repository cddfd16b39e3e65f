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

const jobContractColumns = "id, job_ad_id, status, contract, client_signature, service_provider_signature, COALESCE(price_id, ''), COALESCE(product_id, ''), drafted_at, created_at, updated_at"

type JobContractRepo struct {
	*postgres.Postgres
}

func NewJobContractRepo(pgdb *postgres.Postgres) *JobContractRepo {
	return &JobContractRepo{pgdb}
}

// SaveClientContract inserts the contract of a job ad or overwrites the
// existing one, keeping a single row per job ad, and selects the provider in
// the same transaction. draftedAt is the date printed on every copy.
func (r *JobContractRepo) SaveClientContract(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID, contract []byte, clientSignature []byte, draftedAt time.Time) (uuid.UUID, error) {
	now := time.Now().UTC()
	sqlReq, args, _ := r.SqlBuilder.
		Insert("job_contract").
		Columns("id", "job_ad_id", "status", "contract", "client_signature", "drafted_at", "created_at", "updated_at").
		Values(uuid.New(), jobAdId, common.ContractPending, contract, clientSignature, draftedAt, now, now).
		Suffix("ON CONFLICT (job_ad_id) DO UPDATE SET " +
			"status = EXCLUDED.status, contract = EXCLUDED.contract, " +
			"client_signature = EXCLUDED.client_signature, drafted_at = EXCLUDED.drafted_at, " +
			"updated_at = EXCLUDED.updated_at " +
			"RETURNING id").
		ToSql()

	var id uuid.UUID
	err := inTx(ctx, r.Database, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, sqlReq, args...).Scan(&id); err != nil {
			return err
		}

		return selectCandidate(ctx, tx, r.SqlBuilder, jobAdId, serviceProviderId)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return id, nil
}

func (r *JobContractRepo) SaveServiceProviderContract(ctx context.Context, jobAdId uuid.UUID, contract []byte, serviceProviderSignature []byte) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("job_contract").
		Set("contract", contract).
		Set("service_provider_signature", serviceProviderSignature).
		Set("status", common.ContractCompleted).
		Set("updated_at", time.Now().UTC()).
		Where("job_ad_id = ?", jobAdId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func (r *JobContractRepo) GetContractByJobAdId(ctx context.Context, jobAdId uuid.UUID) (*entity.JobContract, error) {
	return r.getOne(ctx, "job_ad_id = ?", jobAdId)
}

func (r *JobContractRepo) GetContractById(ctx context.Context, id uuid.UUID) (*entity.JobContract, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *JobContractRepo) getOne(ctx context.Context, pred string, id uuid.UUID) (*entity.JobContract, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(jobContractColumns).
		From("job_contract").
		Where(pred, id).
		ToSql()

	var c entity.JobContract
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&c.Id, &c.JobAdId, &c.Status, &c.Contract,
		&c.ClientSignature, &c.ServiceProviderSignature, &c.PriceId, &c.ProductId, &c.DraftedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &c, nil
}

// SavePricing stores the provider price on the contract and the customer on
// the job ad together. Nothing is written unless both rows exist.
func (r *JobContractRepo) SavePricing(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID, priceId string, productId string, customerId string) (bool, error) {
	contractReq, contractArgs, _ := r.SqlBuilder.
		Update("job_contract").
		Set("price_id", priceId).
		Set("product_id", productId).
		Set("updated_at", time.Now().UTC()).
		Where("job_ad_id = ?", jobAdId).
		ToSql()

	customerReq, customerArgs, _ := r.SqlBuilder.
		Update("job_ad").
		Set("customer_id", customerId).
		Where("id = ? AND client_id = ?", jobAdId, clientId).
		ToSql()

	err := inTx(ctx, r.Database, func(tx *sql.Tx) error {
		for _, stmt := range []struct {
			sql  string
			args []any
		}{{contractReq, contractArgs}, {customerReq, customerArgs}} {
			updated, err := execAffected(ctx, tx, stmt.sql, stmt.args...)
			if err != nil {
				return err
			}
			if !updated {
				return repo_errors.ErrNotFound
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
