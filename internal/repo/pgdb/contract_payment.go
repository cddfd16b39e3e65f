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
	"github.com/shopspring/decimal"
)

const contractPaymentColumns = "id, job_contract_id, COALESCE(invoice_id, ''), COALESCE(session_id, ''), amount, status, invoice_pdf, created_at"

type ContractPaymentRepo struct {
	*postgres.Postgres
}

func NewContractPaymentRepo(pgdb *postgres.Postgres) *ContractPaymentRepo {
	return &ContractPaymentRepo{pgdb}
}

// SaveContractPayment finds or creates the payment of a contract. A pending
// row takes the new invoice and amount; switching invoices drops the session
// and pdf of the old one. A completed row is never touched and yields
// repo_errors.ErrConflict.
func (r *ContractPaymentRepo) SaveContractPayment(ctx context.Context, jobContractId uuid.UUID, invoiceId string, amount decimal.Decimal) (uuid.UUID, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Insert("contract_payment").
		Columns("id", "job_contract_id", "invoice_id", "amount", "status", "created_at").
		Values(uuid.New(), jobContractId, invoiceId, amount, common.PaymentPending, time.Now().UTC()).
		Suffix("ON CONFLICT (job_contract_id) DO UPDATE SET "+
			"session_id = CASE WHEN contract_payment.invoice_id = EXCLUDED.invoice_id THEN contract_payment.session_id ELSE NULL END, "+
			"invoice_pdf = CASE WHEN contract_payment.invoice_id = EXCLUDED.invoice_id THEN contract_payment.invoice_pdf ELSE NULL END, "+
			"invoice_id = EXCLUDED.invoice_id, amount = EXCLUDED.amount, status = EXCLUDED.status "+
			"WHERE contract_payment.status <> ? "+
			"RETURNING id", common.PaymentCompleted).
		ToSql()

	var id uuid.UUID
	if err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repo_errors.ErrConflict
		}

		return uuid.Nil, err
	}

	return id, nil
}

func (r *ContractPaymentRepo) GetContractPaymentByContractId(ctx context.Context, jobContractId uuid.UUID) (*entity.ContractPayment, error) {
	return r.getOne(ctx, "job_contract_id = ?", jobContractId)
}

func (r *ContractPaymentRepo) GetContractPaymentByInvoiceId(ctx context.Context, invoiceId string) (*entity.ContractPayment, error) {
	return r.getOne(ctx, "invoice_id = ?", invoiceId)
}

func (r *ContractPaymentRepo) getOne(ctx context.Context, pred string, arg any) (*entity.ContractPayment, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select(contractPaymentColumns).
		From("contract_payment").
		Where(pred, arg).
		ToSql()

	var p entity.ContractPayment
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&p.Id, &p.JobContractId, &p.InvoiceId,
		&p.SessionId, &p.Amount, &p.Status, &p.InvoicePdf, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &p, nil
}

// GetPaymentData joins everything checkout needs. The job ad must belong to
// the client and have a contract and a completed vacancy.
func (r *ContractPaymentRepo) GetPaymentData(ctx context.Context, jobAdId uuid.UUID, clientId uuid.UUID) (*entity.PaymentData, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("job_ad.id, job_contract.id, client.type, COALESCE(job_ad.customer_id, ''), " +
			"COALESCE(job_contract.price_id, ''), COALESCE(contract_payment.invoice_id, ''), " +
			"COALESCE(job_vacancy.service_provider_stripe_account_id, '')").
		From("job_ad").
		Join("client ON client.id = job_ad.client_id").
		Join("job_contract ON job_contract.job_ad_id = job_ad.id").
		Join("job_vacancy ON job_vacancy.job_ad_id = job_ad.id AND job_vacancy.job_status = ?", common.JobCompleted).
		LeftJoin("contract_payment ON contract_payment.job_contract_id = job_contract.id").
		Where("job_ad.id = ? AND job_ad.client_id = ?", jobAdId, clientId).
		Limit(1).
		ToSql()

	var d entity.PaymentData
	err := r.Database.QueryRowContext(ctx, sqlReq, args...).Scan(&d.JobAdId, &d.JobContractId, &d.ClientType,
		&d.CustomerId, &d.PriceId, &d.InvoiceId, &d.ServiceProviderAccountId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &d, nil
}

func (r *ContractPaymentRepo) SaveSessionId(ctx context.Context, invoiceId string, sessionId string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("contract_payment").
		Set("session_id", sessionId).
		Where("invoice_id = ?", invoiceId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func (r *ContractPaymentRepo) CompletePayment(ctx context.Context, invoiceId string) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("contract_payment").
		Set("status", common.PaymentCompleted).
		Where("invoice_id = ?", invoiceId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func (r *ContractPaymentRepo) SaveInvoicePdf(ctx context.Context, invoiceId string, pdf []byte) (bool, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Update("contract_payment").
		Set("invoice_pdf", pdf).
		Where("invoice_id = ?", invoiceId).
		ToSql()

	return execAffected(ctx, r.Database, sqlReq, args...)
}

func (r *ContractPaymentRepo) GetPendingReconciliations(ctx context.Context, limit int) ([]entity.PendingReconciliation, error) {
	sqlReq, args, _ := r.SqlBuilder.
		Select("job_contract.job_ad_id, contract_payment.session_id").
		From("contract_payment").
		Join("job_contract ON job_contract.id = contract_payment.job_contract_id").
		Where("contract_payment.status = ? AND contract_payment.session_id IS NOT NULL AND contract_payment.session_id <> ''",
			common.PaymentPending).
		OrderBy("contract_payment.created_at ASC").
		Limit(uint64(limit)).
		ToSql()

	rows, err := r.Database.QueryContext(ctx, sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pending := make([]entity.PendingReconciliation, 0)
	for rows.Next() {
		var p entity.PendingReconciliation
		if err := rows.Scan(&p.JobAdId, &p.SessionId); err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}

	return pending, rows.Err()
}
