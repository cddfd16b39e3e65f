package repo

import (
	"context"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo/pgdb"
	"jobify-api/pkg/postgres"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Client interface {
	CreateClient(ctx context.Context, input *entity.RegisterClientInput) (uuid.UUID, error)
	GetClientById(ctx context.Context, id uuid.UUID) (*entity.Client, error)
}

type ServiceProvider interface {
	CreateServiceProvider(ctx context.Context, input *entity.RegisterServiceProviderInput) (uuid.UUID, error)
	GetServiceProviderById(ctx context.Context, id uuid.UUID) (*entity.ServiceProvider, error)
	UpdateBankDetails(ctx context.Context, id uuid.UUID, iban string, bankName string) (bool, error)
}

// Account works on either user table; the role picks the table.
type Account interface {
	GetAccountByEmail(ctx context.Context, email string) (*entity.Account, error)
	GetAccountById(ctx context.Context, role entity.Role, id uuid.UUID) (*entity.Account, error)
	UpdatePassword(ctx context.Context, role entity.Role, id uuid.UUID, passwordHash string) error
	UpdateAccountStatus(ctx context.Context, role entity.Role, id uuid.UUID, status string) error
	DeleteAccount(ctx context.Context, role entity.Role, id uuid.UUID) (bool, error)
}

type JobAd interface {
	CreateJobAd(ctx context.Context, input *entity.CreateJobAdInput) (uuid.UUID, error)
	GetJobAdById(ctx context.Context, id uuid.UUID) (*entity.JobAd, error)
	GetJobAdWithClient(ctx context.Context, id uuid.UUID) (*entity.JobAdWithClient, error)
	UpdateJobAdStatus(ctx context.Context, id uuid.UUID, status string) error
}

type JobVacancy interface {
	CreateJobVacancy(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) (uuid.UUID, error)
	GetJobVacancy(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) (*entity.JobVacancy, error)
	GetJobVacancies(ctx context.Context, jobAdId uuid.UUID) ([]entity.JobVacancy, error)
	GetSelectedJobVacancy(ctx context.Context, jobAdId uuid.UUID) (*entity.JobVacancy, error)
	GetCompletedJobVacancy(ctx context.Context, jobAdId uuid.UUID) (*entity.JobVacancy, error)
	SelectCandidate(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) error
	UpdateJobStatus(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID, status string) (bool, error)
	SaveStripeAccount(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID, accountId string) (bool, error)
	HasStripeAccount(ctx context.Context, serviceProviderId uuid.UUID, accountId string) (bool, error)
	CompleteApplication(ctx context.Context, jobAdId uuid.UUID, accountId string) (bool, error)
}

type JobContract interface {
	SaveClientContract(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID, contract []byte, clientSignature []byte, draftedAt time.Time) (uuid.UUID, error)
	SaveServiceProviderContract(ctx context.Context, jobAdId uuid.UUID, contract []byte, serviceProviderSignature []byte) (bool, error)
	GetContractByJobAdId(ctx context.Context, jobAdId uuid.UUID) (*entity.JobContract, error)
	GetContractById(ctx context.Context, id uuid.UUID) (*entity.JobContract, error)
	SavePricing(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID, priceId string, productId string, customerId string) (bool, error)
}

type ContractPayment interface {
	SaveContractPayment(ctx context.Context, jobContractId uuid.UUID, invoiceId string, amount decimal.Decimal) (uuid.UUID, error)
	GetContractPaymentByContractId(ctx context.Context, jobContractId uuid.UUID) (*entity.ContractPayment, error)
	GetContractPaymentByInvoiceId(ctx context.Context, invoiceId string) (*entity.ContractPayment, error)
	GetPaymentData(ctx context.Context, jobAdId uuid.UUID, clientId uuid.UUID) (*entity.PaymentData, error)
	SaveSessionId(ctx context.Context, invoiceId string, sessionId string) (bool, error)
	CompletePayment(ctx context.Context, invoiceId string) (bool, error)
	SaveInvoicePdf(ctx context.Context, invoiceId string, pdf []byte) (bool, error)
	GetPendingReconciliations(ctx context.Context, limit int) ([]entity.PendingReconciliation, error)
}

type Repositories struct {
	Diagnostics
	Client
	ServiceProvider
	Account
	JobAd
	JobVacancy
	JobContract
	ContractPayment
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics:     pgdb.NewDiagnosticsRepo(p),
		Client:          pgdb.NewClientRepo(p),
		ServiceProvider: pgdb.NewServiceProviderRepo(p),
		Account:         pgdb.NewAccountRepo(p),
		JobAd:           pgdb.NewJobAdRepo(p),
		JobVacancy:      pgdb.NewJobVacancyRepo(p),
		JobContract:     pgdb.NewJobContractRepo(p),
		ContractPayment: pgdb.NewContractPaymentRepo(p),
	}
}
