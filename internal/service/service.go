package service

import (
	"context"
	"jobify-api/internal/entity"
	"jobify-api/internal/gateway"
	"jobify-api/internal/repo"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type Diagnostics interface {
	Ping(ctx context.Context) error
}

type Account interface {
	RegisterClient(ctx context.Context, input *entity.RegisterClientInput) (*entity.AuthOutputModel, error)
	RegisterServiceProvider(ctx context.Context, input *entity.RegisterServiceProviderInput) (*entity.AuthOutputModel, error)
	Login(ctx context.Context, email string, password string) (*entity.AuthOutputModel, error)
	Reactivate(ctx context.Context, email string, password string) (*entity.AuthOutputModel, error)

	GetAccount(ctx context.Context, p entity.Principal) (*entity.AccountOutputModel, error)
	ChangePassword(ctx context.Context, p entity.Principal, oldPassword string, newPassword string) error
	Deactivate(ctx context.Context, p entity.Principal) error
	DeleteAccount(ctx context.Context, p entity.Principal, password string) error

	UpdateBankDetails(ctx context.Context, serviceProviderId uuid.UUID, iban string, bankName string) error
	HasBankDetails(ctx context.Context, serviceProviderId uuid.UUID) (bool, error)
}

type Job interface {
	CreateJobAd(ctx context.Context, input *entity.CreateJobAdInput) (*entity.JobAdOutputModel, error)
	GetJobAd(ctx context.Context, jobAdId uuid.UUID) (*entity.JobAdOutputModel, error)
	UpdateJobAdStatus(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID, status string) (*entity.JobAdOutputModel, error)

	ApplyToJob(ctx context.Context, serviceProviderId uuid.UUID, jobAdId uuid.UUID) (*entity.JobVacancyOutputModel, error)
	GetApplicants(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) ([]entity.JobVacancyOutputModel, error)
}

type Contract interface {
	SelectCandidate(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) error
	GenerateClientContract(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID, serviceProviderId uuid.UUID, signature []byte) ([]byte, error)
	GenerateServiceProviderContract(ctx context.Context, serviceProviderId uuid.UUID, jobAdId uuid.UUID, signature []byte) ([]byte, error)
	MarkJobComplete(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) error

	GetContractByJobAd(ctx context.Context, p entity.Principal, jobAdId uuid.UUID) ([]byte, error)
	GetContractById(ctx context.Context, p entity.Principal, contractId uuid.UUID) ([]byte, error)
}

type Payment interface {
	CreateConnectedAccount(ctx context.Context, serviceProviderId uuid.UUID, email string, country string) (*entity.OnboardingLink, error)
	RecordOnboardedAccount(ctx context.Context, serviceProviderId uuid.UUID, jobAdId uuid.UUID, accountId string) (bool, error)
	GetOnboardingStatus(ctx context.Context, serviceProviderId uuid.UUID, accountId string) (bool, error)

	CreateProductPriceAndCustomer(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.PricingOutputModel, error)
	IssueInvoice(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.InvoiceOutputModel, error)
	CreateCheckoutSession(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.CheckoutSessionOutputModel, error)

	ReconcilePayment(ctx context.Context, jobAdId uuid.UUID, sessionId string) *entity.PaymentStatusOutputModel
	GenerateClientInvoicePdf(ctx context.Context, invoice *gateway.Invoice) ([]byte, error)
	GetInvoicePdf(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) ([]byte, error)
	MarkApplicationCompleted(ctx context.Context, jobAdId uuid.UUID, accountId string) (bool, error)
}

// TokenIssuer signs access tokens for authenticated principals.
type TokenIssuer interface {
	Issue(p entity.Principal) (string, error)
}

type Dependencies struct {
	Payments       gateway.Payments
	Tokens         TokenIssuer
	Logger         *slog.Logger
	PublicBaseURL  string
	ApplicationFee int64
	// Now defaults to time.Now
	Now func() time.Time
}

type Services struct {
	Diagnostics Diagnostics
	Account     Account
	Job         Job
	Contract    Contract
	Payment     Payment
}

func NewServices(repos *repo.Repositories, deps Dependencies) *Services {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Account:     NewAccountService(repos, deps),
		Job:         NewJobService(repos, deps),
		Contract:    NewContractService(repos, deps),
		Payment:     NewPaymentService(repos, deps),
	}
}
