package service

import (
	"context"
	"errors"
	"fmt"
	"jobify-api/internal/common"
	"jobify-api/internal/document"
	"jobify-api/internal/entity"
	"jobify-api/internal/gateway"
	"jobify-api/internal/repo"
	"jobify-api/internal/repo/repo_errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/biter777/countries"
	"github.com/google/uuid"
)

// checkoutSessionPlaceholder is substituted by the payment provider on redirect.
const checkoutSessionPlaceholder = "{CHECKOUT_SESSION_ID}"

type PaymentService struct {
	jobAdRepo           repo.JobAd
	jobVacancyRepo      repo.JobVacancy
	jobContractRepo     repo.JobContract
	contractPaymentRepo repo.ContractPayment
	clientRepo          repo.Client
	payments            gateway.Payments
	logger              *slog.Logger
	baseURL             string
	applicationFee      int64
}

func NewPaymentService(repos *repo.Repositories, deps Dependencies) *PaymentService {
	return &PaymentService{
		jobAdRepo:           repos.JobAd,
		jobVacancyRepo:      repos.JobVacancy,
		jobContractRepo:     repos.JobContract,
		contractPaymentRepo: repos.ContractPayment,
		clientRepo:          repos.Client,
		payments:            deps.Payments,
		logger:              deps.Logger,
		baseURL:             strings.TrimRight(deps.PublicBaseURL, "/"),
		applicationFee:      deps.ApplicationFee,
	}
}

func (s *PaymentService) onboardingURL(serviceProviderId uuid.UUID, mode string, accountId string) string {
	return fmt.Sprintf("%s/service-provider/%s/stripe-onboarding?mode=%s&account_id=%s",
		s.baseURL, serviceProviderId, mode, url.QueryEscape(accountId))
}

func (s *PaymentService) paymentStatusURL(clientType string, jobAdId uuid.UUID) string {
	return fmt.Sprintf("%s/client/%s/payment-status?session_id=%s&jobId=%s",
		s.baseURL, clientType, checkoutSessionPlaceholder, jobAdId)
}

// CreateConnectedAccount opens a connected account for the provider and
// returns the onboarding link. Every failure is reported as retryable.
func (s *PaymentService) CreateConnectedAccount(ctx context.Context, serviceProviderId uuid.UUID, email string, country string) (*entity.OnboardingLink, error) {
	code := countries.ByName(country)
	if code == countries.Unknown {
		s.logger.Error("unknown country for connected account",
			slog.String("serviceProviderId", serviceProviderId.String()),
			slog.String("country", country),
		)
		return nil, ErrPaymentAccountUnavailable
	}

	accountId, err := s.payments.CreateAccount(ctx, email, code.Alpha2())
	if err != nil {
		s.logger.Error("connected account creation failed",
			slog.String("serviceProviderId", serviceProviderId.String()),
			slog.Any("error", err),
		)
		return nil, ErrPaymentAccountUnavailable
	}

	link, err := s.payments.CreateAccountLink(ctx, accountId,
		s.onboardingURL(serviceProviderId, "refresh", accountId),
		s.onboardingURL(serviceProviderId, "return", accountId),
	)
	if err != nil {
		s.logger.Error("onboarding link creation failed",
			slog.String("serviceProviderId", serviceProviderId.String()),
			slog.String("accountId", accountId),
			slog.Any("error", err),
		)
		return nil, ErrPaymentAccountUnavailable
	}

	return &entity.OnboardingLink{Url: link, AccountId: accountId}, nil
}

func (s *PaymentService) RecordOnboardedAccount(ctx context.Context, serviceProviderId uuid.UUID, jobAdId uuid.UUID, accountId string) (bool, error) {
	saved, err := s.jobVacancyRepo.SaveStripeAccount(ctx, jobAdId, serviceProviderId, accountId)
	if err != nil {
		return false, err
	}
	if !saved {
		s.logger.Warn("no vacancy to attach the connected account to",
			slog.String("jobAdId", jobAdId.String()),
			slog.String("serviceProviderId", serviceProviderId.String()),
		)
	}

	return saved, nil
}

func (s *PaymentService) GetOnboardingStatus(ctx context.Context, serviceProviderId uuid.UUID, accountId string) (bool, error) {
	return s.jobVacancyRepo.HasStripeAccount(ctx, serviceProviderId, accountId)
}

// completedJob loads a job ad owned by the client with the connected account
// of the provider who finished it.
func (s *PaymentService) completedJob(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.JobAdWithClient, string, error) {
	job, err := s.jobAdRepo.GetJobAdWithClient(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, "", ErrJobAdNotFound
		}

		return nil, "", err
	}
	if job.ClientId != clientId {
		return nil, "", ErrUserIsNotJobOwner
	}

	vacancy, err := s.jobVacancyRepo.GetCompletedJobVacancy(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, "", ErrJobNotCompleted
		}

		return nil, "", err
	}
	if vacancy.ServiceProviderStripeAccountId == "" {
		return nil, "", ErrPaymentDataMissing
	}

	return job, vacancy.ServiceProviderStripeAccountId, nil
}

// CreateProductPriceAndCustomer prices the finished job on the provider's
// connected account. Local rows are written only after all provider calls
// succeed.
func (s *PaymentService) CreateProductPriceAndCustomer(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.PricingOutputModel, error) {
	job, accountId, err := s.completedJob(ctx, clientId, jobAdId)
	if err != nil {
		return nil, err
	}

	total, err := ComputeTotalPay(job.Duration, job.WorkingHours, job.HourlyRate)
	if err != nil {
		return nil, err
	}
	unitAmount := minorUnits(total)

	productId, err := s.payments.CreateProduct(ctx, accountId, job.Title)
	if err != nil {
		return nil, err
	}
	priceId, err := s.payments.CreatePrice(ctx, accountId, productId, strings.ToLower(job.PaymentCurrency), unitAmount)
	if err != nil {
		return nil, err
	}
	customerId, err := s.payments.CreateCustomer(ctx, accountId, job.Client.DisplayName(), job.Client.Email)
	if err != nil {
		return nil, err
	}

	persisted, err := s.jobContractRepo.SavePricing(ctx, clientId, jobAdId, priceId, productId, customerId)
	if err != nil {
		return nil, err
	}
	if !persisted {
		s.logger.Warn("pricing created at the payment provider but not stored",
			slog.String("jobAdId", jobAdId.String()),
			slog.String("clientId", clientId.String()),
		)
	}

	return &entity.PricingOutputModel{
		ProductId:  productId,
		PriceId:    priceId,
		CustomerId: customerId,
		UnitAmount: unitAmount,
		Persisted:  persisted,
	}, nil
}

func (s *PaymentService) paymentData(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.PaymentData, error) {
	data, err := s.contractPaymentRepo.GetPaymentData(ctx, jobAdId, clientId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrPaymentDataMissing
		}

		return nil, err
	}
	if data.ServiceProviderAccountId == "" {
		return nil, ErrPaymentDataMissing
	}

	return data, nil
}

func (s *PaymentService) IssueInvoice(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.InvoiceOutputModel, error) {
	data, err := s.paymentData(ctx, clientId, jobAdId)
	if err != nil {
		return nil, err
	}

	return s.issueInvoice(ctx, clientId, data)
}

// ensureUnpaid rejects a contract whose payment is already completed.
func (s *PaymentService) ensureUnpaid(ctx context.Context, jobContractId uuid.UUID) error {
	payment, err := s.contractPaymentRepo.GetContractPaymentByContractId(ctx, jobContractId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil
		}

		return err
	}
	if payment.Status == common.PaymentCompleted {
		return ErrAlreadyPaid
	}

	return nil
}

func (s *PaymentService) issueInvoice(ctx context.Context, clientId uuid.UUID, data *entity.PaymentData) (*entity.InvoiceOutputModel, error) {
	if data.CustomerId == "" || data.PriceId == "" {
		return nil, ErrPaymentDataMissing
	}
	if err := s.ensureUnpaid(ctx, data.JobContractId); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetClientById(ctx, clientId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrPaymentDataMissing
		}

		return nil, err
	}

	accountId := data.ServiceProviderAccountId
	if err := s.payments.EnsureCustomerEmail(ctx, accountId, data.CustomerId, client.Email); err != nil {
		return nil, err
	}
	invoiceId, err := s.payments.CreateInvoice(ctx, accountId, data.CustomerId)
	if err != nil {
		return nil, err
	}
	if err := s.payments.AddInvoiceItem(ctx, accountId, data.CustomerId, invoiceId, data.PriceId); err != nil {
		return nil, err
	}
	invoice, err := s.payments.FinalizeInvoice(ctx, accountId, invoiceId)
	if err != nil {
		return nil, err
	}

	if _, err := s.contractPaymentRepo.SaveContractPayment(ctx, data.JobContractId, invoice.Id, minorToDecimal(invoice.AmountDue)); err != nil {
		if errors.Is(err, repo_errors.ErrConflict) {
			return nil, ErrAlreadyPaid
		}

		return nil, err
	}

	s.logger.Info("invoice issued",
		slog.String("jobAdId", data.JobAdId.String()),
		slog.String("invoiceId", invoice.Id),
		slog.Int64("amountDue", invoice.AmountDue),
	)

	return &entity.InvoiceOutputModel{
		InvoiceId: invoice.Id,
		Status:    invoice.Status,
		AmountDue: invoice.AmountDue,
		Currency:  invoice.Currency,
	}, nil
}

func (s *PaymentService) CreateCheckoutSession(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.CheckoutSessionOutputModel, error) {
	data, err := s.paymentData(ctx, clientId, jobAdId)
	if err != nil {
		return nil, err
	}
	if data.CustomerId == "" || data.PriceId == "" {
		return nil, ErrPaymentDataMissing
	}
	if err := s.ensureUnpaid(ctx, data.JobContractId); err != nil {
		return nil, err
	}

	if data.InvoiceId == "" {
		invoice, err := s.issueInvoice(ctx, clientId, data)
		if err != nil {
			return nil, err
		}
		data.InvoiceId = invoice.InvoiceId
	}

	statusURL := s.paymentStatusURL(data.ClientType, jobAdId)
	session, err := s.payments.CreateCheckoutSession(ctx, data.ServiceProviderAccountId, &gateway.CheckoutParams{
		CustomerId:     data.CustomerId,
		PriceId:        data.PriceId,
		ApplicationFee: s.applicationFee,
		SuccessURL:     statusURL,
		CancelURL:      statusURL,
		Metadata: map[string]string{
			"invoice_id":  data.InvoiceId,
			"jobAdId":     jobAdId.String(),
			"price_id":    data.PriceId,
			"customer_id": data.CustomerId,
		},
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.contractPaymentRepo.SaveSessionId(ctx, data.InvoiceId, session.Id)
	if err != nil {
		return nil, err
	}
	if !stored {
		s.logger.Warn("checkout session without a contract payment",
			slog.String("jobAdId", jobAdId.String()),
			slog.String("invoiceId", data.InvoiceId),
		)
	}

	return &entity.CheckoutSessionOutputModel{SessionId: session.Id, Url: session.Url}, nil
}

func reconcileError(err error) *entity.PaymentStatusOutputModel {
	return &entity.PaymentStatusOutputModel{Status: common.InvoiceError, Message: err.Error()}
}

// ReconcilePayment settles the invoice behind a checkout session. It never
// fails: errors come back as status "error" and the call can be repeated.
func (s *PaymentService) ReconcilePayment(ctx context.Context, jobAdId uuid.UUID, sessionId string) *entity.PaymentStatusOutputModel {
	vacancy, err := s.jobVacancyRepo.GetCompletedJobVacancy(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return reconcileError(ErrJobNotCompleted)
		}

		return reconcileError(err)
	}
	accountId := vacancy.ServiceProviderStripeAccountId
	if accountId == "" {
		return reconcileError(ErrPaymentDataMissing)
	}

	session, err := s.payments.GetCheckoutSession(ctx, accountId, sessionId)
	if err != nil {
		return reconcileError(err)
	}
	if session.Metadata["jobAdId"] != jobAdId.String() {
		return reconcileError(ErrInvoiceNotFound)
	}
	invoiceId := session.Metadata["invoice_id"]
	if invoiceId == "" {
		return reconcileError(ErrInvoiceNotFound)
	}

	invoice, err := s.payments.GetInvoice(ctx, accountId, invoiceId)
	if err != nil {
		return reconcileError(err)
	}
	if invoice.Status == common.InvoiceOpen {
		if invoice, err = s.payments.PayInvoice(ctx, accountId, invoiceId); err != nil {
			return reconcileError(err)
		}
	}

	if invoice.Status == common.InvoicePaid {
		if err := s.settle(ctx, jobAdId, accountId, invoice); err != nil {
			s.logger.Error("paid invoice not settled locally",
				slog.String("jobAdId", jobAdId.String()),
				slog.String("invoiceId", invoiceId),
				slog.Any("error", err),
			)
			return reconcileError(err)
		}
	}

	return &entity.PaymentStatusOutputModel{Status: invoice.Status, InvoiceId: invoice.Id}
}

// settle stores the invoice pdf and the completed application before the
// payment itself, so a pending payment always means there is work left.
func (s *PaymentService) settle(ctx context.Context, jobAdId uuid.UUID, accountId string, invoice *gateway.Invoice) error {
	if _, err := s.GenerateClientInvoicePdf(ctx, invoice); err != nil {
		return err
	}
	if _, err := s.MarkApplicationCompleted(ctx, jobAdId, accountId); err != nil {
		return err
	}

	completed, err := s.contractPaymentRepo.CompletePayment(ctx, invoice.Id)
	if err != nil {
		return err
	}
	if !completed {
		s.logger.Warn("paid invoice without a contract payment",
			slog.String("jobAdId", jobAdId.String()),
			slog.String("invoiceId", invoice.Id),
		)
	}

	return nil
}

func mapInvoiceData(invoice *gateway.Invoice) *document.InvoiceData {
	lines := make([]document.InvoiceLine, 0, len(invoice.Lines))
	for _, l := range invoice.Lines {
		lines = append(lines, document.InvoiceLine{Description: l.Description, Quantity: l.Quantity, Amount: l.Amount})
	}

	data := &document.InvoiceData{
		Number:          invoice.Number,
		Currency:        invoice.Currency,
		Created:         time.Unix(invoice.Created, 0).UTC(),
		CustomerName:    invoice.CustomerName,
		CustomerEmail:   invoice.CustomerEmail,
		CustomerAddress: invoice.CustomerAddress,
		Lines:           lines,
		Subtotal:        invoice.Subtotal,
		Total:           invoice.Total,
		AmountDue:       invoice.AmountDue,
	}
	if invoice.DueDate > 0 {
		data.DueDate = time.Unix(invoice.DueDate, 0).UTC()
	}

	return data
}

func (s *PaymentService) GenerateClientInvoicePdf(ctx context.Context, invoice *gateway.Invoice) ([]byte, error) {
	pdf, err := document.RenderInvoice(mapInvoiceData(invoice))
	if err != nil {
		return nil, err
	}

	saved, err := s.contractPaymentRepo.SaveInvoicePdf(ctx, invoice.Id, pdf)
	if err != nil {
		return nil, err
	}
	if !saved {
		s.logger.Warn("invoice pdf without a contract payment", slog.String("invoiceId", invoice.Id))
		return nil, nil
	}

	return pdf, nil
}

func (s *PaymentService) GetInvoicePdf(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) ([]byte, error) {
	data, err := s.paymentData(ctx, clientId, jobAdId)
	if err != nil {
		return nil, err
	}
	if data.InvoiceId == "" {
		return nil, ErrInvoiceNotFound
	}

	payment, err := s.contractPaymentRepo.GetContractPaymentByInvoiceId(ctx, data.InvoiceId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrInvoiceNotFound
		}

		return nil, err
	}
	if len(payment.InvoicePdf) > 0 {
		return payment.InvoicePdf, nil
	}

	invoice, err := s.payments.GetInvoice(ctx, data.ServiceProviderAccountId, data.InvoiceId)
	if err != nil {
		return nil, err
	}

	pdf, err := s.GenerateClientInvoicePdf(ctx, invoice)
	if err != nil {
		return nil, err
	}
	if pdf == nil {
		return nil, ErrInvoiceNotFound
	}

	return pdf, nil
}

func (s *PaymentService) MarkApplicationCompleted(ctx context.Context, jobAdId uuid.UUID, accountId string) (bool, error) {
	completed, err := s.jobVacancyRepo.CompleteApplication(ctx, jobAdId, accountId)
	if err != nil {
		return false, err
	}
	if !completed {
		s.logger.Warn("no vacancy to complete",
			slog.String("jobAdId", jobAdId.String()),
			slog.String("accountId", accountId),
		)
	}

	return completed, nil
}
