package service

import (
	"context"
	"errors"
	"jobify-api/internal/common"
	"jobify-api/internal/document"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo"
	"jobify-api/internal/repo/repo_errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type ContractService struct {
	jobAdRepo           repo.JobAd
	jobVacancyRepo      repo.JobVacancy
	jobContractRepo     repo.JobContract
	serviceProviderRepo repo.ServiceProvider
	logger              *slog.Logger
	now                 func() time.Time
}

func NewContractService(repos *repo.Repositories, deps Dependencies) *ContractService {
	return &ContractService{
		jobAdRepo:           repos.JobAd,
		jobVacancyRepo:      repos.JobVacancy,
		jobContractRepo:     repos.JobContract,
		serviceProviderRepo: repos.ServiceProvider,
		logger:              deps.Logger,
		now:                 deps.Now,
	}
}

func (s *ContractService) SelectCandidate(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) error {
	err := s.jobVacancyRepo.SelectCandidate(ctx, jobAdId, serviceProviderId)
	if errors.Is(err, repo_errors.ErrNotFound) {
		return ErrVacancyNotFound
	}

	return err
}

// contractParties loads the job with its client and the provider. Any of
// them missing means the contract can't be drafted.
func (s *ContractService) contractParties(ctx context.Context, jobAdId uuid.UUID, serviceProviderId uuid.UUID) (*entity.JobAdWithClient, *entity.ServiceProvider, error) {
	job, err := s.jobAdRepo.GetJobAdWithClient(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrContractDataMissing
		}

		return nil, nil, err
	}

	sp, err := s.serviceProviderRepo.GetServiceProviderById(ctx, serviceProviderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, nil, ErrContractDataMissing
		}

		return nil, nil, err
	}

	return job, sp, nil
}

func contractData(job *entity.JobAdWithClient) (*document.ContractData, error) {
	amount, err := ComputeTotalPay(job.Duration, job.WorkingHours, job.HourlyRate)
	if err != nil {
		return nil, err
	}

	return &document.ContractData{
		ClientName:    job.Client.DisplayName(),
		ClientAddress: job.Client.Address,
		ClientCity:    job.Client.City,
		Description:   job.Description,
		WorkDeadline:  job.WorkDeadline,
		Amount:        amount,
		Currency:      job.PaymentCurrency,
	}, nil
}

func render(data *document.ContractData) ([]byte, error) {
	pdf, err := document.RenderContract(data)
	if errors.Is(err, document.ErrUnsupportedImage) {
		return nil, ErrInvalidSignature
	}

	return pdf, err
}

// GenerateClientContract drafts the contract signed by the client, stores it
// as the single contract of the job ad and selects the provider.
func (s *ContractService) GenerateClientContract(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID, serviceProviderId uuid.UUID, signature []byte) ([]byte, error) {
	job, _, err := s.contractParties(ctx, jobAdId, serviceProviderId)
	if err != nil {
		return nil, err
	}
	if job.ClientId != clientId {
		return nil, ErrUserIsNotJobOwner
	}

	if _, err := s.jobVacancyRepo.GetJobVacancy(ctx, jobAdId, serviceProviderId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrVacancyNotFound
		}

		return nil, err
	}

	existing, err := s.jobContractRepo.GetContractByJobAdId(ctx, jobAdId)
	switch {
	case err == nil && existing.Status == common.ContractCompleted:
		return nil, ErrContractAlreadySigned
	case err != nil && !errors.Is(err, repo_errors.ErrNotFound):
		return nil, err
	}

	data, err := contractData(job)
	if err != nil {
		return nil, err
	}
	draftedAt := s.now().UTC()
	data.Date = draftedAt
	data.ClientSignature = signature

	pdf, err := render(data)
	if err != nil {
		return nil, err
	}

	contractId, err := s.jobContractRepo.SaveClientContract(ctx, jobAdId, serviceProviderId, pdf, signature, draftedAt)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrVacancyNotFound
		}

		return nil, err
	}

	s.logger.Info("client contract generated",
		slog.String("jobAdId", jobAdId.String()),
		slog.String("contractId", contractId.String()),
		slog.String("serviceProviderId", serviceProviderId.String()),
	)

	return pdf, nil
}

// GenerateServiceProviderContract completes the client-signed contract with
// the provider's details and signature and starts the job.
func (s *ContractService) GenerateServiceProviderContract(ctx context.Context, serviceProviderId uuid.UUID, jobAdId uuid.UUID, signature []byte) ([]byte, error) {
	contract, err := s.jobContractRepo.GetContractByJobAdId(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrContractNotFound
		}

		return nil, err
	}
	if !contract.ClientSigned() {
		return nil, ErrContractNotFound
	}
	if contract.Status == common.ContractCompleted {
		return nil, ErrContractAlreadySigned
	}

	vacancy, err := s.jobVacancyRepo.GetJobVacancy(ctx, jobAdId, serviceProviderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrCandidateNotSelected
		}

		return nil, err
	}
	if vacancy.ApplicationStatus != common.ApplicationSelected {
		return nil, ErrCandidateNotSelected
	}

	job, sp, err := s.contractParties(ctx, jobAdId, serviceProviderId)
	if err != nil {
		return nil, err
	}
	if !sp.HasBankDetails() {
		return nil, ErrContractDataMissing
	}

	data, err := contractData(job)
	if err != nil {
		return nil, err
	}
	// both copies carry the date the client signed
	data.Date = contract.DraftedAt.UTC()
	data.ServiceProviderName = sp.FullName()
	data.ServiceProviderAddress = sp.Address
	data.Iban = sp.Iban
	data.BankName = sp.BankName
	data.CourtCity = sp.City
	data.ClientSignature = contract.ClientSignature
	data.ServiceProviderSignature = signature

	pdf, err := render(data)
	if err != nil {
		return nil, err
	}

	saved, err := s.jobContractRepo.SaveServiceProviderContract(ctx, jobAdId, pdf, signature)
	if err != nil {
		return nil, err
	}
	if !saved {
		return nil, ErrContractNotFound
	}

	started, err := s.jobVacancyRepo.UpdateJobStatus(ctx, jobAdId, serviceProviderId, common.JobOngoing)
	if err != nil {
		return nil, err
	}
	if !started {
		s.logger.Warn("signed contract without a vacancy to start",
			slog.String("jobAdId", jobAdId.String()),
			slog.String("serviceProviderId", serviceProviderId.String()),
		)
	}

	return pdf, nil
}

func (s *ContractService) MarkJobComplete(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) error {
	job, err := s.jobAdRepo.GetJobAdById(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrJobAdNotFound
		}

		return err
	}
	if job.ClientId != clientId {
		return ErrUserIsNotJobOwner
	}

	vacancy, err := s.jobVacancyRepo.GetSelectedJobVacancy(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrJobNotOngoing
		}

		return err
	}
	if vacancy.JobStatus != common.JobOngoing {
		return ErrJobNotOngoing
	}

	if _, err := s.jobVacancyRepo.UpdateJobStatus(ctx, jobAdId, vacancy.ServiceProviderId, common.JobCompleted); err != nil {
		return err
	}

	s.logger.Info("job completed", slog.String("jobAdId", jobAdId.String()))

	return nil
}

// GetContractByJobAd returns the signed pdf to the parties of the job only.
func (s *ContractService) GetContractByJobAd(ctx context.Context, p entity.Principal, jobAdId uuid.UUID) ([]byte, error) {
	contract, err := s.jobContractRepo.GetContractByJobAdId(ctx, jobAdId)

	return s.contractPdf(ctx, p, contract, err)
}

func (s *ContractService) GetContractById(ctx context.Context, p entity.Principal, contractId uuid.UUID) ([]byte, error) {
	contract, err := s.jobContractRepo.GetContractById(ctx, contractId)

	return s.contractPdf(ctx, p, contract, err)
}

func (s *ContractService) contractPdf(ctx context.Context, p entity.Principal, contract *entity.JobContract, err error) ([]byte, error) {
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrContractNotFound
		}

		return nil, err
	}
	if len(contract.Contract) == 0 {
		return nil, ErrContractNotFound
	}

	party, err := s.isContractParty(ctx, p, contract.JobAdId)
	if err != nil {
		return nil, err
	}
	// strangers can't tell a foreign contract from a missing one
	if !party {
		return nil, ErrContractNotFound
	}

	return contract.Contract, nil
}

// isContractParty reports whether p is the job's client or the provider
// chosen for it.
func (s *ContractService) isContractParty(ctx context.Context, p entity.Principal, jobAdId uuid.UUID) (bool, error) {
	switch {
	case p.IsClient():
		job, err := s.jobAdRepo.GetJobAdById(ctx, jobAdId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return false, nil
			}

			return false, err
		}

		return job.ClientId == p.UserId, nil
	case p.IsServiceProvider():
		vacancy, err := s.jobVacancyRepo.GetJobVacancy(ctx, jobAdId, p.UserId)
		if err != nil {
			if errors.Is(err, repo_errors.ErrNotFound) {
				return false, nil
			}

			return false, err
		}

		return vacancy.ApplicationStatus == common.ApplicationSelected ||
			vacancy.ApplicationStatus == common.ApplicationCompleted, nil
	}

	return false, nil
}
