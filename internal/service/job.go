package service

import (
	"context"
	"errors"
	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo"
	"jobify-api/internal/repo/repo_errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type JobService struct {
	jobAdRepo      repo.JobAd
	jobVacancyRepo repo.JobVacancy
	logger         *slog.Logger
	now            func() time.Time
}

func NewJobService(repos *repo.Repositories, deps Dependencies) *JobService {
	return &JobService{
		jobAdRepo:      repos.JobAd,
		jobVacancyRepo: repos.JobVacancy,
		logger:         deps.Logger,
		now:            deps.Now,
	}
}

func (s *JobService) CreateJobAd(ctx context.Context, input *entity.CreateJobAdInput) (*entity.JobAdOutputModel, error) {
	if _, err := ComputeTotalPay(input.Duration, input.WorkingHours, input.HourlyRate); err != nil {
		return nil, err
	}
	if input.ApplicationDeadline.After(input.WorkDeadline) {
		return nil, ErrInvalidDeadlines
	}

	id, err := s.jobAdRepo.CreateJobAd(ctx, input)
	if err != nil {
		return nil, err
	}

	jobAd, err := s.jobAdRepo.GetJobAdById(ctx, id)
	if err != nil {
		return nil, err
	}

	return mapJobAd(jobAd), nil
}

func (s *JobService) getJobAd(ctx context.Context, jobAdId uuid.UUID) (*entity.JobAd, error) {
	jobAd, err := s.jobAdRepo.GetJobAdById(ctx, jobAdId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrJobAdNotFound
		}

		return nil, err
	}

	return jobAd, nil
}

func (s *JobService) getOwnedJobAd(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) (*entity.JobAd, error) {
	jobAd, err := s.getJobAd(ctx, jobAdId)
	if err != nil {
		return nil, err
	}

	if jobAd.ClientId != clientId {
		return nil, ErrUserIsNotJobOwner
	}

	return jobAd, nil
}

func (s *JobService) GetJobAd(ctx context.Context, jobAdId uuid.UUID) (*entity.JobAdOutputModel, error) {
	jobAd, err := s.getJobAd(ctx, jobAdId)
	if err != nil {
		return nil, err
	}

	return mapJobAd(jobAd), nil
}

func (s *JobService) UpdateJobAdStatus(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID, status string) (*entity.JobAdOutputModel, error) {
	jobAd, err := s.getOwnedJobAd(ctx, clientId, jobAdId)
	if err != nil {
		return nil, err
	}

	if err := s.jobAdRepo.UpdateJobAdStatus(ctx, jobAdId, status); err != nil {
		return nil, err
	}
	jobAd.Status = status

	return mapJobAd(jobAd), nil
}

func (s *JobService) ApplyToJob(ctx context.Context, serviceProviderId uuid.UUID, jobAdId uuid.UUID) (*entity.JobVacancyOutputModel, error) {
	jobAd, err := s.getJobAd(ctx, jobAdId)
	if err != nil {
		return nil, err
	}

	if jobAd.Status != common.JobAdActive {
		return nil, ErrJobAdNotActive
	}
	if s.now().After(jobAd.ApplicationDeadline) {
		return nil, ErrApplicationDeadlinePassed
	}

	if _, err := s.jobVacancyRepo.CreateJobVacancy(ctx, jobAdId, serviceProviderId); err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrAlreadyApplied
		}

		return nil, err
	}

	vacancy, err := s.jobVacancyRepo.GetJobVacancy(ctx, jobAdId, serviceProviderId)
	if err != nil {
		return nil, err
	}

	s.logger.Info("service provider applied",
		slog.String("jobAdId", jobAdId.String()),
		slog.String("serviceProviderId", serviceProviderId.String()),
	)

	return mapJobVacancy(vacancy), nil
}

func (s *JobService) GetApplicants(ctx context.Context, clientId uuid.UUID, jobAdId uuid.UUID) ([]entity.JobVacancyOutputModel, error) {
	if _, err := s.getOwnedJobAd(ctx, clientId, jobAdId); err != nil {
		return nil, err
	}

	vacancies, err := s.jobVacancyRepo.GetJobVacancies(ctx, jobAdId)
	if err != nil {
		return nil, err
	}

	return mapJobVacancies(vacancies), nil
}
