package service

import (
	"context"
	"errors"
	"jobify-api/internal/auth"
	"jobify-api/internal/common"
	"jobify-api/internal/entity"
	"jobify-api/internal/repo"
	"jobify-api/internal/repo/repo_errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

type AccountService struct {
	clientRepo          repo.Client
	serviceProviderRepo repo.ServiceProvider
	accountRepo         repo.Account
	tokens              TokenIssuer
	logger              *slog.Logger
}

func NewAccountService(repos *repo.Repositories, deps Dependencies) *AccountService {
	return &AccountService{
		clientRepo:          repos.Client,
		serviceProviderRepo: repos.ServiceProvider,
		accountRepo:         repos.Account,
		tokens:              deps.Tokens,
		logger:              deps.Logger,
	}
}

func (s *AccountService) emailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.accountRepo.GetAccountByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, repo_errors.ErrNotFound) {
		return false, nil
	}

	return false, err
}

func (s *AccountService) RegisterClient(ctx context.Context, input *entity.RegisterClientInput) (*entity.AuthOutputModel, error) {
	switch input.Type {
	case common.ClientBusiness:
		if input.CompanyName == "" {
			return nil, ErrClientNameMissing
		}
	default:
		if input.FirstName == "" || input.LastName == "" {
			return nil, ErrClientNameMissing
		}
	}

	input.Email = normalizeEmail(input.Email)
	taken, err := s.emailTaken(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	stored := *input
	stored.Password = hash

	id, err := s.clientRepo.CreateClient(ctx, &stored)
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	s.logger.Info("client registered", slog.String("clientId", id.String()))

	return s.authenticate(&entity.Account{Id: id, Role: entity.RoleClient, Email: input.Email, Status: common.AccountActive})
}

func (s *AccountService) RegisterServiceProvider(ctx context.Context, input *entity.RegisterServiceProviderInput) (*entity.AuthOutputModel, error) {
	input.Email = normalizeEmail(input.Email)
	taken, err := s.emailTaken(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	stored := *input
	stored.Password = hash

	id, err := s.serviceProviderRepo.CreateServiceProvider(ctx, &stored)
	if err != nil {
		if errors.Is(err, repo_errors.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}

		return nil, err
	}

	s.logger.Info("service provider registered", slog.String("serviceProviderId", id.String()))

	return s.authenticate(&entity.Account{Id: id, Role: entity.RoleServiceProvider, Email: input.Email, Status: common.AccountActive})
}

func (s *AccountService) checkCredentials(ctx context.Context, email string, password string) (*entity.Account, error) {
	account, err := s.accountRepo.GetAccountByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if !auth.CheckPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

func (s *AccountService) Login(ctx context.Context, email string, password string) (*entity.AuthOutputModel, error) {
	account, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if account.Status == common.AccountDeactivated {
		return nil, ErrAccountDeactivated
	}

	return s.authenticate(account)
}

func (s *AccountService) Reactivate(ctx context.Context, email string, password string) (*entity.AuthOutputModel, error) {
	account, err := s.checkCredentials(ctx, email, password)
	if err != nil {
		return nil, err
	}

	if account.Status != common.AccountActive {
		if err := s.accountRepo.UpdateAccountStatus(ctx, account.Role, account.Id, common.AccountActive); err != nil {
			return nil, err
		}
		account.Status = common.AccountActive
		s.logger.Info("account reactivated", slog.String("userId", account.Id.String()))
	}

	return s.authenticate(account)
}

func (s *AccountService) authenticate(account *entity.Account) (*entity.AuthOutputModel, error) {
	token, err := s.tokens.Issue(entity.Principal{UserId: account.Id, Role: account.Role})
	if err != nil {
		return nil, err
	}

	return &entity.AuthOutputModel{Token: token, User: mapAccount(account)}, nil
}

func (s *AccountService) getAccount(ctx context.Context, p entity.Principal) (*entity.Account, error) {
	account, err := s.accountRepo.GetAccountById(ctx, p.Role, p.UserId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAccountNotFound
		}

		return nil, err
	}

	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, p entity.Principal) (*entity.AccountOutputModel, error) {
	account, err := s.getAccount(ctx, p)
	if err != nil {
		return nil, err
	}

	out := mapAccount(account)

	return &out, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, p entity.Principal, oldPassword string, newPassword string) error {
	account, err := s.getAccount(ctx, p)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(account.Password, oldPassword) {
		return ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.accountRepo.UpdatePassword(ctx, p.Role, p.UserId, hash)
}

func (s *AccountService) Deactivate(ctx context.Context, p entity.Principal) error {
	err := s.accountRepo.UpdateAccountStatus(ctx, p.Role, p.UserId, common.AccountDeactivated)
	if errors.Is(err, repo_errors.ErrNotFound) {
		return ErrAccountNotFound
	}

	return err
}

func (s *AccountService) DeleteAccount(ctx context.Context, p entity.Principal, password string) error {
	account, err := s.getAccount(ctx, p)
	if err != nil {
		return err
	}

	if !auth.CheckPassword(account.Password, password) {
		return ErrInvalidCredentials
	}

	deleted, err := s.accountRepo.DeleteAccount(ctx, p.Role, p.UserId)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrAccountNotFound
	}

	s.logger.Info("account deleted", slog.String("userId", p.UserId.String()), slog.String("role", string(p.Role)))

	return nil
}

func (s *AccountService) UpdateBankDetails(ctx context.Context, serviceProviderId uuid.UUID, iban string, bankName string) error {
	iban = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))

	updated, err := s.serviceProviderRepo.UpdateBankDetails(ctx, serviceProviderId, iban, strings.TrimSpace(bankName))
	if err != nil {
		return err
	}
	if !updated {
		return ErrAccountNotFound
	}

	return nil
}

func (s *AccountService) HasBankDetails(ctx context.Context, serviceProviderId uuid.UUID) (bool, error) {
	sp, err := s.serviceProviderRepo.GetServiceProviderById(ctx, serviceProviderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return false, ErrAccountNotFound
		}

		return false, err
	}

	return sp.HasBankDetails(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
