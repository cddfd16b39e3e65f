package service

import "errors"

var (
	ErrJobAdNotFound             = errors.New("job ad not found")
	ErrJobAdNotActive            = errors.New("job ad is not active")
	ErrInvalidDeadlines          = errors.New("application deadline must not be after the work deadline")
	ErrApplicationDeadlinePassed = errors.New("application deadline has passed")
	ErrAlreadyApplied            = errors.New("service provider already applied to this job")
	ErrUserIsNotJobOwner         = errors.New("user is not the owner of the job ad")

	ErrInvalidDurationFormat = errors.New("duration must look like '<number> day|week|month'")
	ErrInvalidDurationUnit   = errors.New("invalid duration unit")

	ErrVacancyNotFound       = errors.New("service provider did not apply to this job")
	ErrCandidateNotSelected  = errors.New("service provider is not the selected candidate")
	ErrContractNotFound      = errors.New("contract not found")
	ErrContractDataMissing   = errors.New("job, client or service provider data for the contract not found")
	ErrContractAlreadySigned = errors.New("contract is already signed by both parties")
	ErrInvalidSignature      = errors.New("signature must be a png or jpeg image")
	ErrJobNotOngoing         = errors.New("job is not in progress")
	ErrJobNotCompleted       = errors.New("job is not completed yet")

	ErrPaymentAccountUnavailable = errors.New("payment account could not be created, try again")
	ErrPaymentDataMissing        = errors.New("payment data for the job not found")
	ErrInvoiceNotFound           = errors.New("invoice not found")
	ErrAlreadyPaid               = errors.New("job is already paid")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrAccountNotFound    = errors.New("account not found")
	ErrClientNameMissing  = errors.New("individual clients need first and last name, business clients need a company name")
)
