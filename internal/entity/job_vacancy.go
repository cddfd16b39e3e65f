package entity

import (
	"time"

	"github.com/google/uuid"
)

// db model
type JobVacancy struct {
	Id                             uuid.UUID `db:"id"`
	JobAdId                        uuid.UUID `db:"job_ad_id"`
	ServiceProviderId              uuid.UUID `db:"service_provider_id"`
	JobStatus                      string    `db:"job_status"`
	ApplicationStatus              string    `db:"application_status"`
	ServiceProviderStripeAccountId string    `db:"service_provider_stripe_account_id"`
	AppliedAt                      time.Time `db:"applied_at"`
}

// controller model
type JobVacancyOutputModel struct {
	Id                string `json:"id"`
	JobAdId           string `json:"jobAdId"`
	ServiceProviderId string `json:"serviceProviderId"`
	JobStatus         string `json:"jobStatus"`
	ApplicationStatus string `json:"applicationStatus"`
	AppliedAt         string `json:"appliedAt"`
}
