package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type JobAd struct {
	Id                  uuid.UUID       `db:"id"`
	ClientId            uuid.UUID       `db:"client_id"`
	Title               string          `db:"title"`
	Description         string          `db:"description"`
	HourlyRate          decimal.Decimal `db:"hourly_rate"`
	PaymentCurrency     string          `db:"payment_currency"`
	WorkingHours        int             `db:"working_hours"`
	Duration            string          `db:"duration"`
	WorkDeadline        time.Time       `db:"work_deadline"`
	ApplicationDeadline time.Time       `db:"application_deadline"`
	Status              string          `db:"status"`
	CustomerId          string          `db:"customer_id"`
	CreatedAt           time.Time       `db:"created_at"`
}

// JobAdWithClient is a job ad eager-loaded with its owning client.
type JobAdWithClient struct {
	JobAd
	Client Client
}

// service + repo input model
type CreateJobAdInput struct {
	ClientId            uuid.UUID
	Title               string
	Description         string
	HourlyRate          decimal.Decimal
	PaymentCurrency     string
	WorkingHours        int
	Duration            string
	WorkDeadline        time.Time
	ApplicationDeadline time.Time
	// Id, Status ("active") and CreatedAt are set by the service
}

// controller model
type JobAdOutputModel struct {
	Id                  string `json:"id"`
	ClientId            string `json:"clientId"`
	Title               string `json:"title"`
	Description         string `json:"description"`
	HourlyRate          string `json:"hourlyRate"`
	PaymentCurrency     string `json:"paymentCurrency"`
	WorkingHours        int    `json:"workingHours"`
	Duration            string `json:"duration"`
	TotalPay            string `json:"totalPay"`
	WorkDeadline        string `json:"workDeadline"`
	ApplicationDeadline string `json:"applicationDeadline"`
	Status              string `json:"status"`
	CreatedAt           string `json:"createdAt"`
}
