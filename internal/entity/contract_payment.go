package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type ContractPayment struct {
	Id            uuid.UUID       `db:"id"`
	JobContractId uuid.UUID       `db:"job_contract_id"`
	InvoiceId     string          `db:"invoice_id"`
	SessionId     string          `db:"session_id"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	InvoicePdf    []byte          `db:"invoice_pdf"`
	CreatedAt     time.Time       `db:"created_at"`
}

// PendingReconciliation is a payment waiting for its checkout session to settle.
type PendingReconciliation struct {
	JobAdId   uuid.UUID
	SessionId string
}

// PaymentData gathers what the checkout step needs about a job ad.
type PaymentData struct {
	JobAdId                  uuid.UUID
	JobContractId            uuid.UUID
	ClientType               string
	CustomerId               string
	PriceId                  string
	InvoiceId                string
	ServiceProviderAccountId string
}

// controller model
type OnboardingLink struct {
	Url       string `json:"url"`
	AccountId string `json:"accountId"`
}

// controller model
type CheckoutSessionOutputModel struct {
	SessionId string `json:"session_id"`
	Url       string `json:"url"`
}

// controller model
type PaymentStatusOutputModel struct {
	Status    string `json:"status"`
	InvoiceId string `json:"invoiceId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// controller model
type PricingOutputModel struct {
	ProductId  string `json:"productId"`
	PriceId    string `json:"priceId"`
	CustomerId string `json:"customerId"`
	UnitAmount int64  `json:"unitAmount"`
	Persisted  bool   `json:"persisted"`
}

// controller model
type InvoiceOutputModel struct {
	InvoiceId string `json:"invoiceId"`
	Status    string `json:"status"`
	AmountDue int64  `json:"amountDue"`
	Currency  string `json:"currency"`
}
