// Package gateway describes the payment provider the payment flow talks to.
// Every call is scoped to the connected account of the service provider being paid.
package gateway

import (
	"context"
	"fmt"
)

type Payments interface {
	CreateAccount(ctx context.Context, email string, countryCode string) (string, error)
	CreateAccountLink(ctx context.Context, accountId string, refreshURL string, returnURL string) (string, error)

	CreateProduct(ctx context.Context, accountId string, name string) (string, error)
	CreatePrice(ctx context.Context, accountId string, productId string, currency string, unitAmount int64) (string, error)
	CreateCustomer(ctx context.Context, accountId string, name string, email string) (string, error)
	EnsureCustomerEmail(ctx context.Context, accountId string, customerId string, email string) error

	CreateInvoice(ctx context.Context, accountId string, customerId string) (string, error)
	AddInvoiceItem(ctx context.Context, accountId string, customerId string, invoiceId string, priceId string) error
	FinalizeInvoice(ctx context.Context, accountId string, invoiceId string) (*Invoice, error)
	GetInvoice(ctx context.Context, accountId string, invoiceId string) (*Invoice, error)
	PayInvoice(ctx context.Context, accountId string, invoiceId string) (*Invoice, error)

	CreateCheckoutSession(ctx context.Context, accountId string, params *CheckoutParams) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, accountId string, sessionId string) (*CheckoutSession, error)
}

// Invoice amounts are in minor units, dates in unix seconds.
type Invoice struct {
	Id              string
	Number          string
	Status          string
	Currency        string
	Created         int64
	DueDate         int64
	Subtotal        int64
	Total           int64
	AmountDue       int64
	CustomerName    string
	CustomerEmail   string
	CustomerAddress []string
	Lines           []InvoiceLine
}

type InvoiceLine struct {
	Description string
	Quantity    int64
	Amount      int64
}

type CheckoutParams struct {
	CustomerId     string
	PriceId        string
	ApplicationFee int64
	SuccessURL     string
	CancelURL      string
	Metadata       map[string]string
}

type CheckoutSession struct {
	Id       string
	Url      string
	Metadata map[string]string
}

// ProviderError wraps a failed call to the payment provider.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}

	return &ProviderError{Op: op, Err: err}
}
