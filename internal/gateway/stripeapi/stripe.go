// Package stripeapi implements gateway.Payments on top of stripe-go.
package stripeapi

import (
	"context"
	"jobify-api/internal/gateway"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

const invoiceDaysUntilDue = 30

type Gateway struct {
	api *client.API
}

func New(secretKey string) *Gateway {
	return &Gateway{api: client.New(secretKey, nil)}
}

func scope(ctx context.Context, p *stripe.Params, accountId string) {
	p.Context = ctx
	if accountId != "" {
		p.SetStripeAccount(accountId)
	}
}

func (g *Gateway) CreateAccount(ctx context.Context, email string, countryCode string) (string, error) {
	params := &stripe.AccountParams{
		Type:    stripe.String(string(stripe.AccountTypeCustom)),
		Country: stripe.String(countryCode),
		Email:   stripe.String(email),
		Capabilities: &stripe.AccountCapabilitiesParams{
			CardPayments: &stripe.AccountCapabilitiesCardPaymentsParams{Requested: stripe.Bool(true)},
			Transfers:    &stripe.AccountCapabilitiesTransfersParams{Requested: stripe.Bool(true)},
		},
	}
	scope(ctx, &params.Params, "")

	account, err := g.api.Accounts.New(params)
	if err != nil {
		return "", gateway.Wrap("create account", err)
	}

	return account.ID, nil
}

func (g *Gateway) CreateAccountLink(ctx context.Context, accountId string, refreshURL string, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountId),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String(string(stripe.AccountLinkTypeAccountOnboarding)),
	}
	scope(ctx, &params.Params, "")

	link, err := g.api.AccountLinks.New(params)
	if err != nil {
		return "", gateway.Wrap("create account link", err)
	}

	return link.URL, nil
}

func (g *Gateway) CreateProduct(ctx context.Context, accountId string, name string) (string, error) {
	params := &stripe.ProductParams{Name: stripe.String(name)}
	scope(ctx, &params.Params, accountId)

	product, err := g.api.Products.New(params)
	if err != nil {
		return "", gateway.Wrap("create product", err)
	}

	return product.ID, nil
}

func (g *Gateway) CreatePrice(ctx context.Context, accountId string, productId string, currency string, unitAmount int64) (string, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productId),
		Currency:   stripe.String(strings.ToLower(currency)),
		UnitAmount: stripe.Int64(unitAmount),
	}
	scope(ctx, &params.Params, accountId)

	price, err := g.api.Prices.New(params)
	if err != nil {
		return "", gateway.Wrap("create price", err)
	}

	return price.ID, nil
}

func (g *Gateway) CreateCustomer(ctx context.Context, accountId string, name string, email string) (string, error) {
	params := &stripe.CustomerParams{
		Name:  stripe.String(name),
		Email: stripe.String(email),
	}
	scope(ctx, &params.Params, accountId)

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", gateway.Wrap("create customer", err)
	}

	return customer.ID, nil
}

// EnsureCustomerEmail sets the customer's email when it differs. Invoices
// sent by the provider go to this address.
func (g *Gateway) EnsureCustomerEmail(ctx context.Context, accountId string, customerId string, email string) error {
	getParams := &stripe.CustomerParams{}
	scope(ctx, &getParams.Params, accountId)

	customer, err := g.api.Customers.Get(customerId, getParams)
	if err != nil {
		return gateway.Wrap("get customer", err)
	}
	if customer.Email == email {
		return nil
	}

	updateParams := &stripe.CustomerParams{Email: stripe.String(email)}
	scope(ctx, &updateParams.Params, accountId)

	if _, err := g.api.Customers.Update(customerId, updateParams); err != nil {
		return gateway.Wrap("update customer", err)
	}

	return nil
}

func (g *Gateway) CreateInvoice(ctx context.Context, accountId string, customerId string) (string, error) {
	params := &stripe.InvoiceParams{
		Customer:         stripe.String(customerId),
		CollectionMethod: stripe.String(string(stripe.InvoiceCollectionMethodSendInvoice)),
		DaysUntilDue:     stripe.Int64(invoiceDaysUntilDue),
		AutoAdvance:      stripe.Bool(false),
	}
	scope(ctx, &params.Params, accountId)

	invoice, err := g.api.Invoices.New(params)
	if err != nil {
		return "", gateway.Wrap("create invoice", err)
	}

	return invoice.ID, nil
}

func (g *Gateway) AddInvoiceItem(ctx context.Context, accountId string, customerId string, invoiceId string, priceId string) error {
	params := &stripe.InvoiceItemParams{
		Customer: stripe.String(customerId),
		Invoice:  stripe.String(invoiceId),
		Price:    stripe.String(priceId),
	}
	scope(ctx, &params.Params, accountId)

	if _, err := g.api.InvoiceItems.New(params); err != nil {
		return gateway.Wrap("add invoice item", err)
	}

	return nil
}

func (g *Gateway) FinalizeInvoice(ctx context.Context, accountId string, invoiceId string) (*gateway.Invoice, error) {
	params := &stripe.InvoiceFinalizeInvoiceParams{}
	scope(ctx, &params.Params, accountId)

	invoice, err := g.api.Invoices.FinalizeInvoice(invoiceId, params)
	if err != nil {
		return nil, gateway.Wrap("finalize invoice", err)
	}

	return mapInvoice(invoice), nil
}

func (g *Gateway) GetInvoice(ctx context.Context, accountId string, invoiceId string) (*gateway.Invoice, error) {
	params := &stripe.InvoiceParams{}
	scope(ctx, &params.Params, accountId)

	invoice, err := g.api.Invoices.Get(invoiceId, params)
	if err != nil {
		return nil, gateway.Wrap("get invoice", err)
	}

	return mapInvoice(invoice), nil
}

func (g *Gateway) PayInvoice(ctx context.Context, accountId string, invoiceId string) (*gateway.Invoice, error) {
	params := &stripe.InvoicePayParams{}
	scope(ctx, &params.Params, accountId)

	invoice, err := g.api.Invoices.Pay(invoiceId, params)
	if err != nil {
		return nil, gateway.Wrap("pay invoice", err)
	}

	return mapInvoice(invoice), nil
}

func (g *Gateway) CreateCheckoutSession(ctx context.Context, accountId string, p *gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		Customer:           stripe.String(p.CustomerId),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceId), Quantity: stripe.Int64(1)},
		},
		InvoiceCreation: &stripe.CheckoutSessionInvoiceCreationParams{Enabled: stripe.Bool(true)},
		SuccessURL:      stripe.String(p.SuccessURL),
		CancelURL:       stripe.String(p.CancelURL),
	}
	if p.ApplicationFee > 0 {
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(p.ApplicationFee),
		}
	}
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}
	scope(ctx, &params.Params, accountId)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, gateway.Wrap("create checkout session", err)
	}

	return &gateway.CheckoutSession{Id: session.ID, Url: session.URL, Metadata: session.Metadata}, nil
}

func (g *Gateway) GetCheckoutSession(ctx context.Context, accountId string, sessionId string) (*gateway.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	scope(ctx, &params.Params, accountId)

	session, err := g.api.CheckoutSessions.Get(sessionId, params)
	if err != nil {
		return nil, gateway.Wrap("get checkout session", err)
	}

	return &gateway.CheckoutSession{Id: session.ID, Url: session.URL, Metadata: session.Metadata}, nil
}
