// Package gatewaytest provides an in-process payment provider for tests.
package gatewaytest

import (
	"context"
	"errors"
	"fmt"
	"jobify-api/internal/gateway"
	"strings"
	"sync"
	"time"
)

var ErrUnknownObject = errors.New("no such object")

type Customer struct {
	Name  string
	Email string
}

// Payments keeps every object it creates in memory. Errors set in Fail are
// returned by the method of the same name, wrapped like the real adapter does.
type Payments struct {
	mu   sync.Mutex
	seq  int
	Fail map[string]error

	Accounts  map[string]string
	Prices    map[string]int64
	Customers map[string]Customer
	Invoices  map[string]*gateway.Invoice
	Sessions  map[string]*gateway.CheckoutSession
	Checkouts []gateway.CheckoutParams
	Calls     []string
}

func New() *Payments {
	return &Payments{
		Fail:      make(map[string]error),
		Accounts:  make(map[string]string),
		Prices:    make(map[string]int64),
		Customers: make(map[string]Customer),
		Invoices:  make(map[string]*gateway.Invoice),
		Sessions:  make(map[string]*gateway.CheckoutSession),
	}
}

// call records op and returns its injected failure. Callers hold the lock.
func (p *Payments) call(op string) error {
	p.Calls = append(p.Calls, op)

	return gateway.Wrap(op, p.Fail[op])
}

func (p *Payments) id(prefix string) string {
	p.seq++

	return fmt.Sprintf("%s_%d", prefix, p.seq)
}

func (p *Payments) Count(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, c := range p.Calls {
		if c == op {
			n++
		}
	}

	return n
}

func (p *Payments) CreateAccount(_ context.Context, email string, countryCode string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreateAccount"); err != nil {
		return "", err
	}

	id := p.id("acct")
	p.Accounts[id] = countryCode

	return id, nil
}

func (p *Payments) CreateAccountLink(_ context.Context, accountId string, refreshURL string, returnURL string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreateAccountLink"); err != nil {
		return "", err
	}

	return "https://connect.example.com/setup/" + accountId, nil
}

func (p *Payments) CreateProduct(_ context.Context, accountId string, name string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreateProduct"); err != nil {
		return "", err
	}

	return p.id("prod"), nil
}

func (p *Payments) CreatePrice(_ context.Context, accountId string, productId string, currency string, unitAmount int64) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreatePrice"); err != nil {
		return "", err
	}

	id := p.id("price")
	p.Prices[id] = unitAmount

	return id, nil
}

func (p *Payments) CreateCustomer(_ context.Context, accountId string, name string, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreateCustomer"); err != nil {
		return "", err
	}

	id := p.id("cus")
	p.Customers[id] = Customer{Name: name, Email: email}

	return id, nil
}

func (p *Payments) EnsureCustomerEmail(_ context.Context, accountId string, customerId string, email string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("EnsureCustomerEmail"); err != nil {
		return err
	}

	c, ok := p.Customers[customerId]
	if !ok {
		return gateway.Wrap("EnsureCustomerEmail", ErrUnknownObject)
	}
	c.Email = email
	p.Customers[customerId] = c

	return nil
}

func (p *Payments) CreateInvoice(_ context.Context, accountId string, customerId string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreateInvoice"); err != nil {
		return "", err
	}

	c, ok := p.Customers[customerId]
	if !ok {
		return "", gateway.Wrap("CreateInvoice", ErrUnknownObject)
	}

	id := p.id("in")
	p.Invoices[id] = &gateway.Invoice{
		Id:            id,
		Number:        strings.ToUpper(id),
		Status:        "draft",
		Currency:      "EUR",
		Created:       time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC).Unix(),
		DueDate:       time.Date(2026, time.February, 14, 0, 0, 0, 0, time.UTC).Unix(),
		CustomerName:  c.Name,
		CustomerEmail: c.Email,
	}

	return id, nil
}

func (p *Payments) AddInvoiceItem(_ context.Context, accountId string, customerId string, invoiceId string, priceId string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("AddInvoiceItem"); err != nil {
		return err
	}

	inv, ok := p.Invoices[invoiceId]
	amount, priced := p.Prices[priceId]
	if !ok || !priced {
		return gateway.Wrap("AddInvoiceItem", ErrUnknownObject)
	}
	inv.Lines = append(inv.Lines, gateway.InvoiceLine{Description: priceId, Quantity: 1, Amount: amount})
	inv.Subtotal += amount
	inv.Total += amount
	inv.AmountDue += amount

	return nil
}

func (p *Payments) invoice(op string, invoiceId string, status string) (*gateway.Invoice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call(op); err != nil {
		return nil, err
	}

	inv, ok := p.Invoices[invoiceId]
	if !ok {
		return nil, gateway.Wrap(op, ErrUnknownObject)
	}
	if status != "" {
		inv.Status = status
	}
	out := *inv

	return &out, nil
}

func (p *Payments) FinalizeInvoice(_ context.Context, accountId string, invoiceId string) (*gateway.Invoice, error) {
	return p.invoice("FinalizeInvoice", invoiceId, "open")
}

func (p *Payments) GetInvoice(_ context.Context, accountId string, invoiceId string) (*gateway.Invoice, error) {
	return p.invoice("GetInvoice", invoiceId, "")
}

func (p *Payments) PayInvoice(_ context.Context, accountId string, invoiceId string) (*gateway.Invoice, error) {
	return p.invoice("PayInvoice", invoiceId, "paid")
}

func (p *Payments) CreateCheckoutSession(_ context.Context, accountId string, params *gateway.CheckoutParams) (*gateway.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("CreateCheckoutSession"); err != nil {
		return nil, err
	}

	id := p.id("cs")
	s := &gateway.CheckoutSession{Id: id, Url: "https://checkout.example.com/" + id, Metadata: params.Metadata}
	p.Sessions[id] = s
	p.Checkouts = append(p.Checkouts, *params)

	return s, nil
}

func (p *Payments) GetCheckoutSession(_ context.Context, accountId string, sessionId string) (*gateway.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.call("GetCheckoutSession"); err != nil {
		return nil, err
	}

	s, ok := p.Sessions[sessionId]
	if !ok {
		return nil, gateway.Wrap("GetCheckoutSession", ErrUnknownObject)
	}

	return s, nil
}
