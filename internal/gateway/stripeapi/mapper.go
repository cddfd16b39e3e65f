package stripeapi

import (
	"jobify-api/internal/gateway"
	"strings"

	"github.com/stripe/stripe-go/v79"
)

func mapInvoice(in *stripe.Invoice) *gateway.Invoice {
	out := &gateway.Invoice{
		Id:            in.ID,
		Number:        in.Number,
		Status:        string(in.Status),
		Currency:      strings.ToUpper(string(in.Currency)),
		Created:       in.Created,
		DueDate:       in.DueDate,
		Subtotal:      in.Subtotal,
		Total:         in.Total,
		AmountDue:     in.AmountDue,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
	}

	if a := in.CustomerAddress; a != nil {
		for _, line := range []string{a.Line1, a.Line2, strings.TrimSpace(a.PostalCode + " " + a.City), a.Country} {
			if line != "" {
				out.CustomerAddress = append(out.CustomerAddress, line)
			}
		}
	}

	if in.Lines != nil {
		for _, l := range in.Lines.Data {
			out.Lines = append(out.Lines, gateway.InvoiceLine{
				Description: l.Description,
				Quantity:    l.Quantity,
				Amount:      l.Amount,
			})
		}
	}

	return out
}
