package document

import (
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// ContractData is everything printed on a contract. Provider fields stay
// empty on the copy the client signs first.
type ContractData struct {
	ClientName             string
	ClientAddress          string
	ClientCity             string
	ServiceProviderName    string
	ServiceProviderAddress string
	Description            string
	WorkDeadline           time.Time
	Amount                 decimal.Decimal
	Currency               string
	Iban                   string
	BankName               string
	CourtCity              string
	Date                   time.Time

	ClientSignature          []byte
	ServiceProviderSignature []byte
}

const defectsClause = "The service provider is obliged to allow the client to inspect the status of the completed work " +
	"when requested by the client. If it is found that the work, which is the subject of this Contract, contains " +
	"defects, the client may set a deadline for the service provider to remove the defects, and if the service " +
	"provider does not remove them within the set deadline, the client may terminate this Contract and demand " +
	"compensation for damages."

const (
	signatureBoxWidth  = 70.0
	signatureBoxHeight = 21.0
	clientColumn       = 115.0
)

func joinNonEmpty(a, sep, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}

	return a + sep + b
}

// ContractLayout returns the positioned blocks of the contract. Positions
// depend only on the template, never on the data or on signature images.
func ContractLayout(data *ContractData) []Block {
	p := newPager()
	clientParty := joinNonEmpty(data.ClientName, ", ", data.ClientAddress)
	providerParty := joinNonEmpty(data.ServiceProviderName, ", ", data.ServiceProviderAddress)

	p.blank(clientParty, 1)
	p.caption("(name, surname, address) hereinafter referred to as the client, and")
	p.space(sectionSpace)
	p.blank(providerParty, 1)
	p.caption("(name, surname, address) hereinafter referred to as the service provider")
	p.space(sectionSpace)

	p.text("", "L", "Enter into this")
	p.space(sectionSpace)
	p.text("BI", "C", "CONTRACT FOR SERVICES")
	p.text("", "L", "Defining the rights and obligations of the client and the service provider.")
	p.space(sectionSpace)

	p.text("BI", "L", "SUBJECT OF THE CONTRACT")
	p.text("BI", "C", "Article 1.")
	p.text("", "L", "By this Contract, the client and the service provider agree to perform the following tasks:")
	p.blank(data.Description, 3)
	p.space(sectionSpace)

	p.text("BI", "L", "PERFORMANCE OF OBLIGATIONS")
	p.text("BI", "C", "Article 2.")
	p.text("", "L", "The deadline for the performance of the obligations from Article 1 is no later than:")
	p.blank(formatDate(data.WorkDeadline), 1)
	p.space(sectionSpace)

	p.text("BI", "C", "Article 3.")
	p.text("", "L", "The client shall pay the service provider for the tasks from Article 1 in the amount of:")
	p.blank(formatAmount(data.Amount, data.Currency), 1)
	p.text("", "L", "The payment shall be made to the service provider's account number:")
	p.blank(data.Iban, 1)
	p.text("", "L", "opened with the bank:")
	p.blank(data.BankName, 1)
	p.space(sectionSpace)

	p.text("BI", "C", "Article 4.")
	p.text("", "L", "The tax on the agreed amount from Article 3 shall be paid by:")
	p.blank(data.ClientName, 1)
	p.space(sectionSpace)

	p.text("BI", "C", "Article 5.")
	p.paragraph("", "J", defectsClause, 5)
	p.space(sectionSpace)

	p.text("BI", "L", "JURISDICTION OF THE COURT")
	p.text("BI", "C", "Article 6.")
	p.text("", "L", "In case of a dispute, the court in the following city shall have jurisdiction:")
	p.blank(data.CourtCity, 1)
	p.text("", "L", "This Contract is made in 2 copies, with each party retaining one copy.")
	p.space(sectionSpace)

	p.text("", "L", "Date and place:")
	p.blank(joinNonEmpty(formatDate(data.Date), ", ", data.ClientCity), 1)
	p.space(sectionSpace)

	// boxes, labels and signature lines stay on one page
	p.reserve(signatureBoxHeight + 3*lineHeight)
	p.blocks = append(p.blocks,
		Block{Kind: SignatureBox, Page: p.page, X: marginLeft, Y: p.y, Width: signatureBoxWidth,
			Height: signatureBoxHeight, Party: PartyServiceProvider},
		Block{Kind: SignatureBox, Page: p.page, X: clientColumn, Y: p.y, Width: signatureBoxWidth,
			Height: signatureBoxHeight, Party: PartyClient},
	)
	p.space(signatureBoxHeight)
	y := p.y
	p.blocks = append(p.blocks,
		Block{Kind: TextBlock, Page: p.page, X: marginLeft, Y: y, Width: signatureBoxWidth, Height: lineHeight,
			Size: fontSize, Align: "L", Text: "Service provider:"},
		Block{Kind: TextBlock, Page: p.page, X: clientColumn, Y: y, Width: signatureBoxWidth, Height: lineHeight,
			Size: fontSize, Align: "L", Text: "Client:"},
		Block{Kind: TextBlock, Page: p.page, X: marginLeft, Y: y + 2*lineHeight, Width: signatureBoxWidth,
			Height: lineHeight, Size: fontSize, Align: "L", Text: "_______________________"},
		Block{Kind: TextBlock, Page: p.page, X: clientColumn, Y: y + 2*lineHeight, Width: signatureBoxWidth,
			Height: lineHeight, Size: fontSize, Align: "L", Text: "_______________________"},
	)

	return p.blocks
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(dateLayout)
}

func formatAmount(amount decimal.Decimal, currency string) string {
	if currency == "" {
		return ""
	}

	return amount.StringFixed(2) + " " + currency
}
