package document

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// InvoiceData is a provider invoice prepared for printing. Amounts are in
// minor units of Currency.
type InvoiceData struct {
	Number          string
	Currency        string
	Created         time.Time
	DueDate         time.Time
	CustomerName    string
	CustomerEmail   string
	CustomerAddress []string
	Lines           []InvoiceLine
	Subtotal        int64
	Total           int64
	AmountDue       int64
}

type InvoiceLine struct {
	Description string
	Quantity    int64
	Amount      int64
}

var printer = message.NewPrinter(language.English)

// FormatMoney prints a minor-unit amount with the currency symbol. Unknown
// currency codes fall back to "12.34 CODE".
func FormatMoney(minor int64, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return decimal.New(minor, -2).StringFixed(2) + " " + code
	}

	scale, _ := currency.Standard.Rounding(unit)
	amount := decimal.New(minor, -int32(scale))

	return printer.Sprint(currency.Symbol(unit.Amount(amount.InexactFloat64())))
}

func RenderInvoice(data *InvoiceData) ([]byte, error) {
	pdf := newDocument(data.Created)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 20)
	pdf.SetXY(marginLeft, pageTop)
	pdf.CellFormat(textWidth, 10, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", fontSize)
	pdf.SetX(marginLeft)
	pdf.CellFormat(textWidth, lineHeight, tr("Invoice number: "+data.Number), "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(textWidth, lineHeight, "Date of issue: "+formatDate(data.Created), "", 1, "L", false, 0, "")
	pdf.SetX(marginLeft)
	pdf.CellFormat(textWidth, lineHeight, "Date due: "+formatDate(data.DueDate), "", 1, "L", false, 0, "")
	pdf.Ln(lineHeight)

	pdf.SetFont(fontFamily, "B", fontSize)
	pdf.SetX(marginLeft)
	pdf.CellFormat(textWidth, lineHeight, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", fontSize)
	billTo := append([]string{data.CustomerName}, data.CustomerAddress...)
	billTo = append(billTo, data.CustomerEmail)
	for _, line := range billTo {
		if line == "" {
			continue
		}
		pdf.SetX(marginLeft)
		pdf.CellFormat(textWidth, lineHeight, tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(lineHeight)

	cols := []float64{110, 20, 40}
	pdf.SetFont(fontFamily, "B", fontSize)
	pdf.SetX(marginLeft)
	for i, title := range []string{"Description", "Qty", "Amount"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 7, title, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", fontSize)
	for _, l := range data.Lines {
		pdf.SetX(marginLeft)
		pdf.CellFormat(cols[0], 7, tr(l.Description), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 7, strconv.FormatInt(l.Quantity, 10), "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 7, tr(FormatMoney(l.Amount, data.Currency)), "", 1, "R", false, 0, "")
	}
	pdf.Ln(lineHeight)

	totals := []struct {
		label  string
		amount int64
		style  string
	}{
		{"Subtotal", data.Subtotal, ""},
		{"Total", data.Total, ""},
		{"Amount due", data.AmountDue, "B"},
	}
	for _, row := range totals {
		pdf.SetFont(fontFamily, row.style, fontSize)
		pdf.SetX(marginLeft)
		pdf.CellFormat(cols[0]+cols[1], 7, row.label, "", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 7, tr(FormatMoney(row.amount, data.Currency)), "", 1, "R", false, 0, "")
	}

	if pdf.Err() {
		return nil, fmt.Errorf("render invoice: %w", pdf.Error())
	}

	return output(pdf)
}
