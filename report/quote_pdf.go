package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/aurumworks/aurum/internal/customers"
	"github.com/aurumworks/aurum/internal/quotes"
)

// StudioInfo is the letterhead block, sourced from settings.
type StudioInfo struct {
	Name    string
	Address string
	Phone   string
	Email   string
	Footer  string
}

// QuoteDocument is the view model the PDF template renders.
type QuoteDocument struct {
	Studio     StudioInfo
	Number     string
	Date       string
	ValidUntil string
	Status     string
	Customer   *customers.Customer
	Lines      []QuoteLine
	Subtotal   string
	MarkupPct  string
	Markup     string
	Discount   string
	Total      string
	Notes      string
}

// QuoteLine is one formatted table row.
type QuoteLine struct {
	Description string
	Quantity    int
	Labour      string
	Metal       string
	Extras      string
	UnitPrice   string
	LineTotal   string
}

// Money formats an amount in the given ISO currency with the unit's symbol
// and grouped digits.
func Money(code string, v float64) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return fmt.Sprintf("%s %.2f", code, v)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v%v", currency.Symbol(unit),
		number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// BuildQuoteDocument assembles the view model. The effective status is used,
// so a lapsed SENT quote prints as EXPIRED.
func BuildQuoteDocument(q *quotes.Quote, customer *customers.Customer, studio StudioInfo, currencyCode string) QuoteDocument {
	doc := QuoteDocument{
		Studio:    studio,
		Number:    q.Number,
		Date:      q.CreatedAt.Format("2 January 2006"),
		Status:    string(q.EffectiveStatus(time.Now())),
		Customer:  customer,
		Subtotal:  Money(currencyCode, q.Subtotal),
		MarkupPct: fmt.Sprintf("%.1f%%", q.MarkupPct),
		Markup:    Money(currencyCode, q.MarkupAmount),
		Discount:  Money(currencyCode, q.Discount),
		Total:     Money(currencyCode, q.Total),
	}
	if q.ValidUntil != nil {
		doc.ValidUntil = q.ValidUntil.Format("2 January 2006")
	}
	if q.Notes != nil {
		doc.Notes = *q.Notes
	}
	for _, item := range q.Items {
		doc.Lines = append(doc.Lines, QuoteLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			Labour:      Money(currencyCode, item.LabourTotal),
			Metal:       Money(currencyCode, item.MetalTotal),
			Extras:      Money(currencyCode, item.ExtrasTotal),
			UnitPrice:   Money(currencyCode, item.UnitPrice),
			LineTotal:   Money(currencyCode, item.LineTotal),
		})
	}
	return doc
}

var quoteTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Georgia, serif; color: #222; margin: 40px; }
  h1 { font-size: 22px; letter-spacing: 2px; }
  .muted { color: #777; font-size: 12px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { padding: 8px 6px; text-align: right; border-bottom: 1px solid #ddd; font-size: 13px; }
  th:first-child, td:first-child { text-align: left; }
  tfoot td { border-bottom: none; }
  .total td { font-weight: bold; font-size: 15px; border-top: 2px solid #222; }
  .status { text-transform: uppercase; font-size: 12px; letter-spacing: 1px; }
  .notes { margin-top: 30px; white-space: pre-wrap; font-size: 12px; }
  .footer { margin-top: 60px; font-size: 11px; color: #777; }
</style>
</head>
<body>
  <h1>{{.Studio.Name}}</h1>
  <div class="muted">{{.Studio.Address}}<br>{{.Studio.Phone}} &middot; {{.Studio.Email}}</div>

  <h2>Quotation {{.Number}}</h2>
  <div class="status">{{.Status}}</div>
  <div class="muted">
    Date: {{.Date}}{{if .ValidUntil}} &middot; Valid until: {{.ValidUntil}}{{end}}
  </div>

  {{if .Customer}}
  <p>
    <strong>{{.Customer.Name}}</strong><br>
    {{if .Customer.Email}}{{.Customer.Email}}<br>{{end}}
    {{if .Customer.Phone}}{{.Customer.Phone}}<br>{{end}}
    {{if .Customer.Address}}{{.Customer.Address}}{{end}}
  </p>
  {{end}}

  <table>
    <thead>
      <tr>
        <th>Description</th><th>Qty</th><th>Labour</th><th>Metal</th>
        <th>Extras</th><th>Unit</th><th>Total</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{.Labour}}</td>
        <td>{{.Metal}}</td><td>{{.Extras}}</td><td>{{.UnitPrice}}</td><td>{{.LineTotal}}</td>
      </tr>
      {{end}}
    </tbody>
    <tfoot>
      <tr><td colspan="6">Subtotal</td><td>{{.Subtotal}}</td></tr>
      <tr><td colspan="6">Markup ({{.MarkupPct}})</td><td>{{.Markup}}</td></tr>
      <tr><td colspan="6">Discount</td><td>&minus;{{.Discount}}</td></tr>
      <tr class="total"><td colspan="6">Total</td><td>{{.Total}}</td></tr>
    </tfoot>
  </table>

  {{if .Notes}}<div class="notes">{{.Notes}}</div>{{end}}
  {{if .Studio.Footer}}<div class="footer">{{.Studio.Footer}}</div>{{end}}
</body>
</html>`))

// RenderQuoteHTML renders the document to the HTML Gotenberg converts.
func RenderQuoteHTML(doc QuoteDocument) (string, error) {
	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("render quote template: %w", err)
	}
	return buf.String(), nil
}
