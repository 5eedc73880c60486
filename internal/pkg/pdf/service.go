// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"

	"github.com/wouhouch/hub/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	company CompanyInfo
	now     func() time.Time
	tmpl    *template.Template
}

// NewService creates a new PDF service
func NewService(company CompanyInfo) *Service {
	return &Service{
		company: company,
		now:     time.Now,
		tmpl:    template.Must(template.New("receipt").Parse(receiptTemplate)),
	}
}

// Receipt renders an order receipt as PDF. It needs the wkhtmltopdf binary on PATH.
func (s *Service) Receipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.ReceiptHTML(o)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// ReceiptHTML renders the receipt page that Receipt converts
func (s *Service) ReceiptHTML(o *order.Order) (string, error) {
	data := ReceiptData{
		ReceiptNumber: "RCPT-" + o.ID,
		IssuedOn:      s.now().Format("January 2, 2006"),
		Order:         o,
		Company:       s.company,
		Lines:         make([]ReceiptLine, 0, len(o.Items)),
	}
	if !o.CreatedAt.IsZero() {
		data.OrderedOn = o.CreatedAt.Format("January 2, 2006")
	}
	for _, it := range o.Items {
		name := it.Title
		if name == "" {
			name = it.ProductID
		}
		data.Lines = append(data.Lines, ReceiptLine{
			Name:      name,
			Variant:   it.Variant,
			Qty:       it.Qty,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Total:     it.LineTotal().StringFixed(2),
		})
	}
	data.Total = o.Total.StringFixed(2)

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber string
	IssuedOn      string
	OrderedOn     string
	Order         *order.Order
	Company       CompanyInfo
	Lines         []ReceiptLine
	Total         string
}

// ReceiptLine is one formatted order line
type ReceiptLine struct {
	Name      string
	Variant   string
	Qty       int
	UnitPrice string
	Total     string
}

// CompanyInfo represents the shop shown in the receipt header
type CompanyInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
	Currency string `json:"currency"`
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Receipt {{.ReceiptNumber}}</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #222; }
        .header { display: flex; justify-content: space-between; margin-bottom: 30px; border-bottom: 2px solid #eee; padding-bottom: 20px; }
        .receipt-title { font-size: 28px; font-weight: bold; color: #e11d48; margin-bottom: 10px; }
        .receipt-info { text-align: right; }
        .section-title { font-size: 16px; font-weight: bold; margin-bottom: 10px; }
        .items-table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
        .items-table th, .items-table td { border: 1px solid #ddd; padding: 10px 8px; text-align: left; }
        .items-table th { background-color: #f8f9fa; }
        .num { text-align: right; width: 90px; }
        .total-row { font-size: 18px; font-weight: bold; }
        .status-badge { display: inline-block; padding: 4px 8px; border-radius: 4px; font-size: 12px; font-weight: bold; background: #f3f4f6; }
        .footer { margin-top: 50px; padding-top: 20px; border-top: 1px solid #eee; text-align: center; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="header">
        <div>
            <h1>{{.Company.Name}}</h1>
            {{if .Company.Email}}<p>Email: {{.Company.Email}}</p>{{end}}
            {{if .Company.WhatsApp}}<p>WhatsApp: {{.Company.WhatsApp}}</p>{{end}}
        </div>
        <div class="receipt-info">
            <div class="receipt-title">RECEIPT</div>
            <p><strong>Receipt #:</strong> {{.ReceiptNumber}}</p>
            <p><strong>Issued:</strong> {{.IssuedOn}}</p>
            {{if .OrderedOn}}<p><strong>Ordered:</strong> {{.OrderedOn}}</p>{{end}}
            <p><span class="status-badge">{{.Order.Status}}</span></p>
        </div>
    </div>

    <div>
        <div class="section-title">Ship To:</div>
        <p><strong>{{.Order.CustomerName}}</strong></p>
        <p>{{.Order.Address.String}}</p>
        {{if .Order.Phone}}<p>Phone: {{.Order.Phone}}</p>{{end}}
        <p>Email: {{.Order.Email}}</p>
    </div>

    <table class="items-table">
        <thead>
            <tr><th>Item</th><th class="num">Qty</th><th class="num">Price</th><th class="num">Total</th></tr>
        </thead>
        <tbody>
            {{range .Lines}}
            <tr>
                <td><strong>{{.Name}}</strong>{{if .Variant}}<br><small>{{.Variant}}</small>{{end}}</td>
                <td class="num">{{.Qty}}</td>
                <td class="num">{{.UnitPrice}} {{$.Company.Currency}}</td>
                <td class="num">{{.Total}} {{$.Company.Currency}}</td>
            </tr>
            {{end}}
            <tr class="total-row">
                <td colspan="3" class="num">Total:</td>
                <td class="num">{{.Total}} {{.Company.Currency}}</td>
            </tr>
        </tbody>
    </table>

    <div class="footer">
        <p>Thank you for training with us!</p>
        {{if .Company.Email}}<p>Questions about this order? Contact us at {{.Company.Email}}</p>{{end}}
    </div>
</body>
</html>
`
