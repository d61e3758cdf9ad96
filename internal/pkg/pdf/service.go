// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/foodgram-backend/internal/config"
	"github.com/your-org/foodgram-backend/internal/domain/cart"
)

var shoppingListTmpl = template.Must(template.New("shopping_list").Parse(shoppingListTemplate))

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ShoppingListData represents the data passed to the shopping list template
type ShoppingListData struct {
	AppName     string
	Owner       string
	GeneratedAt string
	Items       []cart.ShoppingItem
}

// GenerateShoppingList renders the aggregated shopping list of owner as a PDF
func (s *Service) GenerateShoppingList(owner string, items []cart.ShoppingItem) (*bytes.Buffer, error) {
	htmlContent, err := s.ShoppingListHTML(owner, items)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	// Convert HTML to PDF
	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// Set PDF options
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)
	pdfg.Grayscale.Set(true)

	// Add page from HTML content
	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Encoding.Set("utf-8")

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// ShoppingListHTML renders the HTML document that GenerateShoppingList converts
func (s *Service) ShoppingListHTML(owner string, items []cart.ShoppingItem) (string, error) {
	data := ShoppingListData{
		AppName:     s.config.App.Name,
		Owner:       owner,
		GeneratedAt: time.Now().Format("02.01.2006 15:04"),
		Items:       items,
	}

	var buf bytes.Buffer
	if err := shoppingListTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// Shopping list HTML template
const shoppingListTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.AppName}} shopping list</title>
    <style>
        body { font-family: "DejaVu Sans", Arial, sans-serif; margin: 0; padding: 24px; color: #222; }
        h1 { font-size: 22px; margin: 0 0 4px 0; }
        .meta { color: #777; font-size: 12px; margin-bottom: 20px; }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; font-size: 14px; }
        td.total { text-align: right; white-space: nowrap; }
        .empty { color: #777; font-style: italic; }
    </style>
</head>
<body>
    <h1>{{.AppName}}: shopping list</h1>
    <div class="meta">{{.Owner}} · {{.GeneratedAt}}</div>
    {{if .Items}}
    <table>
        <thead>
            <tr><th>Ingredient</th><th>Amount</th></tr>
        </thead>
        <tbody>
            {{range .Items}}
            <tr><td>{{.Name}}</td><td class="total">{{.Total}} {{.MeasurementUnit}}</td></tr>
            {{end}}
        </tbody>
    </table>
    {{else}}
    <p class="empty">The shopping cart is empty.</p>
    {{end}}
</body>
</html>
`
