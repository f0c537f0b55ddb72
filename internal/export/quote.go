package export

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"vitrine/api/internal/store"
)

// QuoteData holds everything the quote template renders: the submission being
// quoted plus the business identity from site settings.
type QuoteData struct {
	Business    store.Settings
	Submission  store.Submission
	PriceText   string
	Deadline    string
	GeneratedAt time.Time
}

var quoteTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Quote — {{.Submission.Name}}</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; color: #222; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    table { width: 100%; border-collapse: collapse; margin: 1.5rem 0; }
    td { padding: 0.5rem 0.75rem; border-bottom: 1px solid #ddd; }
    td.label { color: #666; width: 35%; }
    .price { font-size: 1.4em; font-weight: bold; }
    .notes { background: #f5f5f5; padding: 1rem; border-left: 3px solid #333; }
    footer { margin-top: 3rem; color: #666; font-size: 0.85em; }
  </style>
</head>
<body>
  <h1>{{if .Business.BusinessName}}{{.Business.BusinessName}}{{else}}Quote{{end}}</h1>
  <div class="meta">Prepared {{.GeneratedAt.Format "Jan 2, 2006"}} for {{.Submission.Name}}</div>
  <table>
    <tr><td class="label">Client</td><td>{{.Submission.Name}} &lt;{{.Submission.Email}}&gt;</td></tr>
    <tr><td class="label">Project type</td><td>{{.Submission.ProjectType}}</td></tr>
    {{if .Submission.Budget}}<tr><td class="label">Stated budget</td><td>{{.Submission.Budget}}</td></tr>{{end}}
    {{if .Submission.Timeline}}<tr><td class="label">Requested timeline</td><td>{{.Submission.Timeline}}</td></tr>{{end}}
    {{if .PriceText}}<tr><td class="label">Quoted price</td><td class="price">{{.PriceText}}</td></tr>{{end}}
    {{if .Deadline}}<tr><td class="label">Delivery deadline</td><td>{{.Deadline}}</td></tr>{{end}}
  </table>
  {{if .Submission.Description}}<p>{{.Submission.Description}}</p>{{end}}
  {{if .Submission.Notes}}<div class="notes">{{.Submission.Notes}}</div>{{end}}
  <footer>
    {{.Business.BusinessName}}{{if .Business.Email}} · {{.Business.Email}}{{end}}{{if .Business.Phone}} · {{.Business.Phone}}{{end}}
  </footer>
</body>
</html>`))

// RenderQuoteHTML renders the quote template for a submission.
func RenderQuoteHTML(sub store.Submission, settings store.Settings) (string, error) {
	data := QuoteData{
		Business:    settings,
		Submission:  sub,
		Deadline:    sub.Deadline,
		GeneratedAt: time.Now(),
	}
	if sub.Price != nil {
		data.PriceText = fmt.Sprintf("%.2f", *sub.Price)
	}
	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render quote: %w", err)
	}
	return buf.String(), nil
}

// Quote renders a submission quote as a PDF via headless Chrome.
func Quote(sub store.Submission, settings store.Settings) (*Result, error) {
	html, err := RenderQuoteHTML(sub, settings)
	if err != nil {
		return nil, err
	}
	return exportPDF(html, fmt.Sprintf("quote-%s", sub.Name))
}
