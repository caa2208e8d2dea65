// Package renderer produces rate sheet artifacts from compiled documents.
package renderer

import (
	"bytes"
	"html/template"

	"github.com/fleetrate/fleetrate/internal/domain/ratesheet"
	ierr "github.com/fleetrate/fleetrate/internal/errors"
	"github.com/fleetrate/fleetrate/internal/logger"
)

const rateSheetTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Reference}}</title>
<style>
body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #1a1a1a; }
.header { border-bottom: 4px solid {{.Branding.AccentColor}}; padding-bottom: 1em; margin-bottom: 1.5em; }
.header h1 { margin: 0; }
.meta { color: #555; font-size: 0.9em; }
table { width: 100%; border-collapse: collapse; margin-top: 1em; }
th, td { text-align: left; padding: 0.5em 0.75em; border-bottom: 1px solid #ddd; }
th { background: #f5f5f5; }
td.rate { text-align: right; font-variant-numeric: tabular-nums; }
.footer { margin-top: 2em; font-size: 0.85em; color: #777; }
</style>
</head>
<body>
<div class="header">
{{if .Branding.LogoURL}}<img src="{{.Branding.LogoURL}}" alt="logo" height="48">{{end}}
<h1>{{if .Branding.TradingName}}{{.Branding.TradingName}}{{else}}{{.Profile.LegalName}}{{end}}</h1>
<div class="meta">
<div>{{.Profile.LegalName}} &middot; {{.Profile.RegistrationNumber}}{{if .Profile.VATNumber}} &middot; VAT {{.Profile.VATNumber}}{{end}}</div>
<div>Rate sheet {{.Reference}} for {{.ClientName}}</div>
<div>Effective {{.EffectiveDate.Format "2 January 2006"}}{{if not .ValidUntil.IsZero}} &mdash; valid until {{.ValidUntil.Format "2 January 2006"}}{{end}}</div>
</div>
</div>
<table>
<thead>
<tr><th>Route</th><th>Origin</th><th>Destination</th><th>Basis</th><th style="text-align:right">{{.RateLabel}}</th></tr>
</thead>
<tbody>
{{range .LineItems}}
<tr><td>{{.RouteCode}}</td><td>{{.Origin}}</td><td>{{.Destination}}</td><td>{{.RateType}}</td><td class="rate">{{.DisplayRate}}</td></tr>
{{end}}
</tbody>
</table>
{{if .Notes}}<p>{{.Notes}}</p>{{end}}
{{if .Terms}}<p class="footer">{{.Terms}}</p>{{end}}
{{if .Branding.FooterNote}}<p class="footer">{{.Branding.FooterNote}}</p>{{end}}
</body>
</html>
`

type htmlRenderer struct {
	tmpl   *template.Template
	logger *logger.Logger
}

// NewHTMLRenderer builds the HTML rate sheet renderer. The artifact is the
// same for preview and download; the transport layer decides disposition.
func NewHTMLRenderer(log *logger.Logger) (ratesheet.Renderer, error) {
	tmpl, err := template.New("ratesheet").Parse(rateSheetTemplate)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse rate sheet template").
			Mark(ierr.ErrSystem)
	}
	return &htmlRenderer{tmpl: tmpl, logger: log}, nil
}

func (r *htmlRenderer) Render(doc *ratesheet.Document, mode ratesheet.RenderMode) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		r.logger.Errorw("failed to render rate sheet",
			"error", err,
			"reference", doc.Reference,
			"client_id", doc.ClientID,
		)
		return nil, "", ierr.WithError(err).
			WithHint("Failed to render rate sheet").
			Mark(ierr.ErrInternal)
	}

	r.logger.Debugw("rendered rate sheet",
		"reference", doc.Reference,
		"mode", mode,
		"bytes", buf.Len(),
	)
	return buf.Bytes(), "text/html; charset=utf-8", nil
}
