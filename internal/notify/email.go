package notify

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templatesFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

type emailContext struct {
	RecipientName string
	Title         string
	Message       string
	Severity      string
	ActionURL     string
	StatusDisplay string
	StatusClass   string
	SiteURL       string
	SiteName      string
}

func renderEmail(ctx emailContext) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, "notification.html", ctx); err != nil {
		return "", fmt.Errorf("render notification template: %w", err)
	}
	return buf.String(), nil
}
