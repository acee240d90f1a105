package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type welcomeEmailData struct {
	baseEmailData
	FirstName string
}

type statusChangedEmailData struct {
	baseEmailData
	ReportTitle    string
	StatusLabel    string
	ResolutionNote string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// StatusLabel translates a workflow status to the citizen-facing Turkish
// wording used in mail bodies.
func StatusLabel(status string) string {
	switch status {
	case "pending":
		return "Beklemede"
	case "in_progress":
		return "İşlemde"
	case "resolved":
		return "Çözüldü"
	case "rejected":
		return "Reddedildi"
	default:
		return status
	}
}
