package services

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"strings"

	"ecoulement_app_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In test mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	// Validate configuration
	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	fromAddress := fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom)

	params := &resend.SendEmailRequest{
		From:    fromAddress,
		To:      email.To,
		Subject: email.Subject,
	}

	// Set body (prefer HTML if available)
	if email.HTMLBody != "" {
		params.Html = email.HTMLBody
	}
	if email.TextBody != "" {
		params.Text = email.TextBody
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in test mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\n📧 EMAIL (Test Mode - Not Actually Sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// SendEmailAsync sends an email asynchronously using a goroutine
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		HTMLBody: email.HTMLBody,
		TextBody: email.TextBody,
	}

	go func(cfg *config.Config, email *Email) {
		if err := SendEmail(cfg, email); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}(cfg, emailCopy)
}

var importReportTmpl = template.Must(template.New("import_report").Parse(`
<h2>Import du jeu de données stations terminé</h2>
<p>Résumé du dernier import Hub'eau :</p>
<ul>
	<li>Pages chargées : {{.PagesFetched}}</li>
	<li>Régions créées : {{.Regions}}</li>
	<li>Départements créés : {{.Departements}}</li>
	<li>Communes créées : {{.Communes}}</li>
	<li>Bassins créés : {{.Bassins}}</li>
	<li>Cours d'eau créés : {{.CoursEau}}</li>
	<li>Stations créées : {{.Stations}}</li>
	<li>Enregistrements ignorés : {{.Skipped}}</li>
	<li>Erreurs : {{len .Errors}}</li>
</ul>
`))

// BuildImportReportEmail creates the post-import summary message for ops
func BuildImportReportEmail(toEmail string, result *ImportResult) *Email {
	var buf bytes.Buffer
	if err := importReportTmpl.Execute(&buf, result); err != nil {
		log.Printf("[WARNING] Failed to render import report template: %v", err)
	}

	return &Email{
		To:       []string{toEmail},
		Subject:  "Import stations écoulement terminé",
		HTMLBody: buf.String(),
		TextBody: "Import terminé. " + result.Summary(),
	}
}

// BuildRefreshAlertEmail creates the ops alert sent when the observation
// refresh job fails
func BuildRefreshAlertEmail(toEmail string, jobErr error) *Email {
	return &Email{
		To:      []string{toEmail},
		Subject: "Échec du rafraîchissement des observations",
		TextBody: fmt.Sprintf(
			"Le rafraîchissement planifié du cache d'observations a échoué : %v\nLa prochaine exécution réessaiera automatiquement.",
			jobErr),
	}
}
