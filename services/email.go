package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"

	"tech_office_cms_go/config"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// SendEmail sends an email using the Resend API. In test mode the email
// is logged to the console instead of sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if _, err := client.Emails.Send(params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// BuildTaskReminderEmail builds the reminder for a task starting tomorrow.
func BuildTaskReminderEmail(to, title, start, caseNumber string) *Email {
	caseLine := ""
	if caseNumber != "" {
		caseLine = fmt.Sprintf("<p>Case: %s</p>", caseNumber)
	}

	return &Email{
		To:      []string{to},
		Subject: fmt.Sprintf("Reminder: %s", title),
		HTMLBody: fmt.Sprintf(
			"<h2>Upcoming task</h2><p><strong>%s</strong> starts at %s.</p>%s",
			title, start, caseLine,
		),
		TextBody: fmt.Sprintf("Upcoming task: %s starts at %s.", title, start),
	}
}

func logEmailToConsole(email *Email) {
	log.Println("========== EMAIL (test mode - not sent) ==========")
	log.Printf("To:      %s", strings.Join(email.To, ", "))
	log.Printf("Subject: %s", email.Subject)
	log.Printf("Body:    %s", email.TextBody)
	log.Println("==================================================")
}
