package utils

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer sends templated emails through SendGrid.
type Mailer struct {
	apiKey      string
	senderName  string
	senderEmail string
}

func NewMailer(apiKey, senderName, senderEmail string) *Mailer {
	return &Mailer{apiKey: apiKey, senderName: senderName, senderEmail: senderEmail}
}

// Send delivers a single email. Both text and HTML bodies are required by
// the SendGrid helper; pass the same content twice if only one is needed.
func (m *Mailer) Send(toName, toEmail, subject, textContent, htmlContent string) error {
	if m.apiKey == "" {
		return fmt.Errorf("SENDGRID_API_KEY is not set")
	}

	from := mail.NewEmail(m.senderName, m.senderEmail)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, textContent, htmlContent)
	client := sendgrid.NewSendClient(m.apiKey)

	response, err := client.Send(message)
	if err != nil {
		log.Printf("Error sending email to %s: %v", toEmail, err)
		return err
	}

	if response.StatusCode >= 400 {
		log.Printf("SendGrid API Error: Status Code %d, Body: %s", response.StatusCode, response.Body)
		return fmt.Errorf("failed to send email, status code: %d", response.StatusCode)
	}

	log.Printf("Email sent to %s. Status Code: %d", toEmail, response.StatusCode)
	return nil
}
