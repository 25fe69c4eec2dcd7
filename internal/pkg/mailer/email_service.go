package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendQuestionnaire(subject, pdfPath string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	recipient   string
}

func NewEmailService(host string, port int, username, password, senderName, recipient string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
		recipient:   recipient,
	}
}

// SendQuestionnaire mails a completed questionnaire PDF to the configured
// recipient. The recipient is fixed at startup; per-chat routing is not a
// thing here, every completed form goes to the same inbox.
func (s *emailService) SendQuestionnaire(subject, pdfPath string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipient)
	m.SetHeader("Subject", subject)

	body := `
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Completed Questionnaire</h2>
			<p>Attached is a completed product development questionnaire.</p>
			<p>This email was automatically generated by the PDQ Assistant.</p>
		</div>
	`

	m.SetBody("text/html", body)
	m.Attach(pdfPath)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send questionnaire to %s: %v\n", s.recipient, err)
		return err
	}

	fmt.Printf("[MAILER] Questionnaire sent to %s\n", s.recipient)
	return nil
}
