package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendHelpRequestAlert(toEmail, question string, requestId uint) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

func (s *emailService) SendHelpRequestAlert(toEmail, question string, requestId uint) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Help request #%d needs an answer", requestId))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>A caller asked something the assistant couldn't answer</h2>
			<p><strong>Question:</strong></p>
			<blockquote style="border-left: 4px solid #007BFF; padding-left: 10px;">%s</blockquote>
			<p>Open the supervisor panel to respond. Your answer is sent back to the caller's thread and added to the knowledge base.</p>
		</div>
	`, question)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send help request alert to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Help request alert sent to %s\n", toEmail)
	return nil
}
