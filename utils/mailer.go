package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"lms/config"
)

// Mailer sends HTML mail. One production backend (SMTP); the console
// backend stands in for dev and tests.
type Mailer interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPMailer delivers through the configured SMTP relay
type SMTPMailer struct {
	cfg *config.Config
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) Send(to []string, subject, htmlBody string) error {
	cfg := m.cfg

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: %s <%s>\r\n", cfg.SMTPFromName, cfg.SMTPFromEmail)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	addr := cfg.SMTPHost + ":" + cfg.SMTPPort

	if err := smtp.SendMail(addr, auth, cfg.SMTPFromEmail, to, []byte(msg)); err != nil {
		log.Printf("Error sending email to %v: %v", to, err)
		return err
	}
	return nil
}

// ConsoleMailer logs mail instead of sending it
type ConsoleMailer struct{}

func (ConsoleMailer) Send(to []string, subject, _ string) error {
	log.Printf("mail to=%v subject=%q", to, subject)
	return nil
}

// HTML wrapper shared by all notification mails
func emailTemplate(title, bodyContent string) string {
	return fmt.Sprintf(`
	<html>
		<body style="font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px;">
			<div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 8px; padding: 30px;">
				<h2 style="color: #333333; text-align: center;">%s</h2>
				%s
				<p style="text-align: center; font-size: 12px; color: #bbbbbb; margin-top: 30px;">This is an automated message.</p>
			</div>
		</body>
	</html>
	`, title, bodyContent)
}

// SendContactNotification mails the admin inbox about a new contact message
func SendContactNotification(m Mailer, adminEmail, name, email, subject, message string) {
	body := fmt.Sprintf(`
		<p><strong>From:</strong> %s (%s)</p>
		<p><strong>Subject:</strong> %s</p>
		<p>%s</p>
	`, name, email, subject, message)

	go func() {
		if err := m.Send([]string{adminEmail}, "New contact message", emailTemplate("New Contact Message", body)); err != nil {
			log.Printf("contact notification mail failed: %v", err)
		}
	}()
}

// SendContactConfirmation mails the visitor a receipt of their message
func SendContactConfirmation(m Mailer, email, name string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Thank you for reaching out. We have received your message and will get back to you shortly.</p>
	`, name)

	go func() {
		if err := m.Send([]string{email}, "We received your message", emailTemplate("Message Received", body)); err != nil {
			log.Printf("contact confirmation mail failed: %v", err)
		}
	}()
}

// SendEnrollmentEmail notifies a student that their enrollment is active
func SendEnrollmentEmail(m Mailer, email, studentName, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You have successfully enrolled in:</p>
		<h3 style="text-align: center; color: #4CAF50;">%s</h3>
		<p>You can now access the course content. Complete all modules to earn your certificate.</p>
	`, studentName, courseTitle)

	go func() {
		if err := m.Send([]string{email}, "Course Enrollment Confirmation", emailTemplate("Enrollment Successful", body)); err != nil {
			log.Printf("enrollment mail failed: %v", err)
		}
	}()
}

// SendCertificateEmail notifies a student that their certificate was issued
func SendCertificateEmail(m Mailer, email, studentName, courseTitle, certificateNumber string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations on completing:</p>
		<h3 style="text-align: center; color: #4CAF50;">%s</h3>
		<p>Your certificate number: <strong>%s</strong></p>
		<p>You can use this number and the verification link for verification purposes.</p>
	`, studentName, courseTitle, certificateNumber)

	go func() {
		if err := m.Send([]string{email}, "Course Completion Certificate", emailTemplate("Certificate of Completion", body)); err != nil {
			log.Printf("certificate mail failed: %v", err)
		}
	}()
}
