package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/ayushmansingh2512/AI-intervewer/internal/proctor"
)

type EmailService struct {
	host        string
	port        string
	user        string
	pass        string
	from        string
	frontendURL string
	devMode     bool
}

func NewEmailService(host, port, user, pass, from, frontendURL string) *EmailService {
	devMode := host == "" || user == ""
	if devMode {
		log.Println("⚠ Email service running in DEV MODE (logging to console)")
	}
	return &EmailService{
		host:        host,
		port:        port,
		user:        user,
		pass:        pass,
		from:        from,
		frontendURL: frontendURL,
		devMode:     devMode,
	}
}

func (s *EmailService) SendInterviewInvite(to, companyName, interviewID string) error {
	interviewLink := fmt.Sprintf("%s/interview/%s", s.frontendURL, interviewID)

	subject := fmt.Sprintf("Invitation to Interview with %s", companyName)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); overflow: hidden;">
    <div style="background: #1a1817; padding: 32px; text-align: center;">
      <h1 style="color: white; margin: 0; font-size: 24px; font-weight: 700;">%s</h1>
      <p style="color: rgba(255,255,255,0.85); margin: 8px 0 0; font-size: 14px;">Interview Invitation</p>
    </div>
    <div style="padding: 32px;">
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        You have been invited to an interview with %s. Click the button below when you are ready to start.
      </p>
      <a href="%s" style="display: inline-block; background: #1a1817; color: white; text-decoration: none; padding: 12px 32px; border-radius: 8px; font-weight: 600; font-size: 14px;">
        Start Interview
      </a>
      <p style="color: #94a3b8; font-size: 12px; margin: 24px 0 0; line-height: 1.5;">
        If the button doesn't work, copy and paste this link:<br>
        <a href="%s" style="color: #1a1817;">%s</a>
      </p>
    </div>
  </div>
</body>
</html>`, companyName, companyName, interviewLink, interviewLink, interviewLink)

	return s.sendHTML(to, subject, body)
}

func (s *EmailService) SendOTPEmail(to, code string) error {
	subject := "Your verification code"
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif; margin: 0; padding: 0; background-color: #f8fafc;">
  <div style="max-width: 480px; margin: 40px auto; background: white; border-radius: 12px; box-shadow: 0 4px 24px rgba(0,0,0,0.08); overflow: hidden;">
    <div style="padding: 32px;">
      <h2 style="margin: 0 0 16px; font-size: 20px; color: #1e293b;">Verify Your Email</h2>
      <p style="color: #64748b; font-size: 14px; line-height: 1.6; margin: 0 0 24px;">
        Enter this code to verify your account:
      </p>
      <p style="font-size: 32px; font-weight: 700; letter-spacing: 8px; color: #1a1817; margin: 0;">%s</p>
      <p style="color: #94a3b8; font-size: 12px; margin: 24px 0 0;">
        This code expires in 10 minutes.
      </p>
    </div>
  </div>
</body>
</html>`, code)

	return s.sendHTML(to, subject, body)
}

// SendAlert implements proctor.Sink. The screenshot, when present, is
// attached as a JPEG so the reviewer sees what the camera saw when the
// condition tripped.
func (s *EmailService) SendAlert(ctx context.Context, alert proctor.Alert) error {
	subject := fmt.Sprintf("Suspicious Activity Detected During Interview %s", alert.SessionKey)
	body := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family: 'Segoe UI', Arial, sans-serif;">
  <p>Suspicious activity was detected during the interview for candidate <strong>%s</strong> (Interview ID: <strong>%s</strong>).</p>
  <p>Reason: <strong>%s</strong></p>
  <p>Please review the interview recording if available.</p>
</body>
</html>`, alert.Candidate, alert.SessionKey, alert.Reason)

	done := make(chan error, 1)
	go func() {
		if len(alert.Screenshot) > 0 {
			done <- s.sendHTMLWithAttachment(alert.Recipient, subject, body, "frame.jpg", alert.Screenshot)
			return
		}
		done <- s.sendHTML(alert.Recipient, subject, body)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		// The SMTP exchange finishes (or fails) on its own; the caller
		// only stops waiting for it.
		return ctx.Err()
	}
}

func (s *EmailService) sendHTML(to, subject, htmlBody string) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s", to, subject)
		return nil
	}

	headers := []string{
		fmt.Sprintf("From: %s", s.from),
		fmt.Sprintf("To: %s", to),
		fmt.Sprintf("Subject: %s", subject),
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=UTF-8",
	}

	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	return s.send(to, []byte(message))
}

func (s *EmailService) sendHTMLWithAttachment(to, subject, htmlBody, filename string, attachment []byte) error {
	if s.devMode {
		log.Printf("📧 [DEV EMAIL] To: %s | Subject: %s | Attachment: %s (%d bytes)", to, subject, filename, len(attachment))
		return nil
	}

	boundary := "interview-alert-boundary"

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", s.from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	buf.WriteString(htmlBody)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	buf.WriteString("Content-Type: image/jpeg\r\n")
	buf.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&buf, "Content-Disposition: attachment; filename=%q\r\n\r\n", filename)

	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > 76 {
		buf.WriteString(encoded[:76])
		buf.WriteString("\r\n")
		encoded = encoded[76:]
	}
	buf.WriteString(encoded)
	buf.WriteString("\r\n")

	fmt.Fprintf(&buf, "--%s--\r\n", boundary)

	return s.send(to, buf.Bytes())
}

func (s *EmailService) send(to string, message []byte) error {
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	if err := smtp.SendMail(addr, auth, s.from, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}

	log.Printf("📧 Email sent to %s", to)
	return nil
}
