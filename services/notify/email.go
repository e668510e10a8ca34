package notify

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"

	"quizgate/models"
	"quizgate/services/quiz"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"gorm.io/gorm"
)

// Email is a rendered message ready to hand to a mail provider.
type Email struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
	Text    string
}

// CertificateEmail renders the notice sent when a learner earns a certificate.
func CertificateEmail(user models.User, course models.Course, notice quiz.CertificateNotice) Email {
	subject := "Certificate Earned: " + course.Title
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Congratulations! You passed the quiz for <strong>%s</strong> with a score of <strong>%d%%</strong>.</p>
		<div class="info-box">
			<strong>Certificate number:</strong> %s
		</div>
		<p>Your certificate is now available from your dashboard.</p>
	`, html.EscapeString(user.Name), html.EscapeString(course.Title), notice.Percentage, html.EscapeString(notice.CertificateNumber))

	text := fmt.Sprintf("Dear %s,\n\nYou passed the quiz for %s with a score of %d%%.\nCertificate number: %s\n",
		user.Name, course.Title, notice.Percentage, notice.CertificateNumber)

	return Email{
		ToName:  user.Name,
		ToEmail: user.Email,
		Subject: subject,
		HTML:    emailTemplate("Certificate Earned", body),
		Text:    text,
	}
}

func emailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1F3A5F; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F3A5F; line-height: 1.6; }
			.content h2 { margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #3C8DBC; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>COURSE CERTIFICATES</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				You are receiving this email because you completed a course quiz.
			</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, email Email) error
}

// SendGridSender sends through the SendGrid v3 API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromName  string
	fromEmail string
}

func NewSendGridSender(apiKey, fromEmail string) *SendGridSender {
	return &SendGridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromName:  "Course Certificates",
		fromEmail: fromEmail,
	}
}

func (s *SendGridSender) Send(ctx context.Context, email Email) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(email.ToName, email.ToEmail)
	message := mail.NewSingleEmail(from, email.Subject, to, email.Text, email.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogSender writes emails to the log instead of sending them.
type LogSender struct{}

func (LogSender) Send(_ context.Context, email Email) error {
	log.Printf("[NOTIFY] email to=%s subject=%q", email.ToEmail, email.Subject)
	return nil
}

// CertificateNotifier looks up the learner and course for a certificate notice
// and emails the learner.
type CertificateNotifier struct {
	DB     *gorm.DB
	Sender Sender
}

func (n CertificateNotifier) CertificateEarned(ctx context.Context, notice quiz.CertificateNotice) error {
	var user models.User
	if err := n.DB.WithContext(ctx).First(&user, notice.UserID).Error; err != nil {
		return fmt.Errorf("load user %d: %w", notice.UserID, err)
	}
	var course models.Course
	if err := n.DB.WithContext(ctx).First(&course, notice.CourseID).Error; err != nil {
		return fmt.Errorf("load course %d: %w", notice.CourseID, err)
	}
	if user.Email == "" {
		return errors.New("user has no email address")
	}
	return n.Sender.Send(ctx, CertificateEmail(user, course, notice))
}
