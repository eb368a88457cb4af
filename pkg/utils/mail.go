package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/goboardhq/goboard/pkg/logger"
	"gopkg.in/gomail.v2"
)

// EmailConfig holds SMTP and app settings, passed in from app config.
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	AppURL       string
	FromEmail    string
}

// SendPasswordResetEmail sends a reset link valid for one hour. Delivery is
// fire-and-forget from the caller's perspective: failures are logged, not fatal.
func SendPasswordResetEmail(ctx context.Context, config EmailConfig, email, username, token string, log *logger.Logger) error {
	resetLink := fmt.Sprintf("%s/auth/reset-password?token=%s", config.AppURL, token)

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Reset Your GoBoard Password</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 40px auto;">
        <h1 style="color: #1a73e8;">GoBoard</h1>
        <p>Hello %s,</p>
        <p>We received a request to reset the password for your GoBoard account.
        Click the button below to choose a new password.</p>
        <p style="text-align: center;">
            <a href="%s" style="display: inline-block; padding: 12px 24px; background-color: #1a73e8; color: #ffffff; text-decoration: none; border-radius: 5px; font-weight: bold;">Reset Password</a>
        </p>
        <p>This link expires in 1 hour and can be used only once.</p>
        <p>If you didn't request a reset, you can safely ignore this email.</p>
        <p>The GoBoard Team</p>
        <p style="font-size: 12px; color: #777;">&copy; %d GoBoard. All rights reserved.</p>
    </div>
</body>
</html>
`, username, resetLink, time.Now().Year())

	// Plain text fallback
	textBody := fmt.Sprintf(`
Hello %s,

We received a request to reset the password for your GoBoard account.

Reset it here: %s

This link expires in 1 hour and can be used only once.
If you didn't request a reset, ignore this email.

The GoBoard Team
`, username, resetLink)

	msg := gomail.NewMessage()
	msg.SetHeader("From", config.FromEmail)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Reset Your GoBoard Password")
	msg.SetBody("text/plain", textBody)
	msg.AddAlternative("text/html", htmlBody)

	dialer := gomail.NewDialer(config.SMTPHost, config.SMTPPort, config.SMTPUsername, config.SMTPPassword)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Warn(ctx).WithFields("email", email).Logs(fmt.Sprintf("Failed to send password reset email: %v", err))
		return WrapError(err, ErrInternalServerError.Code, "Failed to send password reset email")
	}

	log.Info(ctx).WithFields("email", email).Logs(fmt.Sprintf("Password reset email sent to: %s", email))
	return nil
}
