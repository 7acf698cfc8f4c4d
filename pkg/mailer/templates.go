package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// PasswordResetSubject is the subject line of reset emails.
const PasswordResetSubject = "Password Reset Request - Store Rating Platform"

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f9f9f9; }
    .content { background-color: white; padding: 30px; border-radius: 8px; }
    .button { display: inline-block; padding: 12px 24px; background-color: #007bff; color: white; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    .footer { margin-top: 20px; font-size: 12px; color: #666; text-align: center; }
  </style>
</head>
<body>
  <div class="container">
    <div class="content">
      <h2>Password Reset Request</h2>
      <p>Hi {{.Name}},</p>
      <p>You requested to reset your password for your Store Rating Platform account.</p>
      <p>Click the button below to reset your password:</p>
      <a href="{{.Link}}" class="button">Reset Password</a>
      <p>Or copy and paste this link in your browser:</p>
      <p style="word-break: break-all; color: #007bff;">{{.Link}}</p>
      <p><strong>This link will expire in {{.Expiry}}.</strong></p>
      <p>If you didn't request this, please ignore this email. Your password will remain unchanged.</p>
      <p>Thanks,<br>Store Rating Platform Team</p>
    </div>
    <div class="footer">
      <p>This is an automated email. Please do not reply.</p>
    </div>
  </div>
</body>
</html>
`))

// ResetLink builds the frontend URL that accepts token.
func ResetLink(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password/" + token
}

// PasswordResetEmail renders the reset email for the given recipient.
func PasswordResetEmail(to, name, link, expiry string) (Message, error) {
	var buf bytes.Buffer
	err := passwordResetTmpl.Execute(&buf, struct {
		Name   string
		Link   string
		Expiry string
	}{Name: name, Link: link, Expiry: expiry})
	if err != nil {
		return Message{}, fmt.Errorf("failed to render password reset email: %w", err)
	}
	return Message{To: to, Subject: PasswordResetSubject, HTML: buf.String()}, nil
}
