package email

import (
	"fmt"
	"html/template"
	"strings"
)

const appName = "Ease Up"

type templateData struct {
	Name    string
	AppName string
	LinkURL string
}

var (
	verificationTmpl = template.Must(template.New("verification").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background-color: #ffffff;">
  <div style="background: linear-gradient(135deg, #3B82F6 0%, #1D4ED8 100%); padding: 40px 20px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 600;">Welcome to {{.AppName}}!</h1>
    <p style="color: #E0E7FF; margin: 10px 0 0 0; font-size: 16px;">Please verify your email address</p>
  </div>
  <div style="padding: 40px 30px; background-color: #ffffff;">
    <h2 style="color: #1F2937; margin: 0 0 20px 0; font-size: 24px;">Hi {{.Name}}!</h2>
    <p style="color: #374151; line-height: 1.6; margin-bottom: 20px; font-size: 16px;">
      Thank you for signing up for {{.AppName}}! To complete your registration and start using our service,
      please verify your email address by clicking the button below.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.LinkURL}}"
         style="display: inline-block; background: linear-gradient(135deg, #3B82F6 0%, #1D4ED8 100%);
                color: #ffffff; text-decoration: none; padding: 16px 32px; border-radius: 8px;
                font-weight: 600; font-size: 16px;">
        Verify Email Address
      </a>
    </div>
    <p style="color: #6B7280; line-height: 1.6; margin: 20px 0; font-size: 14px;">
      If the button doesn't work, you can also copy and paste this link into your browser:
    </p>
    <div style="background: #F3F4F6; padding: 15px; border-radius: 6px; word-break: break-all; margin: 20px 0;">
      <p style="color: #374151; margin: 0; font-size: 14px; font-family: monospace;">{{.LinkURL}}</p>
    </div>
    <div style="background: #FEF3C7; border: 1px solid #F59E0B; border-radius: 6px; padding: 15px; margin: 20px 0;">
      <p style="color: #92400E; margin: 0; font-size: 14px;">
        <strong>Security Note:</strong> This verification link will expire in 48 hours.
        If you didn't create an account with {{.AppName}}, you can safely ignore this email.
      </p>
    </div>
  </div>
  <div style="background: #F9FAFB; padding: 30px; text-align: center; border-radius: 0 0 8px 8px; border-top: 1px solid #E5E7EB;">
    <p style="color: #6B7280; margin: 0 0 10px 0; font-size: 14px;">
      Need help? Contact us at
      <a href="mailto:support@ease-up.app" style="color: #3B82F6; text-decoration: none;">support@ease-up.app</a>
    </p>
  </div>
</div>`))

	magicLinkTmpl = template.Must(template.New("magic_link").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background-color: #ffffff;">
  <div style="background: linear-gradient(135deg, #10B981 0%, #059669 100%); padding: 40px 20px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 600;">Your {{.AppName}} Login Link</h1>
    <p style="color: #D1FAE5; margin: 10px 0 0 0; font-size: 16px;">Click to sign in securely</p>
  </div>
  <div style="padding: 40px 30px; background-color: #ffffff;">
    <h2 style="color: #1F2937; margin: 0 0 20px 0; font-size: 24px;">Hi {{.Name}}!</h2>
    <p style="color: #374151; line-height: 1.6; margin-bottom: 20px; font-size: 16px;">
      You requested a magic link to sign in to your {{.AppName}} account. Click the button below to
      access your account securely without a password.
    </p>
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.LinkURL}}"
         style="display: inline-block; background: linear-gradient(135deg, #10B981 0%, #059669 100%);
                color: #ffffff; text-decoration: none; padding: 16px 32px; border-radius: 8px;
                font-weight: 600; font-size: 16px;">
        Sign In to {{.AppName}}
      </a>
    </div>
    <p style="color: #6B7280; line-height: 1.6; margin: 20px 0; font-size: 14px;">
      If the button doesn't work, you can also copy and paste this link into your browser:
    </p>
    <div style="background: #F3F4F6; padding: 15px; border-radius: 6px; word-break: break-all; margin: 20px 0;">
      <p style="color: #374151; margin: 0; font-size: 14px; font-family: monospace;">{{.LinkURL}}</p>
    </div>
    <div style="background: #FEF3C7; border: 1px solid #F59E0B; border-radius: 6px; padding: 15px; margin: 20px 0;">
      <p style="color: #92400E; margin: 0; font-size: 14px;">
        <strong>Security Note:</strong> This magic link will expire in 24 hours and can only be used once.
        If you didn't request this login link, you can safely ignore this email.
      </p>
    </div>
  </div>
  <div style="background: #F9FAFB; padding: 30px; text-align: center; border-radius: 0 0 8px 8px; border-top: 1px solid #E5E7EB;">
    <p style="color: #6B7280; margin: 0 0 10px 0; font-size: 14px;">
      Need help? Contact us at
      <a href="mailto:support@ease-up.app" style="color: #3B82F6; text-decoration: none;">support@ease-up.app</a>
    </p>
  </div>
</div>`))

	verifiedTmpl = template.Must(template.New("verified").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background-color: #ffffff;">
  <div style="background: linear-gradient(135deg, #10B981 0%, #059669 100%); padding: 40px 20px; text-align: center; border-radius: 8px 8px 0 0;">
    <h1 style="color: #ffffff; margin: 0; font-size: 28px; font-weight: 600;">Email Verified! 🎉</h1>
    <p style="color: #D1FAE5; margin: 10px 0 0 0; font-size: 16px;">Welcome to {{.AppName}}</p>
  </div>
  <div style="padding: 40px 30px; background-color: #ffffff;">
    <h2 style="color: #1F2937; margin: 0 0 20px 0; font-size: 24px;">Hi {{.Name}}!</h2>
    <p style="color: #374151; line-height: 1.6; margin-bottom: 20px; font-size: 16px;">
      Great news! Your email address has been successfully verified. You now have full access to all
      {{.AppName}} features and can start using our service.
    </p>
  </div>
  <div style="background: #F9FAFB; padding: 30px; text-align: center; border-radius: 0 0 8px 8px; border-top: 1px solid #E5E7EB;">
    <p style="color: #6B7280; margin: 0 0 10px 0; font-size: 14px;">
      Need help getting started? Contact us at
      <a href="mailto:support@ease-up.app" style="color: #3B82F6; text-decoration: none;">support@ease-up.app</a>
    </p>
  </div>
</div>`))
)

func render(tmpl *template.Template, data templateData) (string, error) {
	if data.Name == "" {
		data.Name = "User"
	}
	data.AppName = appName

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s template: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

// VerificationEmail renders the branded verify-your-address email.
func VerificationEmail(name, verifyURL string) (subject, html string, err error) {
	html, err = render(verificationTmpl, templateData{Name: name, LinkURL: verifyURL})
	return "Verify your email address - " + appName, html, err
}

// MagicLinkEmail renders the passwordless sign-in email.
func MagicLinkEmail(name, magicLinkURL string) (subject, html string, err error) {
	html, err = render(magicLinkTmpl, templateData{Name: name, LinkURL: magicLinkURL})
	return "Your sign-in link - " + appName, html, err
}

// VerificationSuccessEmail renders the post-verification welcome email.
func VerificationSuccessEmail(name string) (subject, html string, err error) {
	html, err = render(verifiedTmpl, templateData{Name: name})
	return "Welcome to " + appName + " - Email verified", html, err
}
