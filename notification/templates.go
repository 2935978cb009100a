package notification

import (
	"bytes"
	"fmt"
	"html/template"
)

const (
	WelcomeTemplate                 = "welcome"
	AppointmentConfirmationTemplate = "appointment-confirmation"
	AppointmentReminderTemplate     = "appointment-reminder"
	TestResultsTemplate             = "test-results"
	PasswordResetTemplate           = "password-reset"
)

const layout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
<div style="max-width: 600px; margin: 0 auto; padding: 20px;">
<div style="background: #2563eb; color: white; padding: 20px; text-align: center;"><h1>MediCare Hospital</h1></div>
<div style="background: #f8fafc; padding: 20px; border-radius: 5px; margin: 20px 0;">
{{template "content" .}}
</div>
<p style="text-align: center; color: #666; font-size: 14px;">MediCare Hospital Team</p>
</div>
</body>
</html>`

var contents = map[string]struct {
	subject string
	body    string
}{
	WelcomeTemplate: {
		subject: "Welcome to MediCare Hospital",
		body: `<h2>Hello {{.Name}},</h2>
<p>Your account has been successfully created.</p>
<p><strong>Email:</strong> {{.Email}}<br><strong>Role:</strong> {{.Role}}</p>
<p>You can now login to book appointments, view reports and check test results.</p>`,
	},
	AppointmentConfirmationTemplate: {
		subject: "Appointment Confirmation",
		body: `<h2>Dear {{.PatientName}},</h2>
<p>Your appointment has been scheduled.</p>
<p><strong>Date:</strong> {{.Date}}<br><strong>Time:</strong> {{.Time}}<br><strong>Doctor:</strong> {{.DoctorName}}<br><strong>Reason:</strong> {{.Reason}}</p>
<p>Please arrive 15 minutes early.</p>`,
	},
	AppointmentReminderTemplate: {
		subject: "Appointment Reminder",
		body: `<h2>Dear {{.PatientName}},</h2>
<p>This is a reminder of your appointment today at {{.Time}} with {{.DoctorName}}.</p>`,
	},
	TestResultsTemplate: {
		subject: "Your Test Results Are Ready",
		body: `<h2>Dear {{.PatientName}},</h2>
<p>The results of your {{.TestName}} ({{.TestType}}) are now available.</p>
<p><strong>Results:</strong> {{.Results}}</p>
<p>Please log in or contact the hospital to discuss them with your doctor.</p>`,
	},
	PasswordResetTemplate: {
		subject: "Password Reset Request",
		body: `<h2>Hello {{.Name}},</h2>
<p>Use the following token to reset your password. It is valid for 10 minutes.</p>
<p><strong>{{.Token}}</strong></p>
<p>If you did not request this, ignore this email.</p>`,
	},
}

var templates = parseTemplates()

func parseTemplates() map[string]*template.Template {
	out := make(map[string]*template.Template, len(contents))
	for name, c := range contents {
		t := template.Must(template.New(name).Parse(layout))
		template.Must(t.New("content").Parse(c.body))
		out[name] = t
	}
	return out
}

// Render returns the subject and html body for a named template.
func Render(name string, data interface{}) (string, string, error) {
	t, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", "", err
	}
	return contents[name].subject, buf.String(), nil
}
