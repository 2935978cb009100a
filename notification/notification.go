package notification

import (
	"MediCare/models"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const sendTimeout = 30 * time.Second

var (
	mu      sync.RWMutex
	sender  EmailSender = LogSender{}
	pending sync.WaitGroup
)

func SetSender(s EmailSender) {
	mu.Lock()
	defer mu.Unlock()
	if s == nil {
		s = LogSender{}
	}
	sender = s
}

func current() EmailSender {
	mu.RLock()
	defer mu.RUnlock()
	return sender
}

/*
* Render and send in the background
* Failures are logged and never reach the caller
 */
func Dispatch(templateName, to string, data interface{}) {
	if to == "" {
		log.Warn().Str("template", templateName).Msg("no recipient, notification skipped")
		return
	}
	s := current()
	pending.Add(1)
	go func() {
		defer pending.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("template", templateName).Msg("notification panicked")
			}
		}()

		subject, body, err := Render(templateName, data)
		if err != nil {
			log.Error().Err(err).Str("template", templateName).Msg("unable to render notification")
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := s.SendEmail(ctx, to, subject, body); err != nil {
			log.Error().Err(err).Str("template", templateName).Str("to", to).Msg("unable to send notification")
			return
		}
		log.Info().Str("template", templateName).Str("to", to).Msg("notification sent")
	}()
}

// Wait blocks until every dispatched notification has finished.
func Wait() {
	pending.Wait()
}

func SendWelcome(user models.User) {
	Dispatch(WelcomeTemplate, user.Email, map[string]string{
		"Name":  user.Name,
		"Email": user.Email,
		"Role":  user.Role,
	})
}

func SendAppointmentConfirmation(patient models.Patient, appt models.Appointment, doctorName string) {
	if doctorName == "" {
		doctorName = "To be assigned"
	}
	Dispatch(AppointmentConfirmationTemplate, patient.Email, map[string]string{
		"PatientName": patient.Name,
		"Date":        appt.AppointmentDate.Format("02/01/2006"),
		"Time":        appt.AppointmentTime,
		"DoctorName":  doctorName,
		"Reason":      appt.Reason,
	})
}

func SendAppointmentReminder(patient models.PatientSummary, appt models.Appointment, doctorName string) {
	if doctorName == "" {
		doctorName = "our team"
	}
	Dispatch(AppointmentReminderTemplate, patient.Email, map[string]string{
		"PatientName": patient.Name,
		"Time":        appt.AppointmentTime,
		"DoctorName":  doctorName,
	})
}

func SendTestResults(patient models.Patient, test models.Test) {
	Dispatch(TestResultsTemplate, patient.Email, map[string]string{
		"PatientName": patient.Name,
		"TestName":    test.TestName,
		"TestType":    test.TestType,
		"Results":     test.Results,
	})
}

func SendPasswordReset(user models.User, token string) {
	Dispatch(PasswordResetTemplate, user.Email, map[string]string{
		"Name":  user.Name,
		"Token": token,
	})
}
