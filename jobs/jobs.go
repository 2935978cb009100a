package jobs

import (
	"MediCare/models"
	"MediCare/notification"
	"MediCare/services"
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	DailySchedule   = "5 0 * * *"
	OverdueSchedule = "0 * * * *"
	jobTimeout      = 5 * time.Minute
)

var (
	listTodaysAppointments = services.ListTodaysAppointments
	listOverdueTests       = services.ListOverdueTests
	sendReminder           = notification.SendAppointmentReminder
)

// StartDailyScheduler registers the jobs and starts the cron runner. Callers stop it on shutdown.
func StartDailyScheduler() (*cron.Cron, error) {
	c := cron.New()

	// Runs every day at 00:05 AM
	if _, err := c.AddFunc(DailySchedule, func() {
		log.Info().Msg("running daily appointment reminders")
		RunTodayScheduler()
	}); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(OverdueSchedule, func() {
		RunOverdueTestsCheck()
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

/*
* Load today's appointments with patient details
* Remind every patient whose visit is still scheduled or confirmed
 */
func RunTodayScheduler() int {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	appts, err := listTodaysAppointments(ctx)
	if err != nil {
		log.Error().Err(err).Msg("unable to load today's appointments")
		return 0
	}
	sent := 0
	for _, appt := range appts {
		if appt.Status != models.AppointmentScheduled && appt.Status != models.AppointmentConfirmed {
			continue
		}
		if appt.PatientDetails == nil || appt.PatientDetails.Email == "" {
			log.Warn().Str("appointment", appt.ID.Hex()).Msg("appointment has no patient email, skipping reminder")
			continue
		}
		doctorName := ""
		if appt.DoctorDetails != nil {
			doctorName = appt.DoctorDetails.Name
		}
		sendReminder(*appt.PatientDetails, appt, doctorName)
		sent++
	}
	log.Info().Int("reminders", sent).Int("appointments", len(appts)).Msg("daily reminders queued")
	return sent
}

// RunOverdueTestsCheck logs every scheduled test whose date has passed.
func RunOverdueTestsCheck() int {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	tests, err := listOverdueTests(ctx)
	if err != nil {
		log.Error().Err(err).Msg("unable to load overdue tests")
		return 0
	}
	for _, t := range tests {
		log.Warn().
			Str("test", t.ID.Hex()).
			Str("name", t.TestName).
			Time("scheduledDate", t.ScheduledDate).
			Msg("test is overdue")
	}
	return len(tests)
}
