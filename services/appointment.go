package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/notification"
	"MediCare/role"
	"MediCare/util"
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

var appointmentFields = map[string]fieldKind{
	"patient":         objectIDField,
	"doctor":          objectIDField,
	"appointmentDate": dateField,
	"appointmentTime": stringField,
	"reason":          stringField,
	"type":            stringField,
	"duration":        intField,
	"status":          stringField,
	"notes":           stringField,
}

type AppointmentFilter struct {
	Status  string
	Date    string
	Doctor  string
	Patient string
}

func appointmentKey(id primitive.ObjectID) string {
	return util.AppointmentKey + id.Hex()
}

func validateAppointmentSet(set bson.M) error {
	if t, ok := set["appointmentTime"].(string); ok && !common.ValidTime(t) {
		return util.NewValidationError(util.INVALID_TIME)
	}
	if d, ok := set["duration"].(int); ok && d <= 0 {
		return util.NewValidationError(util.INVALID_DURATION)
	}
	if err := enumField(set, "type", models.AppointmentTypes, util.INVALID_TYPE); err != nil {
		return err
	}
	return enumField(set, "status", models.AppointmentStatuses, util.INVALID_STATUS)
}

// findClinician returns the staff member behind a doctor reference.
func findClinician(ctx context.Context, id primitive.ObjectID) (*models.Staff, error) {
	staff, err := findByID[models.Staff](ctx, util.StaffCollection, id, util.DOCTOR_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	if !role.IsClinical(staff.Role) {
		log.Warn().Str("staff", id.Hex()).Str("role", staff.Role).Msg("appointment doctor is not clinical staff")
		return nil, util.NewNotFoundError(util.DOCTOR_NOT_FOUND)
	}
	return staff, nil
}

/*
* A slot is held by any scheduled or confirmed appointment
* on the same doctor, day and time
 */
func slotTaken(ctx context.Context, doctor primitive.ObjectID, date time.Time, at string) (bool, error) {
	filter := bson.M{
		"doctor":          doctor,
		"appointmentDate": common.DayFilter(date),
		"appointmentTime": at,
		"status":          bson.M{"$in": models.ActiveAppointmentStatuses},
	}
	existing := &models.Appointment{}
	err := db.FindOne(ctx, db.OpenCollections(util.AppointmentCollection), filter, existing)
	if db.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, internalError("unable to check appointment slot", err)
	}
	return true, nil
}

/*
* Validate the patient and the doctor
* Check the slot right before the insert
* The unique slot index turns a lost race into the same conflict
 */
func CreateAppointment(ctx context.Context, data map[string]interface{}, requester *primitive.ObjectID) (*models.Appointment, error) {
	if err := common.RequireFields(data, "patient", "appointmentDate", "appointmentTime", "reason"); err != nil {
		return nil, err
	}
	set, err := buildPatch(data, appointmentFields)
	if err != nil {
		return nil, err
	}
	if err := validateAppointmentSet(set); err != nil {
		return nil, err
	}
	patientID, ok := set["patient"].(primitive.ObjectID)
	if !ok {
		return nil, util.NewValidationError(util.INVALID_ID_FORMAT)
	}
	patient, err := getPatientByID(ctx, patientID)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	appt := &models.Appointment{
		ID:        primitive.NewObjectID(),
		Patient:   patientID,
		Type:      "consultation",
		Duration:  models.DefaultAppointmentDuration,
		Status:    models.AppointmentScheduled,
		User:      requester,
		CreatedBy: requester,
		CreatedAt: now,
		UpdatedAt: now,
	}
	appt.AppointmentDate, _ = set["appointmentDate"].(time.Time)
	appt.AppointmentTime, _ = set["appointmentTime"].(string)
	appt.Reason, _ = set["reason"].(string)
	appt.Notes, _ = set["notes"].(string)
	if t, ok := set["type"].(string); ok && t != "" {
		appt.Type = t
	}
	if d, ok := set["duration"].(int); ok {
		appt.Duration = d
	}

	var doctor *models.Staff
	if doctorID, ok := set["doctor"].(primitive.ObjectID); ok {
		doctor, err = findClinician(ctx, doctorID)
		if err != nil {
			return nil, err
		}
		appt.Doctor = idPtr(doctorID)
		taken, err := slotTaken(ctx, doctorID, appt.AppointmentDate, appt.AppointmentTime)
		if err != nil {
			return nil, err
		}
		if taken {
			log.Info().Str("doctor", doctorID.Hex()).Str("time", appt.AppointmentTime).Msg("slot already booked")
			return nil, util.NewSlotConflictError(util.SLOT_ALREADY_BOOKED)
		}
	}

	if _, err := db.CreateOne(ctx, db.OpenCollections(util.AppointmentCollection), appt); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, util.NewSlotConflictError(util.SLOT_ALREADY_BOOKED)
		}
		return nil, internalError("unable to insert appointment", err)
	}

	appt.PatientDetails = summarizePatient(patient)
	doctorName := ""
	if doctor != nil {
		appt.DoctorDetails = summarizeStaff(doctor)
		doctorName = doctor.Name
	}
	notification.SendAppointmentConfirmation(*patient, *appt, doctorName)
	return appt, nil
}

func summarizePatient(p *models.Patient) *models.PatientSummary {
	return &models.PatientSummary{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone}
}

func summarizeStaff(s *models.Staff) *models.StaffSummary {
	return &models.StaffSummary{
		ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role,
		Specialization: s.Specialization, Department: s.Department,
	}
}

/*
* Attach patient and doctor summaries
* One query per collection for the whole batch
 */
func populateAppointments(ctx context.Context, items []models.Appointment) error {
	if len(items) == 0 {
		return nil
	}
	patientIDs := bson.A{}
	doctorIDs := bson.A{}
	seen := map[primitive.ObjectID]bool{}
	for _, a := range items {
		if !seen[a.Patient] {
			seen[a.Patient] = true
			patientIDs = append(patientIDs, a.Patient)
		}
		if a.Doctor != nil && !seen[*a.Doctor] {
			seen[*a.Doctor] = true
			doctorIDs = append(doctorIDs, *a.Doctor)
		}
	}

	var patients []models.PatientSummary
	var doctors []models.StaffSummary
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	g.Go(func() error {
		var err error
		patients, err = db.FindAll[models.PatientSummary](gctx, db.OpenCollections(util.PatientCollection),
			bson.M{"_id": bson.M{"$in": patientIDs}},
			options.Find().SetProjection(bson.M{"name": 1, "email": 1, "phone": 1}))
		return err
	})
	if len(doctorIDs) > 0 {
		g.Go(func() error {
			var err error
			doctors, err = db.FindAll[models.StaffSummary](gctx, db.OpenCollections(util.StaffCollection),
				bson.M{"_id": bson.M{"$in": doctorIDs}},
				options.Find().SetProjection(bson.M{"name": 1, "email": 1, "role": 1, "specialization": 1, "department": 1}))
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return internalError("unable to populate appointments", err)
	}

	byPatient := make(map[primitive.ObjectID]*models.PatientSummary, len(patients))
	for i := range patients {
		byPatient[patients[i].ID] = &patients[i]
	}
	byDoctor := make(map[primitive.ObjectID]*models.StaffSummary, len(doctors))
	for i := range doctors {
		byDoctor[doctors[i].ID] = &doctors[i]
	}
	for i := range items {
		items[i].PatientDetails = byPatient[items[i].Patient]
		if items[i].Doctor != nil {
			items[i].DoctorDetails = byDoctor[*items[i].Doctor]
		}
	}
	return nil
}

/*
* Only the bare document is cached
* Patient and doctor details are always read fresh
 */
func GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	appt := &models.Appointment{}
	if !cacheGet(ctx, appointmentKey(oid), appt) {
		appt, err = findByID[models.Appointment](ctx, util.AppointmentCollection, oid, util.APPOINTMENT_NOT_FOUND)
		if err != nil {
			return nil, err
		}
		cacheSet(ctx, appointmentKey(oid), appt)
	}
	one := []models.Appointment{*appt}
	if err := populateAppointments(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

/*
* Status changes follow the appointment lifecycle
* The slot is not re-checked here, the unique index still guards it
 */
func UpdateAppointment(ctx context.Context, id string, data map[string]interface{}) (*models.Appointment, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	set, err := buildPatch(data, appointmentFields)
	if err != nil {
		return nil, err
	}
	if err := validateAppointmentSet(set); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	if v, ok := set["patient"]; ok && v == nil {
		delete(set, "patient")
	}

	current, err := findByID[models.Appointment](ctx, util.AppointmentCollection, oid, util.APPOINTMENT_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	if next, ok := set["status"].(string); ok && !models.CanTransitionAppointment(current.Status, next) {
		log.Warn().Str("from", current.Status).Str("to", next).Msg("rejected appointment status change")
		return nil, util.NewValidationError(util.INVALID_STATUS_CHANGE)
	}
	if doctorID, ok := set["doctor"].(primitive.ObjectID); ok {
		if _, err := findClinician(ctx, doctorID); err != nil {
			return nil, err
		}
	}

	set["updatedAt"] = timeNow()
	res, err := db.UpdateOne(ctx, db.OpenCollections(util.AppointmentCollection), bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, util.NewSlotConflictError(util.SLOT_ALREADY_BOOKED)
		}
		return nil, internalError("unable to update appointment", err)
	}
	if res.MatchedCount == 0 {
		return nil, util.NewNotFoundError(util.APPOINTMENT_NOT_FOUND)
	}
	cacheDelete(ctx, appointmentKey(oid))

	updated, err := findByID[models.Appointment](ctx, util.AppointmentCollection, oid, util.APPOINTMENT_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	one := []models.Appointment{*updated}
	if err := populateAppointments(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func DeleteAppointment(ctx context.Context, id string) error {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := db.DeleteOne(ctx, db.OpenCollections(util.AppointmentCollection), bson.M{"_id": oid})
	if err != nil {
		return internalError("unable to delete appointment", err)
	}
	if res.DeletedCount == 0 {
		return util.NewNotFoundError(util.APPOINTMENT_NOT_FOUND)
	}
	cacheDelete(ctx, appointmentKey(oid))
	return nil
}

func appointmentFilter(f AppointmentFilter) (bson.M, error) {
	filter := bson.M{}
	if f.Status != "" {
		if !common.Contains(models.AppointmentStatuses, f.Status) {
			return nil, util.NewValidationError(util.INVALID_STATUS)
		}
		filter["status"] = f.Status
	}
	if f.Date != "" {
		day, err := common.ParseDate(f.Date)
		if err != nil {
			return nil, err
		}
		filter["appointmentDate"] = common.DayFilter(day)
	}
	if f.Doctor != "" {
		oid, err := common.ParseObjectID(f.Doctor)
		if err != nil {
			return nil, err
		}
		filter["doctor"] = oid
	}
	if f.Patient != "" {
		oid, err := common.ParseObjectID(f.Patient)
		if err != nil {
			return nil, err
		}
		filter["patient"] = oid
	}
	return filter, nil
}

func ListAppointments(ctx context.Context, f AppointmentFilter, page, limit int) (Page[models.Appointment], error) {
	filter, err := appointmentFilter(f)
	if err != nil {
		return Page[models.Appointment]{}, err
	}
	out, err := listPage[models.Appointment](ctx, util.AppointmentCollection, filter, page, limit,
		bson.D{{Key: "appointmentDate", Value: -1}, {Key: "createdAt", Value: -1}})
	if err != nil {
		return out, err
	}
	return out, populateAppointments(ctx, out.Items)
}

func ListTodaysAppointments(ctx context.Context) ([]models.Appointment, error) {
	items, err := db.FindAll[models.Appointment](ctx, db.OpenCollections(util.AppointmentCollection),
		bson.M{"appointmentDate": common.DayFilter(timeNow())},
		options.Find().SetSort(bson.D{{Key: "appointmentTime", Value: 1}}))
	if err != nil {
		return nil, internalError("unable to list today's appointments", err)
	}
	return items, populateAppointments(ctx, items)
}

func ListPatientAppointments(ctx context.Context, patientID string, page, limit int) (Page[models.Appointment], error) {
	return ListAppointments(ctx, AppointmentFilter{Patient: patientID}, page, limit)
}

func ListDoctorAppointments(ctx context.Context, doctorID, date, status string) ([]models.Appointment, error) {
	if doctorID == "" {
		return nil, util.NewValidationError(util.INVALID_ID_FORMAT)
	}
	filter, err := appointmentFilter(AppointmentFilter{Doctor: doctorID, Date: date, Status: status})
	if err != nil {
		return nil, err
	}
	items, err := db.FindAll[models.Appointment](ctx, db.OpenCollections(util.AppointmentCollection), filter,
		options.Find().SetSort(bson.D{{Key: "appointmentTime", Value: 1}}))
	if err != nil {
		return nil, internalError("unable to list doctor appointments", err)
	}
	return items, populateAppointments(ctx, items)
}

var publicBookingFields = map[string]string{
	"patientName":       "name",
	"patientEmail":      "email",
	"patientPhone":      "phone",
	"patientGender":     "gender",
	"patientAge":        "age",
	"patientDOB":        "dateOfBirth",
	"patientAddress":    "address",
	"patientBloodGroup": "bloodGroup",
}

/*
* Public booking form
* Find the patient by email or phone, create it when unknown
* The appointment has no doctor yet
* A signed in booker is kept as user and createdBy
 */
func BookAppointment(ctx context.Context, data map[string]interface{}, requester *primitive.ObjectID) (*models.Appointment, error) {
	if err := common.RequireFields(data, "patientName", "patientEmail", "patientPhone", "patientGender",
		"appointmentDate", "appointmentTime", "reason"); err != nil {
		return nil, err
	}
	patientData := map[string]interface{}{}
	for from, to := range publicBookingFields {
		if v, ok := data[from]; ok && v != "" && v != nil {
			patientData[to] = v
		}
	}

	set, err := buildPatch(data, map[string]fieldKind{
		"appointmentDate": dateField,
		"appointmentTime": stringField,
		"reason":          stringField,
		"type":            stringField,
		"notes":           stringField,
	})
	if err != nil {
		return nil, err
	}
	if err := validateAppointmentSet(set); err != nil {
		return nil, err
	}

	patient, err := findOrCreatePatient(ctx, patientData)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	appt := &models.Appointment{
		ID:        primitive.NewObjectID(),
		Patient:   patient.ID,
		Type:      "consultation",
		Duration:  models.DefaultAppointmentDuration,
		Status:    models.AppointmentScheduled,
		User:      requester,
		CreatedBy: requester,
		CreatedAt: now,
		UpdatedAt: now,
	}
	appt.AppointmentDate, _ = set["appointmentDate"].(time.Time)
	appt.AppointmentTime, _ = set["appointmentTime"].(string)
	appt.Reason, _ = set["reason"].(string)
	appt.Notes, _ = set["notes"].(string)
	if t, ok := set["type"].(string); ok && t != "" {
		appt.Type = t
	}
	if _, err := db.CreateOne(ctx, db.OpenCollections(util.AppointmentCollection), appt); err != nil {
		return nil, internalError("unable to insert public booking", err)
	}
	appt.PatientDetails = summarizePatient(patient)
	notification.SendAppointmentConfirmation(*patient, *appt, "")
	return appt, nil
}
