package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
	"MediCare/role"
	"MediCare/util"
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

var staffFields = map[string]fieldKind{
	"name":             stringField,
	"email":            stringField,
	"phone":            stringField,
	"role":             stringField,
	"specialization":   stringField,
	"department":       stringField,
	"qualification":    rawField,
	"experience":       intField,
	"licenseNumber":    stringField,
	"address":          rawField,
	"dateOfBirth":      dateField,
	"salary":           floatField,
	"shift":            stringField,
	"availableSlots":   rawField,
	"isActive":         boolField,
	"emergencyContact": rawField,
}

type StaffFilter struct {
	Role       string
	Department string
	IsActive   *bool
}

func staffKey(id primitive.ObjectID) string {
	return util.StaffKey + id.Hex()
}

// decodeInto copies a loosely typed json object into a typed value through bson.
func decodeInto(raw interface{}, out interface{}) error {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return util.NewValidationError(util.INVALID_BODY)
	}
	b, err := bson.Marshal(m)
	if err != nil {
		return util.NewValidationError(util.INVALID_BODY)
	}
	if err := bson.Unmarshal(b, out); err != nil {
		return util.NewValidationError(util.INVALID_BODY)
	}
	return nil
}

func parseSlots(raw interface{}) ([]models.AvailableSlot, error) {
	list, ok := raw.([]interface{})
	if raw == nil {
		return []models.AvailableSlot{}, nil
	}
	if !ok {
		return nil, util.NewValidationError("availableSlots must be a list")
	}
	slots := make([]models.AvailableSlot, 0, len(list))
	for _, item := range list {
		var slot models.AvailableSlot
		if err := decodeInto(item, &slot); err != nil {
			return nil, err
		}
		slot.Day = strings.ToLower(strings.TrimSpace(slot.Day))
		if !common.Contains(models.Weekdays, slot.Day) {
			return nil, util.NewValidationError("Invalid day " + slot.Day)
		}
		for _, t := range []string{slot.StartTime, slot.EndTime, slot.BreakStart, slot.BreakEnd} {
			if t != "" && !common.ValidTime(t) {
				return nil, util.NewValidationError(util.INVALID_TIME)
			}
		}
		slots = append(slots, slot)
	}
	return slots, nil
}

/*
* Turn nested json values into their stored shapes
* Validate enums
 */
func normalizeStaffSet(set bson.M) error {
	if v, ok := set["address"]; ok && v != nil {
		addr := &models.StaffAddress{}
		if err := decodeInto(v, addr); err != nil {
			return err
		}
		set["address"] = addr
	}
	if v, ok := set["emergencyContact"]; ok && v != nil {
		contact := &models.EmergencyContact{}
		if err := decodeInto(v, contact); err != nil {
			return err
		}
		set["emergencyContact"] = contact
	}
	if v, ok := set["availableSlots"]; ok {
		slots, err := parseSlots(v)
		if err != nil {
			return err
		}
		set["availableSlots"] = slots
	}
	if email, ok := set["email"].(string); ok {
		set["email"] = common.NormalizeEmail(email)
	}
	if err := enumField(set, "role", role.StaffRoles, util.INVALID_ROLE); err != nil {
		return err
	}
	if err := enumField(set, "shift", models.Shifts, "Invalid shift"); err != nil {
		return err
	}
	if salary, ok := set["salary"].(float64); ok && salary < 0 {
		return util.NewValidationError("Salary cannot be negative")
	}
	return nil
}

func staffFromInput(data map[string]interface{}) (*models.Staff, error) {
	set, err := buildPatch(data, staffFields)
	if err != nil {
		return nil, err
	}
	if _, ok := set["role"]; ok && set["role"] == "" {
		delete(set, "role")
	}
	if err := normalizeStaffSet(set); err != nil {
		return nil, err
	}
	now := timeNow()
	s := &models.Staff{
		ID:             primitive.NewObjectID(),
		Shift:          "general",
		AvailableSlots: []models.AvailableSlot{},
		IsActive:       true,
		DateOfJoining:  now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	s.Name, _ = set["name"].(string)
	s.Email, _ = set["email"].(string)
	s.Phone, _ = set["phone"].(string)
	s.Role, _ = set["role"].(string)
	s.Specialization, _ = set["specialization"].(string)
	s.Department, _ = set["department"].(string)
	s.Qualification = set["qualification"]
	s.Experience, _ = set["experience"].(int)
	s.LicenseNumber, _ = set["licenseNumber"].(string)
	s.Address, _ = set["address"].(*models.StaffAddress)
	s.EmergencyContact, _ = set["emergencyContact"].(*models.EmergencyContact)
	s.Salary, _ = set["salary"].(float64)
	if dob, ok := set["dateOfBirth"].(time.Time); ok {
		s.DateOfBirth = &dob
	}
	if shift, ok := set["shift"].(string); ok && shift != "" {
		s.Shift = shift
	}
	if slots, ok := set["availableSlots"].([]models.AvailableSlot); ok {
		s.AvailableSlots = slots
	}
	if active, ok := set["isActive"].(bool); ok {
		s.IsActive = active
	}
	return s, nil
}

func findStaffConflict(ctx context.Context, filter bson.M, exclude *primitive.ObjectID) (bool, error) {
	if exclude != nil {
		filter["_id"] = bson.M{"$ne": *exclude}
	}
	existing := &models.Staff{}
	err := db.FindOne(ctx, db.OpenCollections(util.StaffCollection), filter, existing)
	if db.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, internalError("unable to check staff uniqueness", err)
	}
	return true, nil
}

/*
* Check uniqueness of email, phone and license number
* Doctors need a specialization
 */
func checkStaffUniqueness(ctx context.Context, email, phone, license string, exclude *primitive.ObjectID) error {
	or := bson.A{}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	if phone != "" {
		or = append(or, bson.M{"phone": phone})
	}
	if len(or) > 0 {
		taken, err := findStaffConflict(ctx, bson.M{"$or": or}, exclude)
		if err != nil {
			return err
		}
		if taken {
			return util.NewConflictError(util.STAFF_ALREADY_EXISTS)
		}
	}
	if license != "" {
		taken, err := findStaffConflict(ctx, bson.M{"licenseNumber": license}, exclude)
		if err != nil {
			return err
		}
		if taken {
			return util.NewConflictError(util.LICENSE_ALREADY_EXISTS)
		}
	}
	return nil
}

func CreateStaff(ctx context.Context, data map[string]interface{}) (*models.Staff, error) {
	if err := common.RequireFields(data, "name", "email", "phone", "role", "department"); err != nil {
		return nil, err
	}
	staff, err := staffFromInput(data)
	if err != nil {
		return nil, err
	}
	if staff.Role == role.Doctor && staff.Specialization == "" {
		return nil, util.NewValidationError(util.SPECIALIZATION_NEEDED)
	}
	if err := checkStaffUniqueness(ctx, staff.Email, staff.Phone, staff.LicenseNumber, nil); err != nil {
		log.Warn().Err(err).Str("email", staff.Email).Msg("staff uniqueness check failed")
		return nil, err
	}
	if _, err := db.CreateOne(ctx, db.OpenCollections(util.StaffCollection), staff); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, util.NewConflictError(util.STAFF_ALREADY_EXISTS)
		}
		return nil, internalError("unable to insert staff", err)
	}
	return staff, nil
}

func ListStaff(ctx context.Context, f StaffFilter, page, limit int) (Page[models.Staff], error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.IsActive != nil {
		filter["isActive"] = *f.IsActive
	}
	return listPage[models.Staff](ctx, util.StaffCollection, filter, page, limit, bson.D{{Key: "createdAt", Value: -1}})
}

func GetStaff(ctx context.Context, id string) (*models.Staff, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	return getStaffByID(ctx, oid)
}

func getStaffByID(ctx context.Context, oid primitive.ObjectID) (*models.Staff, error) {
	cached := &models.Staff{}
	if cacheGet(ctx, staffKey(oid), cached) {
		return cached, nil
	}
	staff, err := findByID[models.Staff](ctx, util.StaffCollection, oid, util.STAFF_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	cacheSet(ctx, staffKey(oid), staff)
	return staff, nil
}

/*
* Load the current record so the doctor rule sees the merged state
* Uniqueness excludes the record itself
 */
func UpdateStaff(ctx context.Context, id string, data map[string]interface{}) (*models.Staff, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	set, err := buildPatch(data, staffFields)
	if err != nil {
		return nil, err
	}
	if err := normalizeStaffSet(set); err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return nil, util.NewValidationError(util.NO_FIELDS_TO_UPDATE)
	}
	current, err := findByID[models.Staff](ctx, util.StaffCollection, oid, util.STAFF_NOT_FOUND)
	if err != nil {
		return nil, err
	}
	nextRole, ok := set["role"].(string)
	if !ok {
		nextRole = current.Role
	}
	nextSpec, ok := set["specialization"].(string)
	if !ok {
		nextSpec = current.Specialization
	}
	if nextRole == role.Doctor && nextSpec == "" {
		return nil, util.NewValidationError(util.SPECIALIZATION_NEEDED)
	}
	email, _ := set["email"].(string)
	phone, _ := set["phone"].(string)
	license, _ := set["licenseNumber"].(string)
	if err := checkStaffUniqueness(ctx, email, phone, license, &oid); err != nil {
		return nil, err
	}

	set["updatedAt"] = timeNow()
	if _, err := db.UpdateOne(ctx, db.OpenCollections(util.StaffCollection), bson.M{"_id": oid}, bson.M{"$set": set}); err != nil {
		if db.IsDuplicateKey(err) {
			return nil, util.NewConflictError(util.STAFF_ALREADY_EXISTS)
		}
		return nil, internalError("unable to update staff", err)
	}
	cacheDelete(ctx, staffKey(oid))
	return findByID[models.Staff](ctx, util.StaffCollection, oid, util.STAFF_NOT_FOUND)
}

func DeleteStaff(ctx context.Context, id string) error {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return err
	}
	res, err := db.DeleteOne(ctx, db.OpenCollections(util.StaffCollection), bson.M{"_id": oid})
	if err != nil {
		return internalError("unable to delete staff", err)
	}
	if res.DeletedCount == 0 {
		return util.NewNotFoundError(util.STAFF_NOT_FOUND)
	}
	cacheDelete(ctx, staffKey(oid))
	return nil
}

func ListStaffByRole(ctx context.Context, staffRole, department string) ([]models.Staff, error) {
	if !role.IsStaffRole(staffRole) {
		return nil, util.NewValidationError(util.INVALID_ROLE)
	}
	filter := bson.M{"role": staffRole, "isActive": true}
	if department != "" {
		filter["department"] = department
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	staff, err := db.FindAll[models.Staff](ctx, db.OpenCollections(util.StaffCollection), filter, opts)
	if err != nil {
		return nil, internalError("unable to list staff by role", err)
	}
	return staff, nil
}

// ListDoctors returns active doctors sorted by name.
func ListDoctors(ctx context.Context, department, specialization string) ([]models.Staff, error) {
	filter := bson.M{"role": role.Doctor, "isActive": true}
	if department != "" {
		filter["department"] = department
	}
	if specialization != "" {
		filter["specialization"] = specialization
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetProjection(bson.M{
			"name": 1, "email": 1, "phone": 1, "specialization": 1, "department": 1,
			"qualification": 1, "experience": 1, "availableSlots": 1, "role": 1, "isActive": 1,
		})
	doctors, err := db.FindAll[models.Staff](ctx, db.OpenCollections(util.StaffCollection), filter, opts)
	if err != nil {
		return nil, internalError("unable to list doctors", err)
	}
	return doctors, nil
}

type StaffDashboard struct {
	Staff                *models.Staff        `json:"staff"`
	TodayAppointments    []models.Appointment `json:"todayAppointments"`
	UpcomingAppointments []models.Appointment `json:"upcomingAppointments"`
}

/*
* Today's appointments sorted by time
* Next ten active appointments after now
 */
func GetStaffDashboard(ctx context.Context, id string) (*StaffDashboard, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	staff, err := getStaffByID(ctx, oid)
	if err != nil {
		return nil, err
	}

	now := timeNow()
	out := &StaffDashboard{Staff: staff}
	coll := db.OpenCollections(util.AppointmentCollection)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	g.Go(func() error {
		items, err := db.FindAll[models.Appointment](gctx, coll,
			bson.M{"doctor": oid, "appointmentDate": common.DayFilter(now)},
			options.Find().SetSort(bson.D{{Key: "appointmentTime", Value: 1}}))
		out.TodayAppointments = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Appointment](gctx, coll,
			bson.M{
				"doctor":          oid,
				"appointmentDate": bson.M{"$gt": now},
				"status":          bson.M{"$in": models.ActiveAppointmentStatuses},
			},
			options.Find().SetSort(bson.D{{Key: "appointmentDate", Value: 1}}).SetLimit(10))
		out.UpcomingAppointments = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError("unable to load staff dashboard", err)
	}
	return out, nil
}

func UpdateAvailability(ctx context.Context, id string, raw interface{}) (*models.Staff, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	slots, err := parseSlots(raw)
	if err != nil {
		return nil, err
	}
	res, err := db.UpdateOne(ctx, db.OpenCollections(util.StaffCollection), bson.M{"_id": oid},
		bson.M{"$set": bson.M{"availableSlots": slots, "updatedAt": timeNow()}})
	if err != nil {
		return nil, internalError("unable to update availability", err)
	}
	if res.MatchedCount == 0 {
		return nil, util.NewNotFoundError(util.STAFF_NOT_FOUND)
	}
	cacheDelete(ctx, staffKey(oid))
	return findByID[models.Staff](ctx, util.StaffCollection, oid, util.STAFF_NOT_FOUND)
}
