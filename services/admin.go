package services

import (
	"MediCare/common"
	"MediCare/config/db"
	"MediCare/models"
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

type DashboardStats struct {
	TotalPatients     int64   `json:"totalPatients"`
	TotalStaff        int64   `json:"totalStaff"`
	TotalAppointments int64   `json:"totalAppointments"`
	TodayAppointments int64   `json:"todayAppointments"`
	PendingTests      int64   `json:"pendingTests"`
	CompletedTests    int64   `json:"completedTests"`
	TotalRevenue      float64 `json:"totalRevenue"`
}

type AdminDashboard struct {
	Stats              DashboardStats       `json:"stats"`
	RecentAppointments []models.Appointment `json:"recentAppointments"`
	RecentPatients     []models.Patient     `json:"recentPatients"`
	RecentTests        []models.Test        `json:"recentTests"`
}

type revenueRow struct {
	Total float64 `bson:"total"`
}

// todayWindow is the local day from 00:00:00.000 to 23:59:59.999 inclusive.
func todayWindow(now time.Time) bson.M {
	start := common.StartOfDay(now)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return bson.M{"$gte": start, "$lte": end}
}

/*
* Every figure is computed fresh
* The counts, the revenue sum and the recent lists run concurrently
 */
func GetAdminDashboard(ctx context.Context) (*AdminDashboard, error) {
	out := &AdminDashboard{}
	patients := db.OpenCollections(util.PatientCollection)
	appointments := db.OpenCollections(util.AppointmentCollection)
	tests := db.OpenCollections(util.TestCollection)
	now := timeNow()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	count := func(dst *int64, coll string, filter bson.M) {
		g.Go(func() error {
			n, err := db.Count(gctx, db.OpenCollections(coll), filter)
			*dst = n
			return err
		})
	}
	count(&out.Stats.TotalPatients, util.PatientCollection, bson.M{})
	count(&out.Stats.TotalStaff, util.StaffCollection, bson.M{})
	count(&out.Stats.TotalAppointments, util.AppointmentCollection, bson.M{})
	count(&out.Stats.TodayAppointments, util.AppointmentCollection, bson.M{"appointmentDate": todayWindow(now)})
	count(&out.Stats.PendingTests, util.TestCollection, bson.M{"status": models.TestPending})
	count(&out.Stats.CompletedTests, util.TestCollection, bson.M{"status": models.TestCompleted})
	g.Go(func() error {
		rows, err := db.Aggregate[revenueRow](gctx, tests, bson.A{
			bson.M{"$match": bson.M{"status": models.TestCompleted}},
			bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$price"}}},
		})
		if len(rows) > 0 {
			out.Stats.TotalRevenue = rows[0].Total
		}
		return err
	})
	recent := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(5)
	g.Go(func() error {
		items, err := db.FindAll[models.Appointment](gctx, appointments, bson.M{}, recent)
		out.RecentAppointments = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Patient](gctx, patients, bson.M{}, recent)
		out.RecentPatients = items
		return err
	})
	g.Go(func() error {
		items, err := db.FindAll[models.Test](gctx, tests, bson.M{}, recent)
		out.RecentTests = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, internalError("unable to load admin dashboard", err)
	}

	if err := populateAppointments(ctx, out.RecentAppointments); err != nil {
		return nil, err
	}
	if err := populateTests(ctx, out.RecentTests); err != nil {
		return nil, err
	}
	return out, nil
}

type MonthlyStat struct {
	Year    int     `json:"year" bson:"year"`
	Month   int     `json:"month" bson:"month"`
	Count   int64   `json:"count" bson:"count"`
	Revenue float64 `json:"revenue,omitempty" bson:"revenue,omitempty"`
}

// monthsBack is the first instant of the month months-1 before now.
func monthsBack(now time.Time, months int) time.Time {
	y, m, _ := now.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(months - 1), 0)
}

func clampMonths(months int) int {
	if months <= 0 {
		return 12
	}
	if months > 60 {
		return 60
	}
	return months
}

func monthlyPipeline(match bson.M, dateExpr interface{}, sum interface{}) bson.A {
	group := bson.M{
		"_id":   bson.M{"year": bson.M{"$year": dateExpr}, "month": bson.M{"$month": dateExpr}},
		"count": bson.M{"$sum": 1},
	}
	if sum != nil {
		group["revenue"] = bson.M{"$sum": sum}
	}
	return bson.A{
		bson.M{"$match": match},
		bson.M{"$group": group},
		bson.M{"$project": bson.M{"_id": 0, "year": "$_id.year", "month": "$_id.month", "count": 1, "revenue": 1}},
		bson.M{"$sort": bson.D{{Key: "year", Value: 1}, {Key: "month", Value: 1}}},
	}
}

// MonthlyPatientRegistrations counts new patients per calendar month.
func MonthlyPatientRegistrations(ctx context.Context, months int) ([]MonthlyStat, error) {
	since := monthsBack(timeNow(), clampMonths(months))
	rows, err := db.Aggregate[MonthlyStat](ctx, db.OpenCollections(util.PatientCollection),
		monthlyPipeline(bson.M{"createdAt": bson.M{"$gte": since}}, "$createdAt", nil))
	if err != nil {
		return nil, internalError("unable to aggregate patient registrations", err)
	}
	return rows, nil
}

/*
* Revenue is the price of completed tests
* grouped by the month the report was ready, falling back to the scheduled date
 */
func MonthlyRevenue(ctx context.Context, months int) ([]MonthlyStat, error) {
	since := monthsBack(timeNow(), clampMonths(months))
	dateExpr := bson.M{"$ifNull": bson.A{"$reportDate", "$scheduledDate"}}
	match := bson.M{
		"status": models.TestCompleted,
		"$or": bson.A{
			bson.M{"reportDate": bson.M{"$gte": since}},
			bson.M{"reportDate": bson.M{"$exists": false}, "scheduledDate": bson.M{"$gte": since}},
		},
	}
	rows, err := db.Aggregate[MonthlyStat](ctx, db.OpenCollections(util.TestCollection),
		monthlyPipeline(match, dateExpr, "$price"))
	if err != nil {
		return nil, internalError("unable to aggregate revenue", err)
	}
	return rows, nil
}

type UserFilter struct {
	Role   string
	Search string
}

func ListUsers(ctx context.Context, f UserFilter, page, limit int) (Page[models.User], error) {
	filter := bson.M{}
	if f.Role != "" {
		if !role.IsUserRole(f.Role) {
			return Page[models.User]{}, util.NewValidationError(util.INVALID_ROLE)
		}
		filter["role"] = f.Role
	}
	if f.Search != "" {
		rx := common.ContainsFold(f.Search)
		filter["$or"] = bson.A{bson.M{"name": rx}, bson.M{"email": rx}}
	}
	coll := db.OpenCollections(util.UserCollection)
	opts := common.PageOptions(page, limit, bson.D{{Key: "createdAt", Value: -1}}).
		SetProjection(bson.M{"password": 0, "passwordResetToken": 0, "passwordResetExpires": 0})
	items, err := db.FindAll[models.User](ctx, coll, filter, opts)
	if err != nil {
		return Page[models.User]{}, internalError("unable to list users", err)
	}
	total, err := db.Count(ctx, coll, filter)
	if err != nil {
		return Page[models.User]{}, internalError("unable to count users", err)
	}
	return newPage(items, total, page, limit), nil
}

/*
* Admins cannot lock themselves out
 */
func SetUserActive(ctx context.Context, id string, active bool, actor primitive.ObjectID) (*models.User, error) {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return nil, err
	}
	if oid == actor && !active {
		return nil, util.NewValidationError(util.CANNOT_CHANGE_SELF)
	}
	user := &models.User{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = db.FindOneAndUpdate(ctx, db.OpenCollections(util.UserCollection), bson.M{"_id": oid},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": timeNow()}}, user, opts)
	if db.IsNotFound(err) {
		return nil, util.NewNotFoundError(util.USER_NOT_FOUND)
	}
	if err != nil {
		return nil, internalError("unable to change user status", err)
	}
	log.Info().Str("user", oid.Hex()).Bool("active", active).Str("by", actor.Hex()).Msg("user status changed")
	return user, nil
}

// DeleteUser removes the account and detaches it from its patient or staff record.
func DeleteUser(ctx context.Context, id string, actor primitive.ObjectID) error {
	oid, err := common.ParseObjectID(id)
	if err != nil {
		return err
	}
	if oid == actor {
		return util.NewValidationError(util.CANNOT_CHANGE_SELF)
	}
	res, err := db.DeleteOne(ctx, db.OpenCollections(util.UserCollection), bson.M{"_id": oid})
	if err != nil {
		return internalError("unable to delete user", err)
	}
	if res.DeletedCount == 0 {
		return util.NewNotFoundError(util.USER_NOT_FOUND)
	}
	for _, coll := range []string{util.PatientCollection, util.StaffCollection} {
		if _, err := db.UpdateMany(ctx, db.OpenCollections(coll), bson.M{"user": oid}, bson.M{"$unset": bson.M{"user": ""}}); err != nil {
			log.Error().Err(err).Str("collection", coll).Str("user", oid.Hex()).Msg("unable to detach deleted user")
		}
	}
	return nil
}
