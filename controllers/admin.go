package controllers

import (
	"MediCare/common"
	"MediCare/config/authorization"
	"MediCare/role"
	"MediCare/services"
	"MediCare/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func Admin(api *gin.RouterGroup, protect, limit gin.HandlerFunc) {
	api.POST("/admin/auth/login", limit, AdminLogin)

	admin := api.Group("/admin", protect, authorization.RestrictTo(role.Admin))
	{
		admin.GET("/dashboard", AdminDashboard)
		admin.GET("/analytics/patients-monthly", MonthlyPatients)
		admin.GET("/analytics/revenue", MonthlyRevenue)

		admin.GET("/users", ListUsers)
		admin.PUT("/users/:id/status", SetUserStatus)
		admin.DELETE("/users/:id", DeleteUser)

		admin.GET("/patients", ListPatients(common.DefaultAdminLimit))
		admin.GET("/patients/:id", GetPatient)
		admin.PUT("/patients/:id", UpdatePatient)
		admin.DELETE("/patients/:id", DeletePatient)

		admin.GET("/staff", ListStaff(common.DefaultAdminLimit))
		admin.POST("/staff", CreateStaff)
		admin.PUT("/staff/:id", UpdateStaff)
		admin.DELETE("/staff/:id", DeleteStaff)

		admin.GET("/appointments", ListAppointments(common.DefaultAdminLimit))
		admin.POST("/appointments", CreateAppointment)
		admin.PUT("/appointments/:id", UpdateAppointment)
		admin.DELETE("/appointments/:id", DeleteAppointment)

		admin.GET("/tests", ListTests(common.DefaultAdminLimit))
		admin.POST("/tests", CreateTest)
		admin.PUT("/tests/:id", UpdateTest)
		admin.DELETE("/tests/:id", DeleteTest)

		admin.GET("/reports", ListReports(common.DefaultAdminLimit))
		admin.POST("/reports", CreateReport)
		admin.PUT("/reports/:id", UpdateReport)
		admin.DELETE("/reports/:id", DeleteReport)
	}
}

/*
* Admin addresses must use the configured domain
* Only admin accounts can sign in here
 */
func AdminLogin(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	if err := common.RequireFields(data, "email", "password"); err != nil {
		respondError(c, util.NewValidationError(util.PLEASE_PROVIDE_EMAIL_AND_PASSWORD))
		return
	}
	password, _ := data["password"].(string)
	result, err := services.AdminLogin(c, common.StringField(data, "email"), password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.TokenResponse(util.ADMIN_LOGGED_IN, result.Token, gin.H{"user": result.User}))
}

func AdminDashboard(c *gin.Context) {
	dashboard, err := services.GetAdminDashboard(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(dashboard))
}

func monthsQuery(c *gin.Context) int {
	months, _ := strconv.Atoi(c.Query("months"))
	return months
}

func MonthlyPatients(c *gin.Context) {
	stats, err := services.MonthlyPatientRegistrations(c, monthsQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"monthlyStats": stats}))
}

func MonthlyRevenue(c *gin.Context) {
	stats, err := services.MonthlyRevenue(c, monthsQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"revenueStats": stats}))
}

func ListUsers(c *gin.Context) {
	page, limit := pagination(c, common.DefaultAdminLimit)
	result, err := services.ListUsers(c, services.UserFilter{Role: c.Query("role"), Search: c.Query("search")}, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
}

func SetUserStatus(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	active, ok := data["isActive"].(bool)
	if !ok {
		respondError(c, util.NewValidationError("isActive must be true or false"))
		return
	}
	user, err := services.SetUserActive(c, c.Param("id"), active, requester(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"user": user}))
}

func DeleteUser(c *gin.Context) {
	if err := services.DeleteUser(c, c.Param("id"), requester(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DELETED_SUCCESSFULLY, nil))
}
