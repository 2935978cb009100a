package controllers

import (
	"MediCare/common"
	"MediCare/config/authorization"
	"MediCare/role"
	"MediCare/services"
	"MediCare/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Appointment(api *gin.RouterGroup, protect, identify gin.HandlerFunc) {
	appointments := api.Group("/appointments")
	appointments.POST("/book", identify, BookAppointment)

	appointment := appointments.Group("", protect)
	{
		appointment.GET("", ListAppointments(common.DefaultLimit))
		appointment.POST("", CreateAppointment)
		appointment.GET("/today", TodaysAppointments)
		appointment.GET("/patient/:id", PatientAppointments)
		appointment.GET("/doctor/:id", DoctorAppointments)
		appointment.GET("/:id", GetAppointment)
		appointment.PUT("/:id", UpdateAppointment)
		appointment.DELETE("/:id", authorization.RestrictTo(role.StaffMembers...), DeleteAppointment)
	}
}

/*
* Bind JSON
* The requester is stored as user and createdBy
 */
func CreateAppointment(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	appointment, err := services.CreateAppointment(c, data, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.MessageResponse(util.APPOINTMENT_BOOKED, gin.H{"appointment": appointment}))
}

// BookAppointment is the public booking form. A token is optional.
func BookAppointment(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	appointment, err := services.BookAppointment(c, data, requesterID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.MessageResponse(util.APPOINTMENT_BOOKED, gin.H{"appointment": appointment}))
}

/*
* Filters: status, date (YYYY-MM-DD), doctor, patient
 */
func ListAppointments(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, defaultLimit)
		filter := services.AppointmentFilter{
			Status:  c.Query("status"),
			Date:    c.Query("date"),
			Doctor:  c.Query("doctor"),
			Patient: c.Query("patient"),
		}
		result, err := services.ListAppointments(c, filter, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
	}
}

func TodaysAppointments(c *gin.Context) {
	items, err := services.ListTodaysAppointments(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(items), gin.H{"appointments": items}))
}

func PatientAppointments(c *gin.Context) {
	page, limit := pagination(c, common.DefaultLimit)
	result, err := services.ListPatientAppointments(c, c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
}

func DoctorAppointments(c *gin.Context) {
	items, err := services.ListDoctorAppointments(c, c.Param("id"), c.Query("date"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(items), gin.H{"appointments": items}))
}

func GetAppointment(c *gin.Context) {
	appointment, err := services.GetAppointment(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"appointment": appointment}))
}

func UpdateAppointment(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	appointment, err := services.UpdateAppointment(c, c.Param("id"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"appointment": appointment}))
}

func DeleteAppointment(c *gin.Context) {
	if err := services.DeleteAppointment(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DELETED_SUCCESSFULLY, nil))
}
