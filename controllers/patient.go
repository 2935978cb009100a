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

func Patient(api *gin.RouterGroup, protect gin.HandlerFunc) {
	patient := api.Group("/patients", protect)
	{
		patient.GET("", authorization.RestrictTo(role.StaffMembers...), ListPatients(common.DefaultLimit))
		patient.POST("", CreatePatient)
		patient.GET("/:id", GetPatient)
		patient.PUT("/:id", authorization.RestrictTo(role.StaffMembers...), UpdatePatient)
		patient.DELETE("/:id", authorization.RestrictTo(role.Admin), DeletePatient)
		patient.GET("/:id/dashboard", PatientDashboard)
		patient.GET("/:id/history", PatientHistory)
		patient.GET("/:id/medical-history", PatientHistory)
	}
}

/*
* search matches name, email or phone
 */
func ListPatients(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, defaultLimit)
		result, err := services.ListPatients(c, c.Query("search"), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
	}
}

func CreatePatient(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	patient, err := services.CreatePatient(c, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.MessageResponse(util.CREATED_SUCCESSFULLY, gin.H{"patient": patient}))
}

func GetPatient(c *gin.Context) {
	patient, err := services.GetPatient(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"patient": patient}))
}

func UpdatePatient(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	patient, err := services.UpdatePatient(c, c.Param("id"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"patient": patient}))
}

func DeletePatient(c *gin.Context) {
	if err := services.DeletePatient(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DELETED_SUCCESSFULLY, nil))
}

func PatientDashboard(c *gin.Context) {
	dashboard, err := services.GetPatientDashboard(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(dashboard))
}

func PatientHistory(c *gin.Context) {
	history, err := services.GetPatientHistory(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(history))
}
