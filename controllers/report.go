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

func Report(api *gin.RouterGroup, protect gin.HandlerFunc) {
	report := api.Group("/reports", protect)
	{
		report.GET("", authorization.RestrictTo(role.Admin, role.Doctor, role.Staff), ListReports(common.DefaultLimit))
		report.POST("", authorization.RestrictTo(role.Admin, role.Doctor), CreateReport)
		report.GET("/critical", authorization.RestrictTo(role.Admin, role.Doctor), CriticalReports)
		report.GET("/patient/:name", ReportsByPatient)
		report.GET("/doctor/:name", ReportsByDoctor)
		report.GET("/:id", GetReport)
		report.PUT("/:id", UpdateReport)
		report.DELETE("/:id", authorization.RestrictTo(role.Admin), DeleteReport)
	}
}

func ListReports(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, defaultLimit)
		filter := services.ReportFilter{
			PatientName: c.Query("patientName"),
			DoctorName:  c.Query("doctorName"),
			ReportType:  c.Query("reportType"),
			Status:      c.Query("status"),
		}
		result, err := services.ListReports(c, filter, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
	}
}

func CreateReport(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	report, err := services.CreateReport(c, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.MessageResponse(util.CREATED_SUCCESSFULLY, gin.H{"report": report}))
}

func GetReport(c *gin.Context) {
	report, err := services.GetReport(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"report": report}))
}

func UpdateReport(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	report, err := services.UpdateReport(c, c.Param("id"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"report": report}))
}

func DeleteReport(c *gin.Context) {
	if err := services.DeleteReport(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DELETED_SUCCESSFULLY, nil))
}

func ReportsByPatient(c *gin.Context) {
	reports, err := services.ListReportsByPatient(c, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(reports), gin.H{"reports": reports}))
}

func ReportsByDoctor(c *gin.Context) {
	reports, err := services.ListReportsByDoctor(c, c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(reports), gin.H{"reports": reports}))
}

func CriticalReports(c *gin.Context) {
	reports, err := services.ListCriticalReports(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(reports), gin.H{"reports": reports}))
}
