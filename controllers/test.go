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

func Test(api *gin.RouterGroup, protect gin.HandlerFunc) {
	test := api.Group("/tests", protect)
	{
		test.GET("", ListTests(common.DefaultLimit))
		test.POST("", CreateTest)
		test.GET("/pending", PendingTests)
		test.GET("/patient/:id", PatientTests)
		test.GET("/:id", GetTest)
		test.PUT("/:id", UpdateTest)
		test.PUT("/:id/results", UpdateTestResults)
		test.DELETE("/:id", authorization.RestrictTo(role.StaffMembers...), DeleteTest)
	}
}

func ListTests(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, defaultLimit)
		result, err := services.ListTests(c, services.TestFilter{Status: c.Query("status"), Patient: c.Query("patient")}, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
	}
}

func CreateTest(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	test, err := services.CreateTest(c, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.MessageResponse(util.CREATED_SUCCESSFULLY, gin.H{"test": test}))
}

func PendingTests(c *gin.Context) {
	tests, err := services.ListPendingTests(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(tests), gin.H{"tests": tests}))
}

func PatientTests(c *gin.Context) {
	page, limit := pagination(c, common.DefaultLimit)
	result, err := services.ListPatientTests(c, c.Param("id"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
}

func GetTest(c *gin.Context) {
	test, err := services.GetTest(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"test": test}))
}

/*
* Completing a test stamps its report date
* Completed tests with results notify the patient
 */
func UpdateTest(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	test, err := services.UpdateTest(c, c.Param("id"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"test": test}))
}

func UpdateTestResults(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	results, _ := data["results"].(string)
	status, _ := data["status"].(string)
	test, err := services.UpdateTestResults(c, c.Param("id"), results, status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"test": test}))
}

func DeleteTest(c *gin.Context) {
	if err := services.DeleteTest(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DELETED_SUCCESSFULLY, nil))
}
