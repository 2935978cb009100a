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

func Staff(api *gin.RouterGroup, protect gin.HandlerFunc) {
	staff := api.Group("/staff", protect)
	{
		staff.GET("", authorization.RestrictTo(role.Admin), ListStaff(common.DefaultLimit))
		staff.POST("", authorization.RestrictTo(role.Admin), CreateStaff)
		staff.GET("/doctors", ListDoctors)
		staff.GET("/role/:role", ListStaffByRole)
		staff.GET("/:id", GetStaff)
		staff.PUT("/:id", authorization.RestrictTo(role.Admin), UpdateStaff)
		staff.DELETE("/:id", authorization.RestrictTo(role.Admin), DeleteStaff)
		staff.GET("/:id/dashboard", StaffDashboard)
		staff.PUT("/:id/availability", UpdateAvailability)
	}
}

func ListStaff(defaultLimit int) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := pagination(c, defaultLimit)
		filter := services.StaffFilter{
			Role:       c.Query("role"),
			Department: c.Query("department"),
			IsActive:   boolQuery(c, "isActive"),
		}
		result, err := services.ListStaff(c, filter, page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, util.ListResponse(len(result.Items), result))
	}
}

func CreateStaff(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	staff, err := services.CreateStaff(c, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.MessageResponse(util.CREATED_SUCCESSFULLY, gin.H{"staff": staff}))
}

func GetStaff(c *gin.Context) {
	staff, err := services.GetStaff(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"staff": staff}))
}

func UpdateStaff(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	staff, err := services.UpdateStaff(c, c.Param("id"), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"staff": staff}))
}

func DeleteStaff(c *gin.Context) {
	if err := services.DeleteStaff(c, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.DELETED_SUCCESSFULLY, nil))
}

func ListDoctors(c *gin.Context) {
	doctors, err := services.ListDoctors(c, c.Query("department"), c.Query("specialization"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(doctors), gin.H{"doctors": doctors}))
}

func ListStaffByRole(c *gin.Context) {
	staff, err := services.ListStaffByRole(c, c.Param("role"), c.Query("department"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.ListResponse(len(staff), gin.H{"staff": staff}))
}

func StaffDashboard(c *gin.Context) {
	dashboard, err := services.GetStaffDashboard(c, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(dashboard))
}

/*
* Body carries availableSlots
 */
func UpdateAvailability(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	staff, err := services.UpdateAvailability(c, c.Param("id"), data["availableSlots"])
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.UPDATED_SUCCESSFULLY, gin.H{"staff": staff}))
}
