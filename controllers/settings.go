package controllers

import (
	"MediCare/config/authorization"
	"MediCare/role"
	"MediCare/services"
	"MediCare/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Settings(api *gin.RouterGroup, protect gin.HandlerFunc) {
	settings := api.Group("/settings", protect)
	{
		settings.GET("", GetSettings)
		settings.PUT("/update", authorization.RestrictTo(role.Admin), UpdateSettings)
		settings.POST("/reset", authorization.RestrictTo(role.Admin), ResetSettings)
		settings.GET("/:key", GetSetting)
	}
}

func GetSettings(c *gin.Context) {
	settings, err := services.GetSettings(c)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(settings))
}

func UpdateSettings(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	settings, err := services.UpdateSettings(c, data, requester(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.SETTINGS_UPDATED, settings))
}

func ResetSettings(c *gin.Context) {
	settings, err := services.ResetSettings(c, requester(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.SETTINGS_RESET, settings))
}

func GetSetting(c *gin.Context) {
	key := c.Param("key")
	value, err := services.GetSetting(c, key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"key": key, "value": value}))
}
