package controllers

import (
	"MediCare/services"
	"MediCare/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Profile(api *gin.RouterGroup, protect gin.HandlerFunc) {
	profile := api.Group("/profile", protect)
	{
		profile.GET("/me", GetMyProfile)
		profile.PUT("/update", UpdateMyProfile)
		profile.POST("/avatar", UpdateAvatar)
		profile.PUT("/preferences", UpdatePreferences)
	}
}

func GetMyProfile(c *gin.Context) {
	user, err := services.GetMyProfile(c, requester(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(gin.H{"user": user}))
}

func UpdateMyProfile(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	user, err := services.UpdateMyProfile(c, requester(c).ID, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.PROFILE_UPDATED, gin.H{"user": user}))
}

/*
* The avatar is a url or data uri sent as json
 */
func UpdateAvatar(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	avatar, _ := data["avatar"].(string)
	user, err := services.UpdateAvatar(c, requester(c).ID, avatar)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.PROFILE_UPDATED, gin.H{"user": user}))
}

func UpdatePreferences(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	user, err := services.UpdatePreferences(c, requester(c).ID, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.PREFERENCES_UPDATED, gin.H{"user": user}))
}
