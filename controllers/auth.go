package controllers

import (
	"MediCare/common"
	"MediCare/services"
	"MediCare/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

func Auth(api *gin.RouterGroup, protect, limit gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", Register)
		auth.POST("/login", limit, Login)
		auth.POST("/forgot-password", limit, ForgotPassword)
		auth.PUT("/reset-password/:token", ResetPassword)

		auth.GET("/me", protect, GetMe)
		auth.PUT("/update-profile", protect, UpdateAccount)
		auth.PUT("/change-password", protect, ChangePassword)
		auth.POST("/logout", protect, Logout)
	}
}

/*
* Bind the registration fields
* Pass to the service and answer with the token
 */
func Register(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	result, err := services.Register(c, data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, util.TokenResponse(util.REGISTERED_SUCCESSFULLY, result.Token, gin.H{"user": result.User}))
}

func Login(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	if err := common.RequireFields(data, "email", "password"); err != nil {
		respondError(c, util.NewValidationError(util.PLEASE_PROVIDE_EMAIL_AND_PASSWORD))
		return
	}
	password, _ := data["password"].(string)
	result, err := services.Login(c, common.StringField(data, "email"), password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.TokenResponse(util.LOGGED_IN_SUCCESSFULLY, result.Token, gin.H{"user": result.User}))
}

func GetMe(c *gin.Context) {
	view, err := services.GetMe(c, requester(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.SuccessResponse(view))
}

/*
* name and phone update the account
* the rest goes to the patient or staff record
 */
func UpdateAccount(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	view, err := services.UpdateAccount(c, requester(c), data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.PROFILE_UPDATED, view))
}

func ChangePassword(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	if err := common.RequireFields(data, "currentPassword", "newPassword"); err != nil {
		respondError(c, err)
		return
	}
	current, _ := data["currentPassword"].(string)
	next, _ := data["newPassword"].(string)
	result, err := services.ChangePassword(c, requester(c).ID, current, next)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.TokenResponse(util.PASSWORD_CHANGED, result.Token, gin.H{"user": result.User}))
}

// Logout is stateless, the client drops its token.
func Logout(c *gin.Context) {
	c.JSON(http.StatusOK, util.MessageResponse(util.LOGGED_OUT_SUCCESSFULLY, nil))
}

/*
* Always answer the same way
* so the endpoint does not reveal which emails exist
 */
func ForgotPassword(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	if err := common.RequireFields(data, "email"); err != nil {
		respondError(c, err)
		return
	}
	if err := services.ForgotPassword(c, common.StringField(data, "email")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.MessageResponse(util.PASSWORD_RESET_SENT, nil))
}

func ResetPassword(c *gin.Context) {
	data, ok := bindBody(c)
	if !ok {
		return
	}
	password, _ := data["password"].(string)
	result, err := services.ResetPassword(c, c.Param("token"), password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, util.TokenResponse(util.PASSWORD_RESET_SUCCESSFULLY, result.Token, gin.H{"user": result.User}))
}
