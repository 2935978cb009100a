package controllers

import (
	"MediCare/common"
	"MediCare/config/authorization"
	"MediCare/models"
	"MediCare/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func respondError(c *gin.Context, err error) {
	status := util.StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, util.FailedResponse(err))
}

/*
* Bind the json body into a map
* A malformed body is answered here
 */
func bindBody(c *gin.Context) (map[string]interface{}, bool) {
	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("invalid request body")
		c.JSON(http.StatusBadRequest, util.FailedResponse(util.NewValidationError(util.INVALID_BODY)))
		return nil, false
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	return data, true
}

func pagination(c *gin.Context, defaultLimit int) (int, int) {
	return common.ParsePagination(c.Query("page"), c.Query("limit"), defaultLimit)
}

// requester is the authenticated user. Routes using it sit behind JWTAuth.
func requester(c *gin.Context) *models.User {
	user, _ := authorization.CurrentUser(c)
	return user
}

func requesterID(c *gin.Context) *primitive.ObjectID {
	if user := requester(c); user != nil {
		id := user.ID
		return &id
	}
	return nil
}

func boolQuery(c *gin.Context, key string) *bool {
	switch c.Query(key) {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	}
	return nil
}
