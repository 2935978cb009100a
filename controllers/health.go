package controllers

import (
	"MediCare/services"
	"MediCare/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health answers 503 when the database is unreachable.
func Health(c *gin.Context) {
	h := services.CheckHealth(c)
	status := http.StatusOK
	if h.Database != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, util.Response{Success: status == http.StatusOK, Data: h})
}
