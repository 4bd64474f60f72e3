package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"bitbucket.org/mmdatafocus/erp_backend/config"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/gin-gonic/gin"
)

const moduleName = "handlers"

// respondError maps model errors onto HTTP statuses. Missing records are 404;
// everything else surfaces as 400 with the model's message, since model
// functions only fail on caller input or storage faults and the latter are
// already logged where they happen.
func respondError(c *gin.Context, funcName string, err error) {
	if errors.Is(err, utils.ErrorRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return
	}
	logger := config.GetLogger()
	config.LogError(logger, moduleName, funcName, c.Request.URL.Path, nil, err)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// idParam parses the :id path segment. A non-numeric id is reported the same
// way as a missing record so probes cannot distinguish the two.
func idParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
		return 0, false
	}
	return id, true
}
