package handlers

import (
	"net/http"

	"bitbucket.org/mmdatafocus/erp_backend/models"
	"bitbucket.org/mmdatafocus/erp_backend/utils"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	info, err := models.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// Uniform message; do not leak which of the two was wrong.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, info)
}

func Register(c *gin.Context) {
	var input models.NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := models.CreateUser(c.Request.Context(), &input)
	if err != nil {
		respondError(c, "Register", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Me returns the authenticated user's own record.
func Me(c *gin.Context) {
	userId, _ := utils.GetUserIdFromContext(c.Request.Context())

	user, err := models.GetUser(c.Request.Context(), userId)
	if err != nil {
		respondError(c, "Me", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
