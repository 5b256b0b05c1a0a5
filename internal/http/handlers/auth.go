package handlers

import (
	"net/http"

	"hideseek_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthAnonymous mints an anonymous identity: an opaque uuid, stable for the
// session's lifetime, carried in a JWT. No other auth semantics exist.
func (h *Handler) AuthAnonymous(c *gin.Context) {
	userID := uuid.NewString()

	token, err := service.GenerateJWT(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user_id": userID,
	})
}
