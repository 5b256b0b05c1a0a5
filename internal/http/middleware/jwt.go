package middleware

import (
	"net/http"
	"strings"

	"hideseek_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates the anonymous identity token and puts user_id into the
// gin context. Token comes from the Authorization header (Bearer) or, for
// websocket upgrades, the token query param.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if auth := c.GetHeader("Authorization"); auth != "" {
			token = strings.TrimPrefix(auth, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}
