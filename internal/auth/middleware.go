package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// TeacherAuth enforces bearer JWT tokens signed with HS256. On success the
// caller's teacher id is stored under "teacher_id" for handlers downstream.
func TeacherAuth(signingKey, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" || !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenStr := strings.TrimSpace(authz[len("bearer "):])
		claims, err := Parse(tokenStr, signingKey, issuer)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("claims", claims)
		c.Set("teacher_id", claims.Subject)
		c.Next()
	}
}

// CallerID returns the authenticated teacher id set by TeacherAuth.
func CallerID(c *gin.Context) string {
	id, _ := c.Get("teacher_id")
	s, _ := id.(string)
	return s
}
