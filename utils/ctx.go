package utils

import "github.com/gin-gonic/gin"

// CurrentUserID reads the authenticated admin id set by the auth middleware.
func CurrentUserID(c *gin.Context) uint {
	v, ok := c.Get("userID")
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// CurrentUserRole reads the role set by the auth middleware.
func CurrentUserRole(c *gin.Context) string {
	v, ok := c.Get("role")
	if !ok {
		return ""
	}
	role, _ := v.(string)
	return role
}
