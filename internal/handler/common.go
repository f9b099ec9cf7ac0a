package handler

import (
	"creditdesk/internal/service"
	"creditdesk/pkg/apperr"
	"creditdesk/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// actorFrom resolves the acting user from the gin context populated by the
// auth middleware, plus the client IP for the audit trail.
func actorFrom(c *gin.Context) service.Actor {
	actor := service.Actor{
		Role: c.GetString("userRole"),
		IP:   c.ClientIP(),
	}
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			if id, err := uuid.Parse(s); err == nil {
				actor.ID = &id
			}
		}
	}
	return actor
}

// fail writes the error with the status from the business error taxonomy
func fail(c *gin.Context, err error) {
	status := apperr.Status(err)
	c.JSON(status, response.Error(status, err.Error()))
}
