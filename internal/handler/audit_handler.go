package handler

import (
	"net/http"

	"creditdesk/internal/middleware"
	"creditdesk/internal/rbac"
	"creditdesk/internal/service"
	"creditdesk/pkg/pagination"
	"creditdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
	mw           *middleware.Middleware
}

func NewAuditHandler(auditService service.AuditService, mw *middleware.Middleware) *AuditHandler {
	return &AuditHandler{auditService: auditService, mw: mw}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", h.mw.RequireRole(rbac.RoleAdmin), h.ListAuditLogs)
}

// ListAuditLogs returns the append-only audit trail
// @Summary      List audit logs
// @Description  Retrieves audit log entries, newest first, filterable by action, entity type and user. Admin only.
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        action       query     string  false  "Action (CREATE, UPDATE, DELETE, VERIFY, EXPORT, LOGIN, LOGOUT)"
// @Param        entity_type  query     string  false  "Entity type"
// @Param        user_id      query     string  false  "User ID"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.AuditLogFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		UserID:     c.Query("user_id"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	logs, total, err := h.auditService.ListLogs(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List("logs", logs, total, params.Page, params.Limit))
}
