package handler

import (
	"net/http"

	"creditdesk/internal/middleware"
	"creditdesk/internal/rbac"
	"creditdesk/internal/service"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportService service.ExportService
	mw            *middleware.Middleware
}

func NewExportHandler(exportService service.ExportService, mw *middleware.Middleware) *ExportHandler {
	return &ExportHandler{exportService: exportService, mw: mw}
}

func (h *ExportHandler) RegisterRoutes(router *gin.RouterGroup) {
	exports := router.Group("/api/exports")
	{
		exports.GET("/bills", h.mw.RequirePermission("reports.export"), h.ExportBills)
		exports.GET("/credits", h.mw.RequirePermission("reports.export"), h.ExportCredits)
		exports.GET("/audit-logs", h.mw.RequireRole(rbac.RoleAdmin), h.ExportAuditLogs)
	}
}

// ExportBills streams a bill report
// @Summary      Export bills
// @Description  Streams the bill register as CSV or XLSX, honoring the list filters
// @Tags         exports
// @Security     BearerAuth
// @Produce      application/octet-stream
// @Param        format          query  string  false  "Format: csv (default) or xlsx"
// @Param        status          query  string  false  "Verification status"
// @Param        bill_type       query  string  false  "Bill type"
// @Param        payment_method  query  string  false  "Payment method"
// @Success      200  {file}  binary
// @Failure      400  {object}  response.Response
// @Router       /api/exports/bills [get]
func (h *ExportHandler) ExportBills(c *gin.Context) {
	filter := service.BillFilter{
		VerificationStatus: c.Query("status"),
		BillType:           c.Query("bill_type"),
		PaymentMethod:      c.Query("payment_method"),
		VendorID:           c.Query("vendor_id"),
		SalesmanID:         c.Query("salesman_id"),
	}

	file, err := h.exportService.ExportBills(c.Request.Context(), actorFrom(c), c.Query("format"), filter)
	if err != nil {
		fail(c, err)
		return
	}

	writeExport(c, file)
}

// ExportCredits streams a credit transaction report
// @Summary      Export credit transactions
// @Description  Streams credit transactions as CSV or XLSX, honoring the list filters
// @Tags         exports
// @Security     BearerAuth
// @Produce      application/octet-stream
// @Param        format  query  string  false  "Format: csv (default) or xlsx"
// @Param        status  query  string  false  "Status (Pending, Cleared, Overdue)"
// @Success      200  {file}  binary
// @Failure      400  {object}  response.Response
// @Router       /api/exports/credits [get]
func (h *ExportHandler) ExportCredits(c *gin.Context) {
	filter := service.CreditFilter{
		Status:     c.Query("status"),
		VendorID:   c.Query("vendor_id"),
		SalesmanID: c.Query("salesman_id"),
	}

	file, err := h.exportService.ExportCredits(c.Request.Context(), actorFrom(c), c.Query("format"), filter)
	if err != nil {
		fail(c, err)
		return
	}

	writeExport(c, file)
}

// ExportAuditLogs streams the audit trail
// @Summary      Export audit logs
// @Description  Streams the audit trail as CSV or XLSX. Admin only.
// @Tags         exports
// @Security     BearerAuth
// @Produce      application/octet-stream
// @Param        format       query  string  false  "Format: csv (default) or xlsx"
// @Param        action       query  string  false  "Action filter"
// @Param        entity_type  query  string  false  "Entity type filter"
// @Success      200  {file}  binary
// @Failure      400  {object}  response.Response
// @Router       /api/exports/audit-logs [get]
func (h *ExportHandler) ExportAuditLogs(c *gin.Context) {
	filter := service.AuditLogFilter{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		UserID:     c.Query("user_id"),
	}

	file, err := h.exportService.ExportAuditLogs(c.Request.Context(), actorFrom(c), c.Query("format"), filter)
	if err != nil {
		fail(c, err)
		return
	}

	writeExport(c, file)
}

func writeExport(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
