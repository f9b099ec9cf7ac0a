package handler

import (
	"io"
	"net/http"

	"creditdesk/internal/middleware"
	"creditdesk/internal/rbac"
	"creditdesk/internal/service"
	"creditdesk/pkg/pagination"
	"creditdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxImageSize caps uploaded bill scans at 10 MB
const maxImageSize = 10 << 20

type BillHandler struct {
	billService service.BillService
	mw          *middleware.Middleware
}

func NewBillHandler(billService service.BillService, mw *middleware.Middleware) *BillHandler {
	return &BillHandler{billService: billService, mw: mw}
}

func (h *BillHandler) RegisterRoutes(router *gin.RouterGroup) {
	bills := router.Group("/api/bills")
	{
		bills.POST("", h.mw.RequirePermission("bills.create"), h.CreateBill)
		bills.GET("", h.mw.RequirePermission("bills.view"), h.ListBills)
		bills.GET("/:id", h.mw.RequirePermission("bills.view"), h.GetBill)
		bills.PUT("/:id", h.mw.RequirePermission("bills.update"), h.UpdateBill)
		bills.DELETE("/:id", h.mw.RequireRole(rbac.RoleAdmin), h.DeleteBill)
		bills.POST("/:id/image", h.mw.RequirePermission("bills.create"), h.UploadImage)
		bills.POST("/:id/verify", h.mw.RequirePermission("bills.verify"), h.VerifyBill)
		bills.GET("/:id/verification-logs", h.mw.RequirePermission("bills.view"), h.ListVerificationLogs)
	}
}

// CreateBill records a new bill
// @Summary      Create bill
// @Description  Records a new bill. Hand bills are verified immediately; scanned bills await OCR verification. Credit payment opens a credit transaction.
// @Tags         bills
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateBillRequest  true  "Create Bill Payload"
// @Success      201      {object}  response.Response{data=service.BillResponse}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/bills [post]
func (h *BillHandler) CreateBill(c *gin.Context) {
	var req service.CreateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, bill))
}

// ListBills returns a paginated, filterable list of bills
// @Summary      List bills
// @Description  Retrieves a paginated list of bills filtered by status, type, payment method, vendor or salesman
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        status          query     string  false  "Verification status (unverified, verified, discrepancy_found)"
// @Param        bill_type       query     string  false  "Bill type (HANDBILL, NORMAL)"
// @Param        payment_method  query     string  false  "Payment method"
// @Param        vendor_id       query     string  false  "Vendor ID"
// @Param        salesman_id     query     string  false  "Salesman ID"
// @Param        page            query     int     false  "Page number (default 1)"
// @Param        limit           query     int     false  "Number of items per page (default 20)"
// @Success      200             {object}  response.Response{data=object}
// @Failure      500             {object}  response.Response
// @Router       /api/bills [get]
func (h *BillHandler) ListBills(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.BillFilter{
		VerificationStatus: c.Query("status"),
		BillType:           c.Query("bill_type"),
		PaymentMethod:      c.Query("payment_method"),
		VendorID:           c.Query("vendor_id"),
		SalesmanID:         c.Query("salesman_id"),
		Page:               params.Page,
		Limit:              params.Limit,
	}

	bills, total, err := h.billService.ListBills(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List("bills", bills, total, params.Page, params.Limit))
}

// GetBill returns one bill with relations
// @Summary      Get bill
// @Description  Fetch a single bill with vendor and salesman details
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  response.Response{data=service.BillResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetBill(c *gin.Context) {
	bill, err := h.billService.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

// UpdateBill edits bill fields
// @Summary      Update bill
// @Description  Updates a bill's editable fields
// @Tags         bills
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true  "Bill ID"
// @Param        payload  body      service.UpdateBillRequest  true  "Update Bill Payload"
// @Success      200      {object}  response.Response{data=service.BillResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/bills/{id} [put]
func (h *BillHandler) UpdateBill(c *gin.Context) {
	var req service.UpdateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	bill, err := h.billService.UpdateBill(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, bill))
}

// DeleteBill soft deletes a bill
// @Summary      Delete bill
// @Description  Soft deletes a bill. Admin only.
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Router       /api/bills/{id} [delete]
func (h *BillHandler) DeleteBill(c *gin.Context) {
	if err := h.billService.DeleteBill(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Bill deleted successfully"))
}

// UploadImage attaches a scanned image and runs the first verification stage
// @Summary      Upload bill image
// @Description  Attaches a scanned image to a bill and runs OCR verification. Succeeds on the manual path when the OCR service is down.
// @Tags         bills
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path      string  true  "Bill ID"
// @Param        image  formData  file    true  "Bill image"
// @Success      200    {object}  response.Response{data=service.VerificationResponse}
// @Failure      400    {object}  response.Response
// @Router       /api/bills/{id}/image [post]
func (h *BillHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Missing image file"))
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Image exceeds the 10MB limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to open image file"))
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Failed to read image file"))
		return
	}

	result, err := h.billService.UploadBillImage(c.Request.Context(), actorFrom(c), c.Param("id"), fileHeader.Filename, image)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// VerifyBill runs the back-office verification stage
// @Summary      Verify bill
// @Description  Re-runs the comparator against current stored fields. Admin may pass override to force verified.
// @Tags         bills
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                     true   "Bill ID"
// @Param        payload  body      service.VerifyBillRequest  false  "Verify Payload"
// @Success      200      {object}  response.Response{data=service.VerificationResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/bills/{id}/verify [post]
func (h *BillHandler) VerifyBill(c *gin.Context) {
	var req service.VerifyBillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
			return
		}
	}

	result, err := h.billService.VerifyBill(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ListVerificationLogs returns the mismatch evidence recorded for a bill
// @Summary      List verification logs
// @Description  Returns the field-level mismatch evidence recorded across verification stages
// @Tags         bills
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Bill ID"
// @Success      200  {object}  response.Response{data=[]service.VerificationLogResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/bills/{id}/verification-logs [get]
func (h *BillHandler) ListVerificationLogs(c *gin.Context) {
	logs, err := h.billService.ListVerificationLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}
