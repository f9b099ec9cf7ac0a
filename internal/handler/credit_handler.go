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

type CreditHandler struct {
	creditService service.CreditService
	mw            *middleware.Middleware
}

func NewCreditHandler(creditService service.CreditService, mw *middleware.Middleware) *CreditHandler {
	return &CreditHandler{creditService: creditService, mw: mw}
}

func (h *CreditHandler) RegisterRoutes(router *gin.RouterGroup) {
	credits := router.Group("/api/credits")
	{
		credits.POST("", h.mw.RequirePermission("credits.create"), h.CreateCredit)
		credits.GET("", h.mw.RequirePermission("credits.view"), h.ListCredits)
		credits.GET("/:id", h.mw.RequirePermission("credits.view"), h.GetCredit)
		credits.PUT("/:id/clear", h.mw.RequireRole(rbac.RoleAdmin), h.ClearCredit)
	}
}

// CreateCredit records a manual credit transaction
// @Summary      Create credit transaction
// @Description  Records a credit transaction not tied to a bill. Due date defaults to 30 days out.
// @Tags         credits
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateCreditRequest  true  "Create Credit Payload"
// @Success      201      {object}  response.Response{data=service.CreditResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/credits [post]
func (h *CreditHandler) CreateCredit(c *gin.Context) {
	var req service.CreateCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	credit, err := h.creditService.CreateCredit(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, credit))
}

// ListCredits returns a paginated, filterable list of credit transactions
// @Summary      List credit transactions
// @Description  Retrieves credit transactions ordered by due date. Status Overdue includes Pending rows past due.
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        status       query     string  false  "Status (Pending, Cleared, Overdue)"
// @Param        vendor_id    query     string  false  "Vendor ID"
// @Param        salesman_id  query     string  false  "Salesman ID"
// @Param        page         query     int     false  "Page number (default 1)"
// @Param        limit        query     int     false  "Number of items per page (default 20)"
// @Success      200          {object}  response.Response{data=object}
// @Failure      500          {object}  response.Response
// @Router       /api/credits [get]
func (h *CreditHandler) ListCredits(c *gin.Context) {
	params := pagination.Parse(c)

	filter := service.CreditFilter{
		Status:     c.Query("status"),
		VendorID:   c.Query("vendor_id"),
		SalesmanID: c.Query("salesman_id"),
		Page:       params.Page,
		Limit:      params.Limit,
	}

	credits, total, err := h.creditService.ListCredits(c.Request.Context(), filter)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List("credits", credits, total, params.Page, params.Limit))
}

// GetCredit returns one credit transaction
// @Summary      Get credit transaction
// @Description  Fetch a single credit transaction. Status reflects lazy overdue derivation.
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Credit Transaction ID"
// @Success      200  {object}  response.Response{data=service.CreditResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/credits/{id} [get]
func (h *CreditHandler) GetCredit(c *gin.Context) {
	credit, err := h.creditService.GetCredit(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, credit))
}

// ClearCredit marks a credit transaction as cleared
// @Summary      Clear credit transaction
// @Description  Marks a Pending or Overdue credit transaction as Cleared. Admin only; Cleared is terminal.
// @Tags         credits
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Credit Transaction ID"
// @Success      200  {object}  response.Response{data=service.CreditResponse}
// @Failure      403  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/credits/{id}/clear [put]
func (h *CreditHandler) ClearCredit(c *gin.Context) {
	credit, err := h.creditService.ClearCredit(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, credit))
}
