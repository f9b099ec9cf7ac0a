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

type SalesmanHandler struct {
	salesmanService service.SalesmanService
	mw              *middleware.Middleware
}

func NewSalesmanHandler(salesmanService service.SalesmanService, mw *middleware.Middleware) *SalesmanHandler {
	return &SalesmanHandler{salesmanService: salesmanService, mw: mw}
}

func (h *SalesmanHandler) RegisterRoutes(router *gin.RouterGroup) {
	salesmen := router.Group("/api/salesmen")
	{
		salesmen.POST("", h.mw.RequireRole(rbac.RoleAdmin, rbac.RoleComputerOrganiser), h.CreateSalesman)
		salesmen.GET("", h.mw.RequireAuth(), h.ListSalesmen)
		salesmen.GET("/:id", h.mw.RequireAuth(), h.GetSalesman)
		salesmen.PUT("/:id", h.mw.RequireRole(rbac.RoleAdmin, rbac.RoleComputerOrganiser), h.UpdateSalesman)
		salesmen.DELETE("/:id", h.mw.RequireRole(rbac.RoleAdmin), h.DeleteSalesman)
	}
}

// CreateSalesman registers a new salesman
// @Summary      Create salesman
// @Tags         salesmen
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateSalesmanRequest  true  "Create Salesman Payload"
// @Success      201      {object}  response.Response{data=service.SalesmanResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/salesmen [post]
func (h *SalesmanHandler) CreateSalesman(c *gin.Context) {
	var req service.CreateSalesmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	salesman, err := h.salesmanService.CreateSalesman(c.Request.Context(), actorFrom(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, salesman))
}

// ListSalesmen returns a paginated salesman list
// @Summary      List salesmen
// @Tags         salesmen
// @Security     BearerAuth
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20)"
// @Success      200    {object}  response.Response{data=object}
// @Router       /api/salesmen [get]
func (h *SalesmanHandler) ListSalesmen(c *gin.Context) {
	params := pagination.Parse(c)

	salesmen, total, err := h.salesmanService.ListSalesmen(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List("salesmen", salesmen, total, params.Page, params.Limit))
}

// GetSalesman returns one salesman
// @Summary      Get salesman
// @Tags         salesmen
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Salesman ID"
// @Success      200  {object}  response.Response{data=service.SalesmanResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/salesmen/{id} [get]
func (h *SalesmanHandler) GetSalesman(c *gin.Context) {
	salesman, err := h.salesmanService.GetSalesman(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, salesman))
}

// UpdateSalesman edits salesman details
// @Summary      Update salesman
// @Tags         salesmen
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Salesman ID"
// @Param        payload  body      service.UpdateSalesmanRequest  true  "Update Salesman Payload"
// @Success      200      {object}  response.Response{data=service.SalesmanResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/salesmen/{id} [put]
func (h *SalesmanHandler) UpdateSalesman(c *gin.Context) {
	var req service.UpdateSalesmanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	salesman, err := h.salesmanService.UpdateSalesman(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, salesman))
}

// DeleteSalesman removes a salesman
// @Summary      Delete salesman
// @Tags         salesmen
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Salesman ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/salesmen/{id} [delete]
func (h *SalesmanHandler) DeleteSalesman(c *gin.Context) {
	if err := h.salesmanService.DeleteSalesman(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, "Salesman deleted successfully"))
}
