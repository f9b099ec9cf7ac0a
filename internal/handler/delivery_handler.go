package handler

import (
	"net/http"

	"creditdesk/internal/middleware"
	"creditdesk/internal/service"
	"creditdesk/pkg/pagination"
	"creditdesk/pkg/response"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
	mw              *middleware.Middleware
}

func NewDeliveryHandler(deliveryService service.DeliveryService, mw *middleware.Middleware) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService, mw: mw}
}

func (h *DeliveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	deliveries := router.Group("/api/deliveries")
	{
		deliveries.GET("", h.mw.RequirePermission("deliveries.view"), h.ListDeliveries)
		deliveries.GET("/:id", h.mw.RequirePermission("deliveries.view"), h.GetDelivery)
		deliveries.PUT("/:id/status", h.mw.RequirePermission("deliveries.update_status"), h.UpdateStatus)
	}
}

// ListDeliveries returns a paginated, status-filterable delivery list
// @Summary      List deliveries
// @Description  Retrieves deliveries with bill and salesman details, optionally filtered by status
// @Tags         deliveries
// @Security     BearerAuth
// @Produce      json
// @Param        status  query     string  false  "Status (PENDING, DISPATCHED, DELIVERED)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Success      200     {object}  response.Response{data=object}
// @Router       /api/deliveries [get]
func (h *DeliveryHandler) ListDeliveries(c *gin.Context) {
	params := pagination.Parse(c)

	deliveries, total, err := h.deliveryService.ListDeliveries(c.Request.Context(), c.Query("status"), params.Page, params.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.List("deliveries", deliveries, total, params.Page, params.Limit))
}

// GetDelivery returns one delivery
// @Summary      Get delivery
// @Tags         deliveries
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Delivery ID"
// @Success      200  {object}  response.Response{data=service.DeliveryResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/deliveries/{id} [get]
func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}

// UpdateStatus moves a delivery forward through its status chain
// @Summary      Update delivery status
// @Description  Moves a delivery forward (PENDING to DISPATCHED to DELIVERED). Backward transitions are rejected.
// @Tags         deliveries
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                               true  "Delivery ID"
// @Param        payload  body      service.UpdateDeliveryStatusRequest  true  "Status Payload"
// @Success      200      {object}  response.Response{data=service.DeliveryResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/deliveries/{id}/status [put]
func (h *DeliveryHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateDeliveryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	delivery, err := h.deliveryService.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, delivery))
}
