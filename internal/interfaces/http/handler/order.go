package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/quickdash/backend/internal/application/order"
)

// IdempotencyKeyHeader carries the client's dedup token for transitions.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderHandler exposes order placement and the fulfillment state machine.
type OrderHandler struct {
	BaseHandler
	service *apporder.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(service *apporder.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// Checkout places a new order in pending status.
// POST /api/v1/orders
func (h *OrderHandler) Checkout(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	var req apporder.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindErrorMessage(err))
		return
	}

	resp, err := h.service.Checkout(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// Get returns one order with items and tracking log.
// GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.service.Get(c.Request.Context(), businessID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}

// List returns the business's orders, paginated.
// GET /api/v1/orders?status=&customer_id=&page=&page_size=
func (h *OrderHandler) List(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		id, err := uuid.Parse(customerID)
		if err != nil {
			h.BadRequest(c, "customer_id must be a UUID")
			return
		}
		filter.Filters["customer_id"] = id
	}

	page, err := h.service.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Transition moves an order along the fulfillment state machine. Clients may
// send an Idempotency-Key header; a replay returns the order's current state
// without repeating side effects.
// POST /api/v1/orders/:id/status
func (h *OrderHandler) Transition(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req apporder.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindErrorMessage(err))
		return
	}
	req.ActorID = getActorID(c)

	resp, err := h.service.Transition(c.Request.Context(), businessID, orderID, req, c.GetHeader(IdempotencyKeyHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
