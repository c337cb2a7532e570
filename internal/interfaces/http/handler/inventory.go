package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appinventory "github.com/quickdash/backend/internal/application/inventory"
)

// InventoryHandler exposes the inventory ledger over HTTP.
type InventoryHandler struct {
	BaseHandler
	service *appinventory.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(service *appinventory.Service) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// List returns the business's inventory records, paginated.
// GET /api/v1/inventory?search=&category=&is_active=&page=&page_size=
func (h *InventoryHandler) List(c *gin.Context) {
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
	if category := c.Query("category"); category != "" {
		filter.Filters["category"] = category
	}
	if isActive := c.Query("is_active"); isActive != "" {
		active, err := strconv.ParseBool(isActive)
		if err != nil {
			h.BadRequest(c, "is_active must be a boolean")
			return
		}
		filter.Filters["is_active"] = active
	}

	page, err := h.service.List(c.Request.Context(), businessID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one record by product ID.
// GET /api/v1/inventory/:productId
func (h *InventoryHandler) Get(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	record, err := h.service.Get(c.Request.Context(), businessID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Upsert creates or updates the record for a product.
// PUT /api/v1/inventory/:productId
func (h *InventoryHandler) Upsert(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req appinventory.UpsertRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindErrorMessage(err))
		return
	}
	req.ActorID = getActorID(c)

	record, err := h.service.Upsert(c.Request.Context(), businessID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Adjust applies one signed stock delta.
// POST /api/v1/inventory/:productId/adjust
func (h *InventoryHandler) Adjust(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req appinventory.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindErrorMessage(err))
		return
	}
	req.ActorID = getActorID(c)

	record, err := h.service.Adjust(c.Request.Context(), businessID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Restock records a supplier delivery and refreshes supplier metadata.
// POST /api/v1/inventory/:productId/restock
func (h *InventoryHandler) Restock(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req appinventory.RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindErrorMessage(err))
		return
	}
	req.ActorID = getActorID(c)

	record, err := h.service.Restock(c.Request.Context(), businessID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// WriteOffExpired zeroes the remaining stock of an expired product.
// POST /api/v1/inventory/:productId/write-off
func (h *InventoryHandler) WriteOffExpired(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	record, err := h.service.WriteOffExpired(c.Request.Context(), businessID, productID, getActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// BulkAdjust applies several adjustments; items succeed or fail
// independently and per-item errors come back in the response body.
// POST /api/v1/inventory/bulk-adjust
func (h *InventoryHandler) BulkAdjust(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	var req appinventory.BulkAdjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, bindErrorMessage(err))
		return
	}
	req.ActorID = getActorID(c)

	result, err := h.service.BulkAdjust(c.Request.Context(), businessID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// History returns the movement ledger for a product, paginated.
// GET /api/v1/inventory/:productId/history
func (h *InventoryHandler) History(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	productID, err := parseIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	filter, err := parseFilter(c)
	if err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}
	if action := c.Query("action"); action != "" {
		filter.Filters["action"] = action
	}

	page, err := h.service.History(c.Request.Context(), businessID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Alerts recomputes and returns the current stock alerts.
// GET /api/v1/inventory/alerts
func (h *InventoryHandler) Alerts(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	alerts, err := h.service.Alerts(c.Request.Context(), businessID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, alerts)
}

// Report returns the full inventory report as JSON or CSV.
// GET /api/v1/inventory/report?format=json|csv
func (h *InventoryHandler) Report(c *gin.Context) {
	businessID, err := getBusinessID(c)
	if err != nil {
		h.Unauthorized(c, "Business context required")
		return
	}

	format := c.DefaultQuery("format", "json")
	switch format {
	case "csv":
		data, err := h.service.ReportCSV(c.Request.Context(), businessID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="inventory_report.csv"`)
		c.Data(http.StatusOK, "text/csv", data)
	case "json":
		report, err := h.service.Report(c.Request.Context(), businessID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, report)
	default:
		h.BadRequest(c, "format must be json or csv")
	}
}
