package controllers

import (
	"log"
	"strconv"

	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/services"
	"github.com/eichdmk/qrMenu/utils"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service        *services.OrderService
	CleanupService *services.CleanupService
	// Default retention for POST /orders/cleanup when the request omits it.
	CleanupMaxAgeDays int
}

func NewOrderController(svc *services.OrderService, cleanup *services.CleanupService, cleanupMaxAgeDays int) *OrderController {
	return &OrderController{Service: svc, CleanupService: cleanup, CleanupMaxAgeDays: cleanupMaxAgeDays}
}

// Create handles the public checkout POST.
func (ctl *OrderController) Create(c *gin.Context) {
	var req services.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}

	out, err := ctl.Service.Create(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.Created(c, out)
}

// List is the admin dashboard view, newest first.
func (ctl *OrderController) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	out, err := ctl.Service.List(limit, offset)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		resp.BadRequest(c, "status is required")
		return
	}

	if err := ctl.Service.UpdateStatus(uint(id), req.Status); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"order_id": id, "status": req.Status})
}

// Summary is the public post-checkout view of a single order.
func (ctl *OrderController) Summary(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid order id")
		return
	}

	out, err := ctl.Service.Summary(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

// Cleanup triggers the retention sweep on demand.
func (ctl *OrderController) Cleanup(c *gin.Context) {
	var req struct {
		MaxAgeDays int `json:"max_age_days"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.MaxAgeDays <= 0 {
		req.MaxAgeDays = ctl.CleanupMaxAgeDays
	}

	out, err := ctl.CleanupService.Cleanup(req.MaxAgeDays)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	log.Printf("[cleanup] manual run by admin %d", utils.CurrentUserID(c))
	resp.OK(c, out)
}
