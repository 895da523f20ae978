package controllers

import (
	"strconv"

	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/services"
	"github.com/gin-gonic/gin"
)

type ReservationController struct {
	Service *services.ReservationService
}

func NewReservationController(svc *services.ReservationService) *ReservationController {
	return &ReservationController{Service: svc}
}

// Create handles the public booking POST, optionally with a pre-order.
func (ctl *ReservationController) Create(c *gin.Context) {
	var req services.CreateReservationReq
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

func (ctl *ReservationController) List(c *gin.Context) {
	out, err := ctl.Service.List()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

func (ctl *ReservationController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid reservation id")
		return
	}

	out, err := ctl.Service.Get(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, out)
}

func (ctl *ReservationController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid reservation id")
		return
	}

	var req services.UpdateReservationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}

	if err := ctl.Service.Update(c.Request.Context(), uint(id), &req); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"reservation_id": id})
}

func (ctl *ReservationController) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid reservation id")
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
	resp.OK(c, gin.H{"reservation_id": id, "status": req.Status})
}

func (ctl *ReservationController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid reservation id")
		return
	}

	if err := ctl.Service.Delete(uint(id)); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
