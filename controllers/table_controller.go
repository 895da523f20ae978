package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/eichdmk/qrMenu/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableController struct {
	DB              *gorm.DB
	Repo            *repository.TableRepository
	ReservationRepo *repository.ReservationRepository
	Availability    *services.AvailabilityService
}

func NewTableController(db *gorm.DB, repo *repository.TableRepository, reservationRepo *repository.ReservationRepository, availability *services.AvailabilityService) *TableController {
	return &TableController{DB: db, Repo: repo, ReservationRepo: reservationRepo, Availability: availability}
}

type tableAvailabilityView struct {
	entity.Table
	Available bool   `json:"available"`
	Reason    string `json:"reason"`
}

// List returns all tables. With ?start_at&end_at (RFC3339) each table also
// carries whether it could take a booking for that window and why not.
func (ctl *TableController) List(c *gin.Context) {
	tables, err := ctl.Repo.ListTables()
	if err != nil {
		writeServiceError(c, err)
		return
	}

	startStr, endStr := c.Query("start_at"), c.Query("end_at")
	if startStr == "" || endStr == "" {
		resp.OK(c, tables)
		return
	}

	start, err1 := time.Parse(time.RFC3339, startStr)
	end, err2 := time.Parse(time.RFC3339, endStr)
	if err1 != nil || err2 != nil || !start.Before(end) {
		resp.BadRequest(c, "start_at and end_at must be RFC3339 with start before end")
		return
	}

	out := make([]tableAvailabilityView, 0, len(tables))
	for i := range tables {
		ok, reason, err := ctl.Availability.CheckTable(ctl.DB, &tables[i], start, end, 0)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		out = append(out, tableAvailabilityView{Table: tables[i], Available: ok, Reason: reason})
	}
	resp.OK(c, out)
}

// ByToken resolves the table behind a printed QR code.
func (ctl *TableController) ByToken(c *gin.Context) {
	t, err := ctl.Repo.GetTableByToken(c.Param("token"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "table not found")
			return
		}
		writeServiceError(c, err)
		return
	}
	resp.OK(c, t)
}

func (ctl *TableController) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name"`
		Seats int    `json:"seats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		resp.BadRequest(c, "name is required")
		return
	}
	if req.Seats <= 0 {
		resp.BadRequest(c, "seats must be positive")
		return
	}

	t := entity.Table{
		Name:  req.Name,
		Token: uuid.NewString(),
		Seats: req.Seats,
	}
	if err := ctl.Repo.CreateTable(&t); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.Created(c, t)
}

func (ctl *TableController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}

	var req struct {
		Name  *string `json:"name"`
		Seats *int    `json:"seats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			resp.BadRequest(c, "name cannot be empty")
			return
		}
		fields["name"] = *req.Name
	}
	if req.Seats != nil {
		if *req.Seats <= 0 {
			resp.BadRequest(c, "seats must be positive")
			return
		}
		fields["seats"] = *req.Seats
	}
	if len(fields) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	affected, err := ctl.Repo.UpdateTable(uint(id), fields)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "table not found")
		return
	}
	resp.OK(c, gin.H{"table_id": id})
}

// SetOccupancy flips the manual walk-in flag.
func (ctl *TableController) SetOccupancy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}

	var req struct {
		IsOccupied *bool `json:"is_occupied"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsOccupied == nil {
		resp.BadRequest(c, "is_occupied is required")
		return
	}

	affected, err := ctl.Repo.UpdateTable(uint(id), map[string]any{"is_occupied": *req.IsOccupied})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "table not found")
		return
	}
	resp.OK(c, gin.H{"table_id": id, "is_occupied": *req.IsOccupied})
}

// Delete refuses while orders or bookings still reference the table.
func (ctl *TableController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid table id")
		return
	}

	hasOrders, err := ctl.Availability.HasActiveOrders(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if hasOrders {
		resp.Conflict(c, "table has active orders")
		return
	}

	bookings, err := ctl.ReservationRepo.CountActiveForTable(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if bookings > 0 {
		resp.Conflict(c, "table has active reservations")
		return
	}

	affected, err := ctl.Repo.DeleteTable(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "table not found")
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
