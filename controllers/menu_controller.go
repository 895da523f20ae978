package controllers

import (
	"errors"
	"strconv"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MenuController struct {
	Repo *repository.MenuRepository
}

func NewMenuController(repo *repository.MenuRepository) *MenuController {
	return &MenuController{Repo: repo}
}

// List returns menu items, optionally filtered by ?category_id.
func (ctl *MenuController) List(c *gin.Context) {
	categoryID, _ := strconv.ParseUint(c.DefaultQuery("category_id", "0"), 10, 64)
	items, err := ctl.Repo.ListMenuItems(uint(categoryID))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, items)
}

func (ctl *MenuController) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid menu item id")
		return
	}

	m, err := ctl.Repo.GetMenuItem(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			resp.NotFound(c, "menu item not found")
			return
		}
		writeServiceError(c, err)
		return
	}
	resp.OK(c, m)
}

func (ctl *MenuController) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       int64  `json:"price"`
		ImageURL    string `json:"image_url"`
		IsAvailable *bool  `json:"is_available"`
		CategoryID  uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		resp.BadRequest(c, "name is required")
		return
	}
	if req.Price < 0 {
		resp.BadRequest(c, "price must be >= 0")
		return
	}
	if req.CategoryID == 0 {
		resp.BadRequest(c, "category_id is required")
		return
	}

	m := entity.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		IsAvailable: true,
		CategoryID:  req.CategoryID,
	}
	if req.IsAvailable != nil {
		m.IsAvailable = *req.IsAvailable
	}
	if err := ctl.Repo.CreateMenuItem(&m); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.Created(c, m)
}

func (ctl *MenuController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid menu item id")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Price       *int64  `json:"price"`
		ImageURL    *string `json:"image_url"`
		IsAvailable *bool   `json:"is_available"`
		CategoryID  *uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, "invalid request body")
		return
	}

	fields := map[string]any{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			resp.BadRequest(c, "price must be >= 0")
			return
		}
		fields["price"] = *req.Price
	}
	if req.ImageURL != nil {
		fields["image_url"] = *req.ImageURL
	}
	if req.IsAvailable != nil {
		fields["is_available"] = *req.IsAvailable
	}
	if req.CategoryID != nil {
		fields["category_id"] = *req.CategoryID
	}
	if len(fields) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	affected, err := ctl.Repo.UpdateMenuItem(uint(id), fields)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "menu item not found")
		return
	}
	resp.OK(c, gin.H{"menu_item_id": id})
}

func (ctl *MenuController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid menu item id")
		return
	}

	affected, err := ctl.Repo.DeleteMenuItem(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "menu item not found")
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
