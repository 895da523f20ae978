package controllers

import (
	"strconv"

	"github.com/eichdmk/qrMenu/entity"
	"github.com/eichdmk/qrMenu/pkg/resp"
	"github.com/eichdmk/qrMenu/repository"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	Repo *repository.MenuRepository
}

func NewCategoryController(repo *repository.MenuRepository) *CategoryController {
	return &CategoryController{Repo: repo}
}

func (ctl *CategoryController) List(c *gin.Context) {
	cats, err := ctl.Repo.ListCategories()
	if err != nil {
		writeServiceError(c, err)
		return
	}
	resp.OK(c, cats)
}

func (ctl *CategoryController) Create(c *gin.Context) {
	var req struct {
		Name     string `json:"name"`
		Position int    `json:"position"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		resp.BadRequest(c, "name is required")
		return
	}

	cat := entity.Category{Name: req.Name, Position: req.Position}
	if err := ctl.Repo.CreateCategory(&cat); err != nil {
		writeServiceError(c, err)
		return
	}
	resp.Created(c, cat)
}

func (ctl *CategoryController) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid category id")
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Position *int    `json:"position"`
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
	if req.Position != nil {
		fields["position"] = *req.Position
	}
	if len(fields) == 0 {
		resp.BadRequest(c, "nothing to update")
		return
	}

	affected, err := ctl.Repo.UpdateCategory(uint(id), fields)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "category not found")
		return
	}
	resp.OK(c, gin.H{"category_id": id})
}

func (ctl *CategoryController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid category id")
		return
	}

	affected, err := ctl.Repo.DeleteCategory(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if affected == 0 {
		resp.NotFound(c, "category not found")
		return
	}
	resp.OK(c, gin.H{"deleted": true})
}
