package repository

import (
	"github.com/eichdmk/qrMenu/entity"
	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// ---------------- Menu items ----------------

func (r *MenuRepository) ListMenuItems(categoryID uint) ([]entity.MenuItem, error) {
	q := r.DB.Order("id ASC")
	if categoryID != 0 {
		q = q.Where("category_id = ?", categoryID)
	}
	var out []entity.MenuItem
	err := q.Find(&out).Error
	return out, err
}

func (r *MenuRepository) GetMenuItem(id uint) (*entity.MenuItem, error) {
	var m entity.MenuItem
	if err := r.DB.First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMenuItemsByIDs loads price/availability for a pre-order snapshot.
func (r *MenuRepository) GetMenuItemsByIDs(db *gorm.DB, ids []uint) ([]entity.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []entity.MenuItem
	err := db.Where("id IN ?", ids).Find(&out).Error
	return out, err
}

func (r *MenuRepository) CreateMenuItem(m *entity.MenuItem) error {
	return r.DB.Create(m).Error
}

func (r *MenuRepository) UpdateMenuItem(id uint, fields map[string]any) (int64, error) {
	res := r.DB.Model(&entity.MenuItem{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *MenuRepository) DeleteMenuItem(id uint) (int64, error) {
	res := r.DB.Unscoped().Delete(&entity.MenuItem{}, id)
	return res.RowsAffected, res.Error
}

// ---------------- Categories ----------------

func (r *MenuRepository) ListCategories() ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.Order("position ASC, id ASC").Find(&out).Error
	return out, err
}

func (r *MenuRepository) CreateCategory(cat *entity.Category) error {
	return r.DB.Create(cat).Error
}

func (r *MenuRepository) UpdateCategory(id uint, fields map[string]any) (int64, error) {
	res := r.DB.Model(&entity.Category{}).Where("id = ?", id).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *MenuRepository) DeleteCategory(id uint) (int64, error) {
	res := r.DB.Unscoped().Delete(&entity.Category{}, id)
	return res.RowsAffected, res.Error
}
