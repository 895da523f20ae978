package repository

import (
	"github.com/eichdmk/qrMenu/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TableRepository struct {
	DB *gorm.DB
}

func NewTableRepository(db *gorm.DB) *TableRepository {
	return &TableRepository{DB: db}
}

func (r *TableRepository) CreateTable(t *entity.Table) error {
	return r.DB.Create(t).Error
}

func (r *TableRepository) GetTable(tableID uint) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.First(&t, tableID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTableForUpdate reads the table inside tx, holding a row lock on
// dialects that support it. Serializes concurrent check-and-insert on the
// same table during reservation creation.
func (r *TableRepository) GetTableForUpdate(tx *gorm.DB, tableID uint) (*entity.Table, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var t entity.Table
	if err := q.First(&t, tableID).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) GetTableByToken(token string) (*entity.Table, error) {
	var t entity.Table
	if err := r.DB.Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TableRepository) ListTables() ([]entity.Table, error) {
	var out []entity.Table
	err := r.DB.Order("id ASC").Find(&out).Error
	return out, err
}

func (r *TableRepository) UpdateTable(tableID uint, fields map[string]any) (int64, error) {
	res := r.DB.Model(&entity.Table{}).Where("id = ?", tableID).Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *TableRepository) DeleteTable(tableID uint) (int64, error) {
	res := r.DB.Unscoped().Delete(&entity.Table{}, tableID)
	return res.RowsAffected, res.Error
}
