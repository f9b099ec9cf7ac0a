package repository

import (
	"context"

	"creditdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SalesmanRepository interface {
	Create(ctx context.Context, salesman *model.Salesman) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Salesman, error)
	List(ctx context.Context, page, limit int) ([]model.Salesman, int64, error)
	Update(ctx context.Context, salesman *model.Salesman) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type salesmanRepository struct {
	db *gorm.DB
}

func NewSalesmanRepository(db *gorm.DB) SalesmanRepository {
	return &salesmanRepository{db: db}
}

func (r *salesmanRepository) Create(ctx context.Context, salesman *model.Salesman) error {
	return GetDB(ctx, r.db).Create(salesman).Error
}

func (r *salesmanRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Salesman, error) {
	var salesman model.Salesman
	if err := GetDB(ctx, r.db).First(&salesman, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &salesman, nil
}

func (r *salesmanRepository) List(ctx context.Context, page, limit int) ([]model.Salesman, int64, error) {
	var salesmen []model.Salesman
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Salesman{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("name asc").Offset(offset).Limit(limit).Find(&salesmen).Error; err != nil {
		return nil, 0, err
	}

	return salesmen, total, nil
}

func (r *salesmanRepository) Update(ctx context.Context, salesman *model.Salesman) error {
	return GetDB(ctx, r.db).Save(salesman).Error
}

func (r *salesmanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Salesman{}).Error
}
