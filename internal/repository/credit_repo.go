package repository

import (
	"context"
	"time"

	"creditdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreditListFilter narrows credit transaction listings. OverdueOnly matches
// rows already stored as Overdue plus Pending rows past DueBefore, since
// overdue is derived lazily and stored rows can lag.
type CreditListFilter struct {
	Status      string
	OverdueOnly bool
	DueBefore   time.Time
	VendorID    *uuid.UUID
	SalesmanID  *uuid.UUID
	Page        int
	Limit       int
}

type CreditRepository interface {
	Create(ctx context.Context, credit *model.CreditTransaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CreditTransaction, error)
	FindByBillID(ctx context.Context, billID uuid.UUID) (*model.CreditTransaction, error)
	List(ctx context.Context, filter CreditListFilter) ([]model.CreditTransaction, int64, error)
	Update(ctx context.Context, credit *model.CreditTransaction) error
}

type creditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) CreditRepository {
	return &creditRepository{db: db}
}

func (r *creditRepository) Create(ctx context.Context, credit *model.CreditTransaction) error {
	return GetDB(ctx, r.db).Create(credit).Error
}

func (r *creditRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.CreditTransaction, error) {
	var credit model.CreditTransaction
	if err := GetDB(ctx, r.db).Preload("Vendor").Preload("Salesman").First(&credit, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepository) FindByBillID(ctx context.Context, billID uuid.UUID) (*model.CreditTransaction, error) {
	var credit model.CreditTransaction
	if err := GetDB(ctx, r.db).First(&credit, "bill_id = ?", billID).Error; err != nil {
		return nil, err
	}
	return &credit, nil
}

func (r *creditRepository) List(ctx context.Context, filter CreditListFilter) ([]model.CreditTransaction, int64, error) {
	var credits []model.CreditTransaction
	var total int64

	db := GetDB(ctx, r.db)
	query := applyCreditFilter(db.Model(&model.CreditTransaction{}), filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	fetchQuery := applyCreditFilter(db.Preload("Vendor").Preload("Salesman"), filter)
	if err := fetchQuery.Order("due_date asc").Offset(offset).Limit(filter.Limit).Find(&credits).Error; err != nil {
		return nil, 0, err
	}

	return credits, total, nil
}

func applyCreditFilter(query *gorm.DB, filter CreditListFilter) *gorm.DB {
	if filter.OverdueOnly {
		query = query.Where("status = ? OR (status = ? AND due_date < ?)",
			model.CreditOverdue, model.CreditPending, filter.DueBefore)
	} else if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.VendorID != nil {
		query = query.Where("vendor_id = ?", *filter.VendorID)
	}
	if filter.SalesmanID != nil {
		query = query.Where("salesman_id = ?", *filter.SalesmanID)
	}
	return query
}

func (r *creditRepository) Update(ctx context.Context, credit *model.CreditTransaction) error {
	return GetDB(ctx, r.db).Save(credit).Error
}
