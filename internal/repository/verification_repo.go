package repository

import (
	"context"

	"creditdesk/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	CreateBatch(ctx context.Context, entries []model.VerificationLog) error
	ListByBill(ctx context.Context, billID uuid.UUID) ([]model.VerificationLog, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) CreateBatch(ctx context.Context, entries []model.VerificationLog) error {
	if len(entries) == 0 {
		return nil
	}
	return GetDB(ctx, r.db).Create(&entries).Error
}

func (r *verificationRepository) ListByBill(ctx context.Context, billID uuid.UUID) ([]model.VerificationLog, error) {
	var logs []model.VerificationLog
	if err := GetDB(ctx, r.db).Where("bill_id = ?", billID).Order("created_at desc").Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
