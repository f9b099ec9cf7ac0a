package service

import (
	"context"
	"fmt"
	"time"

	"creditdesk/internal/model"
	"creditdesk/internal/repository"
	"creditdesk/pkg/apperr"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateVendorRequest struct {
	Name          string `json:"name" binding:"required"`
	VendorType    string `json:"vendor_type"`
	ContactNumber string `json:"contact_number"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	GSTNumber     string `json:"gst_number"`
}

type UpdateVendorRequest struct {
	Name          *string `json:"name"`
	VendorType    *string `json:"vendor_type"`
	ContactNumber *string `json:"contact_number"`
	Email         *string `json:"email" binding:"omitempty,email"`
	Address       *string `json:"address"`
	GSTNumber     *string `json:"gst_number"`
}

type VendorResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	VendorType        string `json:"vendor_type"`
	ContactNumber     string `json:"contact_number"`
	Email             string `json:"email"`
	Address           string `json:"address"`
	GSTNumber         string `json:"gst_number"`
	TotalCredit       string `json:"total_credit"`
	OutstandingCredit string `json:"outstanding_credit"`
	ClearedCredit     string `json:"cleared_credit"`
	CreatedAt         string `json:"created_at"`
}

// --- Interface ---

type VendorService interface {
	CreateVendor(ctx context.Context, actor Actor, req CreateVendorRequest) (VendorResponse, error)
	GetVendor(ctx context.Context, id string) (VendorResponse, error)
	ListVendors(ctx context.Context, page, limit int) ([]VendorResponse, int64, error)
	UpdateVendor(ctx context.Context, actor Actor, id string, req UpdateVendorRequest) (VendorResponse, error)
	DeleteVendor(ctx context.Context, actor Actor, id string) error
}

type vendorService struct {
	repo     repository.VendorRepository
	auditSvc AuditService
}

func NewVendorService(repo repository.VendorRepository, auditSvc AuditService) VendorService {
	return &vendorService{repo: repo, auditSvc: auditSvc}
}

// --- Implementation ---

func (s *vendorService) CreateVendor(ctx context.Context, actor Actor, req CreateVendorRequest) (VendorResponse, error) {
	if _, err := s.repo.FindByName(ctx, req.Name); err == nil {
		return VendorResponse{}, fmt.Errorf("vendor %q already exists: %w", req.Name, apperr.ErrDuplicateState)
	}

	vendor := model.Vendor{
		Name:          req.Name,
		VendorType:    req.VendorType,
		ContactNumber: req.ContactNumber,
		Email:         req.Email,
		Address:       req.Address,
		GSTNumber:     req.GSTNumber,
	}

	if err := s.repo.Create(ctx, &vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to create vendor: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionCreate,
		EntityType: model.EntityVendor,
		EntityID:   vendor.ID.String(),
		Details:    map[string]string{"name": vendor.Name},
		Success:    true,
	})

	return toVendorResponse(vendor), nil
}

func (s *vendorService) GetVendor(ctx context.Context, id string) (VendorResponse, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("invalid vendor id: %w", apperr.ErrValidation)
	}

	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
	}

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) ListVendors(ctx context.Context, page, limit int) ([]VendorResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	vendors, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	result := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		result = append(result, toVendorResponse(v))
	}
	return result, total, nil
}

func (s *vendorService) UpdateVendor(ctx context.Context, actor Actor, id string, req UpdateVendorRequest) (VendorResponse, error) {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("invalid vendor id: %w", apperr.ErrValidation)
	}

	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return VendorResponse{}, fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
	}

	changes := map[string]string{}

	if req.Name != nil && *req.Name != vendor.Name {
		if _, findErr := s.repo.FindByName(ctx, *req.Name); findErr == nil {
			return VendorResponse{}, fmt.Errorf("vendor %q already exists: %w", *req.Name, apperr.ErrDuplicateState)
		}
		changes["name"] = vendor.Name + " -> " + *req.Name
		vendor.Name = *req.Name
	}
	if req.VendorType != nil {
		vendor.VendorType = *req.VendorType
	}
	if req.ContactNumber != nil {
		vendor.ContactNumber = *req.ContactNumber
	}
	if req.Email != nil {
		vendor.Email = *req.Email
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if req.GSTNumber != nil {
		vendor.GSTNumber = *req.GSTNumber
	}

	if err := s.repo.Update(ctx, vendor); err != nil {
		return VendorResponse{}, fmt.Errorf("failed to update vendor: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityVendor,
		EntityID:   vendor.ID.String(),
		Details:    changes,
		Success:    true,
	})

	return toVendorResponse(*vendor), nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, actor Actor, id string) error {
	vendorID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid vendor id: %w", apperr.ErrValidation)
	}

	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
	}

	if !vendor.OutstandingCredit.IsZero() {
		return fmt.Errorf("vendor has outstanding credit: %w", apperr.ErrValidation)
	}

	if err := s.repo.Delete(ctx, vendorID); err != nil {
		return fmt.Errorf("failed to delete vendor: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionDelete,
		EntityType: model.EntityVendor,
		EntityID:   id,
		Details:    map[string]string{"name": vendor.Name},
		Success:    true,
	})

	return nil
}

// --- Mapping ---

func toVendorResponse(v model.Vendor) VendorResponse {
	return VendorResponse{
		ID:                v.ID.String(),
		Name:              v.Name,
		VendorType:        v.VendorType,
		ContactNumber:     v.ContactNumber,
		Email:             v.Email,
		Address:           v.Address,
		GSTNumber:         v.GSTNumber,
		TotalCredit:       v.TotalCredit.StringFixed(2),
		OutstandingCredit: v.OutstandingCredit.StringFixed(2),
		ClearedCredit:     v.ClearedCredit.StringFixed(2),
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
	}
}
