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

type CreateSalesmanRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address"`
}

type UpdateSalesmanRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Address *string `json:"address"`
}

type SalesmanResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Email     string `json:"email"`
	Address   string `json:"address"`
	CreatedAt string `json:"created_at"`
}

type SalesmanService interface {
	CreateSalesman(ctx context.Context, actor Actor, req CreateSalesmanRequest) (SalesmanResponse, error)
	GetSalesman(ctx context.Context, id string) (SalesmanResponse, error)
	ListSalesmen(ctx context.Context, page, limit int) ([]SalesmanResponse, int64, error)
	UpdateSalesman(ctx context.Context, actor Actor, id string, req UpdateSalesmanRequest) (SalesmanResponse, error)
	DeleteSalesman(ctx context.Context, actor Actor, id string) error
}

type salesmanService struct {
	repo     repository.SalesmanRepository
	auditSvc AuditService
}

func NewSalesmanService(repo repository.SalesmanRepository, auditSvc AuditService) SalesmanService {
	return &salesmanService{repo: repo, auditSvc: auditSvc}
}

func (s *salesmanService) CreateSalesman(ctx context.Context, actor Actor, req CreateSalesmanRequest) (SalesmanResponse, error) {
	salesman := model.Salesman{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Address: req.Address,
	}

	if err := s.repo.Create(ctx, &salesman); err != nil {
		return SalesmanResponse{}, fmt.Errorf("failed to create salesman: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionCreate,
		EntityType: model.EntitySalesman,
		EntityID:   salesman.ID.String(),
		Details:    map[string]string{"name": salesman.Name},
		Success:    true,
	})

	return toSalesmanResponse(salesman), nil
}

func (s *salesmanService) GetSalesman(ctx context.Context, id string) (SalesmanResponse, error) {
	salesmanID, err := uuid.Parse(id)
	if err != nil {
		return SalesmanResponse{}, fmt.Errorf("invalid salesman id: %w", apperr.ErrValidation)
	}

	salesman, err := s.repo.FindByID(ctx, salesmanID)
	if err != nil {
		return SalesmanResponse{}, fmt.Errorf("salesman not found: %w", apperr.ErrNotFound)
	}

	return toSalesmanResponse(*salesman), nil
}

func (s *salesmanService) ListSalesmen(ctx context.Context, page, limit int) ([]SalesmanResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	salesmen, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch salesmen: %w", err)
	}

	result := make([]SalesmanResponse, 0, len(salesmen))
	for _, sm := range salesmen {
		result = append(result, toSalesmanResponse(sm))
	}
	return result, total, nil
}

func (s *salesmanService) UpdateSalesman(ctx context.Context, actor Actor, id string, req UpdateSalesmanRequest) (SalesmanResponse, error) {
	salesmanID, err := uuid.Parse(id)
	if err != nil {
		return SalesmanResponse{}, fmt.Errorf("invalid salesman id: %w", apperr.ErrValidation)
	}

	salesman, err := s.repo.FindByID(ctx, salesmanID)
	if err != nil {
		return SalesmanResponse{}, fmt.Errorf("salesman not found: %w", apperr.ErrNotFound)
	}

	if req.Name != nil {
		salesman.Name = *req.Name
	}
	if req.Contact != nil {
		salesman.Contact = *req.Contact
	}
	if req.Email != nil {
		salesman.Email = *req.Email
	}
	if req.Address != nil {
		salesman.Address = *req.Address
	}

	if err := s.repo.Update(ctx, salesman); err != nil {
		return SalesmanResponse{}, fmt.Errorf("failed to update salesman: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntitySalesman,
		EntityID:   salesman.ID.String(),
		Details:    map[string]string{"name": salesman.Name},
		Success:    true,
	})

	return toSalesmanResponse(*salesman), nil
}

func (s *salesmanService) DeleteSalesman(ctx context.Context, actor Actor, id string) error {
	salesmanID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid salesman id: %w", apperr.ErrValidation)
	}

	salesman, err := s.repo.FindByID(ctx, salesmanID)
	if err != nil {
		return fmt.Errorf("salesman not found: %w", apperr.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, salesmanID); err != nil {
		return fmt.Errorf("failed to delete salesman: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionDelete,
		EntityType: model.EntitySalesman,
		EntityID:   id,
		Details:    map[string]string{"name": salesman.Name},
		Success:    true,
	})

	return nil
}

func toSalesmanResponse(s model.Salesman) SalesmanResponse {
	return SalesmanResponse{
		ID:        s.ID.String(),
		Name:      s.Name,
		Contact:   s.Contact,
		Email:     s.Email,
		Address:   s.Address,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
	}
}
