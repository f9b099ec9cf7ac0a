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

type UpdateDeliveryStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING DISPATCHED DELIVERED"`
}

type DeliveryResponse struct {
	ID           string  `json:"id"`
	BillID       string  `json:"bill_id"`
	BillNo       string  `json:"bill_no"`
	SalesmanID   *string `json:"salesman_id"`
	SalesmanName string  `json:"salesman_name"`
	Status       string  `json:"status"`
	DeliveredAt  *string `json:"delivered_at"`
	CreatedAt    string  `json:"created_at"`
}

// deliveryRank orders the forward-only status chain
var deliveryRank = map[string]int{
	model.DeliveryPending:    0,
	model.DeliveryDispatched: 1,
	model.DeliveryDelivered:  2,
}

// DeliveryService tracks goods hand-offs. Status moves strictly forward
// through PENDING, DISPATCHED, DELIVERED; no transition ever goes back.
type DeliveryService interface {
	GetDelivery(ctx context.Context, id string) (DeliveryResponse, error)
	ListDeliveries(ctx context.Context, status string, page, limit int) ([]DeliveryResponse, int64, error)
	UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateDeliveryStatusRequest) (DeliveryResponse, error)
}

type deliveryService struct {
	repo     repository.DeliveryRepository
	auditSvc AuditService
}

func NewDeliveryService(repo repository.DeliveryRepository, auditSvc AuditService) DeliveryService {
	return &deliveryService{repo: repo, auditSvc: auditSvc}
}

func (s *deliveryService) GetDelivery(ctx context.Context, id string) (DeliveryResponse, error) {
	deliveryID, err := uuid.Parse(id)
	if err != nil {
		return DeliveryResponse{}, fmt.Errorf("invalid delivery id: %w", apperr.ErrValidation)
	}

	delivery, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return DeliveryResponse{}, fmt.Errorf("delivery not found: %w", apperr.ErrNotFound)
	}

	return toDeliveryResponse(*delivery), nil
}

func (s *deliveryService) ListDeliveries(ctx context.Context, status string, page, limit int) ([]DeliveryResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	deliveries, total, err := s.repo.List(ctx, status, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch deliveries: %w", err)
	}

	result := make([]DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		result = append(result, toDeliveryResponse(d))
	}
	return result, total, nil
}

func (s *deliveryService) UpdateStatus(ctx context.Context, actor Actor, id string, req UpdateDeliveryStatusRequest) (DeliveryResponse, error) {
	deliveryID, err := uuid.Parse(id)
	if err != nil {
		return DeliveryResponse{}, fmt.Errorf("invalid delivery id: %w", apperr.ErrValidation)
	}

	delivery, err := s.repo.FindByID(ctx, deliveryID)
	if err != nil {
		return DeliveryResponse{}, fmt.Errorf("delivery not found: %w", apperr.ErrNotFound)
	}

	if deliveryRank[req.Status] <= deliveryRank[delivery.Status] {
		return DeliveryResponse{}, fmt.Errorf("cannot move delivery from %s to %s: %w",
			delivery.Status, req.Status, apperr.ErrValidation)
	}

	before := delivery.Status
	delivery.Status = req.Status
	delivery.UpdatedBy = actor.ID
	if req.Status == model.DeliveryDelivered {
		now := time.Now()
		delivery.DeliveredAt = &now
	}

	if err := s.repo.Update(ctx, delivery); err != nil {
		return DeliveryResponse{}, fmt.Errorf("failed to update delivery: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityDelivery,
		EntityID:   delivery.ID.String(),
		Details:    map[string]string{"status": before + " -> " + req.Status},
		Success:    true,
	})

	return toDeliveryResponse(*delivery), nil
}

func toDeliveryResponse(d model.Delivery) DeliveryResponse {
	resp := DeliveryResponse{
		ID:        d.ID.String(),
		BillID:    d.BillID.String(),
		Status:    d.Status,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}

	if d.Bill != nil {
		resp.BillNo = d.Bill.BillNo
	}
	if d.SalesmanID != nil {
		s := d.SalesmanID.String()
		resp.SalesmanID = &s
	}
	if d.Salesman != nil {
		resp.SalesmanName = d.Salesman.Name
	}
	if d.DeliveredAt != nil {
		s := d.DeliveredAt.Format(time.RFC3339)
		resp.DeliveredAt = &s
	}

	return resp
}
