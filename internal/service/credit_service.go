package service

import (
	"context"
	"fmt"
	"time"

	"creditdesk/internal/model"
	"creditdesk/internal/rbac"
	"creditdesk/internal/repository"
	"creditdesk/internal/websocket"
	"creditdesk/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultCreditDueDays is the fallback payment window when no due date is given
const DefaultCreditDueDays = 30

// --- DTOs ---

type CreateCreditRequest struct {
	BillNo     string `json:"bill_no"`
	VendorID   string `json:"vendor_id"`
	SalesmanID string `json:"salesman_id"`
	Amount     string `json:"amount" binding:"required"`
	DueDate    string `json:"due_date"` // YYYY-MM-DD, defaults to creation+dueDays
}

type CreditFilter struct {
	Status     string // Pending, Cleared, Overdue (derived) or empty for all
	VendorID   string
	SalesmanID string
	Page       int
	Limit      int
}

type CreditResponse struct {
	ID            string  `json:"id"`
	BillID        *string `json:"bill_id"`
	BillNo        string  `json:"bill_no"`
	VendorID      *string `json:"vendor_id"`
	VendorName    string  `json:"vendor_name"`
	SalesmanID    *string `json:"salesman_id"`
	SalesmanName  string  `json:"salesman_name"`
	Amount        string  `json:"amount"`
	DueDate       string  `json:"due_date"`
	Status        string  `json:"status"`
	PaymentMethod string  `json:"payment_method"`
	ClearedBy     *string `json:"cleared_by"`
	ClearedAt     *string `json:"cleared_at"`
	CreatedAt     string  `json:"created_at"`
}

// --- Interface ---

// CreditService manages deferred-payment obligations. Overdue is a derived
// view: a Pending transaction past its due date reads as Overdue on every
// Get/List, and the stored row is reconciled opportunistically on Get.
type CreditService interface {
	CreateCredit(ctx context.Context, actor Actor, req CreateCreditRequest) (CreditResponse, error)
	CreateFromBill(ctx context.Context, bill *model.Bill) (*model.CreditTransaction, error)
	GetCredit(ctx context.Context, id string) (CreditResponse, error)
	ListCredits(ctx context.Context, filter CreditFilter) ([]CreditResponse, int64, error)
	ClearCredit(ctx context.Context, actor Actor, id string) (CreditResponse, error)
}

type creditService struct {
	creditRepo repository.CreditRepository
	vendorRepo repository.VendorRepository
	auditSvc   AuditService
	txManager  repository.TransactionManager
	notifier   Notifier
	dueDays    int
}

func NewCreditService(
	creditRepo repository.CreditRepository,
	vendorRepo repository.VendorRepository,
	auditSvc AuditService,
	txManager repository.TransactionManager,
	notifier Notifier,
	dueDays int,
) CreditService {
	if dueDays <= 0 {
		dueDays = DefaultCreditDueDays
	}
	return &creditService{
		creditRepo: creditRepo,
		vendorRepo: vendorRepo,
		auditSvc:   auditSvc,
		txManager:  txManager,
		notifier:   notifier,
		dueDays:    dueDays,
	}
}

// --- Implementation ---

func (s *creditService) CreateCredit(ctx context.Context, actor Actor, req CreateCreditRequest) (CreditResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return CreditResponse{}, fmt.Errorf("amount must be a positive number: %w", apperr.ErrValidation)
	}

	dueDate := time.Now().AddDate(0, 0, s.dueDays)
	if req.DueDate != "" {
		dueDate, err = time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return CreditResponse{}, fmt.Errorf("invalid due_date, expected YYYY-MM-DD: %w", apperr.ErrValidation)
		}
	}

	credit := model.CreditTransaction{
		BillNo:        req.BillNo,
		Amount:        amount,
		DueDate:       dueDate,
		Status:        model.CreditPending,
		PaymentMethod: model.PaymentCredit,
	}

	if req.VendorID != "" {
		vendorID, parseErr := uuid.Parse(req.VendorID)
		if parseErr != nil {
			return CreditResponse{}, fmt.Errorf("invalid vendor_id: %w", apperr.ErrValidation)
		}
		if _, findErr := s.vendorRepo.FindByID(ctx, vendorID); findErr != nil {
			return CreditResponse{}, fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
		}
		credit.VendorID = &vendorID
	}

	if req.SalesmanID != "" {
		salesmanID, parseErr := uuid.Parse(req.SalesmanID)
		if parseErr != nil {
			return CreditResponse{}, fmt.Errorf("invalid salesman_id: %w", apperr.ErrValidation)
		}
		credit.SalesmanID = &salesmanID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.creditRepo.Create(txCtx, &credit); createErr != nil {
			return fmt.Errorf("failed to create credit transaction: %w", createErr)
		}
		return s.applyVendorRollup(txCtx, credit.VendorID, credit.Amount, credit.Amount, decimal.Zero)
	})
	if err != nil {
		return CreditResponse{}, err
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionCreate,
		EntityType: model.EntityCredit,
		EntityID:   credit.ID.String(),
		Details:    map[string]string{"amount": amount.StringFixed(2), "due_date": dueDate.Format("2006-01-02")},
		Success:    true,
	})

	return toCreditResponse(credit, time.Now()), nil
}

// CreateFromBill opens a credit transaction for a Credit-payment bill. Must
// run inside the caller's transaction; at most one transaction may exist per
// bill, a second attempt fails with ErrDuplicateState. The payment window
// starts when the transaction is opened, not at the bill date, so a backdated
// bill still gets the full window.
func (s *creditService) CreateFromBill(ctx context.Context, bill *model.Bill) (*model.CreditTransaction, error) {
	if _, err := s.creditRepo.FindByBillID(ctx, bill.ID); err == nil {
		return nil, fmt.Errorf("credit transaction already exists for bill %s: %w", bill.BillNo, apperr.ErrDuplicateState)
	}

	credit := &model.CreditTransaction{
		BillID:        &bill.ID,
		BillNo:        bill.BillNo,
		VendorID:      bill.VendorID,
		SalesmanID:    bill.SalesmanID,
		Amount:        bill.Amount,
		DueDate:       time.Now().AddDate(0, 0, s.dueDays),
		Status:        model.CreditPending,
		PaymentMethod: model.PaymentCredit,
	}

	if err := s.creditRepo.Create(ctx, credit); err != nil {
		return nil, fmt.Errorf("failed to create credit transaction: %w", err)
	}

	if err := s.applyVendorRollup(ctx, credit.VendorID, credit.Amount, credit.Amount, decimal.Zero); err != nil {
		return nil, err
	}

	return credit, nil
}

func (s *creditService) GetCredit(ctx context.Context, id string) (CreditResponse, error) {
	creditID, err := uuid.Parse(id)
	if err != nil {
		return CreditResponse{}, fmt.Errorf("invalid credit id: %w", apperr.ErrValidation)
	}

	credit, err := s.creditRepo.FindByID(ctx, creditID)
	if err != nil {
		return CreditResponse{}, fmt.Errorf("credit transaction not found: %w", apperr.ErrNotFound)
	}

	now := time.Now()
	// Reconcile the stored row when the derived status moved past it.
	// Best-effort: the response carries the derived status either way.
	if derived := credit.EffectiveStatus(now); derived != credit.Status {
		credit.Status = derived
		if updateErr := s.creditRepo.Update(ctx, credit); updateErr != nil {
			logrus.WithError(updateErr).Warn("failed to persist derived overdue status")
		}
		if derived == model.CreditOverdue {
			s.notifier.Notify(websocket.EventCreditOverdue, map[string]string{
				"credit_id": credit.ID.String(),
				"bill_no":   credit.BillNo,
				"due_date":  credit.DueDate.Format("2006-01-02"),
			})
		}
	}

	return toCreditResponse(*credit, now), nil
}

func (s *creditService) ListCredits(ctx context.Context, filter CreditFilter) ([]CreditResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.CreditListFilter{
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	now := time.Now()
	if filter.Status == model.CreditOverdue {
		repoFilter.OverdueOnly = true
		repoFilter.DueBefore = now
	} else {
		repoFilter.Status = filter.Status
	}
	if filter.VendorID != "" {
		vendorID, err := uuid.Parse(filter.VendorID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid vendor_id: %w", apperr.ErrValidation)
		}
		repoFilter.VendorID = &vendorID
	}
	if filter.SalesmanID != "" {
		salesmanID, err := uuid.Parse(filter.SalesmanID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid salesman_id: %w", apperr.ErrValidation)
		}
		repoFilter.SalesmanID = &salesmanID
	}

	credits, total, err := s.creditRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch credit transactions: %w", err)
	}

	result := make([]CreditResponse, 0, len(credits))
	for _, c := range credits {
		result = append(result, toCreditResponse(c, now))
	}
	return result, total, nil
}

func (s *creditService) ClearCredit(ctx context.Context, actor Actor, id string) (CreditResponse, error) {
	if actor.Role != rbac.RoleAdmin {
		return CreditResponse{}, fmt.Errorf("only admin can clear credit transactions: %w", apperr.ErrPermissionDenied)
	}

	creditID, err := uuid.Parse(id)
	if err != nil {
		return CreditResponse{}, fmt.Errorf("invalid credit id: %w", apperr.ErrValidation)
	}

	now := time.Now()
	var credit *model.CreditTransaction
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		var findErr error
		credit, findErr = s.creditRepo.FindByID(txCtx, creditID)
		if findErr != nil {
			return fmt.Errorf("credit transaction not found: %w", apperr.ErrNotFound)
		}

		if credit.Status == model.CreditCleared {
			return fmt.Errorf("credit transaction is already cleared: %w", apperr.ErrDuplicateState)
		}

		credit.Status = model.CreditCleared
		credit.ClearedBy = actor.ID
		credit.ClearedAt = &now

		if updateErr := s.creditRepo.Update(txCtx, credit); updateErr != nil {
			return fmt.Errorf("failed to clear credit transaction: %w", updateErr)
		}

		return s.applyVendorRollup(txCtx, credit.VendorID, decimal.Zero, credit.Amount.Neg(), credit.Amount)
	})
	if err != nil {
		return CreditResponse{}, err
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityCredit,
		EntityID:   credit.ID.String(),
		Details:    map[string]string{"status": "Cleared", "amount": credit.Amount.StringFixed(2)},
		Success:    true,
	})

	return toCreditResponse(*credit, now), nil
}

// applyVendorRollup adjusts the vendor's credit summary columns. Callers pass
// deltas; no-op when the credit has no vendor.
func (s *creditService) applyVendorRollup(ctx context.Context, vendorID *uuid.UUID, total, outstanding, cleared decimal.Decimal) error {
	if vendorID == nil {
		return nil
	}

	vendor, err := s.vendorRepo.FindByID(ctx, *vendorID)
	if err != nil {
		return fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
	}

	vendor.TotalCredit = vendor.TotalCredit.Add(total)
	vendor.OutstandingCredit = vendor.OutstandingCredit.Add(outstanding)
	vendor.ClearedCredit = vendor.ClearedCredit.Add(cleared)

	if err := s.vendorRepo.Update(ctx, vendor); err != nil {
		return fmt.Errorf("failed to update vendor credit summary: %w", err)
	}
	return nil
}

// --- Mapping ---

func toCreditResponse(c model.CreditTransaction, now time.Time) CreditResponse {
	resp := CreditResponse{
		ID:            c.ID.String(),
		BillNo:        c.BillNo,
		Amount:        c.Amount.StringFixed(2),
		DueDate:       c.DueDate.Format("2006-01-02"),
		Status:        c.EffectiveStatus(now),
		PaymentMethod: c.PaymentMethod,
		CreatedAt:     c.CreatedAt.Format(time.RFC3339),
	}

	if c.BillID != nil {
		s := c.BillID.String()
		resp.BillID = &s
	}
	if c.VendorID != nil {
		s := c.VendorID.String()
		resp.VendorID = &s
	}
	if c.Vendor != nil {
		resp.VendorName = c.Vendor.Name
	}
	if c.SalesmanID != nil {
		s := c.SalesmanID.String()
		resp.SalesmanID = &s
	}
	if c.Salesman != nil {
		resp.SalesmanName = c.Salesman.Name
	}
	if c.ClearedBy != nil {
		s := c.ClearedBy.String()
		resp.ClearedBy = &s
	}
	if c.ClearedAt != nil {
		s := c.ClearedAt.Format(time.RFC3339)
		resp.ClearedAt = &s
	}

	return resp
}
