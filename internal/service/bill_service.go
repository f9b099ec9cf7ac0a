package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"creditdesk/internal/model"
	"creditdesk/internal/ocr"
	"creditdesk/internal/rbac"
	"creditdesk/internal/repository"
	"creditdesk/internal/websocket"
	"creditdesk/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Notifier pushes verification events to connected clients. Satisfied by
// *websocket.Hub; tests pass a no-op implementation.
type Notifier interface {
	Notify(eventType string, payload interface{})
}

// --- DTOs ---

type CreateBillRequest struct {
	BillNo        string `json:"bill_no" binding:"required"`
	BillType      string `json:"bill_type" binding:"required,oneof=HANDBILL NORMAL"`
	VendorID      string `json:"vendor_id"`
	SalesmanID    string `json:"salesman_id"`
	Amount        string `json:"amount" binding:"required"`
	BillDate      string `json:"bill_date" binding:"required"` // YYYY-MM-DD
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=Cash Credit UPI Cheque"`
}

type UpdateBillRequest struct {
	VendorID      *string `json:"vendor_id"`
	SalesmanID    *string `json:"salesman_id"`
	Amount        *string `json:"amount"`
	BillDate      *string `json:"bill_date"`
	PaymentMethod *string `json:"payment_method" binding:"omitempty,oneof=Cash Credit UPI Cheque"`
}

type VerifyBillRequest struct {
	Override bool `json:"override"` // admin-only: force verified despite mismatches
}

type BillFilter struct {
	VerificationStatus string
	BillType           string
	PaymentMethod      string
	VendorID           string
	SalesmanID         string
	Page               int
	Limit              int
}

type MismatchResponse struct {
	Field  string `json:"field"`
	Stored string `json:"stored_value"`
	OCR    string `json:"ocr_value"`
}

type BillResponse struct {
	ID                 string  `json:"id"`
	BillNo             string  `json:"bill_no"`
	BillType           string  `json:"bill_type"`
	VendorID           *string `json:"vendor_id"`
	VendorName         string  `json:"vendor_name"`
	SalesmanID         *string `json:"salesman_id"`
	SalesmanName       string  `json:"salesman_name"`
	Amount             string  `json:"amount"`
	BillDate           string  `json:"bill_date"`
	PaymentMethod      string  `json:"payment_method"`
	VerificationStatus string  `json:"verification_status"`
	ImageFilename      string  `json:"image_filename,omitempty"`
	OCRBillNumber      *string `json:"ocr_bill_number,omitempty"`
	OCRAmount          *string `json:"ocr_amount,omitempty"`
	OCRDate            *string `json:"ocr_date,omitempty"`
	OCRVendorName      *string `json:"ocr_vendor_name,omitempty"`
	OCRConfidence      *float64 `json:"ocr_confidence,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

// VerificationResponse is returned by the two verification stages.
// OCRAvailable is false when the engine could not be reached and the bill
// stayed on the manual path.
type VerificationResponse struct {
	Bill         BillResponse       `json:"bill"`
	Stage        string             `json:"stage"`
	OCRAvailable bool               `json:"ocr_available"`
	Mismatches   []MismatchResponse `json:"mismatches"`
}

type VerificationLogResponse struct {
	ID          string `json:"id"`
	Stage       string `json:"stage"`
	Field       string `json:"field"`
	StoredValue string `json:"stored_value"`
	OCRValue    string `json:"ocr_value"`
	CreatedAt   string `json:"created_at"`
}

// --- Interface ---

type BillService interface {
	CreateBill(ctx context.Context, actor Actor, req CreateBillRequest) (BillResponse, error)
	UploadBillImage(ctx context.Context, actor Actor, id, filename string, image []byte) (VerificationResponse, error)
	VerifyBill(ctx context.Context, actor Actor, id string, req VerifyBillRequest) (VerificationResponse, error)
	GetBill(ctx context.Context, id string) (BillResponse, error)
	ListBills(ctx context.Context, filter BillFilter) ([]BillResponse, int64, error)
	UpdateBill(ctx context.Context, actor Actor, id string, req UpdateBillRequest) (BillResponse, error)
	DeleteBill(ctx context.Context, actor Actor, id string) error
	ListVerificationLogs(ctx context.Context, id string) ([]VerificationLogResponse, error)
}

type billService struct {
	billRepo         repository.BillRepository
	verificationRepo repository.VerificationRepository
	vendorRepo       repository.VendorRepository
	deliveryRepo     repository.DeliveryRepository
	creditSvc        CreditService
	auditSvc         AuditService
	txManager        repository.TransactionManager
	engine           ocr.Engine
	notifier         Notifier
	tolerance        decimal.Decimal
}

func NewBillService(
	billRepo repository.BillRepository,
	verificationRepo repository.VerificationRepository,
	vendorRepo repository.VendorRepository,
	deliveryRepo repository.DeliveryRepository,
	creditSvc CreditService,
	auditSvc AuditService,
	txManager repository.TransactionManager,
	engine ocr.Engine,
	notifier Notifier,
	tolerance decimal.Decimal,
) BillService {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = ocr.DefaultAmountTolerance
	}
	return &billService{
		billRepo:         billRepo,
		verificationRepo: verificationRepo,
		vendorRepo:       vendorRepo,
		deliveryRepo:     deliveryRepo,
		creditSvc:        creditSvc,
		auditSvc:         auditSvc,
		txManager:        txManager,
		engine:           engine,
		notifier:         notifier,
		tolerance:        tolerance,
	}
}

// --- Implementation ---

func (s *billService) CreateBill(ctx context.Context, actor Actor, req CreateBillRequest) (BillResponse, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil || !amount.IsPositive() {
		return BillResponse{}, fmt.Errorf("amount must be a positive number: %w", apperr.ErrValidation)
	}

	billDate, err := time.Parse("2006-01-02", req.BillDate)
	if err != nil {
		return BillResponse{}, fmt.Errorf("invalid bill_date, expected YYYY-MM-DD: %w", apperr.ErrValidation)
	}

	if _, err := s.billRepo.FindByBillNo(ctx, req.BillNo); err == nil {
		return BillResponse{}, fmt.Errorf("bill number %s already exists: %w", req.BillNo, apperr.ErrDuplicateState)
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = model.PaymentCash
	}

	// Hand-entered bills skip OCR verification entirely; scanned bills wait
	// for an image upload.
	status := model.VerificationUnverified
	if req.BillType == model.BillTypeHandbill {
		status = model.VerificationVerified
	}

	bill := model.Bill{
		BillNo:             req.BillNo,
		BillType:           req.BillType,
		Amount:             amount,
		BillDate:           billDate,
		PaymentMethod:      paymentMethod,
		VerificationStatus: status,
		CreatedBy:          actor.ID,
	}

	if req.VendorID != "" {
		vendorID, parseErr := uuid.Parse(req.VendorID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("invalid vendor_id: %w", apperr.ErrValidation)
		}
		if _, findErr := s.vendorRepo.FindByID(ctx, vendorID); findErr != nil {
			return BillResponse{}, fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
		}
		bill.VendorID = &vendorID
	}

	if req.SalesmanID != "" {
		salesmanID, parseErr := uuid.Parse(req.SalesmanID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("invalid salesman_id: %w", apperr.ErrValidation)
		}
		bill.SalesmanID = &salesmanID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.billRepo.Create(txCtx, &bill); createErr != nil {
			return fmt.Errorf("failed to create bill: %w", createErr)
		}

		if paymentMethod == model.PaymentCredit {
			if _, creditErr := s.creditSvc.CreateFromBill(txCtx, &bill); creditErr != nil {
				return creditErr
			}
		}

		// Salesman-carried bills open a delivery to track the hand-off
		if bill.SalesmanID != nil {
			delivery := &model.Delivery{
				BillID:     bill.ID,
				SalesmanID: bill.SalesmanID,
				Status:     model.DeliveryPending,
			}
			if deliveryErr := s.deliveryRepo.Create(txCtx, delivery); deliveryErr != nil {
				return fmt.Errorf("failed to create delivery: %w", deliveryErr)
			}
		}

		return nil
	})
	if err != nil {
		return BillResponse{}, err
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionCreate,
		EntityType: model.EntityBill,
		EntityID:   bill.ID.String(),
		Details: map[string]string{
			"bill_no":        bill.BillNo,
			"bill_type":      bill.BillType,
			"amount":         amount.StringFixed(2),
			"payment_method": paymentMethod,
		},
		Success: true,
	})

	return toBillResponse(bill), nil
}

// UploadBillImage attaches a scanned image to a NORMAL bill and runs the
// first verification stage. When the OCR engine is unreachable the bill stays
// on the manual path and the call still succeeds.
func (s *billService) UploadBillImage(ctx context.Context, actor Actor, id, filename string, image []byte) (VerificationResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return VerificationResponse{}, fmt.Errorf("invalid bill id: %w", apperr.ErrValidation)
	}

	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return VerificationResponse{}, fmt.Errorf("bill not found: %w", apperr.ErrNotFound)
	}

	if bill.BillType == model.BillTypeHandbill {
		return VerificationResponse{}, fmt.Errorf("hand bills are not OCR-verified: %w", apperr.ErrValidation)
	}

	bill.ImageFilename = filename

	result, err := s.engine.ExtractText(ctx, image)
	if errors.Is(err, apperr.ErrUpstreamUnavailable) {
		if updateErr := s.billRepo.Update(ctx, bill); updateErr != nil {
			return VerificationResponse{}, fmt.Errorf("failed to update bill: %w", updateErr)
		}
		s.auditSvc.Record(ctx, actor, AuditEntry{
			Action:     model.ActionUpdate,
			EntityType: model.EntityBill,
			EntityID:   bill.ID.String(),
			Details:    map[string]string{"image": filename, "ocr": "unavailable"},
			Success:    true,
		})
		return VerificationResponse{Bill: toBillResponse(*bill), Stage: model.StageUploader, OCRAvailable: false}, nil
	}
	if err != nil {
		return VerificationResponse{}, err
	}

	bill.OCRText = result.Text
	bill.OCRConfidence = &result.Confidence

	parsed := ocr.ParseBillText(result.Text)
	if parsed.VendorName == nil {
		// Fall back to matching against the known vendor list
		if names, namesErr := s.vendorRepo.ListNames(ctx); namesErr == nil {
			if match := ocr.MatchVendor(result.Text, names, ocr.DefaultMatchThreshold); match.Type != ocr.MatchNone {
				parsed.VendorName = &match.Name
			}
		}
	}
	bill.OCRBillNumber = parsed.BillNumber
	bill.OCRAmount = parsed.Amount
	bill.OCRDate = parsed.Date
	bill.OCRVendorName = parsed.VendorName

	return s.applyComparison(ctx, actor, bill, parsed, model.StageUploader, false)
}

// VerifyBill is the back-office stage. The comparator re-runs against the
// bill's current stored fields, so corrections made after stage one are
// re-checked. An admin may override outstanding mismatches.
func (s *billService) VerifyBill(ctx context.Context, actor Actor, id string, req VerifyBillRequest) (VerificationResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return VerificationResponse{}, fmt.Errorf("invalid bill id: %w", apperr.ErrValidation)
	}

	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return VerificationResponse{}, fmt.Errorf("bill not found: %w", apperr.ErrNotFound)
	}

	if req.Override && actor.Role != rbac.RoleAdmin {
		return VerificationResponse{}, fmt.Errorf("only admin can override verification: %w", apperr.ErrPermissionDenied)
	}

	// No OCR data (engine was down or no image): manual verification
	if bill.OCRText == "" {
		before := bill.VerificationStatus
		bill.VerificationStatus = model.VerificationVerified
		if updateErr := s.billRepo.Update(ctx, bill); updateErr != nil {
			return VerificationResponse{}, fmt.Errorf("failed to update bill: %w", updateErr)
		}
		s.recordVerifyAudit(ctx, actor, bill, before, model.StageBackOffice, 0, req.Override)
		s.notifier.Notify(websocket.EventBillVerified, map[string]string{"bill_id": bill.ID.String(), "bill_no": bill.BillNo})
		return VerificationResponse{Bill: toBillResponse(*bill), Stage: model.StageBackOffice, OCRAvailable: false}, nil
	}

	parsed := ocr.ParsedBill{
		BillNumber: bill.OCRBillNumber,
		Amount:     bill.OCRAmount,
		Date:       bill.OCRDate,
		VendorName: bill.OCRVendorName,
	}

	return s.applyComparison(ctx, actor, bill, parsed, model.StageBackOffice, req.Override)
}

// applyComparison runs the comparator, persists the bill, mismatch evidence
// and audit row, and broadcasts the outcome.
func (s *billService) applyComparison(ctx context.Context, actor Actor, bill *model.Bill, parsed ocr.ParsedBill, stage string, override bool) (VerificationResponse, error) {
	stored := ocr.StoredFields{
		BillNumber: bill.BillNo,
		Amount:     bill.Amount,
		Date:       bill.BillDate,
	}
	if bill.Vendor != nil {
		stored.VendorName = bill.Vendor.Name
	} else if bill.VendorID != nil {
		if vendor, err := s.vendorRepo.FindByID(ctx, *bill.VendorID); err == nil {
			stored.VendorName = vendor.Name
		}
	}

	comparison := ocr.Compare(stored, parsed, s.tolerance)
	before := bill.VerificationStatus

	var logs []model.VerificationLog
	if comparison.HasDiscrepancy() && !override {
		bill.VerificationStatus = model.VerificationDiscrepancy
		for _, m := range comparison.Mismatches {
			logs = append(logs, model.VerificationLog{
				BillID:      bill.ID,
				Stage:       stage,
				Field:       m.Field,
				StoredValue: m.Stored,
				OCRValue:    m.OCR,
			})
		}
	} else if stage == model.StageBackOffice || override {
		bill.VerificationStatus = model.VerificationVerified
	}
	// Stage one with no mismatches leaves the bill unverified until the
	// back office signs off.

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.billRepo.Update(txCtx, bill); updateErr != nil {
			return fmt.Errorf("failed to update bill: %w", updateErr)
		}
		return s.verificationRepo.CreateBatch(txCtx, logs)
	})
	if err != nil {
		return VerificationResponse{}, err
	}

	s.recordVerifyAudit(ctx, actor, bill, before, stage, len(comparison.Mismatches), override)

	if bill.VerificationStatus == model.VerificationDiscrepancy {
		s.notifier.Notify(websocket.EventDiscrepancyFound, map[string]interface{}{
			"bill_id":    bill.ID.String(),
			"bill_no":    bill.BillNo,
			"stage":      stage,
			"mismatches": len(comparison.Mismatches),
		})
	} else if bill.VerificationStatus == model.VerificationVerified {
		s.notifier.Notify(websocket.EventBillVerified, map[string]string{"bill_id": bill.ID.String(), "bill_no": bill.BillNo})
	}

	resp := VerificationResponse{
		Bill:         toBillResponse(*bill),
		Stage:        stage,
		OCRAvailable: true,
		Mismatches:   make([]MismatchResponse, 0, len(comparison.Mismatches)),
	}
	for _, m := range comparison.Mismatches {
		resp.Mismatches = append(resp.Mismatches, MismatchResponse{Field: m.Field, Stored: m.Stored, OCR: m.OCR})
	}
	return resp, nil
}

func (s *billService) recordVerifyAudit(ctx context.Context, actor Actor, bill *model.Bill, before, stage string, mismatches int, override bool) {
	details := map[string]interface{}{
		"stage":      stage,
		"before":     before,
		"after":      bill.VerificationStatus,
		"mismatches": mismatches,
	}
	if override {
		details["override"] = true
	}
	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionVerify,
		EntityType: model.EntityBill,
		EntityID:   bill.ID.String(),
		Details:    details,
		Success:    true,
	})
}

func (s *billService) GetBill(ctx context.Context, id string) (BillResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, fmt.Errorf("invalid bill id: %w", apperr.ErrValidation)
	}

	bill, err := s.billRepo.FindByIDWithRelations(ctx, billID)
	if err != nil {
		return BillResponse{}, fmt.Errorf("bill not found: %w", apperr.ErrNotFound)
	}

	return toBillResponse(*bill), nil
}

func (s *billService) ListBills(ctx context.Context, filter BillFilter) ([]BillResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.BillListFilter{
		VerificationStatus: filter.VerificationStatus,
		BillType:           filter.BillType,
		PaymentMethod:      filter.PaymentMethod,
		Page:               filter.Page,
		Limit:              filter.Limit,
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

	bills, total, err := s.billRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bills: %w", err)
	}

	result := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		result = append(result, toBillResponse(b))
	}
	return result, total, nil
}

func (s *billService) UpdateBill(ctx context.Context, actor Actor, id string, req UpdateBillRequest) (BillResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return BillResponse{}, fmt.Errorf("invalid bill id: %w", apperr.ErrValidation)
	}

	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return BillResponse{}, fmt.Errorf("bill not found: %w", apperr.ErrNotFound)
	}

	changes := map[string]string{}

	if req.Amount != nil {
		amount, parseErr := decimal.NewFromString(*req.Amount)
		if parseErr != nil || !amount.IsPositive() {
			return BillResponse{}, fmt.Errorf("amount must be a positive number: %w", apperr.ErrValidation)
		}
		changes["amount"] = bill.Amount.StringFixed(2) + " -> " + amount.StringFixed(2)
		bill.Amount = amount
	}

	if req.BillDate != nil {
		billDate, parseErr := time.Parse("2006-01-02", *req.BillDate)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("invalid bill_date, expected YYYY-MM-DD: %w", apperr.ErrValidation)
		}
		changes["bill_date"] = bill.BillDate.Format("2006-01-02") + " -> " + *req.BillDate
		bill.BillDate = billDate
	}

	// A bill switched to Credit after creation still owes a credit
	// transaction, opened alongside the update.
	openCredit := false
	if req.PaymentMethod != nil && *req.PaymentMethod != bill.PaymentMethod {
		openCredit = *req.PaymentMethod == model.PaymentCredit
		changes["payment_method"] = bill.PaymentMethod + " -> " + *req.PaymentMethod
		bill.PaymentMethod = *req.PaymentMethod
	}

	if req.VendorID != nil {
		vendorID, parseErr := uuid.Parse(*req.VendorID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("invalid vendor_id: %w", apperr.ErrValidation)
		}
		if _, findErr := s.vendorRepo.FindByID(ctx, vendorID); findErr != nil {
			return BillResponse{}, fmt.Errorf("vendor not found: %w", apperr.ErrNotFound)
		}
		changes["vendor_id"] = *req.VendorID
		bill.VendorID = &vendorID
	}

	if req.SalesmanID != nil {
		salesmanID, parseErr := uuid.Parse(*req.SalesmanID)
		if parseErr != nil {
			return BillResponse{}, fmt.Errorf("invalid salesman_id: %w", apperr.ErrValidation)
		}
		changes["salesman_id"] = *req.SalesmanID
		bill.SalesmanID = &salesmanID
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if updateErr := s.billRepo.Update(txCtx, bill); updateErr != nil {
			return fmt.Errorf("failed to update bill: %w", updateErr)
		}
		if openCredit {
			if _, creditErr := s.creditSvc.CreateFromBill(txCtx, bill); creditErr != nil {
				return creditErr
			}
		}
		return nil
	})
	if err != nil {
		return BillResponse{}, err
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionUpdate,
		EntityType: model.EntityBill,
		EntityID:   bill.ID.String(),
		Details:    changes,
		Success:    true,
	})

	return toBillResponse(*bill), nil
}

func (s *billService) DeleteBill(ctx context.Context, actor Actor, id string) error {
	if actor.Role != rbac.RoleAdmin {
		return fmt.Errorf("only admin can delete bills: %w", apperr.ErrPermissionDenied)
	}

	billID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid bill id: %w", apperr.ErrValidation)
	}

	bill, err := s.billRepo.FindByID(ctx, billID)
	if err != nil {
		return fmt.Errorf("bill not found: %w", apperr.ErrNotFound)
	}

	if err := s.billRepo.Delete(ctx, billID); err != nil {
		return fmt.Errorf("failed to delete bill: %w", err)
	}

	s.auditSvc.Record(ctx, actor, AuditEntry{
		Action:     model.ActionDelete,
		EntityType: model.EntityBill,
		EntityID:   id,
		Details:    map[string]string{"bill_no": bill.BillNo},
		Success:    true,
	})

	return nil
}

func (s *billService) ListVerificationLogs(ctx context.Context, id string) ([]VerificationLogResponse, error) {
	billID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid bill id: %w", apperr.ErrValidation)
	}

	if _, err := s.billRepo.FindByID(ctx, billID); err != nil {
		return nil, fmt.Errorf("bill not found: %w", apperr.ErrNotFound)
	}

	logs, err := s.verificationRepo.ListByBill(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verification logs: %w", err)
	}

	result := make([]VerificationLogResponse, 0, len(logs))
	for _, l := range logs {
		result = append(result, VerificationLogResponse{
			ID:          l.ID.String(),
			Stage:       l.Stage,
			Field:       l.Field,
			StoredValue: l.StoredValue,
			OCRValue:    l.OCRValue,
			CreatedAt:   l.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// --- Mapping ---

func toBillResponse(b model.Bill) BillResponse {
	resp := BillResponse{
		ID:                 b.ID.String(),
		BillNo:             b.BillNo,
		BillType:           b.BillType,
		Amount:             b.Amount.StringFixed(2),
		BillDate:           b.BillDate.Format("2006-01-02"),
		PaymentMethod:      b.PaymentMethod,
		VerificationStatus: b.VerificationStatus,
		ImageFilename:      b.ImageFilename,
		OCRBillNumber:      b.OCRBillNumber,
		OCRVendorName:      b.OCRVendorName,
		OCRConfidence:      b.OCRConfidence,
		CreatedAt:          b.CreatedAt.Format(time.RFC3339),
	}

	if b.VendorID != nil {
		s := b.VendorID.String()
		resp.VendorID = &s
	}
	if b.Vendor != nil {
		resp.VendorName = b.Vendor.Name
	}
	if b.SalesmanID != nil {
		s := b.SalesmanID.String()
		resp.SalesmanID = &s
	}
	if b.Salesman != nil {
		resp.SalesmanName = b.Salesman.Name
	}
	if b.OCRAmount != nil {
		s := b.OCRAmount.StringFixed(2)
		resp.OCRAmount = &s
	}
	if b.OCRDate != nil {
		s := b.OCRDate.Format("2006-01-02")
		resp.OCRDate = &s
	}

	return resp
}
