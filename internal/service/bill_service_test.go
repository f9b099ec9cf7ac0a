package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"creditdesk/internal/model"
	"creditdesk/internal/ocr"
	"creditdesk/internal/rbac"
	"creditdesk/pkg/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type billFixture struct {
	svc              BillService
	creditRepo       *fakeCreditRepo
	billRepo         *fakeBillRepo
	verificationRepo *fakeVerificationRepo
	vendorRepo       *fakeVendorRepo
	deliveryRepo     *fakeDeliveryRepo
	notifier         *recordingNotifier
}

func newBillFixture(engine ocr.Engine) *billFixture {
	billRepo := newFakeBillRepo()
	creditRepo := newFakeCreditRepo()
	vendorRepo := newFakeVendorRepo()
	deliveryRepo := newFakeDeliveryRepo()
	verificationRepo := &fakeVerificationRepo{}
	notifier := &recordingNotifier{}
	auditSvc := NewAuditService(&fakeAuditRepo{})
	creditSvc := NewCreditService(creditRepo, vendorRepo, auditSvc, fakeTxManager{}, nopNotifier{}, 30)

	svc := NewBillService(billRepo, verificationRepo, vendorRepo, deliveryRepo,
		creditSvc, auditSvc, fakeTxManager{}, engine, notifier, ocr.DefaultAmountTolerance)

	return &billFixture{
		svc:              svc,
		creditRepo:       creditRepo,
		billRepo:         billRepo,
		verificationRepo: verificationRepo,
		vendorRepo:       vendorRepo,
		deliveryRepo:     deliveryRepo,
		notifier:         notifier,
	}
}

func adminActor() Actor {
	id := uuid.New()
	return Actor{ID: &id, Role: rbac.RoleAdmin, IP: "127.0.0.1"}
}

func salesmanActor() Actor {
	id := uuid.New()
	return Actor{ID: &id, Role: rbac.RoleSalesman, IP: "127.0.0.1"}
}

func TestCreateBillHandbillVerifiedImmediately(t *testing.T) {
	f := newBillFixture(stubEngine{})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "HB-1001",
		BillType: model.BillTypeHandbill,
		Amount:   "250.00",
		BillDate: "2026-08-01",
	})

	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, bill.VerificationStatus)
	assert.Equal(t, model.PaymentCash, bill.PaymentMethod)
}

func TestCreateBillNormalStartsUnverified(t *testing.T) {
	f := newBillFixture(stubEngine{})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "NB-2001",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})

	require.NoError(t, err)
	assert.Equal(t, model.VerificationUnverified, bill.VerificationStatus)
}

func TestCreateBillRejectsDuplicateBillNo(t *testing.T) {
	f := newBillFixture(stubEngine{})
	req := CreateBillRequest{
		BillNo:   "DUP-1",
		BillType: model.BillTypeHandbill,
		Amount:   "100.00",
		BillDate: "2026-08-01",
	}

	_, err := f.svc.CreateBill(context.Background(), salesmanActor(), req)
	require.NoError(t, err)

	_, err = f.svc.CreateBill(context.Background(), salesmanActor(), req)
	assert.ErrorIs(t, err, apperr.ErrDuplicateState)
}

func TestCreateBillRejectsNonPositiveAmount(t *testing.T) {
	f := newBillFixture(stubEngine{})

	for _, amount := range []string{"0", "-10", "abc"} {
		_, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
			BillNo:   "AMT-" + amount,
			BillType: model.BillTypeHandbill,
			Amount:   amount,
			BillDate: "2026-08-01",
		})
		assert.ErrorIs(t, err, apperr.ErrValidation, "amount %q", amount)
	}
}

func TestCreateBillCreditPaymentOpensCreditTransaction(t *testing.T) {
	f := newBillFixture(stubEngine{})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:        "CR-3001",
		BillType:      model.BillTypeHandbill,
		Amount:        "750.00",
		BillDate:      "2026-08-01",
		PaymentMethod: model.PaymentCredit,
	})
	require.NoError(t, err)

	billID, err := uuid.Parse(bill.ID)
	require.NoError(t, err)

	credit, err := f.creditRepo.FindByBillID(context.Background(), billID)
	require.NoError(t, err)
	assert.Equal(t, model.CreditPending, credit.Status)
	assert.True(t, credit.Amount.Equal(decimal.RequireFromString("750.00")))
	expected := time.Now().AddDate(0, 0, 30).Format("2006-01-02")
	assert.Equal(t, expected, credit.DueDate.Format("2006-01-02"))
}

func TestUpdateBillSwitchToCreditOpensCreditTransaction(t *testing.T) {
	f := newBillFixture(stubEngine{})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "CR-3002",
		BillType: model.BillTypeHandbill,
		Amount:   "400.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	billID, err := uuid.Parse(bill.ID)
	require.NoError(t, err)
	_, err = f.creditRepo.FindByBillID(context.Background(), billID)
	require.Error(t, err, "cash bills carry no credit transaction")

	method := model.PaymentCredit
	updated, err := f.svc.UpdateBill(context.Background(), adminActor(), bill.ID, UpdateBillRequest{PaymentMethod: &method})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCredit, updated.PaymentMethod)

	credit, err := f.creditRepo.FindByBillID(context.Background(), billID)
	require.NoError(t, err)
	assert.Equal(t, model.CreditPending, credit.Status)
	assert.True(t, credit.Amount.Equal(decimal.RequireFromString("400.00")))
	assert.True(t, credit.DueDate.After(time.Now()))
}

func TestCreateBillSalesmanOpensDelivery(t *testing.T) {
	f := newBillFixture(stubEngine{})
	salesmanID := uuid.New()

	_, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:     "DL-4001",
		BillType:   model.BillTypeHandbill,
		SalesmanID: salesmanID.String(),
		Amount:     "300.00",
		BillDate:   "2026-08-01",
	})
	require.NoError(t, err)

	deliveries, _, err := f.deliveryRepo.List(context.Background(), "", 1, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, model.DeliveryPending, deliveries[0].Status)
}

func TestUploadImageEngineDownKeepsManualPath(t *testing.T) {
	f := newBillFixture(stubEngine{err: fmt.Errorf("ocr down: %w", apperr.ErrUpstreamUnavailable)})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "OCR-5001",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	result, err := f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	require.NoError(t, err, "engine outage must not fail the upload")
	assert.False(t, result.OCRAvailable)
	assert.Equal(t, model.VerificationUnverified, result.Bill.VerificationStatus)
	assert.Empty(t, result.Mismatches)
}

func TestUploadImageDiscrepancyFlagsBill(t *testing.T) {
	f := newBillFixture(stubEngine{result: ocr.Result{
		Text:       "Bill No: OCR-6001\nDate: 2026-08-01\nTotal: Rs. 650.00",
		Confidence: 0.92,
	}})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "OCR-6001",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	result, err := f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	require.NoError(t, err)

	assert.Equal(t, model.VerificationDiscrepancy, result.Bill.VerificationStatus)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, ocr.FieldAmount, result.Mismatches[0].Field)

	billID, _ := uuid.Parse(bill.ID)
	logs, err := f.verificationRepo.ListByBill(context.Background(), billID)
	require.NoError(t, err)
	require.Len(t, logs, 1, "discrepancy must leave mismatch evidence")
	assert.Equal(t, model.StageUploader, logs[0].Stage)

	assert.Contains(t, f.notifier.events, "discrepancy_found")
}

func TestUploadImageMatchStaysUnverifiedUntilBackOffice(t *testing.T) {
	f := newBillFixture(stubEngine{result: ocr.Result{
		Text:       "Bill No: OCR-7001\nDate: 2026-08-01\nTotal: Rs. 500.00",
		Confidence: 0.95,
	}})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "OCR-7001",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	result, err := f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	require.NoError(t, err)
	assert.Empty(t, result.Mismatches)
	assert.Equal(t, model.VerificationUnverified, result.Bill.VerificationStatus)
}

func TestVerifyBillBackOfficePassVerifies(t *testing.T) {
	f := newBillFixture(stubEngine{result: ocr.Result{
		Text:       "Bill No: OCR-8001\nDate: 2026-08-01\nTotal: Rs. 500.00",
		Confidence: 0.95,
	}})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "OCR-8001",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	_, err = f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	require.NoError(t, err)

	result, err := f.svc.VerifyBill(context.Background(), adminActor(), bill.ID, VerifyBillRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, result.Bill.VerificationStatus)
	assert.Contains(t, f.notifier.events, "bill_verified")
}

func TestVerifyBillReflagsWhenStoredFieldsDrift(t *testing.T) {
	f := newBillFixture(stubEngine{result: ocr.Result{
		Text:       "Bill No: OCR-9001\nDate: 2026-08-01\nTotal: Rs. 500.00",
		Confidence: 0.95,
	}})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "OCR-9001",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	_, err = f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	require.NoError(t, err)

	// Amount edited after stage one passed
	newAmount := "999.00"
	_, err = f.svc.UpdateBill(context.Background(), adminActor(), bill.ID, UpdateBillRequest{Amount: &newAmount})
	require.NoError(t, err)

	result, err := f.svc.VerifyBill(context.Background(), adminActor(), bill.ID, VerifyBillRequest{})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationDiscrepancy, result.Bill.VerificationStatus)

	billID, _ := uuid.Parse(bill.ID)
	logs, err := f.verificationRepo.ListByBill(context.Background(), billID)
	require.NoError(t, err)
	require.NotEmpty(t, logs)
	assert.Equal(t, model.StageBackOffice, logs[len(logs)-1].Stage)
}

func TestVerifyBillOverrideRequiresAdmin(t *testing.T) {
	f := newBillFixture(stubEngine{result: ocr.Result{
		Text:       "Bill No: OCR-9501\nDate: 2026-08-01\nTotal: Rs. 650.00",
		Confidence: 0.9,
	}})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "OCR-9501",
		BillType: model.BillTypeNormal,
		Amount:   "500.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	_, err = f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	require.NoError(t, err)

	_, err = f.svc.VerifyBill(context.Background(), salesmanActor(), bill.ID, VerifyBillRequest{Override: true})
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	result, err := f.svc.VerifyBill(context.Background(), adminActor(), bill.ID, VerifyBillRequest{Override: true})
	require.NoError(t, err)
	assert.Equal(t, model.VerificationVerified, result.Bill.VerificationStatus)
}

func TestUploadImageRejectsHandbill(t *testing.T) {
	f := newBillFixture(stubEngine{})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "HB-9901",
		BillType: model.BillTypeHandbill,
		Amount:   "100.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	_, err = f.svc.UploadBillImage(context.Background(), salesmanActor(), bill.ID, "scan.jpg", []byte("img"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteBillAdminOnly(t *testing.T) {
	f := newBillFixture(stubEngine{})

	bill, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "DEL-1",
		BillType: model.BillTypeHandbill,
		Amount:   "100.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	err = f.svc.DeleteBill(context.Background(), salesmanActor(), bill.ID)
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)

	err = f.svc.DeleteBill(context.Background(), adminActor(), bill.ID)
	require.NoError(t, err)

	_, err = f.svc.GetBill(context.Background(), bill.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
