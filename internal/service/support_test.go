package service

import (
	"context"

	"creditdesk/internal/model"
	"creditdesk/internal/ocr"
	"creditdesk/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory fakes for the repository layer. They mirror only the behavior the
// services rely on: lookups by key and last-write-wins updates.

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type fakeAuditRepo struct {
	entries []model.AuditLog
}

func (f *fakeAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	entry.ID = uuid.New()
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditRepo) List(_ context.Context, _ repository.AuditListFilter) ([]model.AuditLog, int64, error) {
	return f.entries, int64(len(f.entries)), nil
}

type fakeBillRepo struct {
	bills map[uuid.UUID]*model.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: make(map[uuid.UUID]*model.Bill)}
}

func (f *fakeBillRepo) Create(_ context.Context, bill *model.Bill) error {
	bill.ID = uuid.New()
	stored := *bill
	f.bills[bill.ID] = &stored
	return nil
}

func (f *fakeBillRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Bill, error) {
	bill, ok := f.bills[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *bill
	return &copied, nil
}

func (f *fakeBillRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.Bill, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBillRepo) FindByBillNo(_ context.Context, billNo string) (*model.Bill, error) {
	for _, bill := range f.bills {
		if bill.BillNo == billNo {
			copied := *bill
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBillRepo) List(_ context.Context, _ repository.BillListFilter) ([]model.Bill, int64, error) {
	var out []model.Bill
	for _, bill := range f.bills {
		out = append(out, *bill)
	}
	return out, int64(len(out)), nil
}

func (f *fakeBillRepo) Update(_ context.Context, bill *model.Bill) error {
	stored := *bill
	f.bills[bill.ID] = &stored
	return nil
}

func (f *fakeBillRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.bills, id)
	return nil
}

type fakeCreditRepo struct {
	credits map[uuid.UUID]*model.CreditTransaction
}

func newFakeCreditRepo() *fakeCreditRepo {
	return &fakeCreditRepo{credits: make(map[uuid.UUID]*model.CreditTransaction)}
}

func (f *fakeCreditRepo) Create(_ context.Context, credit *model.CreditTransaction) error {
	credit.ID = uuid.New()
	stored := *credit
	f.credits[credit.ID] = &stored
	return nil
}

func (f *fakeCreditRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CreditTransaction, error) {
	credit, ok := f.credits[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *credit
	return &copied, nil
}

func (f *fakeCreditRepo) FindByBillID(_ context.Context, billID uuid.UUID) (*model.CreditTransaction, error) {
	for _, credit := range f.credits {
		if credit.BillID != nil && *credit.BillID == billID {
			copied := *credit
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCreditRepo) List(_ context.Context, _ repository.CreditListFilter) ([]model.CreditTransaction, int64, error) {
	var out []model.CreditTransaction
	for _, credit := range f.credits {
		out = append(out, *credit)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCreditRepo) Update(_ context.Context, credit *model.CreditTransaction) error {
	stored := *credit
	f.credits[credit.ID] = &stored
	return nil
}

type fakeVendorRepo struct {
	vendors map[uuid.UUID]*model.Vendor
}

func newFakeVendorRepo() *fakeVendorRepo {
	return &fakeVendorRepo{vendors: make(map[uuid.UUID]*model.Vendor)}
}

func (f *fakeVendorRepo) Create(_ context.Context, vendor *model.Vendor) error {
	vendor.ID = uuid.New()
	stored := *vendor
	f.vendors[vendor.ID] = &stored
	return nil
}

func (f *fakeVendorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Vendor, error) {
	vendor, ok := f.vendors[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *vendor
	return &copied, nil
}

func (f *fakeVendorRepo) FindByName(_ context.Context, name string) (*model.Vendor, error) {
	for _, vendor := range f.vendors {
		if vendor.Name == name {
			copied := *vendor
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeVendorRepo) List(_ context.Context, _, _ int) ([]model.Vendor, int64, error) {
	var out []model.Vendor
	for _, vendor := range f.vendors {
		out = append(out, *vendor)
	}
	return out, int64(len(out)), nil
}

func (f *fakeVendorRepo) ListNames(_ context.Context) ([]string, error) {
	var names []string
	for _, vendor := range f.vendors {
		names = append(names, vendor.Name)
	}
	return names, nil
}

func (f *fakeVendorRepo) Update(_ context.Context, vendor *model.Vendor) error {
	stored := *vendor
	f.vendors[vendor.ID] = &stored
	return nil
}

func (f *fakeVendorRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.vendors, id)
	return nil
}

type fakeDeliveryRepo struct {
	deliveries map[uuid.UUID]*model.Delivery
}

func newFakeDeliveryRepo() *fakeDeliveryRepo {
	return &fakeDeliveryRepo{deliveries: make(map[uuid.UUID]*model.Delivery)}
}

func (f *fakeDeliveryRepo) Create(_ context.Context, delivery *model.Delivery) error {
	delivery.ID = uuid.New()
	stored := *delivery
	f.deliveries[delivery.ID] = &stored
	return nil
}

func (f *fakeDeliveryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Delivery, error) {
	delivery, ok := f.deliveries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *delivery
	return &copied, nil
}

func (f *fakeDeliveryRepo) List(_ context.Context, _ string, _, _ int) ([]model.Delivery, int64, error) {
	var out []model.Delivery
	for _, delivery := range f.deliveries {
		out = append(out, *delivery)
	}
	return out, int64(len(out)), nil
}

func (f *fakeDeliveryRepo) Update(_ context.Context, delivery *model.Delivery) error {
	stored := *delivery
	f.deliveries[delivery.ID] = &stored
	return nil
}

type fakeVerificationRepo struct {
	logs []model.VerificationLog
}

func (f *fakeVerificationRepo) CreateBatch(_ context.Context, entries []model.VerificationLog) error {
	for _, entry := range entries {
		entry.ID = uuid.New()
		f.logs = append(f.logs, entry)
	}
	return nil
}

func (f *fakeVerificationRepo) ListByBill(_ context.Context, billID uuid.UUID) ([]model.VerificationLog, error) {
	var out []model.VerificationLog
	for _, log := range f.logs {
		if log.BillID == billID {
			out = append(out, log)
		}
	}
	return out, nil
}

// stubEngine returns canned OCR output or a fixed error
type stubEngine struct {
	result ocr.Result
	err    error
}

func (e stubEngine) ExtractText(_ context.Context, _ []byte) (ocr.Result, error) {
	return e.result, e.err
}

type nopNotifier struct{}

func (nopNotifier) Notify(_ string, _ interface{}) {}

// recordingNotifier captures broadcast events for assertions
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Notify(eventType string, _ interface{}) {
	n.events = append(n.events, eventType)
}
