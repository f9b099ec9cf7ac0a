package service

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"creditdesk/internal/model"
	"creditdesk/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExportFixture(t *testing.T) (ExportService, *fakeAuditRepo) {
	t.Helper()
	f := newBillFixture(stubEngine{})
	auditRepo := &fakeAuditRepo{}
	auditSvc := NewAuditService(auditRepo)
	creditSvc := NewCreditService(newFakeCreditRepo(), f.vendorRepo, auditSvc, fakeTxManager{}, nopNotifier{}, 30)

	_, err := f.svc.CreateBill(context.Background(), salesmanActor(), CreateBillRequest{
		BillNo:   "EX-1",
		BillType: model.BillTypeHandbill,
		Amount:   "120.00",
		BillDate: "2026-08-01",
	})
	require.NoError(t, err)

	return NewExportService(f.svc, creditSvc, auditSvc), auditRepo
}

func TestExportBillsCSV(t *testing.T) {
	svc, auditRepo := newExportFixture(t)

	file, err := svc.ExportBills(context.Background(), adminActor(), FormatCSV, BillFilter{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Contains(t, file.Filename, "bills_")

	records, err := csv.NewReader(strings.NewReader(string(file.Data))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus one bill")
	assert.Equal(t, "Bill No", records[0][0])
	assert.Equal(t, "EX-1", records[1][0])

	// Every export leaves an EXPORT audit row
	last := auditRepo.entries[len(auditRepo.entries)-1]
	assert.Equal(t, model.ActionExport, last.Action)
	assert.Equal(t, model.EntityReport, last.EntityType)
}

func TestExportBillsXLSX(t *testing.T) {
	svc, _ := newExportFixture(t)

	file, err := svc.ExportBills(context.Background(), adminActor(), FormatXLSX, BillFilter{})
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", file.ContentType)
	assert.NotEmpty(t, file.Data)
}

func TestExportDefaultsToCSV(t *testing.T) {
	svc, _ := newExportFixture(t)

	file, err := svc.ExportCredits(context.Background(), adminActor(), "", CreditFilter{})
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportFixture(t)

	_, err := svc.ExportBills(context.Background(), adminActor(), "pdf", BillFilter{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
