package service

import (
	"context"
	"testing"

	"creditdesk/internal/model"
	"creditdesk/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVendorFixture() (VendorService, *fakeVendorRepo) {
	repo := newFakeVendorRepo()
	return NewVendorService(repo, NewAuditService(&fakeAuditRepo{})), repo
}

func TestCreateVendorRejectsDuplicateName(t *testing.T) {
	svc, _ := newVendorFixture()

	_, err := svc.CreateVendor(context.Background(), adminActor(), CreateVendorRequest{Name: "Acme Traders"})
	require.NoError(t, err)

	_, err = svc.CreateVendor(context.Background(), adminActor(), CreateVendorRequest{Name: "Acme Traders"})
	assert.ErrorIs(t, err, apperr.ErrDuplicateState)
}

func TestDeleteVendorBlockedByOutstandingCredit(t *testing.T) {
	svc, repo := newVendorFixture()

	vendor := &model.Vendor{Name: "Acme Traders", OutstandingCredit: decimal.RequireFromString("500.00")}
	require.NoError(t, repo.Create(context.Background(), vendor))

	err := svc.DeleteVendor(context.Background(), adminActor(), vendor.ID.String())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	// Cleared dues unblock the delete
	vendor.OutstandingCredit = decimal.Zero
	require.NoError(t, repo.Update(context.Background(), vendor))

	require.NoError(t, svc.DeleteVendor(context.Background(), adminActor(), vendor.ID.String()))

	_, err = svc.GetVendor(context.Background(), vendor.ID.String())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestUpdateVendorRenameChecksUniqueness(t *testing.T) {
	svc, _ := newVendorFixture()

	first, err := svc.CreateVendor(context.Background(), adminActor(), CreateVendorRequest{Name: "Acme Traders"})
	require.NoError(t, err)
	_, err = svc.CreateVendor(context.Background(), adminActor(), CreateVendorRequest{Name: "Zenith Suppliers"})
	require.NoError(t, err)

	taken := "Zenith Suppliers"
	_, err = svc.UpdateVendor(context.Background(), adminActor(), first.ID, UpdateVendorRequest{Name: &taken})
	assert.ErrorIs(t, err, apperr.ErrDuplicateState)
}
