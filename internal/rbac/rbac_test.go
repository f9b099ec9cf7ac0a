package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPermissions(t *testing.T) {
	cfg := Default()

	// Admin holds the wildcard
	assert.True(t, cfg.Allowed(RoleAdmin, "bills.create"))
	assert.True(t, cfg.Allowed(RoleAdmin, "anything.at.all"))

	assert.True(t, cfg.Allowed(RoleSalesman, "bills.create"))
	assert.False(t, cfg.Allowed(RoleSalesman, "bills.verify"))

	assert.True(t, cfg.Allowed(RoleComputerOrganiser, "bills.verify"))
	assert.True(t, cfg.Allowed(RoleComputerOrganiser, "reports.export"))
	assert.False(t, cfg.Allowed(RoleComputerOrganiser, "deliveries.update_status"))

	assert.True(t, cfg.Allowed(RoleDeliveryMan, "deliveries.update_status"))
	assert.False(t, cfg.Allowed(RoleDeliveryMan, "credits.view"))
}

func TestAllowedUnknownRole(t *testing.T) {
	cfg := Default()

	assert.False(t, cfg.Allowed("intern", "bills.view"))
	assert.False(t, cfg.Allowed("", "bills.view"))
}

func TestKnownRole(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.KnownRole(RoleAdmin))
	assert.True(t, cfg.KnownRole(RoleDeliveryMan))
	assert.False(t, cfg.KnownRole("superuser"))
}

func TestNewCopiesInput(t *testing.T) {
	mapping := map[string][]string{"auditor": {"reports.export"}}
	cfg := New(mapping)

	mapping["auditor"] = append(mapping["auditor"], "bills.create")
	delete(mapping, "auditor")

	assert.True(t, cfg.Allowed("auditor", "reports.export"))
	assert.False(t, cfg.Allowed("auditor", "bills.create"))
}

func TestRolesAndPermissions(t *testing.T) {
	cfg := Default()

	assert.ElementsMatch(t, []string{RoleAdmin, RoleSalesman, RoleComputerOrganiser, RoleDeliveryMan}, cfg.Roles())
	assert.Contains(t, cfg.Permissions(RoleSalesman), "credits.view")
	assert.Empty(t, cfg.Permissions("nobody"))
}
