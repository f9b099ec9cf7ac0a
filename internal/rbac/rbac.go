package rbac

// Role name constants
const (
	RoleAdmin             = "admin"
	RoleSalesman          = "salesman"
	RoleComputerOrganiser = "computer_organiser"
	RoleDeliveryMan       = "delivery_man"
)

// Wildcard grants every permission (admin only)
const Wildcard = "*"

// Config is an immutable role -> permission-code mapping. It is built once at
// process start and injected into the auth middleware and handlers; nothing
// mutates it afterwards.
type Config struct {
	perms map[string]map[string]bool
}

// New builds a Config from a role -> permission-codes mapping. The input is
// copied so later mutation of the argument cannot affect the Config.
func New(mapping map[string][]string) *Config {
	perms := make(map[string]map[string]bool, len(mapping))
	for role, codes := range mapping {
		set := make(map[string]bool, len(codes))
		for _, code := range codes {
			set[code] = true
		}
		perms[role] = set
	}
	return &Config{perms: perms}
}

// Default returns the built-in role -> permission mapping.
func Default() *Config {
	return New(map[string][]string{
		RoleAdmin: {Wildcard},
		RoleSalesman: {
			"bills.create", "bills.update", "bills.view",
			"credits.create", "credits.view",
			"vendors.view",
		},
		RoleComputerOrganiser: {
			"vendors.create", "vendors.update", "vendors.view",
			"ocr.verify", "reports.export",
			"bills.verify", "bills.view",
			"credits.view",
		},
		RoleDeliveryMan: {
			"deliveries.update_status", "deliveries.view",
			"bills.view",
		},
	})
}

// Allowed reports whether the role holds the permission code.
func (c *Config) Allowed(role, code string) bool {
	set, ok := c.perms[role]
	if !ok {
		return false
	}
	return set[Wildcard] || set[code]
}

// KnownRole reports whether the role exists in the mapping.
func (c *Config) KnownRole(role string) bool {
	_, ok := c.perms[role]
	return ok
}

// Roles returns the role names in the mapping.
func (c *Config) Roles() []string {
	roles := make([]string, 0, len(c.perms))
	for role := range c.perms {
		roles = append(roles, role)
	}
	return roles
}

// Permissions returns a copy of the permission codes held by the role.
func (c *Config) Permissions(role string) []string {
	set, ok := c.perms[role]
	if !ok {
		return []string{}
	}
	codes := make([]string, 0, len(set))
	for code := range set {
		codes = append(codes, code)
	}
	return codes
}
