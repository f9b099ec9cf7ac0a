package rbac

import (
	"fmt"
	"strings"

	"creditdesk/internal/model"

	"gorm.io/gorm"
)

// permissionDescriptions provides the human-readable name for each seeded
// permission code. The runtime check never reads these rows; they exist for
// the admin role/permission listing only.
var permissionDescriptions = map[string]string{
	Wildcard:                   "All permissions",
	"bills.create":             "Create new bills",
	"bills.update":             "Update existing bills",
	"bills.view":               "View bills",
	"bills.verify":             "Verify OCR bills",
	"bills.delete":             "Delete bills",
	"credits.create":           "Create credit transactions",
	"credits.update":           "Update credit transactions",
	"credits.view":             "View credits",
	"credits.override_status":  "Override credit status",
	"vendors.create":           "Create vendors",
	"vendors.update":           "Update vendors",
	"vendors.view":             "View vendors",
	"vendors.delete":           "Delete vendors",
	"ocr.verify":               "Verify OCR extracted data",
	"reports.export":           "Export reports",
	"deliveries.update_status": "Update delivery status",
	"deliveries.view":          "View deliveries",
	"users.create":             "Create users",
	"users.update":             "Update users",
	"users.delete":             "Delete users",
	"users.view":               "View users",
}

// displayName turns "computer_organiser" into "Computer Organiser"
func displayName(roleName string) string {
	words := strings.Split(roleName, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Seed writes the Role and Permission rows matching the Config into the
// database. Safe to run on every startup.
func Seed(db *gorm.DB, cfg *Config) error {
	permByCode := make(map[string]model.Permission, len(permissionDescriptions))
	for code, name := range permissionDescriptions {
		group := "general"
		if i := strings.Index(code, "."); i > 0 {
			group = code[:i]
		}
		perm := model.Permission{Code: code, Name: name, Group: group}
		if err := db.Where("code = ?", code).FirstOrCreate(&perm).Error; err != nil {
			return fmt.Errorf("failed to seed permission %s: %w", code, err)
		}
		permByCode[code] = perm
	}

	for _, roleName := range cfg.Roles() {
		role := model.Role{
			Name:        roleName,
			Description: displayName(roleName) + " role",
			IsSystem:    true,
		}
		if err := db.Where("name = ?", roleName).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("failed to seed role %s: %w", roleName, err)
		}

		var perms []model.Permission
		for _, code := range cfg.Permissions(roleName) {
			if code == Wildcard {
				for _, p := range permByCode {
					perms = append(perms, p)
				}
				break
			}
			if p, ok := permByCode[code]; ok {
				perms = append(perms, p)
			}
		}
		if err := db.Model(&role).Association("Permissions").Replace(perms); err != nil {
			return fmt.Errorf("failed to assign permissions to %s: %w", roleName, err)
		}
	}

	return nil
}
