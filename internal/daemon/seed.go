package daemon

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keed0303/ecommerce-starter-app/internal/auth"
	"github.com/Keed0303/ecommerce-starter-app/internal/config"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller/role"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/controller/user"
	"github.com/Keed0303/ecommerce-starter-app/internal/db/models"
	"github.com/Keed0303/ecommerce-starter-app/internal/web/navigation"
)

const (
	// SuperAdminRole holds every permission.
	SuperAdminRole = "Super Admin"

	generatedPasswordLen = 16
)

// SeedResult reports what Seed wrote.
type SeedResult struct {
	Role              models.Role
	Admin             *models.User // nil if users already existed
	GeneratedPassword string       // set if the admin password was generated, never logged
}

// DefaultModuleOrder is the navigation order of the Super Admin role.
func DefaultModuleOrder() []role.ModuleOrder {
	return []role.ModuleOrder{
		{Module: navigation.ModuleDashboard, Order: 1},
		{Module: navigation.ModuleProducts, Order: 2},
		{Module: navigation.ModuleCategories, Order: 3},
		{Module: navigation.ModuleSettings, Order: 4},
	}
}

// Seed writes the permission catalogue, the Super Admin role and, on an empty user table,
// the admin account. Running it again changes nothing but the Super Admin permission set,
// which is widened to every stored permission.
func Seed(cfg *config.Config, db *gorm.DB) (*SeedResult, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	res := &SeedResult{}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := seedPermissions(tx); err != nil {
			return err
		}

		return seedSuperAdmin(tx, &res.Role)
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to seed roles and permissions")
	}

	var count int64
	if err = db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}

	if count > 0 {
		return res, nil
	}

	password := cfg.Seed.AdminPassword
	if password == "" {
		password = strings.ReplaceAll(uuid.NewString(), "-", "")[:generatedPasswordLen]
		res.GeneratedPassword = password
	}

	admin, err := user.Create(db, user.Input{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: password,
		RoleIDs:  []uint{res.Role.ID},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create admin user")
	}

	now := time.Now()
	if err = db.Model(admin).Omit(clause.Associations).Update("email_verified_at", now).Error; err != nil {
		return nil, errors.Wrap(err, "failed to verify admin user")
	}

	admin.EmailVerifiedAt = &now
	res.Admin = admin

	log.Info().Str("email", admin.Email).
		Bool("generated_password", res.GeneratedPassword != "").
		Msg("admin user created")

	return res, nil
}

func seedPermissions(tx *gorm.DB) error {
	for _, def := range auth.Catalogue() {
		p := models.Permission{}

		err := tx.Where(models.Permission{Name: def.Name}).
			Attrs(models.Permission{
				Module:      def.Module(),
				Action:      def.Action(),
				DisplayName: def.DisplayName,
				Description: def.Description,
			}).
			FirstOrCreate(&p).Error
		if err != nil {
			return err
		}
	}

	return nil
}

func seedSuperAdmin(tx *gorm.DB, r *models.Role) error {
	err := tx.Where(models.Role{Name: SuperAdminRole}).
		Attrs(models.Role{Description: "Full access to every module"}).
		FirstOrCreate(r).Error
	if err != nil {
		return err
	}

	var ids []uint
	if err = tx.Model(&models.Permission{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return err
	}

	if err = role.ReplacePermissions(tx, r.ID, ids); err != nil {
		return err
	}

	var orders int64
	if err = tx.Model(&models.RoleModuleOrder{}).Where("role_id = ?", r.ID).Count(&orders).Error; err != nil {
		return err
	}

	if orders > 0 {
		return nil
	}

	return role.ReplaceModuleOrder(tx, r.ID, DefaultModuleOrder())
}
