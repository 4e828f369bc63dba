package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pipedesk/pipedesk/internal/auth"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/permissions"
)

func init() {
	auth.SetJWTSecret("test-secret")
}

// newTestDB opens a throwaway in-memory database. The shared cache keeps the
// database alive across the pooled connections gorm opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.AutoMigrate(
		&models.User{},
		&models.Organization{},
		&models.OrganizationMember{},
		&models.Contact{},
		&models.Deal{},
		&models.Task{},
		&models.Activity{},
	))

	return database
}

// fixture is a seeded organization with one user per role and a contact.
type fixture struct {
	db *gorm.DB

	org     models.Organization
	owner   models.User
	admin   models.User
	manager models.User
	member  models.User
	contact models.Contact
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{db: newTestDB(t)}

	f.org = models.Organization{Name: "Acme", DefaultCurrency: "USD"}
	require.NoError(t, f.db.Create(&f.org).Error)

	f.owner = f.createUser(t, "owner@acme.test")
	f.admin = f.createUser(t, "admin@acme.test")
	f.manager = f.createUser(t, "manager@acme.test")
	f.member = f.createUser(t, "member@acme.test")

	f.addMember(t, f.org.ID, f.owner.ID, models.RoleOwner)
	f.addMember(t, f.org.ID, f.admin.ID, models.RoleAdmin)
	f.addMember(t, f.org.ID, f.manager.ID, models.RoleManager)
	f.addMember(t, f.org.ID, f.member.ID, models.RoleMember)

	f.contact = models.Contact{
		OrganizationID: f.org.ID,
		OwnerID:        f.owner.ID,
		Name:           "Jane Buyer",
		Email:          "jane@example.test",
	}
	require.NoError(t, f.db.Create(&f.contact).Error)

	return f
}

func (f *fixture) createUser(t *testing.T, email string) models.User {
	t.Helper()

	user := models.User{Name: "Test User", Email: email, PasswordHash: "x"}
	require.NoError(t, f.db.Create(&user).Error)
	return user
}

func (f *fixture) addMember(t *testing.T, orgID, userID uint, role models.MemberRole) {
	t.Helper()

	require.NoError(t, f.db.Create(&models.OrganizationMember{
		OrganizationID: orgID,
		UserID:         userID,
		Role:           role,
	}).Error)
}

// createDeal inserts a deal directly, bypassing the service, so tests can
// start from arbitrary states.
func (f *fixture) createDeal(t *testing.T, ownerID uint, status models.DealStatus, stage models.DealStage, amount int64) models.Deal {
	t.Helper()

	deal := models.Deal{
		OrganizationID: f.org.ID,
		ContactID:      f.contact.ID,
		OwnerID:        ownerID,
		Title:          "Test Deal",
		Amount:         decimal.NewFromInt(amount),
		Currency:       "USD",
		Status:         status,
		Stage:          stage,
	}
	require.NoError(t, f.db.Create(&deal).Error)
	return deal
}

// otherOrg seeds a second organization with its own owner and contact, for
// isolation tests.
func (f *fixture) otherOrg(t *testing.T) (models.Organization, models.User, models.Contact) {
	t.Helper()

	org := models.Organization{Name: "Rival", DefaultCurrency: "EUR"}
	require.NoError(t, f.db.Create(&org).Error)

	user := f.createUser(t, fmt.Sprintf("owner-%s@rival.test", uuid.NewString()[:8]))
	f.addMember(t, org.ID, user.ID, models.RoleOwner)

	contact := models.Contact{
		OrganizationID: org.ID,
		OwnerID:        user.ID,
		Name:           "Rival Contact",
	}
	require.NoError(t, f.db.Create(&contact).Error)

	return org, user, contact
}

func (f *fixture) activities(t *testing.T, dealID uint) []models.Activity {
	t.Helper()

	var out []models.Activity
	require.NoError(t, f.db.Where("deal_id = ?", dealID).Order("id asc").Find(&out).Error)
	return out
}

func (f *fixture) perms() permissions.Evaluator {
	return permissions.NewEvaluator()
}
