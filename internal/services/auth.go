package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pipedesk/pipedesk/internal/apperrors"
	"github.com/pipedesk/pipedesk/internal/auth"
	"github.com/pipedesk/pipedesk/internal/config"
	"github.com/pipedesk/pipedesk/internal/models"
	"github.com/pipedesk/pipedesk/internal/repositories"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// Register creates the user, their organization and the owner membership in
// one transaction, then issues a token pair. The organization starts with
// the global default currency.
func (s *AuthService) Register(name, email, password, organizationName string) (*models.User, *models.Organization, auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users := repositories.NewUserRepository(s.db)

	exists, err := users.EmailExists(email)

	if err != nil {
		return nil, nil, auth.TokenPair{}, err
	}

	if exists {
		return nil, nil, auth.TokenPair{}, apperrors.AlreadyExists("User", "email")
	}

	passwordHash, err := auth.HashPassword(password)

	if err != nil {
		return nil, nil, auth.TokenPair{}, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: passwordHash,
	}

	org := &models.Organization{
		Name:            strings.TrimSpace(organizationName),
		DefaultCurrency: config.App.DefaultCurrency,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := repositories.NewUserRepository(tx).Create(user); err != nil {
			return err
		}

		if err := repositories.NewOrganizationRepository(tx).Create(org); err != nil {
			return err
		}

		return repositories.NewOrganizationMemberRepository(tx).Add(&models.OrganizationMember{
			OrganizationID: org.ID,
			UserID:         user.ID,
			Role:           models.RoleOwner,
		})
	})

	if err != nil {
		// A concurrent registration can slip past the EmailExists check and
		// hit the unique index inside the transaction.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, auth.TokenPair{}, apperrors.AlreadyExists("User", "email")
		}
		return nil, nil, auth.TokenPair{}, err
	}

	tokens, err := auth.GenerateTokenPair(user.ID)

	if err != nil {
		return nil, nil, auth.TokenPair{}, err
	}

	return user, org, tokens, nil
}

// Login verifies credentials and returns the user's memberships alongside a
// fresh token pair. Wrong email and wrong password are reported identically.
func (s *AuthService) Login(email, password string) (*models.User, []models.OrganizationMember, auth.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := repositories.NewUserRepository(s.db).GetByEmail(email)

	if err != nil {
		// Only an unknown email reads as bad credentials; storage failures
		// stay unclassified and surface as 500.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, auth.TokenPair{}, apperrors.Unauthenticated("Invalid email or password")
		}
		return nil, nil, auth.TokenPair{}, err
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		return nil, nil, auth.TokenPair{}, apperrors.Unauthenticated("Invalid email or password")
	}

	memberships, err := repositories.NewOrganizationMemberRepository(s.db).ListByUser(user.ID)

	if err != nil {
		return nil, nil, auth.TokenPair{}, err
	}

	tokens, err := auth.GenerateTokenPair(user.ID)

	if err != nil {
		return nil, nil, auth.TokenPair{}, err
	}

	return user, memberships, tokens, nil
}

// Refresh rotates the token pair from a valid refresh token.
func (s *AuthService) Refresh(refreshToken string) (auth.TokenPair, error) {
	userID, err := auth.VerifyToken(refreshToken, auth.TokenTypeRefresh)

	if err != nil {
		return auth.TokenPair{}, apperrors.Unauthenticated("Invalid or expired refresh token")
	}

	if _, err := repositories.NewUserRepository(s.db).GetByID(userID); err != nil {
		return auth.TokenPair{}, apperrors.Unauthenticated("Invalid or expired refresh token")
	}

	return auth.GenerateTokenPair(userID)
}
