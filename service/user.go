package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/ariebrainware/docflow-schedule/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const emailTaken = "Email already exists"

type UserInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Specialization string
	LicenseNumber  string
	ProfilePhoto   string
	Provider       model.Provider
	Role           model.Role
}

// UserUpdate holds profile changes. Role and IsActive are only honored for
// admin callers; the handler leaves them nil otherwise.
type UserUpdate struct {
	Name           *string
	Email          *string
	Password       *string
	Phone          *string
	Specialization *string
	LicenseNumber  *string
	ProfilePhoto   *string
	Role           *model.Role
	IsActive       *bool
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func userNotFound(id string) error {
	return &scope.NotFoundError{Resource: "User", ID: id}
}

func (s *UserService) Create(ctx context.Context, in UserInput) (*model.User, error) {
	email := util.NormalizeEmail(in.Email)
	if _, err := s.FindByEmail(ctx, email); err == nil {
		return nil, conflictf(emailTaken)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	u := model.User{
		Name:           util.NormalizeName(in.Name),
		Email:          email,
		Phone:          in.Phone,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		ProfilePhoto:   in.ProfilePhoto,
		Provider:       in.Provider,
		Role:           in.Role,
		IsActive:       true,
	}
	if u.Provider == "" {
		u.Provider = model.ProviderEmail
	}
	if u.Role == "" {
		u.Role = model.RoleDoctor
	}
	if in.Password != "" {
		hash, err := util.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = &hash
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, uniqueViolation(err, emailTaken)
	}
	return &u, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	out := []model.User{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userNotFound(id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", util.NormalizeEmail(email)).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, userNotFound(email)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies upd. A password change, or deactivation, revokes every
// session the user holds.
func (s *UserService) Update(ctx context.Context, id string, upd UserUpdate) (*model.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if upd.Email != nil {
		email := util.NormalizeEmail(*upd.Email)
		if email != u.Email {
			if other, err := s.FindByEmail(ctx, email); err == nil && other.ID != u.ID {
				return nil, conflictf(emailTaken)
			} else if err != nil && !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			u.Email = email
			util.UserEmailCacheDelete(u.ID)
		}
	}
	if upd.Name != nil {
		u.Name = util.NormalizeName(*upd.Name)
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Specialization != nil {
		u.Specialization = *upd.Specialization
	}
	if upd.LicenseNumber != nil {
		u.LicenseNumber = *upd.LicenseNumber
	}
	if upd.ProfilePhoto != nil {
		u.ProfilePhoto = *upd.ProfilePhoto
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	revoke := false
	if upd.IsActive != nil {
		revoke = u.IsActive && !*upd.IsActive
		u.IsActive = *upd.IsActive
	}
	passwordChanged := false
	if upd.Password != nil {
		hash, err := util.HashPassword(*upd.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.Password = &hash
		passwordChanged = true
	}

	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(u).Error; err != nil {
		return nil, uniqueViolation(err, emailTaken)
	}
	if passwordChanged || revoke {
		if err := s.RevokeSessions(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	if passwordChanged {
		util.LogPasswordChanged(u.ID, u.Email)
	}
	return u, nil
}

// Deactivate soft-removes a user: the row stays, login is refused and every
// session is revoked.
func (s *UserService) Deactivate(ctx context.Context, id, byUserID string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Model(u).Update("is_active", false).Error; err != nil {
		return err
	}
	util.LogAccountDeactivated(u.ID, u.Email, byUserID)
	return s.RevokeSessions(ctx, u.ID)
}

// RevokeSessions deletes the user's sessions from the database and Redis.
func (s *UserService) RevokeSessions(ctx context.Context, userID string) error {
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Session{}).Error; err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}
	return util.InvalidateUserSessions(ctx, userID)
}

// FindOrCreateOAuthUser resolves a provider profile to a user: first by the
// provider's ID, then by email (linking the provider ID to that account),
// otherwise by creating a verified account.
func (s *UserService) FindOrCreateOAuthUser(ctx context.Context, p util.OAuthProfile) (*model.User, error) {
	column, err := providerColumn(p.Provider)
	if err != nil {
		return nil, err
	}
	db := s.db.WithContext(ctx)

	var u model.User
	err = db.Where(column+" = ?", p.ProviderID).Take(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	existing, err := s.FindByEmail(ctx, p.Email)
	switch {
	case err == nil:
		if err := db.Model(existing).Updates(map[string]interface{}{column: p.ProviderID, "is_email_verified": true}).Error; err != nil {
			return nil, err
		}
		return s.Get(ctx, existing.ID)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	providerID := p.ProviderID
	u = model.User{
		Name:            p.Name,
		Email:           util.NormalizeEmail(p.Email),
		ProfilePhoto:    p.Photo,
		Provider:        p.Provider,
		Role:            model.RoleDoctor,
		IsActive:        true,
		IsEmailVerified: true,
	}
	if p.Provider == model.ProviderGoogle {
		u.GoogleID = &providerID
	} else {
		u.FacebookID = &providerID
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, uniqueViolation(err, emailTaken)
	}
	return &u, nil
}

func providerColumn(p model.Provider) (string, error) {
	switch p {
	case model.ProviderGoogle:
		return "google_id", nil
	case model.ProviderFacebook:
		return "facebook_id", nil
	default:
		return "", validationf("unsupported oauth provider %s", strings.TrimSpace(string(p)))
	}
}
