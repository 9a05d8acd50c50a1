package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	maxFailedAttempts = 5
	lockoutDuration   = 15 * time.Minute
	invalidCreds      = "Invalid credentials"
)

// ClientInfo describes where a login came from, for the session row and
// the security log.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// AuthResult is returned by every successful sign-in.
type AuthResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

type RegisterInput struct {
	Name           string
	Email          string
	Password       string
	Phone          string
	Specialization string
	LicenseNumber  string
}

type AuthService struct {
	db    *gorm.DB
	users *UserService
	ttl   time.Duration
	now   func() time.Time
}

func NewAuthService(db *gorm.DB, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &AuthService{db: db, users: NewUserService(db), ttl: ttl, now: time.Now}
}

// Register creates an email account with the doctor role and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, client ClientInfo) (*AuthResult, error) {
	u, err := s.users.Create(ctx, UserInput{
		Name:           in.Name,
		Email:          in.Email,
		Password:       in.Password,
		Phone:          in.Phone,
		Specialization: in.Specialization,
		LicenseNumber:  in.LicenseNumber,
		Provider:       model.ProviderEmail,
		Role:           model.RoleDoctor,
	})
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, conflictf("Email already registered")
		}
		return nil, err
	}
	util.LogSignup(u.ID, u.Email, client.IP, client.UserAgent)
	return s.issue(ctx, u, client)
}

// Login checks an email and password. Five consecutive failures lock the
// account for fifteen minutes.
func (s *AuthService) Login(ctx context.Context, email, password string, client ClientInfo) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		util.LogLoginFailure(email, client.IP, client.UserAgent, "unknown email")
		return nil, unauthorizedf(invalidCreds)
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		util.LogLoginFailure(u.Email, client.IP, client.UserAgent, "inactive account")
		return nil, unauthorizedf("Account is inactive")
	}
	now := s.now()
	if u.IsLocked(now) {
		util.LogLoginFailure(u.Email, client.IP, client.UserAgent, "account locked")
		return nil, unauthorizedf("Account is temporarily locked, try again later")
	}
	if !u.HasPassword() {
		util.LogLoginFailure(u.Email, client.IP, client.UserAgent, "no password set")
		return nil, unauthorizedf(invalidCreds)
	}
	ok, err := util.VerifyPassword(password, *u.Password)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		if err := s.recordFailure(ctx, u, now, client); err != nil {
			return nil, err
		}
		return nil, unauthorizedf(invalidCreds)
	}
	if u.FailedAttempts > 0 || u.LockedUntil != nil {
		err := s.db.WithContext(ctx).Model(u).Updates(map[string]interface{}{"failed_attempts": 0, "locked_until": nil}).Error
		if err != nil {
			return nil, err
		}
	}
	util.LogLoginSuccess(u.ID, u.Email, client.IP, client.UserAgent)
	return s.issue(ctx, u, client)
}

func (s *AuthService) recordFailure(ctx context.Context, u *model.User, now time.Time, client ClientInfo) error {
	attempts := u.FailedAttempts + 1
	updates := map[string]interface{}{"failed_attempts": attempts}
	if attempts >= maxFailedAttempts {
		until := now.Add(lockoutDuration)
		updates["failed_attempts"] = 0
		updates["locked_until"] = until
		util.LogAccountLocked(u.ID, u.Email, client.IP, fmt.Sprintf("%d failed attempts", attempts))
	} else {
		util.LogLoginFailure(u.Email, client.IP, client.UserAgent, "wrong password")
	}
	return s.db.WithContext(ctx).Model(u).Updates(updates).Error
}

// OAuthLogin signs in the account matching a provider profile, creating it
// on first use.
func (s *AuthService) OAuthLogin(ctx context.Context, p util.OAuthProfile, client ClientInfo) (*AuthResult, error) {
	u, err := s.users.FindOrCreateOAuthUser(ctx, p)
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, unauthorizedf("Account is inactive")
	}
	util.LogOAuthLogin(u.ID, u.Email, string(p.Provider), client.IP, client.UserAgent)
	return s.issue(ctx, u, client)
}

// Refresh issues a fresh token for an authenticated user.
func (s *AuthService) Refresh(ctx context.Context, userID string, client ClientInfo) (*AuthResult, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u, client)
}

// Logout revokes one session.
func (s *AuthService) Logout(ctx context.Context, userID, tokenID string) error {
	if err := s.db.WithContext(ctx).Where("token_id = ? AND user_id = ?", tokenID, userID).Delete(&model.Session{}).Error; err != nil {
		return err
	}
	return util.RevokeSession(ctx, userID, tokenID)
}

// Authenticate resolves a bearer token to an active user. The session must
// still exist: Redis is checked first, then the sessions table.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*model.User, *util.Claims, error) {
	claims, err := util.ParseToken(raw)
	if err != nil {
		return nil, nil, unauthorizedf("Invalid token")
	}
	if cached, ok := util.CachedSessionUser(ctx, claims.ID); !ok || cached != claims.Subject {
		var session model.Session
		err := s.db.WithContext(ctx).
			Where("token_id = ? AND user_id = ? AND expires_at > ?", claims.ID, claims.Subject, s.now()).
			Take(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, unauthorizedf("Session expired or revoked")
		}
		if err != nil {
			return nil, nil, err
		}
		cacheSession(ctx, session.TokenID, session.UserID, session.ExpiresAt.Sub(s.now()))
	}
	u, err := s.users.Get(ctx, claims.Subject)
	if errors.Is(err, ErrNotFound) {
		return nil, nil, unauthorizedf("Invalid token")
	}
	if err != nil {
		return nil, nil, err
	}
	if !u.IsActive {
		return nil, nil, unauthorizedf("Account is inactive")
	}
	return u, claims, nil
}

func (s *AuthService) issue(ctx context.Context, u *model.User, client ClientInfo) (*AuthResult, error) {
	token, claims, err := util.IssueToken(u.ID, u.Email, string(u.Role), s.ttl)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	session := model.Session{
		UserID:    u.ID,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		ClientIP:  client.IP,
		Browser:   client.UserAgent,
	}
	if err := s.db.WithContext(ctx).Create(&session).Error; err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	cacheSession(ctx, session.TokenID, u.ID, s.ttl)
	return &AuthResult{User: u, Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// cacheSession mirrors a session row into Redis. The row stays
// authoritative, so a failure only costs a database lookup later.
func cacheSession(ctx context.Context, tokenID, userID string, ttl time.Duration) {
	if err := util.CacheSession(ctx, tokenID, userID, ttl); err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("user_id", userID).Msg("session cache write failed")
	}
}
