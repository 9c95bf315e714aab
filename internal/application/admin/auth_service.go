package admin

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenPair holds a freshly issued access and refresh token
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenID      string
	ExpiresIn    int64
}

// TokenIssuer mints and verifies JWT token pairs
type TokenIssuer interface {
	Issue(user *identity.User) (*TokenPair, error)
	// VerifyRefresh returns the user ID and token ID encoded in a refresh token
	VerifyRefresh(token string) (userID string, tokenID string, err error)
}

// TokenBlacklist revokes tokens before their natural expiry (Redis backed)
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthService authenticates admins and manages their sessions
type AuthService struct {
	userRepo       identity.UserRepository
	auditRepo      identity.AuditLogRepository
	tokens         TokenIssuer
	blacklist      TokenBlacklist
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo identity.UserRepository,
	auditRepo identity.AuditLogRepository,
	tokens TokenIssuer,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		tokens:    tokens,
		logger:    logger,
	}
}

// SetBlacklist enables token revocation on logout
func (s *AuthService) SetBlacklist(blacklist TokenBlacklist) {
	s.blacklist = blacklist
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AuthService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ErrBadCredentials is returned for any username/password mismatch. The same
// error covers unknown usernames so responses do not leak which accounts exist.
var ErrBadCredentials = shared.NewDomainError("BAD_CREDENTIALS", "Invalid username or password")

// Login verifies credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest, ip string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrBadCredentials
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}
	if !user.VerifyPassword(req.Password) {
		s.logger.Warn("failed login attempt",
			zap.String("username", req.Username), zap.String("ip", ip))
		return nil, ErrBadCredentials
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(ip)
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		_ = s.eventPublisher.Publish(ctx, identity.NewUserLoggedInEvent(user, ip))
	}
	if entry, aerr := identity.NewAuditLog(user.ID, user.Username, identity.AuditActionLogin, identity.AggregateTypeUser, user.ID.String()); aerr == nil {
		if err := s.auditRepo.Save(ctx, entry.WithIP(ip)); err != nil {
			s.logger.Error("audit write failed", zap.Error(err))
		}
	}

	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         ToUserResponse(user),
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*LoginResponse, error) {
	userID, tokenID, err := s.tokens.VerifyRefresh(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, tokenID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.ErrUnauthorized
		}
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
		User:         ToUserResponse(user),
	}, nil
}

// Logout revokes the session's token and records the action
func (s *AuthService) Logout(ctx context.Context, actor Actor, tokenID string, remaining time.Duration) error {
	if s.blacklist != nil && tokenID != "" {
		if err := s.blacklist.Revoke(ctx, tokenID, remaining); err != nil {
			return err
		}
	}
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionLogout, identity.AggregateTypeUser, actor.ID.String()); err == nil {
		if serr := s.auditRepo.Save(ctx, entry.WithIP(actor.IP)); serr != nil {
			s.logger.Error("audit write failed", zap.Error(serr))
		}
	}
	return nil
}
