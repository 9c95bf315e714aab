package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages admin accounts. Every mutation writes an audit entry.
type UserService struct {
	userRepo       identity.UserRepository
	auditRepo      identity.AuditLogRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, auditRepo identity.AuditLogRepository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *UserService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *UserService) publishDomainEvents(ctx context.Context, user *identity.User) {
	if s.eventPublisher == nil {
		return
	}
	events := user.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	user.ClearDomainEvents()
}

func (s *UserService) audit(ctx context.Context, entry *identity.AuditLog) {
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
	}
}

// Create registers a new admin account
func (s *UserService) Create(ctx context.Context, actor Actor, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("USERNAME_TAKEN", "Username is already in use")
	}

	user, err := identity.NewUser(req.Username, req.Password, identity.AdminRole(req.Role))
	if err != nil {
		return nil, err
	}
	if req.Email != "" {
		if err := user.SetEmail(req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != "" {
		if err := user.SetDisplayName(req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	response := ToUserResponse(user)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionCreate, identity.AggregateTypeUser, user.ID.String()); err == nil {
		s.audit(ctx, entry.WithAfter(response).WithIP(actor.IP))
	}
	return &response, nil
}

// Get returns an admin account by ID
func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToUserResponse(user)
	return &response, nil
}

// List returns admin accounts with filtering and pagination
func (s *UserService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[UserResponse], error) {
	page, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToUserResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Update changes profile fields on an account
func (s *UserService) Update(ctx context.Context, actor Actor, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToUserResponse(user)

	if req.Email != nil {
		if err := user.SetEmail(*req.Email); err != nil {
			return nil, err
		}
	}
	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, identity.AggregateTypeUser, user.ID.String()); err == nil {
		s.audit(ctx, entry.WithBefore(before).WithAfter(response).WithIP(actor.IP))
	}
	return &response, nil
}

// ChangeRole switches an account's admin role
func (s *UserService) ChangeRole(ctx context.Context, actor Actor, id uuid.UUID, req ChangeUserRoleRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID == actor.ID {
		return nil, shared.NewDomainError("SELF_ROLE_CHANGE", "Cannot change your own role")
	}
	before := ToUserResponse(user)

	if err := user.ChangeRole(identity.AdminRole(req.Role)); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, identity.AggregateTypeUser, user.ID.String()); err == nil {
		s.audit(ctx, entry.WithBefore(before).WithAfter(response).WithIP(actor.IP).WithRemark("role change"))
	}
	return &response, nil
}

// ResetPassword sets a new password without the old one
func (s *UserService) ResetPassword(ctx context.Context, actor Actor, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, identity.AggregateTypeUser, user.ID.String()); err == nil {
		s.audit(ctx, entry.WithIP(actor.IP).WithRemark("password reset"))
	}
	return nil
}

// ChangePassword rotates the actor's own password
func (s *UserService) ChangePassword(ctx context.Context, actor Actor, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, actor.ID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return s.userRepo.Save(ctx, user)
}

// Disable blocks an account from logging in
func (s *UserService) Disable(ctx context.Context, actor Actor, id uuid.UUID) (*UserResponse, error) {
	if id == actor.ID {
		return nil, shared.NewDomainError("SELF_DISABLE", "Cannot disable your own account")
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Disable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	response := ToUserResponse(user)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, identity.AggregateTypeUser, user.ID.String()); err == nil {
		s.audit(ctx, entry.WithIP(actor.IP).WithRemark("account disabled"))
	}
	return &response, nil
}

// Enable restores a disabled account
func (s *UserService) Enable(ctx context.Context, actor Actor, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Enable(); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, user)

	response := ToUserResponse(user)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, identity.AggregateTypeUser, user.ID.String()); err == nil {
		s.audit(ctx, entry.WithIP(actor.IP).WithRemark("account enabled"))
	}
	return &response, nil
}
