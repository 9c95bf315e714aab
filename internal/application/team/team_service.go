package team

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"go.uber.org/zap"
)

// TeamService manages team membership and the downline tree. Membership is
// mutated by back-office staff, so every mutation writes an audit entry.
type TeamService struct {
	memberRepo     team.MemberRepository
	auditRepo      identity.AuditLogRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTeamService creates a new TeamService
func NewTeamService(memberRepo team.MemberRepository, auditRepo identity.AuditLogRepository, logger *zap.Logger) *TeamService {
	return &TeamService{
		memberRepo: memberRepo,
		auditRepo:  auditRepo,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *TeamService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *TeamService) publishDomainEvents(ctx context.Context, member *team.Member) {
	if s.eventPublisher == nil {
		return
	}
	events := member.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	member.ClearDomainEvents()
}

func (s *TeamService) audit(ctx context.Context, entry *identity.AuditLog) {
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("entity_type", entry.EntityType),
			zap.Error(err))
	}
}

// Join enrolls a user into the program, optionally under a sponsor
func (s *TeamService) Join(ctx context.Context, actor identity.Actor, req JoinRequest) (*MemberResponse, error) {
	if existing, err := s.memberRepo.FindByUserID(ctx, req.UserID); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_MEMBER", "User is already enrolled")
	}

	var (
		member *team.Member
		err    error
	)
	if req.ParentID != nil {
		parent, perr := s.memberRepo.FindByID(ctx, *req.ParentID)
		if perr != nil {
			return nil, perr
		}
		member, err = team.NewMemberUnder(req.UserID, req.Nickname, parent)
	} else {
		member, err = team.NewMember(req.UserID, req.Nickname)
	}
	if err != nil {
		return nil, err
	}

	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, member)

	response := ToMemberResponse(member)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionCreate, team.AggregateTypeMember, member.ID.String()); err == nil {
		s.audit(ctx, entry.WithAfter(response).WithIP(actor.IP))
	}
	return &response, nil
}

// Get returns a member by ID
func (s *TeamService) Get(ctx context.Context, id uuid.UUID) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToMemberResponse(member)
	return &response, nil
}

// List returns members with filtering and pagination
func (s *TeamService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[MemberResponse], error) {
	page, err := s.memberRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToMemberResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Downline returns the member's subtree annotated with relative depth
func (s *TeamService) Downline(ctx context.Context, id uuid.UUID) ([]DownlineResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	downline, err := s.memberRepo.FindDownline(ctx, member)
	if err != nil {
		return nil, err
	}

	out := make([]DownlineResponse, 0, len(downline))
	for _, d := range downline {
		out = append(out, DownlineResponse{
			MemberResponse: ToMemberResponse(d),
			RelativeDepth:  d.DepthRelativeTo(member),
		})
	}
	return out, nil
}

// ChangeRole overrides a member's role (admin operation)
func (s *TeamService) ChangeRole(ctx context.Context, actor identity.Actor, id uuid.UUID, req ChangeRoleRequest) (*MemberResponse, error) {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := ToMemberResponse(member)

	if err := member.ChangeRole(team.Role(req.Role)); err != nil {
		return nil, err
	}
	if err := s.memberRepo.SaveWithLock(ctx, member); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, member)

	response := ToMemberResponse(member)
	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, team.AggregateTypeMember, member.ID.String()); err == nil {
		s.audit(ctx, entry.WithBefore(before).WithAfter(response).WithIP(actor.IP).WithRemark("role change"))
	}
	return &response, nil
}

// Deactivate removes a member from active ranking and roll-ups
func (s *TeamService) Deactivate(ctx context.Context, actor identity.Actor, id uuid.UUID) error {
	member, err := s.memberRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	member.Deactivate()
	if err := s.memberRepo.SaveWithLock(ctx, member); err != nil {
		return err
	}

	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, team.AggregateTypeMember, member.ID.String()); err == nil {
		s.audit(ctx, entry.WithIP(actor.IP).WithRemark("member deactivated"))
	}
	return nil
}
