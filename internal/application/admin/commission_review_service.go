package admin

import (
	"context"

	"github.com/google/uuid"
	teamapp "github.com/shopx/backoffice/internal/application/team"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/team"
	"go.uber.org/zap"
)

// CommissionReviewService is the finance review surface over commission
// records: listing, approve/reject, and settlement of approved payouts.
type CommissionReviewService struct {
	commissionRepo team.CommissionRecordRepository
	auditRepo      identity.AuditLogRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCommissionReviewService creates a new CommissionReviewService
func NewCommissionReviewService(
	commissionRepo team.CommissionRecordRepository,
	auditRepo identity.AuditLogRepository,
	logger *zap.Logger,
) *CommissionReviewService {
	return &CommissionReviewService{
		commissionRepo: commissionRepo,
		auditRepo:      auditRepo,
		logger:         logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CommissionReviewService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *CommissionReviewService) publishDomainEvents(ctx context.Context, record *team.CommissionRecord) {
	if s.eventPublisher == nil {
		record.ClearDomainEvents()
		return
	}
	events := record.GetDomainEvents()
	if len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	record.ClearDomainEvents()
}

func (s *CommissionReviewService) audit(ctx context.Context, actor Actor, action identity.AuditAction, record *team.CommissionRecord, remark string) {
	entry, err := identity.NewAuditLog(actor.ID, actor.Name, action, team.AggregateTypeCommission, record.ID.String())
	if err != nil {
		return
	}
	entry.WithAfter(teamapp.ToCommissionResponse(record)).WithIP(actor.IP).WithRemark(remark)
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("commission_id", record.ID.String()), zap.Error(err))
	}
}

// ListByPeriod returns a period's commission records
func (s *CommissionReviewService) ListByPeriod(ctx context.Context, period team.Period, filter shared.Filter) (*shared.Paginated[teamapp.CommissionResponse], error) {
	page, err := s.commissionRepo.FindByPeriod(ctx, period, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(teamapp.ToCommissionResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListByStatus returns records in a review state across periods
func (s *CommissionReviewService) ListByStatus(ctx context.Context, status team.CommissionStatus, filter shared.Filter) (*shared.Paginated[teamapp.CommissionResponse], error) {
	page, err := s.commissionRepo.FindByStatus(ctx, status, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(teamapp.ToCommissionResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Approve passes a pending record through finance review
func (s *CommissionReviewService) Approve(ctx context.Context, actor Actor, id uuid.UUID, req ReviewRequest) (*teamapp.CommissionResponse, error) {
	record, err := s.commissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Approve(actor.ID, req.Remark); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, record)
	s.audit(ctx, actor, identity.AuditActionApprove, record, req.Remark)

	response := teamapp.ToCommissionResponse(record)
	return &response, nil
}

// Reject fails a pending record in finance review
func (s *CommissionReviewService) Reject(ctx context.Context, actor Actor, id uuid.UUID, req ReviewRequest) (*teamapp.CommissionResponse, error) {
	record, err := s.commissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Reject(actor.ID, req.Remark); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, record)
	s.audit(ctx, actor, identity.AuditActionReject, record, req.Remark)

	response := teamapp.ToCommissionResponse(record)
	return &response, nil
}

// Settle marks one approved record as paid out
func (s *CommissionReviewService) Settle(ctx context.Context, actor Actor, id uuid.UUID) (*teamapp.CommissionResponse, error) {
	record, err := s.commissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.Settle(); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.SaveWithLock(ctx, record); err != nil {
		return nil, err
	}
	s.publishDomainEvents(ctx, record)
	s.audit(ctx, actor, identity.AuditActionSettle, record, "")

	response := teamapp.ToCommissionResponse(record)
	return &response, nil
}

// SettlePeriod settles every approved record in the period. Records that
// fail to save are skipped and counted separately so a partial run can be
// retried; settlement is idempotent per record.
func (s *CommissionReviewService) SettlePeriod(ctx context.Context, actor Actor, period team.Period) (*CommissionSummaryResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.Filters["status"] = string(team.CommissionApproved)

	// Settling removes records from the approved set, so keep fetching the
	// first page until it comes back empty or stops shrinking.
	settled := 0
	for {
		records, err := s.commissionRepo.FindByPeriod(ctx, period, filter)
		if err != nil {
			return nil, err
		}
		if len(records.Items) == 0 {
			break
		}

		progress := 0
		for _, record := range records.Items {
			if err := record.Settle(); err != nil {
				continue
			}
			if err := s.commissionRepo.SaveWithLock(ctx, record); err != nil {
				s.logger.Error("commission settlement failed",
					zap.String("commission_id", record.ID.String()), zap.Error(err))
				continue
			}
			s.publishDomainEvents(ctx, record)
			settled++
			progress++
		}
		if progress == 0 {
			break
		}
	}

	total, err := s.commissionRepo.SumAmountByPeriod(ctx, period)
	if err != nil {
		return nil, err
	}

	if entry, err := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionSettle, team.AggregateTypeCommission, period.String()); err == nil {
		if serr := s.auditRepo.Save(ctx, entry.WithIP(actor.IP)); serr != nil {
			s.logger.Error("audit write failed", zap.Error(serr))
		}
	}

	return &CommissionSummaryResponse{
		Period:      period.String(),
		TotalAmount: total.String(),
		Settled:     settled,
	}, nil
}
