package admin

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// AuditService is the read surface over the append-only audit trail
type AuditService struct {
	auditRepo identity.AuditLogRepository
}

// NewAuditService creates a new AuditService
func NewAuditService(auditRepo identity.AuditLogRepository) *AuditService {
	return &AuditService{auditRepo: auditRepo}
}

// Get returns one audit entry by ID
func (s *AuditService) Get(ctx context.Context, id uuid.UUID) (*AuditLogResponse, error) {
	entry, err := s.auditRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToAuditLogResponse(entry)
	return &response, nil
}

// List returns audit entries with filtering and pagination
func (s *AuditService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[AuditLogResponse], error) {
	page, err := s.auditRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToAuditLogResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// ListByActor returns one admin's audit entries
func (s *AuditService) ListByActor(ctx context.Context, actorID uuid.UUID, filter shared.Filter) (*shared.Paginated[AuditLogResponse], error) {
	page, err := s.auditRepo.FindByActor(ctx, actorID, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToAuditLogResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}
