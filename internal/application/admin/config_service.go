package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/identity"
	"github.com/shopx/backoffice/internal/domain/shared"
	"github.com/shopx/backoffice/internal/domain/sysconfig"
	"go.uber.org/zap"
)

const AuditEntityConfig = "ConfigEntry"

// ConfigArchiver stores config export documents in object storage
type ConfigArchiver interface {
	// Archive writes the export document and returns its storage location
	Archive(ctx context.Context, key string, data []byte) (string, error)
}

// ConfigService manages system configuration rows and their JSON
// export/import round trip.
type ConfigService struct {
	configRepo sysconfig.ConfigRepository
	auditRepo  identity.AuditLogRepository
	archiver   ConfigArchiver
	logger     *zap.Logger
}

// NewConfigService creates a new ConfigService
func NewConfigService(configRepo sysconfig.ConfigRepository, auditRepo identity.AuditLogRepository, logger *zap.Logger) *ConfigService {
	return &ConfigService{
		configRepo: configRepo,
		auditRepo:  auditRepo,
		logger:     logger,
	}
}

// SetArchiver enables export archival to object storage
func (s *ConfigService) SetArchiver(archiver ConfigArchiver) {
	s.archiver = archiver
}

func (s *ConfigService) audit(ctx context.Context, entry *identity.AuditLog) {
	if err := s.auditRepo.Save(ctx, entry); err != nil {
		s.logger.Error("audit write failed",
			zap.String("action", string(entry.Action)), zap.Error(err))
	}
}

// Set creates a config row, or updates the value and description of an
// existing one. The declared type of an existing row cannot change.
func (s *ConfigService) Set(ctx context.Context, actor Actor, req SetConfigRequest) (*ConfigResponse, error) {
	existing, err := s.configRepo.FindByGroupAndKey(ctx, req.Group, req.Key)
	if err == nil && existing != nil {
		before := ToConfigResponse(existing)
		if string(existing.Type) != req.Type {
			return nil, shared.NewDomainError("CONFIG_TYPE_MISMATCH", "Cannot change the type of an existing config")
		}
		if err := existing.SetValue(req.Value); err != nil {
			return nil, err
		}
		if req.Description != "" {
			existing.SetDescription(req.Description)
		}
		if err := s.configRepo.Save(ctx, existing); err != nil {
			return nil, err
		}

		response := ToConfigResponse(existing)
		if entry, aerr := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionUpdate, AuditEntityConfig, existing.QualifiedKey()); aerr == nil {
			s.audit(ctx, entry.WithBefore(before).WithAfter(response).WithIP(actor.IP))
		}
		return &response, nil
	}

	created, err := sysconfig.NewConfigEntry(req.Group, req.Key, req.Value, sysconfig.ValueType(req.Type))
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		created.SetDescription(req.Description)
	}
	if err := s.configRepo.Save(ctx, created); err != nil {
		return nil, err
	}

	response := ToConfigResponse(created)
	if entry, aerr := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionCreate, AuditEntityConfig, created.QualifiedKey()); aerr == nil {
		s.audit(ctx, entry.WithAfter(response).WithIP(actor.IP))
	}
	return &response, nil
}

// Get returns one config row by group and key
func (s *ConfigService) Get(ctx context.Context, group, key string) (*ConfigResponse, error) {
	entry, err := s.configRepo.FindByGroupAndKey(ctx, group, key)
	if err != nil {
		return nil, err
	}
	response := ToConfigResponse(entry)
	return &response, nil
}

// ListGroup returns every config row in a group
func (s *ConfigService) ListGroup(ctx context.Context, group string) ([]ConfigResponse, error) {
	entries, err := s.configRepo.FindByGroup(ctx, group)
	if err != nil {
		return nil, err
	}
	return ToConfigResponses(entries), nil
}

// List returns config rows with filtering and pagination
func (s *ConfigService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ConfigResponse], error) {
	page, err := s.configRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToConfigResponses(page.Items), page.Total, page.Page, page.PageSize)
	return &result, nil
}

// Delete removes a config row
func (s *ConfigService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	entry, err := s.configRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.configRepo.Delete(ctx, id); err != nil {
		return err
	}
	if audit, aerr := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionDelete, AuditEntityConfig, entry.QualifiedKey()); aerr == nil {
		s.audit(ctx, audit.WithBefore(ToConfigResponse(entry)).WithIP(actor.IP))
	}
	return nil
}

// Export serializes every config row to a JSON document. When an archiver is
// configured the document is also written to object storage.
func (s *ConfigService) Export(ctx context.Context, actor Actor) ([]byte, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 500
	filter.OrderBy = "group"
	filter.OrderDir = "asc"

	doc := ConfigExport{ExportedAt: time.Now().UTC()}
	for page := 1; ; page++ {
		filter.Page = page
		entries, err := s.configRepo.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries.Items {
			doc.Items = append(doc.Items, ConfigExportItem{
				Group:       entry.Group,
				Key:         entry.Key,
				Value:       entry.Value,
				Type:        string(entry.Type),
				Description: entry.Description,
			})
		}
		if page >= entries.TotalPages {
			break
		}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		key := fmt.Sprintf("config-exports/%s.json", doc.ExportedAt.Format("20060102T150405Z"))
		location, err := s.archiver.Archive(ctx, key, data)
		if err != nil {
			s.logger.Warn("config export archival failed", zap.Error(err))
		} else {
			s.logger.Info("config export archived", zap.String("location", location))
		}
	}

	if entry, aerr := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionExport, AuditEntityConfig, ""); aerr == nil {
		s.audit(ctx, entry.WithIP(actor.IP).WithRemark(fmt.Sprintf("%d entries", len(doc.Items))))
	}
	return data, nil
}

// Import upserts config rows from an export document. The whole document is
// validated before any row is written, so a bad document changes nothing.
func (s *ConfigService) Import(ctx context.Context, actor Actor, data []byte) (int, error) {
	var doc ConfigExport
	if err := json.Unmarshal(data, &doc); err != nil {
		return 0, shared.NewDomainError("INVALID_IMPORT", "Import document is not valid JSON")
	}
	if len(doc.Items) == 0 {
		return 0, shared.NewDomainError("INVALID_IMPORT", "Import document has no entries")
	}

	entries := make([]*sysconfig.ConfigEntry, 0, len(doc.Items))
	for i, item := range doc.Items {
		entry, err := sysconfig.NewConfigEntry(item.Group, item.Key, item.Value, sysconfig.ValueType(item.Type))
		if err != nil {
			return 0, shared.NewDomainError("INVALID_IMPORT",
				fmt.Sprintf("Entry %d (%s.%s) is invalid", i, item.Group, item.Key))
		}
		if item.Description != "" {
			entry.SetDescription(item.Description)
		}
		entries = append(entries, entry)
	}

	imported := 0
	for _, entry := range entries {
		if err := s.configRepo.Upsert(ctx, entry); err != nil {
			return imported, err
		}
		imported++
	}

	if entry, aerr := identity.NewAuditLog(actor.ID, actor.Name, identity.AuditActionImport, AuditEntityConfig, ""); aerr == nil {
		s.audit(ctx, entry.WithIP(actor.IP).WithRemark(fmt.Sprintf("%d entries", imported)))
	}
	return imported, nil
}
