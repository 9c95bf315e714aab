package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopx/backoffice/internal/domain/inventory"
	"github.com/shopx/backoffice/internal/domain/shared"
)

// WarehouseService handles warehouse management
type WarehouseService struct {
	warehouseRepo inventory.WarehouseRepository
	stockRepo     inventory.StockRepository
}

// NewWarehouseService creates a new WarehouseService
func NewWarehouseService(warehouseRepo inventory.WarehouseRepository, stockRepo inventory.StockRepository) *WarehouseService {
	return &WarehouseService{
		warehouseRepo: warehouseRepo,
		stockRepo:     stockRepo,
	}
}

// Create creates a new warehouse
func (s *WarehouseService) Create(ctx context.Context, req CreateWarehouseRequest, createdBy *uuid.UUID) (*WarehouseResponse, error) {
	if existing, err := s.warehouseRepo.FindByCode(ctx, req.Code); err == nil && existing != nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "Warehouse code already exists")
	}

	warehouse, err := inventory.NewWarehouse(req.Name, req.Code, inventory.WarehouseTier(req.Tier), req.OwnerID)
	if err != nil {
		return nil, err
	}
	warehouse.Address = req.Address
	if createdBy != nil {
		warehouse.SetCreatedBy(*createdBy)
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}

	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Get returns a warehouse by ID
func (s *WarehouseService) Get(ctx context.Context, id uuid.UUID) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// List returns warehouses with filtering and pagination
func (s *WarehouseService) List(ctx context.Context, tier string, filter shared.Filter) ([]WarehouseResponse, int64, error) {
	var (
		warehouses []inventory.Warehouse
		err        error
	)
	if tier != "" {
		warehouses, err = s.warehouseRepo.FindByTier(ctx, inventory.WarehouseTier(tier), filter)
	} else {
		warehouses, err = s.warehouseRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, 0, err
	}

	countFilter := filter
	if tier != "" {
		countFilter.Filters = map[string]interface{}{"tier": tier}
	}
	total, err := s.warehouseRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToWarehouseResponses(warehouses), total, nil
}

// Update applies mutable field changes to a warehouse
func (s *WarehouseService) Update(ctx context.Context, id uuid.UUID, req UpdateWarehouseRequest) (*WarehouseResponse, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := warehouse.Rename(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		warehouse.Address = *req.Address
	}
	if req.Status != nil {
		switch inventory.WarehouseStatus(*req.Status) {
		case inventory.WarehouseStatusActive:
			warehouse.Enable()
		case inventory.WarehouseStatusDisabled:
			warehouse.Disable()
		}
	}

	if err := s.warehouseRepo.Save(ctx, warehouse); err != nil {
		return nil, err
	}
	response := ToWarehouseResponse(warehouse)
	return &response, nil
}

// Delete removes a warehouse. Warehouses still holding stock cannot be deleted.
func (s *WarehouseService) Delete(ctx context.Context, id uuid.UUID) error {
	warehouse, err := s.warehouseRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	filter := shared.DefaultFilter()
	filter.Filters["warehouse_id"] = warehouse.ID
	filter.Filters["has_stock"] = true
	count, err := s.stockRepo.Count(ctx, filter)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("WAREHOUSE_NOT_EMPTY", "Warehouse still holds stock")
	}

	return s.warehouseRepo.Delete(ctx, id)
}
