package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

// ManufacturerUseCase casos de uso de fabricantes. No hay actualización: se crean una vez.
type ManufacturerUseCase struct {
	repo repository.SyncingCRMRepository
}

// NewManufacturerUseCase construye el caso de uso.
func NewManufacturerUseCase(repo repository.SyncingCRMRepository) *ManufacturerUseCase {
	return &ManufacturerUseCase{repo: repo}
}

// Create registra un fabricante.
func (uc *ManufacturerUseCase) Create(ctx context.Context, in dto.CreateManufacturerRequest) (*dto.ManufacturerResponse, error) {
	m := &entity.Manufacturer{
		Name:               strings.TrimSpace(in.Name),
		Contact:            strings.TrimSpace(in.Contact),
		Email:              strings.TrimSpace(in.Email),
		Phone:              strings.TrimSpace(in.Phone),
		ProductionCapacity: in.ProductionCapacity,
	}
	if m.Name == "" {
		return nil, invalid("name es requerido")
	}
	if m.ProductionCapacity != nil && *m.ProductionCapacity < 0 {
		return nil, invalid("production_capacity no puede ser negativo")
	}
	created, res, err := uc.repo.CreateManufacturerSynced(ctx, m)
	if err != nil {
		return nil, err
	}
	out := toManufacturerResponse(created)
	out.Sync = toSyncInfo(res)
	return out, nil
}

// GetByID obtiene un fabricante; (nil, nil) si no existe.
func (uc *ManufacturerUseCase) GetByID(ctx context.Context, id int64) (*dto.ManufacturerResponse, error) {
	m, err := uc.repo.GetManufacturer(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}
	return toManufacturerResponse(m), nil
}

// List devuelve todos los fabricantes.
func (uc *ManufacturerUseCase) List(ctx context.Context) ([]dto.ManufacturerResponse, error) {
	list, err := uc.repo.GetManufacturers(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ManufacturerResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toManufacturerResponse(m))
	}
	return items, nil
}

func toManufacturerResponse(m *entity.Manufacturer) *dto.ManufacturerResponse {
	return &dto.ManufacturerResponse{
		ID:                 m.ID,
		Name:               m.Name,
		Contact:            m.Contact,
		Email:              m.Email,
		Phone:              m.Phone,
		ProductionCapacity: m.ProductionCapacity,
	}
}
