package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

// LeadUseCase casos de uso de prospectos.
type LeadUseCase struct {
	repo repository.SyncingCRMRepository
}

// NewLeadUseCase construye el caso de uso.
func NewLeadUseCase(repo repository.SyncingCRMRepository) *LeadUseCase {
	return &LeadUseCase{repo: repo}
}

// Create registra un lead. El estado por defecto es New.
func (uc *LeadUseCase) Create(ctx context.Context, in dto.CreateLeadRequest) (*dto.LeadResponse, error) {
	lead := &entity.Lead{
		Name:       strings.TrimSpace(in.Name),
		Contact:    strings.TrimSpace(in.Contact),
		Email:      strings.TrimSpace(in.Email),
		Phone:      strings.TrimSpace(in.Phone),
		Company:    strings.TrimSpace(in.Company),
		Status:     in.Status,
		Notes:      in.Notes,
		AssignedTo: in.AssignedTo,
	}
	if lead.Status == "" {
		lead.Status = entity.LeadStatusNew
	}
	if lead.Name == "" {
		return nil, invalid("name es requerido")
	}
	if !entity.ValidLeadStatus(lead.Status) {
		return nil, invalid("status %q no válido", lead.Status)
	}
	if err := validRef(lead.AssignedTo, "assigned_to"); err != nil {
		return nil, err
	}
	created, res, err := uc.repo.CreateLeadSynced(ctx, lead)
	if err != nil {
		return nil, err
	}
	out := toLeadResponse(created)
	out.Sync = toSyncInfo(res)
	return out, nil
}

// GetByID obtiene un lead; (nil, nil) si no existe.
func (uc *LeadUseCase) GetByID(ctx context.Context, id int64) (*dto.LeadResponse, error) {
	lead, err := uc.repo.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, nil
	}
	return toLeadResponse(lead), nil
}

// List devuelve todos los leads en el orden del backend.
func (uc *LeadUseCase) List(ctx context.Context) ([]dto.LeadResponse, error) {
	list, err := uc.repo.GetLeads(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LeadResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *toLeadResponse(l))
	}
	return items, nil
}

// Update aplica una actualización parcial. domain.ErrNotFound si el lead no existe.
func (uc *LeadUseCase) Update(ctx context.Context, id int64, in dto.UpdateLeadRequest) (*dto.LeadResponse, error) {
	patch := entity.LeadPatch{
		Name:       trimPtr(in.Name),
		Contact:    trimPtr(in.Contact),
		Email:      trimPtr(in.Email),
		Phone:      trimPtr(in.Phone),
		Company:    trimPtr(in.Company),
		Status:     in.Status,
		Notes:      in.Notes,
		AssignedTo: in.AssignedTo.Patch(),
	}
	if patch.Name != nil && *patch.Name == "" {
		return nil, invalid("name no puede quedar vacío")
	}
	if patch.Status != nil && !entity.ValidLeadStatus(*patch.Status) {
		return nil, invalid("status %q no válido", *patch.Status)
	}
	if err := validRef(patch.AssignedTo.Value, "assigned_to"); err != nil {
		return nil, err
	}
	updated, res, err := uc.repo.UpdateLeadSynced(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	out := toLeadResponse(updated)
	out.Sync = toSyncInfo(res)
	return out, nil
}

func toLeadResponse(l *entity.Lead) *dto.LeadResponse {
	return &dto.LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Contact:    l.Contact,
		Email:      l.Email,
		Phone:      l.Phone,
		Company:    l.Company,
		Status:     l.Status,
		Notes:      l.Notes,
		AssignedTo: l.AssignedTo,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}
