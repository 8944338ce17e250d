package usecase

import (
	"fmt"
	"strings"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/domain"
	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

func toSyncInfo(r repository.SyncResult) *dto.SyncInfo {
	info := &dto.SyncInfo{Status: string(r.Status)}
	if r.Err != nil {
		info.Error = r.Err.Error()
	}
	return info
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func validRef(id *int64, field string) error {
	if id != nil && *id <= 0 {
		return invalid("%s debe ser un ID positivo", field)
	}
	return nil
}
