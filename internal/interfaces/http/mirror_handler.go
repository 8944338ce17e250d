package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/crm-sync/internal/application/dto"
	"github.com/jhoicas/crm-sync/internal/infrastructure/hybrid"
)

// backfiller contrato mínimo para reconstruir el mirror. Lo implementa *hybrid.Repository.
type backfiller interface {
	Backfill(ctx context.Context) (hybrid.BackfillReport, error)
}

// MirrorHandler operaciones administrativas sobre el Secondary Mirror.
type MirrorHandler struct {
	svc backfiller
	log zerolog.Logger
}

// NewMirrorHandler construye el handler.
func NewMirrorHandler(svc backfiller, log zerolog.Logger) *MirrorHandler {
	return &MirrorHandler{svc: svc, log: log}
}

// Backfill godoc
// @Summary      Reescribir el mirror desde el Primary Store (admin)
// @Tags         mirror
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  hybrid.BackfillReport
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/admin/mirror/backfill [post]
func (h *MirrorHandler) Backfill(c *fiber.Ctx) error {
	report, err := h.svc.Backfill(c.Context())
	if err != nil {
		if errors.Is(err, hybrid.ErrMirrorRequired) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MIRROR_DISABLED", Message: "no hay mirror configurado"})
		}
		h.log.Error().Err(err).Msg("backfill del mirror interrumpido")
		return respondError(c, err)
	}
	for entity, r := range report {
		if len(r.Failed) > 0 {
			h.log.Warn().Str("entity", entity).Ints64("failed", r.Failed).Msg("backfill con filas pendientes")
		}
	}
	return c.JSON(report)
}
