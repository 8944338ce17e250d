package hybrid

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/crm-sync/internal/domain/repository"
)

// EntityReport resultado del backfill de un tipo de entidad.
type EntityReport struct {
	Synced int     `json:"synced"`
	Failed []int64 `json:"failed"` // IDs que el mirror rechazó
}

// BackfillReport resultado por entidad ("lead", "manufacturer", "order", "task").
type BackfillReport map[string]*EntityReport

// Backfill copia todo el Primary Store al mirror (update o append por id). Sirve para
// reparar divergencias tras fallos del mirror. Corre aunque el mirror esté desactivado
// para lecturas; solo exige que haya adaptador.
func (r *Repository) Backfill(ctx context.Context) (BackfillReport, error) {
	if r.mirror == nil {
		return nil, ErrMirrorRequired
	}
	report := BackfillReport{
		"lead":         {},
		"manufacturer": {},
		"order":        {},
		"task":         {},
	}
	var mu sync.Mutex
	record := func(name string, id int64, err error) {
		mu.Lock()
		defer mu.Unlock()
		er := report[name]
		if err != nil {
			er.Failed = append(er.Failed, id)
			r.log.Warn().Err(err).Str("entity", name).Int64("id", id).Msg("backfill: fila no sincronizada")
			r.metrics.RecordSync(name, string(repository.SyncFailed))
			return
		}
		er.Synced++
		r.metrics.RecordSync(name, string(repository.SyncSynced))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := r.primary.GetLeads(gctx)
		if err != nil {
			return err
		}
		for _, l := range list {
			record("lead", l.ID, r.mirror.SaveLead(gctx, l))
		}
		return nil
	})
	g.Go(func() error {
		list, err := r.primary.GetManufacturers(gctx)
		if err != nil {
			return err
		}
		for _, m := range list {
			record("manufacturer", m.ID, r.mirror.SaveManufacturer(gctx, m))
		}
		return nil
	})
	g.Go(func() error {
		list, err := r.primary.GetOrders(gctx)
		if err != nil {
			return err
		}
		for _, o := range list {
			record("order", o.ID, r.mirror.SaveOrder(gctx, o))
		}
		return nil
	})
	g.Go(func() error {
		list, err := r.primary.GetTasks(gctx)
		if err != nil {
			return err
		}
		for _, t := range list {
			record("task", t.ID, r.mirror.SaveTask(gctx, t))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report, err
	}
	return report, nil
}
