package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/crm-sync/internal/domain/entity"
	"github.com/jhoicas/crm-sync/internal/infrastructure/lock"
	"github.com/jhoicas/crm-sync/internal/infrastructure/metrics"
)

// Mirror Secondary Mirror: lee hojas completas y busca por id en forma lineal (no hay índice).
// Nunca asigna IDs; solo guarda los que recibe del Primary Store.
type Mirror struct {
	values  ValuesClient
	locker  lock.Locker
	log     zerolog.Logger
	metrics *metrics.Metrics
	reads   singleflight.Group
	// Tope de una lectura compartida; no depende del ctx de quien la inició.
	readTimeout time.Duration
}

// DefaultReadTimeout tope de una lectura coalescida contra la API de Sheets.
const DefaultReadTimeout = 30 * time.Second

// MirrorOption configura el Mirror.
type MirrorOption func(*Mirror)

// WithLocker reemplaza el lock en proceso (p. ej. por lock.Redis entre instancias).
func WithLocker(l lock.Locker) MirrorOption {
	return func(m *Mirror) { m.locker = l }
}

// WithMetrics registra latencias y filas descartadas.
func WithMetrics(mt *metrics.Metrics) MirrorOption {
	return func(m *Mirror) { m.metrics = mt }
}

// WithReadTimeout ajusta el tope de las lecturas compartidas.
func WithReadTimeout(d time.Duration) MirrorOption {
	return func(m *Mirror) { m.readTimeout = d }
}

// WithLogger asigna el logger del componente.
func WithLogger(l zerolog.Logger) MirrorOption {
	return func(m *Mirror) { m.log = l }
}

// NewMirror construye el adaptador sobre un ValuesClient.
func NewMirror(values ValuesClient, opts ...MirrorOption) *Mirror {
	m := &Mirror{values: values, locker: lock.NewKeyed(), log: zerolog.Nop(), readTimeout: DefaultReadTimeout}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetupSheets crea las hojas que falten. Idempotente; no escribe encabezados.
func (m *Mirror) SetupSheets(ctx context.Context) error {
	start := time.Now()
	titles, err := m.values.SheetTitles(ctx)
	m.metrics.ObserveMirrorRequest("titles", start, err)
	if err != nil {
		return err
	}
	existing := make(map[string]bool, len(titles))
	for _, t := range titles {
		existing[t] = true
	}
	var missing []string
	for _, s := range AllSheets {
		if !existing[s] {
			missing = append(missing, s)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	start = time.Now()
	err = m.values.AddSheets(ctx, missing)
	m.metrics.ObserveMirrorRequest("add_sheets", start, err)
	if err != nil {
		return err
	}
	m.log.Info().Strs("sheets", missing).Msg("hojas creadas en el mirror")
	return nil
}

// ── Leads ────────────────────────────────────────────────────────────────────

// GetLeads lee la hoja Leads completa.
func (m *Mirror) GetLeads(ctx context.Context) ([]*entity.Lead, error) {
	return readAll(ctx, m, leadCodec, func(l *entity.Lead, id int64) { l.ID = id })
}

// GetLead busca un lead por id; (nil, nil) si no está.
func (m *Mirror) GetLead(ctx context.Context, id int64) (*entity.Lead, error) {
	return findByID(ctx, m, leadCodec, id, func(l *entity.Lead, id int64) { l.ID = id })
}

// SaveLead sobrescribe la fila del lead o la agrega si no existe.
func (m *Mirror) SaveLead(ctx context.Context, l *entity.Lead) error {
	return save(ctx, m, leadCodec, l)
}

// ── Manufacturers ────────────────────────────────────────────────────────────

// GetManufacturers lee la hoja Manufacturers completa.
func (m *Mirror) GetManufacturers(ctx context.Context) ([]*entity.Manufacturer, error) {
	return readAll(ctx, m, manufacturerCodec, func(v *entity.Manufacturer, id int64) { v.ID = id })
}

// GetManufacturer busca un fabricante por id.
func (m *Mirror) GetManufacturer(ctx context.Context, id int64) (*entity.Manufacturer, error) {
	return findByID(ctx, m, manufacturerCodec, id, func(v *entity.Manufacturer, id int64) { v.ID = id })
}

// SaveManufacturer sobrescribe o agrega la fila del fabricante.
func (m *Mirror) SaveManufacturer(ctx context.Context, v *entity.Manufacturer) error {
	return save(ctx, m, manufacturerCodec, v)
}

// ── Orders ───────────────────────────────────────────────────────────────────

// GetOrders lee la hoja Orders completa.
func (m *Mirror) GetOrders(ctx context.Context) ([]*entity.Order, error) {
	return readAll(ctx, m, orderCodec, func(o *entity.Order, id int64) { o.ID = id })
}

// GetOrder busca una orden por id.
func (m *Mirror) GetOrder(ctx context.Context, id int64) (*entity.Order, error) {
	return findByID(ctx, m, orderCodec, id, func(o *entity.Order, id int64) { o.ID = id })
}

// SaveOrder sobrescribe o agrega la fila de la orden.
func (m *Mirror) SaveOrder(ctx context.Context, o *entity.Order) error {
	return save(ctx, m, orderCodec, o)
}

// ── Tasks ────────────────────────────────────────────────────────────────────

// GetTasks lee la hoja Tasks completa.
func (m *Mirror) GetTasks(ctx context.Context) ([]*entity.Task, error) {
	return readAll(ctx, m, taskCodec, func(t *entity.Task, id int64) { t.ID = id })
}

// GetTask busca una tarea por id.
func (m *Mirror) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	return findByID(ctx, m, taskCodec, id, func(t *entity.Task, id int64) { t.ID = id })
}

// SaveTask sobrescribe o agrega la fila de la tarea.
func (m *Mirror) SaveTask(ctx context.Context, t *entity.Task) error {
	return save(ctx, m, taskCodec, t)
}

// ── genéricos ────────────────────────────────────────────────────────────────

// fetch lee el rango de datos. Las lecturas concurrentes del mismo rango comparten una llamada.
// La llamada compartida corre desacoplada de la cancelación de quien la inició;
// cada caller deja de esperar cuando se cancela su propio ctx.
func (m *Mirror) fetch(ctx context.Context, rng string) ([][]string, error) {
	ch := m.reads.DoChan(rng, func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.readTimeout)
		defer cancel()
		return m.fetchDirect(shared, rng)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([][]string), nil
	}
}

// fetchDirect lectura sin coalescer; la usa save para ver el estado posterior al lock.
func (m *Mirror) fetchDirect(ctx context.Context, rng string) ([][]string, error) {
	start := time.Now()
	rows, err := m.values.Get(ctx, rng)
	m.metrics.ObserveMirrorRequest("get", start, err)
	return rows, err
}

func readAll[T any](ctx context.Context, m *Mirror, c codec[T], setID func(T, int64)) ([]T, error) {
	rows, err := m.fetch(ctx, c.dataRange())
	if err != nil {
		return nil, err
	}
	list := make([]T, 0, len(rows))
	for i, raw := range rows {
		r := row(raw)
		id, err := r.id()
		if err != nil {
			m.skipRow(c.sheet, i, r)
			continue
		}
		v := c.decode(r)
		setID(v, id)
		list = append(list, v)
	}
	return list, nil
}

func findByID[T any](ctx context.Context, m *Mirror, c codec[T], id int64, setID func(T, int64)) (T, error) {
	var zero T
	rows, err := m.fetch(ctx, c.dataRange())
	if err != nil {
		return zero, err
	}
	if idx := indexOf(rows, id); idx >= 0 {
		v := c.decode(row(rows[idx]))
		setID(v, id)
		return v, nil
	}
	return zero, nil
}

// save read-before-write bajo lock por (hoja, id): update en sitio o append al final.
func save[T any](ctx context.Context, m *Mirror, c codec[T], v T) error {
	id := c.id(v)
	unlock, err := m.locker.Lock(ctx, c.sheet+":"+strconv.FormatInt(id, 10))
	if err != nil {
		return fmt.Errorf("lock %s %d: %w", c.entity, id, err)
	}
	defer unlock()

	rows, err := m.fetchDirect(ctx, c.dataRange())
	if err != nil {
		return err
	}
	values := c.encode(v)

	start := time.Now()
	if idx := indexOf(rows, id); idx >= 0 {
		err = m.values.Update(ctx, c.rowRange(idx+2), values)
		m.metrics.ObserveMirrorRequest("update", start, err)
	} else {
		err = m.values.Append(ctx, c.appendRange(), values)
		m.metrics.ObserveMirrorRequest("append", start, err)
	}
	if err != nil {
		return err
	}
	// Las lecturas que empiecen desde aquí no se unen a una iniciada antes de la escritura.
	m.reads.Forget(c.dataRange())
	return nil
}

// indexOf posición (0-based, sin encabezado) de la fila con ese id, o -1.
func indexOf(rows [][]string, id int64) int {
	for i, raw := range rows {
		if rid, err := row(raw).id(); err == nil && rid == id {
			return i
		}
	}
	return -1
}

func (m *Mirror) skipRow(sheet string, idx int, r row) {
	m.metrics.RecordSkippedRow(sheet)
	m.log.Warn().
		Str("sheet", sheet).
		Int("row", idx+2).
		Str("id", r.cell(0)).
		Msg("fila del mirror sin id válido, se ignora")
}
