// Package sheetstest ofrece un ValuesClient en memoria con conteo de llamadas.
package sheetstest

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// Operaciones contadas por Fake.
const (
	OpGet       = "get"
	OpUpdate    = "update"
	OpAppend    = "append"
	OpTitles    = "titles"
	OpAddSheets = "add_sheets"
)

// Fake spreadsheet en memoria. Cada hoja guarda sus filas incluyendo el encabezado (fila 1).
type Fake struct {
	mu     sync.Mutex
	sheets map[string][][]string
	order  []string
	calls  map[string]int
	fail   map[string]error
}

// NewFake crea las hojas indicadas, cada una con una fila de encabezado.
func NewFake(sheets ...string) *Fake {
	f := &Fake{
		sheets: make(map[string][][]string),
		calls:  make(map[string]int),
		fail:   make(map[string]error),
	}
	for _, s := range sheets {
		f.addSheet(s)
	}
	return f
}

func (f *Fake) addSheet(name string) {
	if _, ok := f.sheets[name]; ok {
		return
	}
	f.sheets[name] = [][]string{{"header"}}
	f.order = append(f.order, name)
}

// SetRows reemplaza las filas de datos de una hoja (sin encabezado).
func (f *Fake) SetRows(sheet string, rows ...[]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.addSheet(sheet)
	data := [][]string{f.sheets[sheet][0]}
	for _, r := range rows {
		data = append(data, append([]string(nil), r...))
	}
	f.sheets[sheet] = data
}

// Rows devuelve una copia de las filas de datos (sin encabezado).
func (f *Fake) Rows(sheet string) [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	data := f.sheets[sheet]
	if len(data) <= 1 {
		return nil
	}
	out := make([][]string, 0, len(data)-1)
	for _, r := range data[1:] {
		out = append(out, append([]string(nil), r...))
	}
	return out
}

// Fail hace que la operación op devuelva err hasta que se llame con nil.
func (f *Fake) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.fail, op)
		return
	}
	f.fail[op] = err
}

// Calls número de llamadas a op.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls número de llamadas de cualquier tipo.
func (f *Fake) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *Fake) begin(op string) error {
	f.calls[op]++
	return f.fail[op]
}

// Get implementa sheets.ValuesClient.
func (f *Fake) Get(_ context.Context, rng string) ([][]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpGet); err != nil {
		return nil, err
	}
	sheet, startRow, err := parseRange(rng)
	if err != nil {
		return nil, err
	}
	data, ok := f.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("hoja %q no existe", sheet)
	}
	if startRow < 1 {
		startRow = 1
	}
	var out [][]string
	for i := startRow - 1; i < len(data); i++ {
		out = append(out, append([]string(nil), data[i]...))
	}
	return out, nil
}

// Update implementa sheets.ValuesClient; el rango debe ser de una fila ("Hoja!A5:K5").
func (f *Fake) Update(_ context.Context, rng string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpUpdate); err != nil {
		return err
	}
	sheet, n, err := parseRange(rng)
	if err != nil {
		return err
	}
	data, ok := f.sheets[sheet]
	if !ok {
		return fmt.Errorf("hoja %q no existe", sheet)
	}
	if n < 1 {
		return fmt.Errorf("rango sin fila: %s", rng)
	}
	for len(data) < n {
		data = append(data, nil)
	}
	data[n-1] = append([]string(nil), row...)
	f.sheets[sheet] = data
	return nil
}

// Append implementa sheets.ValuesClient.
func (f *Fake) Append(_ context.Context, rng string, row []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpAppend); err != nil {
		return err
	}
	sheet, _, err := parseRange(rng)
	if err != nil {
		return err
	}
	data, ok := f.sheets[sheet]
	if !ok {
		return fmt.Errorf("hoja %q no existe", sheet)
	}
	f.sheets[sheet] = append(data, append([]string(nil), row...))
	return nil
}

// SheetTitles implementa sheets.ValuesClient.
func (f *Fake) SheetTitles(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpTitles); err != nil {
		return nil, err
	}
	return append([]string(nil), f.order...), nil
}

// AddSheets implementa sheets.ValuesClient. Falla si alguna hoja ya existe, como la API real.
func (f *Fake) AddSheets(_ context.Context, titles []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.begin(OpAddSheets); err != nil {
		return err
	}
	for _, t := range titles {
		if _, ok := f.sheets[t]; ok {
			return fmt.Errorf("hoja %q ya existe", t)
		}
	}
	for _, t := range titles {
		f.addSheet(t)
	}
	return nil
}

// parseRange extrae hoja y fila inicial de "Hoja!A2:K" (fila 0 si el rango es de columnas completas).
func parseRange(rng string) (string, int, error) {
	sheet, cells, ok := strings.Cut(rng, "!")
	if !ok {
		return "", 0, fmt.Errorf("rango inválido: %s", rng)
	}
	start, _, _ := strings.Cut(cells, ":")
	digits := strings.TrimLeft(start, "ABCDEFGHIJKLMNOPQRSTUVWXYZ")
	if digits == "" {
		return sheet, 0, nil
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return "", 0, fmt.Errorf("rango inválido: %s", rng)
	}
	return sheet, n, nil
}
