// Package sheets implementa el Secondary Mirror sobre Google Sheets: una hoja por entidad,
// columnas posicionales, fila 1 reservada para encabezados.
package sheets

import "context"

// ValuesClient transporte mínimo que necesita el Mirror. Los rangos usan notación A1
// ("Leads!A2:K", "Leads!A5:K5"). Las celdas viajan como texto.
type ValuesClient interface {
	// Get devuelve las filas del rango; las celdas vacías al final de una fila pueden faltar.
	Get(ctx context.Context, rng string) ([][]string, error)
	// Update sobrescribe una fila completa (RAW).
	Update(ctx context.Context, rng string, row []string) error
	// Append agrega una fila al final de la tabla (RAW, INSERT_ROWS).
	Append(ctx context.Context, rng string, row []string) error
	SheetTitles(ctx context.Context) ([]string, error)
	AddSheets(ctx context.Context, titles []string) error
}
