package sheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/jhoicas/crm-sync/pkg/config"
)

const (
	googleTokenURL = "https://oauth2.googleapis.com/token"
	valueInputRaw  = "RAW"
	insertRows     = "INSERT_ROWS"
)

var _ ValuesClient = (*Client)(nil)

// Client ValuesClient sobre la API v4 de Google Sheets con cuenta de servicio.
type Client struct {
	svc           *gsheets.Service
	spreadsheetID string
}

// NewClient autentica con la cuenta de servicio. Falla de inmediato si falta alguna credencial.
func NewClient(ctx context.Context, cfg config.SheetsConfig) (*Client, error) {
	var missing []string
	if cfg.ClientEmail == "" {
		missing = append(missing, "GOOGLE_CLIENT_EMAIL")
	}
	if cfg.PrivateKey == "" {
		missing = append(missing, "GOOGLE_PRIVATE_KEY")
	}
	if cfg.SpreadsheetID == "" {
		missing = append(missing, "GOOGLE_SPREADSHEET_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", config.ErrMissingConfig, strings.Join(missing, ", "))
	}

	conf := &jwt.Config{
		Email:      cfg.ClientEmail,
		PrivateKey: []byte(cfg.PrivateKey),
		Scopes:     []string{gsheets.SpreadsheetsScope},
		TokenURL:   googleTokenURL,
	}
	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("crear cliente sheets: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: cfg.SpreadsheetID}, nil
}

// Get lee un rango como texto (FORMATTED_VALUE).
func (c *Client) Get(ctx context.Context, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get sheet %s: %w", rng, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		rows[i] = make([]string, len(r))
		for j, cell := range r {
			rows[i][j] = fmt.Sprint(cell)
		}
	}
	return rows, nil
}

// Update sobrescribe el rango con una fila.
func (c *Client) Update(ctx context.Context, rng string, row []string) error {
	_, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, valueRange(row)).
		ValueInputOption(valueInputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update sheet %s: %w", rng, err)
	}
	return nil
}

// Append agrega una fila después de la última con datos.
func (c *Client) Append(ctx context.Context, rng string, row []string) error {
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, valueRange(row)).
		ValueInputOption(valueInputRaw).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append sheet %s: %w", rng, err)
	}
	return nil
}

// SheetTitles lista los nombres de las hojas del spreadsheet.
func (c *Client) SheetTitles(ctx context.Context) ([]string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// AddSheets crea las hojas indicadas en un único batchUpdate.
func (c *Client) AddSheets(ctx context.Context, titles []string) error {
	if len(titles) == 0 {
		return nil
	}
	reqs := make([]*gsheets.Request, 0, len(titles))
	for _, t := range titles {
		reqs = append(reqs, &gsheets.Request{
			AddSheet: &gsheets.AddSheetRequest{Properties: &gsheets.SheetProperties{Title: t}},
		})
	}
	_, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheets.BatchUpdateSpreadsheetRequest{Requests: reqs}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("add sheets %v: %w", titles, err)
	}
	return nil
}

func valueRange(row []string) *gsheets.ValueRange {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return &gsheets.ValueRange{Values: [][]interface{}{cells}}
}
