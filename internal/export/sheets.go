package export

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SheetsWriter implements SheetWriter using the Google Sheets API. The
// NETWORTH sheet holds the current per-mode totals and is rewritten on every
// export; NETWORTH_LOG accumulates one dated row per export.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures required sheets exist, rewrites NETWORTH, and appends the
// dated log row.
func (w *SheetsWriter) Write(ctx context.Context, generatedAt time.Time, rows []ModeRow) error {
	if err := w.ensureSheets(ctx, "NETWORTH", "NETWORTH_LOG"); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{"NETWORTH!A:F"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: "NETWORTH!A1", Values: buildNetWorth(generatedAt, rows)},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.Append(
		w.spreadsheetID,
		"NETWORTH_LOG!A1",
		&sheets.ValueRange{Values: [][]any{buildLogRow(generatedAt, rows)}},
	).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("appending log row: %w", err)
	}

	return nil
}

// buildNetWorth builds the NETWORTH sheet data.
// Columns: Mode | Count | Value | Volume | Week | Month
func buildNetWorth(generatedAt time.Time, rows []ModeRow) [][]any {
	data := make([][]any, 0, len(rows)+2)
	data = append(data, []any{"Generated", generatedAt.UTC().Format("2006-01-02 15:04")})
	data = append(data, []any{"Mode", "Count", "Value", "Volume", "Week", "Month"})

	for _, row := range rows {
		data = append(data, []any{
			string(row.Mode),
			row.TotalCount,
			toFloat(row.TotalValue),
			toFloat(row.TotalVolume),
			ptrFloat(row.WeekChange),
			ptrFloat(row.MonthChange),
		})
	}

	return data
}

// buildLogRow builds one NETWORTH_LOG row: the date followed by each mode's
// total value in row order.
func buildLogRow(generatedAt time.Time, rows []ModeRow) []any {
	logRow := make([]any, 0, len(rows)+1)
	logRow = append(logRow, generatedAt.UTC().Format("2006-01-02"))
	for _, row := range rows {
		logRow = append(logRow, toFloat(row.TotalValue))
	}
	return logRow
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}

func ptrFloat(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	f, _ := d.Float64()
	return f
}
