package store

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets is the Google Sheets TableStore adapter. One adapter instance is
// bound to a single sheet (tab) of a spreadsheet.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
}

// NewSheets creates a Sheets adapter authenticated with a service-account
// credentials file. The sheet is resolved by title; a missing sheet fails
// with a NotFoundError.
func NewSheets(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Sheets, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	s := &Sheets{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
	if s.sheetID, err = s.lookupSheetID(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sheets) lookupSheetID(ctx context.Context) (int64, error) {
	spreadsheet, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet: %w", err)
	}
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == s.sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, &NotFoundError{Table: s.sheetName}
}

// ReadAll reads the entire sheet and splits off the header row.
func (s *Sheets) ReadAll(ctx context.Context) ([]string, [][]string, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.sheetName).Context(ctx).Do()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", s.sheetName, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", s.sheetName)
	}

	header := toStrings(resp.Values[0])
	rows := make([][]string, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		rows = append(rows, toStrings(raw))
	}
	return header, rows, nil
}

// AppendRows inserts len(rows) blank rows directly below the header in one
// structural mutation, then writes all values in a single update starting at
// A2. Batch order is preserved.
func (s *Sheets) AppendRows(ctx context.Context, rows []map[string]string) error {
	if len(rows) == 0 {
		return nil
	}

	header, _, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}
	cols := columnMap(header)
	for _, cells := range rows {
		for name := range cells {
			if _, ok := cols[name]; !ok {
				return &UnknownColumnError{Column: name}
			}
		}
	}

	insert := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			InsertDimension: &sheets.InsertDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    s.sheetID,
					Dimension:  "ROWS",
					StartIndex: 1,
					EndIndex:   int64(1 + len(rows)),
				},
				InheritFromBefore: false,
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, insert).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert rows: %w", err)
	}

	values := make([][]interface{}, 0, len(rows))
	for _, cells := range rows {
		values = append(values, toInterfaces(buildRow(header, cells)))
	}

	writeRange := fmt.Sprintf("%s!A2", s.sheetName)
	_, err = s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write inserted rows: %w", err)
	}
	return nil
}

// PatchCells applies all updates in one values.batchUpdate call.
func (s *Sheets) PatchCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	header, _, err := s.ReadAll(ctx)
	if err != nil {
		return err
	}
	cols := columnMap(header)

	data := make([]*sheets.ValueRange, 0, len(updates))
	for _, u := range updates {
		idx, ok := cols[u.Column]
		if !ok {
			return &UnknownColumnError{Column: u.Column}
		}
		data = append(data, &sheets.ValueRange{
			Range:  fmt.Sprintf("%s!%s%d", s.sheetName, a1Column(idx), u.Row),
			Values: [][]interface{}{{u.Value}},
		})
	}

	req := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: "RAW",
		Data:             data,
	}
	if _, err := s.svc.Spreadsheets.Values.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to patch cells: %w", err)
	}
	return nil
}

// a1Column converts a 0-based column index to A1 notation (0 -> A, 26 -> AA).
func a1Column(idx int) string {
	col := ""
	for idx >= 0 {
		col = string(rune('A'+idx%26)) + col
		idx = idx/26 - 1
	}
	return col
}

func toStrings(raw []interface{}) []string {
	out := make([]string, len(raw))
	for i, v := range raw {
		out[i] = fmt.Sprint(v)
	}
	return out
}

func toInterfaces(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
