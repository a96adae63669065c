package audit

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsLog implements Log by appending rows to a Google Sheet, one row
// per exchange entry on the first tab.
type SheetsLog struct {
	srv           *sheets.Service
	spreadsheetID string
	appendRange   string
}

// NewSheetsLog authorizes against the Sheets API with the service-account
// credentials file and targets the given spreadsheet.
func NewSheetsLog(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsLog, error) {
	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &SheetsLog{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		appendRange:   "A:G",
	}, nil
}

// AppendRow appends one entry to the sheet.
func (l *SheetsLog) AppendRow(ctx context.Context, row Row) error {
	values := &sheets.ValueRange{
		Values: [][]interface{}{{
			row.Timestamp.Format(timestampLayout),
			row.UserID,
			row.Speaker,
			row.Text,
			row.Tag,
			row.DisplayName,
			row.Language,
		}},
	}
	_, err := l.srv.Spreadsheets.Values.
		Append(l.spreadsheetID, l.appendRange, values).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append sheet row: %w", err)
	}
	return nil
}
