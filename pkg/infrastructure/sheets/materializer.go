// Package sheets renders finished category tables into a Google Sheets
// spreadsheet with grouped headers and presentational formatting.
package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/sheets/v4"

	shared "github.com/hysterresis/garmin-exercises/pkg"
	"github.com/hysterresis/garmin-exercises/pkg/collector"
	collerrors "github.com/hysterresis/garmin-exercises/pkg/errors"
)

const (
	// DefaultTitle is the spreadsheet name used for create and discovery.
	DefaultTitle = "Garmin Exercises Database"

	spreadsheetIDObject = "spreadsheet_id.txt"
	tempSheetTitle      = "TempSheet"
)

// Config holds materializer settings.
type Config struct {
	Title       string // spreadsheet title; DefaultTitle when empty
	EditorEmail string // optional writer grant on a fresh spreadsheet
	StateBucket string // blob bucket holding the persisted spreadsheet ID
}

// Materializer is the spreadsheet sink. It owns the spreadsheet lifecycle
// (find/create/clean/delete) and the rendering of table values, headers, and
// formatting.
type Materializer struct {
	Sheets *sheets.Service
	Drive  *drive.Service
	Blobs  shared.BlobStore

	cfg    Config
	logger *slog.Logger
}

func New(sheetsSvc *sheets.Service, driveSvc *drive.Service, blobs shared.BlobStore, cfg Config, logger *slog.Logger) *Materializer {
	if cfg.Title == "" {
		cfg.Title = DefaultTitle
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{
		Sheets: sheetsSvc,
		Drive:  driveSvc,
		Blobs:  blobs,
		cfg:    cfg,
		logger: logger,
	}
}

// Export renders the tables into the spreadsheet and returns its URL.
func (m *Materializer) Export(ctx context.Context, tables []*collector.CategoryTable) (string, error) {
	id, created, err := m.ensureSpreadsheet(ctx, tables)
	if err != nil {
		return "", err
	}
	if !created {
		if err := m.clean(ctx, id, tables); err != nil {
			return "", err
		}
	}

	for _, t := range tables {
		if err := m.updateSheet(ctx, id, t); err != nil {
			return "", err
		}
		m.logger.Info("Updated sheet", "sheet", t.Dataset, "rows", len(t.Rows))
	}

	if err := m.format(ctx, id, tables); err != nil {
		return "", err
	}

	// Filter view creation is best-effort: a failure here never loses data.
	if err := m.addFilterViews(ctx, id, tables); err != nil {
		m.logger.Warn("Could not create filter views", "error", err)
	}

	return spreadsheetURL(id), nil
}

// Delete removes the spreadsheet and the persisted ID.
func (m *Materializer) Delete(ctx context.Context) error {
	id, err := m.lookupSpreadsheetID(ctx)
	if err != nil {
		return err
	}
	if id == "" {
		m.logger.Info("No spreadsheet found to delete")
		return nil
	}

	if err := m.Drive.Files.Delete(id).Context(ctx).Do(); err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeDriveError, "delete spreadsheet")
	}
	if err := m.Blobs.Delete(ctx, m.cfg.StateBucket, spreadsheetIDObject); err != nil {
		m.logger.Warn("Could not remove stored spreadsheet ID", "error", err)
	}

	m.logger.Info("Spreadsheet deleted", "spreadsheet_id", id)
	return nil
}

// ensureSpreadsheet returns the working spreadsheet ID, creating the
// spreadsheet (with one sheet per table and share permissions) when none
// exists yet.
func (m *Materializer) ensureSpreadsheet(ctx context.Context, tables []*collector.CategoryTable) (string, bool, error) {
	id, err := m.lookupSpreadsheetID(ctx)
	if err != nil {
		return "", false, err
	}
	if id != "" {
		return id, false, nil
	}

	req := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: m.cfg.Title},
	}
	for _, t := range tables {
		req.Sheets = append(req.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: string(t.Dataset)},
		})
	}

	created, err := m.Sheets.Spreadsheets.Create(req).Context(ctx).Do()
	if err != nil {
		return "", false, collerrors.WrapRetryable(err, collerrors.CodeSheetError, "create spreadsheet")
	}
	id = created.SpreadsheetId
	m.logger.Info("Created spreadsheet", "spreadsheet_id", id, "title", m.cfg.Title)

	// Publicly viewable, optionally editable by the configured account.
	_, err = m.Drive.Permissions.Create(id, &drive.Permission{Type: "anyone", Role: "reader"}).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return "", false, collerrors.WrapRetryable(err, collerrors.CodeDriveError, "share spreadsheet")
	}
	if m.cfg.EditorEmail != "" {
		_, err = m.Drive.Permissions.Create(id, &drive.Permission{
			Type:         "user",
			Role:         "writer",
			EmailAddress: m.cfg.EditorEmail,
		}).Fields("id").SendNotificationEmail(false).Context(ctx).Do()
		if err != nil {
			return "", false, collerrors.WrapRetryable(err, collerrors.CodeDriveError, "grant editor access")
		}
	}

	if err := m.Blobs.Write(ctx, m.cfg.StateBucket, spreadsheetIDObject, []byte(id)); err != nil {
		m.logger.Warn("Could not persist spreadsheet ID", "error", err)
	}

	return id, true, nil
}

// lookupSpreadsheetID checks the stored ID first, then searches Drive by
// title. Returns empty when no spreadsheet exists.
func (m *Materializer) lookupSpreadsheetID(ctx context.Context) (string, error) {
	if data, err := m.Blobs.Read(ctx, m.cfg.StateBucket, spreadsheetIDObject); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, nil
		}
	}

	query := fmt.Sprintf("name='%s' and mimeType='application/vnd.google-apps.spreadsheet'", m.cfg.Title)
	list, err := m.Drive.Files.List().Q(query).Spaces("drive").Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return "", collerrors.WrapRetryable(err, collerrors.CodeDriveError, "search for spreadsheet")
	}
	if len(list.Files) == 0 {
		return "", nil
	}
	return list.Files[0].Id, nil
}

// clean resets an existing spreadsheet by recreating all sheets. A temporary
// sheet is needed because a spreadsheet must keep at least one sheet at all
// times.
func (m *Materializer) clean(ctx context.Context, id string, tables []*collector.CategoryTable) error {
	meta, err := m.Sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, "get spreadsheet metadata")
	}

	requests := []*sheets.Request{
		{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tempSheetTitle}}},
	}
	for _, sheet := range meta.Sheets {
		requests = append(requests, &sheets.Request{
			DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheet.Properties.SheetId},
		})
	}
	for _, t := range tables {
		requests = append(requests, &sheets.Request{
			AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: string(t.Dataset)}},
		})
	}

	if err := m.batchUpdate(ctx, id, requests); err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, "recreate sheets")
	}

	// Drop the temporary sheet now that the real ones exist.
	meta, err = m.Sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, "get spreadsheet metadata")
	}
	for _, sheet := range meta.Sheets {
		if sheet.Properties.Title == tempSheetTitle {
			err := m.batchUpdate(ctx, id, []*sheets.Request{
				{DeleteSheet: &sheets.DeleteSheetRequest{SheetId: sheet.Properties.SheetId}},
			})
			if err != nil {
				return collerrors.WrapRetryable(err, collerrors.CodeSheetError, "remove temporary sheet")
			}
			break
		}
	}

	m.logger.Info("Spreadsheet cleaned", "spreadsheet_id", id)
	return nil
}

// updateSheet clears one sheet and writes the two header rows plus all data
// rows in a single update.
func (m *Materializer) updateSheet(ctx context.Context, id string, t *collector.CategoryTable) error {
	title := string(t.Dataset)

	_, err := m.Sheets.Spreadsheets.Values.Clear(id, title+"!A1:ZZ", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, fmt.Sprintf("clear sheet %s", title))
	}

	_, err = m.Sheets.Spreadsheets.Values.Update(id, title+"!A1", &sheets.ValueRange{
		Values: m.sheetValues(t),
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, fmt.Sprintf("update sheet %s", title))
	}
	return nil
}

// sheetValues assembles header and data rows. Image cells carrying the
// renderable marker become IMAGE() formulas so the sheet shows the picture
// instead of the URL.
func (m *Materializer) sheetValues(t *collector.CategoryTable) [][]interface{} {
	cols := t.Columns()
	level1, level2 := t.HeaderRows()

	values := [][]interface{}{toCells(level1), toCells(level2)}
	for _, row := range t.Rows {
		cells := make([]interface{}, len(cols))
		for i, col := range cols {
			v := t.Value(row, col)
			if col.Image {
				if s, ok := v.(string); ok && collector.IsRenderableImage(s) {
					v = fmt.Sprintf("=IMAGE(%q, 1)", s)
				}
			}
			cells[i] = v
		}
		values = append(values, cells)
	}
	return values
}

func (m *Materializer) batchUpdate(ctx context.Context, id string, requests []*sheets.Request) error {
	if len(requests) == 0 {
		return nil
	}
	_, err := m.Sheets.Spreadsheets.BatchUpdate(id, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func spreadsheetURL(id string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/edit", id)
}
