package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/sheets/v4"

	"github.com/hysterresis/garmin-exercises/pkg/collector"
	collerrors "github.com/hysterresis/garmin-exercises/pkg/errors"
)

// categoryColors shades full columns by their level-1 header group.
var categoryColors = map[collector.ColumnGroup]*sheets.Color{
	collector.GroupName:      {Red: 0.8, Green: 0.9, Blue: 0.97},   // Light blue
	collector.GroupDetail:    {Red: 0.96, Green: 0.8, Blue: 0.8},   // Light red
	collector.GroupMuscles:   {Red: 0.85, Green: 0.92, Blue: 0.83}, // Light green
	collector.GroupEquipment: {Red: 1.0, Green: 0.95, Blue: 0.8},   // Light yellow
}

// fixedColumnWidths pins the identity and detail columns (pixels); everything
// after them is auto-resized.
var fixedColumnWidths = map[int64]int64{
	0: 400, // Name
	1: 150, // CATEGORY_GARMIN
	2: 150, // NAME_GARMIN
	3: 60,  // FOUND
	4: 150, // IMAGE
	5: 60,  // URL
	6: 90,  // DIFFICULTY
	7: 150, // DESCRIPTION
}

const dataRowHeight = 103 // fits the embedded 100px images

// format applies the full presentation batch: frozen headers, bold and
// centered header rows, fixed widths, merged level-1 spans, group colors,
// data row heights, and auto-resized trailing columns.
func (m *Materializer) format(ctx context.Context, id string, tables []*collector.CategoryTable) error {
	meta, err := m.Sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, "get spreadsheet metadata")
	}

	tablesByTitle := make(map[string]*collector.CategoryTable, len(tables))
	for _, t := range tables {
		tablesByTitle[string(t.Dataset)] = t
	}

	var requests []*sheets.Request
	for _, sheet := range meta.Sheets {
		table, ok := tablesByTitle[sheet.Properties.Title]
		if !ok {
			continue
		}

		sheetID := sheet.Properties.SheetId
		rowCount := int64(1000)
		if sheet.Properties.GridProperties != nil && sheet.Properties.GridProperties.RowCount > 0 {
			rowCount = sheet.Properties.GridProperties.RowCount
		}

		// Freeze the two header rows.
		requests = append(requests, &sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId: sheetID,
					GridProperties: &sheets.GridProperties{
						FrozenRowCount:    2,
						FrozenColumnCount: 0,
						ForceSendFields:   []string{"FrozenColumnCount"},
					},
				},
				Fields: "gridProperties.frozenRowCount,gridProperties.frozenColumnCount",
			},
		})

		// Bold both header rows.
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      2,
					StartColumnIndex: 0,
					EndColumnIndex:   100,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		})

		// Center the group label row.
		requests = append(requests, &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   100,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						HorizontalAlignment: "CENTER",
					},
				},
				Fields: "userEnteredFormat.horizontalAlignment",
			},
		})

		var lastFixed int64
		for colIndex, width := range fixedColumnWidths {
			if colIndex > lastFixed {
				lastFixed = colIndex
			}
			requests = append(requests, &sheets.Request{
				UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
					Range: &sheets.DimensionRange{
						SheetId:    sheetID,
						Dimension:  "COLUMNS",
						StartIndex: colIndex,
						EndIndex:   colIndex + 1,
					},
					Properties: &sheets.DimensionProperties{PixelSize: width},
					Fields:     "pixelSize",
				},
			})
		}

		// Merge level-1 header spans and shade each group's columns.
		for _, span := range headerSpans(table) {
			if span.end-span.start > 1 {
				requests = append(requests, &sheets.Request{
					MergeCells: &sheets.MergeCellsRequest{
						Range: &sheets.GridRange{
							SheetId:          sheetID,
							StartRowIndex:    0,
							EndRowIndex:      1,
							StartColumnIndex: span.start,
							EndColumnIndex:   span.end,
						},
						MergeType: "MERGE_ALL",
					},
				})
			}
			color, ok := categoryColors[span.group]
			if !ok {
				continue
			}
			requests = append(requests, &sheets.Request{
				RepeatCell: &sheets.RepeatCellRequest{
					Range: &sheets.GridRange{
						SheetId:          sheetID,
						StartRowIndex:    0,
						EndRowIndex:      rowCount,
						StartColumnIndex: span.start,
						EndColumnIndex:   span.end,
					},
					Cell: &sheets.CellData{
						UserEnteredFormat: &sheets.CellFormat{
							BackgroundColor: color,
						},
					},
					Fields: "userEnteredFormat.backgroundColor",
				},
			})
		}

		// Tall data rows so embedded images stay visible.
		requests = append(requests, &sheets.Request{
			UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: 2,
					EndIndex:   rowCount,
				},
				Properties: &sheets.DimensionProperties{PixelSize: dataRowHeight},
				Fields:     "pixelSize",
			},
		})

		// Auto-resize the muscle/equipment columns.
		requests = append(requests, &sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "COLUMNS",
					StartIndex: lastFixed + 1,
					EndIndex:   100,
				},
			},
		})
	}

	if err := m.batchUpdate(ctx, id, requests); err != nil {
		return collerrors.WrapRetryable(err, collerrors.CodeSheetError, "apply formatting")
	}
	return nil
}

// addFilterViews creates one filter view per sheet over its data range,
// starting below the group label row.
func (m *Materializer) addFilterViews(ctx context.Context, id string, tables []*collector.CategoryTable) error {
	meta, err := m.Sheets.Spreadsheets.Get(id).Context(ctx).Do()
	if err != nil {
		return err
	}

	tablesByTitle := make(map[string]*collector.CategoryTable, len(tables))
	for _, t := range tables {
		tablesByTitle[string(t.Dataset)] = t
	}

	var requests []*sheets.Request
	for _, sheet := range meta.Sheets {
		table, ok := tablesByTitle[sheet.Properties.Title]
		if !ok {
			continue
		}
		numRows := int64(len(table.Rows) + 2)
		numCols := int64(len(table.Columns()))

		requests = append(requests, &sheets.Request{
			AddFilterView: &sheets.AddFilterViewRequest{
				Filter: &sheets.FilterView{
					Title: fmt.Sprintf("%s Filter", sheet.Properties.Title),
					Range: &sheets.GridRange{
						SheetId:          sheet.Properties.SheetId,
						StartRowIndex:    1,
						EndRowIndex:      numRows,
						StartColumnIndex: 0,
						EndColumnIndex:   numCols,
					},
				},
			},
		})
	}

	return m.batchUpdate(ctx, id, requests)
}

// span is one run of identical level-1 header labels.
type span struct {
	group      collector.ColumnGroup
	start, end int64 // [start, end) column indices
}

func headerSpans(t *collector.CategoryTable) []span {
	cols := t.Columns()
	if len(cols) == 0 {
		return nil
	}

	var spans []span
	current := span{group: cols[0].Group, start: 0}
	for i := 1; i < len(cols); i++ {
		if cols[i].Group != current.group {
			current.end = int64(i)
			spans = append(spans, current)
			current = span{group: cols[i].Group, start: int64(i)}
		}
	}
	current.end = int64(len(cols))
	spans = append(spans, current)
	return spans
}
