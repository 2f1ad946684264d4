package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"inkwell/internal/models"
)

const exportSheet = "History"

// ExportHistory renders the caller's filtered history as an xlsx
// workbook, newest first, one row per record.
func (s *ContentService) ExportHistory(ctx context.Context, ownerID string, filter models.ContentFilter) (*excelize.File, error) {
	contents, err := s.store.QueryByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", exportSheet)

	headers := []string{"Kind", "Prompt", "Source URL", "Output", "Created At", "Updated At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("%w: failed to write export header: %v", ErrStorage, err)
		}
	}

	for row, content := range contents {
		values := []interface{}{
			string(content.Kind),
			content.Prompt,
			content.SourceURL,
			content.OutputText,
			content.CreatedAt.Format(time.RFC3339),
			content.UpdatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("%w: failed to write export row: %v", ErrStorage, err)
			}
		}
	}

	return f, nil
}
