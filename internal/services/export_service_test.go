package services

import (
	"context"
	"testing"

	"inkwell/internal/models"
)

func TestContentService_ExportHistory(t *testing.T) {
	svc, _, _ := newTestContentService(&stubCompletion{output: "Exported output."}, &stubFetcher{})

	if _, err := svc.Generate(context.Background(), "user-1", models.GenerateRequest{Prompt: "first"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Generate(context.Background(), "user-1", models.GenerateRequest{Prompt: "second"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if _, err := svc.Generate(context.Background(), "user-2", models.GenerateRequest{Prompt: "foreign"}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	workbook, err := svc.ExportHistory(context.Background(), "user-1", models.ContentFilter{})
	if err != nil {
		t.Fatalf("ExportHistory failed: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("History")
	if err != nil {
		t.Fatalf("Failed to read workbook rows: %v", err)
	}

	// Header plus one row per owned record, foreign records excluded
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows (header + 2 records), got %d", len(rows))
	}
	if rows[0][0] != "Kind" || rows[0][3] != "Output" {
		t.Errorf("Unexpected header row: %v", rows[0])
	}
	for _, row := range rows[1:] {
		if row[0] != string(models.KindGenerated) {
			t.Errorf("Expected kind column %q, got %q", models.KindGenerated, row[0])
		}
		if row[1] == "foreign" {
			t.Error("Foreign record leaked into export")
		}
	}
}

func TestContentService_ExportHistory_Empty(t *testing.T) {
	svc, _, _ := newTestContentService(&stubCompletion{output: "x"}, &stubFetcher{})

	workbook, err := svc.ExportHistory(context.Background(), "nobody", models.ContentFilter{})
	if err != nil {
		t.Fatalf("ExportHistory failed: %v", err)
	}
	defer workbook.Close()

	rows, err := workbook.GetRows("History")
	if err != nil {
		t.Fatalf("Failed to read workbook rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected header-only workbook, got %d rows", len(rows))
	}
}
