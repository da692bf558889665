// Package export writes downloaded texts to disk as JSON documents and as
// XLSX workbooks with one sheet per record kind.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"ianct-client/domain/models"
	apperrors "ianct-client/pkg/errors"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// Sheet names of an exported workbook.
const (
	SheetText      = "Text"
	SheetEntities  = "Entities"
	SheetRelations = "Relations"
	SheetSections  = "Sections"
)

// Writer writes export files.
type Writer struct {
	logger *zap.Logger
}

func NewWriter(logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{logger: logger.Named("export")}
}

// JSONFilename is the file name of a JSON export.
func JSONFilename(textID int64) string {
	return fmt.Sprintf("text-%d.json", textID)
}

// WorkbookFilename is the file name of an XLSX export.
func WorkbookFilename(textID int64) string {
	return fmt.Sprintf("text-%d.xlsx", textID)
}

// WriteJSON stores the export blob unchanged as text-<id>.json in dir.
func (w *Writer) WriteJSON(dir string, textID int64, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewStorageError("mkdir", err)
	}
	path := filepath.Join(dir, JSONFilename(textID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperrors.NewStorageError("write export", err)
	}
	w.logger.Info("Exported text", zap.Int64("textID", textID), zap.String("path", path))
	return path, nil
}

// DecodeDocument parses an export blob.
func DecodeDocument(data []byte) (*models.ExportDocument, error) {
	var doc models.ExportDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewValidationError("export is not a text document").WithCause(err)
	}
	return &doc, nil
}

// WriteWorkbook stores doc as text-<id>.xlsx in dir.
func (w *Writer) WriteWorkbook(dir string, doc *models.ExportDocument) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", apperrors.NewStorageError("mkdir", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetText); err != nil {
		return "", apperrors.NewInternalError("create workbook").WithCause(err)
	}
	for _, name := range []string{SheetEntities, SheetRelations, SheetSections} {
		if _, err := f.NewSheet(name); err != nil {
			return "", apperrors.NewInternalError("create workbook").WithCause(err)
		}
	}

	t := doc.Text
	project := ""
	if t.ProjectID != nil {
		project = strconv.FormatInt(*t.ProjectID, 10)
	}
	textRows := [][]any{
		{"id", t.ID},
		{"title", t.Title},
		{"category", t.Category},
		{"author", t.Author},
		{"era", t.Era},
		{"projectId", project},
		{"description", t.Description},
		{"content", t.Content},
	}
	if err := writeRows(f, SheetText, textRows); err != nil {
		return "", err
	}

	entityRows := [][]any{{"id", "label", "category", "startOffset", "endOffset", "confidence"}}
	for _, e := range doc.Entities {
		entityRows = append(entityRows, []any{e.ID, e.Label, e.Category, e.StartOffset, e.EndOffset, e.Confidence})
	}
	if err := writeRows(f, SheetEntities, entityRows); err != nil {
		return "", err
	}

	relationRows := [][]any{{"id", "sourceId", "targetId", "relationType", "confidence", "evidence"}}
	for _, r := range doc.Relations {
		relationRows = append(relationRows, []any{r.ID, r.SourceID(), r.TargetID(), r.RelationType, r.Confidence, r.Evidence})
	}
	if err := writeRows(f, SheetRelations, relationRows); err != nil {
		return "", err
	}

	sectionRows := [][]any{{"id", "orderIndex", "title", "summary", "startOffset", "endOffset"}}
	for _, s := range doc.Sections {
		sectionRows = append(sectionRows, []any{s.ID, s.OrderIndex, s.Title, s.Summary, s.StartOffset, s.EndOffset})
	}
	if err := writeRows(f, SheetSections, sectionRows); err != nil {
		return "", err
	}

	path := filepath.Join(dir, WorkbookFilename(t.ID))
	if err := f.SaveAs(path); err != nil {
		return "", apperrors.NewStorageError("write workbook", err)
	}
	w.logger.Info("Exported workbook",
		zap.Int64("textID", t.ID),
		zap.String("path", path),
		zap.Int("entities", len(doc.Entities)),
		zap.Int("relations", len(doc.Relations)),
	)
	return path, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.NewInternalError("write workbook").WithCause(err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return apperrors.NewInternalError("write workbook").WithCause(err)
		}
	}
	return nil
}
