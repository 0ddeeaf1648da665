package dashboard

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/pot-code/learnhub/internal/progress"
	"github.com/xuri/excelize/v2"
	"go.elastic.co/apm"
)

var exportHeader = []interface{}{
	"Categoria", "Cursos", "Vídeos", "Concluídos", "Em andamento", "Conclusão (%)", "Duração", "Status", "Ação",
}

// ExportWorkbook one row per ranked category below a bold header
func (du *DashboardUseCaseImpl) ExportWorkbook(ctx context.Context, userID string, w io.Writer) error {
	items, err := du.CategoryProgress(ctx, userID, 0)
	if err != nil {
		return err
	}

	apmSpan, _ := apm.StartSpan(ctx, "DashboardUseCaseImpl.ExportWorkbook", "service")
	defer apmSpan.End()

	f, err := buildWorkbook(items)
	if err != nil {
		return err
	}
	defer f.Close()
	return errors.Wrap(f.Write(w), "write workbook")
}

func buildWorkbook(items []*progress.CategoryProgress) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, errors.Wrap(err, "write header")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "create header style")
	}
	if err := f.SetCellStyle(sheet, "A1", "I1", bold); err != nil {
		return nil, errors.Wrap(err, "apply header style")
	}
	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return nil, errors.Wrap(err, "set column width")
	}

	for i, item := range items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			item.Category.Name,
			item.CourseCount,
			item.TotalVideos,
			item.CompletedVideos,
			item.InProgressVideos,
			item.CompletionPercent,
			item.FormattedDuration,
			string(item.Status),
			item.ActionLabel,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, errors.Wrapf(err, "write row %d", i+2)
		}
	}
	return f, nil
}
