package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	commonErrors "github.com/hausbuch/hausbuch/internal/domain/errors"
	"github.com/hausbuch/hausbuch/internal/domain/item"
)

const (
	summarySheet = "Summary"
	itemsSheet   = "Items"
)

// ExportMonthlyWorkbook writes one month's breakdown to an xlsx workbook: a
// summary sheet with category totals and an items sheet with every record of
// the month across all collections
func (s *Service) ExportMonthlyWorkbook(ctx context.Context, month, path string) error {
	breakdown, err := s.Breakdown(ctx, month)
	if err != nil {
		return err
	}
	engine, err := s.rates.Engine(ctx)
	if err != nil {
		return err
	}
	rows, err := s.allRows(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return commonErrors.NewInternalError("failed to build workbook", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return commonErrors.NewInternalError("failed to build workbook", err)
	}

	setRow(f, summarySheet, 1, "Category", fmt.Sprintf("Total (%s)", engine.BaseCurrency()))
	for i, cat := range breakdown.Categories {
		setRow(f, summarySheet, i+2, cat.Category, round2(cat.Total))
	}
	setRow(f, summarySheet, len(breakdown.Categories)+2, "Total", round2(breakdown.Total))

	setRow(f, itemsSheet, 1,
		"Date", "Name", "Category", "Price", "Currency",
		fmt.Sprintf("Value (%s)", engine.BaseCurrency()), "Source", "Account")
	line := 2
	for _, row := range rows {
		if m, _ := splitDate(row.PurchaseDate); m != month {
			continue
		}
		value, ok := s.display(engine, row, engine.BaseCurrency())
		if !ok {
			continue
		}
		setRow(f, itemsSheet, line,
			row.PurchaseDate, row.Name, row.Category,
			row.ActualPrice, row.Currency, round2(value),
			row.Source, row.Account)
		line++
	}

	if err := f.SaveAs(path); err != nil {
		return commonErrors.NewStorageError("failed to save workbook", err).
			WithDetail("path", path)
	}

	s.log.Info("monthly workbook exported",
		zap.String("month", month),
		zap.String("path", path),
		zap.Int("items", line-2))
	return nil
}

// DefaultWorkbookName is the conventional file name for a month's export
func DefaultWorkbookName(month string, now time.Time) string {
	return fmt.Sprintf("expense_%s_%s.xlsx", month, now.Format(item.DateLayout))
}

func setRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			continue
		}
		// SetCellValue only fails on invalid coordinates, already guarded
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
