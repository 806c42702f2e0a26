package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/evetools/hangarstat/internal/domain"
	"github.com/evetools/hangarstat/internal/engine"
)

// WriteWorkbook writes the summary and aggregated tree to an xlsx file at the
// given path: a SUMMARY sheet of per-mode totals and a TREE sheet with one
// row per node, indented by depth.
func WriteWorkbook(path string, summary engine.Summary, roots []*domain.TreeNode) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "SUMMARY"); err != nil {
		return fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, summary); err != nil {
		return err
	}

	if _, err := f.NewSheet("TREE"); err != nil {
		return fmt.Errorf("creating tree sheet: %w", err)
	}
	if err := writeTreeSheet(f, roots); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook to %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, summary engine.Summary) error {
	header := []any{"Owner", summary.OwnerKey, "Generated", summary.GeneratedAt.UTC().Format("2006-01-02 15:04")}
	if err := f.SetSheetRow("SUMMARY", "A1", &header); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	columns := []any{"Mode", "Count", "Value (ISK)", "Volume (m3)"}
	if err := f.SetSheetRow("SUMMARY", "A3", &columns); err != nil {
		return fmt.Errorf("writing summary columns: %w", err)
	}

	for i, m := range summary.Modes {
		row := []any{string(m.Mode), m.TotalCount, toFloat(m.TotalValue), toFloat(m.TotalVolume)}
		cell := fmt.Sprintf("A%d", i+4)
		if err := f.SetSheetRow("SUMMARY", cell, &row); err != nil {
			return fmt.Errorf("writing summary row %s: %w", m.Mode, err)
		}
	}
	return nil
}

func writeTreeSheet(f *excelize.File, roots []*domain.TreeNode) error {
	columns := []any{"Name", "Type", "Count", "Value (ISK)", "Volume (m3)"}
	if err := f.SetSheetRow("TREE", "A1", &columns); err != nil {
		return fmt.Errorf("writing tree columns: %w", err)
	}

	rowNum := 2
	var walk func(node *domain.TreeNode, depth int) error
	walk = func(node *domain.TreeNode, depth int) error {
		row := []any{
			strings.Repeat("  ", depth) + node.Name,
			string(node.NodeType),
			node.TotalCount,
			toFloat(node.TotalValue),
			toFloat(node.TotalVolume),
		}
		cell := fmt.Sprintf("A%d", rowNum)
		rowNum++
		if err := f.SetSheetRow("TREE", cell, &row); err != nil {
			return fmt.Errorf("writing tree row %q: %w", node.Name, err)
		}
		for _, child := range node.Children {
			if err := walk(child, depth+1); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range roots {
		if err := walk(root, 0); err != nil {
			return err
		}
	}
	return nil
}
