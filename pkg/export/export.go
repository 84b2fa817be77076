// Package export writes stored reports out of the history store: as plain
// text, JSON, an xlsx workbook, or onto the system clipboard.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/xuri/excelize/v2"

	"tableflip.dev/daily/pkg/report"
)

// Format names an export encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatText, FormatJSON, FormatXLSX}

// ParseFormat maps a flag value to a Format. The file extension of path is
// used when raw is empty.
func ParseFormat(raw, path string) (Format, error) {
	if raw == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".json":
			return FormatJSON, nil
		case ".xlsx":
			return FormatXLSX, nil
		default:
			return FormatText, nil
		}
	}
	for _, f := range Formats {
		if strings.EqualFold(raw, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("export: unknown format %q", raw)
}

// Filename is the default download name for a single report. It is always a
// bare file name: separators and characters Windows rejects become _.
func Filename(e *report.Entry) string {
	return fmt.Sprintf("work_report_%s_%s.txt", safeName(e.User), safeName(e.Date))
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f || strings.ContainsRune(`/\:*?"<>|`, r) {
			return '_'
		}
		return r
	}, s)
}

// Write encodes entries in the given format.
func Write(w io.Writer, format Format, entries []*report.Entry, tmpl report.Template) error {
	switch format {
	case FormatJSON:
		return JSON(w, entries)
	case FormatXLSX:
		return XLSX(w, entries, tmpl)
	default:
		return Text(w, entries)
	}
}

// Text writes the full text of each report, separated by a blank line.
func Text(w io.Writer, entries []*report.Entry) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, e.FullText); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes entries as an indented array in their stored shape.
func JSON(w io.Writer, entries []*report.Entry) error {
	if entries == nil {
		entries = []*report.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}

// Sheet is the worksheet name used by XLSX.
const Sheet = "日报"

var fixedColumns = []string{"姓名", "部门", "汇报日期"}

// XLSX writes one row per report and one column per template section.
// Sections that are not in tmpl but appear in a report are appended as
// extra columns.
func XLSX(w io.Writer, entries []*report.Entry, tmpl report.Template) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", Sheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}

	keys := columnKeys(entries, tmpl)
	header := make([]interface{}, 0, len(fixedColumns)+len(keys)+1)
	for _, c := range fixedColumns {
		header = append(header, c)
	}
	for _, k := range keys {
		header = append(header, tmpl.Title(k))
	}
	header = append(header, "生成时间")
	if err := f.SetSheetRow(Sheet, "A1", &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for i, e := range entries {
		row := []interface{}{e.User, e.Dept, e.Date}
		for _, k := range keys {
			row = append(row, e.Section(k))
		}
		generated := ""
		if !e.Generated.IsZero() {
			generated = e.Generated.Format(time.DateTime)
		}
		row = append(row, generated)

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(Sheet, cell, &row); err != nil {
			return fmt.Errorf("export: write row %d: %w", i+2, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(Sheet, "A", "C", 12); err != nil {
		return err
	}
	if len(keys) > 0 {
		first, _ := excelize.ColumnNumberToName(len(fixedColumns) + 1)
		end, _ := excelize.ColumnNumberToName(len(fixedColumns) + len(keys))
		if err := f.SetColWidth(Sheet, first, end, 40); err != nil {
			return err
		}
	}
	style, err := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(Sheet, "A1", fmt.Sprintf("%s%d", last, len(entries)+1), style); err != nil {
		return err
	}

	return f.Write(w)
}

func columnKeys(entries []*report.Entry, tmpl report.Template) []string {
	keys := tmpl.Keys()
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		seen[k] = true
	}
	for _, e := range entries {
		for _, k := range e.Order {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// Copy puts text on the system clipboard.
func Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("export: clipboard unsupported on this system")
	}
	return clipboard.WriteAll(text)
}
