package rules

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sana-labs/recommender-cli/internal/model"
)

// xlsxColumns maps the sheet's header labels to Rule fields. The sheet is
// maintained by hand, so headers are matched after trimming and casefolding.
var xlsxColumns = map[string]string{
	"problém":  "problem",
	"problem":  "problem",
	"eo 1":     "eo1",
	"eo 2":     "eo2",
	"eo 3":     "eo3",
	"prawtein": "prawtein",
	"tčm wan":  "tcm_wan",
	"tcm wan":  "tcm_wan",
	"aloe":     "aloe",
	"merkaba":  "merkaba",
	"poznámka": "note",
	"poznamka": "note",
}

// XLSXOptions configures the rule sheet parser.
type XLSXOptions struct {
	SheetIndex int    // default 0
	SheetName  string // if set, overrides SheetIndex
}

// ReadXLSX parses the healing rule spreadsheet. The first row must be the
// header; unknown columns are ignored, rows with an empty problem label are
// skipped.
func ReadXLSX(path string, opts XLSXOptions) ([]model.Rule, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "rules: open xlsx")
	}

	sheet, err := getSheet(f, opts)
	if err != nil {
		return nil, err
	}
	if len(sheet.Rows) == 0 {
		return nil, eris.New("rules: sheet is empty")
	}

	fields, err := headerFields(sheet.Rows[0])
	if err != nil {
		return nil, err
	}

	var (
		rules   []model.Rule
		skipped int
	)
	for i, row := range sheet.Rows[1:] {
		r := parseRow(row, fields)
		if strings.TrimSpace(r.Problem) == "" {
			skipped++
			continue
		}
		r.ID = int64(i + 1)
		rules = append(rules, r)
	}

	if skipped > 0 {
		zap.L().Debug("rules: skipped rows without a problem label",
			zap.Int("skipped", skipped),
		)
	}

	return rules, nil
}

// headerFields resolves each header cell to a Rule field name, keyed by
// column index.
func headerFields(header *xlsx.Row) (map[int]string, error) {
	fields := make(map[int]string)
	for j, cell := range header.Cells {
		label := strings.ToLower(strings.TrimSpace(cell.String()))
		if field, ok := xlsxColumns[label]; ok {
			fields[j] = field
		}
	}
	if _, ok := fieldIndex(fields, "problem"); !ok {
		return nil, eris.New("rules: header has no problem column")
	}
	return fields, nil
}

func fieldIndex(fields map[int]string, name string) (int, bool) {
	for j, f := range fields {
		if f == name {
			return j, true
		}
	}
	return 0, false
}

func parseRow(row *xlsx.Row, fields map[int]string) model.Rule {
	var r model.Rule
	for j, cell := range row.Cells {
		field, ok := fields[j]
		if !ok {
			continue
		}
		v := strings.TrimSpace(cell.String())
		switch field {
		case "problem":
			r.Problem = v
		case "eo1":
			r.EO1 = v
		case "eo2":
			r.EO2 = v
		case "eo3":
			r.EO3 = v
		case "prawtein":
			r.Prawtein = v
		case "tcm_wan":
			r.TCMWan = v
		case "aloe":
			r.Aloe = v
		case "merkaba":
			r.Merkaba = v
		case "note":
			r.Note = v
		}
	}
	return r
}

func getSheet(f *xlsx.File, opts XLSXOptions) (*xlsx.Sheet, error) {
	if opts.SheetName != "" {
		sheet, ok := f.Sheet[opts.SheetName]
		if !ok {
			return nil, eris.Errorf("rules: sheet %q not found", opts.SheetName)
		}
		return sheet, nil
	}

	if opts.SheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("rules: sheet index %d out of range (file has %d sheets)", opts.SheetIndex, len(f.Sheets))
	}

	return f.Sheets[opts.SheetIndex], nil
}
