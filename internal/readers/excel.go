package readers

import (
	"strconv"

	"github.com/xuri/excelize/v2"

	"manifest-extractor/internal/errs"
	"manifest-extractor/internal/logger"
	"manifest-extractor/internal/metrics"
	"manifest-extractor/internal/privacy"
	"manifest-extractor/internal/types"
)

// ExcelReader adapts a spreadsheet workbook (xlsx/xls/xlsm/xlsb) into the
// column pipeline's row-stream contract, one sheet schema per worksheet.
type ExcelReader struct {
	path    string
	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewExcelReader returns a reader for the workbook at path. log and m may be nil.
func NewExcelReader(path string, log *logger.Logger, m *metrics.Metrics) *ExcelReader {
	return &ExcelReader{path: path, log: log, metrics: m}
}

// Read extracts every sheet's schema, discarding the recode registry.
func (r *ExcelReader) Read(options types.ProcessingOptions) ([]types.SheetSchema, error) {
	sheets, _, err := r.ReadWithRecoding(options)
	return sheets, err
}

// ReadWithRecoding extracts every sheet's schema plus the combined recode
// registry built while reading (one ValueRecoder per recoded column, keyed
// by sheetIndex*sheetKeyStride + column index).
func (r *ExcelReader) ReadWithRecoding(options types.ProcessingOptions) ([]types.SheetSchema, *privacy.RecodeRegistry, error) {
	logInfof(r.log, "open", "reading %s", r.path)
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		if r.metrics != nil {
			r.metrics.ErrorsExtract.Add(1)
		}
		return nil, nil, errs.ExcelParse("open "+r.path, err)
	}
	defer f.Close()
	if r.metrics != nil {
		r.metrics.FilesScanned.Add(1)
	}

	sheetNames := f.GetSheetList()
	sheets := make([]types.SheetSchema, 0, len(sheetNames))
	combined := privacy.NewRecodeRegistry()

	for idx, name := range sheetNames {
		header, err := r.readHeader(f, name)
		if err != nil {
			return nil, nil, err
		}
		if len(header) == 0 {
			sheets = append(sheets, types.NewSheetSchema(name, idx))
			continue
		}

		scan := func(fn func(row []string) error) error {
			return r.scanDataRows(f, name, len(header), fn)
		}
		sheet, registry, err := runColumnPipeline(name, idx, header, scan, scan, options, r.log, r.metrics)
		if err != nil {
			if r.metrics != nil {
				r.metrics.ErrorsExtract.Add(1)
			}
			return nil, nil, err
		}
		sheets = append(sheets, sheet)
		// Namespace this sheet's column indices so they never collide with
		// another sheet's column 0 in the combined sidekick file, and label
		// each entry with its sheet name.
		combined.MergeFrom(registry, idx*sheetKeyStride, name+": ")
	}

	return sheets, combined, nil
}

// sheetKeyStride offsets per-sheet column indices when merging recode
// registries from a multi-sheet workbook; comfortably above any realistic
// worksheet width.
const sheetKeyStride = 100000

// readHeader returns the first row's cell text, treated as the column
// names for the sheet.
func (r *ExcelReader) readHeader(f *excelize.File, sheet string) ([]string, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, errs.ExcelParse("open sheet "+sheet, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, errs.ExcelParse("read header of sheet "+sheet, err)
	}
	return header, nil
}

// scanDataRows iterates every row after the header, building each cell's
// raw text from its native typed variant per spec.md §4.H: empty->missing,
// string->string, int/float->text of number, boolean->text, datetime->ISO
// date, error->missing.
func (r *ExcelReader) scanDataRows(f *excelize.File, sheet string, width int, fn func(row []string) error) error {
	rows, err := f.Rows(sheet)
	if err != nil {
		return errs.ExcelParse("open sheet "+sheet, err)
	}
	defer rows.Close()

	rowIdx := 0
	for rows.Next() {
		rowIdx++
		if rowIdx == 1 {
			continue // header already consumed by readHeader
		}
		cols, err := rows.Columns()
		if err != nil {
			return errs.ExcelParse("read row of sheet "+sheet, err)
		}
		cells := make([]string, width)
		for i := 0; i < width; i++ {
			axis, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
			cells[i] = r.nativeCellText(f, sheet, axis, cols, i)
		}
		if err := fn(cells); err != nil {
			return err
		}
	}
	return nil
}

// nativeCellText derives the raw text an Excel cell contributes to the row
// stream from its native typed variant, falling back to the already-decoded
// column text excelize's Rows.Columns() produced when the type lookup
// itself fails.
func (r *ExcelReader) nativeCellText(f *excelize.File, sheet, axis string, cols []string, i int) string {
	decoded := ""
	if i < len(cols) {
		decoded = cols[i]
	}

	cellType, err := f.GetCellType(sheet, axis)
	if err != nil {
		return decoded
	}

	switch cellType {
	case excelize.CellTypeNumber:
		if raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true}); err == nil && raw != "" {
			return raw
		}
		return decoded
	case excelize.CellTypeBool:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return decoded
		}
		switch raw {
		case "1":
			return "true"
		case "0":
			return "false"
		default:
			return raw
		}
	case excelize.CellTypeDate:
		raw, err := f.GetCellValue(sheet, axis, excelize.Options{RawCellValue: true})
		if err != nil {
			return decoded
		}
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return decoded
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return decoded
		}
		return t.Format("2006-01-02")
	case excelize.CellTypeError:
		return ""
	default:
		return decoded
	}
}
