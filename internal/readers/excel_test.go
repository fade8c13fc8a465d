package readers

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"manifest-extractor/internal/types"
)

func writeTempXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("rename default sheet: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("create sheet %s: %v", name, err)
		}
		for rowIdx, row := range rows {
			for colIdx, val := range row {
				axis, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
				if err != nil {
					t.Fatalf("coordinates: %v", err)
				}
				if err := f.SetCellValue(name, axis, val); err != nil {
					t.Fatalf("set cell %s!%s: %v", name, axis, err)
				}
			}
		}
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	return path
}

func TestExcelReader_SingleSheet(t *testing.T) {
	path := writeTempXLSX(t, map[string][][]string{
		"Patients": {
			{"age", "email"},
			{"34", "alice@example.com"},
			{"29", "bob@example.com"},
		},
	})

	r := NewExcelReader(path, nil, nil)
	sheets, err := r.Read(types.DefaultProcessingOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheets) != 1 {
		t.Fatalf("expected 1 sheet, got %d", len(sheets))
	}
	if sheets[0].Name != "Patients" {
		t.Errorf("sheet name = %q, want Patients", sheets[0].Name)
	}
	if len(sheets[0].Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(sheets[0].Columns))
	}
	if sheets[0].Columns[1].Classification != types.ClassPhi {
		t.Errorf("email column classification = %s, want phi", sheets[0].Columns[1].Classification)
	}
}

func TestExcelReader_MultiSheetRecodeMerge(t *testing.T) {
	path := writeTempXLSX(t, map[string][][]string{
		"SiteA": {
			{"hospital", "age"},
			{"St Mary", "1"},
			{"General", "2"},
		},
		"SiteB": {
			{"hospital", "age"},
			{"St Mary", "3"},
		},
	})

	r := NewExcelReader(path, nil, nil)
	sheets, registry, err := r.ReadWithRecoding(types.DefaultProcessingOptions())
	if err != nil {
		t.Fatalf("ReadWithRecoding: %v", err)
	}
	if len(sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(sheets))
	}
	if !registry.HasRecodings() {
		t.Fatal("expected merged registry to have recordings from both sheets")
	}
}

func TestExcelReader_EmptySheet(t *testing.T) {
	path := writeTempXLSX(t, map[string][][]string{
		"Empty": {},
	})
	r := NewExcelReader(path, nil, nil)
	sheets, err := r.Read(types.DefaultProcessingOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sheets) != 1 || len(sheets[0].Columns) != 0 {
		t.Fatalf("expected 1 empty sheet, got %+v", sheets)
	}
}

func TestExcelReader_MissingFileReturnsError(t *testing.T) {
	r := NewExcelReader(filepath.Join(t.TempDir(), "missing.xlsx"), nil, nil)
	if _, err := r.Read(types.DefaultProcessingOptions()); err == nil {
		t.Fatal("expected an error for a missing workbook")
	}
}

func TestExcelReader_NumericCellNativeValue(t *testing.T) {
	path := writeTempXLSX(t, map[string][][]string{
		"Sheet1": {
			{"weight"},
			{"70.5"},
			{"65.25"},
		},
	})
	r := NewExcelReader(path, nil, nil)
	sheets, err := r.Read(types.DefaultProcessingOptions())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	col := sheets[0].Columns[0]
	if col.DType != types.DTypeNumeric {
		t.Errorf("dtype = %s, want numeric", col.DType)
	}
	if col.Stats == nil || col.Stats.Mean == nil {
		t.Fatal("expected mean to be populated for numeric column")
	}
}
