package core

import (
	"reflect"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   []string
	}{
		{"unique names kept", []string{"a", "b"}, []string{"a", "b"}},
		{"blank named by position", []string{"a", "", "c"}, []string{"a", "Unnamed: 1", "c"}},
		{"repeats suffixed", []string{"x", "x", "x"}, []string{"x", "x.1", "x.2"}},
		{"suffix skips taken name", []string{"x", "x.1", "x"}, []string{"x", "x.1", "x.2"}},
		{"empty header", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeHeader(tt.header)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("normalizeHeader(%q) = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
}

func TestFromRecordsInference(t *testing.T) {
	header := []string{"id", "name", "score", "mixed", "empty"}
	records := [][]string{
		{"1", "alice", "3.5", "10", ""},
		{"2", "bob", "", "n/a", "NA"},
		{"3", "carol", "4", "x", ""},
	}

	tbl, err := FromRecords(header, records)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if tbl.NumRows() != 3 || tbl.NumCols() != 5 {
		t.Fatalf("shape = %dx%d, want 3x5", tbl.NumRows(), tbl.NumCols())
	}

	wantKinds := []ColumnKind{ColumnNumeric, ColumnText, ColumnNumeric, ColumnText, ColumnNumeric}
	for i, want := range wantKinds {
		if got := tbl.ColumnAt(i).Kind; got != want {
			t.Errorf("column %q kind = %v, want %v", tbl.ColumnAt(i).Name, got, want)
		}
	}

	score, _ := tbl.Column("score")
	if !score.Cells[1].IsMissing() {
		t.Errorf("score[1] = %v, want missing", score.Cells[1])
	}

	// Numbers in a mixed column keep their original text.
	mixed, _ := tbl.Column("mixed")
	if mixed.Cells[0] != Text("10") {
		t.Errorf("mixed[0] = %#v, want text 10", mixed.Cells[0])
	}
	if !mixed.Cells[1].IsMissing() {
		t.Errorf("mixed[1] = %#v, want missing", mixed.Cells[1])
	}
}

func TestFromRecordsShortAndLongRows(t *testing.T) {
	tbl, err := FromRecords([]string{"a", "b"}, [][]string{{"1"}, {"2", "3"}})
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	b, _ := tbl.Column("b")
	if !b.Cells[0].IsMissing() {
		t.Errorf("short row not padded: b[0] = %v", b.Cells[0])
	}

	_, err = FromRecords([]string{"a"}, [][]string{{"1", "2"}})
	if err == nil {
		t.Fatal("expected error for row longer than header")
	}
	if want := "row 2 has 2 fields, header has 1"; err.Error() != want {
		t.Errorf("err = %q, want %q", err.Error(), want)
	}
}

func TestFromRecordsHeaderOnly(t *testing.T) {
	tbl, err := FromRecords([]string{"a", "b"}, nil)
	if err != nil {
		t.Fatalf("FromRecords: %v", err)
	}
	if tbl.NumRows() != 0 || tbl.NumCols() != 2 {
		t.Errorf("shape = %dx%d, want 0x2", tbl.NumRows(), tbl.NumCols())
	}
	if tbl.ColumnAt(0).Kind != ColumnText {
		t.Errorf("kind of column without rows = %v, want text", tbl.ColumnAt(0).Kind)
	}
}

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable([]Column{
		{Name: "a", Cells: []Cell{Text("x")}},
		{Name: "b", Cells: []Cell{Text("y"), Text("z")}},
	})
	if err == nil {
		t.Error("expected error for uneven columns")
	}

	_, err = NewTable([]Column{
		{Name: "n", Kind: ColumnNumeric, Cells: []Cell{Number(1), Text("oops")}},
	})
	if err == nil {
		t.Error("expected error for text in numeric column")
	}
}

func TestTableIndexLastMatchWins(t *testing.T) {
	tbl := MustTable(
		Column{Name: "x", Kind: ColumnNumeric, Cells: []Cell{Number(1)}},
		Column{Name: "x", Kind: ColumnNumeric, Cells: []Cell{Number(2)}},
	)
	if got := tbl.Index("x"); got != 1 {
		t.Errorf("Index(x) = %d, want 1", got)
	}
	if got := tbl.Index("missing"); got != -1 {
		t.Errorf("Index(missing) = %d, want -1", got)
	}
}

func TestTableRowAndNumericIndexes(t *testing.T) {
	tbl := MustTable(
		Column{Name: "name", Kind: ColumnText, Cells: []Cell{Text("a"), Text("b")}},
		Column{Name: "v", Kind: ColumnNumeric, Cells: []Cell{Number(1), Missing()}},
	)
	row := tbl.Row(1)
	if len(row) != 2 || row[0] != Text("b") || !row[1].IsMissing() {
		t.Errorf("Row(1) = %v", row)
	}
	if got := tbl.NumericIndexes(); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("NumericIndexes() = %v, want [1]", got)
	}
	if got := tbl.Names(); !reflect.DeepEqual(got, []string{"name", "v"}) {
		t.Errorf("Names() = %v", got)
	}
}
