package sheets

import (
	"strings"
	"testing"
)

func TestParseCSV(t *testing.T) {
	csv := " nome , receita ,status_churn\nAcme,\"1.234,56\",Ativo\nBeta,10\n"
	table, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(table.Columns))
	}
	if table.Columns[0] != "nome" || table.Columns[1] != "receita" {
		t.Fatalf("headers not trimmed: %v", table.Columns)
	}
	if table.Len() != 2 {
		t.Fatalf("got %d rows, want 2", table.Len())
	}
	if table.Rows[0]["receita"] != "1.234,56" {
		t.Fatalf("quoted cell = %q", table.Rows[0]["receita"])
	}
	// Short records pad with empty cells.
	if table.Rows[1]["status_churn"] != "" {
		t.Fatalf("missing cell = %q, want empty", table.Rows[1]["status_churn"])
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	table, err := ParseCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.IsEmpty() {
		t.Fatal("expected empty table")
	}
}

func TestFindColumn(t *testing.T) {
	table := &Table{Columns: []string{"Carimbo de data/hora", "Nota do Produto"}}

	col, ok := table.FindColumn("carimbo", "timestamp")
	if !ok || col != "Carimbo de data/hora" {
		t.Fatalf("FindColumn = %q, %v", col, ok)
	}
	if _, ok := table.FindColumn("prazo"); ok {
		t.Fatal("unexpected match for prazo")
	}
}

func TestCopy_Independent(t *testing.T) {
	table := &Table{
		Columns: []string{"a"},
		Rows:    []Row{{"a": "1"}},
	}
	dup := table.Copy()
	dup.Rows[0]["a"] = "changed"
	if table.Rows[0]["a"] != "1" {
		t.Fatal("Copy must not share row maps with the original")
	}
}

func TestCopy_Nil(t *testing.T) {
	var table *Table
	if dup := table.Copy(); !dup.IsEmpty() {
		t.Fatal("nil table copy should be empty")
	}
}
