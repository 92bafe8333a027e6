package csvutil

import (
	"strings"
	"testing"
)

func TestPreScanProductsCSV_ValidRows(t *testing.T) {
	csv := `name,category,price,mrp,stock,weight,description
Turmeric Powder,Masalas,120,140,50,500g,Stone-ground turmeric
Cumin Seeds,Masalas,90,,20,250g,
Basmati Rice,Grains,450,500,10,5kg,Aged basmati`

	rows, rowErrs, err := PreScanProductsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("PreScanProductsCSV() error = %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}

	r := rows[0]
	if r.Name != "Turmeric Powder" || r.Category != "Masalas" {
		t.Errorf("row 0: got %q/%q", r.Name, r.Category)
	}
	if r.Price != 120 || r.MRP != 140 || r.Stock != 50 {
		t.Errorf("row 0 numbers: got price=%d mrp=%d stock=%d", r.Price, r.MRP, r.Stock)
	}
	if r.Weight != "500g" {
		t.Errorf("row 0 weight: got %q", r.Weight)
	}

	// Blank mrp defaults to 0.
	if rows[1].MRP != 0 {
		t.Errorf("row 1 mrp: got %d, want 0", rows[1].MRP)
	}
}

func TestPreScanProductsCSV_NoHeader(t *testing.T) {
	csv := `Turmeric Powder,Masalas,120,140,50,500g,
Cumin Seeds,Masalas,90,100,20,250g,`

	rows, rowErrs, err := PreScanProductsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("PreScanProductsCSV() error = %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestPreScanProductsCSV_BadRowsRejectWholeUpload(t *testing.T) {
	csv := `name,category,price
Turmeric Powder,Masalas,120
,Masalas,90
Cumin Seeds,,abc`

	rows, rowErrs, err := PreScanProductsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("PreScanProductsCSV() error = %v", err)
	}
	if rows != nil {
		t.Errorf("expected no rows when any line is invalid, got %d", len(rows))
	}
	if len(rowErrs) != 3 {
		t.Fatalf("got %d row errors, want 3: %v", len(rowErrs), rowErrs)
	}

	// Line numbers point at the raw file, header included.
	if rowErrs[0].Line != 3 || rowErrs[0].Reason != "missing name" {
		t.Errorf("first error: got %v", rowErrs[0])
	}
	if rowErrs[1].Line != 4 || rowErrs[1].Reason != "missing category" {
		t.Errorf("second error: got %v", rowErrs[1])
	}
	if !strings.Contains(rowErrs[2].Reason, "price") {
		t.Errorf("third error should mention price: got %v", rowErrs[2])
	}
}

func TestPreScanProductsCSV_NegativePrice(t *testing.T) {
	csv := `Turmeric Powder,Masalas,-5`

	_, rowErrs, err := PreScanProductsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("PreScanProductsCSV() error = %v", err)
	}
	if len(rowErrs) != 1 {
		t.Fatalf("got %d row errors, want 1", len(rowErrs))
	}
}

func TestPreScanProductsCSV_SkipsBlankLines(t *testing.T) {
	csv := `name,category,price
Turmeric Powder,Masalas,120
,,
Cumin Seeds,Masalas,90`

	rows, rowErrs, err := PreScanProductsCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("PreScanProductsCSV() error = %v", err)
	}
	if len(rowErrs) != 0 {
		t.Fatalf("unexpected row errors: %v", rowErrs)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestPreScanProductsCSV_Empty(t *testing.T) {
	rows, rowErrs, err := PreScanProductsCSV(strings.NewReader(""))
	if err != nil {
		t.Fatalf("PreScanProductsCSV() error = %v", err)
	}
	if len(rows) != 0 || len(rowErrs) != 0 {
		t.Errorf("expected nothing from empty input, got %d rows, %d errors", len(rows), len(rowErrs))
	}
}
