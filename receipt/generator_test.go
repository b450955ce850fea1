package receipt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"smartshop/model"

	"github.com/shopspring/decimal"
)

func sampleCart() []model.CartLine {
	return []model.CartLine{
		{ItemID: 1, Name: "Milk", Quantity: 2, UnitPrice: 10.0},
		{ItemID: 2, Name: "Bread", Quantity: 1, UnitPrice: 5.0},
	}
}

func TestBuild(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	d := Build("Anas General Store", "Rs ", 7, sampleCart(), decimal.NewFromFloat(25.0), "Alice", now)

	if d.SaleID != 7 || d.Customer != "Alice" || d.StoreName != "Anas General Store" {
		t.Errorf("header data = %+v", d)
	}
	if d.Timestamp != "2024-03-15 14:30:00" {
		t.Errorf("timestamp = %s", d.Timestamp)
	}
	if d.Total != "Rs 25.00" {
		t.Errorf("total = %s, want Rs 25.00", d.Total)
	}
	if len(d.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(d.Lines))
	}
	if d.Lines[0].Subtotal != "Rs 20.00" || d.Lines[0].UnitPrice != "Rs 10.00" {
		t.Errorf("line 1 = %+v", d.Lines[0])
	}
	if d.Lines[1].Subtotal != "Rs 5.00" || d.Lines[1].UnitPrice != "Rs 5.00" {
		t.Errorf("line 2 = %+v", d.Lines[1])
	}
}

func TestBuildDefaultsCustomerName(t *testing.T) {
	d := Build("Shop", "Rs ", 1, sampleCart(), decimal.Zero, "", time.Now())
	if d.Customer != "Customer" {
		t.Errorf("customer = %q, want Customer", d.Customer)
	}
}

func TestRenderLayout(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	d := Build("Anas General Store", "Rs ", 7, sampleCart(), decimal.NewFromFloat(25.0), "Alice", now)

	var buf bytes.Buffer
	if err := Render(&buf, d); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"SmartShop Receipt",
		"Anas General Store",
		"Sale ID : 7",
		"Customer: Alice",
		"Date    : 2024-03-15 14:30:00",
		"Milk",
		"Rs 20.00",
		"Bread",
		"Rs 5.00",
		"TOTAL",
		"Rs 25.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("receipt missing %q:\n%s", want, out)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	d := Build("Shop", "Rs ", 42, sampleCart(), decimal.NewFromFloat(25.0), "Bob", time.Now())

	path, err := Write(dir, d)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "receipt_42.txt" {
		t.Errorf("file name = %s, want receipt_42.txt", filepath.Base(path))
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	if !strings.Contains(string(content), "Sale ID : 42") {
		t.Errorf("written receipt missing sale id:\n%s", content)
	}
}
