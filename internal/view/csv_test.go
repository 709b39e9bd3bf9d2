package view

import (
	"strings"
	"testing"
	"time"

	"github.com/ymatsuda/card-inventory/internal/models"
)

func TestExportCSVHeader(t *testing.T) {
	out := ExportCSV(nil)
	want := "カード名,セット名,カード番号,レアリティ,状態,在庫数,購入価格,現在価格,総額,保管場所,メモ"
	if out != want {
		t.Errorf("empty export = %q, want header only %q", out, want)
	}
}

func TestExportCSVRow(t *testing.T) {
	items := []models.InventoryItem{
		{
			Card: models.Card{
				Name:      "Pikachu",
				SetName:   "Base Set",
				Condition: "NM",
			},
			Quantity:      2,
			PurchasePrice: floatPtr(100),
		},
	}

	out := ExportCSV(items)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("export has %d lines, want 2", len(lines))
	}

	// Text fields quoted, numerics bare, missing market price empty (not 0),
	// total uses the purchase price fallback.
	want := `"Pikachu","Base Set","","","NM",2,100,,200,"",""`
	if lines[1] != want {
		t.Errorf("row = %q, want %q", lines[1], want)
	}
}

func TestExportCSVNumbers(t *testing.T) {
	items := []models.InventoryItem{
		{
			Card:          models.Card{Name: "リザードン", SetName: "基本セット", Condition: "LP"},
			Quantity:      3,
			PurchasePrice: floatPtr(1234.5),
			MarketPrice:   floatPtr(1800),
			Location:      "棚A",
			Notes:         "初版",
		},
	}

	out := ExportCSV(items)
	row := strings.Split(out, "\n")[1]

	want := `"リザードン","基本セット","","","LP",3,1234.5,1800,5400,"棚A","初版"`
	if row != want {
		t.Errorf("row = %q, want %q", row, want)
	}
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2024, 3, 15, 23, 59, 0, 0, time.UTC)
	if got := ExportFilename(now); got != "inventory_2024-03-15.csv" {
		t.Errorf("ExportFilename() = %q", got)
	}
}

func TestCSVTemplateShape(t *testing.T) {
	lines := strings.Split(CSVTemplate, "\n")
	if len(lines) != 3 {
		t.Fatalf("template has %d lines, want header plus two samples", len(lines))
	}
	if lines[0] != "name,card_number,set_name,rarity,condition,language,description" {
		t.Errorf("template header = %q", lines[0])
	}
}
