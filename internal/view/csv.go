package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/ymatsuda/card-inventory/internal/models"
)

// exportHeaders is the fixed 11-column export header, in display order.
var exportHeaders = []string{
	"カード名",
	"セット名",
	"カード番号",
	"レアリティ",
	"状態",
	"在庫数",
	"購入価格",
	"現在価格",
	"総額",
	"保管場所",
	"メモ",
}

// CSVTemplate is the import template offered for download. Required columns
// are name and set_name; condition defaults to NM and language to JP.
const CSVTemplate = `name,card_number,set_name,rarity,condition,language,description
ピカチュウ,025,基本セット,Common,NM,JP,でんきタイプのポケモン
リザードン,006,基本セット,Rare,LP,JP,ほのおタイプのポケモン`

// ExportCSV serializes the given (already filtered and sorted) rows to CSV.
// Text fields are always double-quoted, numeric fields never are, and a
// missing price is an empty field rather than 0. Embedded quotes and commas
// are not escaped; this matches the long-standing export format consumers
// already parse, so changing it would break them. Known limitation.
func ExportCSV(items []models.InventoryItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, strings.Join(exportHeaders, ","))

	for _, item := range items {
		fields := []string{
			quoted(item.Card.Name),
			quoted(item.Card.SetName),
			quoted(item.Card.CardNumber),
			quoted(item.Card.Rarity),
			quoted(item.Card.Condition),
			strconv.Itoa(item.Quantity),
			optionalNumber(item.PurchasePrice),
			optionalNumber(item.MarketPrice),
			formatNumber(ItemValue(item)),
			quoted(item.Location),
			quoted(item.Notes),
		}
		lines = append(lines, strings.Join(fields, ","))
	}

	return strings.Join(lines, "\n")
}

// ExportFilename names the download after the moment of export, not any data
// timestamp.
func ExportFilename(now time.Time) string {
	return "inventory_" + now.Format("2006-01-02") + ".csv"
}

func quoted(s string) string {
	return `"` + s + `"`
}

func optionalNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
