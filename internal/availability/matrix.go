package availability

import (
	"github.com/Iron-Ham/finboard/internal/symbol"
	"github.com/Iron-Ham/finboard/internal/util"
)

// fundCategories is the support row shared by every fund-like type.
var fundCategories = map[Category]bool{
	CategoryRealTime:    true,
	CategoryHistorical:  true,
	CategoryPerformance: true,
	CategoryFees:        true,
}

var stockCategories = map[Category]bool{
	CategoryRealTime:    true,
	CategoryHistorical:  true,
	CategoryPerformance: true,
	CategoryFinancial:   true,
	CategoryPortfolio:   true,
	CategoryDividend:    true,
}

// supportMatrix lists the categories each symbol type can provide. Missing
// entries are unsupported.
var supportMatrix = map[symbol.Type]map[Category]bool{
	symbol.IndianStock:             stockCategories,
	symbol.IndianMutualFund:        fundCategories,
	symbol.IndianETF:               fundCategories,
	symbol.InternationalStock:      stockCategories,
	symbol.InternationalETF:        fundCategories,
	symbol.InternationalMutualFund: fundCategories,
	symbol.Unknown:                 {CategoryRealTime: true},
}

var categoryExplanations = map[Category]string{
	CategoryRealTime:    "Current price, NAV, volume, and basic trading information",
	CategoryHistorical:  "Historical price data, charts, and performance over time",
	CategoryPerformance: "Key performance metrics like P/E ratio, beta, returns, and ratios",
	CategoryFinancial:   "Financial statements data including revenue, profit, debt, and margins",
	CategoryPortfolio:   "Portfolio composition, sector allocation, and holdings information",
	CategoryRegulatory:  "Regulatory filings, compliance reports, and official announcements",
	CategoryDividend:    "Dividend history, yield information, and payout schedules",
	CategoryFees:        "Expense ratios, management fees, and cost structure information",
}

// IsCategorySupported reports whether symbols of type t can provide category c.
func IsCategorySupported(t symbol.Type, c Category) bool {
	return supportMatrix[t][c]
}

// SupportingTypes returns, in display order, the symbol types that provide c.
func SupportingTypes(c Category) []symbol.Type {
	var types []symbol.Type
	for _, t := range symbol.AllTypes() {
		if IsCategorySupported(t, c) {
			types = append(types, t)
		}
	}
	return types
}

// CategoryExplanation describes what a category contains. Unknown categories
// get a generic "<Name> data" line.
func CategoryExplanation(c Category) string {
	if text, ok := categoryExplanations[c]; ok {
		return text
	}
	return c.DisplayName() + " data"
}

// PrimarySource names the data source normally used for symbols of type t.
func PrimarySource(t symbol.Type) string {
	switch t {
	case symbol.IndianMutualFund:
		return "AMFI Direct"
	case symbol.IndianStock, symbol.IndianETF, symbol.InternationalStock,
		symbol.InternationalETF, symbol.InternationalMutualFund:
		return "Yahoo Finance"
	case symbol.Unknown:
		return "Multiple sources"
	default:
		return "Data sources"
	}
}

// AlternativeSources lists other places to look for category c data on a
// symbol of type t, without repeats and in a stable order.
func AlternativeSources(t symbol.Type, c Category) []string {
	var alts []string
	switch t {
	case symbol.IndianMutualFund:
		alts = append(alts, "AMFI Direct", "mftool library", "Yahoo Finance")
	case symbol.IndianStock, symbol.IndianETF:
		alts = append(alts, "Yahoo Finance", "NSE/BSE official websites")
	case symbol.InternationalStock, symbol.InternationalETF:
		alts = append(alts, "Yahoo Finance", "International financial platforms")
	}

	switch c {
	case CategoryFinancial:
		alts = append(alts, "Company annual reports", "SEC filings", "Company investor relations")
	case CategoryDividend:
		alts = append(alts, "Company dividend history pages", "Financial news websites")
	case CategoryFees:
		alts = append(alts, "Fund fact sheets", "Prospectus documents")
	}
	return util.Unique(alts)
}
