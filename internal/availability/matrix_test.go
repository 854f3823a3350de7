package availability

import (
	"reflect"
	"testing"

	"github.com/Iron-Ham/finboard/internal/symbol"
)

func TestIsCategorySupported(t *testing.T) {
	tests := []struct {
		typ      symbol.Type
		category Category
		want     bool
	}{
		{symbol.IndianStock, CategoryFinancial, true},
		{symbol.IndianStock, CategoryFees, false},
		{symbol.IndianMutualFund, CategoryFees, true},
		{symbol.IndianMutualFund, CategoryDividend, false},
		{symbol.InternationalETF, CategoryPortfolio, false},
		{symbol.Unknown, CategoryRealTime, true},
		{symbol.Unknown, CategoryHistorical, false},
		{symbol.Type("bond"), CategoryRealTime, false},
	}
	for _, tt := range tests {
		if got := IsCategorySupported(tt.typ, tt.category); got != tt.want {
			t.Errorf("IsCategorySupported(%s, %s) = %v, want %v", tt.typ, tt.category, got, tt.want)
		}
	}

	// Regulatory data is never supported.
	for _, typ := range symbol.AllTypes() {
		if IsCategorySupported(typ, CategoryRegulatory) {
			t.Errorf("%s should not support regulatory data", typ)
		}
	}
}

func TestSupportingTypes(t *testing.T) {
	want := []symbol.Type{symbol.IndianStock, symbol.InternationalStock}
	if got := SupportingTypes(CategoryDividend); !reflect.DeepEqual(got, want) {
		t.Errorf("SupportingTypes(dividend) = %v, want %v", got, want)
	}
	if got := SupportingTypes(CategoryRegulatory); len(got) != 0 {
		t.Errorf("SupportingTypes(regulatory) = %v, want empty", got)
	}
	if got := SupportingTypes(CategoryRealTime); len(got) != len(symbol.AllTypes()) {
		t.Errorf("SupportingTypes(real_time) = %v, want all types", got)
	}
}

func TestCategoryExplanation(t *testing.T) {
	if got := CategoryExplanation(CategoryFees); got != "Expense ratios, management fees, and cost structure information" {
		t.Errorf("CategoryExplanation(fees) = %q", got)
	}
	if got := CategoryExplanation(Category("esg_score")); got != "Esg Score data" {
		t.Errorf("CategoryExplanation(esg_score) = %q", got)
	}
}

func TestPrimarySource(t *testing.T) {
	tests := map[symbol.Type]string{
		symbol.IndianMutualFund:  "AMFI Direct",
		symbol.IndianStock:       "Yahoo Finance",
		symbol.InternationalETF:  "Yahoo Finance",
		symbol.Unknown:           "Multiple sources",
		symbol.Type("commodity"): "Data sources",
	}
	for typ, want := range tests {
		if got := PrimarySource(typ); got != want {
			t.Errorf("PrimarySource(%s) = %q, want %q", typ, got, want)
		}
	}
}

func TestAlternativeSources(t *testing.T) {
	tests := []struct {
		typ      symbol.Type
		category Category
		want     []string
	}{
		{symbol.IndianMutualFund, CategoryFees, []string{"AMFI Direct", "mftool library", "Yahoo Finance", "Fund fact sheets", "Prospectus documents"}},
		{symbol.InternationalStock, CategoryDividend, []string{"Yahoo Finance", "International financial platforms", "Company dividend history pages", "Financial news websites"}},
		{symbol.Unknown, CategoryRealTime, nil},
	}
	for _, tt := range tests {
		got := AlternativeSources(tt.typ, tt.category)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("AlternativeSources(%s, %s) = %v, want %v", tt.typ, tt.category, got, tt.want)
		}
	}
}

func TestParseCategory(t *testing.T) {
	tests := map[string]Category{
		"Real-Time":  CategoryRealTime,
		" real time": CategoryRealTime,
		"FEES":       CategoryFees,
		"esg":        Category("esg"),
	}
	for in, want := range tests {
		if got := ParseCategory(in); got != want {
			t.Errorf("ParseCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReasonCode(t *testing.T) {
	if got := ReasonSymbolRecognition.Code(); got != "SYMBOL_RECOGNITION_ISSUE" {
		t.Errorf("Code() = %q", got)
	}
}
