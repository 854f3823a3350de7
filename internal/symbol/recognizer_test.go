package symbol

import (
	"testing"

	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/logging"
)

func TestRecognize(t *testing.T) {
	r := NewRecognizer(logging.NopLogger())

	tests := []struct {
		name           string
		input          string
		wantType       Type
		wantNormalized string
		wantPrimary    DataSource
		wantExchange   string
		wantCountry    string
		wantConfidence float64
	}{
		{"amfi scheme code", "120503", IndianMutualFund, "120503", AMFIDirect, "", "IN", 0.95},
		{"yahoo fund id", "0P0000XVU8.BO", IndianMutualFund, "0P0000XVU8.BO", YahooFinance, "", "IN", 0.95},
		{"fund name", "hdfc top 100 fund", IndianMutualFund, "HDFC_TOP_100_FUND", AMFIDirect, "", "IN", 0.8},
		{"amc prefix", "NIPPONINDIA", IndianMutualFund, "NIPPONINDIA", AMFIDirect, "", "IN", 0.7},
		{"fund keyword", "LARGECAPSCHEME", IndianMutualFund, "LARGECAPSCHEME", AMFIDirect, "", "IN", 0.6},
		{"indian etf", "NIFTYBEES.NS", IndianETF, "NIFTYBEES.NS", YahooFinance, "NSE", "IN", 0.95},
		{"liquid etf on bse", "LIQUIDBEES.BO", IndianETF, "LIQUIDBEES.BO", YahooFinance, "NSE", "IN", 0.95},
		{"listing with fund house name", "HDFCBANK.NS", IndianStock, "HDFCBANK.NS", YahooFinance, "NSE", "IN", 0.9},
		{"nse long suffix", "reliance.nse", IndianStock, "RELIANCE.NS", YahooFinance, "NSE", "IN", 0.9},
		{"bse", "TCS.BO", IndianStock, "TCS.BO", YahooFinance, "BSE", "IN", 0.9},
		{"bse long suffix", "TCS.BSE", IndianStock, "TCS.BO", YahooFinance, "BSE", "IN", 0.9},
		{"bare symbol", "INFY", IndianStock, "INFY.NS", YahooFinance, "", "IN", 0.7},
		{"ampersand", "M&M.NS", IndianStock, "MM.NS", YahooFinance, "NSE", "IN", 0.9},
		{"amsterdam listing", "ASML.AS", InternationalStock, "ASML.AS", YahooFinance, "AS", "NL", 0.9},
		{"tokyo listing", "SONY.T", InternationalStock, "SONY.T", YahooFinance, "T", "JP", 0.9},
		{"international etf", "SPDR-GOLD", InternationalETF, "SPDR-GOLD", YahooFinance, "", "US", 0.8},
		{"unknown exchange", "ABC.XYZQ", Unknown, "ABC.XYZQ", YahooFinance, "", "IN", 0.1},
		{"garbage", "@@@", Unknown, "", YahooFinance, "", "IN", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := r.Recognize(tt.input)
			if info.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", info.Type, tt.wantType)
			}
			if info.Normalized != tt.wantNormalized {
				t.Errorf("Normalized = %q, want %q", info.Normalized, tt.wantNormalized)
			}
			if info.PrimarySource != tt.wantPrimary {
				t.Errorf("PrimarySource = %s, want %s", info.PrimarySource, tt.wantPrimary)
			}
			if info.Exchange != tt.wantExchange {
				t.Errorf("Exchange = %q, want %q", info.Exchange, tt.wantExchange)
			}
			if info.Country != tt.wantCountry {
				t.Errorf("Country = %q, want %q", info.Country, tt.wantCountry)
			}
			if info.Confidence != tt.wantConfidence {
				t.Errorf("Confidence = %v, want %v", info.Confidence, tt.wantConfidence)
			}
		})
	}
}

func TestRecognize_KeepsTrimmedOriginal(t *testing.T) {
	info := NewRecognizer(nil).Recognize("  infy  ")
	if info.Original != "infy" {
		t.Errorf("Original = %q, want %q", info.Original, "infy")
	}
}

func TestRecognize_Metadata(t *testing.T) {
	r := NewRecognizer(nil)

	fund := r.Recognize("0P0000XVU8.NS")
	if fund.Metadata["is_yahoo_mf_id"] != true || fund.Metadata["yahoo_symbol"] != "0P0000XVU8.NS" {
		t.Errorf("unexpected fund metadata: %v", fund.Metadata)
	}
	if len(fund.FallbackSources) != 2 || fund.FallbackSources[0] != AMFIDirect {
		t.Errorf("FallbackSources = %v, want [amfi_direct mftool]", fund.FallbackSources)
	}

	unknown := r.Recognize("ABC.XYZQ")
	if unknown.Metadata["needs_manual_classification"] != true {
		t.Errorf("unknown symbols should be flagged for manual classification: %v", unknown.Metadata)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  hdfc top-100 fund! ", "HDFC_TOP-100_FUND"},
		{"reliance.ns", "RELIANCE.NS"},
		{"M&M", "MM"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSourcePriority(t *testing.T) {
	info := Info{PrimarySource: YahooFinance, FallbackSources: []DataSource{YahooFinance, MFTool, AMFIDirect}}
	got := SourcePriority(info)
	want := []DataSource{YahooFinance, MFTool, AMFIDirect}
	if len(got) != len(want) {
		t.Fatalf("SourcePriority() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("SourcePriority()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSuggestCorrections(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"reliance", []string{"RELIANCE.NS", "RELIANCE.BO"}},
		{"INFY.NS", nil},
		{"TCS.NSE", []string{"TCS.NSE.NS", "TCS.NSE.BO", "TCS.NS", "TCS.BO"}},
		{"WIPRO.IN", []string{"WIPRO.IN.NS", "WIPRO.IN.BO", "WIPRO.NS", "WIPRO.BO"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := SuggestCorrections(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("SuggestCorrections(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("SuggestCorrections(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
			if len(got) > MaxCorrections {
				t.Errorf("more than %d suggestions", MaxCorrections)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		input   string
		want    Type
		wantErr bool
	}{
		{"indian_stock", IndianStock, false},
		{"International-ETF", InternationalETF, false},
		{"indian mutual fund", IndianMutualFund, false},
		{" UNKNOWN ", Unknown, false},
		{"crypto", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrInvalidInput) {
					t.Errorf("ParseType(%q) error = %v, want ErrInvalidInput", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseType(%q) = %s, %v; want %s", tt.input, got, err, tt.want)
			}
		})
	}
}

func TestDisplayNames(t *testing.T) {
	if got := InternationalMutualFund.DisplayName(); got != "International Mutual Fund" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := AMFIDirect.DisplayName(); got != "AMFI Direct" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := DataSource("bogus").DisplayName(); got != "Unknown" {
		t.Errorf("DisplayName() = %q", got)
	}
	if len(AllTypes()) != 7 {
		t.Errorf("AllTypes() has %d entries, want 7", len(AllTypes()))
	}
}
