package symbol

import (
	"regexp"
	"strings"

	"github.com/Iron-Ham/finboard/internal/logging"
	"github.com/Iron-Ham/finboard/internal/util"
)

var (
	amfiCodePattern    = regexp.MustCompile(`^[0-9]{6}$`)
	yahooFundIDPattern = regexp.MustCompile(`^0P[0-9A-Z]{8}\.(BO|NS)$`)

	mutualFundPatterns = []*regexp.Regexp{
		amfiCodePattern,
		yahooFundIDPattern,
		regexp.MustCompile(`^[A-Z0-9_\-\s]+FUND`),
		regexp.MustCompile(`^[A-Z0-9_\-\s]+MF`),
		regexp.MustCompile(`^HDFC[A-Z0-9_\-\s]*`),
		regexp.MustCompile(`^ICICI[A-Z0-9_\-\s]*`),
		regexp.MustCompile(`^SBI[A-Z0-9_\-\s]*`),
		regexp.MustCompile(`^AXIS[A-Z0-9_\-\s]*`),
		regexp.MustCompile(`^KOTAK[A-Z0-9_\-\s]*`),
	}

	indianStockPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z0-9&]+\.(NS|NSE)$`),
		regexp.MustCompile(`^[A-Z0-9&]+\.(BO|BSE)$`),
		regexp.MustCompile(`^[A-Z0-9&]+$`),
	}

	indianETFPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[A-Z]*BEES\.(NS|BO)$`),
		regexp.MustCompile(`^[A-Z]*ETF\.(NS|BO)$`),
		regexp.MustCompile(`^LIQUID[A-Z]*\.(NS|BO)$`),
	}

	usTickerPattern       = regexp.MustCompile(`^[A-Z]{1,5}$`)
	exchangeSymbolPattern = regexp.MustCompile(`^[A-Z]+\.[A-Z]{1,3}$`)

	invalidSymbolChars = regexp.MustCompile(`[^\w.\-]`)
)

// amcPrefixes are the asset management companies whose names start fund symbols.
var amcPrefixes = []string{
	"HDFC", "ICICI", "SBI", "AXIS", "KOTAK", "RELIANCE", "BIRLA", "FRANKLIN",
	"DSP", "INVESCO", "NIPPON", "UTI", "TATA", "MIRAE", "CANARA", "UNION",
	"MAHINDRA", "PRINCIPAL", "QUANTUM", "SUNDARAM", "EDELWEISS", "BARODA",
}

var fundKeywords = []string{"FUND", "MF", "MUTUAL", "SCHEME"}

var etfIndicators = []string{"ETF", "SPDR", "ISHARES", "VANGUARD", "QQQ", "SPY", "IVV", "VTI"}

var internationalExchanges = map[string]bool{
	"NASDAQ": true, "NYSE": true, "LSE": true, "TSE": true, "ASX": true,
	"HKEX": true, "SSE": true, "SZSE": true,
	"AS": true, "PA": true, "DE": true, "L": true, "T": true,
	"AX": true, "HK": true, "SS": true, "SZ": true,
}

var exchangeCountries = map[string]string{
	"AS": "NL",
	"PA": "FR",
	"DE": "DE",
	"L":  "GB",
	"T":  "JP",
	"AX": "AU",
	"HK": "HK",
	"SS": "CN",
	"SZ": "CN",
}

// DefaultCountry is the country assumed when recognition cannot tell.
const DefaultCountry = "IN"

// Recognizer classifies symbols. It holds no mutable state and is safe for
// concurrent use.
type Recognizer struct {
	logger *logging.Logger
}

// NewRecognizer creates a Recognizer. A nil logger discards output.
func NewRecognizer(logger *logging.Logger) *Recognizer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Recognizer{logger: logger.WithComponent("symbol")}
}

// Normalize trims and upper-cases symbol, turns spaces into underscores and
// drops every character other than letters, digits, '_', '.' and '-'.
func Normalize(symbol string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	s = strings.ReplaceAll(s, " ", "_")
	return invalidSymbolChars.ReplaceAllString(s, "")
}

// Recognize classifies symbol. Strategies are tried in a fixed order (Indian
// mutual fund, Indian ETF, Indian stock, international stock, international
// ETF) and the first match wins; anything left is Unknown.
//
// Bare alphanumeric symbols such as "INFY" or "AAPL" classify as Indian
// stocks, since the dashboard's home market is India.
func (r *Recognizer) Recognize(symbol string) Info {
	original := strings.TrimSpace(symbol)
	normalized := Normalize(original)

	strategies := []func(string, string) (Info, bool){
		recognizeMutualFund,
		recognizeIndianETF,
		recognizeIndianStock,
		recognizeInternationalStock,
		recognizeInternationalETF,
	}

	info := unknownInfo(original, normalized)
	for _, recognize := range strategies {
		if found, ok := recognize(original, normalized); ok {
			info = found
			break
		}
	}

	r.logger.WithSymbol(original).Debug("symbol recognized",
		"type", info.Type.String(),
		"confidence", info.Confidence)
	return info
}

func recognizeMutualFund(original, normalized string) (Info, bool) {
	info := Info{
		Original:        original,
		Normalized:      normalized,
		Type:            IndianMutualFund,
		PrimarySource:   AMFIDirect,
		FallbackSources: []DataSource{MFTool, YahooFinance},
		Country:         DefaultCountry,
	}

	isYahooID := yahooFundIDPattern.MatchString(normalized)
	isAMFICode := amfiCodePattern.MatchString(normalized)
	if !isYahooID && hasListingSuffix(normalized) {
		// An exchange listing is a stock or ETF even when it carries a fund
		// house's name, e.g. HDFCBANK.NS.
		return Info{}, false
	}

	switch {
	case isYahooID:
		info.Confidence = 0.95
		info.PrimarySource = YahooFinance
		info.FallbackSources = []DataSource{AMFIDirect, MFTool}
	case isAMFICode:
		info.Confidence = 0.95
	case matchesAny(mutualFundPatterns, normalized):
		info.Confidence = 0.8
	case hasAnyPrefix(normalized, amcPrefixes):
		info.Confidence = 0.7
	case containsAny(normalized, fundKeywords):
		info.Confidence = 0.6
	default:
		return Info{}, false
	}

	info.Metadata = map[string]any{
		"is_amfi_code":   isAMFICode,
		"is_yahoo_mf_id": isYahooID,
	}
	if isYahooID {
		info.Metadata["yahoo_symbol"] = normalized
	}
	return info, true
}

func recognizeIndianStock(original, normalized string) (Info, bool) {
	if !matchesAny(indianStockPatterns, normalized) {
		return Info{}, false
	}

	var exchange string
	switch {
	case strings.Contains(normalized, ".NS"):
		exchange = "NSE"
	case strings.Contains(normalized, ".BO"), strings.Contains(normalized, ".BSE"):
		exchange = "BSE"
	}

	yahoo := yahooSymbol(normalized)
	confidence := 0.7
	if exchange != "" {
		confidence = 0.9
	}
	return Info{
		Original:      original,
		Normalized:    yahoo,
		Type:          IndianStock,
		PrimarySource: YahooFinance,
		Exchange:      exchange,
		Country:       DefaultCountry,
		Confidence:    confidence,
		Metadata:      map[string]any{"yahoo_symbol": yahoo},
	}, true
}

func recognizeIndianETF(original, normalized string) (Info, bool) {
	if !matchesAny(indianETFPatterns, normalized) {
		return Info{}, false
	}
	yahoo := yahooSymbol(normalized)
	return Info{
		Original:      original,
		Normalized:    yahoo,
		Type:          IndianETF,
		PrimarySource: YahooFinance,
		Exchange:      "NSE",
		Country:       DefaultCountry,
		Confidence:    0.95,
		Metadata:      map[string]any{"yahoo_symbol": yahoo},
	}, true
}

func recognizeInternationalStock(original, normalized string) (Info, bool) {
	if usTickerPattern.MatchString(normalized) {
		return Info{
			Original:      original,
			Normalized:    normalized,
			Type:          InternationalStock,
			PrimarySource: YahooFinance,
			Country:       "US",
			Confidence:    0.8,
			Metadata:      map[string]any{"market": "US"},
		}, true
	}

	if !exchangeSymbolPattern.MatchString(normalized) {
		return Info{}, false
	}
	suffix := normalized[strings.LastIndex(normalized, ".")+1:]
	if !internationalExchanges[suffix] {
		return Info{}, false
	}
	country := countryForExchange(suffix)
	return Info{
		Original:      original,
		Normalized:    normalized,
		Type:          InternationalStock,
		PrimarySource: YahooFinance,
		Exchange:      suffix,
		Country:       country,
		Confidence:    0.9,
		Metadata:      map[string]any{"market": country},
	}, true
}

func recognizeInternationalETF(original, normalized string) (Info, bool) {
	if !containsAny(normalized, etfIndicators) {
		return Info{}, false
	}
	return Info{
		Original:      original,
		Normalized:    normalized,
		Type:          InternationalETF,
		PrimarySource: YahooFinance,
		Country:       "US",
		Confidence:    0.8,
		Metadata:      map[string]any{"market": "US"},
	}, true
}

func unknownInfo(original, normalized string) Info {
	return Info{
		Original:        original,
		Normalized:      normalized,
		Type:            Unknown,
		PrimarySource:   YahooFinance,
		FallbackSources: []DataSource{AMFIDirect, MFTool},
		Country:         DefaultCountry,
		Confidence:      0.1,
		Metadata:        map[string]any{"needs_manual_classification": true},
	}
}

// yahooSymbol returns the Yahoo Finance form of an Indian listing: .NSE and
// .BSE become .NS and .BO, and a bare symbol defaults to NSE.
func yahooSymbol(normalized string) string {
	switch {
	case strings.HasSuffix(normalized, ".NS"), strings.HasSuffix(normalized, ".BO"):
		return normalized
	case strings.HasSuffix(normalized, ".NSE"):
		return strings.TrimSuffix(normalized, ".NSE") + ".NS"
	case strings.HasSuffix(normalized, ".BSE"):
		return strings.TrimSuffix(normalized, ".BSE") + ".BO"
	default:
		return normalized + ".NS"
	}
}

var listingSuffixes = []string{".NS", ".BO", ".NSE", ".BSE"}

func hasListingSuffix(s string) bool {
	for _, suffix := range listingSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func countryForExchange(suffix string) string {
	if country, ok := exchangeCountries[suffix]; ok {
		return country
	}
	return "US"
}

// SourcePriority returns the primary source followed by the fallbacks,
// without repeats.
func SourcePriority(info Info) []DataSource {
	sources := append([]DataSource{info.PrimarySource}, info.FallbackSources...)
	return util.Unique(sources)
}

// MaxCorrections caps the number of suggestions SuggestCorrections returns.
const MaxCorrections = 5

// SuggestCorrections proposes exchange-suffixed spellings of symbol.
func SuggestCorrections(symbol string) []string {
	normalized := Normalize(symbol)

	var suggestions []string
	if !strings.HasSuffix(normalized, ".NS") && !strings.HasSuffix(normalized, ".BO") {
		suggestions = append(suggestions, normalized+".NS", normalized+".BO")
	}
	for _, suffix := range []string{".NSE", ".BSE", ".IN"} {
		if base, ok := strings.CutSuffix(normalized, suffix); ok {
			suggestions = append(suggestions, base+".NS", base+".BO")
		}
	}

	if len(suggestions) > MaxCorrections {
		suggestions = suggestions[:MaxCorrections]
	}
	return suggestions
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
