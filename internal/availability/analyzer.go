package availability

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/finboard/internal/event"
	"github.com/Iron-Ham/finboard/internal/logging"
	"github.com/Iron-Ham/finboard/internal/symbol"
)

// DefaultMaxSuggestions caps the symbol suggestions of a recognition issue.
const DefaultMaxSuggestions = 5

// rateLimitIndicators are matched case-insensitively against the last error.
var rateLimitIndicators = []string{
	"429", "too many requests", "rate limit", "quota exceeded",
	"throttled", "rate exceeded", "limit reached",
}

// failureMarkers are the attempted-source entries that mean "nothing came back".
var failureMarkers = map[string]bool{
	"Failed":        true,
	"Error":         true,
	"Not available": true,
}

// domesticOnlySources only cover Indian instruments.
var domesticOnlySources = []string{"AMFI Direct", "mftool"}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithBus publishes an AvailabilityAnalyzedEvent for every explanation.
func WithBus(bus *event.Bus) Option {
	return func(a *Analyzer) {
		a.bus = bus
	}
}

// WithMaxSuggestions overrides DefaultMaxSuggestions. Values below 1 are ignored.
func WithMaxSuggestions(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxSuggestions = n
		}
	}
}

// Analyzer classifies data unavailability. It is safe for concurrent use.
type Analyzer struct {
	logger         *logging.Logger
	bus            *event.Bus
	maxSuggestions int
}

// New creates an Analyzer. A nil logger discards output.
func New(logger *logging.Logger, opts ...Option) *Analyzer {
	if logger == nil {
		logger = logging.NopLogger()
	}
	a := &Analyzer{
		logger:         logger.WithComponent("availability"),
		maxSuggestions: DefaultMaxSuggestions,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attempt describes what happened when data was last requested.
type Attempt struct {
	SourcesAttempted    []string
	LastError           string
	LastSuccessfulFetch string
	NetworkAvailable    bool
}

// AnalyzeOption fills in an Attempt.
type AnalyzeOption func(*Attempt)

// WithSourcesAttempted records the sources that were tried, or the literal
// markers "Failed", "Error" and "Not available" for sources that returned
// nothing.
func WithSourcesAttempted(sources ...string) AnalyzeOption {
	return func(at *Attempt) {
		at.SourcesAttempted = append(at.SourcesAttempted, sources...)
	}
}

// WithLastError records the text of the last fetch error.
func WithLastError(msg string) AnalyzeOption {
	return func(at *Attempt) {
		at.LastError = msg
	}
}

// WithLastSuccessfulFetch records when data was last fetched successfully.
func WithLastSuccessfulFetch(ts string) AnalyzeOption {
	return func(at *Attempt) {
		at.LastSuccessfulFetch = ts
	}
}

// WithNetworkAvailable records the network state. The default is available.
func WithNetworkAvailable(ok bool) AnalyzeOption {
	return func(at *Attempt) {
		at.NetworkAvailable = ok
	}
}

// Analyze explains why category data for sym is unavailable. Checks run in
// priority order and the first match wins:
//
//  1. the category does not apply to the symbol type
//  2. the network is down
//  3. the last error looks like rate limiting
//  4. the symbol type is unknown
//  5. every attempted source failed
//  6. an international symbol was sent to a domestic-only source
//  7. otherwise the cause is unknown
func (a *Analyzer) Analyze(sym string, t symbol.Type, category Category, opts ...AnalyzeOption) Info {
	at := Attempt{NetworkAvailable: true}
	for _, opt := range opts {
		opt(&at)
	}

	var info Info
	switch {
	case !IsCategorySupported(t, category):
		info = incompatibleInfo(t, category)
	case !at.NetworkAvailable:
		info = networkIssueInfo(at.LastSuccessfulFetch)
	case isRateLimited(at.LastError):
		info = rateLimitedInfo(at.SourcesAttempted)
	case t == symbol.Unknown:
		info = unrecognizedInfo(sym, generateSuggestions(sym, a.maxSuggestions))
	case len(at.SourcesAttempted) > 0 && !hasSuccessfulSource(at.SourcesAttempted):
		info = sourceLimitationInfo(t, category, at.SourcesAttempted)
	case isRegionalRestriction(t, at.SourcesAttempted):
		info = regionalRestrictionInfo(t)
	default:
		info = unknownIssueInfo(category, at.LastError, at.SourcesAttempted)
	}

	a.logger.WithSymbol(sym).Debug("data unavailability analyzed",
		"category", category.String(),
		"symbol_type", t.String(),
		"reason", info.Reason.Code(),
		"severity", info.Severity.String())
	if a.bus != nil {
		a.bus.Publish(event.NewAvailabilityAnalyzedEvent(sym, category.String(), info.Reason.Code(), info.Severity.String()))
	}
	return info
}

func isRateLimited(lastError string) bool {
	if lastError == "" {
		return false
	}
	lower := strings.ToLower(lastError)
	for _, indicator := range rateLimitIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

func hasSuccessfulSource(sources []string) bool {
	for _, s := range sources {
		if !failureMarkers[s] {
			return true
		}
	}
	return false
}

func isRegionalRestriction(t symbol.Type, sources []string) bool {
	if t != symbol.InternationalStock && t != symbol.InternationalETF {
		return false
	}
	for _, s := range sources {
		for _, domestic := range domesticOnlySources {
			if s == domestic {
				return true
			}
		}
	}
	return false
}

// typeLabel is the lower-case type name used inside sentences.
func typeLabel(t symbol.Type) string {
	return strings.ToLower(t.DisplayName())
}

func incompatibleInfo(t symbol.Type, category Category) Info {
	label := typeLabel(t)
	name := category.DisplayName()

	var description string
	switch category {
	case CategoryFinancial:
		description = fmt.Sprintf("Financial data (revenue, profit, debt ratios) is not applicable for %ss - only available for individual stocks", label)
	case CategoryPortfolio:
		description = fmt.Sprintf("Portfolio composition data is not applicable for %ss - only available for individual stocks", label)
	case CategoryDividend:
		description = fmt.Sprintf("Dividend data is not applicable for %ss - mutual funds typically reinvest dividends automatically", label)
	case CategoryRegulatory:
		description = fmt.Sprintf("Regulatory filing data is not available for %ss in our current data sources", label)
	case CategoryFees:
		description = fmt.Sprintf("Fee and expense ratio data is not applicable for %ss - only available for mutual funds and ETFs", label)
	default:
		description = fmt.Sprintf("%s data is not supported for %ss", name, label)
	}

	var expected string
	if types := SupportingTypes(category); len(types) > 0 {
		names := make([]string, len(types))
		for i, st := range types {
			names[i] = st.DisplayName()
		}
		expected = "This data type is typically available for: " + strings.Join(names, ", ")
	}

	return Info{
		Reason:      ReasonSymbolTypeIncompatible,
		Severity:    SeverityInfo,
		Title:       name + " Not Applicable",
		Description: description,
		Icon:        "ℹ️",
		Guidance: []string{
			fmt.Sprintf("This is expected behavior for %ss", label),
			"Consider looking at other available data categories",
			"For financial analysis, try individual stock symbols instead",
		},
		ExpectedAvailability: expected,
	}
}

func networkIssueInfo(lastSuccessfulFetch string) Info {
	return Info{
		Reason:      ReasonNetworkIssue,
		Severity:    SeverityWarning,
		Title:       "Network Connectivity Issue",
		Description: "Unable to fetch data due to network connectivity issues. The application cannot reach the data sources.",
		Icon:        "⚠️",
		Guidance: []string{
			"Check your internet connection",
			"Try refreshing the data in a few moments",
			"Check if firewall is blocking the application",
			"Consider using a VPN if corporate firewall is restrictive",
		},
		AlternativeSources:   []string{"Cached data (if available)"},
		RetrySuggestion:      "Click 'Refresh Data' to retry fetching when network is restored",
		ExpectedAvailability: "Data should be available when network connectivity is restored",
		LastSuccessfulFetch:  lastSuccessfulFetch,
	}
}

func rateLimitedInfo(sources []string) Info {
	return Info{
		Reason:      ReasonRateLimiting,
		Severity:    SeverityWarning,
		Title:       "Data Source Rate Limited",
		Description: "Data source temporarily unavailable due to rate limiting. Too many requests have been made in a short period.",
		Icon:        "🚦",
		Guidance: []string{
			"Wait a few minutes before trying again",
			"Rate limits typically reset within 1-5 minutes",
			"Avoid rapid successive refresh attempts",
		},
		AlternativeSources:   []string{"Cached data (if available)"},
		RetrySuggestion:      "Wait 2-3 minutes, then click 'Refresh Data' to retry",
		ExpectedAvailability: "Data should be available after rate limit period expires",
		SourcesAttempted:     sources,
	}
}

func unrecognizedInfo(sym string, suggestions []string) Info {
	return Info{
		Reason:      ReasonSymbolRecognition,
		Severity:    SeverityError,
		Title:       "Symbol Not Recognized",
		Description: fmt.Sprintf("The symbol '%s' format is not recognized by any of our data sources. This might be due to incorrect symbol format or unsupported symbol type.", sym),
		Icon:        "❌",
		Guidance: []string{
			"Verify the symbol format is correct",
			"Try alternative symbol formats (see suggestions below)",
			"For Indian stocks, ensure .NS or .BO suffix is included",
			"For mutual funds, try using AMFI scheme code instead",
		},
		AlternativeSources: []string{
			"AMFI Direct (for Indian mutual funds)",
			"Yahoo Finance (for stocks with proper suffixes)",
			"Manual search by fund/company name",
		},
		RetrySuggestion:      "Try one of the suggested symbol formats below",
		ExpectedAvailability: "Data should be available with correct symbol format",
		SymbolSuggestions:    suggestions,
	}
}

func sourceLimitationInfo(t symbol.Type, category Category, sources []string) Info {
	label := typeLabel(t)
	name := category.DisplayName()
	primary := PrimarySource(t)

	return Info{
		Reason:   ReasonDataSourceLimitation,
		Severity: SeverityWarning,
		Title:    name + " Not Available from Data Sources",
		Description: fmt.Sprintf("%s does not provide %s data for this %s symbol. This data category may not be available from our current data sources.",
			primary, strings.ToLower(name), label),
		Icon: "📊",
		Guidance: []string{
			"Try alternative data sources if available",
			fmt.Sprintf("Check if symbol format is correct for %s", primary),
			"Some data may only be available for premium symbols",
			"Consider checking the company's official website",
		},
		AlternativeSources:   AlternativeSources(t, category),
		RetrySuggestion:      "Try 'Refresh Data' in case of temporary data source issues",
		ExpectedAvailability: fmt.Sprintf("This data type may be limited for %ss", label),
		SourcesAttempted:     sources,
	}
}

func regionalRestrictionInfo(t symbol.Type) Info {
	return Info{
		Reason:      ReasonRegionalRestriction,
		Severity:    SeverityWarning,
		Title:       "Regional Data Restriction",
		Description: fmt.Sprintf("This %s symbol may not be supported by Indian data sources due to regional restrictions or limited international coverage.", typeLabel(t)),
		Icon:        "🌍",
		Guidance: []string{
			"International symbols have limited support in Indian data sources",
			"Try using Yahoo Finance format for international symbols",
			"Consider using international financial platforms",
			"Verify the symbol is actively traded",
		},
		AlternativeSources: []string{
			"Yahoo Finance (for international symbols)",
			"International financial data providers",
			"Company's official investor relations page",
		},
		RetrySuggestion:      "Try with proper international symbol format",
		ExpectedAvailability: "Limited availability for international symbols in Indian data sources",
	}
}

func unknownIssueInfo(category Category, lastError string, sources []string) Info {
	name := category.DisplayName()

	var errorContext string
	if lastError != "" {
		errorContext = " Error details: " + lastError
	}

	return Info{
		Reason:      ReasonUnknown,
		Severity:    SeverityError,
		Title:       name + " Data Unavailable",
		Description: fmt.Sprintf("Unable to fetch %s data for this symbol. The specific cause is unclear.%s", strings.ToLower(name), errorContext),
		Icon:        "❓",
		Guidance: []string{
			"Try refreshing the data",
			"Check if the symbol is correct",
			"Verify the symbol is actively traded",
			"Try again in a few minutes",
		},
		AlternativeSources: []string{
			"Manual search on financial websites",
			"Company's official website",
			"Alternative financial data platforms",
		},
		RetrySuggestion:      "Click 'Refresh Data' to retry fetching",
		ExpectedAvailability: "Data availability depends on symbol and data source support",
		SourcesAttempted:     sources,
	}
}
