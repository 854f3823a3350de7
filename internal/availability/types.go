// Package availability explains why financial data for a security could not
// be fetched.
//
// An [Analyzer] maps a fetch attempt (symbol, symbol type, requested data
// category, attempted sources, last error, network state) to exactly one
// [Info] by running a fixed chain of checks; the first check that matches
// decides the [Reason]. The analyzer holds no mutable state.
package availability

import (
	"strings"

	"github.com/Iron-Ham/finboard/internal/util"
)

// Reason is the diagnosed cause of missing data.
type Reason string

const (
	ReasonSymbolTypeIncompatible Reason = "symbol_type_incompatible"
	ReasonDataSourceLimitation   Reason = "data_source_limitation"
	ReasonNetworkIssue           Reason = "network_issue"
	ReasonSymbolRecognition      Reason = "symbol_recognition_issue"
	ReasonRateLimiting           Reason = "rate_limiting"
	ReasonRegionalRestriction    Reason = "regional_restriction"
	ReasonAPIError               Reason = "api_error"
	ReasonTemporaryUnavailable   Reason = "temporary_unavailable"
	ReasonNotSupported           Reason = "not_supported"
	ReasonUnknown                Reason = "unknown"
)

// String returns the reason identifier.
func (r Reason) String() string {
	return string(r)
}

// Code returns the upper-case form used in logs and machine output,
// e.g. "RATE_LIMITING".
func (r Reason) Code() string {
	return strings.ToUpper(string(r))
}

// Severity grades how serious an unavailability is.
type Severity string

const (
	// SeverityInfo is an expected limitation, e.g. fees for a stock.
	SeverityInfo Severity = "info"
	// SeverityWarning is a likely temporary problem, e.g. the network.
	SeverityWarning Severity = "warning"
	// SeverityError needs user action, e.g. an unrecognized symbol.
	SeverityError Severity = "error"
)

// String returns the severity identifier.
func (s Severity) String() string {
	return string(s)
}

// Category is a class of financial data.
type Category string

const (
	CategoryRealTime    Category = "real_time"
	CategoryHistorical  Category = "historical"
	CategoryPerformance Category = "performance"
	CategoryFinancial   Category = "financial"
	CategoryPortfolio   Category = "portfolio"
	CategoryRegulatory  Category = "regulatory"
	CategoryDividend    Category = "dividend"
	CategoryFees        Category = "fees"
)

// AllCategories returns every known category in display order.
func AllCategories() []Category {
	return []Category{
		CategoryRealTime,
		CategoryHistorical,
		CategoryPerformance,
		CategoryFinancial,
		CategoryPortfolio,
		CategoryRegulatory,
		CategoryDividend,
		CategoryFees,
	}
}

// String returns the category identifier.
func (c Category) String() string {
	return string(c)
}

// DisplayName returns the humanized category, e.g. "Real Time".
func (c Category) DisplayName() string {
	return util.Humanize(string(c))
}

// ParseCategory normalizes user input ("Real-Time", "real time") to a
// Category. Unknown names are returned as-is; the analyzer treats them as
// unsupported rather than failing.
func ParseCategory(s string) Category {
	key := strings.ToLower(strings.TrimSpace(s))
	return Category(strings.NewReplacer("-", "_", " ", "_").Replace(key))
}

// Info is a single unavailability explanation. It is built fresh for every
// Analyze call.
type Info struct {
	Reason               Reason   `yaml:"reason"`
	Severity             Severity `yaml:"severity"`
	Title                string   `yaml:"title"`
	Description          string   `yaml:"description"`
	Icon                 string   `yaml:"icon"`
	Guidance             []string `yaml:"guidance"`
	AlternativeSources   []string `yaml:"alternative_sources,omitempty"`
	RetrySuggestion      string   `yaml:"retry_suggestion,omitempty"`
	ExpectedAvailability string   `yaml:"expected_availability,omitempty"`
	LastSuccessfulFetch  string   `yaml:"last_successful_fetch,omitempty"`
	SourcesAttempted     []string `yaml:"sources_attempted,omitempty"`
	SymbolSuggestions    []string `yaml:"symbol_suggestions,omitempty"`
}
