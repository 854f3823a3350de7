// Package symbol classifies security symbols and maps them to the data
// sources able to serve them.
package symbol

import (
	"strings"

	"github.com/Iron-Ham/finboard/internal/errors"
	"github.com/Iron-Ham/finboard/internal/util"
)

// Type is the instrument class of a symbol.
type Type string

const (
	IndianStock             Type = "indian_stock"
	IndianMutualFund        Type = "indian_mutual_fund"
	IndianETF               Type = "indian_etf"
	InternationalStock      Type = "international_stock"
	InternationalETF        Type = "international_etf"
	InternationalMutualFund Type = "international_mutual_fund"
	Unknown                 Type = "unknown"
)

// AllTypes returns every Type in display order.
func AllTypes() []Type {
	return []Type{
		IndianStock,
		IndianMutualFund,
		IndianETF,
		InternationalStock,
		InternationalETF,
		InternationalMutualFund,
		Unknown,
	}
}

// String returns the type's identifier.
func (t Type) String() string {
	return string(t)
}

// DisplayName returns the humanized type, e.g. "Indian Mutual Fund".
func (t Type) DisplayName() string {
	return util.Humanize(string(t))
}

// ParseType accepts a type identifier in any case, with '-' or ' ' in place
// of '_'.
func ParseType(s string) (Type, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	for _, t := range AllTypes() {
		if string(t) == key {
			return t, nil
		}
	}
	return "", errors.NewValidationError("unknown symbol type").WithField("type").WithValue(s)
}

// DataSource is a provider of market data.
type DataSource string

const (
	YahooFinance  DataSource = "yahoo_finance"
	AMFIDirect    DataSource = "amfi_direct"
	MFTool        DataSource = "mftool"
	UnknownSource DataSource = "unknown"
)

// DisplayName returns the source name as shown to users.
func (d DataSource) DisplayName() string {
	switch d {
	case YahooFinance:
		return "Yahoo Finance"
	case AMFIDirect:
		return "AMFI Direct"
	case MFTool:
		return "mftool"
	default:
		return "Unknown"
	}
}

// Info describes a recognized symbol.
type Info struct {
	Original        string         `yaml:"original"`
	Normalized      string         `yaml:"normalized"`
	Type            Type           `yaml:"type"`
	PrimarySource   DataSource     `yaml:"primary_source"`
	FallbackSources []DataSource   `yaml:"fallback_sources,omitempty"`
	Exchange        string         `yaml:"exchange,omitempty"`
	Country         string         `yaml:"country,omitempty"`
	Confidence      float64        `yaml:"confidence"`
	Metadata        map[string]any `yaml:"metadata,omitempty"`
}
