package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/tokenstats/internal/types"
)

// ExportFormat represents the export file format
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatJSON ExportFormat = "json"
)

// Scope selects which part of the holder table is exported
type Scope string

const (
	ScopeAll     Scope = "all"
	ScopeSpecial Scope = "special"
	ScopeRegular Scope = "regular"
)

// ExportOptions configures the export behavior
type ExportOptions struct {
	Format     ExportFormat
	Scope      Scope
	MinPercent float64 // Skip holders below this share of supply
	OnlyFrozen bool    // Only export holders with a frozen account
	OutputDir  string
}

// Validate rejects unknown formats and scopes
func (o ExportOptions) Validate() error {
	switch o.Format {
	case FormatCSV, FormatJSON:
	default:
		return fmt.Errorf("unsupported format: %s", o.Format)
	}
	switch o.Scope {
	case "", ScopeAll, ScopeSpecial, ScopeRegular:
	default:
		return fmt.Errorf("unsupported scope: %s", o.Scope)
	}
	if o.MinPercent < 0 || o.MinPercent > 100 {
		return fmt.Errorf("min percent out of range: %v", o.MinPercent)
	}
	return nil
}

// HolderExporter handles holder table export functionality
type HolderExporter struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewHolderExporter creates a new holder exporter
func NewHolderExporter(logger *zap.Logger) *HolderExporter {
	return &HolderExporter{
		logger: logger.Named("export"),
		now:    time.Now,
	}
}

// ExportHolders writes the holders selected by options and returns the file path
func (he *HolderExporter) ExportHolders(table *types.HolderTable, options ExportOptions) (string, error) {
	if table == nil {
		return "", fmt.Errorf("no holder table to export")
	}

	filtered := he.filterHolders(table, options)
	if len(filtered) == 0 {
		return "", fmt.Errorf("no holders match the export criteria")
	}

	filename := he.generateFilename(options)
	outputPath := filepath.Join(options.OutputDir, filename)

	if err := os.MkdirAll(options.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var err error
	switch options.Format {
	case FormatCSV:
		err = he.exportToCSV(filtered, outputPath)
	case FormatJSON:
		err = he.exportToJSON(table, filtered, outputPath)
	default:
		err = fmt.Errorf("unsupported format: %s", options.Format)
	}
	if err != nil {
		return "", err
	}

	he.logger.Info("Holders exported",
		zap.String("file", outputPath),
		zap.Int("count", len(filtered)),
		zap.String("format", string(options.Format)))

	return outputPath, nil
}

// rankedHolder is a holder with its position in the exported view
type rankedHolder struct {
	Rank int `json:"rank"`
	types.HolderSummary
}

// filterHolders applies scope and filters, keeping table order
func (he *HolderExporter) filterHolders(table *types.HolderTable, options ExportOptions) []rankedHolder {
	var source []types.HolderSummary
	switch options.Scope {
	case ScopeSpecial:
		source = table.Special
	case ScopeRegular:
		source = table.Regular
	default:
		source = table.Holders
	}

	var filtered []rankedHolder
	for i, h := range source {
		if options.MinPercent > 0 && h.PercentOfSupply < options.MinPercent {
			continue
		}
		if options.OnlyFrozen && !h.Frozen {
			continue
		}
		filtered = append(filtered, rankedHolder{Rank: i + 1, HolderSummary: h})
	}
	return filtered
}

// generateFilename creates a filename based on export options
func (he *HolderExporter) generateFilename(options ExportOptions) string {
	timestamp := he.now().Format("20060102_150405")

	scope := options.Scope
	if scope == "" {
		scope = ScopeAll
	}
	prefix := "holders_" + string(scope)
	if options.OnlyFrozen {
		prefix += "_frozen"
	}

	return fmt.Sprintf("%s_%s.%s", prefix, timestamp, options.Format)
}

// CSVHeaders returns the column names of a holder CSV export
func CSVHeaders() []string {
	return []string{"rank", "owner", "role", "balance", "accounts", "frozen", "percent_of_supply", "value_usd"}
}

func toCSV(h rankedHolder) []string {
	value := ""
	if h.PriceKnown {
		value = strconv.FormatFloat(h.ValueUSD, 'f', 2, 64)
	}
	return []string{
		strconv.Itoa(h.Rank),
		h.Owner,
		string(h.Role),
		h.Balance.String(),
		strconv.Itoa(h.Accounts),
		strconv.FormatBool(h.Frozen),
		strconv.FormatFloat(h.PercentOfSupply, 'f', 6, 64),
		value,
	}
}

// exportToCSV exports holders to CSV format
func (he *HolderExporter) exportToCSV(holders []rankedHolder, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write(CSVHeaders()); err != nil {
		return fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, h := range holders {
		if err := writer.Write(toCSV(h)); err != nil {
			return fmt.Errorf("failed to write holder: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// exportToJSON exports holders to JSON format with a summary
func (he *HolderExporter) exportToJSON(table *types.HolderTable, holders []rankedHolder, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	exportData := struct {
		ExportTime  time.Time      `json:"export_time"`
		HolderCount int            `json:"holder_count"`
		Holders     []rankedHolder `json:"holders"`
		Summary     ExportSummary  `json:"summary"`
	}{
		ExportTime:  he.now(),
		HolderCount: len(holders),
		Holders:     holders,
		Summary:     CalculateSummary(table),
	}

	if err := encoder.Encode(exportData); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportSummary contains summary statistics for an exported holder table
type ExportSummary struct {
	Holders        string    `json:"holders"`
	Complete       bool      `json:"complete"`
	PriceKnown     bool      `json:"price_known"`
	AccountsSeen   int       `json:"accounts_seen"`
	PagesFetched   int       `json:"pages_fetched"`
	FrozenHolders  int       `json:"frozen_holders"`
	MultiAccount   int       `json:"multi_account_holders"`
	SpecialPercent float64   `json:"special_percent"`
	Top10Percent   float64   `json:"top10_percent"`
	TotalValueUSD  *float64  `json:"total_value_usd"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// CalculateSummary calculates summary statistics for a holder table
func CalculateSummary(table *types.HolderTable) ExportSummary {
	summary := ExportSummary{
		Holders:      table.Count.String(),
		Complete:     table.Complete,
		PriceKnown:   table.PriceKnown,
		AccountsSeen: table.AccountsSeen,
		PagesFetched: table.PagesFetched,
		FetchedAt:    table.FetchedAt,
	}

	var total float64
	for _, h := range table.Holders {
		if h.Frozen {
			summary.FrozenHolders++
		}
		if h.Accounts > 1 {
			summary.MultiAccount++
		}
		total += h.ValueUSD
	}
	for _, h := range table.Special {
		summary.SpecialPercent += h.PercentOfSupply
	}
	for i, h := range table.Regular {
		if i == 10 {
			break
		}
		summary.Top10Percent += h.PercentOfSupply
	}
	if table.PriceKnown {
		summary.TotalValueUSD = &total
	}
	return summary
}

// DistributionReport groups holders into balance tiers
type DistributionReport struct {
	Date       time.Time              `json:"date"`
	Statistics *types.TokenStatistics `json:"statistics,omitempty"`
	Summary    ExportSummary          `json:"summary"`
	Tiers      []TierStats            `json:"tiers"`
}

// TierStats represents the holders whose balance falls in one tier
type TierStats struct {
	Label      string  `json:"label"`
	MinBalance float64 `json:"min_balance"`
	Holders    int     `json:"holders"`
	Percent    float64 `json:"percent"`
}

var tiers = []struct {
	label string
	min   float64
}{
	{"whale", 10_000_000},
	{"shark", 1_000_000},
	{"dolphin", 100_000},
	{"fish", 10_000},
	{"shrimp", 0},
}

// ExportDistribution writes a distribution report for the regular holders
func (he *HolderExporter) ExportDistribution(stats *types.TokenStatistics, table *types.HolderTable, outputDir string) (string, error) {
	if table == nil {
		return "", fmt.Errorf("no holder table to export")
	}

	date := he.now()
	filename := fmt.Sprintf("distribution_%s.json", date.Format("20060102_150405"))
	outputPath := filepath.Join(outputDir, filename)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	report := DistributionReport{
		Date:       date,
		Statistics: stats,
		Summary:    CalculateSummary(table),
		Tiers:      CalculateTiers(table.Regular),
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	he.logger.Info("Distribution report exported",
		zap.String("file", outputPath),
		zap.Int("holders", len(table.Regular)))

	return outputPath, nil
}

// CalculateTiers buckets holders by balance, largest tier first
func CalculateTiers(holders []types.HolderSummary) []TierStats {
	out := make([]TierStats, len(tiers))
	for i, t := range tiers {
		out[i] = TierStats{Label: t.label, MinBalance: t.min}
	}
	for _, h := range holders {
		balance := h.BalanceFloat()
		for i, t := range tiers {
			if balance >= t.min {
				out[i].Holders++
				out[i].Percent += h.PercentOfSupply
				break
			}
		}
	}
	return out
}
