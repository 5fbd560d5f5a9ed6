// Package export serializes analytics results for external consumption.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"taskpulse/internal/domain/entities"
)

// analyticsDocument is the stable export envelope. Field names are part
// of the export contract and must not change.
type analyticsDocument struct {
	ExportDate string                     `json:"export_date"`
	Period     entities.Period            `json:"period"`
	Overview   entities.OverviewStats     `json:"overview"`
	Categories []entities.CategoryStats   `json:"categories"`
	Insights   entities.AnalyticsInsights `json:"insights"`
}

// JSONExporter renders analytics data as an indented JSON document
type JSONExporter struct {
	logger *slog.Logger
}

// NewJSONExporter creates a JSON exporter
func NewJSONExporter(logger *slog.Logger) *JSONExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONExporter{logger: logger}
}

// Export serializes the analytics data with an export timestamp
func (e *JSONExporter) Export(data *entities.AnalyticsData, now time.Time) (string, error) {
	doc := analyticsDocument{
		ExportDate: now.UTC().Format(time.RFC3339),
		Period:     data.Period,
		Overview:   data.Overview,
		Categories: data.Categories,
		Insights:   data.Insights,
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal analytics export: %w", err)
	}

	e.logger.Debug("analytics serialized",
		slog.String("period", string(data.Period)),
		slog.Int("bytes", len(out)))

	return string(out), nil
}
