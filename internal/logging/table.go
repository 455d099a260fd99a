// Package logging generates run reports for corpus mixing runs.
// This file contains reusable table formatting infrastructure for aligned
// multi-column metric tables.

package logging

import (
	"fmt"
	"math"
	"strings"
)

// MetricRow represents a single row in a metric table.
// Values are pre-formatted strings to allow mixed formatting per column.
type MetricRow struct {
	Label          string   // Row label, e.g., "clean01.wav"
	Values         []string // One value per column
	Unit           string   // Unit suffix, e.g., "dB", "%", "" for unitless
	Interpretation string   // Optional interpretation text (only shown if non-empty)
}

// MetricTable formats aligned columns for metric display.
// Handles variable column widths, missing values, and an optional
// interpretation column.
type MetricTable struct {
	Headers []string
	Rows    []MetricRow
}

// NewMetricTable creates a table with the given column headers.
func NewMetricTable(headers ...string) *MetricTable {
	return &MetricTable{
		Headers: headers,
		Rows:    make([]MetricRow, 0),
	}
}

// AddRow adds a row with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         values,
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// String renders the table with aligned columns.
// Labels are left-aligned, values right-aligned within their column,
// units appended after the last value column, and the interpretation
// column only shown if any row has one.
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	hasInterpretation := false
	for _, row := range t.Rows {
		if row.Interpretation != "" {
			hasInterpretation = true
			break
		}
	}

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header)
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	unitWidth := 0
	for _, row := range t.Rows {
		if len(row.Unit) > unitWidth {
			unitWidth = len(row.Unit)
		}
	}

	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2))
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	if unitWidth > 0 {
		sb.WriteString(strings.Repeat(" ", unitWidth+1))
	}
	if hasInterpretation {
		sb.WriteString("Interpretation")
	}
	sb.WriteString("\n")

	// Data rows
	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		if unitWidth > 0 {
			sb.WriteString(fmt.Sprintf("%-*s ", unitWidth, row.Unit))
		}

		if hasInterpretation {
			sb.WriteString(row.Interpretation)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// MissingValue is the placeholder for unavailable measurements
const MissingValue = "-"

// DigitalSilenceThreshold is the dBFS level below which we consider the
// signal to be digital silence. The estimator reports -Inf for true
// digital zero; anything below -120 dBFS is effectively silent.
const DigitalSilenceThreshold = -120.0

// isDigitalSilence returns true if the value represents digital silence
// (true zero or below threshold).
func isDigitalSilence(value float64) bool {
	return math.IsInf(value, -1) || value <= DigitalSilenceThreshold
}

// formatMetric formats a numeric value with the given precision.
// Very small non-zero values use scientific notation; NaN/Inf become
// MissingValue.
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}

	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricDB formats a dB value with special handling for digital
// silence. Shows "< -120" for values at or below the measurement floor.
func formatMetricDB(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 1) {
		return MissingValue
	}
	if isDigitalSilence(value) {
		return "< -120"
	}
	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricSigned formats a value with explicit sign for positive
// values, for showing gain changes like "+2.5" or "-1.2".
func formatMetricSigned(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	format := fmt.Sprintf("%%+.%df", decimals)
	return fmt.Sprintf(format, value)
}

// formatMetricPercent formats a 0..1 fraction as a percentage.
func formatMetricPercent(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	format := fmt.Sprintf("%%.%df", decimals)
	return fmt.Sprintf(format, value*100)
}
