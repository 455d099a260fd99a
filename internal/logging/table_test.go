package logging

import (
	"math"
	"strings"
	"testing"
)

func TestFormatMetric(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"zero", 0.0, 2, "0.00"},
		{"positive", 3.14159, 2, "3.14"},
		{"negative", -16.5, 1, "-16.5"},
		{"large", 12345.6789, 2, "12345.68"},
		{"small_normal", 0.001, 3, "0.001"},
		{"very_small_scientific", 0.00001, 2, "1.00e-05"},
		{"very_small_negative", -0.00001, 2, "-1.00e-05"},
		{"nan", math.NaN(), 2, MissingValue},
		{"positive_inf", math.Inf(1), 2, MissingValue},
		{"negative_inf", math.Inf(-1), 2, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetric(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetric(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatMetricSigned(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"positive", 2.5, 1, "+2.5"},
		{"negative", -1.2, 1, "-1.2"},
		{"zero", 0.0, 1, "+0.0"},
		{"nan", math.NaN(), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricSigned(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetricSigned(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestFormatMetricPercent(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"full", 1.0, 1, "100.0"},
		{"typical_activity", 0.821, 1, "82.1"},
		{"zero", 0.0, 1, "0.0"},
		{"nan", math.NaN(), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricPercent(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetricPercent(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestIsDigitalSilence(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  bool
	}{
		{"negative_infinity", math.Inf(-1), true},
		{"below_threshold", -150.0, true},
		{"at_threshold", -120.0, true},
		{"just_above_threshold", -119.9, false},
		{"normal_value", -60.0, false},
		{"positive_infinity", math.Inf(1), false},
		{"nan", math.NaN(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isDigitalSilence(tt.value)
			if got != tt.want {
				t.Errorf("isDigitalSilence(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatMetricDB(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"normal_value", -50.0, 1, "-50.0"},
		{"digital_silence_inf", math.Inf(-1), 1, "< -120"},
		{"digital_silence_threshold", -120.0, 1, "< -120"},
		{"digital_silence_below", -150.0, 1, "< -120"},
		{"just_above_threshold", -119.9, 1, "-119.9"},
		{"nan", math.NaN(), 1, MissingValue},
		{"positive_inf", math.Inf(1), 1, MissingValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMetricDB(tt.value, tt.decimals)
			if got != tt.want {
				t.Errorf("formatMetricDB(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
			}
		})
	}
}

func TestMetricTableString(t *testing.T) {
	t.Run("basic_two_column", func(t *testing.T) {
		table := NewMetricTable("Level dB", "Activity %")
		table.AddRow("clean01.wav", []string{"-26.3", "82.1"}, "", "")
		table.AddRow("clean02.wav", []string{"-24.8", "75.5"}, "", "")

		output := table.String()

		if !strings.Contains(output, "Level dB") {
			t.Error("Output should contain 'Level dB' header")
		}
		if !strings.Contains(output, "Activity %") {
			t.Error("Output should contain 'Activity %' header")
		}
		if !strings.Contains(output, "clean01.wav") {
			t.Error("Output should contain row label")
		}
		if !strings.Contains(output, "-26.3") {
			t.Error("Output should contain value")
		}
	})

	t.Run("with_interpretation", func(t *testing.T) {
		table := NewMetricTable("Level dB", "Activity %")
		table.AddRow("clean01.wav", []string{"-26.3", "82.1"}, "", "typical read speech")

		output := table.String()

		if !strings.Contains(output, "Interpretation") {
			t.Error("Output should contain 'Interpretation' header when rows have interpretations")
		}
		if !strings.Contains(output, "typical read speech") {
			t.Error("Output should contain interpretation text")
		}
	})

	t.Run("missing_values", func(t *testing.T) {
		table := NewMetricTable("Level dB", "Activity %")
		table.AddRow("clean01.wav", []string{"-26.3", ""}, "", "")

		output := table.String()

		if !strings.Contains(output, " -  ") {
			t.Error("Missing values should display as dash")
		}
	})

	t.Run("empty_table", func(t *testing.T) {
		table := NewMetricTable("Level dB")
		output := table.String()

		if output != "" {
			t.Errorf("Empty table should return empty string, got %q", output)
		}
	})

	t.Run("unit_column", func(t *testing.T) {
		table := NewMetricTable("Gain min", "Gain max")
		table.AddRow("0 dB", []string{"0.1234", "0.5678"}, "lin", "")

		output := table.String()

		if !strings.Contains(output, "lin") {
			t.Error("Output should contain unit")
		}
	})
}

func TestMetricTableAlignment(t *testing.T) {
	table := NewMetricTable("Level dB", "Activity %")
	table.AddRow("s.wav", []string{"-1.0", "99.0"}, "", "")
	table.AddRow("much_longer_name.wav", []string{"-26.3", "82.1"}, "", "")

	output := table.String()
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	if len(lines) != 3 {
		t.Fatalf("Expected 3 lines (header + 2 data), got %d", len(lines))
	}

	// Both data rows pad the label to the widest label, so the value
	// columns start at the same offset.
	short := strings.Index(lines[1], "-1.0")
	long := strings.Index(lines[2], "-26.3")
	if short < 0 || long < 0 {
		t.Fatalf("values missing from data lines: %q / %q", lines[1], lines[2])
	}
	if short+len("-1.0") != long+len("-26.3") {
		t.Errorf("value columns misaligned: %q vs %q", lines[1], lines[2])
	}
}
