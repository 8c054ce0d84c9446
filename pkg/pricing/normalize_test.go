package pricing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{
			"server_class_name": "gp.vs1.medium-dfw",
			"category":          "General Purpose",
			"region":            "us-central-dfw-1",
			"market_price":      "$0.010000",
			"cpu":               "2",
			"memory":            "4GB",
		},
		{
			"server_class_name": "gp.vs2.medium-dfw2",
			"region":            "us-central-dfw-2",
			"market_price":      "$0.020000",
			"cpu":               "2",
			"memory":            "4GB",
		},
		{
			"server_class_name": "ch.vs2.large-iad2",
			"region":            "us-east-iad-2",
			"market_price":      "$0.030000",
			"cpu":               "4",
			"memory":            "8GB",
		},
		{
			"server_class_name": "mh.vs1.large-lon",
			"region":            "uk-lon-1",
			"market_price":      "$0.025000",
			"cpu":               "4",
			"memory":            "30GB",
		},
	}
}

func TestNormalizeSample(t *testing.T) {
	offerings, warnings, err := Normalize(sampleRecords())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, offerings, 4)

	first := offerings[0]
	assert.Equal(t, "gp.vs1.medium-dfw", first.Name)
	assert.Equal(t, "gp", first.ClassPrefix)
	assert.Equal(t, "us-central-dfw-1", first.Region)
	assert.Equal(t, 2, first.CPUCores)
	assert.InDelta(t, 4.0, first.RAMGB, 1e-9)
	assert.InDelta(t, 0.01, first.HourlyPrice, 1e-9)
	assert.Equal(t, 1, first.Generation)

	assert.Equal(t, 2, offerings[1].Generation)
	assert.InDelta(t, 0.02*HoursPerMonth, offerings[1].MonthlyPrice(), 1e-9)
}

func TestNormalizeFieldAliases(t *testing.T) {
	offerings, warnings, err := Normalize([]Record{
		{
			"name":     "gp.vs2.small-ord",
			"location": "US-Central-ORD-1",
			"price":    0.015,
			"vCPU":     4,
			"ram":      "8",
		},
	})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, offerings, 1)

	off := offerings[0]
	assert.Equal(t, "us-central-ord-1", off.Region)
	assert.Equal(t, 4, off.CPUCores)
	assert.InDelta(t, 8.0, off.RAMGB, 1e-9)
	assert.InDelta(t, 0.015, off.HourlyPrice, 1e-9)
	assert.Equal(t, 2, off.Generation)
}

func TestNormalizeExplicitGenerationWins(t *testing.T) {
	offerings, _, err := Normalize([]Record{
		{"name": "gp.bm.large", "price": "0.10", "cpu": "24", "memory": "64GB", "generation": 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, offerings[0].Generation)
}

func TestNormalizeDropsMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{
			name:   "missing name",
			record: Record{"price": "0.01", "cpu": "2", "memory": "4GB"},
			want:   "missing server class name",
		},
		{
			name:   "missing price",
			record: Record{"name": "gp.vs1.a", "cpu": "2", "memory": "4GB"},
			want:   "missing price",
		},
		{
			name:   "zero price",
			record: Record{"name": "gp.vs1.a", "price": "0", "cpu": "2", "memory": "4GB"},
			want:   "price must be positive",
		},
		{
			name:   "garbage memory",
			record: Record{"name": "gp.vs1.a", "price": "0.01", "cpu": "2", "memory": "lots"},
			want:   "unparseable memory",
		},
		{
			name:   "garbage cpu",
			record: Record{"name": "gp.vs1.a", "price": "0.01", "cpu": "two", "memory": "4GB"},
			want:   "unparseable cpu",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := append(sampleRecords(), tt.record)
			offerings, warnings, err := Normalize(records)
			require.NoError(t, err)
			assert.Len(t, offerings, 4, "malformed record must be dropped")
			require.Len(t, warnings, 1)
			assert.True(t, strings.Contains(warnings[0], tt.want),
				"warning %q should mention %q", warnings[0], tt.want)
		})
	}
}

func TestNormalizeUnusableCatalog(t *testing.T) {
	_, _, err := Normalize(nil)
	var normErr *NormalizationError
	require.ErrorAs(t, err, &normErr)

	_, warnings, err := Normalize([]Record{
		{"name": "gp.vs1.a"},
		nil,
	})
	require.ErrorAs(t, err, &normErr)
	assert.Len(t, warnings, 2)
}

func TestParseMemoryUnits(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"4GB", 4},
		{"7.5GB", 7.5},
		{"1TB", 1024},
		{" 30 gb ", 30},
		{"16", 16},
	}
	for _, tt := range tests {
		got, err := parseMemoryGB(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, tt.in)
	}
}

func TestParsePrice(t *testing.T) {
	got, err := parsePrice("$0.123000")
	require.NoError(t, err)
	assert.InDelta(t, 0.123, got, 1e-9)

	got, err = parsePrice("1,200.50")
	require.NoError(t, err)
	assert.InDelta(t, 1200.50, got, 1e-9)

	_, err = parsePrice("free")
	assert.Error(t, err)
}

func TestDetectGeneration(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"gp.vs1.medium-dfw", 1},
		{"gp.vs2.medium-dfw2", 2},
		{"ch.VS2.large", 2},
		{"gp.bm2.medium-dfw", 1},
		{"mh.large", 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectGeneration(tt.name), tt.name)
	}
}
