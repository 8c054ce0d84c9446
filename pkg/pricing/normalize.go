package pricing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Record is one raw catalog entry as produced by an upstream source.
// Field names and numeric units vary by source, so values are matched
// against a known alias set and canonicalized.
type Record map[string]any

// Field alias sets, matched case insensitively.
var (
	nameAliases   = []string{"server_class_name", "name", "server_class"}
	regionAliases = []string{"region", "location"}
	priceAliases  = []string{"market_price", "price", "hourly_price", "price_per_hour"}
	cpuAliases    = []string{"cpu", "vcpu", "cpus", "cores"}
	memoryAliases = []string{"memory", "ram", "memory_gb"}
	genAliases    = []string{"generation", "gen"}
)

var (
	memoryRe     = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*(GB|TB)?\s*$`)
	virtualGenRe = regexp.MustCompile(`(?i)\.vs([0-9]+)(?:[.\-]|$)`)
)

// Normalize converts raw catalog entries into canonical offerings.
// Records that fail to parse a required field are dropped and reported
// as warnings; a NormalizationError is returned only when the entire
// input is empty or unusable.
func Normalize(records []Record) ([]Offering, []string, error) {
	if len(records) == 0 {
		return nil, nil, &NormalizationError{Reason: "catalog is empty"}
	}

	offerings := make([]Offering, 0, len(records))
	var warnings []string
	for i, rec := range records {
		if rec == nil {
			warnings = append(warnings, fmt.Sprintf("record %d: not a mapping", i))
			continue
		}
		off, err := normalizeRecord(rec)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("record %d (%s): %v", i, recordName(rec), err))
			continue
		}
		offerings = append(offerings, off)
	}

	if len(offerings) == 0 {
		return nil, warnings, &NormalizationError{
			Reason: fmt.Sprintf("no usable records out of %d", len(records)),
		}
	}
	return offerings, warnings, nil
}

func normalizeRecord(rec Record) (Offering, error) {
	name := recordName(rec)
	if name == "" {
		return Offering{}, fmt.Errorf("missing server class name")
	}

	price, err := requirePositive(rec, priceAliases, parsePrice, "price")
	if err != nil {
		return Offering{}, err
	}
	cpu, err := requirePositive(rec, cpuAliases, parseNumber, "cpu")
	if err != nil {
		return Offering{}, err
	}
	mem, err := requirePositive(rec, memoryAliases, parseMemoryGB, "memory")
	if err != nil {
		return Offering{}, err
	}

	gen := detectGeneration(name)
	if raw, ok := lookupAlias(rec, genAliases); ok {
		parsed, perr := parseNumber(raw)
		if perr == nil && parsed >= 1 {
			gen = int(parsed)
		}
	}
	if gen < 1 {
		gen = 1
	}

	return Offering{
		Name:        name,
		ClassPrefix: classPrefix(name),
		Region:      strings.ToLower(recordString(rec, regionAliases)),
		CPUCores:    int(cpu),
		RAMGB:       mem,
		HourlyPrice: price,
		Generation:  gen,
	}, nil
}

func recordName(rec Record) string {
	return recordString(rec, nameAliases)
}

func recordString(rec Record, aliases []string) string {
	raw, ok := lookupAlias(rec, aliases)
	if !ok {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		return fmt.Sprintf("%v", raw)
	}
	return strings.TrimSpace(s)
}

func lookupAlias(rec Record, aliases []string) (any, bool) {
	for _, alias := range aliases {
		for key, val := range rec {
			if strings.EqualFold(key, alias) && val != nil {
				return val, true
			}
		}
	}
	return nil, false
}

func requirePositive(rec Record, aliases []string, parse func(any) (float64, error), field string) (float64, error) {
	raw, ok := lookupAlias(rec, aliases)
	if !ok {
		return 0, fmt.Errorf("missing %s", field)
	}
	v, err := parse(raw)
	if err != nil {
		return 0, fmt.Errorf("unparseable %s %q: %v", field, raw, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %g", field, v)
	}
	return v, nil
}

// parsePrice accepts numbers or currency-decorated strings ("$0.05", "1,200").
func parsePrice(raw any) (float64, error) {
	if v, ok := numericValue(raw); ok {
		return v, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("expected number or string")
	}
	s = strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "$", ""), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	return strconv.ParseFloat(s, 64)
}

func parseNumber(raw any) (float64, error) {
	if v, ok := numericValue(raw); ok {
		return v, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("expected number or string")
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// parseMemoryGB accepts plain numbers, "8GB", or "1TB" (1 TB = 1024 GB).
func parseMemoryGB(raw any) (float64, error) {
	if v, ok := numericValue(raw); ok {
		return v, nil
	}
	s, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("expected number or string")
	}
	m := memoryRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("unrecognized memory format")
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, err
	}
	if strings.EqualFold(m[2], "TB") {
		return amount * 1024.0, nil
	}
	return amount, nil
}

func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// classPrefix extracts the class family from a server class name:
// the lowercase segment before the first dot, e.g. "gp" for gp.vs2.medium.
func classPrefix(name string) string {
	lower := strings.ToLower(name)
	if i := strings.IndexByte(lower, '.'); i > 0 {
		return lower[:i]
	}
	return lower
}

// detectGeneration extracts the virtual generation tier from a .vsN token
// in the class name, returning 1 when absent.
func detectGeneration(name string) int {
	m := virtualGenRe.FindStringSubmatch(strings.ToLower(name))
	if m == nil {
		return 1
	}
	gen, err := strconv.Atoi(m[1])
	if err != nil || gen < 1 {
		return 1
	}
	return gen
}
