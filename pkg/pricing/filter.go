package pricing

import "strings"

// Filter narrows the scored catalog to the request's candidate set.
// Every present constraint must match; absent constraints impose no
// restriction, so tightening a bound can only shrink the result.
// Returns NoMatchError when nothing survives.
func Filter(offerings []ScoredOffering, req *Request) ([]ScoredOffering, error) {
	regions := toSet(req.Regions)
	classes := toSet(req.Classes)

	out := make([]ScoredOffering, 0, len(offerings))
	for _, off := range offerings {
		if len(regions) > 0 && !regions[strings.ToLower(off.Region)] {
			continue
		}
		if len(classes) > 0 && !classes[off.ClassPrefix] {
			continue
		}
		if req.MinCPU > 0 && off.CPUCores < req.MinCPU {
			continue
		}
		if req.MaxCPU > 0 && off.CPUCores > req.MaxCPU {
			continue
		}
		if req.MinGeneration > 0 && off.Generation < req.MinGeneration {
			continue
		}
		out = append(out, off)
	}

	if len(out) == 0 {
		return nil, &NoMatchError{Candidates: len(offerings)}
	}
	return out, nil
}

// SplitFilterValues normalizes repeated, comma separated filter flags
// into a deduplicated lowercase list, preserving first-seen order.
func SplitFilterValues(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			token := strings.ToLower(strings.TrimSpace(part))
			if token == "" || seen[token] {
				continue
			}
			out = append(out, token)
			seen[token] = true
		}
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToLower(strings.TrimSpace(v))] = true
	}
	return set
}
