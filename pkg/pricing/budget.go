package pricing

// Budget evaluates cluster cost against the request's optional hourly
// and monthly bounds. All bounds are inclusive; zero means unbounded.
type Budget struct {
	MinHourly  float64
	MaxHourly  float64
	MinMonthly float64
	MaxMonthly float64
}

func budgetFromRequest(req *Request) Budget {
	return Budget{
		MinHourly:  req.MinHourly,
		MaxHourly:  req.MaxHourly,
		MinMonthly: req.MinMonthly,
		MaxMonthly: req.MaxMonthly,
	}
}

// Feasible reports whether placing nodes on the offering satisfies the
// bounds for the whole cluster.
func (b Budget) Feasible(off Offering, nodes int) bool {
	hourly := off.HourlyPrice * float64(nodes)
	return b.within(hourly, 1.0)
}

// FeasibleSlice checks one pool of a diversified allocation against its
// proportional share of the cluster bounds: a pool holding n of N nodes
// is allowed n/N of each bound.
func (b Budget) FeasibleSlice(off Offering, nodes, totalNodes int) bool {
	if totalNodes <= 0 {
		return false
	}
	hourly := off.HourlyPrice * float64(nodes)
	return b.within(hourly, float64(nodes)/float64(totalNodes))
}

func (b Budget) within(hourly, share float64) bool {
	monthly := hourly * HoursPerMonth
	if b.MinHourly > 0 && hourly < b.MinHourly*share {
		return false
	}
	if b.MaxHourly > 0 && hourly > b.MaxHourly*share {
		return false
	}
	if b.MinMonthly > 0 && monthly < b.MinMonthly*share {
		return false
	}
	if b.MaxMonthly > 0 && monthly > b.MaxMonthly*share {
		return false
	}
	return true
}
