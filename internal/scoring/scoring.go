// Package scoring applies fixed linear fantasy-point formulas to raw
// counting stats. It is pure: the same input always yields the same total,
// and missing stats are treated as zero.
package scoring

// Rule selects the reception weighting convention.
type Rule string

const (
	RulePPR     Rule = "ppr"
	RuleHalfPPR Rule = "half_ppr"
)

// Stats holds the counting stats that feed the formula. Callers populate
// only what the source provides; zero values contribute nothing.
type Stats struct {
	Receptions     int
	ReceivingYards float64
	ReceivingTDs   int
	RushingYards   float64
	RushingTDs     int
	PassingYards   float64
	PassingTDs     int
	Interceptions  int
	FumblesLost    int
}

// Points applies the scoring rule:
//
//	receptions*w + receiving_yards*0.1 + receiving_tds*6 +
//	rushing_yards*0.1 + rushing_tds*6 +
//	passing_yards*0.04 + passing_tds*4 - interceptions*2
//
// where w is 1.0 for PPR and 0.5 for half-PPR. Half-PPR additionally
// applies a -2 per lost fumble when fumble data is present.
func Points(s Stats, rule Rule) float64 {
	recWeight := 1.0
	if rule == RuleHalfPPR {
		recWeight = 0.5
	}

	points := float64(s.Receptions)*recWeight +
		s.ReceivingYards*0.1 +
		float64(s.ReceivingTDs)*6 +
		s.RushingYards*0.1 +
		float64(s.RushingTDs)*6 +
		s.PassingYards*0.04 +
		float64(s.PassingTDs)*4 -
		float64(s.Interceptions)*2

	if rule == RuleHalfPPR {
		points -= float64(s.FumblesLost) * 2
	}

	return points
}

// PPR is shorthand for Points under the full-PPR convention.
func PPR(s Stats) float64 {
	return Points(s, RulePPR)
}

// HalfPPR is shorthand for Points under the half-PPR convention.
func HalfPPR(s Stats) float64 {
	return Points(s, RuleHalfPPR)
}
