package flow

import "math"

// Cost evaluates the BPR curve for one directed edge:
//
//	C_eff = max(C_max − γ·rev, C_min)
//	r     = co / C_eff
//	cost  = T0·(1 + α·r⁴)
//
// β is fixed at 4 and computed as two squarings. The result is rounded
// half up and clamped to p.MaxCost; the clamp happens in floating point
// so huge ratios never overflow the integer conversion.
// Cost is pure: it reads nothing but its arguments.
func Cost(p Params, co, rev float64) int {
	cEff := p.CMax - p.Gamma*rev
	if cEff < p.CMin {
		cEff = p.CMin
	}
	r := co / cEff
	r2 := r * r
	r4 := r2 * r2
	c := float64(p.T0) * (1.0 + p.Alpha*r4)
	if c >= float64(p.MaxCost) || math.IsNaN(c) {
		return p.MaxCost
	}
	return int(c + 0.5)
}

// CostExact is the unrounded, unclamped value of Cost.
func CostExact(p Params, co, rev float64) float64 {
	cEff := math.Max(p.CMax-p.Gamma*rev, p.CMin)
	r := co / cEff
	r2 := r * r
	return float64(p.T0) * (1.0 + p.Alpha*r2*r2)
}

// EMA moves estimate one smoothing step toward target:
// (1-η)·estimate + η·target.
func EMA(p Params, estimate float64, target int32) float64 {
	return (1.0-p.Eta)*estimate + p.Eta*float64(target)
}
