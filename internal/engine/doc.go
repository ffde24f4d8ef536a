// Package engine derives lifecycle metrics from material records.
//
// Every function is pure with respect to its inputs: records are never
// mutated and no state is kept between calls. Results that cannot be
// computed, such as MAC without a baseline or payback without operating
// savings, are returned as an undefined Optional rather than as zero, NaN
// or Inf. Out-of-domain caller input returns ErrInvalidParameter.
//
// Operations:
//   - TotalImpact, PhaseSeries, CostPerImpactSeries: phase aggregation
//   - TotalCostOfOwnership: discounted cost over a horizon
//   - MarginalAbatementCost, BuildMACCurve: cost per kg CO2e avoided
//   - PaybackYears: years to recoup a capital premium
//   - Summarize: lowest, hotspot and average in a category
//   - Evaluate: all of the above for a set of materials
package engine
