package material

import (
	"fmt"
	"math"
	"strings"
)

// Score bounds for LIS and RIS.
const (
	MinScore = 0.0
	MaxScore = 100.0
)

// integrityErrorf builds an ErrDataIntegrity error scoped to a record.
func integrityErrorf(name, format string, args ...any) error {
	return fmt.Errorf("%w: record %q: %s", ErrDataIntegrity, name, fmt.Sprintf(format, args...))
}

// Validate checks every record invariant: a non-empty name, all five
// categories present with non-negative finite values and a finite total,
// non-negative costs and a positive service life.
func (r *Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: record name cannot be empty", ErrDataIntegrity)
	}

	for _, c := range AllCategories() {
		values, ok := r.PhaseImpacts[c]
		if !ok {
			return fmt.Errorf("%w: record %q: missing %s impacts: %w",
				ErrDataIntegrity, r.Name, c, ErrUnknownCategory)
		}
		for i, v := range values {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return integrityErrorf(r.Name, "%s %s impact is not finite", c, LifecyclePhase(i))
			}
			if v < 0 {
				return integrityErrorf(r.Name, "%s %s impact is negative (%g)", c, LifecyclePhase(i), v)
			}
		}
		if total := values.Sum(); math.IsInf(total, 0) {
			return integrityErrorf(r.Name, "%s total impact overflows", c)
		}
	}
	for c := range r.PhaseImpacts {
		if _, err := ParseImpactCategory(string(c)); err != nil {
			return fmt.Errorf("%w: record %q: %w", ErrDataIntegrity, r.Name, err)
		}
	}

	costs := []struct {
		field string
		value float64
	}{
		{"cost_per_area", r.CostPerArea},
		{"capital_cost", r.CapitalCost},
		{"annual_maintenance_cost", r.AnnualMaintenanceCost},
		{"annual_energy_cost", r.AnnualEnergyCost},
		{"salvage_value", r.SalvageValue},
	}
	for _, c := range costs {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) {
			return integrityErrorf(r.Name, "%s is not finite", c.field)
		}
		if c.value < 0 {
			return integrityErrorf(r.Name, "%s is negative (%g)", c.field, c.value)
		}
	}

	if r.ServiceLifeYears <= 0 {
		return integrityErrorf(r.Name, "service_life_years must be positive, got %d", r.ServiceLifeYears)
	}

	if r.Scores != nil {
		if err := r.Scores.validate(r.Name); err != nil {
			return err
		}
	}

	return nil
}

func (s *Scores) validate(name string) error {
	if math.IsNaN(s.LIS) || s.LIS < MinScore || s.LIS > MaxScore {
		return integrityErrorf(name, "lis must be between 0 and 100, got %g", s.LIS)
	}
	if math.IsNaN(s.RIS) || s.RIS < MinScore || s.RIS > MaxScore {
		return integrityErrorf(name, "ris must be between 0 and 100, got %g", s.RIS)
	}
	if s.Tier != "" && !s.Tier.Valid() {
		return integrityErrorf(name, "unknown ris tier %q", s.Tier)
	}
	if math.IsNaN(s.CPI) || math.IsInf(s.CPI, 0) {
		return integrityErrorf(name, "cpi is not finite")
	}
	if s.CPI < 0 {
		return integrityErrorf(name, "cpi is negative (%g)", s.CPI)
	}
	return nil
}
