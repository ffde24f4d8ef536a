package material

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/rshade/lcacost/internal/greenops"
)

// SchemaConstraint is the range of dataset schema versions this build reads.
const SchemaConstraint = "^1.0.0"

// CurrentSchemaVersion is written by tools that emit datasets.
const CurrentSchemaVersion = "1.0.0"

//go:embed builtin.yaml
var builtinDataset []byte

// Document is the on-disk dataset layout. JSON files use the same keys.
// CO2eUnit names the unit of every CO2e impact array (g, kg, t or lb); empty
// means kg.
type Document struct {
	SchemaVersion string        `yaml:"schema_version"      json:"schema_version"`
	CO2eUnit      string        `yaml:"co2e_unit,omitempty" json:"co2e_unit,omitempty"`
	Materials     []MaterialDoc `yaml:"materials"           json:"materials"`
}

// MaterialDoc is a single dataset row before validation. Impact arrays are
// slices here so a wrong-length row can be reported instead of silently
// truncated or padded.
type MaterialDoc struct {
	Name                  string               `yaml:"name"                    json:"name"`
	CostPerArea           float64              `yaml:"cost_per_area"           json:"cost_per_area"`
	CapitalCost           float64              `yaml:"capital_cost"            json:"capital_cost"`
	AnnualMaintenanceCost float64              `yaml:"annual_maintenance_cost" json:"annual_maintenance_cost"`
	AnnualEnergyCost      float64              `yaml:"annual_energy_cost"      json:"annual_energy_cost"`
	SalvageValue          float64              `yaml:"salvage_value"           json:"salvage_value"`
	ServiceLifeYears      int                  `yaml:"service_life_years"      json:"service_life_years"`
	Scores                *Scores              `yaml:"scores,omitempty"        json:"scores,omitempty"`
	Impacts               map[string][]float64 `yaml:"impacts"                 json:"impacts"`
}

// Record converts the row into a Record, checking category names and array
// lengths. Remaining invariants are checked by Record.Validate.
func (d MaterialDoc) Record() (Record, error) {
	r := Record{
		Name:                  d.Name,
		PhaseImpacts:          make(map[ImpactCategory]PhaseValues, len(d.Impacts)),
		CostPerArea:           d.CostPerArea,
		CapitalCost:           d.CapitalCost,
		AnnualMaintenanceCost: d.AnnualMaintenanceCost,
		AnnualEnergyCost:      d.AnnualEnergyCost,
		SalvageValue:          d.SalvageValue,
		ServiceLifeYears:      d.ServiceLifeYears,
		Scores:                d.Scores,
	}

	for name, values := range d.Impacts {
		c, err := ParseImpactCategory(name)
		if err != nil {
			return Record{}, fmt.Errorf("%w: record %q: %w", ErrDataIntegrity, d.Name, err)
		}
		if _, dup := r.PhaseImpacts[c]; dup {
			return Record{}, integrityErrorf(d.Name, "category %s listed twice", c)
		}
		if len(values) != PhaseCount {
			return Record{}, integrityErrorf(d.Name, "%s has %d phase values, want %d",
				c, len(values), PhaseCount)
		}
		var pv PhaseValues
		copy(pv[:], values)
		r.PhaseImpacts[c] = pv
	}

	return r, nil
}

// DocFromRecord converts a validated record back into its dataset row.
func DocFromRecord(r *Record) MaterialDoc {
	d := MaterialDoc{
		Name:                  r.Name,
		CostPerArea:           r.CostPerArea,
		CapitalCost:           r.CapitalCost,
		AnnualMaintenanceCost: r.AnnualMaintenanceCost,
		AnnualEnergyCost:      r.AnnualEnergyCost,
		SalvageValue:          r.SalvageValue,
		ServiceLifeYears:      r.ServiceLifeYears,
		Impacts:               make(map[string][]float64, len(r.PhaseImpacts)),
	}
	if r.Scores != nil {
		s := *r.Scores
		d.Scores = &s
	}
	for c, v := range r.PhaseImpacts {
		d.Impacts[string(c)] = append([]float64(nil), v[:]...)
	}
	return d
}

// Parse decodes a YAML or JSON dataset and returns a validated table.
func Parse(data []byte) (*Table, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing dataset: %w", ErrDataIntegrity, err)
	}
	return doc.Table()
}

// Table checks the schema version and converts every row.
func (d Document) Table() (*Table, error) {
	if err := CheckSchemaVersion(d.SchemaVersion); err != nil {
		return nil, err
	}
	if d.CO2eUnit != "" && !greenops.IsRecognizedUnit(d.CO2eUnit) {
		return nil, fmt.Errorf("%w: co2e_unit: %w: %q", ErrDataIntegrity, greenops.ErrInvalidUnit, d.CO2eUnit)
	}

	records := make([]Record, 0, len(d.Materials))
	for _, m := range d.Materials {
		r, err := m.Record()
		if err != nil {
			return nil, err
		}
		if d.CO2eUnit != "" {
			if err = normalizeCO2e(&r, d.CO2eUnit); err != nil {
				return nil, err
			}
		}
		records = append(records, r)
	}
	return NewTable(records)
}

// normalizeCO2e converts the record's CO2e phase values from unit to kg.
func normalizeCO2e(r *Record, unit string) error {
	values, ok := r.PhaseImpacts[CategoryCO2e]
	if !ok {
		return nil
	}
	for i, v := range values {
		kg, err := greenops.NormalizeToKg(v, unit)
		if err != nil {
			return fmt.Errorf("%w: record %q: %s CO2e: %w", ErrDataIntegrity, r.Name, LifecyclePhase(i), err)
		}
		values[i] = kg
	}
	r.PhaseImpacts[CategoryCO2e] = values
	return nil
}

// CheckSchemaVersion reports whether version satisfies SchemaConstraint.
func CheckSchemaVersion(version string) error {
	if version == "" {
		return fmt.Errorf("%w: schema_version is required", ErrUnsupportedSchema)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrUnsupportedSchema, version, err)
	}
	constraint, err := semver.NewConstraint(SchemaConstraint)
	if err != nil {
		return fmt.Errorf("parsing schema constraint: %w", err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s does not satisfy %s", ErrUnsupportedSchema, v, SchemaConstraint)
	}
	return nil
}

// LoadFile reads and validates a dataset file.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading dataset %s: %w", path, err)
	}
	return t, nil
}

// Builtin returns the bundled wall-system sample dataset.
func Builtin() *Table {
	t, err := Parse(builtinDataset)
	if err != nil {
		panic(fmt.Sprintf("builtin dataset is invalid: %v", err))
	}
	return t
}

// Marshal encodes the table as a YAML dataset document.
func Marshal(t *Table) ([]byte, error) {
	doc := Document{SchemaVersion: CurrentSchemaVersion}
	for _, r := range t.Records() {
		doc.Materials = append(doc.Materials, DocFromRecord(r))
	}
	return yaml.Marshal(doc)
}
