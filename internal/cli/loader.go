package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/catalog"
	"github.com/rshade/lcacost/internal/config"
	"github.com/rshade/lcacost/internal/engine"
	"github.com/rshade/lcacost/internal/material"
	"github.com/rshade/lcacost/internal/selection"
)

// Display parameter flag names.
const (
	flagCategory = "category"
	flagChart    = "chart"
	flagView     = "view"
	flagHorizon  = "horizon"
	flagRate     = "rate"
	flagBaseline = "baseline"
)

// sourceBuiltin names the embedded table in logs and catalog imports.
const sourceBuiltin = "builtin"

// analysisInput is everything an analysis command evaluates.
type analysisInput struct {
	Table    *material.Table
	Source   string
	Records  []*material.Record
	Params   engine.DisplayParameters
	Baseline *material.Record
}

// displayFlags selects which display parameter flags a command takes.
type displayFlags struct {
	category bool
	chart    bool
	view     bool
	tco      bool
	baseline bool
}

//nolint:gochecknoglobals // Read-only flag sets.
var (
	allDisplayFlags = displayFlags{category: true, chart: true, view: true, tco: true, baseline: true}
)

// addDisplayFlags registers the requested display parameter flags. Defaults
// come from config; a flag only overrides when set.
func addDisplayFlags(cmd *cobra.Command, which displayFlags) {
	f := cmd.Flags()
	if which.category {
		f.String(flagCategory, "", "impact category: CO2e, Water, Acidification, Resource or Energy")
	}
	if which.chart {
		f.String(flagChart, "", "chart mode: absolute or percentage")
	}
	if which.view {
		f.String(flagView, "", "view: impact or cpi (cost per impact)")
	}
	if which.tco {
		f.Int(flagHorizon, engine.DefaultHorizonYears, "TCO horizon in years")
		f.Float64(flagRate, engine.DefaultDiscountRatePercent, "discount rate in percent")
	}
	if which.baseline {
		f.String(flagBaseline, "", "baseline material for MAC and payback")
	}
}

// loadTable reads the material table from, in order: --catalog, --dataset,
// the configured catalog, the configured dataset, the built-in table.
func loadTable(ctx context.Context, cmd *cobra.Command) (*material.Table, string, error) {
	cfg := config.GetGlobalConfig()

	catalogPath, _ := cmd.Flags().GetString(flagCatalog)
	datasetPath, _ := cmd.Flags().GetString(flagDataset)
	if catalogPath == "" && datasetPath == "" {
		catalogPath = cfg.Dataset.CatalogDB
		datasetPath = cfg.Dataset.Path
	}

	switch {
	case catalogPath != "":
		store, err := catalog.OpenAndMigrate(ctx, catalogPath)
		if err != nil {
			return nil, "", fmt.Errorf("opening catalog: %w", err)
		}
		defer store.Close()
		t, err := store.Load(ctx)
		if err != nil {
			return nil, "", err
		}
		return t, catalogPath, nil
	case datasetPath != "":
		t, err := material.LoadFile(datasetPath)
		if err != nil {
			return nil, "", err
		}
		return t, datasetPath, nil
	default:
		return material.Builtin(), sourceBuiltin, nil
	}
}

// loadAnalysisInput loads the table, applies --select and --query, resolves
// display parameters and the baseline.
func loadAnalysisInput(cmd *cobra.Command) (*analysisInput, error) {
	ctx := cmd.Context()
	table, source, err := loadTable(ctx, cmd)
	if err != nil {
		return nil, err
	}

	names, _ := cmd.Flags().GetString(flagSelect)
	query, _ := cmd.Flags().GetString(flagQuery)
	sel, err := selection.FromFlags(table, names, query)
	if err != nil {
		return nil, err
	}

	params, err := resolveParams(cmd)
	if err != nil {
		return nil, err
	}
	baseline, err := selection.ResolveBaseline(table, params.BaselineName)
	if err != nil {
		return nil, err
	}

	in := &analysisInput{
		Table:    table,
		Source:   source,
		Records:  sel.Filter(table),
		Params:   params,
		Baseline: baseline,
	}

	logger.Debug().Ctx(ctx).
		Str("operation", "load_input").
		Str("source", source).
		Int("materials", len(in.Records)).
		Str("baseline", params.BaselineName).
		Msg("analysis input loaded")
	return in, nil
}

// resolveParams starts from the configured analysis defaults and applies
// any display flags the user set.
func resolveParams(cmd *cobra.Command) (engine.DisplayParameters, error) {
	params, err := config.GetGlobalConfig().Analysis.DisplayParameters()
	if err != nil {
		return params, err
	}
	f := cmd.Flags()

	if f.Changed(flagCategory) {
		v, _ := f.GetString(flagCategory)
		if params.ImpactCategory, err = material.ParseImpactCategory(v); err != nil {
			return params, err
		}
	}
	if f.Changed(flagChart) {
		v, _ := f.GetString(flagChart)
		if params.ChartMode, err = engine.ParseChartMode(v); err != nil {
			return params, err
		}
	}
	if f.Changed(flagView) {
		v, _ := f.GetString(flagView)
		if params.ViewMode, err = engine.ParseViewMode(v); err != nil {
			return params, err
		}
	}
	if f.Changed(flagHorizon) {
		params.HorizonYears, _ = f.GetInt(flagHorizon)
	}
	if f.Changed(flagRate) {
		params.DiscountRatePercent, _ = f.GetFloat64(flagRate)
	}
	if f.Changed(flagBaseline) {
		params.BaselineName, _ = f.GetString(flagBaseline)
	}

	if err = params.Validate(); err != nil {
		return params, err
	}
	return params, nil
}
