package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rshade/lcacost/internal/catalog"
	"github.com/rshade/lcacost/internal/config"
	"github.com/rshade/lcacost/internal/material"
)

var errNoCatalogPath = errors.New("no catalog path: pass --catalog or set dataset.catalog_db")

// newCatalogCmd creates the catalog command group for the SQLite material
// catalog.
func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the SQLite material catalog",
		Long: `A catalog is a SQLite database holding one validated material table.
Analysis commands read it with --catalog or dataset.catalog_db.`,
	}
	cmd.AddCommand(newCatalogImportCmd(), newCatalogInfoCmd(), newCatalogExportCmd())
	return cmd
}

// catalogPath returns --catalog or the configured catalog.
func catalogPath(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString(flagCatalog)
	if path == "" {
		path = config.GetGlobalConfig().Dataset.CatalogDB
	}
	if path == "" {
		return "", errNoCatalogPath
	}
	return path, nil
}

func newCatalogImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Replace the catalog contents with a dataset",
		Long: `Validates a dataset (--dataset, dataset.path, or the built-in table) and
replaces the catalog contents with it in one transaction.`,
		Example: `  lcacost catalog import --catalog materials.db
  lcacost catalog import --dataset materials.yaml --catalog materials.db`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dest, err := catalogPath(cmd)
			if err != nil {
				return err
			}

			table, source := material.Builtin(), sourceBuiltin
			path, _ := cmd.Flags().GetString(flagDataset)
			if path == "" {
				path = config.GetGlobalConfig().Dataset.Path
			}
			if path != "" {
				if table, err = material.LoadFile(path); err != nil {
					return err
				}
				source = path
			}

			store, err := catalog.OpenAndMigrate(ctx, dest)
			if err != nil {
				return err
			}
			defer store.Close()

			info, err := store.Import(ctx, table, source)
			if err != nil {
				return err
			}
			cmd.Printf("Imported %d materials from %s into %s (import %s)\n",
				info.RecordCount, info.Source, store.Path(), info.ID)
			return nil
		},
	}
}

type catalogInfo struct {
	Path       string              `json:"path"`
	LastImport *catalog.ImportInfo `json:"last_import,omitempty"`
	Materials  []string            `json:"materials"`
}

func newCatalogInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the last import and the materials in the catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			path, err := catalogPath(cmd)
			if err != nil {
				return err
			}
			store, err := catalog.OpenAndMigrate(ctx, path)
			if err != nil {
				return err
			}
			defer store.Close()

			out := catalogInfo{Path: path, Materials: []string{}}
			last, found, err := store.LastImport(ctx)
			if err != nil {
				return err
			}
			if !found {
				cmd.Printf("Catalog %s is empty\n", path)
				return nil
			}
			out.LastImport = &last

			table, err := store.Load(ctx)
			if err != nil {
				return err
			}
			out.Materials = table.Names()

			td := tableData{
				Title: fmt.Sprintf("Catalog %s: import %s from %s at %s",
					path, last.ID, last.Source, last.ImportedAt.Format("2006-01-02 15:04:05Z07:00")),
				Headers: []string{"#", "Material"},
			}
			for i, n := range out.Materials {
				td.Rows = append(td.Rows, []string{strconv.Itoa(i + 1), n})
			}
			return render(cmd, td, out)
		},
	}
}

func newCatalogExportCmd() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the catalog contents as a YAML dataset",
		Example: `  lcacost catalog export --catalog materials.db --out materials.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			path, err := catalogPath(cmd)
			if err != nil {
				return err
			}
			store, err := catalog.OpenAndMigrate(ctx, path)
			if err != nil {
				return err
			}
			defer store.Close()

			table, err := store.Load(ctx)
			if err != nil {
				return err
			}
			data, err := material.Marshal(table)
			if err != nil {
				return fmt.Errorf("encoding dataset: %w", err)
			}
			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			//nolint:gosec // dataset files are meant to be shared.
			if err = os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outPath, err)
			}
			cmd.Printf("Exported %d materials to %s\n", table.Len(), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	return cmd
}
