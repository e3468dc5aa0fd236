package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mickamy/automap/document"
	"github.com/mickamy/automap/internal/gen"
	"github.com/mickamy/automap/schema"
)

func newInspectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.go>",
		Short: "Print the mapping of the structs in a Go file as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maps, err := a.build(args[0])
			if err != nil {
				return err
			}
			out, err := document.Marshal(maps)
			if err != nil {
				return err //nolint:wrapcheck
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err //nolint:wrapcheck
		},
	}
}

func newDDLCmd(a *app) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "ddl <file.go>",
		Short: "Print CREATE TABLE statements for the structs in a Go file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maps, err := a.build(args[0])
			if err != nil {
				return err
			}
			d, err := schema.DialectByName(a.cfg.Schema.Dialect)
			if err != nil {
				return err //nolint:wrapcheck
			}
			render := schema.CreateTables
			if drop {
				render = schema.DropTables
			}
			stmts, err := render(d, maps)
			if err != nil {
				return err //nolint:wrapcheck
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", strings.Join(stmts, ";\n\n"))
			return err //nolint:wrapcheck
		},
	}
	cmd.Flags().StringP("schema.dialect", "d", "", "SQL dialect: mysql, postgres or sqlite")
	cmd.Flags().BoolVar(&drop, "drop", false, "print DROP TABLE statements instead")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		output string
		pkg    string
	)
	cmd := &cobra.Command{
		Use:   "generate <file.go>",
		Short: "Generate table and column name constants for the structs in a Go file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			maps, err := a.build(file)
			if err != nil {
				return err
			}
			if pkg == "" {
				entities, err := gen.Parse(file)
				if err != nil {
					return err //nolint:wrapcheck
				}
				if len(entities) > 0 {
					pkg = entities[0].Package
				}
			}
			src, err := gen.Render(maps, gen.RenderOption{Package: pkg, Source: filepath.Base(file)})
			if err != nil {
				return err //nolint:wrapcheck
			}

			if output == "" {
				output = strings.TrimSuffix(file, ".go") + "_automap.go"
			}
			if err := os.WriteFile(output, src, 0o644); err != nil { //nolint:gosec // generated code should be world-readable
				return errors.Wrapf(err, "write %s", output)
			}
			log.Info().Str("file", output).Int("entities", len(maps)).Msg("constants generated")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "automap: wrote %s\n", output)
			return err //nolint:wrapcheck
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <file>_automap.go)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "package name (default: package of the input file)")
	return cmd
}

func newMigrateCmd(a *app) *cobra.Command {
	var drop bool
	cmd := &cobra.Command{
		Use:   "migrate <file.go>",
		Short: "Create the tables for the structs in a Go file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			maps, err := a.build(args[0])
			if err != nil {
				return err
			}
			if a.cfg.Schema.DSN == "" {
				return errors.New("schema.dsn is not set")
			}
			d, err := schema.DialectByName(a.cfg.Schema.Dialect)
			if err != nil {
				return err //nolint:wrapcheck
			}
			db, err := schema.Open(d, a.cfg.Schema.DSN)
			if err != nil {
				return err //nolint:wrapcheck
			}
			defer db.Close()

			db = db.Debug(schema.ZerologLogger{Logger: log.Logger})
			ctx := cmd.Context()
			if drop {
				if err := schema.Drop(ctx, db, maps); err != nil {
					return err //nolint:wrapcheck
				}
			}
			if err := schema.Migrate(ctx, db, maps); err != nil {
				return err //nolint:wrapcheck
			}
			log.Info().Str("dialect", a.cfg.Schema.Dialect).Int("entities", len(maps)).Msg("schema migrated")
			return nil
		},
	}
	cmd.Flags().StringP("schema.dialect", "d", "", "SQL dialect: mysql, postgres or sqlite")
	cmd.Flags().String("schema.dsn", "", "data source name")
	cmd.Flags().BoolVar(&drop, "drop", false, "drop the tables first")
	return cmd
}
