// Package cli implements the automap commands.
package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mickamy/automap/automap"
	"github.com/mickamy/automap/document"
	"github.com/mickamy/automap/internal/config"
	"github.com/mickamy/automap/internal/gen"
	"github.com/mickamy/automap/internal/logger"
)

// Version is set at build time.
var Version = "dev"

type app struct {
	configPath string
	cfg        config.Config
}

// NewRootCmd returns the automap command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "automap",
		Short: "automap maps Go structs to relational tables by convention",
		Long: `automap reads the structs of a Go file, maps them to tables with
overridable conventions, and prints the mapping, its DDL or name constants.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v := config.New(a.configPath)
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err //nolint:wrapcheck
			}
			cfg, err := config.Read(v)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return logger.Init(cfg.Log)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ./automap.yaml)")

	root.AddCommand(
		newInspectCmd(a),
		newDDLCmd(a),
		newGenerateCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute() //nolint:wrapcheck
}

// build parses file and builds its class maps with the configured model.
func (a *app) build(file string) ([]*automap.ClassMap, error) {
	entities, err := gen.Parse(file)
	if err != nil {
		return nil, err
	}

	opts := []automap.Option{
		automap.WithConventionFinder(&automap.DefaultConventionFinder{
			TablePrefix:    a.cfg.Model.TablePrefix,
			SingularTables: a.cfg.Model.SingularTables,
		}),
		automap.WithLogger(log.Logger),
	}
	model := automap.NewAutoPersistenceModel(opts...)
	if a.cfg.Model.Private {
		model = automap.NewPrivateAutoPersistenceModel(opts...)
	}

	model.Add(gen.Roots(entities)...)
	if n := a.cfg.Model.StringLength; n > 0 {
		model.Conventions(automap.StringLength(n))
	}
	if a.cfg.Overrides != "" {
		f, err := document.LoadFile(a.cfg.Overrides)
		if err != nil {
			return nil, err
		}
		f.Register(model)
	}
	return model.Build() //nolint:wrapcheck
}
