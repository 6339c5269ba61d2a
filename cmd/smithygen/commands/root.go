package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/erraggy/smithygen"
	"github.com/erraggy/smithygen/internal/config"
	"github.com/erraggy/smithygen/internal/logging"
)

// configFlags maps flag names to the configuration keys they override.
// A command binds only the flags it declares.
var configFlags = map[string]string{
	"output":        "output",
	"module":        "module_path",
	"policy":        "policy",
	"concurrency":   "concurrency",
	"namespace":     "namespaces",
	"strict":        "strict",
	"seed":          "mock.seed",
	"list-size":     "mock.list_size",
	"registry":      "registry.root",
	"registry-name": "registry.name",
	"build-command": "build.command",
	"addr":          "server.addr",
	"log-level":     "log.level",
	"log-json":      "log.json",
}

// app carries the state shared by every command once flags are parsed.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *logging.ZapAdapter
}

// NewRootCommand builds the smithygen command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "smithygen",
		Short: "Generate Go service packages from Smithy models",
		Long: `smithygen turns a Smithy model into Go packages: one package per
namespace with type declarations, service interfaces, HTTP routing,
mock implementations, validators and test scaffolds.

Settings are read from smithygen.yaml, SMITHYGEN_* environment variables
and flags, in increasing order of precedence.`,
		Version:           smithygen.Version(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.SetVersionTemplate("smithygen v{{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./smithygen.yaml)")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.Bool("log-json", false, "write logs as JSON")

	root.AddCommand(
		newGenerateCommand(a),
		newPublishCommand(a),
		newInspectCommand(a),
		newMockCommand(a),
		newServeCommand(a),
		newMCPCommand(),
		newVersionCommand(),
	)
	return root
}

// setup loads the configuration with the command's flags bound on top of
// it and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(config.LoadOptions{File: a.configFile})
	if err != nil {
		return err
	}
	for name, key := range configFlags {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "binding --%s", name)
		}
	}

	cfg, err := config.FromViper(v)
	if err != nil {
		return errors.WithHint(err, "check smithygen.yaml, SMITHYGEN_* variables and command flags")
	}
	a.cfg = cfg

	a.logger, err = logging.NewLogger(logging.Options{
		Level:  cfg.Log.Level,
		JSON:   cfg.Log.JSON,
		Output: cmd.ErrOrStderr(),
	})
	return err
}
