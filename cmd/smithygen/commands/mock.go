package commands

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/erraggy/smithygen/mockdata"
	"github.com/erraggy/smithygen/parser"
)

func newMockCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "mock <model> <shape-id>",
		Short: "Synthesize deterministic mock data for a shape",
		Long: `Synthesize a mock value for a shape and print it as JSON or YAML.
The same seed always produces the same value. Recursive shapes stop at the
first repeated reference, leaving optional members unset and lists empty.`,
		Example: `  smithygen mock model.json example.weather#Forecast
  smithygen mock --seed 42 --list-size 2 --format yaml model.json example.weather#Forecast`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == FormatText {
				format = FormatJSON
			}
			if err := ValidateOutputFormat(format); err != nil {
				return err
			}
			id, err := parser.ParseShapeID(args[1])
			if err != nil {
				return errors.WithHint(err, "shape ids look like namespace#Name")
			}
			res, err := a.loadModel(args[0])
			if err != nil {
				return err
			}

			gen := mockdata.New(res.Model,
				mockdata.WithSeed(a.cfg.Mock.Seed),
				mockdata.WithListSize(a.cfg.Mock.ListSize))
			value, err := gen.Synthesize(id)
			if err != nil {
				return err
			}

			data, err := json.Marshal(value)
			if err != nil {
				return errors.Wrapf(err, "encoding mock %s", id)
			}
			var doc any
			if err := json.Unmarshal(data, &doc); err != nil {
				return err
			}
			return OutputStructured(cmd.OutOrStdout(), doc, format)
		},
	}

	f := cmd.Flags()
	f.Uint64("seed", 0, "seed of the synthesized values (default 1)")
	f.Int("list-size", 0, "elements synthesized for lists and maps (default 5)")
	f.StringVarP(&format, "format", "f", FormatJSON, "output format: json or yaml")
	return cmd
}
