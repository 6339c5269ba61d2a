package commands

import (
	"cmp"
	"io"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/internal/cliutil"
	"github.com/erraggy/smithygen/parser"
)

type modelSummary struct {
	Source     string           `json:"source"               yaml:"source"`
	Version    string           `json:"version"              yaml:"version"`
	Shapes     int              `json:"shapes"               yaml:"shapes"`
	Namespaces []string         `json:"namespaces"           yaml:"namespaces"`
	Kinds      []kindCount      `json:"kinds"                yaml:"kinds"`
	Services   []serviceSummary `json:"services,omitempty"   yaml:"services,omitempty"`
}

type kindCount struct {
	Kind  string `json:"kind"  yaml:"kind"`
	Count int    `json:"count" yaml:"count"`
}

type serviceSummary struct {
	ID         string             `json:"id"                yaml:"id"`
	Version    string             `json:"version,omitempty" yaml:"version,omitempty"`
	Operations []operationSummary `json:"operations"        yaml:"operations"`
}

type operationSummary struct {
	ID     string `json:"id"               yaml:"id"`
	Method string `json:"method,omitempty" yaml:"method,omitempty"`
	URI    string `json:"uri,omitempty"    yaml:"uri,omitempty"`
	Code   int    `json:"code,omitempty"   yaml:"code,omitempty"`
}

func newInspectCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect <model>",
		Short: "Summarize the shapes and services of a model",
		Example: `  smithygen inspect model.json
  smithygen inspect --format yaml model.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateOutputFormat(format); err != nil {
				return err
			}
			res, err := a.loadModel(args[0])
			if err != nil {
				return err
			}
			summary, err := summarize(res)
			if err != nil {
				return err
			}
			if format == FormatText {
				writeSummary(cmd.OutOrStdout(), summary)
				return nil
			}
			return OutputStructured(cmd.OutOrStdout(), summary, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatText, "output format: text, json or yaml")
	return cmd
}

func summarize(res *parser.ParseResult) (*modelSummary, error) {
	model := res.Model
	summary := &modelSummary{
		Source:     res.SourcePath,
		Version:    res.Version,
		Shapes:     model.Len(),
		Namespaces: model.Namespaces(),
	}

	counts := make(map[string]int)
	for _, s := range model.Shapes() {
		counts[s.Kind().String()]++
	}
	for kind, n := range counts {
		summary.Kinds = append(summary.Kinds, kindCount{Kind: kind, Count: n})
	}
	slices.SortFunc(summary.Kinds, func(x, y kindCount) int {
		if c := cmp.Compare(y.Count, x.Count); c != 0 {
			return c
		}
		return cmp.Compare(x.Kind, y.Kind)
	})

	for _, svc := range model.Services() {
		ops, err := model.ServiceOperations(svc)
		if err != nil {
			return nil, errors.Wrapf(err, "service %s", svc.ID())
		}
		s := serviceSummary{ID: svc.ID().String(), Version: svc.Version}
		for _, op := range ops {
			o := operationSummary{ID: op.ID().String()}
			binding, ok, err := op.Traits().HTTP()
			if err != nil {
				return nil, err
			}
			if ok {
				if o.Method, err = generator.NormalizeHTTPMethod(op.ID(), binding.Method); err != nil {
					return nil, err
				}
				o.URI, o.Code = binding.URI, binding.Code
			}
			s.Operations = append(s.Operations, o)
		}
		summary.Services = append(summary.Services, s)
	}
	return summary, nil
}

func writeSummary(w io.Writer, s *modelSummary) {
	cliutil.Writef(w, "Model: %s\n", s.Source)
	cliutil.Writef(w, "Smithy version: %s\n", s.Version)
	cliutil.Writef(w, "Shapes: %d\n", s.Shapes)
	kinds := cliutil.NewTable(w, "  ")
	for _, k := range s.Kinds {
		kinds.Row(k.Kind, strconv.Itoa(k.Count))
	}
	kinds.Flush()
	cliutil.Writef(w, "Namespaces:\n")
	for _, ns := range s.Namespaces {
		cliutil.Writef(w, "  %s\n", ns)
	}
	for _, svc := range s.Services {
		cliutil.Writef(w, "\nService %s", svc.ID)
		if svc.Version != "" {
			cliutil.Writef(w, " (version %s)", svc.Version)
		}
		cliutil.Writef(w, "\n")
		ops := cliutil.NewTable(w, "  ")
		for _, op := range svc.Operations {
			code := ""
			if op.Code != 0 {
				code = strconv.Itoa(op.Code)
			}
			ops.Row(op.Method, op.URI, code, op.ID)
		}
		ops.Flush()
	}
}
