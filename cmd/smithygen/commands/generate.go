package commands

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/erraggy/smithygen/internal/cliutil"
	"github.com/erraggy/smithygen/internal/watch"
	"github.com/erraggy/smithygen/pipeline"
)

func newGenerateCommand(a *app) *cobra.Command {
	var (
		source     string
		watchFiles bool
	)

	cmd := &cobra.Command{
		Use:   "generate <model>",
		Short: "Generate Go packages from a Smithy model",
		Long: `Generate one Go package per namespace of a Smithy JSON AST model.

A .smithy argument is built with build.command first. Dependencies named
by the IDL's use directives are resolved against the local registry and
imported from their published packages.`,
		Example: `  smithygen generate model.json -o gen
  smithygen generate --module github.com/acme/api --policy single model.json
  smithygen generate --source weather.smithy --watch build/weather.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newPipeline(false)
			if err != nil {
				return err
			}
			in := pipelineInput(args[0], source)
			out := cmd.OutOrStdout()

			res, err := p.Run(cmd.Context(), in)
			if !watchFiles {
				if err != nil {
					writeIssues(cmd.ErrOrStderr(), res)
					return err
				}
				writeGenerateSummary(out, res, a.cfg.Output)
				return nil
			}

			if err != nil {
				PrintError(cmd.ErrOrStderr(), err)
			} else {
				writeGenerateSummary(out, res, a.cfg.Output)
			}
			return a.watch(cmd.Context(), in, func(ctx context.Context) error {
				res, err := p.Run(ctx, in)
				if err != nil {
					return err
				}
				writeGenerateSummary(out, res, a.cfg.Output)
				return nil
			})
		},
	}

	f := cmd.Flags()
	f.StringP("output", "o", "", "directory generated packages are written to (default gen)")
	f.String("module", "", "module path prefixing generated import paths")
	f.String("policy", "", "namespaces with several services: multiple or single")
	f.StringSlice("namespace", nil, "only generate these namespaces (repeatable)")
	f.Bool("strict", false, "fail on warnings")
	f.Int("concurrency", 0, "namespaces emitted in parallel (0 uses GOMAXPROCS)")
	f.Uint64("seed", 0, "seed of the mock data baked into mocks and tests")
	f.Int("list-size", 0, "elements synthesized for mock lists and maps")
	f.String("build-command", "", "command building a .smithy source, with {source} and {output} placeholders")
	f.String("registry", "", "root directory of the package registry")
	f.String("registry-name", "", "registry dependency versions are resolved in")
	f.StringVar(&source, "source", "", "IDL source whose use directives name the model's dependencies")
	f.BoolVarP(&watchFiles, "watch", "w", false, "regenerate whenever the model or source changes")

	return cmd
}

// watch reruns fn after each change to the input files until ctx ends.
func (a *app) watch(ctx context.Context, in pipeline.Input, fn func(context.Context) error) error {
	var files []string
	for _, f := range []string{in.Model, in.Source} {
		if f != "" {
			files = append(files, f)
		}
	}
	w, err := watch.New(files, watch.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.logger.Info("watching for changes", "files", files)
	return w.Run(ctx, func(ctx context.Context, changed string) error {
		a.logger.Info("regenerating", "file", filepath.Base(changed))
		return fn(ctx)
	})
}

func writeGenerateSummary(w io.Writer, res *pipeline.Result, outputDir string) {
	gen := res.Generate
	cliutil.Writef(w, "Generated %d package(s), %d type(s), %d operation(s) in %v\n",
		len(gen.Packages), gen.GeneratedTypes, gen.GeneratedOperations, res.Duration.Round(time.Millisecond))
	for _, pkg := range gen.Packages {
		cliutil.Writef(w, "  %s -> %s (%d file(s))\n",
			pkg.ImportPath, filepath.Join(outputDir, filepath.FromSlash(pkg.Dir)), len(pkg.Files))
	}
	if gen.WarningCount > 0 {
		cliutil.Writef(w, "Warnings: %d\n", gen.WarningCount)
		writeIssues(w, res)
	}
}
