package commands

import (
	"slices"

	"github.com/spf13/cobra"

	"github.com/erraggy/smithygen/internal/cliutil"
)

func newPublishCommand(a *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "publish <source-or-model>",
		Short: "Generate and publish packages to the local registry",
		Long: `Generate every namespace of a model and publish each package to the
registry under its next patch version (1.0.0 for a new package). The model
is published next to the generated files so dependent models can import
it later. Nothing is published unless every namespace generates.`,
		Example: `  smithygen publish weather.smithy --build-command "smithy ast {source} -o {output}"
  smithygen publish --registry /srv/registry build/weather.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newPipeline(true)
			if err != nil {
				return err
			}
			res, err := p.Run(cmd.Context(), pipelineInput(args[0], source))
			if err != nil {
				writeIssues(cmd.ErrOrStderr(), res)
				return err
			}

			out := cmd.OutOrStdout()
			namespaces := make([]string, 0, len(res.Published))
			for ns := range res.Published {
				namespaces = append(namespaces, ns)
			}
			slices.Sort(namespaces)
			for _, ns := range namespaces {
				cliutil.Writef(out, "Published %s %s to %s\n", ns, res.Published[ns], a.cfg.Registry.Name)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.String("module", "", "module path prefixing generated import paths")
	f.String("policy", "", "namespaces with several services: multiple or single")
	f.Bool("strict", false, "fail on warnings")
	f.Uint64("seed", 0, "seed of the mock data baked into mocks and tests")
	f.Int("list-size", 0, "elements synthesized for mock lists and maps")
	f.String("build-command", "", "command building a .smithy source, with {source} and {output} placeholders")
	f.String("registry", "", "root directory of the package registry")
	f.String("registry-name", "", "registry packages are published to")
	f.StringVar(&source, "source", "", "IDL source whose use directives name the model's dependencies")

	return cmd
}
