// Package commands implements the smithygen command tree.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/internal/cliutil"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/pipeline"
	"github.com/erraggy/smithygen/pkgversion"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SourceExt marks an IDL source file that has to be built first.
const SourceExt = ".smithy"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data to w as indented JSON or YAML.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// PrintError writes err and any hints attached to it.
func PrintError(w io.Writer, err error) {
	cliutil.Writef(w, "Error: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		cliutil.Writef(w, "Hint: %s\n", hint)
	}
}

// loadModel parses a built model file with reference checking on.
func (a *app) loadModel(path string) (*parser.ParseResult, error) {
	res, err := parser.ParseWithOptions(
		parser.WithFilePath(path),
		parser.WithCheckReferences(true),
		parser.WithLogger(a.logger),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", path)
	}
	return res, nil
}

// pipelineInput classifies the positional argument: .smithy files are
// built, anything else is read as a model with source as its IDL.
func pipelineInput(arg, source string) pipeline.Input {
	if strings.EqualFold(filepath.Ext(arg), SourceExt) {
		return pipeline.Input{Source: arg}
	}
	return pipeline.Input{Model: arg, Source: source}
}

// newPipeline wires the local registry, builder and generator options
// from the configuration. Packages are only published when publish is set.
func (a *app) newPipeline(publish bool) (*pipeline.Pipeline, error) {
	opts, err := a.cfg.GeneratorOptions()
	if err != nil {
		return nil, err
	}
	registry := pkgversion.NewDirRegistry(a.cfg.Registry.Root)
	store := &pipeline.DirPublisher{Registry: registry, Name: a.cfg.Registry.Name}

	p := &pipeline.Pipeline{
		Resolver: registry,
		Loader:   store,
		Registry: a.cfg.Registry.Name,
		Options:  opts,
		Logger:   a.logger,
	}
	if a.cfg.Build.Command != "" {
		p.Builder = &pipeline.ExecBuilder{Command: a.cfg.Build.Command, Logger: a.logger}
	}
	if publish {
		p.Publisher = store
	} else {
		p.Output = a.cfg.Output
	}
	return p, nil
}

// writeIssues lists the generation issues, most severe first.
func writeIssues(w io.Writer, res *pipeline.Result) {
	if res == nil || res.Generate == nil {
		return
	}
	issues := slices.Clone(res.Generate.Issues)
	slices.SortStableFunc(issues, func(a, b generator.GenerateIssue) int {
		return b.Severity.Rank() - a.Severity.Rank()
	})
	for _, issue := range issues {
		cliutil.Writef(w, "  %s\n", issue.String())
	}
}
