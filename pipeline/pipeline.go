// Package pipeline runs the complete generation workflow: build the IDL
// source, load the model, resolve dependency versions, generate, and
// publish.
//
// Each collaborator is an interface so the workflow runs against local
// directories (ExecBuilder, DirPublisher, pkgversion.DirRegistry) or any
// other implementation.
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/pkgversion"
	"github.com/erraggy/smithygen/shapeerrors"
)

// Input names the files a run starts from. At least one must be set.
type Input struct {
	// Source is the IDL source file. Its use directives populate the
	// dependency table, and it is built when Model is empty.
	Source string
	// Model is an already built JSON AST (or YAML) model.
	Model string
}

// Pipeline wires the collaborators of a run. Builder, Loader and Publisher
// are optional.
type Pipeline struct {
	Builder   Builder
	Resolver  pkgversion.Resolver
	Loader    DependencyLoader
	Publisher Publisher
	// Registry is the registry name versions are resolved in.
	Registry string
	// Output, when set, receives the generated packages.
	Output string
	// Options configure generation.
	Options []generator.Option
	Logger  parser.Logger
}

// Result reports what a run produced.
type Result struct {
	Generate *generator.GenerateResult
	// Published maps each published namespace to its new version.
	Published map[string]*semver.Version
	Duration  time.Duration
}

func (p *Pipeline) log() parser.Logger {
	return parser.OrNop(p.Logger)
}

// Run executes the workflow. Publication happens only when every namespace
// generated successfully.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	start := time.Now()

	data, name, err := p.load(ctx, in)
	if err != nil {
		return nil, err
	}

	parseOpts := []parser.Option{
		parser.WithBytes(data),
		parser.WithSourceName(name),
		parser.WithLogger(p.Logger),
	}
	if in.Source != "" {
		parseOpts = append(parseOpts, parser.WithSourceFile(in.Source))
	}
	parsed, err := parser.ParseWithOptions(parseOpts...)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: loading %s", name)
	}
	p.log().Info("loaded model", "source", name, "shapes", parsed.Model.Len(), "dependencies", len(parsed.Dependencies))

	opts := append([]generator.Option{}, p.Options...)
	if p.Resolver != nil && len(parsed.Dependencies) > 0 {
		resolved, err := pkgversion.ResolveDependencies(ctx, p.Resolver, parsed.Dependencies, p.Registry)
		if err != nil {
			return nil, errors.Wrap(err, "pipeline: resolving dependency versions")
		}
		parsed.Dependencies = resolved
		for _, ns := range resolved.Namespaces() {
			v := resolved[ns]
			if v == nil {
				p.log().Warn("dependency has no published version", "namespace", ns)
				continue
			}
			p.log().Info("resolved dependency", "namespace", ns, "version", v.String())
			if p.Loader == nil {
				continue
			}
			model, err := p.Loader.LoadDependency(ctx, ns, v)
			if err != nil {
				return nil, err
			}
			opts = append(opts, generator.WithDependency(model, v))
		}
	}

	opts = append(opts, generator.WithParsed(*parsed), generator.WithLogger(p.Logger))
	genResult, err := generator.GenerateWithOptions(opts...)
	result := &Result{Generate: genResult, Published: make(map[string]*semver.Version)}
	if err != nil {
		err = errors.Wrap(err, "pipeline: generation failed")
		if errors.Is(err, shapeerrors.ErrUnresolvedReference) {
			err = errors.WithHint(err, "publish the missing dependency or add its model with a use directive")
		}
		return result, err
	}
	p.log().Info("generated", "packages", len(genResult.Packages),
		"types", genResult.GeneratedTypes, "operations", genResult.GeneratedOperations)

	if p.Output != "" {
		if err := genResult.WriteFiles(p.Output); err != nil {
			return result, errors.Wrap(err, "pipeline: writing output")
		}
		p.log().Info("wrote packages", "dir", p.Output)
	}

	if p.Publisher != nil {
		if err := p.publish(ctx, genResult, data, result); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// load returns the model bytes and a display name, building the source
// when no model file is given.
func (p *Pipeline) load(ctx context.Context, in Input) ([]byte, string, error) {
	switch {
	case in.Model != "":
		data, err := os.ReadFile(in.Model)
		if err != nil {
			return nil, "", errors.Wrapf(err, "pipeline: reading model %s", in.Model)
		}
		return data, in.Model, nil
	case in.Source != "":
		if p.Builder == nil {
			return nil, "", errors.WithHint(
				errors.Newf("pipeline: %s needs to be built", in.Source),
				"configure build.command or pass the built model")
		}
		p.log().Info("building", "source", in.Source)
		data, err := p.Builder.Build(ctx, in.Source)
		if err != nil {
			return nil, "", err
		}
		return data, strings.TrimSuffix(filepath.Base(in.Source), filepath.Ext(in.Source)) + ".json", nil
	}
	return nil, "", errors.New("pipeline: no source or model given")
}

func (p *Pipeline) publish(ctx context.Context, gen *generator.GenerateResult, model []byte, result *Result) error {
	if p.Resolver == nil {
		return errors.New("pipeline: publishing needs a version resolver")
	}
	for _, pkg := range gen.Packages {
		version, err := p.Resolver.NextVersion(ctx, pkg.Namespace, p.Registry)
		if err != nil {
			return errors.Wrapf(err, "pipeline: computing version of %s", pkg.Namespace)
		}
		files := append(append([]generator.GeneratedFile{}, pkg.Files...), modelFile(model))
		if err := p.Publisher.Publish(ctx, pkg.Namespace, files, version); err != nil {
			return err
		}
		result.Published[pkg.Namespace] = version
		p.log().Info("published", "namespace", pkg.Namespace, "version", version.String())
	}
	return nil
}
