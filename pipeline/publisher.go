package pipeline

import (
	"context"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/erraggy/smithygen/generator"
	"github.com/erraggy/smithygen/parser"
	"github.com/erraggy/smithygen/pkgversion"
)

// ModelFile is the name under which the source model is published next to
// the generated files, so later runs can import it as a dependency.
const ModelFile = "model.json"

// Publisher stores a generated package under a version.
type Publisher interface {
	Publish(ctx context.Context, namespace string, files []generator.GeneratedFile, version *semver.Version) error
}

// DependencyLoader fetches the model of a published dependency.
type DependencyLoader interface {
	LoadDependency(ctx context.Context, namespace string, version *semver.Version) (*parser.Model, error)
}

// DirPublisher writes packages into the directory layout read by
// pkgversion.DirRegistry.
type DirPublisher struct {
	Registry *pkgversion.DirRegistry
	Name     string
}

var (
	_ Publisher        = (*DirPublisher)(nil)
	_ DependencyLoader = (*DirPublisher)(nil)
)

func (p *DirPublisher) versionDir(namespace string, version *semver.Version) string {
	return filepath.Join(p.Registry.PackageDir(namespace, p.Name), version.String())
}

// Publish implements Publisher. Publishing a version twice fails.
func (p *DirPublisher) Publish(ctx context.Context, namespace string, files []generator.GeneratedFile, version *semver.Version) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := p.versionDir(namespace, version)
	if _, err := os.Stat(dir); err == nil {
		return errors.WithHintf(
			errors.Newf("pipeline: %s %s is already published", namespace, version),
			"remove %s or publish a new version", dir)
	}
	pkg := generator.GeneratedPackage{Namespace: namespace, Files: files}
	if err := pkg.WriteFiles(dir); err != nil {
		return errors.Wrapf(err, "pipeline: publishing %s %s", namespace, version)
	}
	return nil
}

// LoadDependency implements DependencyLoader: it parses the model published
// with the package and keeps only the namespace's own shapes.
func (p *DirPublisher) LoadDependency(ctx context.Context, namespace string, version *semver.Version) (*parser.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(p.versionDir(namespace, version), ModelFile)
	res, err := parser.New().Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "pipeline: loading dependency %s %s", namespace, version)
	}
	return res.Model.Only(namespace), nil
}

// modelFile wraps source model bytes as a publishable file.
func modelFile(data []byte) generator.GeneratedFile {
	return generator.GeneratedFile{Name: ModelFile, Content: data}
}
