// Package pkgversion resolves published versions of generated packages.
//
// A registry is a directory tree laid out as <root>/<registry>/<pkg>/<version>,
// the layout written by pipeline.DirPublisher. Version directory names are
// semantic versions; anything else is ignored.
package pkgversion

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/Masterminds/semver/v3"

	"github.com/erraggy/smithygen/parser"
)

// ErrNoVersions is returned by LatestVersion when a package has never been
// published.
var ErrNoVersions = errors.New("pkgversion: no published versions")

// InitialVersion is the first version of a package.
var InitialVersion = semver.MustParse("1.0.0")

// Resolver looks up package versions in a named registry.
type Resolver interface {
	// LatestVersion returns the highest published version of pkg.
	LatestVersion(ctx context.Context, pkg, registry string) (*semver.Version, error)
	// NextVersion returns the version the next publication of pkg gets.
	NextVersion(ctx context.Context, pkg, registry string) (*semver.Version, error)
}

// DirRegistry resolves versions from a local directory tree.
type DirRegistry struct {
	Root string
}

var _ Resolver = (*DirRegistry)(nil)

// NewDirRegistry returns a registry rooted at root.
func NewDirRegistry(root string) *DirRegistry {
	return &DirRegistry{Root: root}
}

// PackageDir returns the directory holding the versions of pkg.
func (r *DirRegistry) PackageDir(pkg, registry string) string {
	return filepath.Join(r.Root, registry, pkg)
}

// Versions returns every published version of pkg in ascending order.
func (r *DirRegistry) Versions(ctx context.Context, pkg, registry string) ([]*semver.Version, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(r.PackageDir(pkg, registry))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("pkgversion: reading %s: %w", pkg, err)
	}
	var versions []*semver.Version
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v, err := semver.NewVersion(e.Name())
		if err != nil {
			continue
		}
		versions = append(versions, v)
	}
	sort.Sort(semver.Collection(versions))
	return versions, nil
}

// LatestVersion implements Resolver.
func (r *DirRegistry) LatestVersion(ctx context.Context, pkg, registry string) (*semver.Version, error) {
	versions, err := r.Versions(ctx, pkg, registry)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("%w for %s in %s", ErrNoVersions, pkg, registry)
	}
	return versions[len(versions)-1], nil
}

// NextVersion implements Resolver: the latest version with its patch
// incremented, or InitialVersion for a new package.
func (r *DirRegistry) NextVersion(ctx context.Context, pkg, registry string) (*semver.Version, error) {
	return Next(ctx, r, pkg, registry)
}

// Next computes the next version of pkg from any resolver's LatestVersion.
func Next(ctx context.Context, r Resolver, pkg, registry string) (*semver.Version, error) {
	latest, err := r.LatestVersion(ctx, pkg, registry)
	if errors.Is(err, ErrNoVersions) {
		return InitialVersion, nil
	}
	if err != nil {
		return nil, err
	}
	next := latest.IncPatch()
	return &next, nil
}

// ResolveDependencies fills every unresolved namespace of deps with the
// latest version published under the namespace name. Namespaces that were
// never published stay unresolved.
func ResolveDependencies(ctx context.Context, r Resolver, deps parser.DependencyTable, registry string) (parser.DependencyTable, error) {
	out := deps
	for _, ns := range deps.Unresolved() {
		v, err := r.LatestVersion(ctx, ns, registry)
		if errors.Is(err, ErrNoVersions) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = out.With(ns, v)
	}
	return out, nil
}
