package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/smithygen/internal/fileutil"
)

// WriteFiles writes every generated package below outputDir, each in its
// own Dir. Directories are created as needed.
func (r *GenerateResult) WriteFiles(outputDir string) error {
	if err := os.MkdirAll(outputDir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, pkg := range r.Packages {
		dir := filepath.Join(outputDir, filepath.FromSlash(pkg.Dir))
		rel, err := filepath.Rel(outputDir, dir)
		if err != nil || !filepath.IsLocal(rel) {
			return fmt.Errorf("invalid package directory %q: must stay inside %s", pkg.Dir, outputDir)
		}
		if err := pkg.WriteFiles(dir); err != nil {
			return fmt.Errorf("package %s: %w", pkg.Namespace, err)
		}
	}

	return nil
}

// WriteFiles writes the package's files directly into dir.
func (p *GeneratedPackage) WriteFiles(dir string) error {
	if err := os.MkdirAll(dir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	for _, file := range p.Files {
		safeName := filepath.Base(file.Name)
		if safeName != file.Name {
			return fmt.Errorf("invalid file name %q: must not contain path separators", file.Name)
		}
		if err := os.WriteFile(filepath.Join(dir, safeName), file.Content, fileutil.ReadableByAll); err != nil {
			return fmt.Errorf("failed to write file %s: %w", file.Name, err)
		}
	}
	return nil
}

// WriteFile writes a single generated file to the specified path.
func (f *GeneratedFile) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, fileutil.DirReadableByAll); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, f.Content, fileutil.ReadableByAll); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
