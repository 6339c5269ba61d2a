package pipeline

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/kballard/go-shellquote"

	"github.com/erraggy/smithygen/parser"
)

// Placeholders substituted in a build command.
const (
	SourcePlaceholder = "{source}"
	OutputPlaceholder = "{output}"
)

// Builder turns an IDL source file into a JSON AST model.
type Builder interface {
	Build(ctx context.Context, sourceFile string) ([]byte, error)
}

// ExecBuilder runs an external build command. The command is split like
// a shell would; {source} is replaced by the source file and {output} by a
// temporary file the command must write the model to. Without {output}
// the model is read from the command's standard output.
type ExecBuilder struct {
	Command string
	// Dir is the working directory of the command; empty means the
	// directory of the source file.
	Dir    string
	Logger parser.Logger
}

var _ Builder = (*ExecBuilder)(nil)

// Build implements Builder.
func (b *ExecBuilder) Build(ctx context.Context, sourceFile string) ([]byte, error) {
	args, err := shellquote.Split(b.Command)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(err, "pipeline: invalid build command %q", b.Command),
			"check the quoting of build.command")
	}
	if len(args) == 0 {
		return nil, errors.WithHint(
			errors.New("pipeline: no build command configured"),
			"set build.command or pass an already built model")
	}

	var outFile string
	for i, a := range args {
		if strings.Contains(a, OutputPlaceholder) && outFile == "" {
			dir, err := os.MkdirTemp("", "smithygen-build-")
			if err != nil {
				return nil, errors.Wrap(err, "pipeline: creating build directory")
			}
			defer os.RemoveAll(dir)
			outFile = filepath.Join(dir, "model.json")
		}
		a = strings.ReplaceAll(a, SourcePlaceholder, sourceFile)
		args[i] = strings.ReplaceAll(a, OutputPlaceholder, outFile)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = b.Dir
	if cmd.Dir == "" {
		cmd.Dir = filepath.Dir(sourceFile)
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	parser.OrNop(b.Logger).Debug("running build command", "args", args, "dir", cmd.Dir)
	if err := cmd.Run(); err != nil {
		return nil, errors.WithHintf(
			errors.Wrapf(err, "pipeline: build of %s failed", sourceFile),
			"build output:\n%s", strings.TrimSpace(stderr.String()))
	}

	if outFile == "" {
		return stdout.Bytes(), nil
	}
	data, err := os.ReadFile(outFile)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrap(err, "pipeline: build produced no model"),
			"the build command must write the model to {output}")
	}
	return data, nil
}
