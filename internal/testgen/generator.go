// Package testgen emits JUnit test suite sources from a tree of test class
// models and persists them only when their content changes.
package testgen

import (
	"context"
	"fmt"

	"github.com/goatx/testgen/internal/fileutil"
	"github.com/goatx/testgen/internal/testmodel"
)

// ErrNoModels is returned by New when no class model is given.
var ErrNoModels = testmodel.ErrNoModels

// Generator produces a single suite file.
type Generator struct {
	opts   Options
	root   testmodel.ClassModel
	path   string
	writer *fileutil.Writer
}

// New prepares the generator for one suite. The output path is claimed in reg
// right away, so a second generator for the same file in the same run fails
// here, before any generation work.
func New(reg *Registry, writer *fileutil.Writer, opts Options, models []testmodel.ClassModel) (*Generator, error) {
	root, err := testmodel.Root(opts.SuiteName, models)
	if err != nil {
		return nil, fmt.Errorf("suite %s: %w", opts.SuiteName, err)
	}

	path, err := opts.OutputPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path for %s: %w", opts.SuiteName, err)
	}

	if err := reg.Register(path); err != nil {
		return nil, err
	}

	return &Generator{
		opts:   opts,
		root:   root,
		path:   path,
		writer: writer,
	}, nil
}

// Path is the absolute path of the generated file.
func (g *Generator) Path() string {
	return g.path
}

// Render returns the suite source without writing it.
func (g *Generator) Render() string {
	return Render(g.opts, g.root)
}

// Generate renders the suite and writes it if it differs from the file on
// disk. It reports whether the file was written.
func (g *Generator) Generate(ctx context.Context) (bool, error) {
	content := g.Render()

	if err := ctx.Err(); err != nil {
		return false, err
	}

	written, err := g.writer.WriteIfChanged(g.path, []byte(content))
	if err != nil {
		return false, fmt.Errorf("failed to save suite %s: %w", g.opts.SuiteName, err)
	}
	return written, nil
}
