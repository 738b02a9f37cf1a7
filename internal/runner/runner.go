// Package runner drives one generation run: it turns a manifest into suite
// generators and executes them against a shared output registry.
package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goatx/testgen/internal/config"
	"github.com/goatx/testgen/internal/discover"
	"github.com/goatx/testgen/internal/fileutil"
	"github.com/goatx/testgen/internal/logger"
	"github.com/goatx/testgen/internal/testgen"
	"github.com/goatx/testgen/internal/testmodel"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Fs     afero.Fs
	Jobs   int
	DryRun bool
}

// Result lists the suite files of a run.
type Result struct {
	Written   []string
	Unchanged []string
}

// Run generates every suite of cfg. All suites share one registry, so two
// suites resolving to the same file fail the run before anything is written
// for the second one.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	log := logger.FromContext(ctx)

	license, err := loadLicense(opts.Fs, cfg)
	if err != nil {
		return nil, err
	}

	reg := testgen.NewRegistry()

	var (
		mu     sync.Mutex
		result Result
	)

	g, ctx := errgroup.WithContext(ctx)
	if opts.Jobs > 0 {
		g.SetLimit(opts.Jobs)
	}
	for _, suite := range cfg.Suites {
		g.Go(func() error {
			gen, err := newGenerator(reg, log.With("suite", suite.Name), opts, cfg, suite, license)
			if err != nil {
				return err
			}
			written, err := gen.Generate(ctx)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if written {
				result.Written = append(result.Written, gen.Path())
			} else {
				result.Unchanged = append(result.Unchanged, gen.Path())
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(result.Written)
	sort.Strings(result.Unchanged)
	log.Info("generation finished", "written", len(result.Written), "unchanged", len(result.Unchanged))
	return &result, nil
}

func newGenerator(reg *testgen.Registry, log logger.Logger, runOpts Options, cfg *config.Config, suite config.SuiteConfig, license string) (*testgen.Generator, error) {
	opts := testgen.Options{
		BaseDir:       filepath.Join(cfg.ProjectDir, cfg.OutputDir),
		SuitePackage:  suite.Package,
		SuiteName:     suite.Name,
		BaseClass:     testgen.ParseClassRef(suite.BaseClass),
		LicenseHeader: license,
		Framework:     frameworkFromConfig(cfg.Framework),
		Extension:     cfg.Extension,
	}

	models := make([]testmodel.ClassModel, 0, len(suite.Models))
	for _, m := range suite.Models {
		class, err := discover.Build(discover.Options{
			Fs:            runOpts.Fs,
			ProjectDir:    cfg.ProjectDir,
			Root:          m.Root,
			Name:          m.Name,
			Pattern:       m.Pattern,
			TestMethod:    m.TestMethod,
			TargetBackend: m.TargetBackend,
			Recursive:     m.Recursive,
			ExcludeDirs:   m.ExcludeDirs,
			DataPathRoot:  m.DataPathRoot,
		})
		if err != nil {
			return nil, fmt.Errorf("suite %s: %w", suite.Name, err)
		}
		models = append(models, class)
	}
	log.Debug("models discovered", "count", len(models))

	writer := fileutil.NewWriter(runOpts.Fs, log, fileutil.WithDryRun(runOpts.DryRun))
	return testgen.New(reg, writer, opts, models)
}

func frameworkFromConfig(c config.FrameworkConfig) testgen.Framework {
	return testgen.Framework{
		DataPath:      c.DataPath,
		Runner:        c.Runner,
		TestUtils:     c.TestUtils,
		TargetBackend: c.TargetBackend,
		Metadata:      c.Metadata,
		RunWith:       c.RunWith,
		GeneratorName: c.GeneratorName,
	}
}

func loadLicense(fsys afero.Fs, cfg *config.Config) (string, error) {
	if cfg.License == "" {
		return "", nil
	}
	path := cfg.License
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.ProjectDir, path)
	}
	b, err := afero.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("failed to load license header: %w", err)
	}
	return string(b), nil
}
