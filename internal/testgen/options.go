package testgen

import (
	"path/filepath"
	"strings"
)

// DefaultExtension is the source file extension of generated suites.
const DefaultExtension = "java"

// ClassRef names a class by package and simple name.
type ClassRef struct {
	Package string
	Name    string
}

// ParseClassRef splits a fully qualified class name such as
// "org.example.AbstractTest". A name without a package yields an empty
// Package.
func ParseClassRef(fqn string) ClassRef {
	i := strings.LastIndex(fqn, ".")
	if i < 0 {
		return ClassRef{Name: fqn}
	}
	return ClassRef{Package: fqn[:i], Name: fqn[i+1:]}
}

func (c ClassRef) String() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Framework holds the canonical names of the test framework types that the
// generated sources refer to.
type Framework struct {
	DataPath      string
	Runner        string
	TestUtils     string
	TargetBackend string
	Metadata      string
	RunWith       string
	// GeneratorName is linked from the "do not modify" comment.
	GeneratorName string
}

func DefaultFramework() Framework {
	return Framework{
		DataPath:      "com.intellij.testFramework.TestDataPath",
		Runner:        "org.jetbrains.kotlin.test.JUnit3RunnerWithInners",
		TestUtils:     "org.jetbrains.kotlin.test.KotlinTestUtils",
		TargetBackend: "org.jetbrains.kotlin.test.TargetBackend",
		Metadata:      "org.jetbrains.kotlin.test.TestMetadata",
		RunWith:       "org.junit.runner.RunWith",
		GeneratorName: "org.jetbrains.kotlin.generators.tests.TestsPackage",
	}
}

// Merge returns f with every empty field taken from defaults.
func (f Framework) Merge(defaults Framework) Framework {
	pick := func(v, d string) string {
		if v == "" {
			return d
		}
		return v
	}
	return Framework{
		DataPath:      pick(f.DataPath, defaults.DataPath),
		Runner:        pick(f.Runner, defaults.Runner),
		TestUtils:     pick(f.TestUtils, defaults.TestUtils),
		TargetBackend: pick(f.TargetBackend, defaults.TargetBackend),
		Metadata:      pick(f.Metadata, defaults.Metadata),
		RunWith:       pick(f.RunWith, defaults.RunWith),
		GeneratorName: pick(f.GeneratorName, defaults.GeneratorName),
	}
}

// Options describes one generated suite.
type Options struct {
	BaseDir       string
	SuitePackage  string
	SuiteName     string
	BaseClass     ClassRef
	LicenseHeader string
	// Framework defaults to DefaultFramework when zero.
	Framework Framework
	// Extension defaults to DefaultExtension.
	Extension string
}

// OutputPath returns <BaseDir>/<package as directories>/<SuiteName>.<ext>.
func (o Options) OutputPath() (string, error) {
	ext := o.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	pkgDir := filepath.FromSlash(strings.ReplaceAll(o.SuitePackage, ".", "/"))
	return filepath.Abs(filepath.Join(o.BaseDir, pkgDir, o.SuiteName+"."+ext))
}

func simpleName(fqn string) string {
	return ParseClassRef(fqn).Name
}
