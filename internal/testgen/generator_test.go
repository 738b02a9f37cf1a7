package testgen

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goatx/testgen/internal/fileutil"
	"github.com/goatx/testgen/internal/logger"
	"github.com/goatx/testgen/internal/test"
	"github.com/goatx/testgen/internal/testmodel"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

func method(name, data, path string) *testmodel.Method {
	return &testmodel.Method{
		MethodName:    name,
		Data:          data,
		SignatureText: "public void " + name + "() throws Exception",
		BodyLines:     []string{fmt.Sprintf("runTest(%q);", path)},
	}
}

func newWriter(fsys afero.Fs) *fileutil.Writer {
	return fileutil.NewWriter(fsys, logger.NewLogger(logger.TestConfig()))
}

func TestRender(t *testing.T) {
	t.Parallel()

	golden := test.ReadArchive(t, "suites.txtar")

	skipped := method("testSkipped", "skipped.kt", "testData/c/skipped.kt")
	skipped.Skip = true
	onlySkipped := method("testOther", "", "testData/d/other.kt")
	onlySkipped.Skip = true

	tests := []struct {
		name   string
		opts   Options
		models []testmodel.ClassModel
		golden string
	}{
		{
			name: "single model is renamed to the suite",
			opts: Options{
				SuitePackage:  "org.example.tests",
				SuiteName:     "Bar",
				BaseClass:     ParseClassRef("org.example.AbstractFooTest"),
				LicenseHeader: "/*\n * License\n */",
			},
			models: []testmodel.ClassModel{
				&testmodel.Class{
					ClassName: "Foo",
					Data:      "testData/foo",
					DataPath:  "$PROJECT_ROOT",
					Members: []testmodel.MethodModel{
						method("testA", "a.kt", "testData/foo/a.kt"),
						method("testB", "b.kt", "testData/foo/b.kt"),
					},
				},
			},
			golden: "single.java",
		},
		{
			name: "several models become inner classes",
			opts: Options{
				SuitePackage: "org.example",
				SuiteName:    "Suite",
				BaseClass:    ParseClassRef("org.example.AbstractFooTest"),
			},
			models: []testmodel.ClassModel{
				&testmodel.Class{
					ClassName: "A",
					Data:      "testData/a",
					DataPath:  "$PROJECT_ROOT",
					Members:   []testmodel.MethodModel{method("testX", "x.kt", "testData/a/x.kt")},
				},
				&testmodel.Class{ClassName: "B"},
				&testmodel.Class{
					ClassName: "C",
					Members: []testmodel.MethodModel{
						skipped,
						method("testY", "", "testData/c/y.kt"),
					},
					Children: []testmodel.ClassModel{
						&testmodel.Class{ClassName: "Empty"},
						&testmodel.Class{
							ClassName: "Nested",
							Data:      "testData/c/nested",
							Members:   []testmodel.MethodModel{method("testZ", "", "testData/c/nested/z.kt")},
						},
					},
				},
				&testmodel.Class{
					ClassName: "D",
					Members:   []testmodel.MethodModel{onlySkipped},
				},
			},
			golden: "multi.java",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := testmodel.Root(tt.opts.SuiteName, tt.models)
			if err != nil {
				t.Fatalf("Root() error = %v", err)
			}

			got := Render(tt.opts, root)
			if diff := cmp.Diff(golden[tt.golden], got); diff != "" {
				t.Fatalf("rendered suite mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_annotations(t *testing.T) {
	t.Parallel()

	opts := Options{
		SuitePackage: "org.example",
		SuiteName:    "Plain",
		BaseClass:    ParseClassRef("org.example.AbstractFooTest"),
	}
	root, err := testmodel.Root("Plain", []testmodel.ClassModel{
		&testmodel.Class{
			ClassName: "Outer",
			Members:   []testmodel.MethodModel{method("testA", "", "a.kt")},
			Children: []testmodel.ClassModel{
				&testmodel.Class{
					ClassName: "Inner",
					Members:   []testmodel.MethodModel{method("testB", "", "b.kt")},
					Children: []testmodel.ClassModel{
						&testmodel.Class{
							ClassName: "Deepest",
							Members:   []testmodel.MethodModel{method("testC", "", "c.kt")},
						},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("Root() error = %v", err)
	}

	got := Render(opts, root)

	if n := strings.Count(got, "@RunWith("); n != 1 {
		t.Fatalf("found %d run-with annotations, want 1", n)
	}
	if strings.Contains(got, "@TestMetadata(") {
		t.Fatal("unexpected metadata annotation without data strings")
	}
	if strings.Contains(got, "@TestDataPath(") {
		t.Fatal("unexpected data path annotation without data path roots")
	}
	if !strings.Contains(got, "@RunWith(JUnit3RunnerWithInners.class)\npublic class Plain extends AbstractFooTest {\n") {
		t.Fatalf("class declaration must follow the run-with annotation:\n%s", got)
	}
	if !strings.Contains(got, "\n    }\n\n    public static class Inner extends AbstractFooTest {\n") {
		t.Fatalf("inner class must be static and separated by one blank line:\n%s", got)
	}
	if !strings.Contains(got, "        public static class Deepest extends AbstractFooTest {\n") {
		t.Fatalf("nested inner class not indented:\n%s", got)
	}
	if strings.Contains(got, "\n\n\n") || strings.Contains(got, "{\n\n") || strings.Contains(got, "\n\n    }") {
		t.Fatalf("unexpected blank lines:\n%s", got)
	}
}

func TestRender_customFramework(t *testing.T) {
	t.Parallel()

	opts := Options{
		SuitePackage: "com.acme",
		SuiteName:    "AcmeTest",
		BaseClass:    ClassRef{Name: "Base"},
		Framework: Framework{
			Runner:        "com.acme.test.AcmeRunner",
			GeneratorName: "com.acme.Gen",
		},
	}
	got := Render(opts, testmodel.Aggregate{SuiteName: "AcmeTest"})

	for _, want := range []string{
		"import com.acme.test.AcmeRunner;\n",
		"import org.jetbrains.kotlin.test.TestMetadata;\n",
		"{@link com.acme.Gen}",
		"@RunWith(AcmeRunner.class)\npublic class AcmeTest extends Base {\n}\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "import Base;") {
		t.Errorf("base class in the default package must not be imported:\n%s", got)
	}
}

func TestGenerator_GenerateIsIdempotent(t *testing.T) {
	t.Parallel()

	baseDir := t.TempDir()
	opts := Options{
		BaseDir:      baseDir,
		SuitePackage: "org.example.tests",
		SuiteName:    "IdempotentTest",
		BaseClass:    ParseClassRef("org.example.AbstractFooTest"),
	}
	models := []testmodel.ClassModel{
		&testmodel.Class{
			ClassName: "Foo",
			Members:   []testmodel.MethodModel{method("testA", "a.kt", "a.kt")},
		},
	}
	writer := newWriter(afero.NewOsFs())

	gen, err := New(NewRegistry(), writer, opts, models)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	wantPath := filepath.Join(baseDir, "org", "example", "tests", "IdempotentTest.java")
	if gen.Path() != wantPath {
		t.Fatalf("Path() = %q, want %q", gen.Path(), wantPath)
	}

	written, err := gen.Generate(t.Context())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !written {
		t.Fatal("first Generate() did not write the file")
	}
	first, err := os.ReadFile(gen.Path())
	if err != nil {
		t.Fatal(err)
	}

	old := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if err := os.Chtimes(gen.Path(), old, old); err != nil {
		t.Fatal(err)
	}

	again, err := New(NewRegistry(), writer, opts, models)
	if err != nil {
		t.Fatalf("New() in a new run error = %v", err)
	}
	written, err = again.Generate(t.Context())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if written {
		t.Fatal("second Generate() rewrote an up to date file")
	}

	info, err := os.Stat(gen.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !info.ModTime().Equal(old) {
		t.Fatalf("ModTime() = %v, want %v", info.ModTime(), old)
	}
	second, err := os.ReadFile(gen.Path())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Fatalf("content changed between runs (-first +second):\n%s", diff)
	}
}

func TestGenerator_GenerateCancelled(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	gen, err := New(NewRegistry(), newWriter(fsys), Options{
		BaseDir:      "/out",
		SuitePackage: "p",
		SuiteName:    "S",
		BaseClass:    ClassRef{Package: "p", Name: "Base"},
	}, []testmodel.ClassModel{&testmodel.Class{ClassName: "X"}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := gen.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate() error = %v, want %v", err, context.Canceled)
	}
	if ok, _ := afero.Exists(fsys, gen.Path()); ok {
		t.Fatal("cancelled generation must not write")
	}
}

func TestNew_DuplicateOutput(t *testing.T) {
	t.Parallel()

	fsys := afero.NewMemMapFs()
	reg := NewRegistry()
	opts := Options{
		BaseDir:      "/out",
		SuitePackage: "org.example",
		SuiteName:    "DupTest",
		BaseClass:    ParseClassRef("org.example.AbstractFooTest"),
	}
	models := []testmodel.ClassModel{&testmodel.Class{ClassName: "Foo"}}

	if _, err := New(reg, newWriter(fsys), opts, models); err != nil {
		t.Fatalf("first New() error = %v", err)
	}

	_, err := New(reg, newWriter(fsys), opts, models)
	if !errors.Is(err, ErrDuplicateOutput) {
		t.Fatalf("second New() error = %v, want %v", err, ErrDuplicateOutput)
	}
	if !strings.Contains(err.Error(), filepath.Join("org", "example", "DupTest.java")) {
		t.Fatalf("error %q does not name the duplicate path", err)
	}

	entries, err := afero.ReadDir(fsys, "/")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("construction performed file I/O: %v", entries)
	}
}

func TestNew_NoModels(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := New(reg, newWriter(afero.NewMemMapFs()), Options{SuiteName: "Empty"}, nil)
	if !errors.Is(err, ErrNoModels) {
		t.Fatalf("New() error = %v, want %v", err, ErrNoModels)
	}
	if paths := reg.Paths(); len(paths) != 0 {
		t.Fatalf("rejected suite registered %v", paths)
	}
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	const workers = 32

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := reg.Register("/out/Same.java"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrDuplicateOutput) {
				t.Errorf("Register() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("%d registrations succeeded, want 1", successes)
	}
	if diff := cmp.Diff([]string{"/out/Same.java"}, reg.Paths()); diff != "" {
		t.Fatalf("Paths() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseClassRef(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  ClassRef
	}{
		{"org.example.AbstractFooTest", ClassRef{Package: "org.example", Name: "AbstractFooTest"}},
		{"Base", ClassRef{Name: "Base"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			got := ParseClassRef(tt.input)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("ParseClassRef() mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.input {
				t.Fatalf("String() = %q, want %q", got.String(), tt.input)
			}
		})
	}
}

func TestOptions_OutputPath(t *testing.T) {
	t.Parallel()

	got, err := Options{BaseDir: "/gen", SuitePackage: "a.b.c", SuiteName: "DTest", Extension: "kt"}.OutputPath()
	if err != nil {
		t.Fatalf("OutputPath() error = %v", err)
	}
	if want := filepath.Join("/gen", "a", "b", "c", "DTest.kt"); got != want {
		t.Fatalf("OutputPath() = %q, want %q", got, want)
	}
}
