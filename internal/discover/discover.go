// Package discover builds test class models from a directory of test data
// files: every matching file becomes a test method and every subdirectory an
// inner test class.
package discover

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/goatx/testgen/internal/strcase"
	"github.com/goatx/testgen/internal/testmodel"
	"github.com/spf13/afero"
)

const (
	DefaultPattern      = "*.kt"
	DefaultTestMethod   = "doTest"
	DefaultDataPathRoot = "$PROJECT_ROOT"
	DefaultUtilsClass   = "KotlinTestUtils"
	DefaultBackendEnum  = "TargetBackend"

	anyBackend       = "ANY"
	backendDirective = "// TARGET_BACKEND:"
)

type Options struct {
	Fs afero.Fs
	// ProjectDir is the directory data strings and test paths are relative to.
	ProjectDir string
	// Root is the test data directory, relative to ProjectDir.
	Root string
	// Name overrides the class name derived from Root.
	Name string
	// Pattern selects test files by base name (doublestar syntax).
	Pattern    string
	TestMethod string
	// TargetBackend filters files carrying TARGET_BACKEND directives. Empty
	// means any backend.
	TargetBackend string
	Recursive     bool
	ExcludeDirs   []string
	DataPathRoot  string
	UtilsClass    string
	BackendEnum   string
}

func (o Options) withDefaults() Options {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	if o.ProjectDir == "" {
		o.ProjectDir = "."
	}
	if o.Pattern == "" {
		o.Pattern = DefaultPattern
	}
	if o.TestMethod == "" {
		o.TestMethod = DefaultTestMethod
	}
	if o.TargetBackend == "" {
		o.TargetBackend = anyBackend
	}
	if o.DataPathRoot == "" {
		o.DataPathRoot = DefaultDataPathRoot
	}
	if o.UtilsClass == "" {
		o.UtilsClass = DefaultUtilsClass
	}
	if o.BackendEnum == "" {
		o.BackendEnum = DefaultBackendEnum
	}
	return o
}

// Build scans opts.Root and returns the class model for it.
func Build(opts Options) (*testmodel.Class, error) {
	opts = opts.withDefaults()

	if !doublestar.ValidatePattern(opts.Pattern) {
		return nil, fmt.Errorf("invalid file pattern %q", opts.Pattern)
	}
	regex, err := globToRegexp(opts.Pattern)
	if err != nil {
		return nil, err
	}

	root := path.Clean(filepath.ToSlash(opts.Root))
	info, err := opts.Fs.Stat(opts.dir(root))
	if err != nil {
		return nil, fmt.Errorf("failed to stat test data root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("test data root %s is not a directory", opts.Root)
	}

	b := &builder{opts: opts, regex: regex}
	name := opts.Name
	if name == "" {
		name = strcase.ToClassName(path.Base(root))
	}
	class, err := b.buildClass(root, name)
	if err != nil {
		return nil, err
	}
	class.DataPath = opts.DataPathRoot
	return class, nil
}

// dir maps a slash separated path relative to ProjectDir to a file system path.
func (o Options) dir(rel string) string {
	return filepath.Join(o.ProjectDir, filepath.FromSlash(rel))
}

type builder struct {
	opts  Options
	regex string
}

func (b *builder) buildClass(dir, name string) (*testmodel.Class, error) {
	entries, err := afero.ReadDir(b.opts.Fs, b.opts.dir(dir))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	class := &testmodel.Class{
		ClassName: name,
		Data:      dir,
		Members:   []testmodel.MethodModel{b.allFilesPresent(dir, name)},
	}

	used := map[string]int{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := doublestar.Match(b.opts.Pattern, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to match %s: %w", entry.Name(), err)
		}
		if !matched {
			continue
		}
		method, err := b.buildMethod(dir, entry.Name(), used)
		if err != nil {
			return nil, err
		}
		class.Members = append(class.Members, method)
	}

	if !b.opts.Recursive {
		return class, nil
	}

	usedClasses := map[string]int{}
	for _, entry := range entries {
		if !entry.IsDir() || slices.Contains(b.opts.ExcludeDirs, entry.Name()) {
			continue
		}
		childName := unique(strcase.ToClassName(entry.Name()), usedClasses)
		child, err := b.buildClass(path.Join(dir, entry.Name()), childName)
		if err != nil {
			return nil, err
		}
		class.Children = append(class.Children, child)
	}
	return class, nil
}

func (b *builder) buildMethod(dir, fileName string, used map[string]int) (*testmodel.Method, error) {
	filePath := path.Join(dir, fileName)
	compatible, err := b.isCompatibleTarget(filePath)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(fileName, path.Ext(fileName))
	name := unique("test"+strcase.ToClassName(base), used)
	return &testmodel.Method{
		MethodName:    name,
		Data:          fileName,
		SignatureText: "public void " + name + "() throws Exception",
		BodyLines:     []string{b.opts.TestMethod + "(" + javaString(filePath) + ");"},
		Skip:          !compatible,
	}, nil
}

func (b *builder) allFilesPresent(dir, className string) *testmodel.Method {
	name := "testAllFilesPresentIn" + className
	line := fmt.Sprintf("%s.assertAllTestsPresentByMetadata(this.getClass(), new File(%s), Pattern.compile(%s), %s.%s, %t);",
		b.opts.UtilsClass, javaString(dir), javaString(b.regex), b.opts.BackendEnum, b.opts.TargetBackend, b.opts.Recursive)
	return &testmodel.Method{
		MethodName:    name,
		SignatureText: "public void " + name + "() throws Exception",
		BodyLines:     []string{line},
		Support:       true,
	}
}

// isCompatibleTarget reports whether the file may run on the configured
// backend: files without TARGET_BACKEND directives run everywhere.
func (b *builder) isCompatibleTarget(filePath string) (bool, error) {
	if b.opts.TargetBackend == anyBackend {
		return true, nil
	}

	content, err := afero.ReadFile(b.opts.Fs, b.opts.dir(filePath))
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	var targets []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if rest, ok := strings.CutPrefix(line, backendDirective); ok {
			for _, target := range strings.Split(rest, ",") {
				targets = append(targets, strings.TrimSpace(target))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("failed to scan %s: %w", filePath, err)
	}

	return len(targets) == 0 || slices.Contains(targets, b.opts.TargetBackend), nil
}

// unique returns name, or name with the lowest free numeric suffix. Every
// returned name is recorded so a later literal name cannot collide with it.
func unique(name string, used map[string]int) string {
	if used[name] == 0 {
		used[name] = 1
		return name
	}
	for n := used[name] + 1; ; n++ {
		cand := name + "_" + strconv.Itoa(n)
		if used[cand] == 0 {
			used[name] = n
			used[cand] = 1
			return cand
		}
	}
}

func javaString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

var errUnclosedClass = errors.New("unclosed character class")

// globToRegexp converts a base name glob into the anchored regular
// expression used by the generated completeness check.
func globToRegexp(glob string) (string, error) {
	var b strings.Builder
	b.WriteString("^")
	depth := 0
	for i := 0; i < len(glob); i++ {
		c := glob[i]
		switch c {
		case '*':
			double := false
			for i+1 < len(glob) && glob[i+1] == '*' {
				double = true
				i++
			}
			if double && i+1 < len(glob) && glob[i+1] == '/' {
				// "**/" also matches zero directories.
				i++
				b.WriteString("(?:.*/)?")
				continue
			}
			b.WriteString("(.*)")
		case '?':
			b.WriteString(".")
		case '[':
			end := strings.IndexByte(glob[i:], ']')
			if end < 0 {
				return "", fmt.Errorf("%w in %q", errUnclosedClass, glob)
			}
			class := glob[i+1 : i+end]
			if strings.HasPrefix(class, "!") {
				class = "^" + class[1:]
			}
			b.WriteString("[" + class + "]")
			i += end
		case '{':
			depth++
			b.WriteString("(")
		case '}':
			depth--
			b.WriteString(")")
		case ',':
			if depth > 0 {
				b.WriteString("|")
			} else {
				b.WriteString(",")
			}
		case '\\':
			if i+1 < len(glob) {
				i++
				b.WriteString(regexpQuote(glob[i]))
			}
		default:
			b.WriteString(regexpQuote(c))
		}
	}
	b.WriteString("$")
	return b.String(), nil
}

func regexpQuote(c byte) string {
	if strings.IndexByte(`.+()|[]{}^$\*?`, c) >= 0 {
		return `\` + string(c)
	}
	return string(c)
}
