// Package testmodel describes the tree of test classes and test methods that
// the suite generator turns into source code.
package testmodel

import (
	"github.com/goatx/testgen/internal/printer"
)

// MethodModel is a single generated test method.
type MethodModel interface {
	Name() string
	// DataString returns the test data location backing the method. When ok
	// is false no metadata annotation is emitted.
	DataString() (data string, ok bool)
	// ShouldBeGenerated reports whether the method is emitted at all.
	ShouldBeGenerated() bool
	// GenerateSignature prints the method signature without the opening
	// brace and without a newline.
	GenerateSignature(p *printer.Printer)
	// GenerateBody prints the method body lines at the current indentation.
	GenerateBody(p *printer.Printer)
}

// ClassModel is a generated test class and, recursively, its inner classes.
type ClassModel interface {
	Name() string
	Methods() []MethodModel
	InnerClasses() []ClassModel
	// IsEmpty reports whether the subtree has nothing to emit. Empty inner
	// classes are dropped from the output.
	IsEmpty() bool
	DataString() (data string, ok bool)
	// DataPathRoot controls the class level data path annotation.
	DataPathRoot() (root string, ok bool)
}

// Method is a plain MethodModel. An empty Data means no metadata.
type Method struct {
	MethodName    string
	Data          string
	SignatureText string
	BodyLines     []string
	// Skip excludes the method from the output.
	Skip bool
	// Support marks bookkeeping methods that are emitted but do not make the
	// enclosing class non-empty.
	Support bool
}

func (m *Method) Name() string {
	return m.MethodName
}

func (m *Method) DataString() (string, bool) {
	return m.Data, m.Data != ""
}

func (m *Method) ShouldBeGenerated() bool {
	return !m.Skip
}

func (m *Method) GenerateSignature(p *printer.Printer) {
	p.Print(m.SignatureText)
}

func (m *Method) GenerateBody(p *printer.Printer) {
	for _, line := range m.BodyLines {
		p.Println(line)
	}
}

// Class is a plain ClassModel. Empty Data and DataPath mean the
// corresponding annotations are not emitted.
type Class struct {
	ClassName string
	Members   []MethodModel
	Children  []ClassModel
	Data      string
	DataPath  string
}

func (c *Class) Name() string {
	return c.ClassName
}

func (c *Class) Methods() []MethodModel {
	return c.Members
}

func (c *Class) InnerClasses() []ClassModel {
	return c.Children
}

// IsEmpty is true when the class declares no test methods (support methods
// excluded) and every inner class is empty.
func (c *Class) IsEmpty() bool {
	for _, m := range c.Members {
		if method, ok := m.(*Method); ok && method.Support {
			continue
		}
		return false
	}
	for _, child := range c.Children {
		if !child.IsEmpty() {
			return false
		}
	}
	return true
}

func (c *Class) DataString() (string, bool) {
	return c.Data, c.Data != ""
}

func (c *Class) DataPathRoot() (string, bool) {
	return c.DataPath, c.DataPath != ""
}
