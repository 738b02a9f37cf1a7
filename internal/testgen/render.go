package testgen

import (
	"github.com/goatx/testgen/internal/printer"
	"github.com/goatx/testgen/internal/testmodel"
)

type renderer struct {
	p         *printer.Printer
	framework Framework
	baseClass ClassRef
}

// Render produces the complete compilation unit for a suite whose root class
// is root.
func Render(opts Options, root testmodel.ClassModel) string {
	r := &renderer{
		p:         printer.New(),
		framework: opts.Framework.Merge(DefaultFramework()),
		baseClass: opts.BaseClass,
	}
	r.renderHeader(opts)
	r.renderClass(root, false, false)
	return r.p.String()
}

func (r *renderer) renderHeader(opts Options) {
	p := r.p
	f := r.framework

	if opts.LicenseHeader != "" {
		p.Println(opts.LicenseHeader)
	}
	p.Println("package ", opts.SuitePackage, ";")
	p.Println()
	p.Println("import ", f.DataPath, ";")
	p.Println("import ", f.Runner, ";")
	p.Println("import ", f.TestUtils, ";")
	p.Println("import ", f.TargetBackend, ";")
	// Classes in the default package cannot be imported.
	if r.baseClass.Package != "" && r.baseClass.Package != opts.SuitePackage {
		p.Println("import ", r.baseClass.String(), ";")
	}
	p.Println("import ", f.Metadata, ";")
	p.Println("import ", f.RunWith, ";")
	p.Println()
	p.Println("import java.io.File;")
	p.Println("import java.util.regex.Pattern;")
	p.Println()
	p.Println("/** This class is generated by {@link ", f.GeneratorName, "}. DO NOT MODIFY MANUALLY */")
	p.Println(`@SuppressWarnings("all")`)
}

func (r *renderer) renderClass(class testmodel.ClassModel, isStatic, isInner bool) {
	p := r.p

	r.renderMetadata(class)
	if root, ok := class.DataPathRoot(); ok {
		p.Println("@", simpleName(r.framework.DataPath), `("`, root, `")`)
	}
	if !isInner {
		p.Println("@", simpleName(r.framework.RunWith), "(", simpleName(r.framework.Runner), ".class)")
	}

	modifier := ""
	if isStatic {
		modifier = "static "
	}
	p.Println("public ", modifier, "class ", class.Name(), " extends ", r.baseClass.Name, " {")
	p.PushIndent()

	first := true
	separate := func() {
		if first {
			first = false
			return
		}
		p.Println()
	}

	for _, method := range class.Methods() {
		if !method.ShouldBeGenerated() {
			continue
		}
		separate()
		r.renderMethod(method)
	}

	for _, inner := range class.InnerClasses() {
		if inner.IsEmpty() {
			continue
		}
		separate()
		r.renderClass(inner, true, true)
	}

	p.PopIndent()
	p.Println("}")
}

func (r *renderer) renderMethod(method testmodel.MethodModel) {
	p := r.p

	r.renderMetadata(method)
	method.GenerateSignature(p)
	p.PrintNoIndent(" {")
	p.Println()

	p.PushIndent()
	method.GenerateBody(p)
	p.PopIndent()
	p.Println("}")
}

type dataSource interface {
	DataString() (string, bool)
}

func (r *renderer) renderMetadata(entity dataSource) {
	if data, ok := entity.DataString(); ok {
		r.p.Println("@", simpleName(r.framework.Metadata), `("`, data, `")`)
	}
}
