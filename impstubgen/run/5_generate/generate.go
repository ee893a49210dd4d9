// Package generate renders impstub proxies for detected interfaces.
package generate

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dave/dst"
	astutil "github.com/toejough/impstub/impstubgen/run/0_util"
	detect "github.com/toejough/impstub/impstubgen/run/3_detect"
)

// ImpstubImport is the import path generated code calls into.
const ImpstubImport = "github.com/toejough/impstub"

// Double is the template model of one generated proxy.
type Double struct {
	Package   string
	Type      string
	Name      string
	Interface string
	Imports   []Import
	Methods   []Method
}

// Import is one import of the generated file.
type Import struct {
	Name string
	Path string
}

// Method is one method of the generated proxy, already rendered to source fragments.
type Method struct {
	Name     string
	Params   string
	Results  string
	CallArgs string
	Returns  []string
	Raise    bool
	Accessor bool
}

// Request describes the proxy to generate.
type Request struct {
	// Package is the package clause of the generated file.
	Package string
	// Name is the base name; the proxy is <Name>Double with Mock<Name> and Spy<Name> constructors.
	Name  string
	Iface detect.Interface
	// Qualifier is the name the interface's package is imported as, empty when the proxy lives
	// in the interface's own package.
	Qualifier  string
	ImportPath string
}

// Exported variables.
var (
	ErrReservedMethod    = errors.New("method name collides with the generated accessor")
	ErrUnexportedType    = errors.New("signature uses an unexported type of another package")
	ErrUnresolvedPackage = errors.New("signature refers to a package that is not imported")
)

// Build turns a request into the template model.
func Build(req Request) (Double, error) {
	double := Double{
		Package:   req.Package,
		Type:      req.Name + "Double",
		Name:      req.Name,
		Interface: req.Iface.Name,
	}

	imports := map[string]string{ImpstubImport: ""}

	if req.Qualifier != "" {
		double.Interface = req.Qualifier + "." + req.Iface.Name
		imports[req.ImportPath] = importAlias(req.Qualifier, req.ImportPath)
	}

	for _, ifaceMethod := range req.Iface.Methods {
		if ifaceMethod.Name == accessorName {
			return Double{}, fmt.Errorf("%w: %s.%s", ErrReservedMethod, req.Iface.Name, accessorName)
		}

		printer := &astutil.TypePrinter{Qualifier: req.Qualifier}
		method := buildMethod(printer, ifaceMethod)

		if len(printer.Unexported) > 0 {
			return Double{}, fmt.Errorf("%w: %s uses %s", ErrUnexportedType, ifaceMethod.Name,
				strings.Join(printer.Unexported, ", "))
		}

		for pkg := range printer.Packages {
			path, err := resolvePackage(pkg, ifaceMethod.Imports)
			if err != nil {
				return Double{}, fmt.Errorf("%s: %w", ifaceMethod.Name, err)
			}

			imports[path] = importAlias(pkg, path)
		}

		double.Methods = append(double.Methods, method)
	}

	double.Methods = append(double.Methods, Method{Name: accessorName, Accessor: true})
	slices.SortFunc(double.Methods, func(a, b Method) int { return strings.Compare(a.Name, b.Name) })

	for path, name := range imports {
		double.Imports = append(double.Imports, Import{Name: name, Path: path})
	}

	slices.SortFunc(double.Imports, func(a, b Import) int { return strings.Compare(a.Path, b.Path) })

	return double, nil
}

// Render executes the proxy template for double.
func Render(double Double) (string, error) {
	var buf bytes.Buffer

	err := templates().proxy.Execute(&buf, double)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", double.Type, err)
	}

	return buf.String(), nil
}

// unexported constants.
const (
	accessorName = "StubDouble"
)

func buildMethod(printer *astutil.TypePrinter, ifaceMethod detect.Method) Method {
	method := Method{Name: ifaceMethod.Name, Raise: true}
	callArgs := []string{strconv.Quote(ifaceMethod.Name)}

	var params []string

	if ifaceMethod.Type.Params != nil {
		index := 0

		for _, field := range ifaceMethod.Type.Params.List {
			typ := printer.Print(field.Type)

			names := field.Names
			if len(names) == 0 {
				names = []*dst.Ident{dst.NewIdent("")}
			}

			for _, ident := range names {
				name := paramName(ident.Name, index)
				index++

				params = append(params, name+" "+typ)
				callArgs = append(callArgs, name)
			}
		}
	}

	method.Params = strings.Join(params, ", ")
	method.CallArgs = strings.Join(callArgs, ", ")
	method.Results = printer.Results(ifaceMethod.Type.Results)

	if ifaceMethod.Type.Results == nil {
		return method
	}

	for i, typ := range astutil.ExpandFieldListTypes(ifaceMethod.Type.Results.List, printer.Print) {
		if typ == "error" {
			method.Raise = false
			method.Returns = append(method.Returns, fmt.Sprintf("impstub.ErrResult(out, %d)", i))

			continue
		}

		method.Returns = append(method.Returns, fmt.Sprintf("impstub.Result[%s](out, %d)", typ, i))
	}

	return method
}

func importAlias(name, path string) string {
	if detect.DefaultImportName(path) == name {
		return ""
	}

	return name
}

func paramName(name string, index int) string {
	switch name {
	case "", "_", "d", "out", "impstub":
		return fmt.Sprintf("arg%d", index)
	}

	return name
}

func resolvePackage(pkg string, imports []*dst.ImportSpec) (string, error) {
	for _, imp := range imports {
		if detect.ImportName(imp) == pkg {
			return detect.ImportPath(imp), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnresolvedPackage, pkg)
}
