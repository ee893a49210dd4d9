// Package detect finds the interfaces impstubgen generates doubles for.
package detect

import (
	"errors"
	"fmt"
	"go/token"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/dave/dst"
)

// Interface is a detected interface with its method set flattened.
type Interface struct {
	Name    string
	Package string
	Methods []Method
}

// Method is one method of a detected interface. Imports are those of the file that declares it,
// which is where the package names in its signature resolve.
type Method struct {
	Name    string
	Type    *dst.FuncType
	Imports []*dst.ImportSpec
}

// PackageLoader loads the files of a package by import path; "." is the working directory.
type PackageLoader interface {
	Load(importPath string) ([]*dst.File, error)
}

// Exported variables.
var (
	ErrEmbeddedImport    = errors.New("embedded interfaces from other packages are not supported")
	ErrGenericInterface  = errors.New("generic interfaces are not supported")
	ErrInterfaceNotFound = errors.New("interface not found")
	ErrInvalidName       = errors.New("invalid interface name")
	ErrNotAnInterface    = errors.New("not an interface")
	ErrPackageNotFound   = errors.New("package not found")
	ErrTypeConstraint    = errors.New("constraint interfaces cannot be doubled")
)

// FindImportPath resolves the package name used in a qualified interface name through the
// imports of files.
func FindImportPath(files []*dst.File, pkgName string) (string, error) {
	for _, file := range files {
		for _, imp := range file.Imports {
			if ImportName(imp) == pkgName {
				return ImportPath(imp), nil
			}
		}
	}

	return "", fmt.Errorf("%w: no import named %s", ErrPackageNotFound, pkgName)
}

// FindInterface looks up name among files and flattens its method set. Only files whose package
// clause is pkgName are searched, unless pkgName is empty.
func FindInterface(files []*dst.File, name, pkgName string) (Interface, error) {
	finder := &finder{files: files, pkgName: pkgName, visiting: make(map[string]bool)}

	methods, declared, err := finder.methods(name)
	if err != nil {
		return Interface{}, err
	}

	return Interface{Name: name, Package: declared, Methods: methods}, nil
}

// ImportName returns the name an import is referred to by: its explicit name, or the last
// element of its path with any major version suffix dropped.
func ImportName(imp *dst.ImportSpec) string {
	if imp.Name != nil {
		return imp.Name.Name
	}

	return DefaultImportName(ImportPath(imp))
}

// DefaultImportName guesses the package name of importPath from its last element.
func DefaultImportName(importPath string) string {
	base := path.Base(importPath)
	if majorVersion.MatchString(base) && path.Dir(importPath) != "." {
		base = path.Base(path.Dir(importPath))
	}

	base = strings.TrimPrefix(base, "go-")
	if dot := strings.Index(base, ".v"); dot > 0 {
		base = base[:dot]
	}

	return strings.ReplaceAll(base, "-", "")
}

// ImportPath returns the unquoted path of imp.
func ImportPath(imp *dst.ImportSpec) string {
	unquoted, err := strconv.Unquote(imp.Path.Value)
	if err != nil {
		return imp.Path.Value
	}

	return unquoted
}

// SplitQualified splits "pkg.Name" into its package and local name. An unqualified name has an
// empty package.
func SplitQualified(qualified string) (pkg, name string, err error) {
	pkg, name, found := strings.Cut(qualified, ".")
	if !found {
		pkg, name = "", qualified
	}

	if !token.IsIdentifier(name) || (found && !token.IsIdentifier(pkg)) {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, qualified)
	}

	return pkg, name, nil
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled once.
	majorVersion = regexp.MustCompile(`^v[0-9]+$`)
)

type finder struct {
	files    []*dst.File
	pkgName  string
	visiting map[string]bool
}

type located struct {
	iface   *dst.InterfaceType
	spec    *dst.TypeSpec
	imports []*dst.ImportSpec
	pkgName string
}

func (f *finder) locate(name string) (located, error) {
	for _, file := range f.files {
		if f.pkgName != "" && file.Name.Name != f.pkgName {
			continue
		}

		for _, decl := range file.Decls {
			genDecl, ok := decl.(*dst.GenDecl)
			if !ok || genDecl.Tok != token.TYPE {
				continue
			}

			for _, spec := range genDecl.Specs {
				typeSpec, ok := spec.(*dst.TypeSpec)
				if !ok || typeSpec.Name.Name != name {
					continue
				}

				iface, ok := typeSpec.Type.(*dst.InterfaceType)
				if !ok {
					return located{}, fmt.Errorf("%w: %s", ErrNotAnInterface, name)
				}

				return located{iface: iface, spec: typeSpec, imports: file.Imports, pkgName: file.Name.Name}, nil
			}
		}
	}

	where := f.pkgName
	if where == "" {
		where = "the loaded files"
	}

	return located{}, fmt.Errorf("%w: %s in %s", ErrInterfaceNotFound, name, where)
}

func (f *finder) methods(name string) ([]Method, string, error) {
	found, err := f.locate(name)
	if err != nil {
		return nil, "", err
	}

	if found.spec.TypeParams != nil && len(found.spec.TypeParams.List) > 0 {
		return nil, "", fmt.Errorf("%w: %s", ErrGenericInterface, name)
	}

	f.visiting[name] = true
	defer delete(f.visiting, name)

	var methods []Method

	seen := make(map[string]bool)
	add := func(method Method) {
		if !seen[method.Name] {
			seen[method.Name] = true
			methods = append(methods, method)
		}
	}

	if found.iface.Methods == nil {
		return nil, found.pkgName, nil
	}

	for _, field := range found.iface.Methods.List {
		embedded, err := f.field(name, field, found.imports)
		if err != nil {
			return nil, "", err
		}

		for _, method := range embedded {
			add(method)
		}
	}

	return methods, found.pkgName, nil
}

func (f *finder) field(owner string, field *dst.Field, imports []*dst.ImportSpec) ([]Method, error) {
	switch fieldType := field.Type.(type) {
	case *dst.FuncType:
		methods := make([]Method, 0, len(field.Names))
		for _, ident := range field.Names {
			methods = append(methods, Method{Name: ident.Name, Type: fieldType, Imports: imports})
		}

		return methods, nil
	case *dst.Ident:
		if fieldType.Name == "error" {
			return []Method{errorMethod()}, nil
		}

		if f.visiting[fieldType.Name] {
			return nil, nil
		}

		methods, _, err := f.methods(fieldType.Name)
		if err != nil {
			return nil, fmt.Errorf("%s embeds %s: %w", owner, fieldType.Name, err)
		}

		return methods, nil
	case *dst.SelectorExpr:
		return nil, fmt.Errorf("%w: %s embeds %s", ErrEmbeddedImport, owner, dstSelector(fieldType))
	default:
		return nil, fmt.Errorf("%w: %s", ErrTypeConstraint, owner)
	}
}

func dstSelector(sel *dst.SelectorExpr) string {
	if pkg, ok := sel.X.(*dst.Ident); ok {
		return pkg.Name + "." + sel.Sel.Name
	}

	return sel.Sel.Name
}

func errorMethod() Method {
	return Method{
		Name: "Error",
		Type: &dst.FuncType{
			Params:  &dst.FieldList{},
			Results: &dst.FieldList{List: []*dst.Field{{Type: dst.NewIdent("string")}}},
		},
	}
}
