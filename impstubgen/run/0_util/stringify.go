// Package astutil renders dst type expressions back to Go source.
package astutil

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/dave/dst"
)

// TypePrinter renders type expressions for code that lives outside the declaring package.
// With a Qualifier set, identifiers declared in that package are prefixed with it. Every package
// name a selector refers to is recorded in Packages.
type TypePrinter struct {
	Qualifier  string
	Packages   map[string]bool
	Unexported []string
}

// ExpandFieldListTypes expands a field list into individual type strings.
// For fields with multiple names (e.g., "a, b int"), outputs the type once per name.
// For unnamed fields, outputs the type once.
func ExpandFieldListTypes(fields []*dst.Field, typeFormatter func(dst.Expr) string) []string {
	var parts []string

	for _, f := range fields {
		typeStr := typeFormatter(f.Type)

		count := len(f.Names)
		if count == 0 {
			count = 1
		}

		for range count {
			parts = append(parts, typeStr)
		}
	}

	return parts
}

// IsBuiltin reports whether name is a predeclared type.
func IsBuiltin(name string) bool {
	switch name {
	case "any", "bool", "byte", "comparable", "complex64", "complex128", "error",
		"float32", "float64", "int", "int8", "int16", "int32", "int64", "rune", "string",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr":
		return true
	}

	return false
}

// StringifyExpr converts a DST expression to its string representation, unqualified.
func StringifyExpr(expr dst.Expr) string {
	return (&TypePrinter{}).Print(expr)
}

// Print converts a DST expression to its string representation.
//
//nolint:cyclop,funlen // Type-switch dispatcher handling all DST expression types; complexity is inherent
func (p *TypePrinter) Print(expr dst.Expr) string {
	if expr == nil {
		return ""
	}

	switch typedExpr := expr.(type) {
	case *dst.Ident:
		return p.ident(typedExpr.Name)
	case *dst.BasicLit:
		return typedExpr.Value
	case *dst.SelectorExpr:
		if pkg, ok := typedExpr.X.(*dst.Ident); ok {
			p.record(pkg.Name)

			return pkg.Name + "." + typedExpr.Sel.Name
		}

		return p.Print(typedExpr.X) + "." + typedExpr.Sel.Name
	case *dst.StarExpr:
		return "*" + p.Print(typedExpr.X)
	case *dst.ArrayType:
		if typedExpr.Len != nil {
			return "[" + p.Print(typedExpr.Len) + "]" + p.Print(typedExpr.Elt)
		}

		return "[]" + p.Print(typedExpr.Elt)
	case *dst.MapType:
		return "map[" + p.Print(typedExpr.Key) + "]" + p.Print(typedExpr.Value)
	case *dst.ChanType:
		switch typedExpr.Dir {
		case dst.SEND:
			return "chan<- " + p.Print(typedExpr.Value)
		case dst.RECV:
			return "<-chan " + p.Print(typedExpr.Value)
		default:
			return "chan " + p.Print(typedExpr.Value)
		}
	case *dst.InterfaceType:
		return p.interfaceType(typedExpr)
	case *dst.StructType:
		return p.structType(typedExpr)
	case *dst.FuncType:
		return "func" + p.Signature(typedExpr)
	case *dst.Ellipsis:
		return "..." + p.Print(typedExpr.Elt)
	case *dst.IndexExpr:
		return p.Print(typedExpr.X) + "[" + p.Print(typedExpr.Index) + "]"
	case *dst.IndexListExpr:
		indices := make([]string, len(typedExpr.Indices))
		for i, idx := range typedExpr.Indices {
			indices[i] = p.Print(idx)
		}

		return p.Print(typedExpr.X) + "[" + strings.Join(indices, ", ") + "]"
	case *dst.ParenExpr:
		return "(" + p.Print(typedExpr.X) + ")"
	default:
		return fmt.Sprintf("%T", expr)
	}
}

// Results renders a result list the way it follows a parameter list: empty, " T" or " (T, U)".
func (p *TypePrinter) Results(results *dst.FieldList) string {
	if results == nil || len(results.List) == 0 {
		return ""
	}

	parts := ExpandFieldListTypes(results.List, p.Print)
	if len(parts) == 1 {
		return " " + parts[0]
	}

	return " (" + strings.Join(parts, ", ") + ")"
}

// Signature renders a function type without its func keyword, with parameter names dropped.
func (p *TypePrinter) Signature(funcType *dst.FuncType) string {
	var params []string
	if funcType.Params != nil {
		params = ExpandFieldListTypes(funcType.Params.List, p.Print)
	}

	return "(" + strings.Join(params, ", ") + ")" + p.Results(funcType.Results)
}

func (p *TypePrinter) ident(name string) string {
	if p.Qualifier == "" || IsBuiltin(name) {
		return name
	}

	if !token.IsExported(name) {
		p.Unexported = append(p.Unexported, name)
	}

	return p.Qualifier + "." + name
}

func (p *TypePrinter) interfaceType(interfaceType *dst.InterfaceType) string {
	if interfaceType.Methods == nil || len(interfaceType.Methods.List) == 0 {
		return "interface{}"
	}

	methods := make([]string, 0, len(interfaceType.Methods.List))

	for _, method := range interfaceType.Methods.List {
		funcType, ok := method.Type.(*dst.FuncType)
		if !ok || len(method.Names) == 0 {
			methods = append(methods, p.Print(method.Type))

			continue
		}

		methods = append(methods, method.Names[0].Name+p.Signature(funcType))
	}

	return "interface{ " + strings.Join(methods, "; ") + " }"
}

func (p *TypePrinter) record(pkg string) {
	if p.Packages == nil {
		p.Packages = make(map[string]bool)
	}

	p.Packages[pkg] = true
}

func (p *TypePrinter) structType(structType *dst.StructType) string {
	if structType.Fields == nil || len(structType.Fields.List) == 0 {
		return "struct{}"
	}

	fields := make([]string, 0, len(structType.Fields.List))

	for _, field := range structType.Fields.List {
		var fieldStr strings.Builder

		if len(field.Names) > 0 {
			nameStrs := make([]string, len(field.Names))
			for i, name := range field.Names {
				nameStrs[i] = name.Name
			}

			fieldStr.WriteString(strings.Join(nameStrs, ", "))
			fieldStr.WriteString(" ")
		}

		fieldStr.WriteString(p.Print(field.Type))

		if field.Tag != nil {
			fieldStr.WriteString(" ")
			fieldStr.WriteString(field.Tag.Value)
		}

		fields = append(fields, fieldStr.String())
	}

	return fmt.Sprintf("struct{ %s }", strings.Join(fields, "; "))
}
