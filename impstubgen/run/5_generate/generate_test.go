package generate_test

import (
	"errors"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/dave/dst"
	"github.com/dave/dst/decorator"

	detect "github.com/toejough/impstub/impstubgen/run/3_detect"
	generate "github.com/toejough/impstub/impstubgen/run/5_generate"
)

const storeSource = `package store

import (
	"context"
	stdtime "time"
)

type Repo interface {
	Close()
	Find(ctx context.Context, id int) (string, error)
	Save(name string, tags ...string) error
	Tx() Tx
	Touch(_ string, d stdtime.Duration, out int) bool
	Pair() (a, b int)
}

type Tx interface {
	Commit() error
}

type Accessor interface {
	StubDouble() int
}

type Hidden interface {
	Load() config
}

type Stray interface {
	Parse() yaml.Node
}
`

func TestBuild_QualifiesForeignInterface(t *testing.T) {
	t.Parallel()

	double := build(t, "Repo", "store")

	if double.Type != "RepoDouble" || double.Interface != "store.Repo" {
		t.Errorf("Type, Interface = %s, %s; want RepoDouble, store.Repo", double.Type, double.Interface)
	}

	gotImports := make([]string, 0, len(double.Imports))
	for _, imp := range double.Imports {
		gotImports = append(gotImports, strings.TrimSpace(imp.Name+" "+imp.Path))
	}

	wantImports := []string{"context", "github.com/acme/store", generate.ImpstubImport, "stdtime time"}
	if strings.Join(gotImports, ";") != strings.Join(wantImports, ";") {
		t.Errorf("imports = %v, want %v", gotImports, wantImports)
	}

	gotMethods := make([]string, 0, len(double.Methods))
	for _, method := range double.Methods {
		gotMethods = append(gotMethods, method.Name)
	}

	wantMethods := "Close Find Pair Save StubDouble Touch Tx"
	if strings.Join(gotMethods, " ") != wantMethods {
		t.Errorf("methods = %v, want %s", gotMethods, wantMethods)
	}
}

func TestRender_ForwardsEveryMethod(t *testing.T) {
	t.Parallel()

	code := render(t, build(t, "Repo", "store"))

	assertContainsAll(t, code, []string{
		"// Code generated by impstubgen. DO NOT EDIT.",
		"package store_test",
		"type RepoDouble struct {\n\tcaller impstub.Caller\n}",
		"func (d *RepoDouble) Close() {\n\timpstub.Raise(d.caller.Call(\"Close\"))\n}",
		"out := d.caller.Call(\"Find\", ctx, id)\n\n\treturn impstub.Result[string](out, 0), impstub.ErrResult(out, 1)",
		"func (d *RepoDouble) Save(name string, tags ...string) error {\n\tout := d.caller.Call(\"Save\", name, tags)",
		"func (d *RepoDouble) Tx() store.Tx {\n\tout := d.caller.Call(\"Tx\")\n\timpstub.Raise(out)\n\n\treturn impstub.Result[store.Tx](out, 0)",
		"Touch(arg0 string, arg1 stdtime.Duration, arg2 int) bool",
		"return impstub.Result[int](out, 0), impstub.Result[int](out, 1)",
		"func MockRepo(t impstub.TestReporter) *RepoDouble {",
		"return &RepoDouble{caller: impstub.Mock[store.Repo](t)}",
		"func SpyRepo(t impstub.TestReporter, impl store.Repo) *RepoDouble {",
		"impstub.RegisterType[store.Repo]()",
		"impstub.RegisterAdapter(func(caller impstub.Caller) store.Repo {",
	})
}

func TestRender_SamePackage(t *testing.T) {
	t.Parallel()

	code := render(t, build(t, "Tx", ""))

	assertContainsAll(t, code, []string{
		"package store_test",
		"func (d *TxDouble) Commit() error {",
		"impstub.Mock[Tx](t)",
	})

	if strings.Contains(code, "store.") {
		t.Errorf("same-package proxy should not qualify types:\n%s", code)
	}
}

func TestRender_IsValidGo(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"Repo", "Tx"} {
		code := render(t, build(t, name, "store"))

		_, err := parser.ParseFile(token.NewFileSet(), "generated.go", code, parser.ParseComments)
		if err != nil {
			t.Errorf("generated %s does not parse: %v\n%s", name, err, code)
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		iface     string
		qualifier string
		want      error
	}{
		{iface: "Accessor", qualifier: "", want: generate.ErrReservedMethod},
		{iface: "Hidden", qualifier: "store", want: generate.ErrUnexportedType},
		{iface: "Stray", qualifier: "", want: generate.ErrUnresolvedPackage},
	}

	for _, tt := range tests {
		_, err := generate.Build(request(t, tt.iface, tt.qualifier))
		if !errors.Is(err, tt.want) {
			t.Errorf("Build(%s) error = %v, want %v", tt.iface, err, tt.want)
		}
	}
}

func assertContainsAll(t *testing.T, content string, expected []string) {
	t.Helper()

	for _, exp := range expected {
		if !strings.Contains(content, exp) {
			t.Errorf("Expected generated code to contain %q", exp)
			t.Logf("Generated code:\n%s", content)
		}
	}
}

func build(t *testing.T, iface, qualifier string) generate.Double {
	t.Helper()

	double, err := generate.Build(request(t, iface, qualifier))
	if err != nil {
		t.Fatalf("Build(%s) unexpected error: %v", iface, err)
	}

	return double
}

func render(t *testing.T, double generate.Double) string {
	t.Helper()

	code, err := generate.Render(double)
	if err != nil {
		t.Fatalf("Render(%s) unexpected error: %v", double.Type, err)
	}

	return code
}

func request(t *testing.T, iface, qualifier string) generate.Request {
	t.Helper()

	file, err := decorator.Parse(storeSource)
	if err != nil {
		t.Fatalf("failed to parse source: %v", err)
	}

	found, err := detect.FindInterface([]*dst.File{file}, iface, "store")
	if err != nil {
		t.Fatalf("FindInterface(%s) unexpected error: %v", iface, err)
	}

	req := generate.Request{Package: "store_test", Name: iface, Iface: found, Qualifier: qualifier}
	if qualifier != "" {
		req.ImportPath = "github.com/acme/store"
	}

	return req
}
