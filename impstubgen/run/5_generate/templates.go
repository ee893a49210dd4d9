package generate

import (
	"strings"
	"sync"
	"text/template"
)

// unexported constants.
const (
	tmplProxy = `// Code generated by impstubgen. DO NOT EDIT.

package {{.Package}}

import (
{{- range .Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Type}} is a test double for {{.Interface}}. Every method resolves through the engine it
// was created on.
type {{.Type}} struct {
	caller impstub.Caller
}
{{range .Methods}}
{{if .Accessor -}}
// StubDouble returns the engine-side double, or nil when d wraps a chain hop.
func (d *{{$.Type}}) StubDouble() *impstub.Double {
	double, _ := d.caller.(*impstub.Double)

	return double
}
{{- else -}}
func (d *{{$.Type}}) {{.Name}}({{.Params}}){{.Results}} {
{{- if not .Returns}}
	impstub.Raise(d.caller.Call({{.CallArgs}}))
{{- else}}
	out := d.caller.Call({{.CallArgs}})
{{- if .Raise}}
	impstub.Raise(out)
{{- end}}

	return {{join .Returns}}
{{- end}}
}
{{- end}}
{{end}}
// Mock{{.Name}} returns a full double of {{.Interface}} on t's engine.
func Mock{{.Name}}(t impstub.TestReporter) *{{.Type}} {
	t.Helper()

	return &{{.Type}}{caller: impstub.Mock[{{.Interface}}](t)}
}

// Spy{{.Name}} returns a partial double of {{.Interface}} on t's engine. Calls that match no
// stub pass through to impl.
func Spy{{.Name}}(t impstub.TestReporter, impl {{.Interface}}) *{{.Type}} {
	t.Helper()

	return &{{.Type}}{caller: impstub.Spy[{{.Interface}}](t, impl)}
}

func init() {
	impstub.RegisterType[{{.Interface}}]()
	impstub.RegisterAdapter(func(caller impstub.Caller) {{.Interface}} {
		return &{{.Type}}{caller: caller}
	})
}
`
)

// unexported variables.
var (
	//nolint:gochecknoglobals // Templates are constants, parsed once.
	templates = sync.OnceValue(func() *templateRegistry {
		return &templateRegistry{proxy: parseTemplate("proxy", tmplProxy)}
	})
)

// templateRegistry holds the parsed templates.
type templateRegistry struct {
	proxy *template.Template
}

// parseTemplate parses a template with the generator's helper functions.
// Templates are hardcoded constants, so parsing cannot fail at runtime.
func parseTemplate(name, content string) *template.Template {
	funcs := template.FuncMap{
		"join": func(parts []string) string { return strings.Join(parts, ", ") },
	}

	return template.Must(template.New(name).Funcs(funcs).Parse(content))
}
