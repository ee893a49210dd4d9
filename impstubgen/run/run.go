// Package run implements the main logic for the impstubgen tool in a testable way.
package run

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/dave/dst"
	"github.com/rs/zerolog"

	detect "github.com/toejough/impstub/impstubgen/run/3_detect"
	generate "github.com/toejough/impstub/impstubgen/run/5_generate"
	output "github.com/toejough/impstub/impstubgen/run/6_output"
)

// FileSystem reads configs and existing generated files, and writes new ones.
type FileSystem = output.FileSystem

// PackageLoader loads package sources by import path.
type PackageLoader = detect.PackageLoader

// Run executes impstubgen. It takes command-line arguments, an environment variable getter
// (for GOPACKAGE and GOFILE, as set by go generate), a FileSystem, a PackageLoader, a writer for
// help text and --check diffs, and a writer for logs. On success every requested double has been
// written, or in --check mode found up to date.
func Run(
	args []string, getEnv func(string) string, fileSys FileSystem, pkgLoader PackageLoader, out, logOut io.Writer,
) error {
	parsed, helped, err := parseArgs(args, out)
	if err != nil || helped {
		return err
	}

	log := newLogger(logOut, parsed.Verbose)

	jobs, pkgName, err := plan(parsed, getEnv, fileSys)
	if err != nil {
		return err
	}

	gen := &generator{
		fileSys: fileSys,
		loader:  pkgLoader,
		pkgName: pkgName,
		goFile:  getEnv("GOFILE"),
		check:   parsed.Check,
		out:     out,
		log:     log,
	}

	var errs []error

	for _, job := range jobs {
		err := gen.generate(job)
		if err != nil {
			log.Debug().Err(err).Str("interface", job.Interface).Msg("generation failed")
			errs = append(errs, fmt.Errorf("%s: %w", job.Interface, err))
		}
	}

	return errors.Join(errs...)
}

// unexported variables.
var (
	errNameWithoutInterface = errors.New("--name needs an interface argument")
	errNoInterface          = errors.New("no interface given: pass one as an argument or list doubles with --config")
	errNoPackage            = errors.New("no package: run through go generate, or set package in the config")
)

// cliArgs defines the command-line arguments for the generator.
type cliArgs struct {
	Interface string `arg:"positional"   help:"interface to double (e.g. Repo or store.Repo)"`
	Name      string `arg:"--name"       help:"base name of the double (defaults to the interface name)"`
	Config    string `arg:"--config"     help:"YAML file listing the doubles to generate"`
	Check     bool   `arg:"--check"      help:"print a diff and fail when a generated file is out of date, instead of writing it"`
	Verbose   bool   `arg:"-v,--verbose" help:"log debug detail"`
}

// Description is shown at the top of --help.
func (cliArgs) Description() string {
	return "impstubgen generates impstub proxies for Go interfaces.\n" +
		"Each proxy is <Name>Double, with Mock<Name> and Spy<Name> constructors, " +
		"written to generated_<Name>Double.go."
}

// generator produces the doubles of one invocation.
type generator struct {
	fileSys FileSystem
	loader  PackageLoader
	pkgName string
	goFile  string
	check   bool
	out     io.Writer
	log     zerolog.Logger

	localFiles []*dst.File
}

func (g *generator) generate(job DoubleConfig) error {
	pkgAlias, local, err := detect.SplitQualified(job.Interface)
	if err != nil {
		return err
	}

	req := generate.Request{Package: g.pkgName, Name: job.name(local)}

	if pkgAlias == "" || pkgAlias == g.pkgName {
		files, err := g.local()
		if err != nil {
			return err
		}

		req.Iface, err = detect.FindInterface(files, local, g.pkgName)
		if err != nil {
			return err
		}
	} else {
		importPath, err := g.importPath(pkgAlias)
		if err != nil {
			return err
		}

		files, err := g.loader.Load(importPath)
		if err != nil {
			return err
		}

		req.Iface, err = detect.FindInterface(files, local, "")
		if err != nil {
			return err
		}

		req.Qualifier, req.ImportPath = pkgAlias, importPath
	}

	g.log.Debug().
		Str("interface", job.Interface).
		Str("import", req.ImportPath).
		Int("methods", len(req.Iface.Methods)).
		Msg("interface resolved")

	double, err := generate.Build(req)
	if err != nil {
		return err
	}

	code, err := generate.Render(double)
	if err != nil {
		return err
	}

	filename := output.Filename(double.Type, g.pkgName, g.goFile)

	if g.check {
		return output.CheckGeneratedCode(code, filename, g.fileSys, g.out, g.log)
	}

	return output.WriteGeneratedCode(code, filename, g.fileSys, g.log)
}

// importPath resolves a package name through the imports of the current package, falling back
// to the name itself for standard library packages the package does not import yet.
func (g *generator) importPath(pkgAlias string) (string, error) {
	files, err := g.local()
	if err != nil {
		return "", err
	}

	importPath, err := detect.FindImportPath(files, pkgAlias)
	if err != nil {
		g.log.Debug().Str("package", pkgAlias).Msg("not imported locally, loading by name")

		return pkgAlias, nil
	}

	return importPath, nil
}

func (g *generator) local() ([]*dst.File, error) {
	if g.localFiles != nil {
		return g.localFiles, nil
	}

	files, err := g.loader.Load(".")
	if err != nil {
		return nil, fmt.Errorf("loading the current package: %w", err)
	}

	g.localFiles = files

	return files, nil
}

func newLogger(logOut io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: logOut, NoColor: true, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// parseArgs parses command-line arguments into cliArgs. --help prints usage to out.
func parseArgs(args []string, out io.Writer) (parsed cliArgs, helped bool, err error) {
	parser, err := arg.NewParser(arg.Config{Program: "impstubgen"}, &parsed)
	if err != nil {
		return cliArgs{}, false, fmt.Errorf("failed to create argument parser: %w", err)
	}

	var cmdArgs []string
	if len(args) > 1 {
		cmdArgs = args[1:]
	}

	err = parser.Parse(cmdArgs)
	if errors.Is(err, arg.ErrHelp) {
		parser.WriteHelp(out)

		return cliArgs{}, true, nil
	}

	if err != nil {
		return cliArgs{}, false, fmt.Errorf("failed to parse arguments: %w", err)
	}

	return parsed, false, nil
}

// plan gathers the doubles to generate from the config file and the command line.
func plan(parsed cliArgs, getEnv func(string) string, fileSys FileSystem) ([]DoubleConfig, string, error) {
	if parsed.Name != "" && parsed.Interface == "" {
		return nil, "", errNameWithoutInterface
	}

	cfg := &Config{Package: getEnv("GOPACKAGE")}

	if parsed.Config != "" {
		data, err := fileSys.ReadFile(parsed.Config)
		if err != nil {
			return nil, "", fmt.Errorf("config: %w", err)
		}

		loaded, err := LoadConfig(data)
		if err != nil {
			return nil, "", fmt.Errorf("%s: %w", parsed.Config, err)
		}

		cfg.Doubles = loaded.Doubles
		if loaded.Package != "" {
			cfg.Package = loaded.Package
		}
	}

	if parsed.Interface != "" {
		cfg.Doubles = append(cfg.Doubles, DoubleConfig{Interface: parsed.Interface, Name: parsed.Name})
	}

	if len(cfg.Doubles) == 0 {
		return nil, "", errNoInterface
	}

	if cfg.Package == "" {
		return nil, "", errNoPackage
	}

	err := cfg.Validate()
	if err != nil {
		return nil, "", err
	}

	return cfg.Doubles, cfg.Package, nil
}
