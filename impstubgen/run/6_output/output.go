// Package output formats generated proxies and writes them next to the code that uses them.
package output

import (
	"errors"
	"fmt"
	"go/format"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/rs/zerolog"
	"github.com/toejough/go-reorder"
)

// FileSystem reads and writes generated files.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// Exported variables.
var (
	ErrStale = errors.New("generated file is out of date")
)

// Filename returns generated_<typeName>.go, or generated_<typeName>_test.go when the proxy is
// generated into a test package or from a test file.
func Filename(typeName, pkgName, goFile string) string {
	base := strings.TrimSuffix(strings.TrimSuffix(typeName, ".go"), "_test")

	if strings.HasSuffix(pkgName, "_test") || strings.HasSuffix(goFile, "_test.go") ||
		strings.HasSuffix(typeName, "_test") {
		return "generated_" + base + "_test.go"
	}

	return "generated_" + base + ".go"
}

// Finalize formats code and reorders its declarations according to project conventions.
func Finalize(code string, log zerolog.Logger) (string, error) {
	formatted, err := format.Source([]byte(code))
	if err != nil {
		return "", fmt.Errorf("generated code does not format: %w", err)
	}

	reordered, err := reorder.Source(string(formatted))
	if err != nil {
		// The formatted code is still valid, only unordered.
		log.Warn().Err(err).Msg("failed to reorder generated code")

		return string(formatted), nil
	}

	return reordered, nil
}

// WriteGeneratedCode finalizes code and writes it to filename.
func WriteGeneratedCode(code, filename string, fileSys FileSystem, log zerolog.Logger) error {
	const generatedFilePermissions = 0o600

	final, err := Finalize(code, log)
	if err != nil {
		return err
	}

	err = fileSys.WriteFile(filename, []byte(final), generatedFilePermissions)
	if err != nil {
		return fmt.Errorf("error writing %s: %w", filename, err)
	}

	log.Info().Str("file", filename).Msg("written successfully")

	return nil
}

// CheckGeneratedCode finalizes code and compares it with what filename holds. A difference is
// printed to out as a unified diff and reported as ErrStale.
func CheckGeneratedCode(code, filename string, fileSys FileSystem, out io.Writer, log zerolog.Logger) error {
	final, err := Finalize(code, log)
	if err != nil {
		return err
	}

	current, err := fileSys.ReadFile(filename)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("error reading %s: %w", filename, err)
	}

	if string(current) == final {
		log.Debug().Str("file", filename).Msg("up to date")

		return nil
	}

	_, _ = fmt.Fprint(out, textdiff.Unified(filename+" (current)", filename+" (generated)", string(current), final))

	return fmt.Errorf("%w: %s", ErrStale, filename)
}
