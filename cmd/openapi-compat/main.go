// Command openapi-compat fails when an API revision drops anything clients of
// the baseline document rely on.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"skillswap/docs"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("openapi-compat", flag.ContinueOnError)
	basePath := fs.String("base", "docs/swagger.yaml", "baseline OpenAPI document")
	revisionPath := fs.String("revision", "", "revision OpenAPI document (defaults to the compiled-in swagger doc)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	base, err := loadFile(*basePath)
	if err != nil {
		return fmt.Errorf("failed to load base spec: %w", err)
	}

	var revision surface
	if strings.TrimSpace(*revisionPath) == "" {
		revision, err = parseSurface([]byte(docs.SwaggerInfo.ReadDoc()))
	} else {
		revision, err = loadFile(*revisionPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load revision spec: %w", err)
	}

	if issues := compare(base, revision); len(issues) > 0 {
		return errors.New("backward compatibility check failed:\n- " + strings.Join(issues, "\n- "))
	}

	for _, added := range additions(base, revision) {
		fmt.Fprintf(out, "new operation: %s\n", added)
	}
	fmt.Fprintln(out, "openapi compatibility check passed")
	return nil
}

func loadFile(path string) (surface, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSurface(raw)
}
