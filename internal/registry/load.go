package registry

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/SLassalle/real-estate-price-prediction/internal/feature"
)

//go:embed schema.cue
var schemaCUE string

// registryFile is the on-disk YAML shape.
type registryFile struct {
	Features []feature.Spec `yaml:"features"`
}

// Load reads a feature registry from a YAML file.
//
// The file is validated in two passes: first structurally against the
// embedded CUE schema (field names, enum values, types), then semantically
// by New (duplicates, target count, ordinal orders). Schema violations
// surface with CUE's path-qualified messages; semantic violations surface
// as *InvalidRegistryError with all violations listed.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}
	return Parse(path, data)
}

// Parse validates and decodes registry YAML. The filename is used only in
// diagnostics.
func Parse(filename string, data []byte) (*Registry, error) {
	if err := validateSchema(filename, data); err != nil {
		return nil, err
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode registry file: %w", err)
	}
	if len(file.Features) == 0 {
		return nil, fmt.Errorf("registry file %s declares no features", filename)
	}

	return New(file.Features)
}

// validateSchema checks the YAML document against the embedded CUE schema.
func validateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile registry schema: %w", err)
	}

	astFile, err := cueyaml.Extract(filename, data)
	if err != nil {
		return fmt.Errorf("parse registry yaml: %w", err)
	}
	doc := ctx.BuildFile(astFile)
	if err := doc.Err(); err != nil {
		return fmt.Errorf("build registry yaml: %w", err)
	}

	unified := schema.Unify(doc)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("registry file %s does not match schema: %w", filename, err)
	}
	return nil
}
