package formats

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/structure.schema.json
var structureSchema []byte

//go:embed schema/zone.schema.json
var zoneSchema []byte

var (
	structureSchemaLoader = gojsonschema.NewBytesLoader(structureSchema)
	zoneSchemaLoader      = gojsonschema.NewBytesLoader(zoneSchema)
)

// ValidationError lists every schema violation found in a document.
type ValidationError struct {
	Kind   Kind
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s document: %s", e.Kind, strings.Join(e.Errors, "; "))
}

// validateJSON checks a JSON document against the schema for kind.
func validateJSON(kind Kind, data []byte) error {
	var schema gojsonschema.JSONLoader
	switch kind {
	case KindStructure:
		schema = structureSchemaLoader
	case KindZone:
		schema = zoneSchemaLoader
	default:
		return fmt.Errorf("no schema for %s", kind)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Kind: kind}
	for _, re := range result.Errors() {
		verr.Errors = append(verr.Errors, re.String())
	}
	return verr
}
