// Package formats decodes and validates crystal structure and Brillouin zone
// documents. Documents are JSON or YAML; both are validated against the same
// embedded JSON schemas before decoding.
package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the document type.
type Kind int

const (
	KindUnknown Kind = iota
	KindStructure
	KindZone
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "structure"
	case KindZone:
		return "zone"
	default:
		return "unknown"
	}
}

// Document format errors.
var (
	ErrUnsupportedExtension = errors.New("unsupported document extension")
	ErrUnknownKind          = errors.New("cannot tell structure from zone document")
)

// Document is a decoded input. Exactly one of Structure and Zone is set.
type Document struct {
	Kind      Kind
	Structure *Structure
	Zone      *Zone
}

// LoadFile reads, validates and decodes a document. The format is chosen
// by extension: .json, or .yaml/.yml.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Decode validates and decodes a document given its file extension.
func Decode(data []byte, ext string) (*Document, error) {
	raw, err := toJSON(data, ext)
	if err != nil {
		return nil, err
	}

	kind, err := detectKind(raw)
	if err != nil {
		return nil, err
	}
	if err := validateJSON(kind, raw); err != nil {
		return nil, err
	}

	doc := &Document{Kind: kind}
	switch kind {
	case KindStructure:
		var s Structure
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("decoding structure: %w", err)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		doc.Structure = &s
	case KindZone:
		var z Zone
		if err := json.Unmarshal(raw, &z); err != nil {
			return nil, fmt.Errorf("decoding zone: %w", err)
		}
		doc.Zone = &z
	}
	return doc, nil
}

// Validate only runs the schema check for a document.
func Validate(data []byte, ext string) (Kind, error) {
	raw, err := toJSON(data, ext)
	if err != nil {
		return KindUnknown, err
	}
	kind, err := detectKind(raw)
	if err != nil {
		return KindUnknown, err
	}
	return kind, validateJSON(kind, raw)
}

// toJSON normalizes YAML input to JSON so a single schema and decoder
// serve both formats.
func toJSON(data []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json", "":
		return data, nil
	case ".yaml", ".yml":
		var v any
		if err := yaml.Unmarshal(data, &v); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
		out, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("converting YAML: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedExtension, ext)
	}
}

func detectKind(raw []byte) (Kind, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return KindUnknown, fmt.Errorf("parsing document: %w", err)
	}
	if _, ok := keys["segments"]; ok {
		return KindZone, nil
	}
	if _, ok := keys["basis"]; ok {
		return KindZone, nil
	}
	for _, k := range []string{"positions", "scaledPositions", "species", "atomicNumbers", "cell"} {
		if _, ok := keys[k]; ok {
			return KindStructure, nil
		}
	}
	return KindUnknown, ErrUnknownKind
}
