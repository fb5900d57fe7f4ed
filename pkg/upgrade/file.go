package upgrade

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/upgradetree/pkg/errors"
)

// Format is a definition file format.
type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// document is the on-disk shape of a definition file. In TOML every upgrade
// is an [[upgrade]] table; in JSON they live under "upgrades".
type document struct {
	Upgrades []Def `toml:"upgrade" json:"upgrades"`
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTOML, FormatJSON:
		return f, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported definition format %q (want toml or json)", s)
	}
}

// DetectFormat infers the format from the file extension. Unknown extensions
// are treated as TOML.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatTOML
}

// LoadFile reads definitions from path, picking the format by extension.
func LoadFile(path string) ([]Def, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "definition file not found: %s", path)
		}
		return nil, fmt.Errorf("open definitions: %w", err)
	}
	defer f.Close()
	return Read(f, DetectFormat(path))
}

// Read decodes definitions from r and validates their effects. Structural
// problems of the graph itself (unknown prerequisites, cycles, duplicates)
// are not errors here; the engine reports them as diagnostics.
func Read(r io.Reader, format Format) ([]Def, error) {
	var doc document
	switch format {
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode TOML definitions")
		}
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON definitions")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported definition format %q", format)
	}

	for i, d := range doc.Upgrades {
		if err := d.Effect.Validate(); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "upgrade %d (%s)", i, d.ID)
		}
	}
	return doc.Upgrades, nil
}

// Write encodes defs to w in the given format.
func Write(w io.Writer, defs []Def, format Format) error {
	doc := document{Upgrades: defs}
	switch format {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported definition format %q", format)
	}
}

// Marshal returns defs encoded in the given format.
func Marshal(defs []Def, format Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, defs, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
