package configset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/artpar/gliderprep/internal/core/descriptor"
)

// =============================================================================
// Loading
// =============================================================================

// Load reads every input document from dir. Nothing is cached: each call
// re-reads the files, since config sets are edited by hand between runs.
//
// The first missing or malformed document stops the load and is returned as
// a *MissingFileError or *ParseError.
func Load(dir string) (*descriptor.Inputs, error) {
	in := &descriptor.Inputs{}

	var err error
	if in.Template, err = loadYAMLDocument(filepath.Join(dir, descriptor.TemplateFile)); err != nil {
		return nil, err
	}
	if in.GlobalAttributes, err = loadYAMLDocument(filepath.Join(dir, descriptor.GlobalAttributesFile)); err != nil {
		return nil, err
	}
	if in.Platform, err = loadPlatform(filepath.Join(dir, descriptor.PlatformFile)); err != nil {
		return nil, err
	}
	if in.Instruments, err = loadInstruments(filepath.Join(dir, descriptor.InstrumentsFile)); err != nil {
		return nil, err
	}
	if in.RawSensors, err = loadSensorCatalog(filepath.Join(dir, descriptor.RawSensorDefsFile)); err != nil {
		return nil, err
	}
	if in.ProfileSensors, err = loadSensorCatalog(filepath.Join(dir, descriptor.ProfileSensorDefsFile)); err != nil {
		return nil, err
	}
	if in.Manifest, err = loadManifest(filepath.Join(dir, descriptor.ManifestFile)); err != nil {
		return nil, err
	}

	return in, nil
}

// Missing returns the required documents that do not exist in dir, in load order.
func Missing(dir string) []string {
	var missing []string
	for _, name := range descriptor.RequiredFiles {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.IsDir() {
			missing = append(missing, name)
		}
	}
	return missing
}

// =============================================================================
// Document Readers
// =============================================================================

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &MissingFileError{Path: path}
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func loadYAMLDocument(path string) (descriptor.Document, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var doc descriptor.Document
	if err := decodeYAML(path, data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, NewParseError(path, "document is empty", nil)
	}
	return doc, nil
}

func loadPlatform(path string) (descriptor.Platform, error) {
	data, err := readFile(path)
	if err != nil {
		return descriptor.Platform{}, err
	}
	var p descriptor.Platform
	if err := decodeYAML(path, data, &p); err != nil {
		return descriptor.Platform{}, err
	}
	return p, nil
}

// decodeYAML decodes the single document in data. An empty stream or a
// stream with more than one document is a *ParseError.
func decodeYAML(path string, data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return NewParseError(path, "document is empty", nil)
		}
		return NewParseError(path, "invalid YAML", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return NewParseError(path, "multiple YAML documents", err)
	}
	return nil
}

func loadInstruments(path string) ([]descriptor.Instrument, error) {
	var instruments []descriptor.Instrument
	if err := loadJSON(path, &instruments); err != nil {
		return nil, err
	}
	for i := range instruments {
		if instruments[i].NCVarName == "" {
			return nil, NewParseError(path, fmt.Sprintf("record %d has no nc_var_name", i), nil)
		}
		instruments[i].Attrs = normalizeDocument(instruments[i].Attrs)
	}
	return instruments, nil
}

func loadSensorCatalog(path string) (descriptor.SensorCatalog, error) {
	var catalog descriptor.SensorCatalog
	if err := loadJSON(path, &catalog); err != nil {
		return nil, err
	}
	if catalog == nil {
		return nil, NewParseError(path, "document is empty", nil)
	}
	for code, def := range catalog {
		def.Attrs = normalizeDocument(def.Attrs)
		catalog[code] = def
	}
	return catalog, nil
}

// loadManifest reads one sensor code per line. Lines are trimmed and blank
// lines dropped; order and duplicates are kept.
func loadManifest(path string) ([]string, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var sensors []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		if s := strings.TrimSpace(scanner.Text()); s != "" {
			sensors = append(sensors, s)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, NewParseError(path, "invalid sensor list", err)
	}
	return sensors, nil
}

func loadJSON(path string, v any) error {
	data, err := readFile(path)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return NewParseError(path, "invalid JSON", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return NewParseError(path, "trailing data after JSON document", nil)
	}
	return nil
}

// =============================================================================
// Number Normalization
// =============================================================================

// normalizeDocument replaces json.Number values with int64 for integer
// literals and float64 otherwise, so fill values such as -999 stay integers
// in the written YAML.
func normalizeDocument(doc descriptor.Document) descriptor.Document {
	for k, v := range doc {
		doc[k] = normalizeValue(v)
	}
	return doc
}

func normalizeValue(v any) any {
	switch val := v.(type) {
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeValue(item)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = normalizeValue(item)
		}
		return val
	default:
		return v
	}
}
