package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const defaultMethod = http.MethodGet

// configFile represents the structure of the requests configuration file.
type configFile struct {
	Requests []Definition `json:"requests" yaml:"requests"`
}

// Definition is a single named request declared in config files.
type Definition struct {
	ID      string            `json:"id" yaml:"id"`
	Method  string            `json:"method" yaml:"method"`
	URL     string            `json:"url" yaml:"url"`
	Headers map[string]string `json:"headers" yaml:"headers"`
	Body    *BodyConfig       `json:"body" yaml:"body"`
	Enabled *bool             `json:"enabled" yaml:"enabled"`
}

// BodyConfig declares the request payload: literal text transmitted as-is,
// or a structured value encoded to JSON during Spec construction.
type BodyConfig struct {
	Text *string `json:"text" yaml:"text"`
	JSON any     `json:"json" yaml:"json"`
}

// ConfigRegistry materializes request definitions loaded from config files.
type ConfigRegistry struct {
	mu       sync.RWMutex
	requests []Definition
	idx      map[string]Definition
}

// LoadRegistry loads the request registry from a YAML/JSON file.
func LoadRegistry(path string) (*ConfigRegistry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("requests file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open requests file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read requests file: %w", err)
	}

	fileReg, err := parseRequestRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Requests) == 0 {
		return nil, errors.New("requests file contains no requests entries")
	}

	reg := &ConfigRegistry{
		requests: make([]Definition, len(fileReg.Requests)),
		idx:      make(map[string]Definition, len(fileReg.Requests)),
	}

	for i := range fileReg.Requests {
		def := sanitizeDefinition(fileReg.Requests[i])
		if err := validateDefinition(def); err != nil {
			return nil, fmt.Errorf("requests[%d]: %w", i, err)
		}
		if _, exists := reg.idx[def.ID]; exists {
			return nil, fmt.Errorf("duplicate request id %q", def.ID)
		}
		reg.requests[i] = def
		reg.idx[def.ID] = def
	}

	return reg, nil
}

// parseRequestRegistry attempts to decode the requests file content.
func parseRequestRegistry(data []byte, ext string) (configFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	decoders := []struct {
		name string
		ext  string
		fn   func([]byte, any) error
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRequestRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return configFile{}, errors.New("requests file format not recognized (expected YAML or JSON)")
}

// unmarshalRequestRegistry decodes the requests file using the provided function.
func unmarshalRequestRegistry(name string, data []byte, fn func([]byte, any) error) (configFile, error) {
	var reg configFile
	if err := fn(data, &reg); err != nil {
		return configFile{}, fmt.Errorf("decode %s requests: %w", name, err)
	}
	return reg, nil
}

// sanitizeDefinition trims and normalizes the definition fields.
func sanitizeDefinition(def Definition) Definition {
	def.ID = strings.TrimSpace(def.ID)
	def.Method = strings.ToUpper(strings.TrimSpace(def.Method))
	def.URL = strings.TrimSpace(def.URL)
	if def.Method == "" {
		def.Method = defaultMethod
	}
	if def.Enabled == nil {
		enabled := true
		def.Enabled = &enabled
	}
	def.Headers = sanitizeHeaders(def.Headers)
	if def.Body != nil && def.Body.Text == nil && def.Body.JSON == nil {
		def.Body = nil
	}
	return def
}

// sanitizeHeaders trims keys and drops empty entries. Key casing is
// preserved for everything kept.
func sanitizeHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key := strings.TrimSpace(k)
		val := strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// validateDefinition checks that required fields are present.
func validateDefinition(def Definition) error {
	if def.ID == "" {
		return errors.New("id is required")
	}
	if def.URL == "" {
		return fmt.Errorf("url is required for request %q", def.ID)
	}
	if !supportedMethods[def.Method] {
		return fmt.Errorf("request %q: %w: %q", def.ID, ErrUnknownMethod, def.Method)
	}
	if def.Body != nil && def.Body.Text != nil && def.Body.JSON != nil {
		return fmt.Errorf("request %q declares both text and json bodies", def.ID)
	}
	return nil
}

// Spec builds the immutable request Spec for this definition.
func (def Definition) Spec() (Spec, error) {
	body := NoBody()
	if def.Body != nil {
		switch {
		case def.Body.Text != nil:
			body = Raw(*def.Body.Text)
		case def.Body.JSON != nil:
			body = JSON(def.Body.JSON)
		}
	}
	return New(def.Method, def.URL, def.Headers, body)
}

// EnabledValue returns the enabled flag defaulting to true.
func (def Definition) EnabledValue() bool {
	if def.Enabled == nil {
		return true
	}
	return *def.Enabled
}

// ByID returns the request definition by id.
func (r *ConfigRegistry) ByID(id string) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Definition{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.idx[id]
	return def, ok
}

// All returns all configured request definitions.
func (r *ConfigRegistry) All() []Definition {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, len(r.requests))
	copy(out, r.requests)
	return out
}

// Enabled returns the definitions that are enabled.
func (r *ConfigRegistry) Enabled() []Definition {
	if r == nil {
		return nil
	}

	all := r.All()
	if len(all) == 0 {
		return nil
	}

	out := make([]Definition, 0, len(all))
	for _, def := range all {
		if def.EnabledValue() {
			out = append(out, def)
		}
	}
	return out
}
