package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Supported HTTP methods. Anything outside this set fails construction.
var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodHead:    true,
	http.MethodOptions: true,
}

// ErrUnknownMethod indicates a method outside the supported set.
var ErrUnknownMethod = errors.New("unsupported HTTP method")

// SerializationError reports a structured body that could not be encoded
// to JSON. It is returned synchronously from New, never from dispatch.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serialize request body: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyRaw
	bodyStructured
)

// Body is the payload of a request: either already-textual content or a
// structured value that gets encoded to JSON during construction.
type Body struct {
	kind  bodyKind
	text  string
	value any
}

// NoBody returns an empty payload.
func NoBody() Body { return Body{} }

// Raw wraps text that is transmitted unchanged.
func Raw(text string) Body {
	return Body{kind: bodyRaw, text: text}
}

// JSON wraps a structured value encoded to JSON text at construction.
func JSON(value any) Body {
	return Body{kind: bodyStructured, value: value}
}

// IsEmpty reports whether the body carries no payload.
func (b Body) IsEmpty() bool { return b.kind == bodyNone }

// Spec is an immutable description of a single outbound HTTP call.
// Once constructed, its method, URL, headers, and body never change.
type Spec struct {
	method  string
	url     string
	headers map[string]string
	payload string
	hasBody bool
}

// Descriptor is the fully resolved form of a Spec, ready for transmission.
type Descriptor struct {
	Method  string
	URL     string
	Headers map[string]string
	Body    string
	HasBody bool
}

// New builds a Spec from raw inputs. The method is uppercased and checked
// against the supported set; the URL is passed through unvalidated
// (malformed targets surface as transport failures). A structured body is
// resolved to its JSON text form here so that encoding problems fail
// construction rather than dispatch.
func New(method, url string, headers map[string]string, body Body) (Spec, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if !supportedMethods[m] {
		return Spec{}, fmt.Errorf("%w: %q", ErrUnknownMethod, method)
	}

	spec := Spec{
		method:  m,
		url:     url,
		headers: copyHeaders(headers),
	}

	switch body.kind {
	case bodyRaw:
		spec.payload = body.text
		spec.hasBody = true
	case bodyStructured:
		encoded, err := json.Marshal(body.value)
		if err != nil {
			return Spec{}, &SerializationError{Err: err}
		}
		spec.payload = string(encoded)
		spec.hasBody = true
	}

	return spec, nil
}

// Method returns the normalized method string.
func (s Spec) Method() string { return s.method }

// URL returns the target locator as given.
func (s Spec) URL() string { return s.url }

// Materialize resolves the Spec into a transmittable Descriptor. Headers
// are defaulted with Content-Type: application/json when absent; the
// check is case-insensitive, so an existing content-type under any
// capitalization suppresses the default and is left untouched. The body
// is dropped for GET regardless of what was configured.
func (s Spec) Materialize() Descriptor {
	headers := copyHeaders(s.headers)
	if headers == nil {
		headers = make(map[string]string, 1)
	}
	if !hasHeaderFold(headers, "Content-Type") {
		headers["Content-Type"] = "application/json"
	}

	d := Descriptor{
		Method:  s.method,
		URL:     s.url,
		Headers: headers,
	}
	if s.hasBody && s.method != http.MethodGet {
		d.Body = s.payload
		d.HasBody = true
	}
	return d
}

// copyHeaders duplicates a header map preserving key casing.
func copyHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return nil
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	return out
}

// hasHeaderFold reports whether name is present under any capitalization.
func hasHeaderFold(headers map[string]string, name string) bool {
	for k := range headers {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
