package request

import (
	"errors"
	"net/http"
	"testing"
)

func TestNewNormalizesMethod(t *testing.T) {
	spec, err := New("post", "https://example.com", nil, NoBody())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if spec.Method() != http.MethodPost {
		t.Fatalf("expected POST, got %s", spec.Method())
	}
}

func TestNewRejectsUnknownMethod(t *testing.T) {
	_, err := New("FETCH", "https://example.com", nil, NoBody())
	if !errors.Is(err, ErrUnknownMethod) {
		t.Fatalf("expected ErrUnknownMethod, got %v", err)
	}
}

func TestRawBodyPassesThroughUnchanged(t *testing.T) {
	raw := `{"already": "textual"}`
	spec, err := New("PUT", "https://example.com", nil, Raw(raw))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := spec.Materialize()
	if !d.HasBody {
		t.Fatalf("expected a body")
	}
	if d.Body != raw {
		t.Fatalf("body changed: %q", d.Body)
	}
}

func TestStructuredBodySerializedToJSON(t *testing.T) {
	spec, err := New("POST", "https://example.com", nil, JSON(map[string]int{"a": 1}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := spec.Materialize()
	if !d.HasBody {
		t.Fatalf("expected a body")
	}
	if d.Body != `{"a":1}` {
		t.Fatalf("unexpected serialization: %q", d.Body)
	}
}

func TestStructuredBodySerializationFailure(t *testing.T) {
	_, err := New("POST", "https://example.com", nil, JSON(make(chan int)))
	if err == nil {
		t.Fatalf("expected serialization error")
	}
	var serErr *SerializationError
	if !errors.As(err, &serErr) {
		t.Fatalf("expected *SerializationError, got %T: %v", err, err)
	}
}

func TestGetNeverIncludesBody(t *testing.T) {
	spec, err := New("GET", "https://example.com", nil, Raw("ignored"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := spec.Materialize()
	if d.HasBody || d.Body != "" {
		t.Fatalf("GET descriptor must not carry a body, got %q", d.Body)
	}
}

func TestContentTypeDefaultedWhenAbsent(t *testing.T) {
	spec, err := New("POST", "https://example.com", map[string]string{"X-Token": "abc"}, Raw("{}"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := spec.Materialize()
	if got := d.Headers["Content-Type"]; got != "application/json" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := d.Headers["X-Token"]; got != "abc" {
		t.Fatalf("X-Token = %q", got)
	}
}

func TestContentTypeNotOverwritten(t *testing.T) {
	spec, err := New("POST", "https://example.com", map[string]string{"Content-Type": "text/plain"}, Raw("x"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := spec.Materialize()
	if got := d.Headers["Content-Type"]; got != "text/plain" {
		t.Fatalf("explicit Content-Type overwritten: %q", got)
	}
}

func TestContentTypeCheckIsCaseInsensitive(t *testing.T) {
	spec, err := New("POST", "https://example.com", map[string]string{"content-type": "text/csv"}, Raw("x"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	d := spec.Materialize()
	if _, ok := d.Headers["Content-Type"]; ok {
		t.Fatalf("default injected despite lowercase content-type")
	}
	if got := d.Headers["content-type"]; got != "text/csv" {
		t.Fatalf("caller key casing not preserved: %v", d.Headers)
	}
}

func TestSpecIsImmutable(t *testing.T) {
	headers := map[string]string{"X-A": "1"}
	spec, err := New("POST", "https://example.com", headers, Raw("x"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Mutating the caller's map must not leak into the spec.
	headers["X-A"] = "changed"
	headers["X-B"] = "2"

	d := spec.Materialize()
	if d.Headers["X-A"] != "1" {
		t.Fatalf("caller mutation leaked into spec: %v", d.Headers)
	}
	if _, ok := d.Headers["X-B"]; ok {
		t.Fatalf("caller mutation leaked into spec: %v", d.Headers)
	}

	// Each materialized descriptor gets its own header map.
	d.Headers["X-C"] = "3"
	if _, ok := spec.Materialize().Headers["X-C"]; ok {
		t.Fatalf("descriptor mutation leaked back into spec")
	}
}
