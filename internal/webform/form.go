package webform

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// FieldError reports a missing or malformed request field. The message is
// meant to go straight into the JSON error envelope.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func missing(field string) *FieldError {
	return &FieldError{Field: field, Reason: "is required"}
}

// Form wraps the parsed parameter set of a request (POST body plus query
// string). It distinguishes "key not present" from "present but empty",
// so zero values like mood_intensity=0 survive validation.
type Form struct {
	vals url.Values
}

// Parse reads form-encoded parameters from the request.
func Parse(r *http.Request) (*Form, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("parse form: %w", err)
	}
	return &Form{vals: r.Form}, nil
}

// FromValues wraps an existing value set, mainly for tests.
func FromValues(vals url.Values) *Form {
	return &Form{vals: vals}
}

func (f *Form) Has(key string) bool {
	_, ok := f.vals[key]
	return ok
}

// String returns the trimmed value or def when the key is absent or blank.
func (f *Form) String(key, def string) string {
	v := strings.TrimSpace(f.vals.Get(key))
	if v == "" {
		return def
	}
	return v
}

// Required returns the trimmed value and fails when it is absent or blank.
func (f *Form) Required(key string) (string, error) {
	v := strings.TrimSpace(f.vals.Get(key))
	if v == "" {
		return "", missing(key)
	}
	return v, nil
}

// ID parses a positive int64 identifier.
func (f *Form) ID(key string) (int64, error) {
	v, err := f.Required(key)
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return 0, &FieldError{Field: key, Reason: "must be a positive integer"}
	}
	return id, nil
}

// Float64 parses a numeric field. The key must be present but zero is a
// legitimate value.
func (f *Form) Float64(key string) (float64, error) {
	if !f.Has(key) {
		return 0, missing(key)
	}
	v := strings.TrimSpace(f.vals.Get(key))
	if v == "" {
		return 0, missing(key)
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, &FieldError{Field: key, Reason: "must be a number"}
	}
	return n, nil
}

// Bool reads a boolean flag ("1"/"true" are truthy). Absent keys return def.
func (f *Form) Bool(key string, def bool) bool {
	if !f.Has(key) {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(f.vals.Get(key))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// StringList decodes a field sent as a JSON array string (how the mobile
// client ships multi-valued fields). An absent or blank field is an empty
// list; malformed JSON is a field error rather than a silent drop.
func (f *Form) StringList(key string) ([]string, error) {
	v := strings.TrimSpace(f.vals.Get(key))
	if v == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return nil, &FieldError{Field: key, Reason: "must be a JSON array of strings"}
	}
	return out, nil
}
