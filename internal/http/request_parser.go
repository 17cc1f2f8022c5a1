package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

var (
	ErrNotObject   = errors.New("body is not a JSON object")
	ErrInvalidForm = errors.New("invalid form body")
)

// RequestBodyParser reads a JSON or form-encoded body once.
//
// JSON is decoded with UseNumber so amounts keep their exact text. Form
// bodies yield string values only.
type RequestBodyParser struct {
	body        []byte
	contentType string
	fields      map[string]any
	parsed      bool
	err         error
}

// NewRequestBodyParser reads at most MaxBodyBytes of r's body.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	return p
}

// Parse decodes the body. An empty body parses to no fields.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	p.fields = make(map[string]any)
	trimmed := bytes.TrimSpace(p.body)
	if len(trimmed) == 0 {
		return nil
	}

	if p.isForm() {
		values, err := url.ParseQuery(string(trimmed))
		if err != nil {
			p.err = fmt.Errorf("%w: %v", ErrInvalidForm, err)
			return p.err
		}
		for key := range values {
			p.fields[key] = values.Get(key)
		}
		return nil
	}

	p.err = decodeObject(trimmed, p.fields)
	return p.err
}

func decodeObject(body []byte, into map[string]any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data after JSON value")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return ErrNotObject
	}
	for k, val := range obj {
		into[k] = val
	}
	return nil
}

func (p *RequestBodyParser) isForm() bool {
	mt, _, err := mime.ParseMediaType(p.contentType)
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// Fields returns the decoded top-level fields. Call Parse first.
func (p *RequestBodyParser) Fields() map[string]any {
	return p.fields
}

// IsForm reports whether the body was form encoded.
func (p *RequestBodyParser) IsForm() bool {
	return p.isForm()
}
