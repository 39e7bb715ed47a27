/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/unikorn-cloud/api-examples/pkg/openapi"
)

// Response is the read-only result of a call.
type Response struct {
	statusCode int
	header     http.Header
	body       []byte
	duration   time.Duration
	traceID    string
}

func newResponse(statusCode int, header http.Header, body []byte, duration time.Duration, traceID string) *Response {
	return &Response{
		statusCode: statusCode,
		header:     header.Clone(),
		body:       slices.Clone(body),
		duration:   duration,
		traceID:    traceID,
	}
}

func (r *Response) StatusCode() int {
	return r.statusCode
}

// Header returns a copy of the response headers.
func (r *Response) Header() http.Header {
	return r.header.Clone()
}

// Body returns a copy of the raw body.
func (r *Response) Body() []byte {
	return slices.Clone(r.body)
}

// String returns the raw body as text.
func (r *Response) String() string {
	return string(r.body)
}

func (r *Response) Duration() time.Duration {
	return r.duration
}

// TraceID is the W3C trace ID the request was sent with.
func (r *Response) TraceID() string {
	return r.traceID
}

// JSON decodes the body into generic maps, slices and scalars.
func (r *Response) JSON() (any, error) {
	doc, err := decodeJSON(r.body)
	if err != nil {
		return nil, &DeserializationError{Target: "JSON document", Err: err}
	}

	return doc, nil
}

// ExtractPath returns the value at a dot/bracket path.
func (r *Response) ExtractPath(path string) (any, error) {
	tokens, err := parsePath(path)
	if err != nil {
		return nil, &ConfigurationError{Reason: "json path", Err: err}
	}

	value, err := lookupPath(r.body, tokens)
	if err != nil {
		return nil, &DeserializationError{Target: "path " + path, Err: err}
	}

	return value, nil
}

// ExtractAs decodes the whole body into T. Bodies of the OpenAPI models are
// checked against their component schema first, so a document of another
// shape is an error rather than a zero value.
func ExtractAs[T any](r *Response) (T, error) {
	var result T

	fail := func(err error) (T, error) {
		var zero T

		return zero, &DeserializationError{Target: fmt.Sprintf("%T", result), Err: err}
	}

	var raw any

	if err := json.Unmarshal(r.body, &raw); err != nil {
		return fail(err)
	}

	if raw == nil {
		return fail(ErrNullDocument)
	}

	if name := componentSchema(&result); name != "" {
		if err := openapi.ValidateComponent(name, raw); err != nil {
			return fail(err)
		}
	}

	if err := json.Unmarshal(r.body, &result); err != nil {
		return fail(err)
	}

	if validator, ok := any(&result).(interface{ Validate() error }); ok {
		if err := validator.Validate(); err != nil {
			return fail(err)
		}
	}

	return result, nil
}

// componentSchema names the OpenAPI component describing target, if any.
func componentSchema(target any) string {
	switch target.(type) {
	case *SessionStatus:
		return "sessionStatus"
	case *HubStatus:
		return "hubStatus"
	case *LoginResult:
		return "loginResponse"
	case *LoginCredentials:
		return "loginRequest"
	}

	return ""
}

// AssertStatus fails when the status code differs from expected.
func (r *Response) AssertStatus(expected int) error {
	if r.statusCode != expected {
		return &AssertionError{
			Subject:  "status code",
			Expected: expected,
			Actual:   r.statusCode,
			Detail:   fmt.Sprintf("body: %s (trace ID: %s)", r.body, r.traceID),
		}
	}

	return nil
}

// AssertJSONPresent fails when nothing exists at path. The value itself is
// not checked, a key holding null is present.
func (r *Response) AssertJSONPresent(path string) error {
	_, err := r.ExtractPath(path)
	if errors.Is(err, ErrFieldNotFound) {
		return &AssertionError{
			Subject:  "JSON field " + path,
			Expected: "present",
			Actual:   "absent",
			Err:      err,
		}
	}

	return err
}

// AssertJSONField fails when path is absent or its value does not satisfy
// expected. expected is either a Gomega matcher or a literal compared with
// Equal.
func (r *Response) AssertJSONField(path string, expected any) error {
	matcher := toMatcher(expected)

	value, err := r.ExtractPath(path)
	if errors.Is(err, ErrFieldNotFound) {
		return &AssertionError{
			Subject:  "JSON field " + path,
			Expected: describeExpected(expected),
			Actual:   "absent",
			Err:      err,
		}
	}

	if err != nil {
		return err
	}

	ok, err := matcher.Match(value)
	if err != nil {
		return &AssertionError{
			Subject:  "JSON field " + path,
			Expected: describeExpected(expected),
			Actual:   value,
			Err:      err,
		}
	}

	if !ok {
		return &AssertionError{
			Subject:  "JSON field " + path,
			Expected: describeExpected(expected),
			Actual:   value,
			Detail:   matcher.FailureMessage(value),
		}
	}

	return nil
}

// AssertBodyEquals compares the whole body byte for byte. Prefer field
// level assertions, this breaks on any unrelated backend change.
func (r *Response) AssertBodyEquals(expected string) error {
	if actual := string(r.body); actual != expected {
		return &AssertionError{
			Subject:  "body",
			Expected: expected,
			Actual:   actual,
		}
	}

	return nil
}

func toMatcher(expected any) types.GomegaMatcher {
	if matcher, ok := expected.(types.GomegaMatcher); ok {
		return matcher
	}

	if expected == nil {
		return gomega.BeNil()
	}

	return gomega.Equal(expected)
}

func describeExpected(expected any) any {
	if _, ok := expected.(types.GomegaMatcher); ok {
		return fmt.Sprintf("value matching %T", expected)
	}

	return expected
}
