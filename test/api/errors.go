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
	"errors"
	"fmt"
)

var (
	ErrMissingMethod      = errors.New("request method is required")
	ErrInvalidURL         = errors.New("request URL must be absolute http or https")
	ErrMissingContentType = errors.New("body supplied without a content type")
	ErrUnserializableBody = errors.New("content type does not support body serialization")
	ErrAmbiguousAuth      = errors.New("basic auth supplied in both URL and request")
	ErrFieldNotFound      = errors.New("field not found")
	ErrInvalidPath        = errors.New("invalid JSON path")
	ErrNullDocument       = errors.New("document is null")
)

// ConfigurationError is returned when a request cannot be built.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("request configuration: %s: %v", e.Reason, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NetworkError is returned when the transport fails to complete a call.
// It is never retried.
type NetworkError struct {
	Method  string
	URL     string
	TraceID string
	Err     error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s failed (trace ID: %s): %v", e.Method, e.URL, e.TraceID, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AssertionError records an expected versus actual mismatch.
type AssertionError struct {
	Subject  string
	Expected any
	Actual   any
	Detail   string
	Err      error
}

func (e *AssertionError) Error() string {
	msg := fmt.Sprintf("%s: expected %v, got %v", e.Subject, e.Expected, e.Actual)
	if e.Detail != "" {
		msg += "\n" + e.Detail
	}

	return msg
}

func (e *AssertionError) Unwrap() error {
	return e.Err
}

// DeserializationError is returned when a body does not match the requested shape.
type DeserializationError struct {
	Target string
	Err    error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("deserializing response into %s: %v", e.Target, e.Err)
}

func (e *DeserializationError) Unwrap() error {
	return e.Err
}
