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
	"maps"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const ContentTypeJSON = "application/json"

// BasicAuth is a username and password pair sent with HTTP Basic authentication.
type BasicAuth struct {
	Username string
	Password string
}

// LogOptions selects which parts of a call are logged.
type LogOptions struct {
	URI          bool
	Headers      bool
	RequestBody  bool
	Status       bool
	ResponseBody bool
}

// LogAll logs everything about the request and response.
func LogAll() LogOptions {
	return LogOptions{
		URI:          true,
		Headers:      true,
		RequestBody:  true,
		Status:       true,
		ResponseBody: true,
	}
}

// RequestSpec describes a single request. It is passed by value and never
// modified by the client.
type RequestSpec struct {
	Method      string
	URL         string
	Headers     map[string]string
	BasicAuth   *BasicAuth
	ContentType string
	// Body is serialized to JSON unless it is already a []byte or string.
	Body any
	Log  LogOptions
}

// Request is a fully specified, immutable request.
type Request struct {
	method      string
	url         string
	header      http.Header
	basicAuth   *BasicAuth
	contentType string
	body        []byte
	log         LogOptions
}

func (r *Request) Method() string {
	return r.method
}

func (r *Request) URL() string {
	return r.url
}

// Header returns a copy of the request headers.
func (r *Request) Header() http.Header {
	return r.header.Clone()
}

func (r *Request) BasicAuth() (string, string, bool) {
	if r.basicAuth == nil {
		return "", "", false
	}

	return r.basicAuth.Username, r.basicAuth.Password, true
}

func (r *Request) ContentType() string {
	return r.contentType
}

// Body returns a copy of the serialized body, nil when there is none.
func (r *Request) Body() []byte {
	return slices.Clone(r.body)
}

func (r *Request) Log() LogOptions {
	return r.log
}

// BuildRequest validates the spec and serializes its body. No network I/O
// happens here.
func BuildRequest(spec RequestSpec) (*Request, error) {
	if spec.Method == "" {
		return nil, &ConfigurationError{Reason: "method", Err: ErrMissingMethod}
	}

	target, err := url.Parse(spec.URL)
	if err != nil {
		return nil, &ConfigurationError{Reason: "url", Err: err}
	}

	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, &ConfigurationError{Reason: "url " + spec.URL, Err: ErrInvalidURL}
	}

	auth, err := resolveBasicAuth(target, spec.BasicAuth)
	if err != nil {
		return nil, err
	}

	header := make(http.Header, len(spec.Headers))

	// Sorted so that canonicalization collisions resolve deterministically.
	for _, name := range slices.Sorted(maps.Keys(spec.Headers)) {
		header.Set(name, spec.Headers[name])
	}

	body, err := serializeBody(spec.ContentType, spec.Body)
	if err != nil {
		return nil, err
	}

	if spec.ContentType != "" {
		header.Set("Content-Type", spec.ContentType)
	}

	return &Request{
		method:      strings.ToUpper(spec.Method),
		url:         target.String(),
		header:      header,
		basicAuth:   auth,
		contentType: spec.ContentType,
		body:        body,
		log:         spec.Log,
	}, nil
}

// resolveBasicAuth lifts user info out of the URL, so it never appears in
// logs, and checks it does not conflict with explicit credentials.
func resolveBasicAuth(target *url.URL, explicit *BasicAuth) (*BasicAuth, error) {
	if target.User == nil {
		if explicit == nil {
			return nil, nil
		}

		auth := *explicit

		return &auth, nil
	}

	if explicit != nil {
		return nil, &ConfigurationError{Reason: "basic auth", Err: ErrAmbiguousAuth}
	}

	password, _ := target.User.Password()
	auth := &BasicAuth{
		Username: target.User.Username(),
		Password: password,
	}

	target.User = nil

	return auth, nil
}

func serializeBody(contentType string, body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}

	if contentType == "" {
		return nil, &ConfigurationError{Reason: "body", Err: ErrMissingContentType}
	}

	switch t := body.(type) {
	case []byte:
		return slices.Clone(t), nil
	case string:
		return []byte(t), nil
	}

	if !IsJSONContentType(contentType) {
		return nil, &ConfigurationError{Reason: "body with content type " + contentType, Err: ErrUnserializableBody}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, &ConfigurationError{Reason: "serializing body", Err: err}
	}

	return data, nil
}

// IsJSONContentType accepts application/json and structured syntax
// suffixes such as application/problem+json, with or without parameters.
func IsJSONContentType(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == ContentTypeJSON || strings.HasSuffix(mediaType, "+json")
}
