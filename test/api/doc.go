/*
Copyright 2024-2025 the Unikorn Authors.
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

// Package api provides a small HTTP assertion harness for example API tests.
//
// # Request Builder
//
// A RequestSpec is a plain value describing one call: method, URL, headers,
// an optional basic auth pair, an optional content type and body. BuildRequest
// validates it and serializes the body once, returning an immutable Request.
// Misconfiguration is reported as a ConfigurationError before any network
// I/O happens.
//
// # Transport
//
// APIClient sends a Request with a single blocking call and never retries.
// Each call carries W3C trace context headers and a request ID so failures
// can be correlated with backend logs. Diagnostic logging of the request and
// response is selected per call with LogOptions and written to the Ginkgo
// writer.
//
// # Assertions
//
// A Response exposes AssertStatus, AssertJSONPresent, AssertJSONField and
// ExtractAs, each returning typed errors, plus the Gomega matchers
// HaveStatusCode, HaveJSONPath and HaveJSONValue. Key presence and value
// equality are separate assertions on purpose. Whole body comparison is
// available as AssertBodyEquals but should be avoided.
//
// # Models
//
// Request and response bodies are the types generated from the OpenAPI
// document in pkg/openapi, with a few hand-written accessors alongside.
package api
