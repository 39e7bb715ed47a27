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

package openapi

import (
	"errors"

	"k8s.io/apimachinery/pkg/util/sets"
)

var (
	ErrNoToken          = errors.New("login response carries no token")
	ErrNoOutcome        = errors.New("login response carries neither a token nor an error")
	ErrAmbiguousOutcome = errors.New("login response carries both a token and an error")
)

// The accessors below are written by hand on top of the generated models.
// Reading the generated pointer fields directly gives the same values, the
// accessors just collapse nil to the zero value.

// GetToken returns the token, or an empty string on failure.
func (r LoginResponse) GetToken() string {
	if r.Token == nil {
		return ""
	}

	return *r.Token
}

// GetError returns the error message, or an empty string on success.
func (r LoginResponse) GetError() string {
	if r.Error == nil {
		return ""
	}

	return *r.Error
}

// Succeeded reports whether a token was issued.
func (r LoginResponse) Succeeded() bool {
	return r.Token != nil && r.Error == nil
}

// Validate checks that exactly one of token or error is populated.
func (r LoginResponse) Validate() error {
	switch {
	case r.Token != nil && r.Error != nil:
		return ErrAmbiguousOutcome
	case r.Token == nil && r.Error == nil:
		return ErrNoOutcome
	}

	return nil
}

// RequireToken returns the token or ErrNoToken.
func (r LoginResponse) RequireToken() (string, error) {
	if !r.Succeeded() {
		return "", ErrNoToken
	}

	return *r.Token, nil
}

func (r LoginRequest) GetEmail() string {
	return string(r.Email)
}

func (r LoginRequest) GetPassword() string {
	if r.Password == nil {
		return ""
	}

	return *r.Password
}

// Names returns the set of browser names in the pool.
func (b Browsers) Names() sets.Set[string] {
	return sets.KeySet(b)
}

// Versions returns the set of versions offered for a browser.
func (v BrowserVersions) Versions() sets.Set[string] {
	return sets.KeySet(v)
}

// ActiveSessions counts sessions across all users of a browser version.
func (u BrowserUsage) ActiveSessions() int {
	var count int

	for _, quota := range u {
		count += quota.Count
	}

	return count
}

func (v HubStatusValue) GetMessage() string {
	if v.Message == nil {
		return ""
	}

	return *v.Message
}
