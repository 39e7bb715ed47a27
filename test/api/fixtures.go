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

package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/unikorn-cloud/api-examples/pkg/openapi"

	"k8s.io/utils/ptr"
)

// LoginCredentials is the login request body.
type LoginCredentials = openapi.LoginRequest

// LoginResult is the login response body.
type LoginResult = openapi.LoginResponse

// SessionStatus is the session pool status body.
type SessionStatus = openapi.SessionStatus

// HubStatus is the hub status body.
type HubStatus = openapi.HubStatus

// KnownGoodCredentials returns the login pair that is expected to be issued
// ExpectedToken.
func KnownGoodCredentials(config *TestConfig) LoginCredentials {
	return LoginCredentials{
		Email:    openapi_types.Email(config.LoginEmail),
		Password: ptr.To(config.LoginPassword),
	}
}

// CredentialsWithoutPassword returns the known-good email with no password.
func CredentialsWithoutPassword(config *TestConfig) LoginCredentials {
	return LoginCredentials{
		Email: openapi_types.Email(config.LoginEmail),
	}
}

// HubCredentials returns the basic auth pair for the hub status endpoint.
func HubCredentials(config *TestConfig) *BasicAuth {
	return &BasicAuth{
		Username: config.HubUsername,
		Password: config.HubPassword,
	}
}
