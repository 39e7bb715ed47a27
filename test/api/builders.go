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
	"net/http"

	"github.com/google/uuid"
)

const apiKeyHeader = "X-Api-Key"

// NewRequestID returns a unique ID sent as X-Request-Id.
func NewRequestID() string {
	return uuid.NewString()
}

// SessionStatusRequest describes GET /status.
func SessionStatusRequest(endpoints *Endpoints, log LogOptions) RequestSpec {
	return RequestSpec{
		Method: http.MethodGet,
		URL:    endpoints.SessionStatus(),
		Log:    log,
	}
}

// HubStatusRequest describes GET /wd/hub/status, auth may be nil.
func HubStatusRequest(endpoints *Endpoints, auth *BasicAuth, log LogOptions) RequestSpec {
	return RequestSpec{
		Method:    http.MethodGet,
		URL:       endpoints.HubStatus(),
		BasicAuth: auth,
		Log:       log,
	}
}

// LoginRequest describes POST /api/login with a JSON body.
func LoginRequest(endpoints *Endpoints, config *TestConfig, credentials LoginCredentials, log LogOptions) RequestSpec {
	spec := RequestSpec{
		Method:      http.MethodPost,
		URL:         endpoints.Login(),
		ContentType: ContentTypeJSON,
		Body:        credentials,
		Log:         log,
	}

	if config.LoginAPIKey != "" {
		spec.Headers = map[string]string{
			apiKeyHeader: config.LoginAPIKey,
		}
	}

	return spec
}
