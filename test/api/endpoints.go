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
	"net/url"
)

// Endpoints contains all API endpoint patterns.
type Endpoints struct {
	sessionBaseURL string
	loginBaseURL   string
}

// NewEndpoints creates a new Endpoints instance.
func NewEndpoints(config *TestConfig) *Endpoints {
	return &Endpoints{
		sessionBaseURL: config.SessionBaseURL,
		loginBaseURL:   config.LoginBaseURL,
	}
}

// Session pool endpoints.
func (e *Endpoints) SessionStatus() string {
	return e.sessionBaseURL + "/status"
}

func (e *Endpoints) HubStatus() string {
	return e.sessionBaseURL + "/wd/hub/status"
}

// HubStatusWithUserInfo embeds the credentials in the URL itself.
func (e *Endpoints) HubStatusWithUserInfo(username, password string) string {
	u, err := url.Parse(e.HubStatus())
	if err != nil {
		// Base URLs are validated when the configuration is loaded.
		return e.HubStatus()
	}

	u.User = url.UserPassword(username, password)

	return u.String()
}

// Login API endpoints.
func (e *Endpoints) Login() string {
	return e.loginBaseURL + "/api/login"
}
