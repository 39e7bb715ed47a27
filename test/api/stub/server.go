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

// Package stub serves recorded responses of the session pool and login
// services so the example suites can run without network access.
package stub

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RecordedSessionStatusBody is a verbatim capture of the session pool status
// with one manual session open. It embeds a live session ID, container ID and
// start time, so comparing a response to it byte for byte only ever passes
// against a backend that replays this exact capture.
const RecordedSessionStatusBody = `{"total":20,"used":1,"queued":0,"pending":0,"browsers":` +
	`{"android":{"8.1":{}},"chrome":{"100.0":{"user1":{"count":1,"sessions":` +
	`[{"id":"30f7a49d5c56afec35d595154af57258",` +
	`"container":"5ab612a9bf76cc6b5f6a1fc518ed29756aba1e2efe17083b6b6e5b898a7521a9",` +
	`"containerInfo":{"id":"5ab612a9bf76cc6b5f6a1fc518ed29756aba1e2efe17083b6b6e5b898a7521a9",` +
	`"ip":"172.18.0.4"},"vnc":true,"screen":"1920x1080x24","caps":` +
	`{"browserName":"chrome","version":"100.0","screenResolution":"1920x1080x24",` +
	`"enableVNC":true,"videoScreenSize":"1920x1080","name":"Manual session","labels":` +
	`{"manual":"true"},"sessionTimeout":"60m"},"started":"2023-02-27T17:52:27.211472143Z"}]}},` +
	`"99.0":{}},"chrome-mobile":{"86.0":{}},"firefox":{"97.0":{},"98.0":{}},"opera":` +
	`{"84.0":{},"85.0":{}}}}` + "\n"

const (
	hubRealm = "Selenoid"

	errMissingCredentials = "Missing email or username"
	errMissingPassword    = "Missing password"
	errUserNotFound       = "user not found"
	errMissingAPIKey      = "Missing API key"
)

// Options describes the accounts the stub accepts.
type Options struct {
	HubUsername string
	HubPassword string
	LoginEmail  string
	Token       string
	// APIKey, when set, must be sent as x-api-key to the login API.
	APIKey string
	// SessionStatusBody defaults to RecordedSessionStatusBody.
	SessionStatusBody string
}

// DefaultOptions mirrors the public demo accounts.
func DefaultOptions() Options {
	return Options{
		HubUsername:       "user1",
		HubPassword:       "1234",
		LoginEmail:        "eve.holt@reqres.in",
		Token:             "QpwL5tke4Pnpja7X4",
		SessionStatusBody: RecordedSessionStatusBody,
	}
}

type handler struct {
	options Options
}

// NewRouter returns a handler serving /status, /wd/hub/status and /api/login.
func NewRouter(options Options) http.Handler {
	if options.SessionStatusBody == "" {
		options.SessionStatusBody = RecordedSessionStatusBody
	}

	h := &handler{
		options: options,
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)

	router.Get("/status", h.getStatus)
	router.With(middleware.BasicAuth(hubRealm, map[string]string{options.HubUsername: options.HubPassword})).Get("/wd/hub/status", h.getHubStatus)
	router.Post("/api/login", h.postLogin)

	return router
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}

func (h *handler) getStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	_, _ = w.Write([]byte(h.options.SessionStatusBody))
}

func (h *handler) getHubStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"value": map[string]any{
			"message": "Selenoid stub ready",
			"ready":   true,
		},
	})
}

type loginBody struct {
	Email    string  `json:"email"`
	Password *string `json:"password"`
}

func (h *handler) postLogin(w http.ResponseWriter, r *http.Request) {
	if h.options.APIKey != "" && r.Header.Get("X-Api-Key") != h.options.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": errMissingAPIKey})
		return
	}

	var body loginBody

	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Email == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMissingCredentials})
		return
	}

	if body.Password == nil || *body.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errMissingPassword})
		return
	}

	if body.Email != h.options.LoginEmail {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": errUserNotFound})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": h.options.Token})
}
