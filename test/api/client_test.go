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

package api_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2" //nolint:revive
	. "github.com/onsi/gomega"    //nolint:revive
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unikorn-cloud/api-examples/test/api"
	"github.com/unikorn-cloud/api-examples/test/api/mock"
	"github.com/unikorn-cloud/api-examples/test/api/stub"
)

// capturedRequest is what the recording server saw.
type capturedRequest struct {
	method   string
	path     string
	header   http.Header
	body     string
	username string
	password string
	hasAuth  bool
}

// recordingServer answers every request with 200 and remembers the last one.
type recordingServer struct {
	*httptest.Server

	lock sync.Mutex
	last capturedRequest
}

func newRecordingServer() *recordingServer {
	s := &recordingServer{}

	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		username, password, ok := r.BasicAuth()

		s.lock.Lock()
		s.last = capturedRequest{
			method:   r.Method,
			path:     r.URL.Path,
			header:   r.Header.Clone(),
			body:     string(body),
			username: username,
			password: password,
			hasAuth:  ok,
		}
		s.lock.Unlock()

		w.Header().Set("Content-Type", api.ContentTypeJSON)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))

	return s
}

func (s *recordingServer) request() capturedRequest {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.last
}

var _ = Describe("API Client", func() {
	var (
		ctx context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	Context("When sending requests", func() {
		var (
			server *recordingServer
			client *api.APIClient
		)

		BeforeEach(func() {
			server = newRecordingServer()
			DeferCleanup(server.Close)

			client = api.NewAPIClientWithConfig(newTestConfig(server.URL))
		})

		It("should attach trace context and a request ID", func() {
			resp, err := client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatusCode(http.StatusOK))

			captured := server.request()
			Expect(captured.method).To(Equal(http.MethodGet))
			Expect(captured.path).To(Equal("/status"))
			Expect(captured.header.Get("Traceparent")).To(MatchRegexp(`^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`))
			Expect(captured.header.Get("Traceparent")).To(ContainSubstring(resp.TraceID()))
			Expect(captured.header.Get("Tracestate")).To(Equal("test-automation=ginkgo"))

			_, err = uuid.Parse(captured.header.Get("X-Request-Id"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("should use a fresh request ID per call", func() {
			_, err := client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())

			first := server.request().header.Get("X-Request-Id")

			_, err = client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())

			Expect(server.request().header.Get("X-Request-Id")).NotTo(Equal(first))
		})

		It("should send credentials embedded in the URL as basic auth", func() {
			resp, err := client.Send(ctx, api.RequestSpec{
				Method: http.MethodGet,
				URL:    client.Endpoints().HubStatusWithUserInfo("user1", "1234"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatusCode(http.StatusOK))

			captured := server.request()
			Expect(captured.path).To(Equal("/wd/hub/status"))
			Expect(captured.hasAuth).To(BeTrue())
			Expect(captured.username).To(Equal("user1"))
			Expect(captured.password).To(Equal("1234"))
		})

		It("should send a JSON body with its content type", func() {
			credentials := api.KnownGoodCredentials(newTestConfig(server.URL))

			_, err := client.Login(ctx, credentials, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())

			captured := server.request()
			Expect(captured.method).To(Equal(http.MethodPost))
			Expect(captured.path).To(Equal("/api/login"))
			Expect(captured.header.Get("Content-Type")).To(Equal(api.ContentTypeJSON))
			Expect(captured.header.Get("X-Api-Key")).To(BeEmpty())
			Expect(captured.body).To(MatchJSON(`{"email":"eve.holt@reqres.in","password":"cityslicka"}`))
		})

		It("should send the API key when configured", func() {
			config := newTestConfig(server.URL)
			config.LoginAPIKey = "reqres-free-v1"

			client = api.NewAPIClientWithConfig(config)

			_, err := client.Login(ctx, api.KnownGoodCredentials(config), api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(server.request().header.Get("X-Api-Key")).To(Equal("reqres-free-v1"))
		})

		It("should not send a request that fails to build", func() {
			_, err := client.Send(ctx, api.RequestSpec{URL: server.URL})

			var configErr *api.ConfigurationError
			Expect(errors.As(err, &configErr)).To(BeTrue())
			Expect(server.request().method).To(BeEmpty())
		})
	})

	Context("When talking to the stub backend", func() {
		var (
			client *api.APIClient
		)

		BeforeEach(func() {
			server := httptest.NewServer(stub.NewRouter(stub.DefaultOptions()))
			DeferCleanup(server.Close)

			client = api.NewAPIClientWithConfig(newTestConfig(server.URL))
		})

		It("should return non-2xx statuses as responses", func() {
			resp, err := client.GetHubStatus(ctx, nil, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatusCode(http.StatusUnauthorized))
		})

		It("should round trip the login flow", func() {
			resp, err := client.Login(ctx, api.KnownGoodCredentials(newTestConfig("")), api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp).To(api.HaveStatusCode(http.StatusOK))
			Expect(resp).To(api.HaveJSONValue("token", "QpwL5tke4Pnpja7X4"))
		})
	})

	Context("When the transport fails", func() {
		It("should return a network error after a single attempt", func() {
			ctrl := gomock.NewController(GinkgoT())
			transport := mock.NewMockRoundTripper(ctrl)

			reset := errors.New("connection reset by peer")
			transport.EXPECT().RoundTrip(gomock.Any()).Return(nil, reset).Times(1)

			client := api.NewAPIClientWithConfig(newTestConfig("http://selenoid.invalid"), api.WithTransport(transport))

			resp, err := client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(resp).To(BeNil())
			Expect(err).To(MatchError(reset))

			var networkErr *api.NetworkError
			Expect(errors.As(err, &networkErr)).To(BeTrue())
			Expect(networkErr.Method).To(Equal(http.MethodGet))
			Expect(networkErr.URL).To(Equal("http://selenoid.invalid/status"))
			Expect(networkErr.TraceID).To(HaveLen(32))
		})

		It("should report refused connections", func() {
			server := httptest.NewServer(http.NotFoundHandler())
			url := server.URL
			server.Close()

			client := api.NewAPIClientWithConfig(newTestConfig(url))

			_, err := client.GetSessionStatus(ctx, api.LogOptions{})

			var networkErr *api.NetworkError
			Expect(errors.As(err, &networkErr)).To(BeTrue())
		})

		It("should report timeouts", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				time.Sleep(500 * time.Millisecond)
				w.WriteHeader(http.StatusOK)
			}))
			DeferCleanup(server.Close)

			config := newTestConfig(server.URL)
			config.RequestTimeout = 50 * time.Millisecond

			client := api.NewAPIClientWithConfig(config)

			_, err := client.GetSessionStatus(ctx, api.LogOptions{})

			var networkErr *api.NetworkError
			Expect(errors.As(err, &networkErr)).To(BeTrue())
		})

		It("should honour context cancellation", func() {
			server := newRecordingServer()
			DeferCleanup(server.Close)

			client := api.NewAPIClientWithConfig(newTestConfig(server.URL))

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := client.GetSessionStatus(cancelled, api.LogOptions{})
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Context("When logging", func() {
		var (
			server *recordingServer
			logs   *observer.ObservedLogs
			logger *zap.Logger
		)

		BeforeEach(func() {
			server = newRecordingServer()
			DeferCleanup(server.Close)

			var core zapcore.Core

			core, logs = observer.New(zapcore.InfoLevel)
			logger = zap.New(core)
		})

		It("should stay quiet by default", func() {
			client := api.NewAPIClientWithConfig(newTestConfig(server.URL), api.WithLogger(logger))

			_, err := client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs.Len()).To(BeZero())
		})

		It("should log everything when asked to", func() {
			client := api.NewAPIClientWithConfig(newTestConfig(server.URL), api.WithLogger(logger))

			_, err := client.Login(ctx, api.KnownGoodCredentials(newTestConfig("")), api.LogAll())
			Expect(err).NotTo(HaveOccurred())

			for _, message := range []string{"request", "request headers", "request body", "response", "response headers", "response body"} {
				Expect(logs.FilterMessage(message).Len()).To(Equal(1), message)
			}

			response := logs.FilterMessage("response").All()[0].ContextMap()
			Expect(response).To(HaveKeyWithValue("status", int64(http.StatusOK)))
			Expect(response).To(HaveKeyWithValue("url", server.URL+"/api/login"))

			body := logs.FilterMessage("response body").All()[0].ContextMap()
			Expect(body).To(HaveKeyWithValue("body", `{"ok":true}`))
		})

		It("should apply configuration wide logging", func() {
			config := newTestConfig(server.URL)
			config.LogRequests = true

			client := api.NewAPIClientWithConfig(config, api.WithLogger(logger))

			_, err := client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs.FilterMessage("request").Len()).To(Equal(1))
			Expect(logs.FilterMessage("response").Len()).To(Equal(1))
			Expect(logs.FilterMessage("response body").Len()).To(BeZero())
		})

		It("should redact secrets from logged headers", func() {
			client := api.NewAPIClientWithConfig(newTestConfig(server.URL), api.WithLogger(logger))

			_, err := client.Send(ctx, api.RequestSpec{
				Method: http.MethodGet,
				URL:    server.URL + "/status",
				Headers: map[string]string{
					"Authorization": "Bearer secret",
					"X-Api-Key":     "secret",
				},
				Log: api.LogOptions{Headers: true},
			})
			Expect(err).NotTo(HaveOccurred())

			fields := logs.FilterMessage("request headers").All()[0].ContextMap()
			Expect(fields).To(HaveKey("headers"))

			headers, ok := fields["headers"].(http.Header)
			Expect(ok).To(BeTrue())
			Expect(headers.Get("Authorization")).To(Equal("[REDACTED]"))
			Expect(headers.Get("X-Api-Key")).To(Equal("[REDACTED]"))

			Expect(server.request().header.Get("Authorization")).To(Equal("Bearer secret"))
		})

		It("should log the headers actually sent with basic auth redacted", func() {
			client := api.NewAPIClientWithConfig(newTestConfig(server.URL), api.WithLogger(logger))

			_, err := client.GetHubStatus(ctx, &api.BasicAuth{Username: "user1", Password: "1234"}, api.LogAll())
			Expect(err).NotTo(HaveOccurred())

			sent := server.request().header
			Expect(sent.Get("Authorization")).To(HavePrefix("Basic "))

			entries := logs.FilterMessage("request headers").All()
			Expect(entries).To(HaveLen(1))

			headers, ok := entries[0].ContextMap()["headers"].(http.Header)
			Expect(ok).To(BeTrue())
			Expect(headers.Get("Traceparent")).To(Equal(sent.Get("Traceparent")))
			Expect(headers.Get("Tracestate")).To(Equal("test-automation=ginkgo"))
			Expect(headers.Get("X-Request-Id")).To(Equal(sent.Get("X-Request-Id")))
			Expect(headers.Get("User-Agent")).NotTo(BeEmpty())
			Expect(headers.Get("Authorization")).To(Equal("[REDACTED]"))
		})

		It("should not log headers unless asked to", func() {
			client := api.NewAPIClientWithConfig(newTestConfig(server.URL), api.WithLogger(logger))

			_, err := client.GetHubStatus(ctx, &api.BasicAuth{Username: "user1", Password: "1234"}, api.LogOptions{URI: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(logs.FilterMessage("request headers").Len()).To(BeZero())
		})

		It("should log failures with the trace ID", func() {
			ctrl := gomock.NewController(GinkgoT())
			transport := mock.NewMockRoundTripper(ctrl)
			transport.EXPECT().RoundTrip(gomock.Any()).Return(nil, errors.New("no route to host")).Times(1)

			client := api.NewAPIClientWithConfig(newTestConfig(server.URL), api.WithLogger(logger), api.WithTransport(transport))

			_, err := client.GetSessionStatus(ctx, api.LogOptions{})
			Expect(err).To(HaveOccurred())

			failures := logs.FilterMessage("http request failed").All()
			Expect(failures).To(HaveLen(1))
			Expect(failures[0].Level).To(Equal(zapcore.ErrorLevel))
			Expect(logs.FilterMessageSnippet("TRACE CONTEXT").Len()).To(Equal(1))
		})
	})
})
