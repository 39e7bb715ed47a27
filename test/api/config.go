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
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// TargetStub runs suites against the in-process stub backend.
	TargetStub = "stub"
	// TargetLive runs suites against the real services.
	TargetLive = "live"
)

type TestConfig struct {
	Target                string
	SessionBaseURL        string
	LoginBaseURL          string
	LoginAPIKey           string
	HubUsername           string
	HubPassword           string
	LoginEmail            string
	LoginPassword         string
	ExpectedToken         string
	ExpectedTotal         int
	ExpectedChromeVersion string
	RequestTimeout        time.Duration
	SkipIntegration       bool
	DebugLogging          bool
	LogRequests           bool
	LogResponses          bool
	ValidateSchema        bool
	RunAntiPatterns       bool
}

// AddFlags registers every setting with its default. Environment variables
// override the defaults, the flag name upper cased with '-' replaced by '_',
// and flags that were set override both.
func AddFlags(f *pflag.FlagSet) {
	f.String("target", TargetStub, "Backend to run suites against, one of stub or live.")
	f.String("session-base-url", "https://selenoid.autotests.cloud", "Base URL of the browser session pool.")
	f.String("login-base-url", "https://reqres.in", "Base URL of the login API.")
	f.String("login-api-key", "", "Optional x-api-key header sent to the login API.")
	f.String("hub-username", "user1", "Basic auth user for the hub status endpoint.")
	f.String("hub-password", "1234", "Basic auth password for the hub status endpoint.")
	f.String("login-email", "eve.holt@reqres.in", "Known-good login email.")
	f.String("login-password", "cityslicka", "Known-good login password.")
	f.String("expected-token", "QpwL5tke4Pnpja7X4", "Token issued for the known-good login.")
	f.Int("expected-total", 20, "Expected session pool capacity.")
	f.String("expected-chrome-version", "100.0", "Chrome version expected in the session pool.")
	f.Duration("request-timeout", 30*time.Second, "Per request timeout.")
	f.Bool("skip-integration", false, "Skip suites that need a backend.")
	f.Bool("debug-logging", false, "Enable debug level logging.")
	f.Bool("log-requests", false, "Log every request line.")
	f.Bool("log-responses", false, "Log every response body.")
	f.Bool("validate-schema", false, "Validate response bodies against the OpenAPI document.")
	f.Bool("run-anti-patterns", false, "Run the whole-body comparison example.")
}

// testFlags holds settings given on the command line, see RegisterFlags.
var testFlags = newFlagSet() //nolint:gochecknoglobals

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("api-tests", pflag.ContinueOnError)
	AddFlags(flags)

	return flags
}

// goFlag exposes a pflag setting to the standard library flag package.
// Setting it through the pflag set marks it changed, so it takes
// precedence over the environment.
type goFlag struct {
	flags *pflag.FlagSet
	flag  *pflag.Flag
}

func (g goFlag) String() string {
	if g.flag == nil {
		return ""
	}

	return g.flag.Value.String()
}

func (g goFlag) Set(value string) error {
	return g.flags.Set(g.flag.Name, value)
}

func (g goFlag) IsBoolFlag() bool {
	return g.flag != nil && g.flag.Value.Type() == "bool"
}

// RegisterFlags adds every setting to a standard library flag set. Suites
// call it on flag.CommandLine from init, so settings can be passed as
// `go test ./test/api/suites -args --target=live`.
func RegisterFlags(goFlags *flag.FlagSet) {
	registerFlags(goFlags, testFlags)
}

func registerFlags(goFlags *flag.FlagSet, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		goFlags.Var(goFlag{flags: flags, flag: f}, f.Name, f.Usage)
	})
}

// LoadTestConfig loads configuration from command line flags, environment
// variables and .env files, in that order of precedence.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	return loadTestConfig(testFlags)
}

func loadTestConfig(flags *pflag.FlagSet) (*TestConfig, error) {
	loadEnvFile()

	v := viper.New()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AllowEmptyEnv(true)
	v.AutomaticEnv()

	config := &TestConfig{
		Target:                strings.ToLower(v.GetString("target")),
		SessionBaseURL:        strings.TrimSuffix(v.GetString("session-base-url"), "/"),
		LoginBaseURL:          strings.TrimSuffix(v.GetString("login-base-url"), "/"),
		LoginAPIKey:           v.GetString("login-api-key"),
		HubUsername:           v.GetString("hub-username"),
		HubPassword:           v.GetString("hub-password"),
		LoginEmail:            v.GetString("login-email"),
		LoginPassword:         v.GetString("login-password"),
		ExpectedToken:         v.GetString("expected-token"),
		ExpectedTotal:         v.GetInt("expected-total"),
		ExpectedChromeVersion: v.GetString("expected-chrome-version"),
		RequestTimeout:        v.GetDuration("request-timeout"),
		SkipIntegration:       v.GetBool("skip-integration"),
		DebugLogging:          v.GetBool("debug-logging"),
		LogRequests:           v.GetBool("log-requests"),
		LogResponses:          v.GetBool("log-responses"),
		ValidateSchema:        v.GetBool("validate-schema"),
		RunAntiPatterns:       v.GetBool("run-anti-patterns"),
	}

	// Validate required fields
	if err := validateRequiredFields(config); err != nil {
		return nil, err
	}

	return config, nil
}

// WithBaseURL returns a copy of the configuration with both services
// pointed at the same base URL, this is how the stub backend is wired in.
func (c *TestConfig) WithBaseURL(baseURL string) *TestConfig {
	clone := *c
	clone.SessionBaseURL = strings.TrimSuffix(baseURL, "/")
	clone.LoginBaseURL = clone.SessionBaseURL

	return &clone
}

func loadEnvFile() {
	envPaths := []string{
		"../../.env",    // From test/api directory
		"../../../.env", // From test/api/suites directory
	}

	var envPath string

	for _, path := range envPaths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				envPath = absPath
				break
			}
		}
	}

	if envPath == "" {
		// .env file not found - this is OK in CI/CD where env vars are set directly
		return
	}

	// Load .env file, existing environment variables take precedence.
	if err := godotenv.Load(envPath); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", envPath, err)
	}
}

// validateRequiredFields checks that all required configuration values are set.
func validateRequiredFields(config *TestConfig) error {
	if config.Target != TargetStub && config.Target != TargetLive {
		return fmt.Errorf("invalid TARGET %q: must be %q or %q", config.Target, TargetStub, TargetLive)
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("invalid REQUEST_TIMEOUT %s: must be positive", config.RequestTimeout)
	}

	var missing []string

	required := map[string]string{
		"SESSION_BASE_URL": config.SessionBaseURL,
		"LOGIN_BASE_URL":   config.LoginBaseURL,
		"HUB_USERNAME":     config.HubUsername,
		"HUB_PASSWORD":     config.HubPassword,
		"LOGIN_EMAIL":      config.LoginEmail,
		"LOGIN_PASSWORD":   config.LoginPassword,
		"EXPECTED_TOKEN":   config.ExpectedToken,
	}

	for envVar, value := range required {
		if value == "" {
			missing = append(missing, envVar)
		}
	}

	slices.Sort(missing)

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s. Please set these environment variables or add them to a .env file", strings.Join(missing, ", "))
	}

	for envVar, value := range map[string]string{"SESSION_BASE_URL": config.SessionBaseURL, "LOGIN_BASE_URL": config.LoginBaseURL} {
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid %s %q: must be an absolute http or https URL", envVar, value)
		}
	}

	return nil
}
