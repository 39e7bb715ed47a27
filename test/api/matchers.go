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

	"github.com/onsi/gomega/format"
	"github.com/onsi/gomega/types"
)

// HaveStatusCode succeeds when a *Response has the expected status code.
func HaveStatusCode(expected int) types.GomegaMatcher {
	return &responseMatcher{
		description: fmt.Sprintf("to have status code %d", expected),
		assert: func(r *Response) error {
			return r.AssertStatus(expected)
		},
	}
}

// HaveJSONPath succeeds when something exists at path, whatever its value.
func HaveJSONPath(path string) types.GomegaMatcher {
	return &responseMatcher{
		description: fmt.Sprintf("to have JSON field %q", path),
		assert: func(r *Response) error {
			return r.AssertJSONPresent(path)
		},
	}
}

// HaveJSONValue succeeds when the value at path satisfies expected, a
// matcher or a literal.
func HaveJSONValue(path string, expected any) types.GomegaMatcher {
	return &responseMatcher{
		description: fmt.Sprintf("to have JSON field %q matching %s", path, format.Object(expected, 1)),
		assert: func(r *Response) error {
			return r.AssertJSONField(path, expected)
		},
	}
}

// responseMatcher adapts a Response assertion to Gomega. Assertion failures
// are mismatches, anything else (bad path, malformed body) is a match error.
type responseMatcher struct {
	description string
	assert      func(*Response) error
	failure     error
}

func (m *responseMatcher) Match(actual any) (bool, error) {
	response, ok := actual.(*Response)
	if !ok || response == nil {
		return false, fmt.Errorf("expected a non-nil *api.Response, got:\n%s", format.Object(actual, 1))
	}

	err := m.assert(response)
	if err == nil {
		return true, nil
	}

	var assertionErr *AssertionError
	if errors.As(err, &assertionErr) {
		m.failure = assertionErr

		return false, nil
	}

	return false, err
}

func (m *responseMatcher) FailureMessage(actual any) string {
	message := format.Message(describe(actual), m.description)
	if m.failure != nil {
		message += "\n" + m.failure.Error()
	}

	return message
}

func (m *responseMatcher) NegatedFailureMessage(actual any) string {
	return format.Message(describe(actual), "not "+m.description)
}

func describe(actual any) string {
	if response, ok := actual.(*Response); ok && response != nil {
		return fmt.Sprintf("response status=%d body=%s", response.StatusCode(), response.String())
	}

	return fmt.Sprintf("%v", actual)
}
