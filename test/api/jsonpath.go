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
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// pathToken is a single step into a JSON document, either an object key or
// an array index.
type pathToken struct {
	key     string
	index   int
	isIndex bool
}

func (t pathToken) String() string {
	if t.isIndex {
		return fmt.Sprintf("[%d]", t.index)
	}

	return t.key
}

// parsePath parses dot/bracket paths such as "value.ready",
// "browsers.chrome['100.0']" or "sessions[0].id". A leading "$" or "$." is
// accepted and an empty path addresses the whole document.
func parsePath(path string) ([]pathToken, error) {
	rest := path

	if strings.HasPrefix(rest, "$") {
		rest = strings.TrimPrefix(rest[1:], ".")
	}

	var tokens []pathToken

	afterBracket := false

	for i := 0; i < len(rest); {
		switch c := rest[i]; {
		case c == '[':
			token, n, err := parseBracket(rest[i:])
			if err != nil {
				return nil, fmt.Errorf("%w %q: %w", ErrInvalidPath, path, err)
			}

			tokens = append(tokens, token)
			i += n
			afterBracket = true

			continue
		case c == '.':
			if i == 0 || i+1 >= len(rest) || rest[i+1] == '.' || rest[i+1] == '[' {
				return nil, fmt.Errorf("%w %q: empty segment at offset %d", ErrInvalidPath, path, i)
			}

			i++
		case afterBracket:
			return nil, fmt.Errorf("%w %q: expected '.' or '[' at offset %d", ErrInvalidPath, path, i)
		}

		afterBracket = false

		j := i
		for j < len(rest) && rest[j] != '.' && rest[j] != '[' {
			j++
		}

		tokens = append(tokens, pathToken{key: rest[i:j]})
		i = j
	}

	return tokens, nil
}

// parseBracket parses "[0]", "['key']" or "[\"key\"]" and returns the
// number of bytes consumed.
func parseBracket(s string) (pathToken, int, error) {
	if len(s) < 3 {
		return pathToken{}, 0, errors.New("unterminated bracket")
	}

	if quote := s[1]; quote == '\'' || quote == '"' {
		end := strings.IndexByte(s[2:], quote)
		if end < 0 {
			return pathToken{}, 0, errors.New("unterminated quoted key")
		}

		closing := 2 + end + 1
		if closing >= len(s) || s[closing] != ']' {
			return pathToken{}, 0, errors.New("quoted key must be followed by ']'")
		}

		return pathToken{key: s[2 : 2+end]}, closing + 1, nil
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return pathToken{}, 0, errors.New("unterminated bracket")
	}

	index, err := strconv.Atoi(s[1:end])
	if err != nil || index < 0 {
		return pathToken{}, 0, fmt.Errorf("invalid array index %q", s[1:end])
	}

	return pathToken{index: index, isIndex: true}, end + 1, nil
}

// errInvalidDocument is returned by lookupPath for bodies that are not JSON.
var errInvalidDocument = errors.New("body is not a valid JSON document")

// gjsonPath renders tokens in gjson syntax, escaping keys such as "100.0".
// gjson resolves a numeric segment against an array as an index, so
// "sessions.0" and "sessions[0]" address the same element.
func gjsonPath(tokens []pathToken) string {
	parts := make([]string, len(tokens))

	for i, token := range tokens {
		if token.isIndex {
			parts[i] = strconv.Itoa(token.index)

			continue
		}

		parts[i] = gjson.Escape(token.key)
	}

	return strings.Join(parts, ".")
}

// lookupPath finds the value at tokens in a JSON document and decodes it.
// A key holding null is present, with a nil value.
func lookupPath(data []byte, tokens []pathToken) (any, error) {
	if !gjson.ValidBytes(data) {
		return nil, errInvalidDocument
	}

	if len(tokens) == 0 {
		return decodeJSON(data)
	}

	result := gjson.GetBytes(data, gjsonPath(tokens))
	if !result.Exists() {
		return nil, fmt.Errorf("%w: %s", ErrFieldNotFound, joinTokens(tokens))
	}

	return decodeJSON([]byte(result.Raw))
}

func joinTokens(tokens []pathToken) string {
	var b strings.Builder

	for i, token := range tokens {
		if i > 0 && !token.isIndex {
			b.WriteByte('.')
		}

		b.WriteString(token.String())
	}

	return b.String()
}

// decodeJSON parses a whole document. Integral numbers become int so they
// compare equal to untyped integer literals, other numbers become float64.
func decodeJSON(data []byte) (any, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var doc any

	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}

	return normalizeNumbers(doc), nil
}

func normalizeNumbers(value any) any {
	switch t := value.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			if int64(int(i)) == i {
				return int(i)
			}

			return i
		}

		f, _ := t.Float64()

		return f
	case map[string]any:
		for k, v := range t {
			t[k] = normalizeNumbers(v)
		}

		return t
	case []any:
		for i, v := range t {
			t[i] = normalizeNumbers(v)
		}

		return t
	default:
		return value
	}
}
