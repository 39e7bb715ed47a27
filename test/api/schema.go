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
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/unikorn-cloud/api-examples/pkg/openapi"
)

var (
	ErrUndocumentedOperation = errors.New("operation is not documented")
	ErrUndocumentedStatus    = errors.New("status code is not documented")
)

// SchemaValidator checks response bodies against the embedded OpenAPI document.
type SchemaValidator struct {
	doc *openapi3.T
}

func NewSchemaValidator() (*SchemaValidator, error) {
	doc, err := openapi.GetSwagger()
	if err != nil {
		return nil, err
	}

	return &SchemaValidator{
		doc: doc,
	}, nil
}

// ValidateResponse validates the body returned by method on path. Statuses
// documented without content, such as 401, accept any body.
func (v *SchemaValidator) ValidateResponse(method, path string, resp *Response) error {
	target := fmt.Sprintf("%s %s %d", method, path, resp.StatusCode())

	pathItem := v.doc.Paths.Find(path)
	if pathItem == nil {
		return &DeserializationError{Target: target, Err: ErrUndocumentedOperation}
	}

	operation := pathItem.GetOperation(method)
	if operation == nil {
		return &DeserializationError{Target: target, Err: ErrUndocumentedOperation}
	}

	responseRef := operation.Responses.Status(resp.StatusCode())
	if responseRef == nil {
		responseRef = operation.Responses.Default()
	}

	if responseRef == nil || responseRef.Value == nil {
		return &DeserializationError{Target: target, Err: ErrUndocumentedStatus}
	}

	mediaType := responseRef.Value.Content.Get(ContentTypeJSON)
	if mediaType == nil || mediaType.Schema == nil || mediaType.Schema.Value == nil {
		return nil
	}

	var value any

	if err := json.Unmarshal(resp.body, &value); err != nil {
		return &DeserializationError{Target: target, Err: err}
	}

	if err := mediaType.Schema.Value.VisitJSON(value); err != nil {
		return &DeserializationError{Target: target, Err: err}
	}

	return nil
}
