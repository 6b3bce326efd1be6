// Copyright 2026 Lotdrop
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package api

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Success  bool           `json:"success"`
	Response *ResponseBlock `json:"response,omitempty"`
	Errors   []*ErrorBlock  `json:"errors,omitempty"`
}

// ResponseBlock carries the payload of a successful response.
type ResponseBlock struct {
	Data []any `json:"data"`
}

// ErrorBlock describes one failure in an error response.
type ErrorBlock struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResponse wraps payload items in a success envelope.
func NewResponse(data ...any) *Response {
	return &Response{
		Success:  true,
		Response: &ResponseBlock{Data: data},
	}
}

// NewErrorResponse builds a failure envelope with a single error block.
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Success: false,
		Errors:  []*ErrorBlock{{Code: code, Message: message}},
	}
}
