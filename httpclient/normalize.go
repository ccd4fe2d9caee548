package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// DefaultErrorMessage is used when an error body carries no usable message.
const DefaultErrorMessage = "An error occurred"

// errorShape is the variant the "error" field was decoded as.
type errorShape int

const (
	shapeAbsent errorShape = iota
	shapeObject
	shapeText
)

// errorField decodes the "error" member as a nested {code, message}
// object, a plain string, or nothing.
type errorField struct {
	shape   errorShape
	code    string
	message string
	text    string
}

func (f *errorField) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch trimmed[0] {
	case '{':
		var nested struct {
			Code    scalar `json:"code"`
			Message scalar `json:"message"`
		}
		if err := json.Unmarshal(trimmed, &nested); err != nil {
			return nil
		}
		f.shape = shapeObject
		f.code = string(nested.Code)
		f.message = string(nested.Message)
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil
		}
		f.shape = shapeText
		f.text = s
	}
	return nil
}

// scalar accepts a JSON string or number and ignores every other shape.
type scalar string

func (s *scalar) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}
	switch {
	case trimmed[0] == '"':
		var v string
		if err := json.Unmarshal(trimmed, &v); err == nil {
			*s = scalar(v)
		}
	case trimmed[0] == '-' || (trimmed[0] >= '0' && trimmed[0] <= '9'):
		if _, err := strconv.ParseFloat(string(trimmed), 64); err == nil {
			*s = scalar(trimmed)
		}
	}
	return nil
}

// errorBody is the union of error conventions the backend uses.
type errorBody struct {
	Error   errorField `json:"error"`
	Message scalar     `json:"message"`
	Code    scalar     `json:"code"`
}

// Normalize converts a non-2xx JSON body into an *Error. Message precedence
// is nested error.message, then message, then a string error, then
// DefaultErrorMessage. Code precedence is nested error.code, then code.
// Status 401 yields KindUnauthorized, everything else KindServer.
func Normalize(status int, body []byte) *Error {
	var parsed errorBody
	// non-object JSON falls through with every field absent
	_ = json.Unmarshal(body, &parsed)

	message := DefaultErrorMessage
	switch {
	case parsed.Error.shape == shapeObject && parsed.Error.message != "":
		message = parsed.Error.message
	case parsed.Message != "":
		message = string(parsed.Message)
	case parsed.Error.shape == shapeText && parsed.Error.text != "":
		message = parsed.Error.text
	}

	code := string(parsed.Code)
	if parsed.Error.shape == shapeObject && parsed.Error.code != "" {
		code = parsed.Error.code
	}

	kind := KindServer
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &Error{
		Kind:    kind,
		Message: message,
		Status:  status,
		Code:    code,
		Body:    body,
	}
}

// Classify maps a received response onto an *Error, or nil for success.
//
// 401 is checked first so plain-text gateway 401s still read as
// Unauthorized. A non-empty body that is not JSON is a Parse error whatever
// the status. An empty body is success on 2xx and a Parse error otherwise.
func Classify(status int, body []byte) *Error {
	trimmed := bytes.TrimSpace(body)
	success := status >= 200 && status < 300

	if status == http.StatusUnauthorized {
		if len(trimmed) > 0 && json.Valid(trimmed) {
			return Normalize(status, body)
		}
		msg := string(trimmed)
		if msg == "" {
			msg = fmt.Sprintf("Server returned %d", status)
		}
		return &Error{Kind: KindUnauthorized, Message: msg, Status: status, Body: body}
	}

	if len(trimmed) == 0 {
		if success {
			return nil
		}
		return NewParseError(status, nil, nil)
	}
	if !json.Valid(trimmed) {
		return NewParseError(status, body, nil)
	}
	if success {
		return nil
	}
	return Normalize(status, body)
}
