package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	textCodeTokenMalformed   = "TOKEN_MALFORMED"
	textCodeTokenExpired     = "TOKEN_EXPIRED"
	textCodeRoleMismatch     = "ROLE_MISMATCH"
	textCodeMissingToken     = "MISSING_TOKEN"
	textCodeNetwork          = "NETWORK_UNAVAILABLE"
	textCodeServer           = "SERVER_ERROR"
	textCodeEndpointDisabled = "ENDPOINT_DISABLED"
	textCodeAuthRejected     = "AUTH_REJECTED"
)

// ErrTokenMalformed is returned when a bearer token cannot be decoded.
var ErrTokenMalformed = errors.New("authentication token is malformed", errors.CategoryAuth).
	WithTextCode(textCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned when the expiry claim is in the past.
var ErrTokenExpired = errors.New("authentication token is expired", errors.CategoryAuth).
	WithTextCode(textCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrRoleMismatch is returned when the decoded role is outside the set this
// portal variant accepts.
var ErrRoleMismatch = errors.New("account role is not allowed in this portal", errors.CategoryAuthz).
	WithTextCode(textCodeRoleMismatch).
	WithCode(errors.CodeForbidden)

// ErrMissingToken is returned when the backend reports success but omits the
// token field from the payload.
var ErrMissingToken = errors.New("authentication response did not include a token", errors.CategoryAuth).
	WithTextCode(textCodeMissingToken).
	WithCode(errors.CodeInternal)

// ErrNetwork is returned for transport level failures.
var ErrNetwork = errors.New("unable to reach the server, check your connection", errors.CategoryOperation).
	WithTextCode(textCodeNetwork).
	WithCode(errors.CodeInternal)

// ErrServer is returned for 5xx responses. Never retried automatically.
var ErrServer = errors.New("the server had a problem, try again later", errors.CategoryInternal).
	WithTextCode(textCodeServer).
	WithCode(errors.CodeInternal)

// ErrEndpointDisabled is returned for 403 responses from auth endpoints.
var ErrEndpointDisabled = errors.New("this endpoint is disabled", errors.CategoryAuthz).
	WithTextCode(textCodeEndpointDisabled).
	WithCode(errors.CodeForbidden)

// AuthRejected builds the 400/401 rejection error, carrying the backend's own
// message verbatim when the payload provides one.
func AuthRejected(message string) *errors.Error {
	if message == "" {
		message = "invalid credentials"
	}
	return errors.New(message, errors.CategoryAuth).
		WithTextCode(textCodeAuthRejected).
		WithCode(errors.CodeUnauthorized)
}

// BadInput builds the rejection error for a 400 against a resource endpoint,
// carrying the backend's own message verbatim when the payload provides one.
func BadInput(message string) *errors.Error {
	if message == "" {
		message = "the server rejected the request"
	}
	return errors.New(message, errors.CategoryBadInput).
		WithCode(errors.CodeBadRequest)
}

// ClassifyResourceResponse maps a resource endpoint outcome into the session
// error taxonomy. Unlike the sign-in and sign-up endpoints, a 400 here is a
// validation failure on the submitted record, not a credential rejection.
func ClassifyResourceResponse(status int, body []byte) error {
	if status == http.StatusBadRequest {
		return BadInput(payloadMessage(body))
	}
	return ClassifyResponse(status, body)
}

// ClassifyResponse maps a backend HTTP outcome into the session error
// taxonomy. A 2xx status yields nil.
func ClassifyResponse(status int, body []byte) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return AuthRejected(payloadMessage(body))
	case status == http.StatusForbidden:
		return ErrEndpointDisabled
	case status >= 500:
		return ErrServer
	default:
		return errors.New(
			fmt.Sprintf("unexpected response status %d", status),
			errors.CategoryOperation,
		).WithCode(status).WithMetadata(map[string]any{
			"status": status,
		})
	}
}

func payloadMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

// WrapNetworkError converts a transport failure into ErrNetwork, keeping the
// source for diagnostics.
func WrapNetworkError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, ErrNetwork.Category, ErrNetwork.Message).
		WithTextCode(ErrNetwork.TextCode).
		WithCode(ErrNetwork.Code)
}

// UserMessage extracts the human readable message carried by a classified
// error, suitable for rendering to the signed-in user.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var rich *errors.Error
	if errors.As(err, &rich) && rich.Message != "" {
		return rich.Message
	}
	return "something went wrong, try again"
}

func hasTextCode(err error, code string) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, textCodeTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for undecodable tokens
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, textCodeTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed")
}

// IsRoleMismatchError will check for roles outside the allowed set
func IsRoleMismatchError(err error) bool {
	return hasTextCode(err, textCodeRoleMismatch)
}

// IsNetworkError will check for transport level failures
func IsNetworkError(err error) bool {
	return hasTextCode(err, textCodeNetwork)
}
