package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// AuthRoutes are the backend authentication endpoints, relative to the base URL
type AuthRoutes struct {
	SignIn    string
	SignUp    string
	VerifyOTP string
}

func defaultAuthRoutes() *AuthRoutes {
	return &AuthRoutes{
		SignIn:    "/auth/sign-in",
		SignUp:    "/auth/sign-up",
		VerifyOTP: "/auth/otp/verify",
	}
}

// AuthClient calls the backend authentication endpoints. Requests are plain
// JSON and carry no credential: these are the endpoints that issue one.
type AuthClient struct {
	baseURL string
	http    *http.Client
	routes  *AuthRoutes
	logger  Logger
}

func NewAuthClient(baseURL string) *AuthClient {
	return &AuthClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		routes:  defaultAuthRoutes(),
		logger:  defLogger{},
	}
}

func (c *AuthClient) WithLogger(logger Logger) *AuthClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *AuthClient) WithHTTPClient(hc *http.Client) *AuthClient {
	if hc != nil {
		c.http = hc
	}
	return c
}

func (c *AuthClient) WithRoutes(routes *AuthRoutes) *AuthClient {
	if routes != nil {
		c.routes = routes
	}
	return c
}

// LoginRequest is the sign-in payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegisterRequest is the sign-up payload
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phoneNumber,omitempty"`
}

func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 128)),
		validation.Field(&r.FirstName, validation.Required),
		validation.Field(&r.Phone, validation.By(ValidatePhone)),
	)
}

// ValidatePhone accepts an empty value or an E.164 formatted phone number
func ValidatePhone(value any) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}

	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return fmt.Errorf("must be an international phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(parsed) {
		return fmt.Errorf("must be a valid phone number")
	}

	return nil
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// authEnvelope is the success payload shape shared by sign-in and sign-up
type authEnvelope struct {
	Token   string `json:"token"`
	Message string `json:"message"`
}

// SignIn exchanges credentials for a bearer token. A 2xx payload without a
// token field fails with ErrMissingToken.
func (c *AuthClient) SignIn(ctx context.Context, email, password string) (string, error) {
	payload := LoginRequest{Email: email, Password: password}
	if err := payload.Validate(); err != nil {
		return "", AuthRejected(err.Error())
	}
	return c.requestToken(ctx, c.routes.SignIn, payload)
}

// SignUp registers a new account and returns the issued bearer token
func (c *AuthClient) SignUp(ctx context.Context, req RegisterRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", AuthRejected(err.Error())
	}
	return c.requestToken(ctx, c.routes.SignUp, req)
}

// VerifyOTP confirms the one-time code sent during registration
func (c *AuthClient) VerifyOTP(ctx context.Context, email, code string) error {
	_, _, err := c.post(ctx, c.routes.VerifyOTP, otpRequest{Email: email, Code: code})
	return err
}

func (c *AuthClient) requestToken(ctx context.Context, path string, payload any) (string, error) {
	_, body, err := c.post(ctx, path, payload)
	if err != nil {
		return "", err
	}

	var envelope authEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		c.logger.Error("auth response decode failed", "error", err)
		return "", ErrMissingToken
	}

	if envelope.Token == "" {
		return "", ErrMissingToken
	}

	return envelope.Token, nil
}

func (c *AuthClient) post(ctx context.Context, path string, payload any) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("auth request failed", "path", path, "error", err)
		return 0, nil, WrapNetworkError(err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return res.StatusCode, nil, WrapNetworkError(err)
	}

	if err := ClassifyResponse(res.StatusCode, body); err != nil {
		return res.StatusCode, body, err
	}

	return res.StatusCode, body, nil
}
