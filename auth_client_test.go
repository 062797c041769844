package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/serenoa/go-session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthClientSignIn(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/sign-in", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "ann@example.com", payload["email"])
		assert.Equal(t, "secret", payload["password"])

		json.NewEncoder(w).Encode(map[string]string{"token": "issued-token"})
	})

	client := session.NewAuthClient(srv.URL)
	token, err := client.SignIn(context.Background(), "ann@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "issued-token", token)
}

func TestAuthClientSignInValidatesLocally(t *testing.T) {
	// the server must never be reached for an invalid payload
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request should not reach the server")
	})

	client := session.NewAuthClient(srv.URL)

	_, err := client.SignIn(context.Background(), "not-an-email", "secret")
	require.Error(t, err)

	_, err = client.SignIn(context.Background(), "ann@example.com", "")
	require.Error(t, err)
}

func TestAuthClientSignInRejection(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password."})
	})

	client := session.NewAuthClient(srv.URL)
	_, err := client.SignIn(context.Background(), "ann@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password.", session.UserMessage(err))
}

func TestAuthClientMissingToken(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})

	client := session.NewAuthClient(srv.URL)
	_, err := client.SignIn(context.Background(), "ann@example.com", "secret")
	assert.ErrorIs(t, err, session.ErrMissingToken)
}

func TestAuthClientDisabledEndpoint(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	client := session.NewAuthClient(srv.URL)
	_, err := client.SignIn(context.Background(), "ann@example.com", "secret")
	assert.ErrorIs(t, err, session.ErrEndpointDisabled)
}

func TestAuthClientServerError(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	client := session.NewAuthClient(srv.URL)
	_, err := client.SignIn(context.Background(), "ann@example.com", "secret")
	assert.ErrorIs(t, err, session.ErrServer)
}

func TestAuthClientNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listening anymore

	client := session.NewAuthClient(srv.URL)
	_, err := client.SignIn(context.Background(), "ann@example.com", "secret")
	require.Error(t, err)
	assert.True(t, session.IsNetworkError(err))
}

func TestAuthClientSignUp(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/sign-up", r.URL.Path)

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Ann", payload["firstName"])
		assert.Equal(t, "+14155552671", payload["phoneNumber"])

		json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	})

	client := session.NewAuthClient(srv.URL)
	token, err := client.SignUp(context.Background(), session.RegisterRequest{
		Email:     "ann@example.com",
		Password:  "secret99",
		FirstName: "Ann",
		LastName:  "Smith",
		Phone:     "+14155552671",
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh-token", token)
}

func TestAuthClientSignUpValidation(t *testing.T) {
	client := session.NewAuthClient("http://localhost:0")

	tests := []struct {
		name string
		req  session.RegisterRequest
	}{
		{"missing email", session.RegisterRequest{Password: "secret99", FirstName: "Ann"}},
		{"short password", session.RegisterRequest{Email: "a@e.com", Password: "abc", FirstName: "Ann"}},
		{"missing first name", session.RegisterRequest{Email: "a@e.com", Password: "secret99"}},
		{"bad phone", session.RegisterRequest{
			Email: "a@e.com", Password: "secret99", FirstName: "Ann", Phone: "555",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.SignUp(context.Background(), tt.req)
			assert.Error(t, err)
		})
	}
}

func TestAuthClientCustomRoutes(t *testing.T) {
	srv := authServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/login", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"token": "t"})
	})

	client := session.NewAuthClient(srv.URL).WithRoutes(&session.AuthRoutes{
		SignIn: "/api/v2/login",
		SignUp: "/api/v2/register",
	})

	_, err := client.SignIn(context.Background(), "ann@example.com", "secret")
	assert.NoError(t, err)
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, session.ValidatePhone(""))
	assert.NoError(t, session.ValidatePhone("+14155552671"))
	assert.Error(t, session.ValidatePhone("555"))
	assert.Error(t, session.ValidatePhone("not a phone"))
	assert.Error(t, session.ValidatePhone("+1999999999999999"))
}
