package session

import "net/http"

var _ http.RoundTripper = (*BearerTransport)(nil)

// BearerTransport attaches the persisted token to every outgoing request as a
// bearer credential. It reads the TokenStore on each round trip rather than
// caching, so it always agrees with the session's slot. The attach is blind:
// no expiry pre-check and no retry on 401, an expired token is sent as-is and
// the backend rejects it.
type BearerTransport struct {
	Store  TokenStore
	Base   http.RoundTripper
	Scheme string
	Logger Logger
}

// NewBearerTransport wraps http.DefaultTransport with credential attachment
func NewBearerTransport(store TokenStore) *BearerTransport {
	return &BearerTransport{Store: store}
}

func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	// An explicit Authorization header always wins.
	if req.Header.Get("Authorization") != "" {
		return base.RoundTrip(req)
	}

	token := ""
	if t.Store != nil {
		var err error
		token, err = t.Store.Get(req.Context())
		if err != nil {
			t.logger().Error("bearer transport token read failed", "error", err)
			token = ""
		}
	}

	// Absent token: the request goes out unauthenticated and the backend is
	// responsible for rejecting it.
	if token == "" {
		return base.RoundTrip(req)
	}

	scheme := t.Scheme
	if scheme == "" {
		scheme = "Bearer"
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", scheme+" "+token)
	return base.RoundTrip(clone)
}

func (t *BearerTransport) logger() Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return defLogger{}
}
