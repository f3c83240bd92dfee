package client

import (
	"net/http"
)

// authTransport attaches the session token to outgoing requests and drops
// the session when the server answers 401.
type authTransport struct {
	base              http.RoundTripper
	session           *Session
	onUnauthenticated func()
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := t.session.Token(); ok {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// A failing store must not hide the response from the caller.
		_ = t.session.Clear()
		if t.onUnauthenticated != nil {
			t.onUnauthenticated()
		}
	}
	return resp, nil
}
