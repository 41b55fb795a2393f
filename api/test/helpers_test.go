package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/shoply/shoply/core/auth"
	"github.com/shoply/shoply/core/user"
)

// do sends body as JSON with an optional bearer token and decodes the
// response into out when out is not nil. It fails the test on any
// status different from want.
func (te *TestEnv) do(t *testing.T, method string, path string, token string, body any, want int, out any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}

	r, err := http.NewRequest(method, te.URL+path, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	w, err := te.Client().Do(r)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer w.Body.Close()

	if w.StatusCode != want {
		t.Fatalf("%s %s: status code %s, want %d", method, path, w.Status, want)
	}

	if out != nil {
		if err := json.NewDecoder(w.Body).Decode(out); err != nil {
			t.Fatalf("decoding response of %s %s: %v", method, path, err)
		}
	}
}

var signups int

// signup registers a user through the API and logs them in, returning
// the profile and an access token.
func (te *TestEnv) signup(t *testing.T, role string) (user.User, string) {
	t.Helper()

	signups++
	email := fmt.Sprintf("%s%d@test.com", role, signups)

	nu := map[string]any{
		"username":             fmt.Sprintf("%s%d", role, signups),
		"email":                email,
		"password":             "test-password",
		"passwordConfirmation": "test-password",
		"firstName":            "Test",
		"lastName":             "User",
		"phone":                "+11234567890",
		"role":                 role,
	}

	var usr user.User
	te.do(t, http.MethodPost, "/users", "", nu, http.StatusCreated, &usr)

	login := map[string]any{"email": email, "password": "test-password"}

	var session struct {
		auth.TokenPair
		User user.User `json:"user"`
	}
	te.do(t, http.MethodPost, "/auth/login", "", login, http.StatusOK, &session)

	return usr, session.Access
}
