package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskmate/internal/model"
)

// =============================================================================
// MOCK VERIFIER
// =============================================================================

type mockVerifier struct {
	verifyFn   func(tokenString string) (*model.TokenClaims, error)
	isActiveFn func(ctx context.Context, userID int64, tokenString string) (bool, error)
}

func (m *mockVerifier) Verify(tokenString string) (*model.TokenClaims, error) {
	if m.verifyFn != nil {
		return m.verifyFn(tokenString)
	}
	return nil, model.ErrInvalidToken
}

func (m *mockVerifier) IsActive(ctx context.Context, userID int64, tokenString string) (bool, error) {
	if m.isActiveFn != nil {
		return m.isActiveFn(ctx, userID, tokenString)
	}
	return false, nil
}

func goodVerifier() *mockVerifier {
	return &mockVerifier{
		verifyFn: func(tokenString string) (*model.TokenClaims, error) {
			return &model.TokenClaims{UserID: 42, Email: "a@b.com"}, nil
		},
		isActiveFn: func(ctx context.Context, userID int64, tokenString string) (bool, error) {
			return true, nil
		},
	}
}

func runAuth(t *testing.T, verifier TokenVerifier, authHeader string) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()

	Auth(verifier)(next).ServeHTTP(rec, req)
	return rec, reached
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	return body.Error
}

// =============================================================================
// GATE TESTS
// =============================================================================

func TestAuth_MissingHeader(t *testing.T) {
	rec, reached := runAuth(t, goodVerifier(), "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if reached {
		t.Error("handler should not be reached")
	}
	if msg := errorMessage(t, rec); msg != "Token required" {
		t.Errorf("error = %q, want %q", msg, "Token required")
	}
}

func TestAuth_MalformedHeader(t *testing.T) {
	cases := []string{
		"abc123",          // no scheme
		"Basic abc123",    // wrong scheme
		"Bearer",          // missing token
		"Bearer ",         // empty token
		"bearer abc123",   // scheme is case sensitive
	}

	for _, header := range cases {
		rec, reached := runAuth(t, goodVerifier(), header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("header %q: status = %d, want 401", header, rec.Code)
		}
		if reached {
			t.Errorf("header %q: handler should not be reached", header)
		}
	}
}

func TestAuth_InvalidSignature(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (*model.TokenClaims, error) {
			return nil, model.ErrInvalidToken
		},
	}

	rec, reached := runAuth(t, verifier, "Bearer garbage")

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if reached {
		t.Error("handler should not be reached")
	}
}

func TestAuth_RevokedToken(t *testing.T) {
	verifier := &mockVerifier{
		verifyFn: func(tokenString string) (*model.TokenClaims, error) {
			return &model.TokenClaims{UserID: 42}, nil
		},
		isActiveFn: func(ctx context.Context, userID int64, tokenString string) (bool, error) {
			return false, nil // Signature fine, ledger row gone
		},
	}

	rec, reached := runAuth(t, verifier, "Bearer once-valid")

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if reached {
		t.Error("handler should not be reached")
	}
	if msg := errorMessage(t, rec); msg != "Token revoked, please login again" {
		t.Errorf("error = %q, want revoked message", msg)
	}
}

func TestAuth_ValidTokenPopulatesContext(t *testing.T) {
	var gotUserID int64
	var gotToken string

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		gotToken, _ = GetToken(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer the-token")
	rec := httptest.NewRecorder()

	Auth(goodVerifier())(next).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if gotUserID != 42 {
		t.Errorf("user id = %d, want 42", gotUserID)
	}
	if gotToken != "the-token" {
		t.Errorf("token = %q, want the presented token", gotToken)
	}
}
