package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"savoro/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
)

func signToken(t *testing.T, secret []byte) string {
	t.Helper()
	claims := Claims{
		Username: "ana",
		UserID:   "usr1",
		Role:     []string{"user"},
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthenticateSetsContext(t *testing.T) {
	secret := []byte("test-secret")
	auth := NewAuth(secret)

	var gotUser string
	h := auth.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gotUser = utils.GetUserIDFromRequest(r)
	})

	r := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, secret))
	w := httptest.NewRecorder()
	h(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if gotUser != "usr1" {
		t.Fatalf("user id in context = %q", gotUser)
	}
}

func TestAuthenticateRejectsUpgradeWithoutToken(t *testing.T) {
	auth := NewAuth([]byte("test-secret"))

	called := false
	h := auth.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
	})

	// Upgrade headers must not open a path around the token check.
	r := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	r.Header.Set("Connection", "Upgrade")
	r.Header.Set("Upgrade", "websocket")
	w := httptest.NewRecorder()
	h(w, r, nil)

	if called {
		t.Fatal("handler reached without credentials")
	}
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	auth := NewAuth([]byte("test-secret"))

	h := auth.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		t.Fatal("handler reached with a forged token")
	})

	r := httptest.NewRequest(http.MethodGet, "/api/orders/mine", nil)
	r.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret")))
	w := httptest.NewRecorder()
	h(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}
