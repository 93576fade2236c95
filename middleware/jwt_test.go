package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"amana.dev/worklog/models"
)

func bearerRequest(token string) *http.Request {
	req := httptest.NewRequest("GET", "/token", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	id := uuid.New()
	token, err := GenerateToken(id.String(), models.RoleManager, "Noa", "0500000001")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	// ParseBearer verifies a token on its own, without the middleware
	// having stashed anything in the request context.
	claims, err := ParseBearer(bearerRequest(token))
	if err != nil {
		t.Fatalf("ParseBearer: %v", err)
	}
	if claims.UserID != id.String() || claims.Role != models.RoleManager {
		t.Errorf("claims = %s/%s", claims.UserID, claims.Role)
	}

	actor, ok := ActorFromClaims(claims)
	if !ok {
		t.Fatal("ActorFromClaims rejected valid claims")
	}
	if actor.ID != id || !actor.IsManager() {
		t.Errorf("actor = %s/%s", actor.ID, actor.Role)
	}

	// The middleware path yields the same actor.
	var got models.ActorContext
	handler := JWTMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetActor(r)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, bearerRequest(token))
	if rec.Code != http.StatusOK {
		t.Fatalf("middleware status = %d", rec.Code)
	}
	if got.ID != id {
		t.Errorf("actor from middleware = %s, expected %s", got.ID, id)
	}
}

func TestParseBearerRejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "unit-secret")

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/token", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if _, err := ParseBearer(req); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestSigningKeyReadAtCallTime(t *testing.T) {
	// The secret is read per call, so a value set after package init
	// (godotenv loads .env long after import) signs and verifies.
	t.Setenv("JWT_SECRET", "first-secret")
	token, err := GenerateToken(uuid.NewString(), models.RoleTeamLeader, "Amir", "0500000002")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseBearer(bearerRequest(token)); err != nil {
		t.Fatalf("token signed under the current secret must verify: %v", err)
	}

	t.Setenv("JWT_SECRET", "rotated-secret")
	if _, err := ParseBearer(bearerRequest(token)); err == nil {
		t.Error("token signed under the old secret must fail after rotation")
	}
}
