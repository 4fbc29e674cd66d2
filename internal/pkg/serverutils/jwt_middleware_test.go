package serverutils

import (
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestJwtMiddleware(t *testing.T) {
	const secret = "test-secret"
	os.Setenv("JWT_SECRET", secret)

	userId := uuid.New()
	var seenUserId uuid.UUID

	app := fiber.New()
	app.Use(JwtMiddleware)
	app.Get("/protected", func(ctx *fiber.Ctx) error {
		seenUserId, _ = ctx.Locals("user_id").(uuid.UUID)
		return ctx.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{
			name:       "valid token with uuid claim",
			authHeader: "Bearer " + signToken(t, secret, jwt.MapClaims{"user_id": userId.String()}),
			wantStatus: fiber.StatusOK,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "wrong signing key",
			authHeader: "Bearer " + signToken(t, "other-secret", jwt.MapClaims{"user_id": userId.String()}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "missing user_id claim",
			authHeader: "Bearer " + signToken(t, secret, jwt.MapClaims{"sub": "someone"}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "user_id claim is not a uuid",
			authHeader: "Bearer " + signToken(t, secret, jwt.MapClaims{"user_id": "not-a-uuid"}),
			wantStatus: fiber.StatusUnauthorized,
		},
		{
			name:       "nil uuid claim rejected",
			authHeader: "Bearer " + signToken(t, secret, jwt.MapClaims{"user_id": uuid.Nil.String()}),
			wantStatus: fiber.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			res, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test: %v", err)
			}
			if res.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", res.StatusCode, tt.wantStatus)
			}
		})
	}

	if seenUserId != userId {
		t.Errorf("handler saw user_id %s, want %s", seenUserId, userId)
	}
}
