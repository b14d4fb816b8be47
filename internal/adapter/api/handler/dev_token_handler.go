package handler

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"kudos/pkg/config"
	"kudos/pkg/response"
)

type DevTokenHandler struct {
	cfg *config.Config
}

var devTokenHandler *DevTokenHandler

func NewDevTokenHandler(cfg *config.Config) *DevTokenHandler {
	return &DevTokenHandler{
		cfg: cfg,
	}
}

func SetupDevTokenHandler(cfg *config.Config) {
	devTokenHandler = NewDevTokenHandler(cfg)
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

// GenerateAdminToken mints a signed admin bearer token for local testing of
// the moderation endpoints.
func (h *DevTokenHandler) GenerateAdminToken(c echo.Context) error {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  "dev-admin",
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  now.Add(time.Duration(h.cfg.JWTExpiry) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(h.cfg.JWTSecret))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"token":     signed,
		"role":      "admin",
		"expiresAt": now.Add(time.Duration(h.cfg.JWTExpiry) * time.Second).Format(time.RFC3339),
	})
}
