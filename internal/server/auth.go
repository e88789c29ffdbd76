package server

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"
)

// Argon2id parameters
const (
	argon2Time    = 1
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
	saltLen       = 16
)

// HashPassword creates an encoded Argon2id hash of the password
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(password), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	// $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argon2Memory, argon2Time, argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash)), nil
}

// VerifyPassword checks a password against an encoded Argon2id hash
func VerifyPassword(password, encoded string) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		return false, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return false, fmt.Errorf("not an argon2id hash")
	}

	var memory, time, threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, fmt.Errorf("failed to parse hash parameters: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	got := argon2.IDKey([]byte(password), salt, time, memory, uint8(threads), uint32(len(want)))
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// adminAuth protects the admin routes with Basic Auth when credentials are configured
func (s *Server) adminAuth() fiber.Handler {
	if !s.config.Server.AuthEnabled() {
		s.logger.Warn("Admin routes are not protected, set server.admin_user and server.admin_password_hash")
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	user := s.config.Server.AdminUser
	hash := s.config.Server.AdminPasswordHash

	return basicauth.New(basicauth.Config{
		Realm: "Holiday Calendar Admin",
		Authorizer: func(u, p string) bool {
			if subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 {
				s.logger.Warn("Failed admin login", zap.String("user", u))
				return false
			}
			ok, err := VerifyPassword(p, hash)
			if err != nil {
				s.logger.Error("Failed to verify admin password", zap.Error(err))
				return false
			}
			if !ok {
				s.logger.Warn("Failed admin login", zap.String("user", u))
			}
			return ok
		},
		Unauthorized: func(c *fiber.Ctx) error {
			c.Set(fiber.HeaderWWWAuthenticate, `Basic realm="Holiday Calendar Admin"`)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized",
			})
		},
	})
}
