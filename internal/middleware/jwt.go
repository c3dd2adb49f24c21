package middleware

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/course-progress-api/internal/utils"
)

// Claim keys checked for the caller's identity and role. The first key
// holding a usable value wins.
var (
	userIDClaimKeys = []string{"sub", "user_id", "id"}
	roleClaimKeys   = []string{"role", "roles"}
)

// JWTProtected validates HMAC-signed bearer tokens and stores the caller's
// identity in the request locals (`user_id` uint, `user_role` string) for
// the role guards further down the chain.
func JWTProtected(secret string) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
	keyFunc := func(*jwt.Token) (interface{}, error) { return []byte(secret), nil }

	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "missing bearer token")
		}

		token, err := parser.Parse(tokenString, keyFunc)
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		for _, key := range userIDClaimKeys {
			if id, err := normalizeUserID(claims[key]); err == nil {
				c.Locals("user_id", id)
				break
			}
		}
		for _, key := range roleClaimKeys {
			if role := roleFromClaim(claims[key]); role != "" {
				c.Locals("user_role", role)
				break
			}
		}

		return c.Next()
	}
}

// bearerToken strips the Bearer scheme off an Authorization header value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// normalizeUserID coerces the numeric or string id shapes JWT issuers emit
// into the uint the rest of the stack works with.
func normalizeUserID(value interface{}) (uint, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, fmt.Errorf("negative subject")
		}
		return uint(v), nil
	case int:
		if v < 0 {
			return 0, fmt.Errorf("negative subject")
		}
		return uint(v), nil
	case uint:
		return v, nil
	case string:
		parsed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, err
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported subject type %T", value)
	}
}

// roleFromClaim accepts either a single role string or a list of roles, in
// which case the first non-empty entry wins.
func roleFromClaim(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case []interface{}:
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				continue
			}
			if role := strings.ToLower(strings.TrimSpace(str)); role != "" {
				return role
			}
		}
	}
	return ""
}
