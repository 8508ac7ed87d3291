package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/navikt/hm-oppgave-sink/internal/config"
)

const localDevToken = "dev"

var (
	errMissingBearer = errors.New("missing bearer token")
	errNotBearer     = errors.New("authorization is not a bearer token")
)

// AuthMiddleware guards the admin routes with an HS256 token issued by
// JWT_ISSUER for JWT_AUDIENCE. Rejections are logged with their reason.
func AuthMiddleware(cfg config.Config, logger *slog.Logger) func(http.Handler) http.Handler {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.JwtIssuer),
		jwt.WithAudience(cfg.JwtAudience),
		jwt.WithExpirationRequired(),
	)
	secret := []byte(cfg.JwtSecret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r.Header.Get("Authorization"))
			if err == nil && cfg.Env == config.EnvLocal && token == localDevToken {
				next.ServeHTTP(w, r)
				return
			}
			if err == nil {
				_, err = parser.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (any, error) {
					return secret, nil
				})
			}
			if err != nil {
				logger.Warn("rejected admin request", "path", r.URL.Path, "reason", rejection(err))
				w.Header().Set("WWW-Authenticate", `Bearer realm="hm-oppgave-sink"`)
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errMissingBearer
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", errNotBearer
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errMissingBearer
	}
	return token, nil
}

// rejection names why a request was refused, for the log only.
func rejection(err error) string {
	switch {
	case errors.Is(err, errMissingBearer):
		return "missing token"
	case errors.Is(err, errNotBearer):
		return "not a bearer token"
	case errors.Is(err, jwt.ErrTokenMalformed):
		return "malformed token"
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return "bad signature or algorithm"
	case errors.Is(err, jwt.ErrTokenExpired), errors.Is(err, jwt.ErrTokenRequiredClaimMissing):
		return "expired or no expiry"
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return "issuer mismatch"
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return "audience mismatch"
	default:
		return "invalid token"
	}
}
