package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/campaign-hub-api/pkg/apiErrors"
)

type contextKey string

const (
	ContextKeyOperator contextKey = "operator"
)

var publicPaths = map[string]struct{}{
	"/healthcheck": {},
}

// OperatorClaims identifica o operador que chamou a API
type OperatorClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// ParseToken valida um token HS256 assinado com secret
func ParseToken(secret, tokenString string) (*OperatorClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &OperatorClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*OperatorClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// OperatorFromContext devolve as claims do operador autenticado, se houver
func OperatorFromContext(ctx context.Context) (*OperatorClaims, bool) {
	claims, ok := ctx.Value(ContextKeyOperator).(*OperatorClaims)
	return claims, ok
}

// AuthMiddleware exige um bearer token quando secret não é vazio.
// Sem secret a API roda aberta (uso local).
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if secret == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Authorization header is required", nil)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Bearer token is required", nil)
				return
			}

			claims, err := ParseToken(secret, tokenString)
			if err != nil {
				code := apiErrors.ErrInvalidToken
				if errors.Is(err, jwt.ErrTokenExpired) {
					code = apiErrors.ErrExpiredToken
				}
				logrus.WithError(err).Warn("Token rejeitado")
				apiErrors.WriteError(w, code, "Invalid token", nil)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyOperator, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
