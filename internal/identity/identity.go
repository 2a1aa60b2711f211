// Package identity resolves the current customer from an externally issued
// access token. Authentication itself lives with the identity provider; this
// package only reads its tokens.
package identity

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Anonymous marks a session with no signed-in customer. Checkout accepts it;
// crashing on a missing identity is not an option for a storefront.
const Anonymous = "anonymous"

const contextKey = "customer_id"

// Middleware extracts the customer id from the accessToken cookie or a bearer
// Authorization header. Missing or invalid tokens degrade to Anonymous, never
// to an error.
func Middleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(contextKey, Anonymous)

			raw := tokenFromRequest(c)
			if raw == "" || len(secret) == 0 {
				return next(c)
			}

			claims := jwt.RegisteredClaims{}
			token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
				if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrSignatureInvalid
				}
				return secret, nil
			})
			if err == nil && token.Valid && claims.Subject != "" {
				c.Set(contextKey, claims.Subject)
			}

			return next(c)
		}
	}
}

// CustomerID returns the resolved customer id for the request, Anonymous when
// nothing usable was presented.
func CustomerID(c echo.Context) string {
	if v, ok := c.Get(contextKey).(string); ok && v != "" {
		return v
	}
	return Anonymous
}

func tokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie("accessToken"); err == nil && ck.Value != "" {
		return ck.Value
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
