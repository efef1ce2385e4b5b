package echoapi

import (
	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/trezcool/masomo-extractor/core"
)

var contextTokenKey = "userToken"

// newAuthMiddleware returns a bearer-token guard validating HS256 tokens issued by
// the auth provider, or nil when no secret is configured.
func newAuthMiddleware(secret string) echo.MiddlewareFunc {
	if secret == "" {
		return nil
	}
	return middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey:    []byte(secret),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
	})
}

// getContextPerson returns the caller identified by the request token, if any.
func getContextPerson(ctx echo.Context) (core.Person, bool) {
	token, ok := ctx.Get(contextTokenKey).(*jwt.Token)
	if !ok {
		return core.Person{}, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return core.Person{}, false
	}
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	return core.Person{ID: sub, Email: email}, sub != ""
}
