package echoapi

import (
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/coursehub/backend/core"
	"github.com/coursehub/backend/core/user"
)

const contextTokenKey = "userToken"

// jwtMiddleware verifies the bearer token, if any, and stores it under contextTokenKey.
// Requests without a valid token go through as anonymous.
func jwtMiddleware(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    secret,
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(user.Claims)
		},
		ErrorHandler:           func(echo.Context, error) error { return nil },
		ContinueOnIgnoredError: true,
	})
}

// identityMiddleware puts the identity carried by the verified token into the request context.
func identityMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok && token.Valid {
			if claims, ok := token.Claims.(*user.Claims); ok && claims.Subject != "" {
				req := ctx.Request()
				ctx.SetRequest(req.WithContext(core.WithIdentity(req.Context(), claims.Identity())))
			}
		}
		return next(ctx)
	}
}

func contextIdentity(ctx echo.Context) core.Identity {
	return core.IdentityFrom(ctx.Request().Context())
}
