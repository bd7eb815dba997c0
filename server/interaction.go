package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reoring/apicontract/verify"
)

type ctxKeyInteraction struct{}

// ContextWithInteraction attaches a decoded interaction to the context.
func ContextWithInteraction(ctx context.Context, in verify.Interaction) context.Context {
	return context.WithValue(ctx, ctxKeyInteraction{}, in)
}

// InteractionFromContext retrieves the interaction stored by DecodeInteraction.
func InteractionFromContext(ctx context.Context) (verify.Interaction, bool) {
	in, ok := ctx.Value(ctxKeyInteraction{}).(verify.Interaction)
	return in, ok
}

// DecodeInteraction parses the request body as an interaction and stores it
// in the request context, or answers 422 when the payload is malformed.
func DecodeInteraction() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var in verify.Interaction
			if err := c.Echo().JSONSerializer.Deserialize(c, &in); err != nil {
				return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: "malformed interaction: " + err.Error()})
			}
			if msg := checkInteraction(in); msg != "" {
				return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: msg})
			}
			ctx := ContextWithInteraction(c.Request().Context(), in)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func checkInteraction(in verify.Interaction) string {
	switch {
	case in.Request.Method == "":
		return "request.method is required"
	case in.Request.Path == "":
		return "request.path is required"
	case in.Response.Status < 100 || in.Response.Status > 599:
		return "response.status must be an HTTP status code"
	}
	return ""
}
