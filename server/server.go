// Package server exposes a contract verifier over HTTP.
//
//	POST /validate  {request, response} -> {interaction, endpoint, violations}
//	GET  /healthz   -> {status: "ok"}
//
// Malformed payloads are answered with 422, contract-shape errors with 500.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/reoring/apicontract/verify"
)

// Server is the validation server for one contract.
type Server struct {
	verifier *verify.Verifier
	echo     *echo.Echo
	logger   *log.Logger
}

type Option func(*Server)

// WithLogger logs one line per request to l.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// New wires routes and middleware around v.
func New(v *verify.Verifier, opts ...Option) *Server {
	s := &Server{verifier: v, echo: echo.New()}
	for _, o := range opts {
		o(s)
	}
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())
	if s.logger != nil {
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogMethod:    true,
			LogURI:       true,
			LogStatus:    true,
			LogLatency:   true,
			LogRequestID: true,
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				s.logger.Printf("%s %s %s %d %s", v.RequestID, v.Method, v.URI, v.Status, v.Latency)
				return nil
			},
		}))
	}

	e.POST("/validate", s.validate, DecodeInteraction())
	e.GET("/healthz", func(c echo.Context) error { return c.JSON(http.StatusOK, map[string]string{"status": "ok"}) })
	return s
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error { return s.echo.Shutdown(ctx) }

// ValidateResponse is the body of a successful POST /validate.
type ValidateResponse struct {
	Interaction verify.Interaction `json:"interaction"`
	Endpoint    string             `json:"endpoint"`
	Violations  []verify.Violation `json:"violations"`
}

// ErrorResponse is the body of 422 and 500 answers.
type ErrorResponse struct {
	Message string `json:"message"`
}

func (s *Server) validate(c echo.Context) error {
	in, ok := InteractionFromContext(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "interaction not decoded"})
	}
	report, err := s.verifier.Verify(in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
	}
	return c.JSON(http.StatusOK, ValidateResponse{
		Interaction: in,
		Endpoint:    report.Context.Endpoint,
		Violations:  report.Violations,
	})
}

// jsonSerializer routes echo's JSON handling through goccy/go-json.
type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i any, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i any) error {
	if err := json.NewDecoder(c.Request().Body).Decode(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error()).SetInternal(err)
	}
	return nil
}
