package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
)

const subjectCtx contextKey = "subject"

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ww := middleware.NewWrapResponseWriter(writer, request.ProtoMajor)
		start := time.Now()

		defer func() {
			app.logger.Infow("request",
				"method", request.Method,
				"path", request.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(request.Context()),
			)
		}()

		next.ServeHTTP(ww, request)
	})
}

// subjectFromRequest validates the bearer token on request and returns
// its subject claim.
func (app *application) subjectFromRequest(request *http.Request) (string, error) {
	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("missing auth header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", errors.New("invalid auth header")
	}

	jwtToken, err := app.authenticator.ValidateToken(parts[1])
	if err != nil {
		return "", err
	}

	claims, ok := jwtToken.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}

	subject, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if subject == "" {
		return "", errors.New("token has no subject")
	}

	return subject, nil
}

func (app *application) AuthTokenMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		subject, err := app.subjectFromRequest(request)
		if err != nil {
			app.unauthorizedErrorResponse(writer, request, err)
			return
		}

		ctx := context.WithValue(request.Context(), subjectCtx, subject)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// OptionalAuthMiddleware attaches the subject when a valid bearer token is
// present and lets anonymous requests through untouched.
func (app *application) OptionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Header.Get("Authorization") == "" {
			next.ServeHTTP(writer, request)
			return
		}

		subject, err := app.subjectFromRequest(request)
		if err != nil {
			app.unauthorizedErrorResponse(writer, request, err)
			return
		}

		ctx := context.WithValue(request.Context(), subjectCtx, subject)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

func subjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectCtx).(string)
	return subject, ok
}

func (app *application) BasicAuthMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")
			if authHeader == "" {
				app.unauthorizedBasicErrorResponse(writer, request, fmt.Errorf("missing auth header"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Basic" {
				app.unauthorizedBasicErrorResponse(writer, request, fmt.Errorf("invalid auth header"))
				return
			}

			decoded, err := base64.StdEncoding.DecodeString(parts[1])
			if err != nil {
				app.unauthorizedBasicErrorResponse(writer, request, err)
				return
			}

			credentials := strings.SplitN(string(decoded), ":", 2)
			if len(credentials) != 2 || !app.basicAuth.Verify(credentials[0], credentials[1]) {
				app.unauthorizedBasicErrorResponse(writer, request, fmt.Errorf("invalid credentials"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func (app *application) RateLimiterMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if app.config.rateLimiter.Enabled {
			if allow, retryAfter := app.rateLimiter.Allow(clientIP(request)); !allow {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				app.rateLimitExceededResponse(writer, request, strconv.Itoa(seconds))
				return
			}
		}
		next.ServeHTTP(writer, request)
	})
}

// clientIP drops the port so every connection from one host shares a
// window.
func clientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
