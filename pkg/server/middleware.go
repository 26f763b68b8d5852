package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/jwtauth/v5"

	"github.com/openmhealth/shimmock/config"
	"github.com/openmhealth/shimmock/pkg/mock"
)

const versionHeader = "X-Shimmock-Version"

// SendVersion is a middleware that adds the current version to the response
func SendVersion(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if w.Header().Get(versionHeader) == "" {
			w.Header().Add(versionHeader, config.VersionString)
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(fn)
}

// ApplyCustomHeaders is a middleware that adds custom headers to the response
func ApplyCustomHeaders(customHeaders map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for key, value := range customHeaders {
				actualValue := value
				// Values of the form env:NAME are read from the environment
				if strings.HasPrefix(value, "env:") {
					actualValue = os.Getenv(value[4:])
				}

				if w.Header().Get(key) == "" {
					w.Header().Add(key, actualValue)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireTokenForMocks applies the JWT verifier to every request except those the
// registry would pass through, so the UI's assets and authorization calls are never
// gated by the mock layer.
func RequireTokenForMocks(
	registry *mock.Registry,
	verifier func(http.Handler) http.Handler,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := verifier(jwtauth.Authenticator(next))
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rule, ok := registry.Match(r.Method, r.URL.RequestURI()); ok && rule.PassThrough {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}
