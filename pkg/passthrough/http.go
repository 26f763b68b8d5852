// Package passthrough forwards requests that the mock registry declines to answer to the
// real shim server.
package passthrough

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptrace"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/openmhealth/shimmock/config"
	"github.com/openmhealth/shimmock/internal"
	"github.com/openmhealth/shimmock/pkg/handlertools"
)

var log = internal.ComponentLogger("passthrough")

// NewTransport returns a retrying transport wrapped in an OpenTelemetry transport.
// retryMax of 0 sends each request once. Once retries are exhausted the last upstream
// response is returned as is, and redirects are handed back to the caller rather than
// followed.
func NewTransport(retryMax int, timeout time.Duration) http.RoundTripper {
	retryableHTTPClient := retryablehttp.NewClient()
	retryableHTTPClient.RetryMax = retryMax
	retryableHTTPClient.HTTPClient.Timeout = timeout
	retryableHTTPClient.HTTPClient.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	retryableHTTPClient.Logger = internal.NewLeveledLogrus(log)
	retryableHTTPClient.Backoff = retryablehttp.DefaultBackoff
	retryableHTTPClient.CheckRetry = retryablehttp.DefaultRetryPolicy
	retryableHTTPClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return otelhttp.NewTransport(
		outgoing{next: &retryablehttp.RoundTripper{Client: retryableHTTPClient}},
		otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
			return otelhttptrace.NewClientTrace(ctx)
		}),
	)
}

// outgoing turns server requests, such as the ones a ReverseProxy forwards, into client
// requests. http.Client refuses requests with RequestURI set.
type outgoing struct {
	next http.RoundTripper
}

func (o outgoing) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.RequestURI != "" {
		req = req.Clone(req.Context())
		req.RequestURI = ""
	}
	return o.next.RoundTrip(req)
}

// NewTransportFromConfig builds the transport from the passthrough config section.
func NewTransportFromConfig(cfg config.PassThroughConfig) http.RoundTripper {
	return NewTransport(cfg.RetryMax, time.Duration(cfg.Timeout)*time.Second)
}

// NewProxy returns a handler that forwards requests to upstream over transport. Upstream
// failures are answered with 502.
func NewProxy(upstream string, transport http.RoundTripper) (http.Handler, error) {
	target, err := url.Parse(upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid pass-through upstream %q: %w", upstream, err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid pass-through upstream %q: scheme and host are required", upstream)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.Transport = transport
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		handlertools.RenderError(
			w,
			fmt.Errorf("pass-through to %s failed for %s %s: %w", target.Host, r.Method, r.URL.RequestURI(), err),
			http.StatusBadGateway,
		)
	}

	log.Infof("Forwarding pass-through requests to %s", target)
	return proxy, nil
}
