package mock

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmhealth/shimmock/pkg/models"
)

func TestMatchFirstRuleWins(t *testing.T) {
	reg := New()
	first := reg.When(http.MethodGet, `/api/things`).Named("first").RespondJSON(http.StatusOK, "first")
	reg.When(http.MethodGet, `/api/things/special`).Named("second").RespondJSON(http.StatusOK, "second")

	rule, ok := reg.Match(http.MethodGet, "/api/things/special")
	require.True(t, ok)
	assert.Same(t, first, rule)

	_, ok = reg.Match(http.MethodPost, "/api/things")
	assert.False(t, ok)
}

func TestRuleDefaultName(t *testing.T) {
	reg := New()
	rule := reg.When(http.MethodGet, `^/x`).PassThrough()

	assert.Equal(t, "GET ^/x", rule.Name)
	assert.True(t, rule.PassThrough)
	assert.Len(t, reg.Rules(), 1)
}

func TestWhenPanicsOnBadPattern(t *testing.T) {
	assert.Panics(t, func() { New().When(http.MethodGet, `(`) })
}

func TestRoundTripMocked(t *testing.T) {
	reg := New()
	reg.When(http.MethodGet, `/hello`).RespondJSON(http.StatusAccepted, map[string]string{"hello": "world"})
	client := &http.Client{Transport: reg}

	resp, err := client.Get("http://shims.invalid/hello?x=1")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	assert.Equal(t, "202 Accepted", resp.Status)
	assert.Equal(t, `{"hello":"world"}`, string(body))
	assert.Empty(t, resp.Header)

	calls := reg.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, OutcomeMocked, calls[0].Outcome)
	assert.Equal(t, "/hello?x=1", calls[0].URI)
	assert.NotEmpty(t, calls[0].ID)
}

func TestRoundTripUnmatched(t *testing.T) {
	reg := New()
	client := &http.Client{Transport: reg}

	_, err := client.Get("http://shims.invalid/api/other")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNoMatchingMock))
	assert.Contains(t, err.Error(), "GET /api/other")

	unmatched := reg.Unmatched()
	require.Len(t, unmatched, 1)
	assert.Empty(t, unmatched[0].Rule)
}

func TestRoundTripPassThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("real " + r.URL.Path))
	}))
	defer upstream.Close()

	reg := New(WithTransport(http.DefaultTransport))
	reg.When(http.MethodGet, `^/real`).PassThrough()
	client := &http.Client{Transport: reg}

	resp, err := client.Get(upstream.URL + "/real/thing")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, "real /real/thing", string(body))
	assert.Equal(t, OutcomePassThrough, reg.Calls()[0].Outcome)
}

func TestRoundTripPassThroughWithoutTransport(t *testing.T) {
	reg := New(WithTransport(nil))
	reg.When(http.MethodGet, `^/real`).PassThrough()

	req := httptest.NewRequest(http.MethodGet, "http://shims.invalid/real", nil)
	_, err := reg.RoundTrip(req)
	assert.ErrorIs(t, err, models.ErrNoUpstream)
}

func TestRoundTripResponderError(t *testing.T) {
	reg := New()
	reg.When(http.MethodPost, `/fail`).Named("fails").Respond(func(*http.Request, []byte) (*Response, error) {
		return nil, models.ErrInvalidJSON
	})

	req := httptest.NewRequest(http.MethodPost, "http://shims.invalid/fail", strings.NewReader("{"))
	_, err := reg.RoundTrip(req)
	assert.ErrorIs(t, err, models.ErrInvalidJSON)
	assert.Contains(t, err.Error(), `rule "fails"`)
	assert.Equal(t, OutcomeError, reg.Calls()[0].Outcome)
}

func TestResponderSeesBody(t *testing.T) {
	reg := New()
	reg.When(http.MethodPost, `/echo`).Respond(func(_ *http.Request, body []byte) (*Response, error) {
		return &Response{Body: body}, nil
	})

	rec := httptest.NewRecorder()
	reg.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"a":1}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestServeHTTPUnmatched(t *testing.T) {
	reg := New()

	rec := httptest.NewRecorder()
	reg.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/other", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no matching mock for GET /api/other\n", rec.Body.String())
	assert.Len(t, reg.Unmatched(), 1)
}

func TestServeHTTPPassThrough(t *testing.T) {
	var forwarded string
	reg := New(WithPassThroughHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		forwarded = r.URL.Path
		w.WriteHeader(http.StatusTeapot)
	})))
	reg.When(http.MethodGet, `app/`).PassThrough()

	rec := httptest.NewRecorder()
	reg.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/index.html", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "/app/index.html", forwarded)
}

func TestServeHTTPPassThroughWithoutHandler(t *testing.T) {
	reg := New()
	reg.When(http.MethodGet, `app/`).PassThrough()

	rec := httptest.NewRecorder()
	reg.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app/index.html", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, OutcomeError, reg.Calls()[0].Outcome)
}

func TestResetCalls(t *testing.T) {
	reg := New()
	reg.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nothing", nil))
	require.Len(t, reg.Calls(), 1)

	reg.ResetCalls()
	assert.Empty(t, reg.Calls())
}

func TestCallLookup(t *testing.T) {
	reg := New()
	reg.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nothing", nil))
	calls := reg.Calls()
	require.Len(t, calls, 1)

	c, err := reg.Call(calls[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "/nothing", c.URI)

	_, err = reg.Call(uuid.New())
	assert.ErrorIs(t, err, models.ErrNotFound)
	var nfe *models.NotFoundError
	assert.True(t, errors.As(err, &nfe))
}

func TestMetrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m, err := NewMetrics(promReg)
	require.NoError(t, err)

	reg := New(WithMetrics(m))
	reg.When(http.MethodGet, `/hello`).Named("hello").RespondJSON(http.StatusOK, "hi")

	reg.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))
	reg.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/hello", nil))
	reg.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/other", nil))

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("hello", "mocked")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("", "unmatched")))

	_, err = NewMetrics(promReg)
	assert.Error(t, err)
}
