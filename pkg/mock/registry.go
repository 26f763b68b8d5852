// Package mock intercepts shim server API calls and answers them from fixtures.
//
// A Registry is an ordered list of rules evaluated first-match-wins. It can be installed
// as the Transport of an http.Client, so calls are answered in-process, or served as an
// http.Handler by the dev server. Requests matching a pass-through rule go to the real
// transport; requests matching nothing are reported as ErrNoMatchingMock.
package mock

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/openmhealth/shimmock/internal"
	"github.com/openmhealth/shimmock/pkg/models"
	"github.com/openmhealth/shimmock/pkg/handlertools"
)

var (
	_ http.RoundTripper = &Registry{}
	_ http.Handler      = &Registry{}
)

// Registry holds the rules and the journal of handled requests.
type Registry struct {
	rulesMu sync.RWMutex
	rules   []*Rule

	journalMu sync.Mutex
	calls     []Call

	transport          http.RoundTripper
	passThroughHandler http.Handler
	metrics            *Metrics
	log                logrus.FieldLogger
}

type Option func(*Registry)

// WithTransport sets the transport RoundTrip forwards pass-through requests to.
func WithTransport(rt http.RoundTripper) Option {
	return func(reg *Registry) { reg.transport = rt }
}

// WithPassThroughHandler sets the handler ServeHTTP forwards pass-through requests to.
func WithPassThroughHandler(h http.Handler) Option {
	return func(reg *Registry) { reg.passThroughHandler = h }
}

func WithMetrics(m *Metrics) Option {
	return func(reg *Registry) { reg.metrics = m }
}

// New creates an empty registry. Without WithTransport, RoundTrip forwards pass-through
// requests to http.DefaultTransport.
func New(opts ...Option) *Registry {
	reg := &Registry{
		transport: http.DefaultTransport,
		log:       internal.ComponentLogger("mock"),
	}
	for _, opt := range opts {
		opt(reg)
	}
	return reg
}

// When starts a rule for method and the regular expression pattern, matched against the
// request URI. It panics if pattern does not compile, like regexp.MustCompile.
func (reg *Registry) When(method, pattern string) *RuleBuilder {
	return &RuleBuilder{
		registry: reg,
		rule: &Rule{
			Name:    method + " " + pattern,
			Method:  method,
			Pattern: regexp.MustCompile(pattern),
		},
	}
}

func (reg *Registry) add(rule *Rule) *Rule {
	reg.rulesMu.Lock()
	defer reg.rulesMu.Unlock()

	reg.rules = append(reg.rules, rule)
	return rule
}

// Rules returns the registered rules in evaluation order.
func (reg *Registry) Rules() []*Rule {
	reg.rulesMu.RLock()
	defer reg.rulesMu.RUnlock()

	return append([]*Rule(nil), reg.rules...)
}

// Match returns the first rule that applies to method and uri.
func (reg *Registry) Match(method, uri string) (*Rule, bool) {
	reg.rulesMu.RLock()
	defer reg.rulesMu.RUnlock()

	for _, rule := range reg.rules {
		if rule.Matches(method, uri) {
			return rule, true
		}
	}
	return nil, false
}

// respond runs a mocked rule. The journal records an error outcome when the responder
// fails.
func (reg *Registry) respond(rule *Rule, r *http.Request, uri string) (*Response, error) {
	body, err := handlertools.ReadBody(r)
	if err != nil {
		reg.record(r.Method, uri, rule, OutcomeError)
		return nil, err
	}

	resp, err := rule.Respond(r, body)
	if err != nil {
		reg.record(r.Method, uri, rule, OutcomeError)
		return nil, fmt.Errorf("rule %q: %w", rule.Name, err)
	}
	if resp == nil {
		resp = &Response{}
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = http.StatusOK
	}
	if resp.Header == nil {
		resp.Header = http.Header{}
	}

	reg.record(r.Method, uri, rule, OutcomeMocked)
	return resp, nil
}

func unmatchedError(method, uri string) error {
	return fmt.Errorf("%w for %s %s", models.ErrNoMatchingMock, method, uri)
}

// RoundTrip answers req from the matching rule, forwards it to the transport for
// pass-through rules, and fails with ErrNoMatchingMock when no rule matches.
func (reg *Registry) RoundTrip(req *http.Request) (*http.Response, error) {
	uri := req.URL.RequestURI()

	rule, ok := reg.Match(req.Method, uri)
	if !ok {
		closeBody(req)
		reg.record(req.Method, uri, nil, OutcomeUnmatched)
		return nil, unmatchedError(req.Method, uri)
	}

	if rule.PassThrough {
		if reg.transport == nil {
			closeBody(req)
			reg.record(req.Method, uri, rule, OutcomeError)
			return nil, models.ErrNoUpstream
		}
		reg.record(req.Method, uri, rule, OutcomePassThrough)
		return reg.transport.RoundTrip(req)
	}

	resp, err := reg.respond(rule, req, uri)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        strconv.Itoa(resp.StatusCode) + " " + http.StatusText(resp.StatusCode),
		StatusCode:    resp.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        resp.Header,
		Body:          io.NopCloser(bytes.NewReader(resp.Body)),
		ContentLength: int64(len(resp.Body)),
		Request:       req,
	}, nil
}

// ServeHTTP is the dev server counterpart of RoundTrip. Unmatched requests get a 404 and
// responder errors are rendered through handlertools.RenderError.
func (reg *Registry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.RequestURI()

	rule, ok := reg.Match(r.Method, uri)
	if !ok {
		reg.record(r.Method, uri, nil, OutcomeUnmatched)
		handlertools.RenderError(w, unmatchedError(r.Method, uri), http.StatusNotFound)
		return
	}

	if rule.PassThrough {
		if reg.passThroughHandler == nil {
			reg.record(r.Method, uri, rule, OutcomeError)
			handlertools.RenderError(w, models.ErrNoUpstream, http.StatusBadGateway)
			return
		}
		reg.record(r.Method, uri, rule, OutcomePassThrough)
		reg.passThroughHandler.ServeHTTP(w, r)
		return
	}

	resp, err := reg.respond(rule, r, uri)
	if err != nil {
		handlertools.RenderError(w, err, http.StatusInternalServerError)
		return
	}

	for key, values := range resp.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	if w.Header().Get("Content-Type") == "" && len(resp.Body) > 0 {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(resp.Body)
}

func closeBody(req *http.Request) {
	if req.Body != nil {
		_ = req.Body.Close()
	}
}
