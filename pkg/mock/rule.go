package mock

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
)

// Response is a synthesized reply. A nil Header is sent as an empty header set.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Responder computes the reply for a matched request. body is the fully read request body.
type Responder func(r *http.Request, body []byte) (*Response, error)

// Rule pairs a method and a URI pattern with either a Responder or pass-through.
type Rule struct {
	Name        string
	Method      string
	Pattern     *regexp.Regexp
	Respond     Responder
	PassThrough bool
}

// Matches reports whether the rule applies to method and uri (path plus query).
func (r *Rule) Matches(method, uri string) bool {
	return r.Method == method && r.Pattern.MatchString(uri)
}

// RuleBuilder finishes a rule started with Registry.When.
type RuleBuilder struct {
	registry *Registry
	rule     *Rule
}

// Named sets the name used in the journal, logs and metrics. It defaults to
// "METHOD pattern".
func (b *RuleBuilder) Named(name string) *RuleBuilder {
	b.rule.Name = name
	return b
}

// Respond registers the rule with fn as its responder.
func (b *RuleBuilder) Respond(fn Responder) *Rule {
	b.rule.Respond = fn
	return b.registry.add(b.rule)
}

// RespondJSON registers a rule that always answers with status and the JSON encoding of
// body.
func (b *RuleBuilder) RespondJSON(status int, body any) *Rule {
	return b.Respond(func(*http.Request, []byte) (*Response, error) {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode canned response: %w", err)
		}
		return &Response{StatusCode: status, Body: data}, nil
	})
}

// PassThrough registers the rule as forwarding to the real transport.
func (b *RuleBuilder) PassThrough() *Rule {
	b.rule.PassThrough = true
	return b.registry.add(b.rule)
}
