package mock

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openmhealth/shimmock/pkg/models"
)

// Outcome is what the registry did with a request.
type Outcome string

const (
	OutcomeMocked      Outcome = "mocked"
	OutcomePassThrough Outcome = "passthrough"
	OutcomeUnmatched   Outcome = "unmatched"
	OutcomeError       Outcome = "error"
)

// Call is one journal entry. Rule is empty for unmatched requests.
type Call struct {
	ID      uuid.UUID
	Method  string
	URI     string
	Rule    string
	Outcome Outcome
	At      time.Time
}

func (reg *Registry) record(method, uri string, rule *Rule, outcome Outcome) Call {
	c := Call{
		ID:      uuid.New(),
		Method:  method,
		URI:     uri,
		Outcome: outcome,
		At:      time.Now().UTC(),
	}
	if rule != nil {
		c.Rule = rule.Name
	}

	reg.journalMu.Lock()
	reg.calls = append(reg.calls, c)
	reg.journalMu.Unlock()

	if reg.metrics != nil {
		reg.metrics.observe(c.Rule, outcome)
	}

	reg.log.WithFields(logrus.Fields{
		"call_id": c.ID,
		"rule":    c.Rule,
		"method":  method,
		"uri":     uri,
		"outcome": outcome,
	}).Debug("mock registry handled request")

	return c
}

// Calls returns the journal in the order requests were handled.
func (reg *Registry) Calls() []Call {
	reg.journalMu.Lock()
	defer reg.journalMu.Unlock()

	return append([]Call(nil), reg.calls...)
}

// Call returns the journal entry with the given id.
func (reg *Registry) Call(id uuid.UUID) (Call, error) {
	reg.journalMu.Lock()
	defer reg.journalMu.Unlock()

	for _, c := range reg.calls {
		if c.ID == id {
			return c, nil
		}
	}
	return Call{}, models.NewNotFoundError("call " + id.String())
}

// Unmatched returns the journaled requests that no rule answered.
func (reg *Registry) Unmatched() []Call {
	var out []Call
	for _, c := range reg.Calls() {
		if c.Outcome == OutcomeUnmatched {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the journal.
func (reg *Registry) ResetCalls() {
	reg.journalMu.Lock()
	defer reg.journalMu.Unlock()

	reg.calls = nil
}
