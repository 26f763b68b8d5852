package mock

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/openmhealth/shimmock/pkg/models"
)

// Rule names of the shim server API mocks.
const (
	RuleGetConfiguration         = "get-configuration"
	RuleGetSchemas               = "get-schemas"
	RulePostConfiguration        = "post-configuration"
	RuleAuthorizationPassThrough = "authorizations-passthrough"
	RuleAppPassThrough           = "app-passthrough"
)

// URI patterns of the shim server API mocks.
const (
	ConfigurationListPattern   = `/api/configuration`
	SchemaListPattern          = `/api/schemas`
	ConfigurationUpdatePattern = `^/api/.+/configuration`
	AuthorizationsPattern      = `^/api/(.+/)?authorizations`
	AppAssetsPattern           = `app/`
)

// NewShimRegistry creates a registry with the shim server API rules registered.
func NewShimRegistry(
	configurations models.ConfigurationStore,
	schemas models.SchemaStore,
	opts ...Option,
) *Registry {
	reg := New(opts...)
	RegisterShimRules(reg, configurations, schemas)
	return reg
}

// RegisterShimRules adds, in order: the configuration listing, the schema listing, the
// configuration update and the authorizations and app asset pass-through rules.
func RegisterShimRules(
	reg *Registry,
	configurations models.ConfigurationStore,
	schemas models.SchemaStore,
) {
	reg.When(http.MethodGet, ConfigurationListPattern).
		Named(RuleGetConfiguration).
		Respond(listConfigurations(configurations))

	reg.When(http.MethodGet, SchemaListPattern).
		Named(RuleGetSchemas).
		Respond(listSchemas(schemas))

	reg.When(http.MethodPost, ConfigurationUpdatePattern).
		Named(RulePostConfiguration).
		Respond(updateConfiguration(configurations))

	reg.When(http.MethodGet, AuthorizationsPattern).
		Named(RuleAuthorizationPassThrough).
		PassThrough()

	reg.When(http.MethodGet, AppAssetsPattern).
		Named(RuleAppPassThrough).
		PassThrough()
}

// listConfigurations answers with the current configuration wrapped in an array.
func listConfigurations(configurations models.ConfigurationStore) Responder {
	return func(r *http.Request, _ []byte) (*Response, error) {
		raw, err := configurations.Get(r.Context())
		if err != nil {
			return nil, err
		}

		body := make([]byte, 0, len(raw)+2)
		body = append(body, '[')
		body = append(body, raw...)
		body = append(body, ']')

		return &Response{StatusCode: http.StatusOK, Body: body}, nil
	}
}

// listSchemas answers with the schema list wrapped in an array.
func listSchemas(schemas models.SchemaStore) Responder {
	return func(r *http.Request, _ []byte) (*Response, error) {
		list, err := schemas.Get(r.Context())
		if err != nil {
			return nil, err
		}

		body, err := json.Marshal([]*models.SchemaList{list})
		if err != nil {
			return nil, fmt.Errorf("failed to encode schema list: %w", err)
		}

		return &Response{StatusCode: http.StatusOK, Body: body}, nil
	}
}

// updateConfiguration replaces the stored configuration with the posted body and echoes
// it back with an empty header set. The body is not checked against the settings.
func updateConfiguration(configurations models.ConfigurationStore) Responder {
	return func(r *http.Request, body []byte) (*Response, error) {
		var compacted bytes.Buffer
		if err := json.Compact(&compacted, body); err != nil {
			return nil, fmt.Errorf("%w: %w", models.ErrInvalidJSON, err)
		}

		if err := configurations.Replace(r.Context(), compacted.Bytes()); err != nil {
			return nil, err
		}

		return &Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{},
			Body:       compacted.Bytes(),
		}, nil
	}
}
