package connector

import (
	"context"
	"errors"

	"github.com/viant/mcp-storagekit/storage/schema"
)

// SetInput is the flat-shaped payload used to create or update a connector
// over MCP. Sensitive option values are accepted in-band only as the
// submission sentinel; real secret values travel through the browser
// credential flow.
type SetInput struct {
	Name            string            `json:"name" description:"Connector display name"`
	Slug            string            `json:"slug,omitempty" description:"Connector slug, defaults to the name"`
	Namespace       string            `json:"namespace,omitempty" description:"Owning namespace, defaults to the caller's"`
	Visibility      string            `json:"visibility,omitempty" description:"public or private"`
	Keywords        []string          `json:"keywords,omitempty" description:"Search keywords"`
	Schema          string            `json:"schema" description:"Storage schema prefix"`
	Provider        string            `json:"provider,omitempty" description:"Schema provider"`
	Options         map[string]string `json:"options,omitempty" description:"Schema option values"`
	SourcePath      string            `json:"sourcePath,omitempty" description:"Source path to mount"`
	MountPoint      string            `json:"mountPoint,omitempty" description:"Mount point"`
	ReadOnly        *bool             `json:"readonly,omitempty" description:"Mount read-only, defaults to true"`
	Update          bool              `json:"update,omitempty" description:"Update an existing connector instead of creating"`
	IfMatch         string            `json:"ifMatch,omitempty" description:"Expected entity tag for updates"`
	SaveCredentials bool              `json:"saveCredentials,omitempty" description:"Persist sensitive values in the credential store"`
}

// Flat converts the payload into the wizard's flat state.
func (i *SetInput) Flat() *Flat {
	ret := EmptyFlat()
	ret.Name = i.Name
	ret.Slug = i.Slug
	if ret.Slug == "" {
		ret.Slug = i.Name
	}
	ret.Namespace = i.Namespace
	if i.Visibility != "" {
		ret.Visibility = i.Visibility
	}
	ret.Keywords = i.Keywords
	ret.Schema = i.Schema
	ret.Provider = i.Provider
	ret.SourcePath = i.SourcePath
	ret.MountPoint = i.MountPoint
	if i.ReadOnly != nil {
		ret.ReadOnly = *i.ReadOnly
	}
	if len(i.Options) > 0 {
		ret.Options = make(map[string]Value, len(i.Options))
		for name, raw := range i.Options {
			ret.Options[name] = ValueFromWire(raw)
		}
	}
	return ret
}

// SetOutput is the result of the set tool. Credential values never appear in
// it; when sensitive fields still need values the output carries the browser
// flow URL that collects them.
type SetOutput struct {
	Data              *Connector `json:"data,omitempty"`
	CredentialFlowURL string     `json:"credentialFlowURL,omitempty"`
	Status            string     `json:"status"`
	Error             string     `json:"error,omitempty"`
}

// SetConnector creates or updates a connector from the flat payload.
func (s *Service) SetConnector(ctx context.Context, input *SetInput) *SetOutput {
	output := &SetOutput{Status: "ok"}
	if input == nil {
		output.Status = "error"
		output.Error = "input is required"
		return output
	}
	mode := ModeCreate
	if input.Update {
		mode = ModeUpdate
	}
	flat := input.Flat()
	stored, err := s.Set(ctx, flat, mode, input.IfMatch, input.SaveCredentials)
	if err != nil {
		output.Status = "error"
		output.Error = err.Error()
		if errors.Is(err, schema.ErrCatalogUnavailable) {
			output.Error = "schema catalog unavailable: " + err.Error()
		}
		return output
	}
	output.Data = stored
	if needsCredentialFlow(flat, stored) {
		if pend, err := s.RequestCredentials(ctx, stored); err == nil {
			output.CredentialFlowURL = pend.CallbackURL
		}
	}
	return output
}

// needsCredentialFlow reports whether any sentinel-marked sensitive field of
// the stored connector received no literal value in-band, meaning the browser
// flow still has to collect it.
func needsCredentialFlow(flat *Flat, stored *Connector) bool {
	for _, name := range ProvidedSensitiveFields(stored.Storage.Configuration) {
		value, ok := flat.Options[name]
		if !ok || value.Kind() != KindPlain || value.IsEmpty() {
			return true
		}
	}
	return false
}

// RemoveInput identifies the connector to delete.
type RemoveInput struct {
	Slug string `json:"slug" description:"Connector slug"`
}

// RemoveOutput is the result of the remove tool.
type RemoveOutput struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// RemoveConnector deletes a connector and its stored credentials.
func (s *Service) RemoveConnector(ctx context.Context, input *RemoveInput) *RemoveOutput {
	output := &RemoveOutput{Status: "ok"}
	if input == nil || input.Slug == "" {
		output.Status = "error"
		output.Error = "slug is required"
		return output
	}
	conn, err := s.Manager.Connection(ctx, input.Slug)
	if err != nil {
		output.Status = "error"
		output.Error = err.Error()
		return output
	}
	namespace, _ := s.auth.Namespace(ctx)
	if s.secrets != nil {
		_ = s.secrets.Delete(ctx, conn.SchemaPrefix(), input.Slug, namespace)
	}
	s.Remove(ctx, input.Slug)
	return output
}

// TestInput carries a candidate configuration for a connectivity probe.
type TestInput struct {
	Slug          string            `json:"slug,omitempty" description:"Existing connector to test"`
	Configuration map[string]string `json:"configuration,omitempty" description:"Candidate configuration, including type and provider"`
	SourcePath    string            `json:"sourcePath,omitempty" description:"Source path to probe"`
}

// TestOutput is the result of the test-connection tool.
type TestOutput struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// TestConnection probes connectivity for either an existing connector or an
// in-band candidate configuration.
func (s *Service) TestConnection(ctx context.Context, input *TestInput) *TestOutput {
	output := &TestOutput{Status: "ok"}
	if input == nil {
		output.Status = "error"
		output.Error = "input is required"
		return output
	}
	configuration := map[string]interface{}{}
	sourcePath := input.SourcePath
	if input.Slug != "" {
		conn, err := s.Manager.Connection(ctx, input.Slug)
		if err != nil {
			output.Status = "error"
			output.Error = err.Error()
			return output
		}
		for key, value := range conn.Storage.Configuration {
			configuration[key] = value
		}
		if sourcePath == "" {
			sourcePath = conn.Storage.SourcePath
		}
	}
	for key, value := range input.Configuration {
		if value == SavedSecretDisplayValue {
			output.Status = "error"
			output.Error = ErrSentinelMisuse.Error() + ": field " + key
			return output
		}
		configuration[key] = value
	}
	if err := s.prober.Test(ctx, configuration, sourcePath); err != nil {
		output.Status = "error"
		output.Error = err.Error()
		return output
	}
	return output
}
