package schema

import (
	"context"
)

// Service exposes catalog resolution as tool-friendly operations. It pairs
// the catalog client with the override resolver.
type Service struct {
	client   Client
	resolver *Resolver
}

// New builds a schema Service. A nil resolver falls back to the default
// override tables.
func New(client Client, resolver *Resolver) *Service {
	if resolver == nil {
		resolver = NewResolver(nil)
	}
	return &Service{client: client, resolver: resolver}
}

// Resolver exposes the underlying resolver.
func (s *Service) Resolver() *Resolver { return s.resolver }

// Catalog fetches the raw backend catalog.
func (s *Service) Catalog(ctx context.Context) ([]*Descriptor, error) {
	return s.client.Catalog(ctx)
}

// ListSchemasInput selects which schemas to resolve.
type ListSchemasInput struct {
	ShortList     bool   `json:"shortList,omitempty" description:"Limit to the curated schema shortlist"`
	CurrentSchema string `json:"currentSchema,omitempty" description:"Schema to keep visible even when hidden or off the shortlist"`
}

// ListSchemasOutput carries resolved schema descriptors.
type ListSchemasOutput struct {
	Data   []*Descriptor `json:"data,omitempty"`
	Status string        `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// ListSchemas resolves the schema catalog with overrides, hiding and
// shortlist filtering applied.
func (s *Service) ListSchemas(ctx context.Context, input *ListSchemasInput) *ListSchemasOutput {
	output := &ListSchemasOutput{Status: "ok"}
	if input == nil {
		input = &ListSchemasInput{}
	}
	catalog, err := s.client.Catalog(ctx)
	if err != nil {
		output.Status = "error"
		output.Error = err.Error()
		return output
	}
	output.Data = s.resolver.Schemas(catalog, input.ShortList, input.CurrentSchema)
	return output
}

// ListProvidersInput selects the schema whose providers to resolve.
type ListProvidersInput struct {
	Schema          string `json:"schema" description:"Storage schema prefix"`
	ShortList       bool   `json:"shortList,omitempty" description:"Limit to the provider shortlist"`
	CurrentProvider string `json:"currentProvider,omitempty" description:"Provider to keep visible even off the shortlist"`
}

// ListProvidersOutput carries resolved providers. Required reports whether
// the schema needs a provider selection at all; HasShortList whether a curated
// provider shortlist exists, so callers know the shortList flag has any effect.
type ListProvidersOutput struct {
	Data         []*Provider `json:"data,omitempty"`
	Required     bool        `json:"required"`
	HasShortList bool        `json:"hasShortList"`
	Status       string      `json:"status"`
	Error        string      `json:"error,omitempty"`
}

// ListProviders resolves the provider variants of one schema.
func (s *Service) ListProviders(ctx context.Context, input *ListProvidersInput) *ListProvidersOutput {
	output := &ListProvidersOutput{Status: "ok"}
	if input == nil || input.Schema == "" {
		output.Status = "error"
		output.Error = "schema is required"
		return output
	}
	catalog, err := s.client.Catalog(ctx)
	if err != nil {
		output.Status = "error"
		output.Error = err.Error()
		return output
	}
	output.Data, output.Required = s.resolver.Providers(catalog, input.Schema, input.ShortList, input.CurrentProvider)
	output.HasShortList = s.resolver.HasProviderShortlist(input.Schema)
	return output
}

// ResolveOptionsInput selects the schema/provider whose options to resolve.
type ResolveOptionsInput struct {
	Schema    string `json:"schema" description:"Storage schema prefix"`
	Provider  string `json:"provider,omitempty" description:"Provider narrowing option applicability"`
	ShortList bool   `json:"shortList,omitempty" description:"Exclude advanced options"`
	Raw       bool   `json:"raw,omitempty" description:"Skip overrides, type conversion and hidden-option filtering"`
}

// ResolveOptionsOutput carries the merged, typed, filtered options plus the
// source path hint for the schema.
type ResolveOptionsOutput struct {
	Data   []*Resolved `json:"data,omitempty"`
	Hint   *SourceHint `json:"hint,omitempty"`
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
}

// ResolveOptions runs the option pipeline for one schema/provider pair.
func (s *Service) ResolveOptions(ctx context.Context, input *ResolveOptionsInput) *ResolveOptionsOutput {
	output := &ResolveOptionsOutput{Status: "ok"}
	if input == nil || input.Schema == "" {
		output.Status = "error"
		output.Error = "schema is required"
		return output
	}
	catalog, err := s.client.Catalog(ctx)
	if err != nil {
		output.Status = "error"
		output.Error = err.Error()
		return output
	}
	flags := DefaultFlags()
	if input.Raw {
		flags = Flags{}
	}
	output.Data = s.resolver.Options(catalog, input.Schema, input.Provider, input.ShortList, flags)
	output.Hint = s.resolver.SourcePathHint(input.Schema)
	return output
}
