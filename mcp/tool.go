package mcp

import (
	"context"

	"github.com/viant/jsonrpc"
	protoschema "github.com/viant/mcp-protocol/schema"
	protoserver "github.com/viant/mcp-protocol/server"

	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
)

func registerTools(base *protoserver.DefaultHandler, ret *Handler) error {
	// Register schema catalog tool
	if err := protoserver.RegisterTool[*schema.ListSchemasInput, *schema.ListSchemasOutput](base.Registry, "storageListSchemas", "List available storage schemas with overrides applied. Set shortList to limit the result to the curated selection.", func(ctx context.Context, input *schema.ListSchemasInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.schemas.ListSchemas(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}

	// Register provider resolution tool
	if err := protoserver.RegisterTool[*schema.ListProvidersInput, *schema.ListProvidersOutput](base.Registry, "storageListProviders", "List provider variants of a storage schema. The result reports whether a provider selection is required at all.", func(ctx context.Context, input *schema.ListProvidersInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.schemas.ListProviders(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}

	// Register option resolution tool
	if err := protoserver.RegisterTool[*schema.ResolveOptionsInput, *schema.ResolveOptionsOutput](base.Registry, "storageResolveOptions", "Resolve the configuration options of a schema/provider pair: overrides merged, types inferred, hidden and inapplicable options filtered.", func(ctx context.Context, input *schema.ResolveOptionsInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.schemas.ResolveOptions(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}

	// Register set connector tool
	if err := protoserver.RegisterTool[*connector.SetInput, *connector.SetOutput](base.Registry, "storageSetConnector", "Creates or updates a storage connector. Sensitive option values are never accepted in-band; they are collected through a secure browser flow and stored separately from the definition.", func(ctx context.Context, input *connector.SetInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.connectors.SetConnector(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}

	// Register list connectors tool
	if err := protoserver.RegisterTool[*connector.ListInput, *connector.ListOutput](base.Registry, "storageListConnectors", "List storage connectors in the caller's namespace.", func(ctx context.Context, input *connector.ListInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.connectors.ListConnectors(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}

	// Register remove connector tool
	if err := protoserver.RegisterTool[*connector.RemoveInput, *connector.RemoveOutput](base.Registry, "storageRemoveConnector", "Remove a storage connector and its stored credentials.", func(ctx context.Context, input *connector.RemoveInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.connectors.RemoveConnector(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}

	// Register test connection tool
	if err := protoserver.RegisterTool[*connector.TestInput, *connector.TestOutput](base.Registry, "storageTestConnection", "Probe connectivity of a connector or a candidate configuration. The saved-secret placeholder is rejected before the probe runs.", func(ctx context.Context, input *connector.TestInput) (*protoschema.CallToolResult, *jsonrpc.Error) {
		out := ret.connectors.TestConnection(ctx, input)
		if out.Status == "error" {
			return buildErrorResult(out.Error)
		}
		return buildSuccessResult(ret.service, out)
	}); err != nil {
		return err
	}
	return nil
}
