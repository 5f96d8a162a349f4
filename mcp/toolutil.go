package mcp

import (
	"encoding/json"

	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
)

// buildErrorResult constructs a CallToolResult with IsError set and the
// error message placed in the Text field.
func buildErrorResult(errMsg string) (*schema.CallToolResult, *jsonrpc.Error) {
	isErr := true
	return &schema.CallToolResult{
		IsError: &isErr,
		Content: []schema.CallToolResultContentElem{schema.TextContent{Text: errMsg}},
	}, nil
}

// buildSuccessResult serialises payload to JSON and wraps it in a
// CallToolResult, honoring the service's text-vs-data field preference.
func buildSuccessResult(svc *Service, payload any) (*schema.CallToolResult, *jsonrpc.Error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, jsonrpc.NewInternalError(err.Error(), nil)
	}
	if svc.UseTextField() {
		return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{schema.TextContent{Text: string(data)}}}, nil
	}
	return &schema.CallToolResult{Content: []schema.CallToolResultContentElem{schema.ImageContent{Data: string(data)}}}, nil
}
