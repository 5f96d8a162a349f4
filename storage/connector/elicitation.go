package connector

import (
	"context"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/schema"
	"github.com/viant/mcp-storagekit/auth"
	"github.com/viant/structology/conv"
)

// ConnectorInput is the structure the user supplies when adding a connector.
// It purposefully omits sensitive option values.
type ConnectorInput struct {
	Name       string `json:"name" description:"Connector display name"`
	Slug       string `json:"slug,omitempty" description:"Connector slug"`
	Schema     string `json:"schema" description:"Storage schema" choice:"s3" choice:"azureblob" choice:"webdav" choice:"polybox" choice:"switchDrive" choice:"sftp" choice:"openbis"`
	Provider   string `json:"provider,omitempty" description:"Schema provider"`
	SourcePath string `json:"sourcePath,omitempty" description:"Source path to mount"`
	MountPoint string `json:"mountPoint,omitempty" description:"Mount point"`
	ReadOnly   *bool  `json:"readonly,omitempty" description:"Mount read-only, defaults to true"`
}

func (i *ConnectorInput) Init() {
	if i.Slug == "" {
		i.Slug = i.Name
	}
	if i.MountPoint == "" && i.Schema != "" {
		i.MountPoint = "external_storage/" + i.Schema
	}
}

func (i *ConnectorInput) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if i.Schema == "" {
		return fmt.Errorf("%w: schema cannot be empty", ErrValidation)
	}
	return nil
}

// mapToStruct fills a struct pointer with values from a map.
func mapToStruct(m map[string]interface{}, out interface{}) error {
	return conv.NewConverter(conv.DefaultOptions()).Convert(m, out)
}

// requestConnectorElicit sends an Elicit request to the client asking for
// connector input, then registers the resulting connector. Elicitation errors
// surface to the caller so the original lookup failure stays meaningful.
func (s *Service) requestConnectorElicit(ctx context.Context, impl client.Operations, slug, namespace string) (string, error) {
	props, required := schema.StructToProperties(reflect.TypeOf(ConnectorInput{}))
	flatProps := make(map[string]interface{}, len(props))
	for k, v := range props {
		flatProps[k] = v
	}
	if slug != "" {
		props["name"]["default"] = slug
	}

	reqSchema := schema.ElicitRequestParamsRequestedSchema{
		Type:       "object",
		Properties: flatProps,
		Required:   required,
	}
	messageSuffix := ""
	if !auth.IsDefaultNamespace(namespace) {
		messageSuffix = fmt.Sprintf(" in namespace %s", namespace)
	}

	elicitResult, err := impl.Elicit(ctx, &jsonrpc.TypedRequest[*schema.ElicitRequest]{Request: &schema.ElicitRequest{
		Params: schema.ElicitRequestParams{
			ElicitationId:   uuid.New().String(),
			Message:         fmt.Sprintf("Please provide storage connector details for %s%s", slug, messageSuffix),
			RequestedSchema: reqSchema,
		}}})

	if err != nil || elicitResult == nil {
		return slug, err
	}
	if elicitResult.Action != schema.ElicitResultActionAccept {
		return slug, fmt.Errorf("user: reject adding connector %v", elicitResult.Action)
	}

	var input ConnectorInput
	if err := mapToStruct(elicitResult.Content, &input); err != nil {
		return slug, err
	}
	input.Init()
	if err := input.Validate(); err != nil {
		return slug, err
	}
	flat := EmptyFlat()
	flat.Name = input.Name
	flat.Slug = input.Slug
	flat.Namespace = namespace
	flat.Schema = input.Schema
	flat.Provider = input.Provider
	flat.SourcePath = input.SourcePath
	flat.MountPoint = input.MountPoint
	if input.ReadOnly != nil {
		flat.ReadOnly = *input.ReadOnly
	}
	if _, err := s.Set(ctx, flat, ModeCreate, "", false); err != nil {
		return "", err
	}
	return flat.Slug, nil
}
