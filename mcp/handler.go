package mcp

import (
	"context"

	"github.com/viant/jsonrpc/transport"
	protoclient "github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/logger"
	protoserver "github.com/viant/mcp-protocol/server"
	"github.com/viant/mcp-storagekit/storage/connector"
	"github.com/viant/mcp-storagekit/storage/schema"
)

type Handler struct {
	*protoserver.DefaultHandler
	service    *Service
	schemas    *schema.Service
	connectors *connector.Service
}

func NewHandler(service *Service) protoserver.NewHandler {
	return func(_ context.Context, notifier transport.Notifier, logger logger.Logger, clientOperation protoclient.Operations) (protoserver.Handler, error) {
		base := protoserver.NewDefaultHandler(notifier, logger, clientOperation)
		ret := &Handler{
			DefaultHandler: base,
			service:        service,
			schemas:        service.Schemas(),
			connectors:     service.NewConnector(clientOperation),
		}
		err := registerTools(base, ret)
		if err != nil {
			return nil, err
		}
		return ret, nil
	}
}
