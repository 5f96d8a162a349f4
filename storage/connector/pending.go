package connector

import (
	"github.com/viant/mcp-protocol/client"
	"github.com/viant/mcp-protocol/syncmap"
)

// PendingCredential represents a connector awaiting sensitive-field submission
// through the credential-elicitation flow.
type PendingCredential struct {
	UUID        string
	ElicitID    string
	Namespace   string
	Connector   *Connector
	Fields      []CredentialField
	NS          *Namespace
	CallbackURL string
	MCP         client.Operations
	done        chan struct{}
}

// Done exposes the completion channel for waiters.
func (p *PendingCredential) Done() <-chan struct{} { return p.done }

// PendingCredentials is a concurrency-safe collection of pending entries.
type PendingCredentials struct {
	*syncmap.Map[string, *PendingCredential]
}

func NewPendingCredentials() *PendingCredentials {
	return &PendingCredentials{syncmap.NewMap[string, *PendingCredential]()}
}

// Close signals completion to waiting goroutines.
func (p *PendingCredentials) Close(uuid string) {
	if entry, ok := p.Get(uuid); ok && entry != nil {
		select {
		case <-entry.done:
		default:
			close(entry.done)
		}
	}
}
