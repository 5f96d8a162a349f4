package connector

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
)

// Prober verifies that a flattened configuration can reach its backend by
// probing the storage location derived from the configuration.
type Prober struct {
	fs afs.Service
}

// NewProber builds a connection prober backed by the abstract file system.
func NewProber() *Prober {
	return &Prober{fs: afs.New()}
}

// Test probes connectivity for the supplied configuration. Sensitive values
// are consumed in-memory only and never persisted. Failures wrap
// ErrConnection so callers can distinguish reachability from validation.
func (p *Prober) Test(ctx context.Context, configuration map[string]interface{}, sourcePath string) error {
	cfg := make(map[string]string, len(configuration))
	for key, raw := range configuration {
		cfg[key] = fmt.Sprintf("%v", raw)
	}
	schemaPrefix := cfg[configTypeKey]
	location, err := probeLocation(schemaPrefix, cfg, sourcePath)
	if err != nil {
		return err
	}
	ok, err := p.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConnection, location, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s: location not found", ErrConnection, location)
	}
	return nil
}

// probeLocation derives an afs URL from the schema and configuration.
func probeLocation(schemaPrefix string, configuration map[string]string, sourcePath string) (string, error) {
	sourcePath = strings.TrimPrefix(sourcePath, "/")
	switch schemaPrefix {
	case "s3":
		if endpoint := configuration["endpoint"]; endpoint != "" {
			return joinURL(endpoint, sourcePath), nil
		}
		if sourcePath == "" {
			return "", fmt.Errorf("%w: s3 requires a source path with a bucket", ErrConnection)
		}
		return "s3://" + sourcePath, nil
	case "webdav", "polybox", "switchDrive":
		endpoint := configuration["url"]
		if endpoint == "" {
			endpoint = configuration["public_link"]
		}
		if endpoint == "" {
			return "", fmt.Errorf("%w: %s requires a url", ErrConnection, schemaPrefix)
		}
		return joinURL(endpoint, sourcePath), nil
	case "azureblob":
		account := configuration["account"]
		if account == "" {
			return "", fmt.Errorf("%w: azureblob requires an account", ErrConnection)
		}
		return joinURL(fmt.Sprintf("https://%s.blob.core.windows.net", account), sourcePath), nil
	case "sftp":
		host := configuration["host"]
		if host == "" {
			return "", fmt.Errorf("%w: sftp requires a host", ErrConnection)
		}
		return joinURL("scp://"+host, sourcePath), nil
	case "local", "file":
		return "file:///" + sourcePath, nil
	case "memory", "mem":
		return "mem://localhost/" + sourcePath, nil
	default:
		endpoint := configuration["endpoint"]
		if endpoint == "" {
			endpoint = configuration["url"]
		}
		if endpoint == "" {
			return "", fmt.Errorf("%w: no probe location for schema %q", ErrConnection, schemaPrefix)
		}
		return joinURL(endpoint, sourcePath), nil
	}
}

func joinURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if path == "" {
		return base
	}
	return base + "/" + path
}
