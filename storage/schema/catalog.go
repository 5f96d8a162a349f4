package schema

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/viant/afs"
)

// ErrCatalogUnavailable signals that the backend schema catalog could not be
// fetched; schema and provider selection is blocked until it resolves.
var ErrCatalogUnavailable = errors.New("schema catalog unavailable")

//go:embed asset/catalog.json
var builtinCatalog []byte

// Client retrieves the backend schema catalog.
type Client interface {
	Catalog(ctx context.Context) ([]*Descriptor, error)
}

// StaticClient serves the embedded catalog snapshot.
type StaticClient struct{}

// NewStaticClient returns a catalog client backed by the embedded snapshot.
func NewStaticClient() *StaticClient { return &StaticClient{} }

func (c *StaticClient) Catalog(_ context.Context) ([]*Descriptor, error) {
	return decodeCatalog(builtinCatalog)
}

// FileClient loads the catalog from an afs URL (file://, mem://, http(s)://).
type FileClient struct {
	fs  afs.Service
	URL string
}

// NewFileClient builds a catalog client reading from the given URL.
func NewFileClient(URL string) *FileClient {
	return &FileClient{fs: afs.New(), URL: URL}
}

func (c *FileClient) Catalog(ctx context.Context) ([]*Descriptor, error) {
	data, err := c.fs.DownloadWithURL(ctx, c.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	return decodeCatalog(data)
}

func decodeCatalog(data []byte) ([]*Descriptor, error) {
	var ret []*Descriptor
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("%w: malformed catalog: %v", ErrCatalogUnavailable, err)
	}
	return ret, nil
}
