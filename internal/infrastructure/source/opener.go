// Package source opens and decodes workflow inputs: thermal CSV arrays, RGB and
// grayscale rasters, fluorescence frame sets and spectral bands, from the local
// filesystem or Azure Blob Storage.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// AzureScheme prefixes blob locations: az://<container>/<blob path>.
const AzureScheme = "az://"

// ErrRemoteNotConfigured is returned for az:// locations without credentials.
var ErrRemoteNotConfigured = errors.New("azure storage is not configured")

// Opener resolves input locations. Local paths are opened directly; az://
// locations are streamed from blob storage when a client is configured.
type Opener struct {
	client *azblob.Client
}

// NewLocalOpener returns an opener that only reads the local filesystem.
func NewLocalOpener() *Opener {
	return &Opener{}
}

// NewOpener builds an opener with blob storage access using a shared key.
func NewOpener(accountName, accountKey string) (*Opener, error) {
	if accountName == "" || accountKey == "" {
		return NewLocalOpener(), nil
	}
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net/", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("azure client: %w", err)
	}
	return &Opener{client: client}, nil
}

// Open returns a reader for location. The caller closes it.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !IsRemote(location) {
		f, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", location, err)
		}
		return f, nil
	}
	if o.client == nil {
		return nil, fmt.Errorf("open %s: %w", location, ErrRemoteNotConfigured)
	}
	container, blob, err := SplitBlobLocation(location)
	if err != nil {
		return nil, err
	}
	resp, err := o.client.DownloadStream(ctx, container, blob, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", location, err)
	}
	return resp.Body, nil
}

// IsRemote reports whether location points at blob storage.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, AzureScheme)
}

// SplitBlobLocation splits az://container/path/to/blob.
func SplitBlobLocation(location string) (container, blob string, err error) {
	rest := strings.TrimPrefix(location, AzureScheme)
	container, blob, ok := strings.Cut(rest, "/")
	if !ok || container == "" || blob == "" {
		return "", "", fmt.Errorf("invalid blob location %q", location)
	}
	return container, blob, nil
}
