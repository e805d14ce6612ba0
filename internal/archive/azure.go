// Package archive snapshots mention rows to Azure Blob Storage before they
// are cleared.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// Archiver stores a snapshot of rows and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, rows []domain.BrandMention) (string, error)
}

// blobAPI is the subset of *azblob.Client used here.
type blobAPI interface {
	CreateContainer(ctx context.Context, name string, o *azblob.CreateContainerOptions) (azblob.CreateContainerResponse, error)
	UploadBuffer(ctx context.Context, container, blob string, buf []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// Snapshot is the JSON document written per archive.
type Snapshot struct {
	ArchivedAt time.Time             `json:"archived_at"`
	Count      int                   `json:"count"`
	Mentions   []domain.BrandMention `json:"mentions"`
}

// Blob archives to one container of a storage account.
type Blob struct {
	client    blobAPI
	container string
	now       func() time.Time
}

// NewAzureBlob authenticates with the default Azure credential chain
// (managed identity, environment, CLI) and ensures container exists.
func NewAzureBlob(ctx context.Context, account, container string) (*Blob, error) {
	if account == "" {
		return nil, fmt.Errorf("archive: storage account name is required")
	}
	if container == "" {
		container = "mention-archive"
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("archive: azure credential: %w", err)
	}
	client, err := azblob.NewClient(fmt.Sprintf("https://%s.blob.core.windows.net/", account), cred, nil)
	if err != nil {
		return nil, fmt.Errorf("archive: blob client: %w", err)
	}
	return newBlob(ctx, client, container)
}

func newBlob(ctx context.Context, client blobAPI, container string) (*Blob, error) {
	b := &Blob{client: client, container: container, now: time.Now}
	if _, err := client.CreateContainer(ctx, container, nil); err != nil {
		if !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("archive: create container %s: %w", container, err)
		}
		log.Debug().Str("container", container).Msg("archive container already exists")
	} else {
		log.Info().Str("container", container).Msg("created archive container")
	}
	return b, nil
}

// Archive implements Archiver. The blob name is
// mentions/<UTC timestamp>-<uuid>.json.
func (b *Blob) Archive(ctx context.Context, rows []domain.BrandMention) (string, error) {
	now := b.now().UTC()
	if rows == nil {
		rows = []domain.BrandMention{}
	}
	data, err := json.Marshal(Snapshot{ArchivedAt: now, Count: len(rows), Mentions: rows})
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("mentions/%s-%s.json", now.Format("20060102T150405Z"), uuid.NewString())
	_, err = b.client.UploadBuffer(ctx, b.container, name, data, &azblob.UploadBufferOptions{
		BlockSize:   int64(1024 * 1024),
		Concurrency: 3,
	})
	if err != nil {
		return "", fmt.Errorf("archive: upload %s: %w", name, err)
	}
	log.Info().Str("blob", name).Int("mentions", len(rows)).Msg("archived mentions")
	return b.container + "/" + name, nil
}
