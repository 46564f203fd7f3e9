package contenthash

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveIsDeterministic(t *testing.T) {
	asset := ports.ModelAsset{
		FileName:    "weights.bin",
		ContentType: "application/octet-stream",
		Content:     []byte("model-weights"),
		Description: "tiny model",
	}

	first, err := Resolver{}.Resolve(context.Background(), asset)
	require.NoError(t, err)
	second, err := Resolver{}.Resolve(context.Background(), asset)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, strings.HasPrefix(first, Scheme))
	assert.Len(t, strings.TrimPrefix(first, Scheme), 64)
	assert.Empty(t, entities.GatewayURL(first, "https://ipfs.io/ipfs/"))

	asset.Description = "other"
	third, err := Resolver{}.Resolve(context.Background(), asset)
	require.NoError(t, err)
	assert.NotEqual(t, first, third)
}

func TestResolveWritesMetadataDocument(t *testing.T) {
	dir := t.TempDir()
	content := []byte("model-weights")

	uri, err := Resolver{Dir: dir}.Resolve(context.Background(), ports.ModelAsset{
		ContentType: "application/octet-stream",
		Content:     content,
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(uri, Scheme)))
	require.NoError(t, err)

	var metadata entities.ModelMetadata
	require.NoError(t, json.Unmarshal(raw, &metadata))
	assert.Equal(t, "AI Model", metadata.Name)
	assert.Equal(t, "Decentralized AI Model NFT", metadata.Description)
	assert.Equal(t, URI(Digest(content)), metadata.Image)
	assert.Equal(t, len(content), metadata.Properties.FileSize)

	stored, err := os.ReadFile(filepath.Join(dir, Digest(content)))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestResolveRejectsEmptyAsset(t *testing.T) {
	_, err := Resolver{}.Resolve(context.Background(), ports.ModelAsset{FileName: "empty.bin"})
	require.Error(t, err)
}
