// Package contenthash resolves model assets to content-addressed URIs
// locally, without a pinning service. Digests are BLAKE2b-256 and URIs use
// the blake2b:// scheme, since they are not IPFS CIDs.
package contenthash

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"

	"golang.org/x/crypto/blake2b"
)

// Resolver hashes the file, builds the metadata document around the file
// URI and returns the URI of the metadata. When Dir is set both blobs are
// written there under their digest.
type Resolver struct {
	Dir    string
	Logger *slog.Logger
}

func (r Resolver) Resolve(ctx context.Context, asset ports.ModelAsset) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(asset.Content) == 0 {
		return "", fmt.Errorf("asset %q is empty", asset.FileName)
	}

	fileDigest, err := r.store(asset.Content)
	if err != nil {
		return "", err
	}
	metadata := entities.NewModelMetadata(
		asset.FileName,
		asset.Description,
		asset.ContentType,
		len(asset.Content),
		URI(fileDigest),
	)
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	metadataDigest, err := r.store(raw)
	if err != nil {
		return "", err
	}

	application.ResolveLogger(r.Logger).Debug("model content hashed",
		"event", "contenthash_resolved",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"file_digest", fileDigest,
		"metadata_digest", metadataDigest,
	)
	return URI(metadataDigest), nil
}

const Scheme = "blake2b://"

func URI(digest string) string {
	return Scheme + strings.TrimSpace(digest)
}

// Digest returns the hex BLAKE2b-256 digest of content.
func Digest(content []byte) string {
	sum := blake2b.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func (r Resolver) store(content []byte) (string, error) {
	digest := Digest(content)
	if r.Dir == "" {
		return digest, nil
	}
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create content dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(r.Dir, digest), content, 0o644); err != nil {
		return "", fmt.Errorf("write content %s: %w", digest, err)
	}
	return digest, nil
}
