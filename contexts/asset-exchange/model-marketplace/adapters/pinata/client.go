// Package pinata resolves model assets by pinning them on the Pinata IPFS
// pinning service: the file first, then a metadata document pointing at it.
package pinata

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	application "aimarket/contexts/asset-exchange/model-marketplace/application"
	"aimarket/contexts/asset-exchange/model-marketplace/domain/entities"
	"aimarket/contexts/asset-exchange/model-marketplace/ports"
)

const (
	DefaultBaseURL = "https://api.pinata.cloud/pinning"
	defaultTimeout = 60 * time.Second
)

var ErrMissingJWT = errors.New("pinata jwt is required")

type Client struct {
	baseURL string
	jwt     string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.http = httpClient
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func New(baseURL string, jwt string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(jwt) == "" {
		return nil, ErrMissingJWT
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		baseURL: baseURL,
		jwt:     strings.TrimSpace(jwt),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	client.logger = application.ResolveLogger(client.logger)
	return client, nil
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

func (c *Client) Resolve(ctx context.Context, asset ports.ModelAsset) (string, error) {
	if len(asset.Content) == 0 {
		return "", fmt.Errorf("asset %q is empty", asset.FileName)
	}

	fileHash, err := c.pinFile(ctx, asset)
	if err != nil {
		return "", err
	}
	metadata := entities.NewModelMetadata(
		asset.FileName,
		asset.Description,
		asset.ContentType,
		len(asset.Content),
		entities.IPFSURI(fileHash),
	)
	metadataHash, err := c.pinJSON(ctx, metadata)
	if err != nil {
		return "", err
	}

	c.logger.Info("model pinned",
		"event", "pinata_model_pinned",
		"module", "asset-exchange/model-marketplace",
		"layer", "adapter",
		"file_cid", fileHash,
		"metadata_cid", metadataHash,
	)
	return entities.IPFSURI(metadataHash), nil
}

func (c *Client) pinFile(ctx context.Context, asset ports.ModelAsset) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fileName := asset.FileName
	if fileName == "" {
		fileName = "model.bin"
	}
	contentType := asset.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(asset.Content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	return c.post(ctx, "/pinFileToIPFS", writer.FormDataContentType(), &body)
}

func (c *Client) pinJSON(ctx context.Context, metadata entities.ModelMetadata) (string, error) {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return c.post(ctx, "/pinJSONToIPFS", "application/json", bytes.NewReader(raw))
}

func (c *Client) post(ctx context.Context, path string, contentType string, body io.Reader) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return "", fmt.Errorf("create pinata request %s: %w", path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("pinata %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("pinata %s: status %d: %s", path, resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var decoded pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode pinata %s response: %w", path, err)
	}
	if decoded.IpfsHash == "" {
		return "", fmt.Errorf("pinata %s: empty IpfsHash", path)
	}
	return decoded.IpfsHash, nil
}

var _ ports.ContentResolver = (*Client)(nil)
