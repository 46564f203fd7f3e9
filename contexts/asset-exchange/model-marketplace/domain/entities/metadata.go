package entities

import "strings"

const (
	defaultModelName        = "AI Model"
	defaultModelDescription = "Decentralized AI Model NFT"
)

// ModelMetadata is the JSON document a token's content URI points at. The
// model file itself is referenced through Image.
type ModelMetadata struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       string             `json:"image"`
	Properties  MetadataProperties `json:"properties"`
}

type MetadataProperties struct {
	FileType string `json:"fileType"`
	FileSize int    `json:"fileSize"`
}

// NewModelMetadata describes an uploaded file already stored at fileURI.
func NewModelMetadata(fileName, description, contentType string, size int, fileURI string) ModelMetadata {
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = defaultModelName
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = defaultModelDescription
	}
	return ModelMetadata{
		Name:        name,
		Description: description,
		Image:       fileURI,
		Properties: MetadataProperties{
			FileType: contentType,
			FileSize: size,
		},
	}
}

// IPFSURI formats a content identifier as an ipfs:// URI.
func IPFSURI(cid string) string {
	return "ipfs://" + strings.TrimSpace(cid)
}

// GatewayURL rewrites an ipfs:// URI onto an HTTP gateway prefix. http(s)
// URIs are returned unchanged; any other scheme has no HTTP location and
// yields "".
func GatewayURL(contentURI string, gateway string) string {
	rest, ok := strings.CutPrefix(contentURI, "ipfs://")
	if !ok {
		if strings.HasPrefix(contentURI, "https://") || strings.HasPrefix(contentURI, "http://") {
			return contentURI
		}
		return ""
	}
	if gateway == "" {
		return contentURI
	}
	if !strings.HasSuffix(gateway, "/") {
		gateway += "/"
	}
	return gateway + rest
}
