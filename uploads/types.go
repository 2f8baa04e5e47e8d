package uploads

import "github.com/chatstack/uploads-service/services"

// Chunk uploads identify themselves through headers; the body is the raw
// chunk bytes.
const (
	HeaderUploadID   = "x-upload-id"
	HeaderObjectName = "x-object-name"
	HeaderPartNumber = "x-part-number"
)

type InitRequest struct {
	Filename    string `json:"filename" example:"report.pdf"`
	ContentType string `json:"contentType,omitempty" example:"application/pdf"`
}

type InitResponse struct {
	UploadID   string `json:"uploadId" example:"1724830000000-9f1c2d3e"`
	ObjectName string `json:"objectName" example:"1724830000000-report.pdf"`
}

type ChunkResponse struct {
	ETag       string `json:"etag" example:"d41d8cd98f00b204e9800998ecf8427e"`
	PartNumber int    `json:"partNumber" example:"1"`
}

type CompleteRequest struct {
	UploadID   string          `json:"uploadId" example:"1724830000000-9f1c2d3e"`
	ObjectName string          `json:"objectName" example:"1724830000000-report.pdf"`
	Parts      []services.Part `json:"parts"`
}

type CompleteResponse struct {
	URL      string `json:"url" example:"https://storage.example.com/ai-chatbot/1724830000000-report.pdf?X-Expires=86400"`
	Pathname string `json:"pathname" example:"1724830000000-report.pdf"`
}

type AbortRequest struct {
	UploadID string `json:"uploadId" example:"1724830000000-9f1c2d3e"`
}

type AbortResponse struct {
	UploadID string `json:"uploadId" example:"1724830000000-9f1c2d3e"`
	Removed  int    `json:"removed" example:"3"`
}
