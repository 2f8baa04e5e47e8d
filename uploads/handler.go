package uploads

import (
	cerr "errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chatstack/uploads-service/internal/errors"
	"github.com/chatstack/uploads-service/services"
)

type UploadsHandler struct {
	sessionService  services.SessionService
	uploadService   services.UploadService
	finalizeService services.FinalizeService
}

func NewUploadsHandler(
	sessionService services.SessionService,
	uploadService services.UploadService,
	finalizeService services.FinalizeService,
) *UploadsHandler {
	return &UploadsHandler{
		sessionService:  sessionService,
		uploadService:   uploadService,
		finalizeService: finalizeService,
	}
}

// Init godoc
//
//	@Summary		Initialize upload session
//	@Description	Allocate a unique upload session ID and final object name
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		InitRequest		true	"Filename and optional content type"
//	@Success		200		{object}	InitResponse	"Session allocated"
//	@Failure		400		{object}	errors.HTTPError	"Missing filename"
//	@Failure		500		{object}	errors.HTTPError	"Store error"
//	@Router			/upload/init [post]
func (h *UploadsHandler) Init(c *gin.Context) {
	var req InitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequestResponse(c, "invalid request body")
		return
	}

	res, err := h.sessionService.Init(c.Request.Context(), req.Filename, req.ContentType)
	if err != nil {
		if cerr.Is(err, errors.ErrMissingFilename) {
			errors.BadRequestResponse(c, err.Error())
			return
		}
		errors.InternalServerErrorResponse(c, "failed to initialize upload")
		return
	}

	c.JSON(http.StatusOK, InitResponse{
		UploadID:   res.UploadID,
		ObjectName: res.ObjectName,
	})
}

// Chunk godoc
//
//	@Summary		Upload one chunk
//	@Description	Store one chunk of an upload session as a temporary object
//	@Tags			uploads
//	@Accept			octet-stream
//	@Produce		json
//	@Param			x-upload-id		header		string			true	"Upload session ID"
//	@Param			x-object-name	header		string			true	"Final object name"
//	@Param			x-part-number	header		int				true	"Part number, starting at 1"
//	@Success		200				{object}	ChunkResponse	"Chunk stored"
//	@Failure		400				{object}	errors.HTTPError	"Missing or invalid header"
//	@Failure		500				{object}	errors.HTTPError	"Store error"
//	@Router			/upload/chunk [post]
func (h *UploadsHandler) Chunk(c *gin.Context) {
	uploadID := c.GetHeader(HeaderUploadID)
	objectName := c.GetHeader(HeaderObjectName)
	partNumberStr := c.GetHeader(HeaderPartNumber)

	if uploadID == "" || objectName == "" || partNumberStr == "" {
		errors.BadRequestResponse(c, "missing required headers")
		return
	}

	partNumber, err := strconv.Atoi(partNumberStr)
	if err != nil || partNumber < 1 {
		errors.BadRequestResponse(c, "part number must be a positive integer")
		return
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		errors.BadRequestResponse(c, "failed to read chunk data")
		return
	}
	if len(data) == 0 {
		errors.BadRequestResponse(c, "no chunk binary data")
		return
	}

	res, err := h.uploadService.PutChunk(c.Request.Context(), uploadID, objectName, partNumber, data)
	if err != nil {
		errors.InternalServerErrorResponse(c, "failed to upload chunk")
		return
	}

	c.JSON(http.StatusOK, ChunkResponse{
		ETag:       res.ETag,
		PartNumber: res.PartNumber,
	})
}

// Complete godoc
//
//	@Summary		Finalize upload
//	@Description	Compose all chunks into the final object and return its retrieval URL
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CompleteRequest		true	"Session identifiers and part list"
//	@Success		200		{object}	CompleteResponse	"Upload finalized"
//	@Failure		400		{object}	errors.HTTPError	"Missing field or bad part set"
//	@Failure		500		{object}	errors.HTTPError	"Store error"
//	@Router			/upload/complete [post]
func (h *UploadsHandler) Complete(c *gin.Context) {
	var req CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequestResponse(c, "invalid request body")
		return
	}

	if req.UploadID == "" || req.ObjectName == "" || len(req.Parts) == 0 {
		errors.BadRequestResponse(c, "missing required fields")
		return
	}

	res, err := h.finalizeService.Complete(c.Request.Context(), req.UploadID, req.ObjectName, req.Parts)
	if err != nil {
		if cerr.Is(err, errors.ErrBadPartSet) || cerr.Is(err, errors.ErrEmptyPartSet) {
			errors.BadRequestResponse(c, err.Error())
			return
		}
		errors.InternalServerErrorResponse(c, "failed to complete upload")
		return
	}

	c.JSON(http.StatusOK, CompleteResponse{
		URL:      res.URL,
		Pathname: res.Pathname,
	})
}

// Abort godoc
//
//	@Summary		Abort upload
//	@Description	Delete every temporary chunk object of an upload session
//	@Tags			uploads
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AbortRequest	true	"Session ID"
//	@Success		200		{object}	AbortResponse	"Session cleaned up"
//	@Failure		400		{object}	errors.HTTPError	"Missing upload ID"
//	@Failure		500		{object}	errors.HTTPError	"Store error"
//	@Router			/upload/abort [post]
func (h *UploadsHandler) Abort(c *gin.Context) {
	var req AbortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errors.BadRequestResponse(c, "invalid request body")
		return
	}

	if req.UploadID == "" {
		errors.BadRequestResponse(c, "missing upload id")
		return
	}

	removed, err := h.sessionService.Abort(c.Request.Context(), req.UploadID)
	if err != nil {
		errors.InternalServerErrorResponse(c, "failed to abort upload")
		return
	}

	c.JSON(http.StatusOK, AbortResponse{
		UploadID: req.UploadID,
		Removed:  removed,
	})
}
