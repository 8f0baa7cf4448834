package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/summarease/summarease/internal/apperr"
	"github.com/summarease/summarease/internal/video"
)

// multipartMemory is how much of an upload is held in memory before the
// multipart reader spills to disk.
const multipartMemory = 32 << 20

// VideoProcessor runs the video pipeline on one upload.
type VideoProcessor interface {
	Process(ctx context.Context, upload io.Reader, filename string) (*video.Result, error)
}

// UploadHandler handles video uploads.
type UploadHandler struct {
	proc VideoProcessor
	log  zerolog.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(proc VideoProcessor, log zerolog.Logger) *UploadHandler {
	return &UploadHandler{
		proc: proc,
		log:  log.With().Str("handler", "upload-video").Logger(),
	}
}

// Upload handles POST /api/upload-video.
// Expects a multipart form with the file in the "video" field.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if bodyTooLarge(r, err) {
			WriteError(w, http.StatusBadRequest, apperr.Validation, "video file too large")
			return
		}
		WriteAppError(w, apperr.Wrap(apperr.Validation, err, "No video file uploaded"), "No video file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("video")
	if err != nil {
		WriteError(w, http.StatusBadRequest, apperr.Validation, "No video file uploaded")
		return
	}
	defer file.Close()

	res, err := h.proc.Process(r.Context(), file, header.Filename)
	if err != nil {
		h.log.Error().Err(err).
			Str("filename", header.Filename).
			Int64("size", header.Size).
			Str("code", string(apperr.CodeOf(err))).
			Msg("video processing failed")
		WriteAppError(w, err, "Failed to process video")
		return
	}

	WriteJSON(w, http.StatusOK, res)
}

// bodyTooLarge reports whether a read failure came from the MaxBytes cap.
// The multipart reader does not always wrap the cause, so the body itself is
// asked again; a capped body keeps returning *http.MaxBytesError.
func bodyTooLarge(r *http.Request, err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	_, rerr := r.Body.Read(make([]byte, 1))
	return errors.As(rerr, &tooLarge)
}
