package transcription

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vocalis/service/internal/middleware"
	"github.com/vocalis/service/internal/response"
	"github.com/vocalis/service/internal/storage"
)

// Handler holds HTTP handlers for the transcription lifecycle endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new transcription Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// IssueUploadURL godoc
//
//	@Summary		Request a presigned upload URL
//	@Description	Mints a fresh transcription id and a time-limited URL for uploading one audio file.
//	@Tags			uploads
//	@Produce		json
//	@Security		BearerAuth
//	@Param			username		query		string	false	"Must match the identity of the API key when present"
//	@Param			content_type	query		string	false	"Upload content type (default audio/mpeg)"
//	@Success		200				{object}	UploadAuthorization
//	@Failure		400				{object}	response.ErrorBody
//	@Failure		401				{object}	response.ErrorBody
//	@Failure		403				{object}	response.ErrorBody
//	@Failure		503				{object}	response.ErrorBody
//	@Router			/v1/uploads/presigned-url [post]
func (h *Handler) IssueUploadURL(w http.ResponseWriter, r *http.Request) {
	identity, ok := authorized(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	auth, err := h.svc.IssueUploadAuthorization(r.Context(), identity, r.URL.Query().Get("content_type"))
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			response.BadRequest(w, err.Error())
			return
		}
		writeStorageError(w, err)
		return
	}

	response.OK(w, auth)
}

// ValidateUpload godoc
//
//	@Summary		Check whether an upload has arrived
//	@Description	Metadata-only probe of the audio object; safe to poll. A missing object reports status "requested".
//	@Tags			uploads
//	@Produce		json
//	@Security		BearerAuth
//	@Param			username			query		string	true	"Must match the identity of the API key"
//	@Param			transcription_id	query		string	true	"Identifier returned by the presigned-url endpoint"
//	@Success		200					{object}	UploadState
//	@Failure		400					{object}	response.ErrorBody
//	@Failure		401					{object}	response.ErrorBody
//	@Failure		403					{object}	response.ErrorBody
//	@Failure		503					{object}	response.ErrorBody
//	@Router			/v1/uploads/validate [get]
func (h *Handler) ValidateUpload(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	id := r.URL.Query().Get("transcription_id")
	if username == "" || id == "" {
		response.BadRequest(w, "missing required query parameters: username, transcription_id")
		return
	}

	identity, ok := authorized(w, r, username)
	if !ok {
		return
	}

	state, err := h.svc.ValidateUpload(r.Context(), identity, id)
	if err != nil {
		writeStorageError(w, err)
		return
	}

	response.OK(w, state)
}

// GetTranscription godoc
//
//	@Summary		Retrieve a transcription result
//	@Description	Returns the transcript JSON produced for the given id. 404 until the external producer has written it.
//	@Tags			transcriptions
//	@Produce		json
//	@Security		BearerAuth
//	@Param			transcription_id	path		string	true	"Transcription identifier"
//	@Param			username			query		string	false	"Must match the identity of the API key when present"
//	@Success		200					{object}	object
//	@Failure		401					{object}	response.ErrorBody
//	@Failure		403					{object}	response.ErrorBody
//	@Failure		404					{object}	response.ErrorBody
//	@Failure		503					{object}	response.ErrorBody
//	@Router			/v1/transcriptions/{transcription_id} [get]
func (h *Handler) GetTranscription(w http.ResponseWriter, r *http.Request) {
	identity, ok := authorized(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	id := chi.URLParam(r, "transcription_id")
	if id == "" {
		response.BadRequest(w, "missing transcription_id")
		return
	}

	content, err := h.svc.GetTranscription(r.Context(), identity, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "transcription not available yet or unknown id")
		case errors.Is(err, ErrCorruptResult):
			response.InternalError(w)
		default:
			writeStorageError(w, err)
		}
		return
	}

	response.Raw(w, content)
}

// authorized extracts the authenticated identity and, when the client asserts
// a username, verifies it matches. The credential is authoritative: a
// mismatch is 403 regardless of whether the asserted name is a real user.
func authorized(w http.ResponseWriter, r *http.Request, assertedUsername string) (string, bool) {
	identity, ok := middleware.Identity(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return "", false
	}
	if assertedUsername != "" && assertedUsername != identity {
		response.Forbidden(w, "provided username does not match authenticated API key")
		return "", false
	}
	return identity, true
}

// writeStorageError maps backend failures onto the retryable 503 surface.
func writeStorageError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrUnavailable) {
		response.Unavailable(w, "object storage unavailable, retry later")
		return
	}
	response.InternalError(w)
}
