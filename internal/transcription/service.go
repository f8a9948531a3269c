// Package transcription implements the upload/transcription lifecycle.
//
// A transcription job has no server-side record: its state is derived on
// demand from what exists in the object store. Issuing an upload URL creates
// nothing but the identifier; the audio object is written by the client via
// the presigned URL, and the transcript is written by an external producer.
// This keeps every operation stateless, idempotent, and safely concurrent.
package transcription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/vocalis/service/internal/config"
	"github.com/vocalis/service/internal/storage"
)

// ErrNotFound is returned when a transcription result does not exist yet.
// It deliberately does not distinguish "still processing" from "unknown id" —
// with no job ledger, the two are indistinguishable.
var ErrNotFound = errors.New("transcription not found")

// ErrUnsupportedType is returned when a client requests an upload for a
// content type outside the configured accept list.
var ErrUnsupportedType = errors.New("unsupported content type")

// ErrCorruptResult is returned when a transcript object exists but is not
// valid JSON. The producer writes that object, so this is a data-integrity
// fault outside this service's control.
var ErrCorruptResult = errors.New("transcription result is not valid JSON")

// Status is the derived lifecycle state of a transcription job.
type Status string

const (
	// StatusRequested means the identifier exists but no audio has been uploaded.
	StatusRequested Status = "requested"
	// StatusUploaded means the audio object is present at its upload path.
	StatusUploaded Status = "uploaded"
)

// UploadAuthorization is the result of issuing a presigned upload URL.
type UploadAuthorization struct {
	TranscriptionID string `json:"transcription_id"`
	PresignedURL    string `json:"presigned_url"`
}

// UploadState reports the probed state of an upload.
type UploadState struct {
	TranscriptionID string `json:"transcription_id"`
	Status          Status `json:"status"`
	FileSize        int64  `json:"file_size"`
}

// Service is the lifecycle controller. It holds no mutable state; all
// durable facts live in the object store.
type Service struct {
	store storage.Gateway
	cfg   *config.Config
}

// NewService creates a new transcription Service.
func NewService(store storage.Gateway, cfg *config.Config) *Service {
	return &Service{store: store, cfg: cfg}
}

// IssueUploadAuthorization mints a fresh transcription id and a presigned PUT
// URL for its upload path. contentType may be empty, in which case the
// configured default applies.
func (s *Service) IssueUploadAuthorization(ctx context.Context, identity, contentType string) (*UploadAuthorization, error) {
	if contentType == "" {
		contentType = s.cfg.DefaultContentType
	}
	ext, ok := s.cfg.ContentTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	id := uuid.NewString()
	key := uploadPath(identity, id, ext)

	ctx, cancel := s.storageContext(ctx)
	defer cancel()

	url, err := s.store.PresignedPut(ctx, key, s.cfg.PresignExpiry)
	if err != nil {
		return nil, fmt.Errorf("issue upload authorization: %w", err)
	}

	log.Debug().Str("identity", identity).Str("transcription_id", id).Str("key", key).Msg("issued upload URL")
	return &UploadAuthorization{TranscriptionID: id, PresignedURL: url}, nil
}

// ValidateUpload probes the object store for the audio object belonging to
// (identity, id). A missing object is the normal pre-upload state, reported
// as StatusRequested rather than an error; clients poll this cheaply.
func (s *Service) ValidateUpload(ctx context.Context, identity, id string) (*UploadState, error) {
	ctx, cancel := s.storageContext(ctx)
	defer cancel()

	for _, ext := range s.cfg.Extensions() {
		info, err := s.store.Stat(ctx, uploadPath(identity, id, ext))
		if err != nil {
			return nil, fmt.Errorf("validate upload: %w", err)
		}
		if info.Exists {
			return &UploadState{TranscriptionID: id, Status: StatusUploaded, FileSize: info.Size}, nil
		}
	}
	return &UploadState{TranscriptionID: id, Status: StatusRequested}, nil
}

// GetTranscription fetches the transcript object for (identity, id) and
// returns its JSON content verbatim.
func (s *Service) GetTranscription(ctx context.Context, identity, id string) ([]byte, error) {
	ctx, cancel := s.storageContext(ctx)
	defer cancel()

	data, err := s.store.Fetch(ctx, resultPath(identity, id))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get transcription: %w", err)
	}
	if !json.Valid(data) {
		log.Error().Str("identity", identity).Str("transcription_id", id).Msg("transcript object contains invalid JSON")
		return nil, ErrCorruptResult
	}
	return data, nil
}

// storageContext bounds a storage round trip so a slow backend cannot hang a request.
func (s *Service) storageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.StorageTimeout)
}

// uploadPath derives the audio object key. Keys are always prefixed by the
// identity resolved from the credential, which is what isolates users from
// each other: no input can place one user's object under another's prefix.
func uploadPath(identity, id, ext string) string {
	return fmt.Sprintf("uploads/%s/%s/audio.%s", identity, id, ext)
}

// resultPath derives the transcript object key written by the external producer.
func resultPath(identity, id string) string {
	return fmt.Sprintf("transcriptions/%s/%s/transcript.json", identity, id)
}
