package storage

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
)

func TestIsNoSuchKey(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"NoSuchKey code", minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}, true},
		{"plain 404", minio.ErrorResponse{Code: "NotFound", StatusCode: 404}, true},
		{"access denied", minio.ErrorResponse{Code: "AccessDenied", StatusCode: 403}, false},
		{"region redirect", minio.ErrorResponse{Code: "PermanentRedirect", StatusCode: 301}, false},
		{"non-minio error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isNoSuchKey(tt.err); got != tt.want {
				t.Errorf("isNoSuchKey(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
