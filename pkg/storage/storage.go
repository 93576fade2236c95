// Package storage abstracts where attachment bytes live. The lifecycle
// engine only ever sees "save bytes, get a stable reference back" and
// "turn a reference into a browsable URL"; whether that is the local
// disk or a GCS bucket is decided here from the environment.
package storage

import (
	"context"
	"io"
	"os"
	"strings"
)

// Store is the attachment capability handed to the lifecycle engine.
type Store interface {
	// Save persists the content and returns a stable reference. kind
	// groups files ("photos", "documents") within the backend.
	Save(ctx context.Context, kind, originalName string, content io.Reader) (string, error)

	// ResolveURL turns a stored reference into a browsable URL. A
	// reference that is already absolute passes through unchanged;
	// everything else is prefixed with the store's base.
	ResolveURL(reference string) string
}

// FromEnv picks the backend the same way deployments signal it: GCS in
// production (Cloud Run sets K_SERVICE, credentials imply a bucket),
// local disk otherwise.
func FromEnv(ctx context.Context) (Store, error) {
	useGCS := os.Getenv("USE_GCS") == "true" ||
		os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "" ||
		os.Getenv("K_SERVICE") != ""

	if useGCS {
		return NewGCSStore(ctx, os.Getenv("GCS_BUCKET"))
	}

	dir := os.Getenv("UPLOAD_DIR")
	if dir == "" {
		dir = "./uploads"
	}
	return NewLocalStore(dir, os.Getenv("UPLOAD_BASE_URL")), nil
}

// resolveWithBase applies the shared resolution rule: absolute URLs
// pass through, relative references get the base prefixed. Legacy
// references stored as "uploads/..." resolve the same way as new ones.
func resolveWithBase(base, reference string) string {
	if reference == "" {
		return ""
	}
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return reference
	}
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(reference, "/") {
		reference = "/" + reference
	}
	return base + reference
}
