// Package id provides unique identifier generation for playback tasks.
package id

import "github.com/google/uuid"

// Generate creates a new unique playback task ID.
// Format: play-<uuid>
// Example: play-3f2b8c1e-9a4d-4c7e-8b1f-2d6e5a7c9b0f
func Generate() string {
	return "play-" + uuid.NewString()
}
