package types

import "time"

// Image is the struct that represents an image in the store and on the
// snapshot filesystem.
type Image struct {
	// Id is the unique identifier of the image, e.g. "img_123". It is
	// expected to be unique across all images in the store.
	Id string

	// Source is the origin the image was created from: a local directory
	// path (init) or a "name:tag" reference (pull).
	Source string

	// Timestamp is the time the image was created in the store.
	Timestamp time.Time
}
