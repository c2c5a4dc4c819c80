package image

import (
	"errors"
	"io"
)

// ErrNotFound is returned when an image is not found.
var ErrNotFound = errors.New("image not found")

// ErrUpload is returned when a file cannot be pushed to the media store.
var ErrUpload = errors.New("image upload failed")

// ErrDelete is returned when a remote asset cannot be removed.
var ErrDelete = errors.New("image delete failed")

// Image is the local record mirroring a remotely-hosted asset.
type Image struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// File is an uploaded file handed down from the HTTP layer.
type File struct {
	Name    string
	Size    int64
	Content io.Reader
}

// Asset identifies an object stored in the remote media host.
type Asset struct {
	URL      string
	PublicID string
}
