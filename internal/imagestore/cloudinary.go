package imagestore

import (
	"context" // Context for upload deadlines
	"errors"  // Error wrapping for API-level failures

	"github.com/cloudinary/cloudinary-go/v2"              // Cloudinary client
	"github.com/cloudinary/cloudinary-go/v2/api"          // API helpers (Bool)
	"github.com/cloudinary/cloudinary-go/v2/api/uploader" // Upload endpoint
)

// Store uploads a local image file into a logical folder and returns its
// public URL. Removing the local temp file afterwards is the caller's job.
type Store interface {
	Upload(ctx context.Context, localPath, folder string) (string, error)
}

// Cloudinary is the production Store backed by the Cloudinary upload API
type Cloudinary struct {
	cld *cloudinary.Cloudinary // Configured Cloudinary client
}

// NewCloudinary builds a client from a CLOUDINARY_URL-style credential string
func NewCloudinary(url string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(url) // Parse credentials and build client
	if err != nil {
		return nil, err // Invalid credential string
	}
	return &Cloudinary{cld: cld}, nil
}

// Upload sends the file at localPath to the given folder and returns the
// hosted URL. File names are kept stable so re-uploads overwrite in place.
func (s *Cloudinary) Upload(ctx context.Context, localPath, folder string) (string, error) {
	resp, err := s.cld.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder:         folder,          // Logical folder namespace
		UseFilename:    api.Bool(true),  // Keep the original file name
		UniqueFilename: api.Bool(false), // No random suffix
	})
	if err != nil {
		return "", err // Transport-level failure
	}
	// The SDK reports API-level failures in the response body, not in err
	if resp.Error.Message != "" {
		return "", errors.New(resp.Error.Message)
	}
	return resp.SecureURL, nil // Public HTTPS URL of the uploaded image
}
