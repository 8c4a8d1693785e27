package checkout

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadhn26/DelingKopi/internal/models"
)

// allowedProofTypes is the accepted payment proof image set.
var allowedProofTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ProofUpload is an uploaded payment proof as it arrives from the multipart
// form. A nil Content means no file was submitted.
type ProofUpload struct {
	Content     io.Reader
	Filename    string
	ContentType string
}

// ProofStore persists payment proof images on disk.
type ProofStore struct {
	dir      string
	maxBytes int64
}

// NewProofStore creates a proof store rooted at dir.
func NewProofStore(dir string, maxUploadMB int) *ProofStore {
	if maxUploadMB <= 0 {
		maxUploadMB = 8
	}
	return &ProofStore{
		dir:      dir,
		maxBytes: int64(maxUploadMB) << 20,
	}
}

// Save validates and stores a proof upload, returning the stored path. The
// stored name is generated server-side and the extension comes from the
// whitelisted content type; the client filename is discarded.
func (p *ProofStore) Save(upload ProofUpload) (string, error) {
	if upload.Content == nil {
		return "", models.ErrPaymentProofMissing
	}

	ext, ok := allowedProofTypes[upload.ContentType]
	if !ok {
		return "", models.UnsupportedProofFormatError{ContentType: upload.ContentType}
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.NewString(), ext)
	path := filepath.Join(p.dir, name)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create proof file: %w", err)
	}

	// Read one byte past the cap so an oversize upload is detected and
	// rejected rather than silently truncated.
	written, err := io.Copy(file, io.LimitReader(upload.Content, p.maxBytes+1))
	closeErr := file.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to store proof file: %w", err)
	}
	if written > p.maxBytes {
		os.Remove(path)
		return "", models.ValidationError{
			Field:   "payment_proof",
			Message: fmt.Sprintf("file exceeds the %d MB limit", p.maxBytes>>20),
		}
	}

	return path, nil
}

// Remove deletes a stored proof. Used when the checkout transaction aborts
// after the upload was already written.
func (p *ProofStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
