package imagestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/angelmondragon/dentio-backend/pkg/errors"
	"github.com/google/uuid"
)

// StoredImage is the durable location and lookup token of a relocated file.
type StoredImage struct {
	Path           string `json:"path"`
	ReferenceToken string `json:"reference_token"`
}

// DiskStore keeps visit images on the local filesystem under a per-patient
// directory. It is the durable side of the intake-to-storage move; swapping
// in an object store only needs this type replaced.
type DiskStore struct {
	root string
}

// NewDiskStore builds a store rooted at the durable patients directory.
func NewDiskStore(root string) (*DiskStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("storage root required")
	}
	return &DiskStore{root: root}, nil
}

// Store writes contents to the patient's directory under a collision-free name
// and returns the path plus a generated reference token.
func (s *DiskStore) Store(ctx context.Context, patientID uuid.UUID, fileName string, contents io.Reader) (StoredImage, error) {
	if patientID == uuid.Nil {
		return StoredImage{}, pkgerrors.New(pkgerrors.CodeValidation, "patient id required")
	}
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}

	dir := filepath.Join(s.root, patientID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredImage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create patient directory")
	}

	token := "IMG-" + uuid.NewString()
	target := filepath.Join(dir, token+sanitizeExt(fileName))

	out, err := os.Create(target)
	if err != nil {
		return StoredImage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create image file")
	}
	if _, err := io.Copy(out, contents); err != nil {
		out.Close()
		_ = os.Remove(target)
		return StoredImage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "write image file")
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(target)
		return StoredImage{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close image file")
	}

	return StoredImage{Path: target, ReferenceToken: token}, nil
}

// Remove deletes a previously stored file. Missing files are not an error.
func (s *DiskStore) Remove(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func sanitizeExt(fileName string) string {
	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
