// Package storage holds uploaded vendor documents (NDAs, pricing sheets).
package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/linskybing/rfp-portal/internal/domain/attachment"
)

// Well-known object prefixes.
const (
	PrefixNDA     = "nda"
	PrefixPricing = "pricing"
)

type DocumentStore interface {
	Put(ctx context.Context, prefix string, upload attachment.Upload) (attachment.Attachment, error)
	Delete(ctx context.Context, storageID string) error
}

// objectName builds "<prefix>/<uuid>-<file>" so repeated uploads of the same
// file name never collide.
func objectName(prefix, fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%s/%s-%s", strings.Trim(prefix, "/"), uuid.NewString(), base)
}

// MemoryStore keeps documents in process. It backs local runs without MinIO.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, prefix string, upload attachment.Upload) (attachment.Attachment, error) {
	if len(upload.Data) == 0 {
		return attachment.Attachment{}, fmt.Errorf("empty upload %q", upload.FileName)
	}
	name := objectName(prefix, upload.FileName)

	s.mu.Lock()
	s.objects[name] = append([]byte(nil), upload.Data...)
	s.mu.Unlock()

	return attachment.Attachment{
		FileName:  upload.FileName,
		URL:       "memory://" + name,
		StorageID: name,
	}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, storageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageID)
	return nil
}

// Get returns a stored object's bytes.
func (s *MemoryStore) Get(storageID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[storageID]
	return data, ok
}
