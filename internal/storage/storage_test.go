package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := objectName(PrefixPricing, "../../Price Sheet.pdf")
	assert.True(t, strings.HasPrefix(name, "pricing/"))
	assert.True(t, strings.HasSuffix(name, "-Price_Sheet.pdf"))
	assert.NotContains(t, name, "..")

	assert.True(t, strings.HasSuffix(objectName(PrefixNDA, ""), "-document"))
	assert.NotEqual(t, objectName(PrefixNDA, "a.pdf"), objectName(PrefixNDA, "a.pdf"))
}

func TestObjectURL(t *testing.T) {
	cfg := MinioConfig{Endpoint: "minio:9000", Bucket: "rfp"}
	assert.Equal(t, "http://minio:9000/rfp/nda/x.pdf", cfg.objectURL("nda/x.pdf"))

	cfg.UseSSL = true
	assert.Equal(t, "https://minio:9000/rfp/nda/x.pdf", cfg.objectURL("nda/x.pdf"))

	cfg.PublicURL = "https://files.example.com/rfp/"
	assert.Equal(t, "https://files.example.com/rfp/nda/x.pdf", cfg.objectURL("nda/x.pdf"))
}

func TestMemoryStore_PutAndDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	att, err := store.Put(ctx, PrefixNDA, attachment.Upload{FileName: "nda.pdf", Data: []byte("%PDF")})
	require.NoError(t, err)
	assert.Equal(t, "nda.pdf", att.FileName)
	assert.Equal(t, "memory://"+att.StorageID, att.URL)

	data, ok := store.Get(att.StorageID)
	require.True(t, ok)
	assert.Equal(t, []byte("%PDF"), data)

	require.NoError(t, store.Delete(ctx, att.StorageID))
	_, ok = store.Get(att.StorageID)
	assert.False(t, ok)
}

func TestMemoryStore_RejectsEmptyUpload(t *testing.T) {
	_, err := NewMemoryStore().Put(context.Background(), PrefixNDA, attachment.Upload{FileName: "empty.pdf"})
	assert.Error(t, err)
}
