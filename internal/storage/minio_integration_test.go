//go:build integration
// +build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/linskybing/rfp-portal/internal/domain/attachment"
	"github.com/linskybing/rfp-portal/internal/storage"
	"github.com/linskybing/rfp-portal/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinioStore_PutAndDelete(t *testing.T) {
	ep, cleanup := testutils.SetupMinioForIntegration()
	defer cleanup()

	ctx := context.Background()
	store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
		Endpoint:  ep.Endpoint,
		AccessKey: ep.AccessKey,
		SecretKey: ep.SecretKey,
		Bucket:    "rfp-test",
	})
	require.NoError(t, err)

	att, err := store.Put(ctx, storage.PrefixPricing, attachment.Upload{
		FileName:    "pricing.csv",
		ContentType: "text/csv",
		Data:        []byte("tier,price\nbase,100\n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pricing.csv", att.FileName)
	assert.Contains(t, att.URL, "/rfp-test/pricing/")

	assert.NoError(t, store.Delete(ctx, att.StorageID))
}
