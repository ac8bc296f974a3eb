package application

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrVendorNotFound))
	assert.Equal(t, KindAuthorization, KindOf(fmt.Errorf("update: %w", ErrNotOwner)))
	assert.Equal(t, KindUpstream, KindOf(errors.New("connection reset")))
}

func TestStoreError(t *testing.T) {
	err := storeError(errNotFound(), ErrSubmissionNotFound, "load submission")
	assert.ErrorIs(t, err, ErrSubmissionNotFound)

	cause := errors.New("timeout")
	err = storeError(cause, ErrSubmissionNotFound, "load submission")
	assert.Equal(t, KindUpstream, KindOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to load submission", MessageOf(err))
}

func TestBcryptHasher(t *testing.T) {
	digest, err := testHasher.Hash("s3cret-pass")
	assert.NoError(t, err)
	assert.True(t, testHasher.Verify("s3cret-pass", digest))
	assert.False(t, testHasher.Verify("other", digest))
	assert.False(t, testHasher.Verify("s3cret-pass", ""))
}
