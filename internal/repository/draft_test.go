package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/draft"
	"github.com/linskybing/rfp-portal/internal/recordstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftRepo_FindByOwnerNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftRepo(recordstore.NewMemoryStore(), 100)

	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	old := &draft.Draft{VendorID: "recA", FormData: json.RawMessage(`{"v":1}`), LastSaved: base, Status: draft.StatusDraft}
	recent := &draft.Draft{VendorID: "recA", FormData: json.RawMessage(`{"v":2}`), LastSaved: base.Add(time.Hour), Status: draft.StatusDraft}
	foreign := &draft.Draft{VendorID: "recB", FormData: json.RawMessage(`{}`), LastSaved: base, Status: draft.StatusDraft}
	require.NoError(t, repo.Create(ctx, recent))
	require.NoError(t, repo.Create(ctx, old))
	require.NoError(t, repo.Create(ctx, foreign))

	owned, err := repo.FindByOwner(ctx, "recA")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, recent.ID, owned[0].ID)
	assert.JSONEq(t, `{"v":2}`, string(owned[0].FormData))
}

func TestDraftRepo_UpdateKeepsVendorLink(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftRepo(recordstore.NewMemoryStore(), 100)

	d := &draft.Draft{VendorID: "recA", FormData: json.RawMessage(`{"v":1}`), LastSaved: time.Now().UTC()}
	require.NoError(t, repo.Create(ctx, d))

	d.FormData = json.RawMessage(`{"v":3}`)
	d.VendorID = ""
	require.NoError(t, repo.Update(ctx, d))

	owned, err := repo.FindByOwner(ctx, "recA")
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.JSONEq(t, `{"v":3}`, string(owned[0].FormData))
}
