package application

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/linskybing/rfp-portal/internal/domain/draft"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/linskybing/rfp-portal/internal/recordstore"
	"github.com/linskybing/rfp-portal/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveDraft_KeepsOneDraftPerVendor(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)
	other := env.seedVendor(t, vendor.StatusApproved)

	_, err := env.svc.Draft.Save(ctx, other.ID, json.RawMessage(`{"step":1}`))
	require.NoError(t, err)

	var firstID string
	for i := 1; i <= 5; i++ {
		res, err := env.svc.Draft.Save(ctx, v.ID, json.RawMessage(fmt.Sprintf(`{"step":%d}`, i)))
		require.NoError(t, err)
		if firstID == "" {
			firstID = res.DraftID
		}
		assert.Equal(t, firstID, res.DraftID)
	}

	owned, err := env.repos.Draft.FindByOwner(ctx, v.ID)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.JSONEq(t, `{"step":5}`, string(owned[0].FormData))
	assert.Equal(t, draft.StatusDraft, owned[0].Status)
	assert.Equal(t, 2, env.store.Len(repository.DraftsTable))
}

func TestSaveDraft_RejectsBadPayload(t *testing.T) {
	env := setupMemoryServices(t)
	v := env.seedVendor(t, vendor.StatusApproved)

	for _, payload := range []string{"", "null", "{not json"} {
		_, err := env.svc.Draft.Save(context.Background(), v.ID, json.RawMessage(payload))
		assert.Equal(t, KindValidation, KindOf(err), "payload %q", payload)
	}
}

func TestLoadDraft_NoDraftIsNotAnError(t *testing.T) {
	env := setupMemoryServices(t)
	v := env.seedVendor(t, vendor.StatusApproved)

	loaded, err := env.svc.Draft.Load(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Draft)
	assert.Equal(t, v.ID, loaded.Vendor.ID)
	assert.Equal(t, v.CompanyName, loaded.Vendor.CompanyName)
}

func TestLoadDraft_ProfileIsReadFresh(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	_, err := env.store.Update(ctx, repository.VendorsTable, v.ID, recordstore.Fields{"Company Name": "Renamed Co"})
	require.NoError(t, err)

	loaded, err := env.svc.Draft.Load(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Co", loaded.Vendor.CompanyName)
}

func TestLoadDraft_PicksMostRecentDuplicate(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)

	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := &draft.Draft{VendorID: v.ID, FormData: json.RawMessage(`{"n":2}`), LastSaved: base.Add(time.Hour), Status: draft.StatusDraft}
	older := &draft.Draft{VendorID: v.ID, FormData: json.RawMessage(`{"n":1}`), LastSaved: base, Status: draft.StatusDraft}
	require.NoError(t, env.repos.Draft.Create(ctx, newer))
	require.NoError(t, env.repos.Draft.Create(ctx, older))

	loaded, err := env.svc.Draft.Load(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.Draft)
	assert.Equal(t, newer.ID, loaded.Draft.ID)
}

func TestLoadDraft_UnknownVendor(t *testing.T) {
	env := setupMemoryServices(t)

	_, err := env.svc.Draft.Load(context.Background(), "recNope")
	assert.ErrorIs(t, err, ErrVendorNotFound)
}

func TestDeleteDraft_RemovesEveryMatch(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()
	v := env.seedVendor(t, vendor.StatusApproved)
	other := env.seedVendor(t, vendor.StatusApproved)

	for i := 0; i < 2; i++ {
		d := &draft.Draft{VendorID: v.ID, FormData: json.RawMessage(`{}`), LastSaved: time.Now().UTC()}
		require.NoError(t, env.repos.Draft.Create(ctx, d))
	}
	_, err := env.svc.Draft.Save(ctx, other.ID, json.RawMessage(`{}`))
	require.NoError(t, err)

	n, err := env.svc.Draft.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = env.svc.Draft.Delete(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 1, env.store.Len(repository.DraftsTable))
}

func TestSweepDrafts_RemovesOnlyStale(t *testing.T) {
	env := setupMemoryServices(t)
	ctx := context.Background()

	now := time.Now().UTC()
	stale := &draft.Draft{VendorID: "recA", FormData: json.RawMessage(`{}`), LastSaved: now.Add(-31 * 24 * time.Hour)}
	fresh := &draft.Draft{VendorID: "recB", FormData: json.RawMessage(`{}`), LastSaved: now.Add(-24 * time.Hour)}
	require.NoError(t, env.repos.Draft.Create(ctx, stale))
	require.NoError(t, env.repos.Draft.Create(ctx, fresh))

	svc := NewDraftService(Deps{Repos: env.repos, Logger: quietLogger()})
	n, err := svc.Sweep(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	remaining, err := env.repos.Draft.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, fresh.ID, remaining[0].ID)
}
