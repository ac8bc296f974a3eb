package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/linskybing/rfp-portal/internal/bootstrap"
	"github.com/linskybing/rfp-portal/internal/config"
	"github.com/linskybing/rfp-portal/internal/domain/vendor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func memoryApp(t *testing.T) (*bootstrap.App, appLoader) {
	t.Helper()
	cfg := &config.Config{
		StoreDriver:     "memory",
		RecordScanLimit: 1000,
		JwtSecret:       "test-secret",
		Issuer:          "test",
		TokenTTL:        time.Hour,
		DraftRetention:  720 * time.Hour,
		WebhookTimeout:  time.Second,
	}
	app, err := bootstrap.New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return app, func(context.Context) (*bootstrap.App, error) { return app, nil }
}

func run(t *testing.T, load appLoader, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(load)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPassword(t *testing.T) {
	t.Run("from argument", func(t *testing.T) {
		out, err := run(t, nil, "", "hash-password", "--cost", "4", "s3cret-pass")
		require.NoError(t, err)
		digest := strings.TrimSpace(out)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(digest), []byte("s3cret-pass")))
	})

	t.Run("from stdin", func(t *testing.T) {
		out, err := run(t, nil, "piped-pass\n", "hash-password", "--cost", "4")
		require.NoError(t, err)
		digest := strings.TrimSpace(out)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(digest), []byte("piped-pass")))
	})

	t.Run("empty stdin", func(t *testing.T) {
		_, err := run(t, nil, "", "hash-password")
		assert.Error(t, err)
	})
}

func TestSweepDrafts(t *testing.T) {
	app, load := memoryApp(t)
	ctx := context.Background()

	_, err := app.Services.Draft.Save(ctx, "recVendorA", json.RawMessage(`{"step":1}`))
	require.NoError(t, err)

	out, err := run(t, load, "", "sweep-drafts")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 0 stale draft(s)")

	time.Sleep(5 * time.Millisecond)
	out, err = run(t, load, "", "sweep-drafts", "--retention", "1ms")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted 1 stale draft(s)")

	_, err = run(t, load, "", "sweep-drafts", "--retention", "-1h")
	assert.Error(t, err)
}

func TestResolveEmail(t *testing.T) {
	app, load := memoryApp(t)
	ctx := context.Background()

	out, err := run(t, load, "", "resolve-email", "nobody@example.test")
	require.NoError(t, err)
	assert.Equal(t, "nobody@example.test\tNEW\n", out)

	v, err := app.Services.Identity.Register(ctx, vendor.RegisterInput{
		CompanyName: "Acme Health",
		ContactName: "Jane Doe",
		Email:       "jane@acme.test",
		Password:    "s3cret-pass",
	}, nil)
	require.NoError(t, err)

	out, err = run(t, load, "", "resolve-email", "  JANE@acme.test ")
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.test\tPENDING\t"+v.ID+"\tAcme Health\n", out)
}
