package uploads

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUploads(t *testing.T) *Service {
	t.Helper()
	fs, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	return NewService(fs, "https://cdn.shelf.test")
}

func TestService_Store(t *testing.T) {
	svc := newTestUploads(t)
	ctx := context.Background()

	t.Run("stores an image and returns its URL", func(t *testing.T) {
		res, err := svc.Store(ctx, strings.NewReader("fake png bytes"), "image/png", 14)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Key, "images/"))
		assert.True(t, strings.HasSuffix(res.Key, ".png"))
		assert.Equal(t, "https://cdn.shelf.test/"+res.Key, res.URL)

		rc, err := svc.Open(ctx, res.Key)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "fake png bytes", string(data))
	})

	t.Run("keys are unique per upload", func(t *testing.T) {
		a, err := svc.Store(ctx, strings.NewReader("x"), "image/jpeg", 1)
		require.NoError(t, err)
		b, err := svc.Store(ctx, strings.NewReader("x"), "image/jpeg", 1)
		require.NoError(t, err)
		assert.NotEqual(t, a.Key, b.Key)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		_, err := svc.Store(ctx, strings.NewReader("#!/bin/sh"), "application/x-sh", 9)
		assert.ErrorIs(t, err, ErrUnsupportedType)
	})

	t.Run("rejects oversized uploads", func(t *testing.T) {
		_, err := svc.Store(ctx, strings.NewReader(""), "image/png", MaxUploadBytes+1)
		assert.ErrorIs(t, err, ErrTooLarge)
	})
}

func TestFilesystemStore_RejectsTraversal(t *testing.T) {
	fs, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)

	err = fs.Put(context.Background(), "../escape.txt", strings.NewReader("x"), "text/plain")
	assert.Error(t, err)

	_, err = fs.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}

func TestFilesystemStore_Delete(t *testing.T) {
	fs, err := NewFilesystemStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, fs.Put(ctx, "images/a.png", strings.NewReader("x"), "image/png"))
	require.NoError(t, fs.Delete(ctx, "images/a.png"))
	_, err = fs.Get(ctx, "images/a.png")
	assert.Error(t, err)
}
