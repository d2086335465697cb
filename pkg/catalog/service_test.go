package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/pkg/store/memory"
)

func newTestCatalog() *Service {
	stores := memory.NewStores()
	return NewService(stores.Posts, stores.Authors, stores.Books)
}

func TestService_Posts(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	post, err := svc.CreatePost(ctx, "user-1", "First post", "hello", "")
	require.NoError(t, err)
	require.NotEmpty(t, post.ID)
	assert.Equal(t, "user-1", post.AuthorID)

	got, err := svc.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "First post", got.Title)

	updated, err := svc.UpdatePost(ctx, post.ID, "Renamed", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "hello", updated.Body, "empty fields leave stored values alone")

	posts, err := svc.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	require.NoError(t, svc.DeletePost(ctx, post.ID))
	_, err = svc.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID), ErrNotFound)
}

func TestService_Authors(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	author, err := svc.CreateAuthor(ctx, "Ursula K. Le Guin", "", "")
	require.NoError(t, err)
	require.NotEmpty(t, author.ID)

	updated, err := svc.UpdateAuthor(ctx, author.ID, "", "Science fiction author", "")
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", updated.Name)
	assert.Equal(t, "Science fiction author", updated.Bio)

	_, err = svc.GetAuthor(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Books(t *testing.T) {
	svc := newTestCatalog()
	ctx := context.Background()

	author, err := svc.CreateAuthor(ctx, "Ursula K. Le Guin", "", "")
	require.NoError(t, err)

	t.Run("rejects unknown author reference", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, "Orphan", "no-such-author", "", "", 0)
		assert.ErrorIs(t, err, ErrAuthorMissing)
	})

	book, err := svc.CreateBook(ctx, "The Dispossessed", author.ID, "", "", 1974)
	require.NoError(t, err)
	require.NotEmpty(t, book.ID)

	t.Run("update keeps author when omitted", func(t *testing.T) {
		updated, err := svc.UpdateBook(ctx, book.ID, "", "", "An ambiguous utopia", "", 0)
		require.NoError(t, err)
		assert.Equal(t, author.ID, updated.AuthorID)
		assert.Equal(t, 1974, updated.PublishedYear)
	})

	t.Run("update rejects unknown author", func(t *testing.T) {
		_, err := svc.UpdateBook(ctx, book.ID, "", "ghost", "", "", 0)
		assert.ErrorIs(t, err, ErrAuthorMissing)
	})

	books, err := svc.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 1)

	require.NoError(t, svc.DeleteBook(ctx, book.ID))
	_, err = svc.GetBook(ctx, book.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
