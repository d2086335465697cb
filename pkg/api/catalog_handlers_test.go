package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPosts(t *testing.T) {
	env := newTestEnv(t)

	t.Run("create requires authentication", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts", "", PostRequest{Title: "T", Body: "B"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	var postID string
	t.Run("authenticated create records the author", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts", env.userToken, PostRequest{
			Title: "Hello", Body: "First post",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var post map[string]interface{}
		decode(t, w, &post)
		assert.Equal(t, env.user.ID, post["authorId"])
		postID = post["id"].(string)
	})

	t.Run("reads are public", func(t *testing.T) {
		w := env.do(t, "GET", "/api/posts", "", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/posts/"+postID, "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("create without title gets 400", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts", env.userToken, PostRequest{Body: "no title"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("update", func(t *testing.T) {
		w := env.do(t, "PUT", "/api/posts/"+postID, env.userToken, PostRequest{Title: "Renamed"})
		require.Equal(t, http.StatusOK, w.Code)

		var post map[string]interface{}
		decode(t, w, &post)
		assert.Equal(t, "Renamed", post["title"])
		assert.Equal(t, "First post", post["body"])
	})

	t.Run("delete passes role and permission checks", func(t *testing.T) {
		w := env.do(t, "DELETE", "/api/posts/"+postID, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = env.do(t, "GET", "/api/posts/"+postID, "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("admin role fails the User role gate on delete", func(t *testing.T) {
		w := env.do(t, "POST", "/api/posts", env.userToken, PostRequest{Title: "X", Body: "Y"})
		require.Equal(t, http.StatusCreated, w.Code)
		var post map[string]interface{}
		decode(t, w, &post)

		w = env.do(t, "DELETE", "/api/posts/"+post["id"].(string), env.adminToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAuthorsAndBooks(t *testing.T) {
	env := newTestEnv(t)

	var authorID string
	t.Run("create author", func(t *testing.T) {
		w := env.do(t, "POST", "/api/authors", env.userToken, AuthorRequest{
			Name: "Octavia E. Butler",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var author map[string]interface{}
		decode(t, w, &author)
		authorID = author["id"].(string)
	})

	t.Run("book with unknown author gets 400", func(t *testing.T) {
		w := env.do(t, "POST", "/api/books", env.userToken, BookRequest{
			Title: "Orphan", AuthorID: "no-such-author",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	var bookID string
	t.Run("create book", func(t *testing.T) {
		w := env.do(t, "POST", "/api/books", env.userToken, BookRequest{
			Title: "Kindred", AuthorID: authorID, PublishedYear: 1979,
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var book map[string]interface{}
		decode(t, w, &book)
		bookID = book["id"].(string)
		assert.Equal(t, authorID, book["authorId"])
	})

	t.Run("public reads", func(t *testing.T) {
		for _, path := range []string{"/api/authors", "/api/authors/" + authorID, "/api/books", "/api/books/" + bookID} {
			w := env.do(t, "GET", path, "", nil)
			assert.Equal(t, http.StatusOK, w.Code, "GET %s", path)
		}
	})

	t.Run("missing documents get 404", func(t *testing.T) {
		for _, path := range []string{"/api/authors/ghost", "/api/books/ghost"} {
			w := env.do(t, "GET", path, "", nil)
			assert.Equal(t, http.StatusNotFound, w.Code, "GET %s", path)
			assert.Equal(t, false, errorBody(t, w)["success"])
		}
	})

	t.Run("delete book then author", func(t *testing.T) {
		w := env.do(t, "DELETE", "/api/books/"+bookID, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		w = env.do(t, "DELETE", "/api/authors/"+authorID, env.userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
	})
}
