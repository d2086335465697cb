package memory

import (
	"context"
	"time"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/store"
)

// PostStore is an in-memory store.PostStore.
type PostStore struct {
	base
	posts map[string]models.Post
}

// NewPostStore creates an empty post store.
func NewPostStore() *PostStore {
	return &PostStore{posts: make(map[string]models.Post)}
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID == "" {
		post.ID = newID()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	s.posts[post.ID] = *post
	return nil
}

func (s *PostStore) FindByID(ctx context.Context, id string) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *PostStore) List(ctx context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	return out, nil
}

func (s *PostStore) Update(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.posts[post.ID]
	if !ok {
		return store.ErrNotFound
	}
	post.CreatedAt = stored.CreatedAt
	post.UpdatedAt = time.Now()
	s.posts[post.ID] = *post
	return nil
}

func (s *PostStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// AuthorStore is an in-memory store.AuthorStore.
type AuthorStore struct {
	base
	authors map[string]models.Author
}

// NewAuthorStore creates an empty author store.
func NewAuthorStore() *AuthorStore {
	return &AuthorStore{authors: make(map[string]models.Author)}
}

func (s *AuthorStore) Create(ctx context.Context, author *models.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if author.ID == "" {
		author.ID = newID()
	}
	now := time.Now()
	author.CreatedAt = now
	author.UpdatedAt = now
	s.authors[author.ID] = *author
	return nil
}

func (s *AuthorStore) FindByID(ctx context.Context, id string) (*models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.authors[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &a, nil
}

func (s *AuthorStore) List(ctx context.Context) ([]models.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Author, 0, len(s.authors))
	for _, a := range s.authors {
		out = append(out, a)
	}
	return out, nil
}

func (s *AuthorStore) Update(ctx context.Context, author *models.Author) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.authors[author.ID]
	if !ok {
		return store.ErrNotFound
	}
	author.CreatedAt = stored.CreatedAt
	author.UpdatedAt = time.Now()
	s.authors[author.ID] = *author
	return nil
}

func (s *AuthorStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.authors[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.authors, id)
	return nil
}

// BookStore is an in-memory store.BookStore.
type BookStore struct {
	base
	books map[string]models.Book
}

// NewBookStore creates an empty book store.
func NewBookStore() *BookStore {
	return &BookStore{books: make(map[string]models.Book)}
}

func (s *BookStore) Create(ctx context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if book.ID == "" {
		book.ID = newID()
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	s.books[book.ID] = *book
	return nil
}

func (s *BookStore) FindByID(ctx context.Context, id string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &b, nil
}

func (s *BookStore) List(ctx context.Context) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, nil
}

func (s *BookStore) Update(ctx context.Context, book *models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.books[book.ID]
	if !ok {
		return store.ErrNotFound
	}
	book.CreatedAt = stored.CreatedAt
	book.UpdatedAt = time.Now()
	s.books[book.ID] = *book
	return nil
}

func (s *BookStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.books, id)
	return nil
}
