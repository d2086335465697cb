// Package catalog provides the content services: blog posts, book
// authors, and books. The services validate input and translate store
// sentinels; authorization happens in the middleware chain before a
// request reaches them.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/store"
)

// ErrNotFound is returned for any missing catalog document.
var ErrNotFound = errors.New("not found")

// ErrAuthorMissing is returned when a book references an author that
// does not exist.
var ErrAuthorMissing = errors.New("author does not exist")

// Service exposes CRUD over the catalog stores.
type Service struct {
	posts   store.PostStore
	authors store.AuthorStore
	books   store.BookStore
}

// NewService bundles the catalog stores into a service.
func NewService(posts store.PostStore, authors store.AuthorStore, books store.BookStore) *Service {
	return &Service{posts: posts, authors: authors, books: books}
}

// CreatePost stores a new post owned by authorID, the authenticated
// user's ID.
func (s *Service) CreatePost(ctx context.Context, authorID, title, body, imageURL string) (*models.Post, error) {
	post := &models.Post{
		Title:    title,
		Body:     body,
		AuthorID: authorID,
		ImageURL: imageURL,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}
	return post, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up post: %w", err)
	}
	return post, nil
}

func (s *Service) ListPosts(ctx context.Context) ([]models.Post, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}
	return posts, nil
}

// UpdatePost applies non-empty fields onto the stored post. Ownership
// is not checked here; routes gate updates by role.
func (s *Service) UpdatePost(ctx context.Context, id, title, body, imageURL string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up post: %w", err)
	}

	if title != "" {
		post.Title = title
	}
	if body != "" {
		post.Body = body
	}
	if imageURL != "" {
		post.ImageURL = imageURL
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}
	return post, nil
}

func (s *Service) DeletePost(ctx context.Context, id string) error {
	err := s.posts.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	return nil
}

func (s *Service) CreateAuthor(ctx context.Context, name, bio, photoURL string) (*models.Author, error) {
	author := &models.Author{Name: name, Bio: bio, PhotoURL: photoURL}
	if err := s.authors.Create(ctx, author); err != nil {
		return nil, fmt.Errorf("creating author: %w", err)
	}
	return author, nil
}

func (s *Service) GetAuthor(ctx context.Context, id string) (*models.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up author: %w", err)
	}
	return author, nil
}

func (s *Service) ListAuthors(ctx context.Context) ([]models.Author, error) {
	authors, err := s.authors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing authors: %w", err)
	}
	return authors, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id, name, bio, photoURL string) (*models.Author, error) {
	author, err := s.authors.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up author: %w", err)
	}

	if name != "" {
		author.Name = name
	}
	if bio != "" {
		author.Bio = bio
	}
	if photoURL != "" {
		author.PhotoURL = photoURL
	}
	if err := s.authors.Update(ctx, author); err != nil {
		return nil, fmt.Errorf("updating author: %w", err)
	}
	return author, nil
}

func (s *Service) DeleteAuthor(ctx context.Context, id string) error {
	err := s.authors.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting author: %w", err)
	}
	return nil
}

// CreateBook stores a new book after confirming the referenced author
// exists.
func (s *Service) CreateBook(ctx context.Context, title, authorID, summary, coverURL string, publishedYear int) (*models.Book, error) {
	if _, err := s.authors.FindByID(ctx, authorID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAuthorMissing
		}
		return nil, fmt.Errorf("looking up author: %w", err)
	}

	book := &models.Book{
		Title:         title,
		AuthorID:      authorID,
		Summary:       summary,
		CoverURL:      coverURL,
		PublishedYear: publishedYear,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, fmt.Errorf("creating book: %w", err)
	}
	return book, nil
}

func (s *Service) GetBook(ctx context.Context, id string) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up book: %w", err)
	}
	return book, nil
}

func (s *Service) ListBooks(ctx context.Context) ([]models.Book, error) {
	books, err := s.books.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

func (s *Service) UpdateBook(ctx context.Context, id, title, authorID, summary, coverURL string, publishedYear int) (*models.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("looking up book: %w", err)
	}

	if authorID != "" && authorID != book.AuthorID {
		if _, err := s.authors.FindByID(ctx, authorID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, ErrAuthorMissing
			}
			return nil, fmt.Errorf("looking up author: %w", err)
		}
		book.AuthorID = authorID
	}
	if title != "" {
		book.Title = title
	}
	if summary != "" {
		book.Summary = summary
	}
	if coverURL != "" {
		book.CoverURL = coverURL
	}
	if publishedYear != 0 {
		book.PublishedYear = publishedYear
	}
	if err := s.books.Update(ctx, book); err != nil {
		return nil, fmt.Errorf("updating book: %w", err)
	}
	return book, nil
}

func (s *Service) DeleteBook(ctx context.Context, id string) error {
	err := s.books.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	return nil
}
