package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/openshelf/openshelf/pkg/models"
	"github.com/openshelf/openshelf/pkg/observability"
	"github.com/openshelf/openshelf/pkg/store"
)

// PostStore implements store.PostStore on MongoDB.
type PostStore struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewPostStore creates a post store on the given database.
func NewPostStore(db *mongo.Database, metrics *observability.Metrics) *PostStore {
	return &PostStore{coll: db.Collection(postsCollection), metrics: metrics}
}

func (s *PostStore) Create(ctx context.Context, post *models.Post) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, postsCollection, "create", start, err) }()

	if post.ID == "" {
		post.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	_, err = s.coll.InsertOne(ctx, post)
	return err
}

func (s *PostStore) FindByID(ctx context.Context, id string) (post *models.Post, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, postsCollection, "find_by_id", start, err) }()

	var p models.Post
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostStore) List(ctx context.Context) (posts []models.Post, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, postsCollection, "list", start, err) }()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts = []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *PostStore) Update(ctx context.Context, post *models.Post) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, postsCollection, "update", start, err) }()

	post.UpdatedAt = time.Now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": post.ID}, bson.M{"$set": bson.M{
		"title":     post.Title,
		"body":      post.Body,
		"imageUrl":  post.ImageURL,
		"updatedAt": post.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *PostStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, postsCollection, "delete", start, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// AuthorStore implements store.AuthorStore on MongoDB.
type AuthorStore struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewAuthorStore creates an author store on the given database.
func NewAuthorStore(db *mongo.Database, metrics *observability.Metrics) *AuthorStore {
	return &AuthorStore{coll: db.Collection(authorsCollection), metrics: metrics}
}

func (s *AuthorStore) Create(ctx context.Context, author *models.Author) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, authorsCollection, "create", start, err) }()

	if author.ID == "" {
		author.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	author.CreatedAt = now
	author.UpdatedAt = now
	_, err = s.coll.InsertOne(ctx, author)
	return err
}

func (s *AuthorStore) FindByID(ctx context.Context, id string) (author *models.Author, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, authorsCollection, "find_by_id", start, err) }()

	var a models.Author
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AuthorStore) List(ctx context.Context) (authors []models.Author, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, authorsCollection, "list", start, err) }()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	authors = []models.Author{}
	if err = cursor.All(ctx, &authors); err != nil {
		return nil, err
	}
	return authors, nil
}

func (s *AuthorStore) Update(ctx context.Context, author *models.Author) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, authorsCollection, "update", start, err) }()

	author.UpdatedAt = time.Now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": author.ID}, bson.M{"$set": bson.M{
		"name":      author.Name,
		"bio":       author.Bio,
		"photoUrl":  author.PhotoURL,
		"updatedAt": author.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *AuthorStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, authorsCollection, "delete", start, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// BookStore implements store.BookStore on MongoDB.
type BookStore struct {
	coll    *mongo.Collection
	metrics *observability.Metrics
}

// NewBookStore creates a book store on the given database.
func NewBookStore(db *mongo.Database, metrics *observability.Metrics) *BookStore {
	return &BookStore{coll: db.Collection(booksCollection), metrics: metrics}
}

func (s *BookStore) Create(ctx context.Context, book *models.Book) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, booksCollection, "create", start, err) }()

	if book.ID == "" {
		book.ID = primitive.NewObjectID().Hex()
	}
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	_, err = s.coll.InsertOne(ctx, book)
	return err
}

func (s *BookStore) FindByID(ctx context.Context, id string) (book *models.Book, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, booksCollection, "find_by_id", start, err) }()

	var b models.Book
	err = s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BookStore) List(ctx context.Context) (books []models.Book, err error) {
	start := time.Now()
	defer func() { observe(s.metrics, booksCollection, "list", start, err) }()

	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	books = []models.Book{}
	if err = cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (s *BookStore) Update(ctx context.Context, book *models.Book) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, booksCollection, "update", start, err) }()

	book.UpdatedAt = time.Now()
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": book.ID}, bson.M{"$set": bson.M{
		"title":         book.Title,
		"authorId":      book.AuthorID,
		"summary":       book.Summary,
		"coverUrl":      book.CoverURL,
		"publishedYear": book.PublishedYear,
		"updatedAt":     book.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *BookStore) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { observe(s.metrics, booksCollection, "delete", start, err) }()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
