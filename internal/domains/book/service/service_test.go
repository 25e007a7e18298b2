package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/domains/book/model"
)

type fakeBookRepo struct {
	books      map[uuid.UUID]*model.Book
	getByIDHit int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*model.Book)}
}

func (f *fakeBookRepo) Create(_ context.Context, book *model.Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Book, error) {
	f.getByIDHit++
	b, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookRepo) ExistsByTuple(_ context.Context, title, author string, publishedDate time.Time, genre string) (bool, error) {
	for _, b := range f.books {
		if b.Title == title && b.Author == author && b.Genre == genre && b.PublishedDate.Equal(publishedDate) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookRepo) List(_ context.Context, query model.ListBooksQuery) (*model.BookListResult, error) {
	out := []model.Book{}
	for _, b := range f.books {
		out = append(out, *b)
	}
	total := int64(len(out))
	offset := query.Offset()
	if offset > len(out) {
		offset = len(out)
	}
	end := offset + query.Limit
	if end > len(out) {
		end = len(out)
	}
	return &model.BookListResult{Books: out[offset:end], Total: total}, nil
}

func (f *fakeBookRepo) ListByAuthor(_ context.Context, author string) ([]model.Book, error) {
	out := []model.Book{}
	for _, b := range f.books {
		if b.Author == author {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookRepo) ListByGenre(_ context.Context, genre string) ([]model.Book, error) {
	out := []model.Book{}
	for _, b := range f.books {
		if b.Genre == genre {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookRepo) UpdateReviewAggregate(_ context.Context, bookID uuid.UUID, snapshots []model.ReviewSnapshot, average float64) error {
	b, ok := f.books[bookID]
	if !ok {
		return model.ErrBookNotFound
	}
	b.Reviews = snapshots
	b.AverageRatings = average
	return nil
}

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := f.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func (f *fakeCache) Ping(_ context.Context) error { return nil }

func validCreateRequest() *model.CreateBookRequest {
	return &model.CreateBookRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		Description:   "Desert planet",
		Genre:         "Sci-Fi",
		PublishedDate: "1965-08-01",
	}
}

func TestCreateBook(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, nil)

	book, err := svc.CreateBook(context.Background(), uuid.New(), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "Dune", book.Title)
	assert.Zero(t, book.AverageRatings)
	assert.Empty(t, book.Reviews)
	assert.Len(t, repo.books, 1)
}

func TestCreateBookDuplicateTuple(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, nil)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.CreateBook(ctx, userID, validCreateRequest())
	require.NoError(t, err)

	_, err = svc.CreateBook(ctx, userID, validCreateRequest())
	assert.ErrorIs(t, err, model.ErrBookAlreadyExists)
	assert.Len(t, repo.books, 1)

	// Any differing field makes it a distinct book.
	req := validCreateRequest()
	req.PublishedDate = "1966-08-01"
	_, err = svc.CreateBook(ctx, userID, req)
	require.NoError(t, err)
	assert.Len(t, repo.books, 2)
}

func TestCreateBookValidation(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), nil)
	ctx := context.Background()

	req := validCreateRequest()
	req.Title = ""
	_, err := svc.CreateBook(ctx, uuid.New(), req)
	assert.Error(t, err)

	req = validCreateRequest()
	req.PublishedDate = "not-a-date"
	_, err = svc.CreateBook(ctx, uuid.New(), req)
	assert.Error(t, err)
}

func TestGetBookByIDUsesCache(t *testing.T) {
	repo := newFakeBookRepo()
	c := newFakeCache()
	svc := NewBookService(repo, c)
	ctx := context.Background()

	book, err := svc.CreateBook(ctx, uuid.New(), validCreateRequest())
	require.NoError(t, err)

	first, err := svc.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	require.Equal(t, 1, repo.getByIDHit)

	second, err := svc.GetBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getByIDHit, "second read should come from cache")
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Title, second.Title)
}

func TestGetBookByIDNotFound(t *testing.T) {
	svc := NewBookService(newFakeBookRepo(), nil)

	_, err := svc.GetBookByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestListByAuthorEmptyIsNotFound(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, nil)
	ctx := context.Background()

	_, err := svc.ListByAuthor(ctx, "Nobody")
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = svc.ListByGenre(ctx, "Unknown")
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	_, err = svc.CreateBook(ctx, uuid.New(), validCreateRequest())
	require.NoError(t, err)

	books, err := svc.ListByAuthor(ctx, "Frank Herbert")
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestListBooksPaginationNormalized(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewBookService(repo, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		req := validCreateRequest()
		req.Title = req.Title + string(rune('A'+i))
		_, err := svc.CreateBook(ctx, uuid.New(), req)
		require.NoError(t, err)
	}

	result, err := svc.ListBooks(ctx, model.ListBooksQuery{Page: 0, Limit: -5})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Total)
	assert.Len(t, result.Books, 3)

	result, err = svc.ListBooks(ctx, model.ListBooksQuery{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result.Books, 1)
}
