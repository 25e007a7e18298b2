package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookmodel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
)

type fakeReviewRepo struct {
	reviews map[uuid.UUID]*model.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[uuid.UUID]*model.Review)}
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	for _, rv := range f.reviews {
		if rv.BookID == review.BookID && rv.UserID == review.UserID {
			return model.ErrAlreadyReviewed
		}
	}
	now := time.Now()
	review.CreatedAt = now
	review.UpdatedAt = now
	stored := *review
	f.reviews[review.ID] = &stored
	return nil
}

func (f *fakeReviewRepo) GetOwned(_ context.Context, reviewID, userID uuid.UUID) (*model.Review, error) {
	rv, ok := f.reviews[reviewID]
	if !ok || rv.UserID != userID {
		return nil, model.ErrReviewNotFound
	}
	copied := *rv
	return &copied, nil
}

func (f *fakeReviewRepo) ExistsByBookAndUser(_ context.Context, bookID, userID uuid.UUID) (bool, error) {
	for _, rv := range f.reviews {
		if rv.BookID == bookID && rv.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReviewRepo) ListByBook(_ context.Context, bookID uuid.UUID) ([]model.Review, error) {
	out := []model.Review{}
	for _, rv := range f.reviews {
		if rv.BookID == bookID {
			out = append(out, *rv)
		}
	}
	return out, nil
}

func (f *fakeReviewRepo) Update(_ context.Context, review *model.Review) error {
	rv, ok := f.reviews[review.ID]
	if !ok {
		return model.ErrReviewNotFound
	}
	rv.Rating = review.Rating
	rv.Comment = review.Comment
	rv.UpdatedAt = time.Now()
	return nil
}

func (f *fakeReviewRepo) DeleteOwned(_ context.Context, reviewID, userID uuid.UUID) (*model.Review, error) {
	rv, ok := f.reviews[reviewID]
	if !ok || rv.UserID != userID {
		return nil, model.ErrReviewNotFound
	}
	delete(f.reviews, reviewID)
	return rv, nil
}

type fakeBookRepo struct {
	books map[uuid.UUID]*bookmodel.Book
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: make(map[uuid.UUID]*bookmodel.Book)}
}

func (f *fakeBookRepo) Create(_ context.Context, book *bookmodel.Book) error {
	stored := *book
	f.books[book.ID] = &stored
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uuid.UUID) (*bookmodel.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, bookmodel.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookRepo) ExistsByTuple(_ context.Context, _, _ string, _ time.Time, _ string) (bool, error) {
	return false, nil
}

func (f *fakeBookRepo) List(_ context.Context, _ bookmodel.ListBooksQuery) (*bookmodel.BookListResult, error) {
	return &bookmodel.BookListResult{}, nil
}

func (f *fakeBookRepo) ListByAuthor(_ context.Context, _ string) ([]bookmodel.Book, error) {
	return nil, nil
}

func (f *fakeBookRepo) ListByGenre(_ context.Context, _ string) ([]bookmodel.Book, error) {
	return nil, nil
}

func (f *fakeBookRepo) UpdateReviewAggregate(_ context.Context, bookID uuid.UUID, snapshots []bookmodel.ReviewSnapshot, average float64) error {
	b, ok := f.books[bookID]
	if !ok {
		return bookmodel.ErrBookNotFound
	}
	b.Reviews = snapshots
	b.AverageRatings = average
	return nil
}

func newTestService(t *testing.T) (ReviewService, *fakeReviewRepo, *fakeBookRepo, uuid.UUID) {
	t.Helper()
	reviews := newFakeReviewRepo()
	books := newFakeBookRepo()
	bookID := uuid.New()
	books.books[bookID] = &bookmodel.Book{ID: bookID, Title: "Dune", Reviews: []bookmodel.ReviewSnapshot{}}
	return NewReviewService(reviews, books, nil), reviews, books, bookID
}

func TestAddReviewRatingBoundaries(t *testing.T) {
	svc, _, books, bookID := newTestService(t)
	ctx := context.Background()

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: rating})
		assert.ErrorIs(t, err, model.ErrInvalidRating, "rating %d", rating)
	}
	assert.Empty(t, books.books[bookID].Reviews)

	for _, rating := range []int{1, 5} {
		_, err := svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: rating})
		require.NoError(t, err, "rating %d", rating)
	}
}

func TestAddReviewUnknownBook(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.AddReview(context.Background(), uuid.New(), uuid.New(), &model.ReviewRequest{Rating: 3})
	assert.ErrorIs(t, err, bookmodel.ErrBookNotFound)
}

func TestAddReviewUpdatesAggregate(t *testing.T) {
	svc, _, books, bookID := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: 5, Comment: "great"})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, books.books[bookID].AverageRatings, 1e-9)

	_, err = svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: 3})
	require.NoError(t, err)

	book := books.books[bookID]
	assert.InDelta(t, 4.0, book.AverageRatings, 1e-9)
	assert.Len(t, book.Reviews, 2)
}

func TestAddReviewDuplicateLeavesStateUnchanged(t *testing.T) {
	svc, repo, books, bookID := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.AddReview(ctx, userID, bookID, &model.ReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.AddReview(ctx, userID, bookID, &model.ReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, model.ErrAlreadyReviewed)

	assert.Len(t, repo.reviews, 1)
	book := books.books[bookID]
	assert.InDelta(t, 4.0, book.AverageRatings, 1e-9)
	assert.Len(t, book.Reviews, 1)
}

func TestUpdateReviewRecomputesAverage(t *testing.T) {
	svc, _, books, bookID := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.AddReview(ctx, userID, bookID, &model.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	_, err = svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: 3})
	require.NoError(t, err)

	updated, err := svc.UpdateReview(ctx, userID, created.ID, &model.ReviewRequest{Rating: 1, Comment: "changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)

	assert.InDelta(t, 2.0, books.books[bookID].AverageRatings, 1e-9)
}

func TestUpdateReviewEnforcesOwnership(t *testing.T) {
	svc, _, books, bookID := newTestService(t)
	ctx := context.Background()

	created, err := svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: 5})
	require.NoError(t, err)

	_, err = svc.UpdateReview(ctx, uuid.New(), created.ID, &model.ReviewRequest{Rating: 1})
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
	assert.InDelta(t, 5.0, books.books[bookID].AverageRatings, 1e-9)
}

func TestDeleteReviewSequence(t *testing.T) {
	svc, _, books, bookID := newTestService(t)
	ctx := context.Background()
	firstUser := uuid.New()
	secondUser := uuid.New()

	first, err := svc.AddReview(ctx, firstUser, bookID, &model.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	second, err := svc.AddReview(ctx, secondUser, bookID, &model.ReviewRequest{Rating: 3})
	require.NoError(t, err)
	require.InDelta(t, 4.0, books.books[bookID].AverageRatings, 1e-9)

	require.NoError(t, svc.DeleteReview(ctx, secondUser, second.ID))
	assert.InDelta(t, 5.0, books.books[bookID].AverageRatings, 1e-9)
	assert.Len(t, books.books[bookID].Reviews, 1)

	require.NoError(t, svc.DeleteReview(ctx, firstUser, first.ID))
	assert.InDelta(t, 0.0, books.books[bookID].AverageRatings, 1e-9)
	assert.Empty(t, books.books[bookID].Reviews)
}

func TestDeleteReviewNonOwnerLeavesStateUnchanged(t *testing.T) {
	svc, repo, books, bookID := newTestService(t)
	ctx := context.Background()

	created, err := svc.AddReview(ctx, uuid.New(), bookID, &model.ReviewRequest{Rating: 5})
	require.NoError(t, err)

	err = svc.DeleteReview(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)

	assert.Len(t, repo.reviews, 1)
	assert.InDelta(t, 5.0, books.books[bookID].AverageRatings, 1e-9)
}

func TestAverageStaysMeanOfSnapshots(t *testing.T) {
	svc, _, books, bookID := newTestService(t)
	ctx := context.Background()

	ratings := []int{2, 4, 5, 1, 3}
	ids := make([]uuid.UUID, 0, len(ratings))
	users := make([]uuid.UUID, 0, len(ratings))
	for _, rating := range ratings {
		userID := uuid.New()
		rv, err := svc.AddReview(ctx, userID, bookID, &model.ReviewRequest{Rating: rating})
		require.NoError(t, err)
		ids = append(ids, rv.ID)
		users = append(users, userID)
	}

	checkInvariant := func() {
		book := books.books[bookID]
		if len(book.Reviews) == 0 {
			assert.Zero(t, book.AverageRatings)
			return
		}
		sum := 0
		for _, snap := range book.Reviews {
			sum += snap.Rating
		}
		assert.InDelta(t, float64(sum)/float64(len(book.Reviews)), book.AverageRatings, 1e-9)
	}

	checkInvariant()
	_, err := svc.UpdateReview(ctx, users[0], ids[0], &model.ReviewRequest{Rating: 5})
	require.NoError(t, err)
	checkInvariant()

	for i := range ids {
		require.NoError(t, svc.DeleteReview(ctx, users[i], ids[i]))
		checkInvariant()
	}
}
