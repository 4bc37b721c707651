package feeds

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) FetchFeedXML(ctx context.Context, slug, token string) (string, error) {
	args := m.Called(ctx, slug, token)
	return args.String(0), args.Error(1)
}

type statusError struct {
	code int
}

func (e statusError) Error() string   { return fmt.Sprintf("status %d", e.code) }
func (e statusError) HTTPStatus() int { return e.code }

const sampleDoc = `<rss><channel><title>Sample</title><item><guid>g1</guid></item></channel></rss>`

func TestIngestor_Ingest(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchFeedXML", mock.Anything, "sample", "secret").Return(sampleDoc, nil)

	ingestor := NewIngestor(fetcher, WithClock(func() time.Time { return fixedNow }))
	feed, err := ingestor.Ingest(context.Background(), "sample", "secret", &FeedSummary{Slug: "ignored", ID: 3})

	require.NoError(t, err)
	assert.Equal(t, "sample", feed.Slug)
	assert.Equal(t, int64(3), feed.ID)
	assert.Equal(t, "Sample", feed.Title)
	require.Len(t, feed.Episodes, 1)
	assert.Equal(t, FormatReleasedAt(fixedNow), feed.Episodes[0].ReleasedAt)
	fetcher.AssertExpectations(t)
}

func TestIngestor_FetchErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantStatus   int
		wantTimeout  bool
		wantNotFound bool
	}{
		{name: "upstream 404", err: statusError{code: http.StatusNotFound}, wantStatus: 404, wantNotFound: true},
		{name: "upstream 500", err: fmt.Errorf("fetching: %w", statusError{code: http.StatusInternalServerError}), wantStatus: 500},
		{name: "transport failure", err: errors.New("connection refused")},
		{name: "deadline", err: fmt.Errorf("fetching: %w", context.DeadlineExceeded), wantTimeout: true},
		{
			name:       "already classified",
			err:        FeedUnavailableError{StatusCode: http.StatusForbidden, Err: errors.New("forbidden")},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := new(MockFetcher)
			fetcher.On("FetchFeedXML", mock.Anything, "gone", "").Return("", tt.err)

			feed, err := NewIngestor(fetcher).Ingest(context.Background(), "gone", "", nil)
			require.Error(t, err)
			assert.Nil(t, feed)
			assert.True(t, IsUnavailable(err))
			assert.False(t, IsMalformed(err))
			assert.Equal(t, tt.wantNotFound, errors.Is(err, ErrFeedNotFound))

			var fe FeedUnavailableError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, "gone", fe.Slug)
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
			assert.Equal(t, tt.wantTimeout, fe.Timeout)
		})
	}
}

func TestIngestor_ContextTimeout(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchFeedXML", mock.Anything, "slow", "").
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return("", context.DeadlineExceeded)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := NewIngestor(fetcher).Ingest(ctx, "slow", "", nil)

	var fe FeedUnavailableError
	require.True(t, errors.As(err, &fe))
	assert.True(t, fe.Timeout)
}

func TestIngestor_Malformed(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchFeedXML", mock.Anything, "atom", "").Return(`<feed xmlns="http://www.w3.org/2005/Atom"/>`, nil)

	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()

	_, err := NewIngestor(fetcher, WithCache(cache)).Ingest(context.Background(), "atom", "", nil)

	var mfe MalformedFeedError
	require.True(t, errors.As(err, &mfe))
	assert.Equal(t, "atom", mfe.Slug)
	assert.Equal(t, "atom", mfe.DocumentType)
	assert.Equal(t, 0, cache.Len(), "malformed documents are not cached")
}

func TestIngestor_Cache(t *testing.T) {
	fetcher := new(MockFetcher)
	fetcher.On("FetchFeedXML", mock.Anything, "sample", "").Return(sampleDoc, nil).Once()
	fetcher.On("FetchFeedXML", mock.Anything, "sample", "tok").Return(sampleDoc, nil).Once()

	cache := NewCache(time.Minute, time.Minute)
	defer cache.Stop()
	ingestor := NewIngestor(fetcher, WithCache(cache))
	ctx := context.Background()

	first, err := ingestor.Ingest(ctx, "sample", "", &FeedSummary{Description: "from base"})
	require.NoError(t, err)
	second, err := ingestor.Ingest(ctx, "sample", "", &FeedSummary{Description: "other base"})
	require.NoError(t, err)

	assert.Equal(t, "from base", first.Description)
	assert.Equal(t, "other base", second.Description, "cached document is normalized against the new base")

	// a different token is a different document
	_, err = ingestor.Ingest(ctx, "sample", "tok", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, cache.Len())

	ingestor.Invalidate("sample")
	assert.Equal(t, 0, cache.Len())

	fetcher.AssertExpectations(t)
}
