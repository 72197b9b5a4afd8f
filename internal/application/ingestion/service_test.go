package ingestion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/keyword"
	"github.com/turtacn/SeaGuard-Intelligence/internal/domain/warning"
	"github.com/turtacn/SeaGuard-Intelligence/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/common"
)

// mockWarningRepository is a mock implementation of warning.Repository.
type mockWarningRepository struct {
	mock.Mock
}

func (m *mockWarningRepository) Save(ctx context.Context, w *warning.Warning) (*warning.SaveResult, error) {
	args := m.Called(ctx, w)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warning.SaveResult), args.Error(1)
}

func (m *mockWarningRepository) GetByID(ctx context.Context, id common.ID) (*warning.Warning, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warning.Warning), args.Error(1)
}

func (m *mockWarningRepository) List(ctx context.Context, filter warning.ListFilter) ([]*warning.Warning, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*warning.Warning), args.Get(1).(int64), args.Error(2)
}

func (m *mockWarningRepository) FindUnnotified(ctx context.Context, source warning.Source) ([]*warning.Warning, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warning.Warning), args.Error(1)
}

func (m *mockWarningRepository) FindWithCoordinates(ctx context.Context, source warning.Source) ([]*warning.Warning, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*warning.Warning), args.Error(1)
}

func (m *mockWarningRepository) MarkNotified(ctx context.Context, id common.ID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockWarningRepository) Statistics(ctx context.Context) (*warning.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*warning.Statistics), args.Error(1)
}

func (m *mockWarningRepository) CleanupOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// mockPublisher is a mock implementation of EventPublisher.
type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishWarningDetected(ctx context.Context, evt *warning.WarningDetectedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

func newTestService(repo warning.Repository, pub EventPublisher) Service {
	return NewService(repo, keyword.NewMatcher(nil), pub, nil, Options{}, logging.NewNopLogger())
}

func matchedBulletin() Bulletin {
	return Bulletin{
		Source:      warning.SourceCNMSA,
		Bureau:      "海南海事局",
		Title:       "南海部分海域军事训练",
		Link:        "/xxgk/123.html",
		PublishTime: "2026-08-20",
		BodyText:    "危险区域 18-17.37N 109-22.17E 附近",
	}
}

func TestIngest_NoKeywordMatch(t *testing.T) {
	repo := new(mockWarningRepository)
	svc := newTestService(repo, nil)

	b := matchedBulletin()
	b.Title = "港口设施例行维护通知"

	res, err := svc.Ingest(context.Background(), b)

	require.NoError(t, err)
	assert.False(t, res.Matched)
	assert.Nil(t, res.Warning)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestIngest_MatchedStoresAndPublishes(t *testing.T) {
	repo := new(mockWarningRepository)
	pub := new(mockPublisher)
	svc := newTestService(repo, pub)

	savedID := common.NewID()
	repo.On("Save", mock.Anything, mock.AnythingOfType("*warning.Warning")).
		Return(&warning.SaveResult{ID: savedID, IsNew: true}, nil)
	pub.On("PublishWarningDetected", mock.Anything, mock.AnythingOfType("*warning.WarningDetectedEvent")).
		Return(nil)

	res, err := svc.Ingest(context.Background(), matchedBulletin())

	require.NoError(t, err)
	assert.True(t, res.Matched)
	assert.True(t, res.IsNew)
	assert.Contains(t, res.MatchedKeywords, "军事训练")
	require.NotNil(t, res.Warning)
	assert.Equal(t, savedID, res.Warning.ID)

	require.Len(t, res.Coordinates, 1)
	assert.InDelta(t, 18.2895, res.Coordinates[0].Lat, 1e-4)
	assert.InDelta(t, 109.3695, res.Coordinates[0].Lon, 1e-4)

	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestIngest_DuplicateSkipsPublish(t *testing.T) {
	repo := new(mockWarningRepository)
	pub := new(mockPublisher)
	svc := newTestService(repo, pub)

	repo.On("Save", mock.Anything, mock.Anything).
		Return(&warning.SaveResult{ID: common.NewID(), IsNew: false, CoordinatesBackfilled: true}, nil)

	res, err := svc.Ingest(context.Background(), matchedBulletin())

	require.NoError(t, err)
	assert.False(t, res.IsNew)
	assert.True(t, res.CoordinatesBackfilled)
	pub.AssertNotCalled(t, "PublishWarningDetected", mock.Anything, mock.Anything)
}

func TestIngest_PublishFailureDoesNotFailIngest(t *testing.T) {
	repo := new(mockWarningRepository)
	pub := new(mockPublisher)
	svc := newTestService(repo, pub)

	repo.On("Save", mock.Anything, mock.Anything).
		Return(&warning.SaveResult{ID: common.NewID(), IsNew: true}, nil)
	pub.On("PublishWarningDetected", mock.Anything, mock.Anything).
		Return(pkgerrors.New(pkgerrors.CodeMessageQueueError, "broker down"))

	res, err := svc.Ingest(context.Background(), matchedBulletin())

	require.NoError(t, err)
	assert.True(t, res.IsNew)
}

func TestIngest_SaveErrorPropagates(t *testing.T) {
	repo := new(mockWarningRepository)
	svc := newTestService(repo, nil)

	repo.On("Save", mock.Anything, mock.Anything).
		Return(nil, pkgerrors.New(pkgerrors.CodeWarningSaveFailed, "insert failed"))

	_, err := svc.Ingest(context.Background(), matchedBulletin())

	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeWarningSaveFailed))
}

func TestIngest_InvalidBulletin(t *testing.T) {
	svc := newTestService(new(mockWarningRepository), nil)

	tests := []struct {
		name   string
		mutate func(*Bulletin)
		code   pkgerrors.ErrorCode
	}{
		{"unknown source", func(b *Bulletin) { b.Source = "XX_UNKNOWN" }, pkgerrors.CodeSourceUnsupported},
		{"missing bureau", func(b *Bulletin) { b.Bureau = "" }, pkgerrors.CodeBulletinInvalid},
		{"missing title", func(b *Bulletin) { b.Title = "" }, pkgerrors.CodeBulletinInvalid},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			b := matchedBulletin()
			tc.mutate(&b)
			_, err := svc.Ingest(context.Background(), b)
			require.Error(t, err)
			assert.True(t, pkgerrors.IsCode(err, tc.code))
		})
	}
}

func TestIngest_ScrapedAtOverridesScrapeTime(t *testing.T) {
	repo := new(mockWarningRepository)
	svc := newTestService(repo, nil)

	scraped := time.Date(2026, 8, 20, 6, 30, 0, 0, time.UTC)
	var captured *warning.Warning
	repo.On("Save", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { captured = args.Get(1).(*warning.Warning) }).
		Return(&warning.SaveResult{ID: common.NewID(), IsNew: true}, nil)

	b := matchedBulletin()
	b.ScrapedAt = scraped
	_, err := svc.Ingest(context.Background(), b)

	require.NoError(t, err)
	require.NotNil(t, captured)
	assert.Equal(t, scraped, captured.ScrapeTime)
}

func TestExtract_Pipeline(t *testing.T) {
	svc := newTestService(new(mockWarningRepository), nil)

	// Two mentions of the same position and one null-island point.
	text := "18-17.37N 109-22.17E 附近以及 18.2895N 109.3695E 另有 0.001N 0.001E"
	res, err := svc.Extract(context.Background(), ExtractInput{Text: text})

	require.NoError(t, err)
	assert.Equal(t, 3, res.RawMatches)
	assert.Equal(t, 1, res.Rejected)
	assert.Equal(t, 1, res.Merged)
	require.Len(t, res.Points, 1)
	assert.InDelta(t, 18.2895, res.Points[0].Lat, 1e-3)
}

func TestExtract_EmptyText(t *testing.T) {
	svc := newTestService(new(mockWarningRepository), nil)

	_, err := svc.Extract(context.Background(), ExtractInput{Text: "   "})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeInvalidParam))
}

func TestExtract_ThresholdControlsMerging(t *testing.T) {
	svc := newTestService(new(mockWarningRepository), nil)

	// Roughly 15 km apart on the same meridian.
	text := "18.0N 109.0E 以及 18.135N 109.0E"

	res, err := svc.Extract(context.Background(), ExtractInput{Text: text, ThresholdKm: 1})
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)

	res, err = svc.Extract(context.Background(), ExtractInput{Text: text, ThresholdKm: 20})
	require.NoError(t, err)
	assert.Len(t, res.Points, 1)
}
