package warning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
	"github.com/turtacn/SeaGuard-Intelligence/pkg/types/maritime"
)

func validWarning() *Warning {
	w := New(SourceCNMSA, "海南海事局", "琼航警0123 南海军事训练", "https://example.com/w/123", "2026-03-01 08:00")
	w.MatchKeywords([]string{"军事训练"})
	w.SetCoordinates([]maritime.GeoPoint{{Lat: 18.2895, Lon: 109.3695}})
	return w
}

func TestNew_SetsIdentityAndTimestamps(t *testing.T) {
	t.Parallel()

	w := New(SourceTWMPB, "航港局", "測試警告", "", "2026-03-01")

	assert.NoError(t, w.ID.Validate())
	assert.Equal(t, SourceTWMPB, w.Source)
	assert.False(t, w.ScrapeTime.IsZero())
	assert.Equal(t, w.CreatedAt, w.UpdatedAt)
	assert.False(t, w.Notified)
	assert.Nil(t, w.NotifiedAt)
}

func TestWarning_Validate(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		mutate   func(w *Warning)
		wantCode errors.ErrorCode
	}{
		{
			name:   "valid warning passes",
			mutate: func(w *Warning) {},
		},
		{
			name:     "empty bureau rejected",
			mutate:   func(w *Warning) { w.Bureau = "  " },
			wantCode: errors.CodeBulletinInvalid,
		},
		{
			name:     "empty title rejected",
			mutate:   func(w *Warning) { w.Title = "" },
			wantCode: errors.CodeBulletinInvalid,
		},
		{
			name:     "unknown source rejected",
			mutate:   func(w *Warning) { w.Source = "JP_JCG" },
			wantCode: errors.CodeSourceUnsupported,
		},
		{
			name: "out of range coordinate rejected",
			mutate: func(w *Warning) {
				w.Coordinates = []maritime.GeoPoint{{Lat: 91, Lon: 0}}
			},
			wantCode: errors.CodeBulletinInvalid,
		},
		{
			name:   "no coordinates is fine",
			mutate: func(w *Warning) { w.Coordinates = nil },
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := validWarning()
			tc.mutate(w)

			err := w.Validate()
			if tc.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, tc.wantCode))
		})
	}
}

func TestSource_CountryAndValidity(t *testing.T) {
	t.Parallel()

	assert.True(t, SourceCNMSA.IsValid())
	assert.True(t, SourceTWMPB.IsValid())
	assert.False(t, Source("XX").IsValid())

	assert.Equal(t, "CN", SourceCNMSA.Country())
	assert.Equal(t, "TW", SourceTWMPB.Country())
	assert.Equal(t, "", Source("XX").Country())
}

func TestWarning_NaturalKey(t *testing.T) {
	t.Parallel()

	a := New(SourceCNMSA, "天津海事局", "津航警001", "", "2026-01-01")
	b := New(SourceCNMSA, "天津海事局", "津航警001", "", "2026-01-01")
	c := New(SourceTWMPB, "天津海事局", "津航警001", "", "2026-01-01")

	assert.Equal(t, a.NaturalKey(), b.NaturalKey())
	assert.NotEqual(t, a.NaturalKey(), c.NaturalKey())
}

func TestWarning_MarkNotified_Idempotent(t *testing.T) {
	t.Parallel()

	w := validWarning()
	first := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	later := first.Add(2 * time.Hour)

	w.MarkNotified(first)
	require.True(t, w.Notified)
	require.NotNil(t, w.NotifiedAt)
	assert.Equal(t, first, *w.NotifiedAt)

	w.MarkNotified(later)
	assert.Equal(t, first, *w.NotifiedAt, "repeated delivery keeps the first timestamp")
}

func TestWarning_SetCoordinates_BumpsUpdatedAt(t *testing.T) {
	t.Parallel()

	w := New(SourceCNMSA, "上海海事局", "沪航警002", "", "2026-02-02")
	before := w.UpdatedAt
	time.Sleep(time.Millisecond)

	w.SetCoordinates([]maritime.GeoPoint{{Lat: 31.2, Lon: 121.5}})

	assert.True(t, w.HasCoordinates())
	assert.True(t, w.UpdatedAt.After(before))
}

func TestNewWarningDetectedEvent_CarriesBulletinFields(t *testing.T) {
	t.Parallel()

	w := validWarning()
	ev := NewWarningDetectedEvent(w)

	assert.Equal(t, w.ID.String(), ev.AggregateID())
	assert.Equal(t, w.Source, ev.Source)
	assert.Equal(t, w.Title, ev.Title)
	assert.Equal(t, 1, ev.CoordinateCount)
}

func TestNewWarningNotifiedEvent(t *testing.T) {
	t.Parallel()

	w := validWarning()
	at := time.Date(2026, 3, 1, 10, 30, 0, 0, time.FixedZone("CST", 8*3600))
	ev := NewWarningNotifiedEvent(w, at)

	assert.Equal(t, w.ID.String(), ev.AggregateID())
	assert.Equal(t, at.UTC(), ev.NotifiedAt)
}
