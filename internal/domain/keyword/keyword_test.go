package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/SeaGuard-Intelligence/pkg/errors"
)

func TestNewMatcher_EmptyListUsesDefaults(t *testing.T) {
	t.Parallel()

	m := NewMatcher(nil)
	assert.Equal(t, len(DefaultKeywords()), m.Len())
	assert.True(t, m.Matches("琼航警0123 南海军事训练"))
}

func TestMatcher_Match(t *testing.T) {
	t.Parallel()

	m := NewMatcher(nil)

	testCases := []struct {
		name  string
		title string
		want  []string
	}{
		{
			name:  "chinese keyword",
			title: "琼航警0123 实弹射击 禁止驶入",
			want:  []string{"实弹射击"},
		},
		{
			name:  "english keyword case folded",
			title: "NAVAREA XI warning: live firing in progress",
			want:  []string{"LIVE FIRING"},
		},
		{
			name:  "multiple hits preserve watch order",
			title: "军事演习期间划定禁航区",
			want:  []string{"军事演习", "禁航区"},
		},
		{
			name:  "no hit",
			title: "港口航道疏浚通告",
			want:  nil,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, m.Match(tc.title))
		})
	}
}

func TestMatcher_AddRemoveUpdate(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"GUNNERY"})

	require.NoError(t, m.Add("漁船作業"))
	assert.Equal(t, 2, m.Len())

	err := m.Add("gunnery")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeKeywordExists), "duplicate check is case-insensitive")

	err = m.Add("   ")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidParam))

	require.NoError(t, m.Update("GUNNERY", "GUNNERY EXERCISE"))
	assert.Equal(t, []string{"GUNNERY EXERCISE", "漁船作業"}, m.Export())

	err = m.Update("missing", "x")
	assert.True(t, errors.IsCode(err, errors.CodeKeywordNotFound))

	require.NoError(t, m.Remove("漁船作業"))
	err = m.Remove("漁船作業")
	assert.True(t, errors.IsCode(err, errors.CodeKeywordNotFound))
	assert.Equal(t, 1, m.Len())
}

func TestMatcher_ImportSkipsBlanksAndDuplicates(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"LIVE FIRING"})
	added := m.Import([]string{"live firing", "", "  ", "扫雷作业", "扫雷作业", "MINEX"})

	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"LIVE FIRING", "扫雷作业", "MINEX"}, m.Export())
}

func TestMatcher_ExportReturnsCopy(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"A", "B"})
	out := m.Export()
	out[0] = "mutated"

	assert.Equal(t, []string{"A", "B"}, m.Export())
}

func TestMatcher_Reset(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"only one"})
	m.Reset()

	assert.Equal(t, DefaultKeywords(), m.Export())
}

func TestMatcher_Sorted(t *testing.T) {
	t.Parallel()

	m := NewMatcher([]string{"b", "a", "c"})
	assert.Equal(t, []string{"a", "b", "c"}, m.Sorted())
	assert.Equal(t, []string{"b", "a", "c"}, m.Export(), "sorting does not disturb watch order")
}
