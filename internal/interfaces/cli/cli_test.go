package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execRoot runs the root command with args and returns combined output.
func execRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func envelope(t *testing.T, data interface{}) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"success": true,
		"data":    data,
	})
	require.NoError(t, err)
	return body
}

func TestNewRootCommand_Structure(t *testing.T) {
	cmd := NewRootCommand()

	assert.Equal(t, "seaguard", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[strings.Fields(sub.Use)[0]] = true
	}
	for _, want := range []string{"extract", "assess", "keywords", "warnings"} {
		assert.True(t, names[want], "subcommand %q should be registered", want)
	}

	for _, flag := range []string{"config", "log-level", "output", "verbose", "timeout", "server"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}

func TestExtract_DegreeMinuteCoordinates(t *testing.T) {
	out, err := execRoot(t, "",
		"extract", "南海军事训练，18-17.37N 109-22.17E附近水域", "-o", "json")
	require.NoError(t, err)

	var result extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Points, 1)
	assert.InDelta(t, 18.2895, result.Points[0].Lat, 0.0001)
	assert.InDelta(t, 109.3695, result.Points[0].Lon, 0.0001)
	assert.Equal(t, 1, result.RawMatches)
	assert.Equal(t, 0, result.Rejected)
}

func TestExtract_ReadsStdin(t *testing.T) {
	out, err := execRoot(t, "警戒区 21-30.00N 118-00.00E", "extract", "-o", "json")
	require.NoError(t, err)

	var result extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Points, 1)
	assert.InDelta(t, 21.5, result.Points[0].Lat, 0.0001)
}

func TestExtract_MergesNearDuplicates(t *testing.T) {
	// The two points sit ~0 km apart; a generous threshold collapses them.
	out, err := execRoot(t, "",
		"extract", "18-17.37N 109-22.17E 以及 18-17.40N 109-22.20E",
		"--threshold-km", "2.0", "-o", "json")
	require.NoError(t, err)

	var result extractOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Len(t, result.Points, 1)
	assert.Equal(t, 2, result.RawMatches)
	assert.Equal(t, 1, result.Merged)
}

func TestExtract_NoTextFails(t *testing.T) {
	_, err := execRoot(t, "", "extract")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text")
}

func TestKeywords_AddListRemove(t *testing.T) {
	file := filepath.Join(t.TempDir(), "keywords.json")

	out, err := execRoot(t, "", "keywords", "add", "台风警报", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "added 1 keyword(s)")

	_, statErr := os.Stat(file)
	require.NoError(t, statErr, "watch list file should be written")

	out, err = execRoot(t, "", "keywords", "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "台风警报")

	// Adding the same keyword again is reported, not fatal.
	out, err = execRoot(t, "", "keywords", "add", "台风警报", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "already present")

	out, err = execRoot(t, "", "keywords", "remove", "台风警报", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 keyword(s)")

	out, err = execRoot(t, "", "keywords", "list", "--file", file, "-o", "json")
	require.NoError(t, err)
	assert.NotContains(t, out, "台风警报")
}

func TestKeywords_ListDefaultsWithoutFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "missing.json")

	out, err := execRoot(t, "", "keywords", "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "军事训练")
	assert.Contains(t, out, "LIVE FIRING")
}

func TestKeywords_RemoveMissingIsReported(t *testing.T) {
	file := filepath.Join(t.TempDir(), "keywords.json")

	out, err := execRoot(t, "", "keywords", "remove", "不存在的关键词", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "not in watch list")
}

func TestWarnings_Stats(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/warnings/stats", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write(envelope(t, map[string]interface{}{
			"total":             42,
			"notified":          30,
			"unnotified":        12,
			"with_coordinates":  25,
			"coordinate_points": 61,
			"by_source":         map[string]int64{"CN_MSA": 40, "TW_MPB": 2},
		}))
	}))
	defer srv.Close()

	out, err := execRoot(t, "", "--server", srv.URL, "warnings", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Total warnings:    42")
	assert.Contains(t, out, "Unnotified:        12")
	assert.Contains(t, out, "CN_MSA")
}

func TestWarnings_ListPassesFilters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/warnings", r.URL.Path)
		assert.Equal(t, "CN_MSA", r.URL.Query().Get("source"))
		assert.Equal(t, "false", r.URL.Query().Get("notified"))
		w.Header().Set("Content-Type", "application/json")
		body, _ := json.Marshal(map[string]interface{}{
			"success": true,
			"data": []map[string]interface{}{
				{"id": "w-1", "source": "CN_MSA", "bureau": "海南海事局", "title": "南海军事训练", "notified": false},
			},
			"pagination": map[string]interface{}{"page": 1, "page_size": 20, "total": 1},
		})
		w.Write(body)
	}))
	defer srv.Close()

	out, err := execRoot(t, "", "--server", srv.URL,
		"warnings", "list", "--source", "CN_MSA", "--notified", "false")
	require.NoError(t, err)
	assert.Contains(t, out, "w-1")
	assert.Contains(t, out, "1 total")
}

func TestWarnings_ListRejectsBadNotified(t *testing.T) {
	_, err := execRoot(t, "", "warnings", "list", "--notified", "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--notified must be true or false")
}

func TestWarnings_Dispatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/notifications/dispatch", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write(envelope(t, map[string]int{"pending": 3, "delivered": 2, "suppressed": 1}))
	}))
	defer srv.Close()

	out, err := execRoot(t, "", "--server", srv.URL, "warnings", "dispatch")
	require.NoError(t, err)
	assert.Contains(t, out, "pending: 3  delivered: 2  suppressed: 1")
}

func TestAssess_Vessel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/assess/vessel", r.URL.Path)

		var vessel map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&vessel))
		assert.Equal(t, "EVER SAFE", vessel["name"])
		assert.Equal(t, "tanker", vessel["class"])

		w.Header().Set("Content-Type", "application/json")
		w.Write(envelope(t, map[string]interface{}{
			"vessel_name":     "EVER SAFE",
			"overall_score":   87.5,
			"level":           "CRITICAL",
			"action_required": true,
			"recommendations": []string{"alter course immediately"},
		}))
	}))
	defer srv.Close()

	out, err := execRoot(t, "", "--server", srv.URL,
		"assess", "vessel", "--name", "EVER SAFE",
		"--lat", "18.29", "--lon", "109.37", "--class", "tanker")
	require.NoError(t, err)
	assert.Contains(t, out, "EVER SAFE")
	assert.Contains(t, out, "87.5")
	assert.Contains(t, out, "ACTION REQUIRED")
	assert.Contains(t, out, "alter course immediately")
}

func TestAssess_VesselRequiresName(t *testing.T) {
	_, err := execRoot(t, "", "assess", "vessel", "--lat", "18.29")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name")
}

func TestRemoteCommand_BadServerScheme(t *testing.T) {
	_, err := execRoot(t, "", "--server", "ftp://nope", "warnings", "stats")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no API client available")
}
