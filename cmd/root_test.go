package cmd

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/shoporusni/internal/arbiter"
	"github.com/Norgate-AV/shoporusni/internal/cache"
	"github.com/Norgate-AV/shoporusni/internal/codes"
	"github.com/Norgate-AV/shoporusni/internal/config"
	"github.com/Norgate-AV/shoporusni/internal/fetch"
	"github.com/Norgate-AV/shoporusni/internal/journal"
	"github.com/Norgate-AV/shoporusni/internal/stats"
)

const payload = `{"message":"ok","data":{"date":"2023-02-24","day":366,"resource":"x",` +
	`"stats":{"personnel_units":145850,"tanks":3350},` +
	`"increase":{"personnel_units":790,"tanks":5}}}`

const stalePayload = `{"message":"ok","data":{"stats":{"personnel_units":100},"increase":{"personnel_units":1}}}`

// testEnv isolates the config directory and working directory of a test
func testEnv(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(config.DirEnv, dir)
	t.Setenv("NO_COLOR", "")

	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(old) })

	return dir
}

// apiServer serves body with status and counts requests
func apiServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

// deadURL returns the address of a server that is no longer listening
func deadURL(t *testing.T) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	return url
}

func execute(args ...string) (string, string, error) {
	viper.Reset()

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeCache(t *testing.T, dir, content string, age time.Duration) {
	t.Helper()

	path := filepath.Join(dir, cache.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	mod := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func readCache(t *testing.T, dir string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, cache.FileName))
	require.NoError(t, err)

	return string(data)
}

func TestRunStats_FirstRunFetchesAndCaches(t *testing.T) {
	dir := testEnv(t)
	srv, hits := apiServer(t, http.StatusOK, payload)

	out, _, err := execute("--url", srv.URL, "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "145850↑790", out)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, payload, readCache(t, dir))
}

func TestRunStats_FreshCacheSkipsNetwork(t *testing.T) {
	dir := testEnv(t)
	writeCache(t, dir, payload, 0)
	srv, hits := apiServer(t, http.StatusOK, stalePayload)

	out, _, err := execute("--url", srv.URL, "--refresh", "30minutes", "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "145850↑790", out)
	assert.Zero(t, hits.Load())
}

func TestRunStats_StaleCacheRefreshes(t *testing.T) {
	dir := testEnv(t)
	writeCache(t, dir, stalePayload, time.Hour)
	srv, hits := apiServer(t, http.StatusOK, payload)

	out, _, err := execute("--url", srv.URL, "--refresh", "1m", "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "145850↑790", out)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, payload, readCache(t, dir))
}

func TestRunStats_StaleCacheFallsBackWhenOffline(t *testing.T) {
	dir := testEnv(t)
	writeCache(t, dir, stalePayload, time.Hour)

	out, _, err := execute("--url", deadURL(t), "--refresh", "1m", "--no-color", "--timeout", "1s")
	require.NoError(t, err)

	assert.Equal(t, "100↑1", out)
	assert.Equal(t, stalePayload, readCache(t, dir))
}

func TestRunStats_StaleCacheFallsBackOnServerError(t *testing.T) {
	dir := testEnv(t)
	writeCache(t, dir, stalePayload, time.Hour)
	srv, _ := apiServer(t, http.StatusBadGateway, "<html>bad gateway</html>")

	out, _, err := execute("--url", srv.URL, "--refresh", "1m", "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "100↑1", out)
	assert.Equal(t, stalePayload, readCache(t, dir))
}

func TestRunStats_NoCacheAndOffline(t *testing.T) {
	dir := testEnv(t)

	out, _, err := execute("--url", deadURL(t), "--no-color", "--timeout", "1s")
	require.Error(t, err)
	assert.Empty(t, out)

	var resErr *arbiter.ResolutionError
	assert.True(t, errors.As(err, &resErr))
	assert.Equal(t, codes.Resolution, codes.ExitCode(err))

	assert.Equal(t, "", readCache(t, dir), "cache file should exist and stay empty")
}

func TestRunStats_MalformedPayload(t *testing.T) {
	testEnv(t)
	srv, _ := apiServer(t, http.StatusOK, "not json")

	_, _, err := execute("--url", srv.URL)
	require.Error(t, err)

	var decodeErr *stats.DecodeError
	assert.True(t, errors.As(err, &decodeErr))
	assert.Equal(t, codes.Decode, codes.ExitCode(err))
}

func TestRunStats_EmptyDocument(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"null", `null`},
		{"api error", `{"error":"not found"}`},
		{"message only", `{"message":"rate limited"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testEnv(t)
			srv, _ := apiServer(t, http.StatusOK, tt.body)

			out, _, err := execute("--url", srv.URL, "--no-color")
			require.Error(t, err)
			assert.Empty(t, out)
			assert.Equal(t, codes.Decode, codes.ExitCode(err))
		})
	}
}

// stubFetcher returns body for every request and remembers the URLs it was asked for
type stubFetcher struct {
	body string
	urls []string
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.urls = append(f.urls, url)
	return f.body, nil
}

// useFetcher swaps the fetcher factory for the duration of the test and
// returns the timeout it was built with
func useFetcher(t *testing.T, f fetch.Fetcher) *time.Duration {
	t.Helper()

	var timeout time.Duration
	orig := newFetcher
	newFetcher = func(d time.Duration) fetch.Fetcher {
		timeout = d
		return f
	}
	t.Cleanup(func() { newFetcher = orig })

	return &timeout
}

func TestRunStats_FetcherUsesConfiguredTimeout(t *testing.T) {
	dir := testEnv(t)
	f := &stubFetcher{body: payload}
	timeout := useFetcher(t, f)

	out, _, err := execute("--url", "https://stats.example.com/latest", "--timeout", "3s", "--no-color")
	require.NoError(t, err)

	assert.Equal(t, "145850↑790", out)
	assert.Equal(t, 3*time.Second, *timeout)
	assert.Equal(t, []string{"https://stats.example.com/latest"}, f.urls)
	assert.Equal(t, payload, readCache(t, dir))
}

func TestRunStats_FreshCacheNeverCallsFetcher(t *testing.T) {
	dir := testEnv(t)
	writeCache(t, dir, payload, 0)
	f := &stubFetcher{body: stalePayload}
	useFetcher(t, f)

	out, _, err := execute("--no-color")
	require.NoError(t, err)

	assert.Equal(t, "145850↑790", out)
	assert.Empty(t, f.urls)
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantOut  string
	}{
		{"nil", nil, codes.Success, ""},
		{
			"decode",
			&stats.DecodeError{Err: errors.New("missing data section")},
			codes.Decode,
			"Error: failed to parse statistics: missing data section (Statistics payload is malformed)\n",
		},
		{
			"config",
			&codes.ConfigError{Err: errors.New("invalid url")},
			codes.Config,
			"Error: invalid url (Invalid configuration)\n",
		},
		{
			"other",
			errors.New("boom"),
			codes.General,
			"Error: boom (General failure)\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Equal(t, tt.wantCode, reportError(&buf, tt.err))
			assert.Equal(t, tt.wantOut, buf.String())
		})
	}
}

func TestRootCmd_ErrorsNotPrintedTwice(t *testing.T) {
	testEnv(t)

	_, errOut, err := execute("--refresh", "whenever")
	require.Error(t, err)
	assert.NotContains(t, errOut, "Error:")
}

func TestRunStats_InvalidConfig(t *testing.T) {
	testEnv(t)

	_, _, err := execute("--refresh", "whenever")
	require.Error(t, err)
	assert.Equal(t, codes.Config, codes.ExitCode(err))
}

func TestRunStats_AllCounters(t *testing.T) {
	testEnv(t)
	srv, _ := apiServer(t, http.StatusOK, payload)

	out, _, err := execute("--url", srv.URL, "--no-color", "--all")
	require.NoError(t, err)

	assert.Contains(t, out, "personnel_units")
	assert.Contains(t, out, "145850↑790")
	assert.Contains(t, out, "3350↑5")
}

func TestRunStats_ColouredByDefault(t *testing.T) {
	testEnv(t)
	srv, _ := apiServer(t, http.StatusOK, payload)

	out, _, err := execute("--url", srv.URL)
	require.NoError(t, err)

	assert.Contains(t, out, "\x1b[31m145850")
	assert.Contains(t, out, "\x1b[32m790")
}

func TestRunStats_VerboseLogsToStderr(t *testing.T) {
	testEnv(t)
	srv, _ := apiServer(t, http.StatusOK, payload)

	out, errOut, err := execute("--url", srv.URL, "--no-color", "-vv")
	require.NoError(t, err)

	assert.Equal(t, "145850↑790", out)
	assert.Contains(t, errOut, "Cache is empty")
}

func TestRunStats_RecordsJournal(t *testing.T) {
	dir := testEnv(t)
	srv, _ := apiServer(t, http.StatusOK, payload)

	_, _, err := execute("--url", srv.URL, "--no-color")
	require.NoError(t, err)
	_, _, err = execute("--url", srv.URL, "--no-color")
	require.NoError(t, err)

	j, err := journal.Open(dir)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "fresh", entries[0].State)
	assert.Equal(t, "cache", entries[0].Source)
	assert.Equal(t, "absent", entries[1].State)
	assert.Equal(t, "network", entries[1].Source)
	assert.True(t, entries[1].Persisted)
	assert.Equal(t, cache.Digest(payload), entries[1].Digest)
}

func TestRunStats_NoJournal(t *testing.T) {
	dir := testEnv(t)
	srv, _ := apiServer(t, http.StatusOK, payload)

	_, _, err := execute("--url", srv.URL, "--no-color", "--no-journal")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, journal.FileName))
	assert.True(t, os.IsNotExist(err))
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	testEnv(t)

	_, _, err := execute("unexpected")
	assert.Error(t, err)
}
