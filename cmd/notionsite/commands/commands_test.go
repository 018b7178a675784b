package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/notionsite/internal/config"
	derrors "git.home.luguber.info/inful/notionsite/internal/foundation/errors"
)

const testConfig = `
rootNotionPageId: 7875426197cf461698809def95960ebf
site:
  name: Test
  url: https://example.com
pageUrlOverrides:
  /about: 7d3c4e1f00004a0b8c0d1e2f3a4b5c6d
  /blog/hello: 059262f0a2f84b278a9f6b4b5b5b0001
pageUrlAdditions:
  /extra: 0be6efce9daf42688f65c76b89f8eb27
notion:
  apiBaseUrl: %s
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	t.Setenv("NODE_ENV", "")
	t.Setenv("PORT", "")
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cli := &CLI{}
	g := &Global{Out: &buf}
	parser, err := kong.New(cli,
		kong.Name("notionsite"),
		kong.Vars{"version": "test"},
		kong.Bind(g),
		kong.Exit(func(int) {}),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = kctx.Run(cli)
	return buf.String(), err
}

func TestCheck_ValidConfig(t *testing.T) {
	path := writeConfig(t, fmt.Sprintf(testConfig, "https://www.notion.so/api/v3"))

	out, err := runCLI(t, "-c", path, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "OK: root 7875426197cf461698809def95960ebf, 2 overrides, 1 additions")
	assert.Contains(t, out, "http://localhost:3000")
}

func TestCheck_InvalidMappingIsConfigError(t *testing.T) {
	path := writeConfig(t, `
rootNotionPageId: 7875426197cf461698809def95960ebf
pageUrlOverrides:
  foo: 7d3c4e1f00004a0b8c0d1e2f3a4b5c6d
`)

	_, err := runCLI(t, "-c", path, "check")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `should be a relative URI that starts with "/"`)

	adapter := derrors.NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, 7, adapter.ExitCodeFor(err))
}

func TestCheck_WatchReportsChanges(t *testing.T) {
	path := writeConfig(t, fmt.Sprintf(testConfig, "https://www.notion.so/api/v3"))

	var buf syncBuffer
	g := &Global{Out: &buf, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	cmd := &CheckCmd{Debounce: 20 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cmd.watch(ctx, g, path) }()

	// Give the watcher time to register before changing the file.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("rootNotionPageId: nope\n"), 0o600))

	assert.Eventually(t, func() bool {
		return bytes.Contains(buf.Bytes(), []byte("INVALID"))
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRoutes_PrintsOrderedTables(t *testing.T) {
	path := writeConfig(t, fmt.Sprintf(testConfig, "https://www.notion.so/api/v3"))

	out, err := runCLI(t, "-c", path, "routes")
	require.NoError(t, err)

	var tables struct {
		Overrides        map[string]string `json:"overrides"`
		InverseOverrides map[string]string `json:"inverseOverrides"`
		Additions        map[string]string `json:"additions"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	assert.Equal(t, "7d3c4e1f00004a0b8c0d1e2f3a4b5c6d", tables.Overrides["about"])
	assert.Equal(t, "blog/hello", tables.InverseOverrides["059262f0a2f84b278a9f6b4b5b5b0001"])
	assert.Equal(t, "0be6efce9daf42688f65c76b89f8eb27", tables.Additions["extra"])
	assert.Less(t, bytes.Index([]byte(out), []byte(`"about"`)), bytes.Index([]byte(out), []byte(`"blog/hello"`)))
}

func TestRoutes_Resolve(t *testing.T) {
	path := writeConfig(t, fmt.Sprintf(testConfig, "https://www.notion.so/api/v3"))

	out, err := runCLI(t, "-c", path, "routes", "/about", "/extra")
	require.NoError(t, err)
	assert.Contains(t, out, `"source": "override"`)
	assert.Contains(t, out, `"source": "addition"`)

	_, err = runCLI(t, "-c", path, "routes", "/missing")
	require.Error(t, err)
}

func TestSearch_PrintsUpstreamResponse(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"id":"abc"}],"total":1}`))
	}))
	defer srv.Close()

	path := writeConfig(t, fmt.Sprintf(testConfig, srv.URL))
	out, err := runCLI(t, "-c", path, "search", "hello", "-n", "5")
	require.NoError(t, err)

	assert.Contains(t, out, `"total": 1`)
	assert.Equal(t, "hello", got["query"])
	assert.Equal(t, "78754261-97cf-4616-9880-9def95960ebf", got["ancestorId"])
	assert.EqualValues(t, 5, got["limit"])
}

func TestSearch_UpstreamFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	path := writeConfig(t, fmt.Sprintf(testConfig, srv.URL))
	_, err := runCLI(t, "-c", path, "search", "hello")
	require.Error(t, err)

	classified, ok := derrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, derrors.CategoryNetwork, classified.Category())
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")
	t.Setenv("NODE_ENV", "")
	t.Setenv("PORT", "")

	out, err := runCLI(t, "-c", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	_, err = config.Load(path)
	require.NoError(t, err)

	_, err = runCLI(t, "-c", path, "init")
	require.Error(t, err, "refuses to overwrite without --force")

	_, err = runCLI(t, "-c", path, "init", "--force")
	require.NoError(t, err)
}

func TestServeRuntime_EndToEnd(t *testing.T) {
	path := writeConfig(t, fmt.Sprintf(testConfig, "https://www.notion.so/api/v3")+`
search:
  cache:
    enabled: true
monitoring:
  metrics:
    enabled: true
`)
	res, err := config.Load(path)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rt, err := newRuntime(res.Site, "127.0.0.1:0", logger)
	require.NoError(t, err)
	require.NotNil(t, rt.sweeper)

	require.NoError(t, rt.start(context.Background()))
	base := "http://" + rt.server.Addr()

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/api/resolve?path=/about")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), `notionsite_page_url_mappings{table="overrides"} 2`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rt.close(ctx))
}
