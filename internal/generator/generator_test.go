package generator

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumeforge/portfolio-agent/internal/models"
)

func testPortfolio() *models.Portfolio {
	return &models.Portfolio{
		Name:       "Jane Doe",
		Mail:       "jane@x.com",
		ResumeLink: "https://example.com/jane.pdf",
		AboutMe:    "I build things.",
		WorkExperience: []models.WorkExperience{
			{Title: "Engineer", Company: "Acme", Duration: "5 years", Description: "Engineering."},
		},
		Projects: []models.Project{
			{Title: "Portfolio", Desc: "A site.", Image: "/images/project1.png", LiveLink: "none"},
		},
		SkillsData:  []models.SkillCategory{{Category: "Languages", Skills: []string{"Go"}}},
		Socials:     []models.SocialLink{{URL: "https://github.com/jane", Name: "github"}},
		SEOKeywords: []string{"engineer", "go"},
	}
}

// buildZip assembles a zip archive from path -> content.
func buildZip(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// buildZipWithCorruptEntry appends an entry whose recorded CRC cannot
// match its payload, so reading it fails.
func buildZipWithCorruptEntry(t *testing.T, entries map[string]string, corruptName string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	payload := []byte("broken payload")
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               corruptName,
		Method:             zip.Store,
		CRC32:              0xdeadbeef,
		CompressedSize64:   uint64(len(payload)),
		UncompressedSize64: uint64(len(payload)),
	})
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// fakeGitHub serves repo/branch validation plus a zipball payload.
func fakeGitHub(t *testing.T, zipball []byte, zipballStatus int, contentType string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/jane/site-template", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/repos/jane/site-template/branches/main", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/repos/jane/site-template/zipball/main", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(zipballStatus)
		_, _ = w.Write(zipball)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestGenerator(t *testing.T, baseURL string) *Generator {
	t.Helper()
	g, err := New(context.Background(), Config{
		Repo:    "jane/site-template",
		Token:   "test-token",
		Branch:  "main",
		BaseURL: baseURL,
	})
	require.NoError(t, err)
	return g
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(content)
	}
	return out
}

func TestGenerateStripsCommonRootAndRoundTripsData(t *testing.T) {
	zipball := buildZip(t, map[string]string{
		"repo-abc123/index.html":     "<html></html>",
		"repo-abc123/css/styles.css": "body {}",
		"repo-abc123/js/app.js":      "console.log(1)",
	})
	srv := fakeGitHub(t, zipball, http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	want := testPortfolio()
	out, err := g.Generate(context.Background(), want)
	require.NoError(t, err)

	entries := readZip(t, out)
	assert.Contains(t, entries, "index.html")
	assert.Contains(t, entries, "css/styles.css")
	assert.Contains(t, entries, "js/app.js")

	var got models.Portfolio
	require.NoError(t, json.Unmarshal([]byte(entries["data.json"]), &got))
	assert.Equal(t, *want, got)
}

func TestGenerateNoCommonRootCopiesPathsUnchanged(t *testing.T) {
	zipball := buildZip(t, map[string]string{
		"index.html": "<html></html>",
		"app.js":     "console.log(1)",
	})
	srv := fakeGitHub(t, zipball, http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	out, err := g.Generate(context.Background(), testPortfolio())
	require.NoError(t, err)

	entries := readZip(t, out)
	assert.Contains(t, entries, "index.html")
	assert.Contains(t, entries, "app.js")
	assert.Contains(t, entries, "data.json")
}

func TestGenerateSkipsCorruptEntry(t *testing.T) {
	zipball := buildZipWithCorruptEntry(t, map[string]string{
		"tpl/index.html": "<html></html>",
		"tpl/app.js":     "console.log(1)",
	}, "tpl/broken.bin")
	srv := fakeGitHub(t, zipball, http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	out, err := g.Generate(context.Background(), testPortfolio())
	require.NoError(t, err)

	entries := readZip(t, out)
	assert.Contains(t, entries, "index.html")
	assert.Contains(t, entries, "app.js")
	assert.Contains(t, entries, "data.json")
	assert.NotContains(t, entries, "broken.bin")
}

func TestGenerateAllEntriesCorrupt(t *testing.T) {
	zipball := buildZipWithCorruptEntry(t, map[string]string{}, "tpl/broken.bin")
	srv := fakeGitHub(t, zipball, http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	_, err := g.Generate(context.Background(), testPortfolio())
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestGenerateReplacesTemplateDataJSON(t *testing.T) {
	zipball := buildZip(t, map[string]string{
		"tpl/index.html": "<html></html>",
		"tpl/data.json":  `{"stale": true}`,
	})
	srv := fakeGitHub(t, zipball, http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	out, err := g.Generate(context.Background(), testPortfolio())
	require.NoError(t, err)

	entries := readZip(t, out)
	var got models.Portfolio
	require.NoError(t, json.Unmarshal([]byte(entries["data.json"]), &got))
	assert.Equal(t, "Jane Doe", got.Name)
}

func TestGenerateNotFoundIsTemplateFetchError(t *testing.T) {
	srv := fakeGitHub(t, []byte("not found"), http.StatusNotFound, "application/json")
	g := newTestGenerator(t, srv.URL)

	_, err := g.Generate(context.Background(), testPortfolio())
	var fetchErr *TemplateFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestGenerateWrongContentType(t *testing.T) {
	srv := fakeGitHub(t, []byte("<html>rate limited</html>"), http.StatusOK, "text/html")
	g := newTestGenerator(t, srv.URL)

	_, err := g.Generate(context.Background(), testPortfolio())
	var fetchErr *TemplateFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Contains(t, fetchErr.Detail, "content-type")
}

func TestGenerateCorruptArchive(t *testing.T) {
	srv := fakeGitHub(t, []byte("definitely not a zip"), http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	_, err := g.Generate(context.Background(), testPortfolio())
	var archiveErr *InvalidArchiveError
	assert.True(t, errors.As(err, &archiveErr))
}

func TestNewRejectsMissingSettings(t *testing.T) {
	var confErr *ConfigurationError

	_, err := New(context.Background(), Config{})
	require.True(t, errors.As(err, &confErr))

	_, err = New(context.Background(), Config{Repo: "no-slash", Token: "tok"})
	require.True(t, errors.As(err, &confErr))
	assert.Contains(t, confErr.Reason, "owner/repo-name")
}

func TestNewRepoNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	_, err := New(context.Background(), Config{
		Repo: "jane/missing", Token: "tok", BaseURL: srv.URL,
	})
	var confErr *ConfigurationError
	require.True(t, errors.As(err, &confErr))
	assert.Contains(t, confErr.Reason, "not found")
}

func TestNewBranchNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/jane/site-template", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/repos/jane/site-template/branches/gone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	_, err := New(context.Background(), Config{
		Repo: "jane/site-template", Token: "tok", Branch: "gone", BaseURL: srv.URL,
	})
	var confErr *ConfigurationError
	require.True(t, errors.As(err, &confErr))
	assert.Contains(t, confErr.Reason, "branch")
}

func TestFindRootDir(t *testing.T) {
	zipBytes := buildZip(t, map[string]string{
		"root/a.txt":  "a",
		"root/b.txt":  "b",
		"other/c.txt": "c",
	})
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	require.NoError(t, err)
	assert.Equal(t, "root/", findRootDir(zr))
}

func TestFindRootDirTopLevelOnly(t *testing.T) {
	zipBytes := buildZip(t, map[string]string{"a.txt": "a", "b.txt": "b"})
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	require.NoError(t, err)
	assert.Equal(t, "", findRootDir(zr))
}

func TestGenerateIsDeterministic(t *testing.T) {
	zipball := buildZip(t, map[string]string{"tpl/index.html": "<html></html>"})
	srv := fakeGitHub(t, zipball, http.StatusOK, "application/zip")
	g := newTestGenerator(t, srv.URL)

	first, err := g.Generate(context.Background(), testPortfolio())
	require.NoError(t, err)
	second, err := g.Generate(context.Background(), testPortfolio())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
