// Package generator packages a Portfolio record together with a site
// template downloaded from a GitHub repository into a distributable zip.
package generator

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/resumeforge/portfolio-agent/internal/models"
)

const (
	// dataFileName is where the portfolio record lands inside the bundle.
	dataFileName = "data.json"

	validateTimeout = 10 * time.Second
	downloadTimeout = 30 * time.Second
)

// Config identifies the template repository.
type Config struct {
	// Repo is "owner/name".
	Repo   string
	Token  string
	Branch string

	// BaseURL overrides the GitHub API endpoint. Used by tests; empty
	// means the public API.
	BaseURL string
}

// Generator downloads the template archive and splices in generated data.
type Generator struct {
	httpClient *http.Client
	baseURL    string
	owner      string
	repo       string
	branch     string
	token      string
}

// New validates the configuration and checks that the repository and
// branch exist and are accessible. It fails fast with a
// *ConfigurationError so the caller can disable portfolio generation
// without taking down the rest of the service.
func New(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.Repo == "" || cfg.Token == "" {
		return nil, &ConfigurationError{Reason: "GITHUB_REPO and GITHUB_TOKEN are required"}
	}
	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, &ConfigurationError{Reason: "GITHUB_REPO must be in the format 'owner/repo-name'"}
	}
	branch := cfg.Branch
	if branch == "" {
		branch = "main"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}

	g := &Generator{
		httpClient: &http.Client{},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		owner:      owner,
		repo:       repo,
		branch:     branch,
		token:      cfg.Token,
	}
	if err := g.validateRemote(ctx); err != nil {
		return nil, err
	}
	slog.Info("generator.initialized", "repo", cfg.Repo, "branch", branch)
	return g, nil
}

// validateRemote checks repository and branch existence concurrently.
func (g *Generator) validateRemote(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		status, err := g.getStatus(ctx, fmt.Sprintf("%s/repos/%s/%s", g.baseURL, g.owner, g.repo))
		if err != nil {
			return &ConfigurationError{Reason: "cannot validate GitHub repository", Err: err}
		}
		switch {
		case status == http.StatusNotFound:
			return &ConfigurationError{Reason: fmt.Sprintf("repository %s/%s not found or not accessible", g.owner, g.repo)}
		case status == http.StatusForbidden:
			return &ConfigurationError{Reason: "GitHub token doesn't have access to the repository"}
		case status != http.StatusOK:
			return &ConfigurationError{Reason: fmt.Sprintf("GitHub API error: %d", status)}
		}
		return nil
	})

	eg.Go(func() error {
		status, err := g.getStatus(ctx, fmt.Sprintf("%s/repos/%s/%s/branches/%s", g.baseURL, g.owner, g.repo, g.branch))
		if err != nil {
			return &ConfigurationError{Reason: "cannot validate GitHub branch", Err: err}
		}
		if status == http.StatusNotFound {
			return &ConfigurationError{Reason: fmt.Sprintf("branch %q not found in repository", g.branch)}
		}
		return nil
	})

	return eg.Wait()
}

func (g *Generator) getStatus(ctx context.Context, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	g.setHeaders(req)
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (g *Generator) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "portfolio-agent/1.0")
}

// Generate downloads the template archive, re-roots its entries, injects
// the serialized portfolio as data.json and returns the new archive bytes.
// Individual unreadable template entries are skipped; the operation fails
// only when nothing at all could be copied.
func (g *Generator) Generate(ctx context.Context, portfolio *models.Portfolio) ([]byte, error) {
	slog.Info("generator.start", "portfolio", portfolio.Name)

	templateBytes, err := g.fetchTemplate(ctx)
	if err != nil {
		return nil, err
	}

	templateZip, err := zip.NewReader(bytes.NewReader(templateBytes), int64(len(templateBytes)))
	if err != nil {
		return nil, &InvalidArchiveError{Err: err}
	}

	rootDir := findRootDir(templateZip)
	if rootDir != "" {
		slog.Info("generator.root_detected", "rootDir", rootDir)
	} else {
		slog.Warn("generator.no_root", "detail", "copying template paths as-is")
	}

	var out bytes.Buffer
	outZip := zip.NewWriter(&out)

	var filesCopied int
	for _, entry := range templateZip.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		newPath := entry.Name
		if rootDir != "" {
			newPath = strings.TrimPrefix(newPath, rootDir)
		}
		if newPath == "" || newPath == dataFileName {
			// The generated data.json replaces any template copy.
			continue
		}
		if err := copyEntry(outZip, entry, newPath); err != nil {
			slog.Warn("generator.entry_skipped", "entry", entry.Name, "error", err)
			continue
		}
		filesCopied++
	}

	if filesCopied == 0 {
		_ = outZip.Close()
		return nil, ErrEmptyTemplate
	}

	data, err := json.MarshalIndent(portfolio, "", "    ")
	if err != nil {
		_ = outZip.Close()
		return nil, fmt.Errorf("failed to serialize portfolio data: %w", err)
	}
	if err := writeEntry(outZip, dataFileName, data); err != nil {
		_ = outZip.Close()
		return nil, fmt.Errorf("failed to add %s to the archive: %w", dataFileName, err)
	}

	if err := outZip.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	slog.Info("generator.done", "templateFiles", filesCopied)
	return out.Bytes(), nil
}

// fetchTemplate downloads the branch zipball. All failure modes surface as
// *TemplateFetchError so callers can distinguish them from archive faults.
func (g *Generator) fetchTemplate(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/%s/zipball/%s", g.baseURL, g.owner, g.repo, g.branch)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TemplateFetchError{Detail: "failed to build request", Err: err}
	}
	g.setHeaders(req)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, &TemplateFetchError{Detail: "GitHub API request timed out", Err: err}
		}
		return nil, &TemplateFetchError{Detail: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			detail = "authentication failed, check your GitHub token"
		case http.StatusForbidden:
			detail = "access forbidden, check your GitHub token permissions"
		case http.StatusNotFound:
			detail = fmt.Sprintf("repository or branch not found: %s/%s:%s", g.owner, g.repo, g.branch)
		}
		return nil, &TemplateFetchError{StatusCode: resp.StatusCode, Detail: detail}
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "application/zip") && !strings.Contains(contentType, "application/octet-stream") {
		return nil, &TemplateFetchError{
			StatusCode: resp.StatusCode,
			Detail:     fmt.Sprintf("expected zip file but got content-type: %s", contentType),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TemplateFetchError{Detail: "failed to read response body", Err: err}
	}
	return body, nil
}

// findRootDir returns the most frequent first path component (with
// trailing slash) among multi-component entries, ties broken by first-seen
// order. "" means the template has no common root.
func findRootDir(zr *zip.Reader) string {
	counts := make(map[string]int)
	var order []string

	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		first, _, ok := strings.Cut(entry.Name, "/")
		if !ok || first == "" {
			continue
		}
		root := first + "/"
		if counts[root] == 0 {
			order = append(order, root)
		}
		counts[root]++
	}

	var best string
	var bestCount int
	for _, root := range order {
		if counts[root] > bestCount {
			best, bestCount = root, counts[root]
		}
	}
	return best
}

func copyEntry(zw *zip.Writer, entry *zip.File, newPath string) error {
	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return writeEntry(zw, newPath, content)
}

// writeEntry adds a deflated entry with zeroed metadata so that identical
// inputs produce byte-identical archives.
func writeEntry(zw *zip.Writer, name string, content []byte) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   name,
		Method: zip.Deflate,
	})
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if _, err := w.Write(content); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
