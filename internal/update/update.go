// Package update checks GitHub releases for a newer application version.
package update

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	githubOwner = "Dolcruz"
	githubRepo  = "stt-desktop"
)

// Release describes an available update.
type Release struct {
	Version     string // without the leading "v"
	DownloadURL string // the Windows .exe asset
	Notes       string
}

type githubRelease struct {
	TagName    string `json:"tag_name"`
	Body       string `json:"body"`
	Draft      bool   `json:"draft"`
	Prerelease bool   `json:"prerelease"`
	Assets     []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
	} `json:"assets"`
}

// Checker queries the GitHub releases API.
type Checker struct {
	httpClient *http.Client
	apiURL     string
	current    string
}

// NewChecker creates a checker for the given current version.
func NewChecker(httpClient *http.Client, currentVersion string) *Checker {
	return &Checker{
		httpClient: httpClient,
		apiURL:     fmt.Sprintf("https://api.github.com/repos/%s/%s/releases/latest", githubOwner, githubRepo),
		current:    currentVersion,
	}
}

// Check returns a Release when a newer version with a Windows executable is
// published, nil otherwise.
func (c *Checker) Check(ctx context.Context) (*Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "stt-desktop/"+c.current)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query releases: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// No releases published yet.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API status %d", resp.StatusCode)
	}

	var rel githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}
	if rel.Draft || rel.Prerelease || rel.TagName == "" {
		return nil, nil
	}

	latest := strings.TrimPrefix(strings.TrimSpace(rel.TagName), "v")
	if !IsNewer(latest, c.current) {
		return nil, nil
	}

	for _, a := range rel.Assets {
		if strings.HasSuffix(a.Name, ".exe") {
			return &Release{Version: latest, DownloadURL: a.BrowserDownloadURL, Notes: rel.Body}, nil
		}
	}
	// Newer version exists but has no Windows executable to install.
	return nil, nil
}
