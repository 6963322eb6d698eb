package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

const (
	releasesAPI      = "https://api.github.com/repos/pulumi-idp/idp-console/releases/latest"
	versionCacheFile = ".idp/version_cache.json"
	cacheDuration    = 24 * time.Hour
)

// Cache is the on-disk record of the last release lookup
type Cache struct {
	LatestVersion string    `json:"latestVersion"`
	CheckedAt     time.Time `json:"checkedAt"`
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Checker looks up the newest published release, at most once per cacheDuration
type Checker struct {
	ReleasesURL string
	CachePath   string
	HTTPClient  *http.Client
	Now         func() time.Time
}

// NewChecker returns a Checker against the public releases endpoint
func NewChecker() *Checker {
	cachePath := ""
	if homeDir, err := os.UserHomeDir(); err == nil {
		cachePath = filepath.Join(homeDir, versionCacheFile)
	}

	return &Checker{
		ReleasesURL: releasesAPI,
		CachePath:   cachePath,
		HTTPClient:  &http.Client{Timeout: 3 * time.Second},
		Now:         time.Now,
	}
}

// CheckForUpdate compares current against the newest release.
// Lookup failures are swallowed: the check must never fail a command.
func (c *Checker) CheckForUpdate(ctx context.Context, current string) (latest string, updateAvailable bool, err error) {
	if current == "" || current == "dev" {
		return "", false, nil
	}

	if cached, ok := c.readCache(); ok {
		return compareVersions(current, cached)
	}

	latest, err = c.fetchLatest(ctx)
	if err != nil {
		//nolint:nilerr
		return "", false, nil
	}

	c.writeCache(latest)
	return compareVersions(current, latest)
}

func compareVersions(current, latest string) (string, bool, error) {
	currentVer, err := goversion.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return latest, false, fmt.Errorf("invalid current version: %w", err)
	}

	latestVer, err := goversion.NewVersion(strings.TrimPrefix(latest, "v"))
	if err != nil {
		return latest, false, fmt.Errorf("invalid latest version: %w", err)
	}

	return latest, latestVer.GreaterThan(currentVer), nil
}

func (c *Checker) fetchLatest(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ReleasesURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "idpctl")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //nolint:errcheck // Deferred close, error not actionable

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var rel release
	if err := json.Unmarshal(body, &rel); err != nil {
		return "", err
	}

	return rel.TagName, nil
}

func (c *Checker) readCache() (string, bool) {
	if c.CachePath == "" {
		return "", false
	}

	data, err := os.ReadFile(c.CachePath)
	if err != nil {
		return "", false
	}

	var cache Cache
	if err := json.Unmarshal(data, &cache); err != nil {
		return "", false
	}

	if c.Now().Sub(cache.CheckedAt) > cacheDuration {
		return "", false
	}

	return cache.LatestVersion, true
}

func (c *Checker) writeCache(latest string) {
	if c.CachePath == "" {
		return
	}

	//nolint:errcheck,gosec // Best effort
	os.MkdirAll(filepath.Dir(c.CachePath), 0755)

	data, err := json.Marshal(Cache{LatestVersion: latest, CheckedAt: c.Now()})
	if err != nil {
		return
	}

	//nolint:errcheck,gosec // Best effort
	os.WriteFile(c.CachePath, data, 0644)
}

// PrintUpdateNotification writes an upgrade hint to w when a newer release exists
func PrintUpdateNotification(ctx context.Context, w io.Writer, skipVersionCheck bool) {
	if skipVersionCheck {
		return
	}

	latest, updateAvailable, err := NewChecker().CheckForUpdate(ctx, Version)
	if err != nil || !updateAvailable {
		return
	}

	fmt.Fprintf(w, "\nA new version of idpctl is available: %s (you have %s)\n", latest, Version)
	fmt.Fprintf(w, "Download: https://github.com/pulumi-idp/idp-console/releases/latest\n")
	fmt.Fprintf(w, "To disable these notifications: idpctl config set skip-version-check true\n\n")
}
