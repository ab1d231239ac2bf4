// Package update checks for a newer published release.
package update

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/RanjanLabs/RanjanLabs/internal/fetch"
)

// ReleasesURL is the latest-release endpoint of the project.
const ReleasesURL = "https://api.github.com/repos/RanjanLabs/RanjanLabs/releases/latest"

// Interval is how often the TUI repeats the check.
const Interval = 24 * time.Hour

// Result holds the outcome of a version check.
type Result struct {
	LatestVersion string
}

type ghRelease struct {
	TagName string `json:"tag_name"`
}

type Checker struct {
	client *fetch.Client
	url    string
}

// NewChecker returns a Checker querying url, or ReleasesURL when url is empty.
func NewChecker(client *fetch.Client, url string) *Checker {
	if url == "" {
		url = ReleasesURL
	}
	if client == nil {
		client = fetch.New(nil, 5*time.Second)
	}
	return &Checker{client: client, url: url}
}

// Check reports a release newer than currentVersion. Returns nil on any error
// (non-fatal) and for development builds.
func (c *Checker) Check(ctx context.Context, currentVersion string) *Result {
	current := strings.TrimPrefix(currentVersion, "v")
	if current == "" || current == "dev" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	body, err := c.client.Open(ctx, c.url)
	if err != nil {
		return nil
	}
	defer body.Close()

	var release ghRelease
	if err := json.NewDecoder(body).Decode(&release); err != nil {
		return nil
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	if latest == "" || latest == current {
		return nil
	}

	return &Result{LatestVersion: latest}
}

// Due reports whether a check last run at last should run again at now.
func Due(last, now time.Time) bool {
	return last.IsZero() || now.Sub(last) >= Interval
}
