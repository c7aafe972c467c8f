// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package artifact

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	currentFile   = "CURRENT"
	manifestFile  = "MANIFEST.toml"
	modelFile     = "model.vec"
	indexDir      = "index"
	stagingPrefix = ".staging-"
	versionPrefix = "v"

	// DefaultRetain is the number of published versions kept on disk.
	DefaultRetain = 2
)

// Root is a directory holding published artifact versions.
type Root struct {
	dir    string
	retain int
	logger *slog.Logger
}

// RootOption configures a Root.
type RootOption func(*Root) error

// WithLogger sets the logger for the root and everything opened from it.
func WithLogger(logger *slog.Logger) RootOption {
	return func(r *Root) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithRetain sets how many published versions are kept. Must be at least 1.
func WithRetain(n int) RootOption {
	return func(r *Root) error {
		if n < 1 {
			return errors.New("retain must be at least 1")
		}
		r.retain = n
		return nil
	}
}

// NewRoot returns a handle on the artifact root at dir. Nothing is created
// until a build is staged.
func NewRoot(dir string, opts ...RootOption) (*Root, error) {
	r := &Root{
		dir:    dir,
		retain: DefaultRetain,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	r.logger = r.logger.With("component", "artifact", "root", dir)
	return r, nil
}

// Dir returns the root directory.
func (r *Root) Dir() string {
	return r.dir
}

// Current returns the name of the current version directory.
// Returns ErrModelNotFound when nothing has been published.
func (r *Root) Current() (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, currentFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: no published artifact in %s", ErrModelNotFound, r.dir)
		}
		return "", fmt.Errorf("%w: %w", ErrModelNotFound, err)
	}
	name := strings.TrimSpace(string(data))
	if _, ok := parseVersion(name); !ok {
		return "", fmt.Errorf("%w: invalid CURRENT pointer %q", ErrModelNotFound, name)
	}
	return name, nil
}

// Versions returns the published version numbers in ascending order.
func (r *Root) Versions() ([]int, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var versions []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if v, ok := parseVersion(entry.Name()); ok {
			versions = append(versions, v)
		}
	}
	slices.Sort(versions)
	return versions, nil
}

// Stage creates a fresh staging area, removing leftovers of interrupted builds.
func (r *Root) Stage() (*Staging, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating artifact root: %w", err)
	}
	r.removeStale()

	dir, err := os.MkdirTemp(r.dir, stagingPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("creating staging directory: %w", err)
	}
	r.logger.Debug("staging build", "dir", dir)
	return &Staging{root: r, dir: dir, logger: r.logger}, nil
}

// removeStale deletes staging directories left by interrupted builds.
func (r *Root) removeStale() {
	matches, err := filepath.Glob(filepath.Join(r.dir, stagingPrefix+"*"))
	if err != nil {
		return
	}
	for _, dir := range matches {
		r.logger.Warn("removing stale staging directory", "dir", dir)
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("failed to remove stale staging directory", "dir", dir, "error", err)
		}
	}
}

// publish moves a completed staging directory into place and swaps CURRENT.
func (r *Root) publish(stagingDir string, manifest *Manifest) (string, error) {
	versions, err := r.Versions()
	if err != nil {
		return "", fmt.Errorf("listing versions: %w", err)
	}
	next := 1
	if len(versions) > 0 {
		next = versions[len(versions)-1] + 1
	}
	name := formatVersion(next)

	manifest.Version = next
	manifest.FormatVersion = FormatVersion
	if err := writeManifest(filepath.Join(stagingDir, manifestFile), manifest); err != nil {
		return "", err
	}

	target := filepath.Join(r.dir, name)
	if err := os.Rename(stagingDir, target); err != nil {
		return "", fmt.Errorf("publishing %s: %w", name, err)
	}

	tmp := filepath.Join(r.dir, currentFile+".tmp")
	if err := writeFileSync(tmp, []byte(name+"\n")); err != nil {
		os.RemoveAll(target)
		return "", fmt.Errorf("writing CURRENT: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(r.dir, currentFile)); err != nil {
		os.Remove(tmp)
		os.RemoveAll(target)
		return "", fmt.Errorf("swapping CURRENT: %w", err)
	}
	syncDir(r.dir)

	r.logger.Info("published artifact", "version", name, "vocabulary", manifest.Vocabulary, "sections", manifest.IndexedSections)
	r.prune(next)
	return name, nil
}

// prune removes versions older than the retained window. The current
// version is never removed.
func (r *Root) prune(current int) {
	versions, err := r.Versions()
	if err != nil {
		r.logger.Warn("failed to list versions for pruning", "error", err)
		return
	}
	for _, v := range versions {
		if v == current || v > current-r.retain {
			continue
		}
		dir := filepath.Join(r.dir, formatVersion(v))
		if err := os.RemoveAll(dir); err != nil {
			r.logger.Warn("failed to prune version", "dir", dir, "error", err)
			continue
		}
		r.logger.Debug("pruned version", "dir", dir)
	}
}

func formatVersion(v int) string {
	return fmt.Sprintf("%s%06d", versionPrefix, v)
}

func parseVersion(name string) (int, bool) {
	digits, ok := strings.CutPrefix(name, versionPrefix)
	if !ok || len(digits) != 6 {
		return 0, false
	}
	v, err := strconv.Atoi(digits)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

// syncDir flushes directory entries so renames survive a crash.
func syncDir(dir string) {
	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}
}
