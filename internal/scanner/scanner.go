// Package scanner walks local directory trees once, classifying every regular
// file and indexing content digests for duplicate detection.
package scanner

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"golang.org/x/sync/errgroup"

	"github.com/dbsmedya/stackburn/internal/config"
	"github.com/dbsmedya/stackburn/internal/dupes"
	"github.com/dbsmedya/stackburn/internal/filetype"
	"github.com/dbsmedya/stackburn/internal/logger"
	"github.com/dbsmedya/stackburn/internal/types"
)

// Options controls a scan. Use OptionsFromConfig to build it from configuration.
type Options struct {
	SkipNames         []string
	TemporaryPatterns []string
	Workers           int
	HashAlgorithm     string
	ReadBufferBytes   int
	HashCeilingBytes  int64
	LargeFileBytes    int64
	StaleDays         int
	KeepStrategy      string
	LargestLimit      int
	UnusedLimit       int
	TemporaryLimit    int
}

// OptionsFromConfig extracts scan options from the application configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		SkipNames:         cfg.Scan.SkipNames,
		TemporaryPatterns: cfg.Scan.TemporaryPatterns,
		Workers:           cfg.Scan.Workers,
		HashAlgorithm:     cfg.Scan.HashAlgorithm,
		ReadBufferBytes:   cfg.Scan.ReadBufferBytes,
		HashCeilingBytes:  cfg.Thresholds.HashCeilingBytes,
		LargeFileBytes:    cfg.Thresholds.LargeFileBytes,
		StaleDays:         cfg.Thresholds.StaleDays,
		KeepStrategy:      cfg.Scan.KeepStrategy,
		LargestLimit:      cfg.Scan.LargestLimit,
		UnusedLimit:       cfg.Scan.UnusedLimit,
		TemporaryLimit:    cfg.Scan.TemporaryLimit,
	}
}

// Result is the raw outcome of a traversal.
type Result struct {
	Records     []types.FileRecord
	Index       map[string][]types.FileRecord // digest -> files
	Directories int64
	Warnings    []string
	ScannedAt   time.Time
}

// TotalSize sums the sizes of all records.
func (r *Result) TotalSize() int64 {
	var total int64
	for _, rec := range r.Records {
		total += rec.Size
	}
	return total
}

// Scanner walks directory trees on a billy filesystem.
type Scanner struct {
	fs       billy.Filesystem
	opts     Options
	skip     map[string]struct{}
	hasher   *Hasher
	strategy dupes.KeepStrategy
	resolve  func(root string) (string, error)
	logger   *logger.Logger
	now      func() time.Time
}

// New creates a Scanner over fs.
//
// Parameters:
//   - fs: filesystem to walk (osfs for the real disk, memfs in tests)
//   - opts: skip rules, thresholds, sample limits and concurrency
//   - log: logger for progress and warnings (nil uses the default logger)
func New(fs billy.Filesystem, opts Options, log *logger.Logger) (*Scanner, error) {
	if log == nil {
		log = logger.NewDefault()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.HashCeilingBytes <= 0 || opts.LargeFileBytes <= 0 {
		return nil, fmt.Errorf("hash ceiling and large file threshold must be positive")
	}
	if opts.HashCeilingBytes >= opts.LargeFileBytes {
		return nil, fmt.Errorf("hash ceiling (%d) must be smaller than the large file threshold (%d)",
			opts.HashCeilingBytes, opts.LargeFileBytes)
	}
	for _, p := range opts.TemporaryPatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid temporary pattern %q", p)
		}
	}

	hasher, err := NewHasher(opts.HashAlgorithm, opts.ReadBufferBytes)
	if err != nil {
		return nil, err
	}
	strategy, err := dupes.ParseStrategy(opts.KeepStrategy)
	if err != nil {
		return nil, err
	}

	skip := make(map[string]struct{}, len(opts.SkipNames))
	for _, name := range opts.SkipNames {
		skip[name] = struct{}{}
	}

	return &Scanner{
		fs:       fs,
		opts:     opts,
		skip:     skip,
		hasher:   hasher,
		strategy: strategy,
		resolve:  cleanRoot,
		logger:   log,
		now:      time.Now,
	}, nil
}

// NewOS creates a Scanner over the operating system filesystem. Relative
// roots are resolved against the working directory.
func NewOS(opts Options, log *logger.Logger) (*Scanner, error) {
	s, err := New(osfs.New(""), opts, log)
	if err != nil {
		return nil, err
	}
	s.resolve = filepath.Abs
	return s, nil
}

func cleanRoot(root string) (string, error) {
	return filepath.Clean(root), nil
}

// SetClock replaces the clock used for stale classification.
func (s *Scanner) SetClock(now func() time.Time) {
	s.now = now
}

// shouldSkip reports whether an entry and its subtree are pruned.
func (s *Scanner) shouldSkip(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := s.skip[name]
	return ok
}

// partial is the private output of one walk job. Jobs never share state;
// partials are merged after every job has finished.
type partial struct {
	records     []types.FileRecord
	directories int64
	warnings    []string
}

func (p *partial) warn(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

// normalizeRoots resolves roots and drops repeats and roots nested inside
// another root, so every file is visited once. A nested root whose path
// below its ancestor crosses a skipped name is kept, since the ancestor's
// walk prunes it.
func (s *Scanner) normalizeRoots(roots []string) ([]string, error) {
	resolved := make([]string, 0, len(roots))
	seen := make(map[string]struct{}, len(roots))
	for _, root := range roots {
		r, err := s.resolve(root)
		if err != nil {
			return nil, fmt.Errorf("scan root %s: %w", root, err)
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		resolved = append(resolved, r)
	}

	out := make([]string, 0, len(resolved))
	for _, r := range resolved {
		covered := false
		for _, other := range resolved {
			if other != r && s.covers(other, r) {
				covered = true
				break
			}
		}
		if covered {
			s.logger.Debugf("Dropping root %s: already covered by another root", r)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// covers reports whether walking ancestor visits root.
func (s *Scanner) covers(ancestor, root string) bool {
	rel, err := filepath.Rel(ancestor, root)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	for _, name := range strings.Split(filepath.ToSlash(rel), "/") {
		if s.shouldSkip(name) {
			return false
		}
	}
	return true
}

// Scan walks every root and returns the records and digest index.
//
// Roots are cleaned (made absolute on the OS filesystem), and repeated or
// nested roots are collapsed. Each top-level subdirectory of a root is walked by its own job, bounded by
// the configured worker count. Unreadable entries are skipped and reported
// as warnings. When ctx is canceled the walk stops at the next file boundary
// and the partial result is returned together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, roots []string) (*Result, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("no scan roots given")
	}
	roots, err := s.normalizeRoots(roots)
	if err != nil {
		return nil, err
	}

	var jobs []string
	rootFiles := make([]partial, len(roots))

	for i, root := range roots {
		info, err := s.fs.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("scan root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("scan root %s: not a directory", root)
		}

		s.logger.WithRoot(root).Infof("Scanning %s with %d workers (%s)",
			root, s.opts.Workers, s.hasher.Algorithm())

		// The root itself is never skip-checked.
		subdirs, err := s.readDir(ctx, root, &rootFiles[i])
		if err != nil {
			return s.merge(rootFiles, nil), err
		}
		rootFiles[i].directories++
		jobs = append(jobs, subdirs...)
	}

	parts := make([]partial, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)

	for i, dir := range jobs {
		g.Go(func() error {
			return s.walk(gctx, dir, &parts[i])
		})
	}

	err = g.Wait()
	result := s.merge(rootFiles, parts)

	if err != nil {
		s.logger.Warnf("Scan interrupted after %d files: %v", len(result.Records), err)
		return result, err
	}

	s.logger.Infof("Scan complete: %d files, %d directories, %d warnings",
		len(result.Records), result.Directories, len(result.Warnings))
	return result, nil
}

// walk visits dir and everything below it.
func (s *Scanner) walk(ctx context.Context, dir string, p *partial) error {
	p.directories++

	subdirs, err := s.readDir(ctx, dir, p)
	if err != nil {
		return err
	}
	for _, sub := range subdirs {
		if err := s.walk(ctx, sub, p); err != nil {
			return err
		}
	}
	return nil
}

// readDir records the regular files of dir and returns the subdirectories
// to descend into, in name order.
func (s *Scanner) readDir(ctx context.Context, dir string, p *partial) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := s.fs.ReadDir(dir)
	if err != nil {
		p.warn("read directory %s: %v", dir, err)
		return nil, nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		if s.shouldSkip(name) {
			continue
		}
		full := s.fs.Join(dir, name)

		switch {
		case entry.IsDir():
			subdirs = append(subdirs, full)
		case entry.Mode().IsRegular():
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			p.records = append(p.records, s.record(full, entry, p))
		}
	}
	return subdirs, nil
}

// record builds the FileRecord of one regular file, hashing it when it is
// non-empty and below the hashing ceiling.
func (s *Scanner) record(full string, info os.FileInfo, p *partial) types.FileRecord {
	name := info.Name()
	rec := types.FileRecord{
		Path:         full,
		Name:         name,
		Extension:    strings.TrimPrefix(path.Ext(name), "."),
		Size:         info.Size(),
		ModifiedTime: info.ModTime(),
		IsHidden:     strings.HasPrefix(name, "."),
	}
	rec.AccessedTime, rec.Device, rec.Inode = fileStat(info)

	if rec.Size > 0 && rec.Size < s.opts.HashCeilingBytes {
		digest, err := s.hasher.HashFile(s.fs, full, name)
		if err != nil {
			p.warn("hash %s: %v", full, err)
		} else {
			rec.Hash = digest.Sum
			rec.Bucket = digest.Bucket
		}
	}
	if rec.Bucket == "" {
		rec.Bucket = filetype.FromName(name)
	}
	return rec
}

// merge concatenates partials in job order and builds the digest index. A
// path already merged is dropped, so no file is counted twice.
func (s *Scanner) merge(rootFiles, parts []partial) *Result {
	result := &Result{
		Index:     make(map[string][]types.FileRecord),
		ScannedAt: s.now(),
	}

	seen := make(map[string]struct{})
	add := func(p partial) {
		result.Directories += p.directories
		result.Warnings = append(result.Warnings, p.warnings...)
		for _, rec := range p.records {
			if _, dup := seen[rec.Path]; dup {
				continue
			}
			seen[rec.Path] = struct{}{}
			result.Records = append(result.Records, rec)
			if rec.Hash != "" {
				result.Index[rec.Hash] = append(result.Index[rec.Hash], rec)
			}
		}
	}
	for _, p := range rootFiles {
		add(p)
	}
	for _, p := range parts {
		add(p)
	}

	for _, w := range result.Warnings {
		s.logger.Debugf("Scan warning: %s", w)
	}
	return result
}
