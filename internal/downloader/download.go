// Package downloader fetches the files of a download spec, verifying
// integrity through a staging directory before anything reaches its final
// path.
package downloader

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"rav/internal/config"
	"rav/internal/integrity"
	"rav/internal/logger"
)

// ErrMissingDestination is returned when a file has no destination of its
// own and the download spec does not provide one either.
var ErrMissingDestination = errors.New("no destination configured")

// ErrMissingURL is returned for a file descriptor without a url.
var ErrMissingURL = errors.New("no url configured")

// Kind classifies a per-file failure.
type Kind string

const (
	KindNetwork    Kind = "network"
	KindIntegrity  Kind = "integrity"
	KindFilesystem Kind = "filesystem"
	KindExtract    Kind = "extract"
)

// FileError is the failure of one file of a batch.
type FileError struct {
	Filename string
	Kind     Kind
	Err      error
}

func (e *FileError) Error() string {
	if e.Filename == "" {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s error for %s: %v", e.Kind, e.Filename, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Status is the per-file result of a batch.
type Status int

const (
	StatusDownloaded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Result reports what happened to one file.
type Result struct {
	Filename string
	URL      string
	// Path is the final path of the file.
	Path   string
	Status Status
	Size   int64
	// Extracted counts the files unpacked from an archive.
	Extracted int
	Err       *FileError
}

// Summary aggregates the results of a batch in file order.
type Summary struct {
	Name       string
	Results    []Result
	Downloaded int
	Skipped    int
	Failed     int
}

func (s *Summary) add(r Result) {
	s.Results = append(s.Results, r)
	switch r.Status {
	case StatusDownloaded:
		s.Downloaded++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}

// FailedBy counts failures of the given kind.
func (s *Summary) FailedBy(kind Kind) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == StatusFailed && r.Err != nil && r.Err.Kind == kind {
			n++
		}
	}
	return n
}

// Downloader processes download specs one file at a time.
type Downloader struct {
	// Client performs the GET requests; http.DefaultClient when nil.
	Client *http.Client
	// StagingDir holds files awaiting integrity verification.
	StagingDir string
}

// New returns a Downloader staging verified downloads in stagingDir.
func New(client *http.Client, stagingDir string) *Downloader {
	return &Downloader{Client: client, StagingDir: stagingDir}
}

func (d *Downloader) client() *http.Client {
	if d.Client == nil {
		return http.DefaultClient
	}
	return d.Client
}

// Run downloads every file of spec in order. A failed file is recorded and
// the batch continues, unless spec.RaiseOnError is set, in which case Run
// stops and returns the summary so far together with the file's error.
// Staged files are purged before Run returns.
func (d *Downloader) Run(ctx context.Context, spec config.DownloadSpec) (*Summary, error) {
	if err := validate(spec); err != nil {
		return nil, fmt.Errorf("download '%s': %w", spec.Name, err)
	}

	verbose := spec.IsVerbose()
	total := len(spec.Files)
	summary := &Summary{Name: spec.Name}

	printHeader(spec)
	defer d.purgeStaging()

	for i, file := range spec.Files {
		if verbose {
			logger.Info("[%d/%d] ", i+1, total)
		}
		res := d.fetchOne(ctx, spec, file, verbose)
		summary.add(res)

		if res.Status == StatusFailed {
			reportFailure(res, verbose)
			if spec.RaiseOnError {
				printSummary(summary)
				return summary, fmt.Errorf("download '%s' aborted: %w", spec.Name, res.Err)
			}
		}
		if err := ctx.Err(); err != nil {
			printSummary(summary)
			return summary, fmt.Errorf("download '%s' cancelled: %w", spec.Name, err)
		}
	}

	printSummary(summary)
	return summary, nil
}

// validate rejects specs whose files cannot be placed anywhere before any
// request is made.
func validate(spec config.DownloadSpec) error {
	for i, f := range spec.Files {
		if f.URL == "" {
			return fmt.Errorf("file #%d: %w", i+1, ErrMissingURL)
		}
		if f.DestinationFor(spec) == "" {
			return fmt.Errorf("file #%d (%s): %w", i+1, f.URL, ErrMissingDestination)
		}
	}
	return nil
}

// fetchOne processes a single file descriptor. Overrides apply to this file
// only.
func (d *Downloader) fetchOne(ctx context.Context, spec config.DownloadSpec, file config.FileDescriptor, verbose bool) Result {
	dest := file.DestinationFor(spec)
	overwrite := file.OverwriteFor(spec)
	res := Result{URL: file.URL}

	if verbose && file.Destination != "" {
		logger.Muted("   → Using destination from file config: %s\n", dest)
	}
	if verbose && file.Overwrite != nil {
		logger.Muted("   → Using overwrite from file config: %t\n", overwrite)
	}

	filename := file.ExplicitName()
	if filename == "" {
		filename = filenameFromURL(file.URL)
		if verbose {
			logger.Muted("   → Using filename from URL: %s\n", filename)
		}
	}
	res.Filename = filename
	fail := func(kind Kind, err error) Result {
		var fe *FileError
		if errors.As(err, &fe) {
			kind = fe.Kind
			err = fe.Err
		}
		res.Status = StatusFailed
		res.Err = &FileError{Filename: filename, Kind: kind, Err: err}
		return res
	}
	if filename == "" {
		return fail(KindFilesystem, fmt.Errorf("cannot derive a filename from %s", file.URL))
	}

	if file.Extract && !IsArchive(filename) {
		return fail(KindExtract, fmt.Errorf("%w: %s", ErrUnsupportedArchive, filename))
	}

	if err := os.MkdirAll(dest, 0755); err != nil {
		return fail(KindFilesystem, fmt.Errorf("failed to create destination %s: %w", dest, err))
	}
	final := filepath.Join(dest, filename)
	res.Path = final

	if _, err := os.Stat(final); err == nil && !overwrite {
		if verbose {
			logger.Warn("⏭  Skipping existing file: %s\n", filename)
		} else {
			logger.Warn("⏭  Skipping: %s\n", filename)
		}
		res.Status = StatusSkipped
		return res
	}

	if verbose {
		logger.Info("⬇  Downloading: %s\n", filename)
		logger.Muted("   → From: %s\n", file.URL)
	} else {
		logger.Info("⬇  %s\n", filename)
	}

	if file.Integrity != "" {
		staged, err := d.stagePath(filename)
		if err != nil {
			return fail(KindFilesystem, err)
		}
		if verbose {
			logger.Muted("   → Downloading to temp for verification: %s\n", staged)
		}
		if _, err := d.fetchFile(ctx, file.URL, staged); err != nil {
			discard(staged)
			return fail(KindNetwork, err)
		}

		if verbose {
			logger.Muted("   → Integrity: %s\n", file.Integrity)
		}
		report := integrity.Inspect(staged, file.Integrity)
		if report.Failed() {
			discard(staged)
			return fail(KindIntegrity, errors.New(report.Reason()))
		}
		if verbose {
			logger.Success("   ✅ Integrity verified (%s)\n", report.Algorithm)
			logger.Muted("   → Downloaded to final destination: %s\n", final)
		}
		if err := promote(staged, final); err != nil {
			discard(staged)
			return fail(KindFilesystem, err)
		}
	} else {
		if _, err := d.fetchReplace(ctx, file.URL, final); err != nil {
			return fail(KindNetwork, err)
		}
	}

	info, err := os.Stat(final)
	if err != nil {
		return fail(KindFilesystem, err)
	}
	res.Size = info.Size()

	if file.Extract {
		n, err := ExtractArchive(final, dest)
		if err != nil {
			return fail(KindExtract, fmt.Errorf("failed to extract %s: %w", filename, err))
		}
		res.Extracted = n
		if verbose {
			logger.Muted("   → Extracted %d files into %s\n", n, dest)
		}
	}

	if verbose {
		logger.Success("   ✅ Success! (%s bytes)\n", groupDigits(res.Size))
	} else {
		logger.Success("✅ %s (%s bytes)\n", filename, groupDigits(res.Size))
	}
	res.Status = StatusDownloaded
	return res
}

func printHeader(spec config.DownloadSpec) {
	logger.Info("\n📥 Starting download: %s\n", spec.Name)
	if !spec.IsVerbose() {
		logger.Muted("Downloading %d files...\n\n", len(spec.Files))
		return
	}
	logger.Muted("Destination: %s\n", spec.Destination)
	logger.Muted("Files to download: %d\n", len(spec.Files))
	logger.Muted("Overwrite existing: %t\n", spec.Overwrite)
	logger.Muted("Verbose mode: %t\n", spec.IsVerbose())
	logger.Muted("Raise on error: %t\n\n", spec.RaiseOnError)
}

func reportFailure(res Result, verbose bool) {
	if verbose {
		logger.Error("   ❌ %v\n", res.Err.Err)
		return
	}
	logger.Error("❌ %s failed: %s\n", res.Err.Kind, res.Filename)
}

func printSummary(s *Summary) {
	logger.Info("\n---------------------------------------\n")
	logger.Success("📊 Download Summary:\n")
	logger.Success("   ✅ Downloaded: %d files\n", s.Downloaded)
	if s.Skipped > 0 {
		logger.Warn("   ⏭  Skipped: %d files\n", s.Skipped)
	}
	if s.Failed > 0 {
		logger.Error("   ❌ Failed: %d files\n", s.Failed)
		for _, kind := range []Kind{KindNetwork, KindIntegrity, KindFilesystem, KindExtract} {
			if n := s.FailedBy(kind); n > 0 {
				logger.Error("      %s: %d\n", kind, n)
			}
		}
	}
	logger.Info("---------------------------------------\n\n")
}

// groupDigits formats n with comma thousands separators.
func groupDigits(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
