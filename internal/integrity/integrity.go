// Package integrity verifies files against Subresource Integrity strings of
// the form "<algorithm>-<base64 digest>".
package integrity

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"errors"
	"fmt"
	"hash"
	"io"
	"os"
	"sort"
	"strings"
)

// chunkSize is the read buffer used while hashing.
const chunkSize = 8 * 1024

var (
	// ErrInvalidFormat is returned for integrity strings without a "-".
	ErrInvalidFormat = errors.New("invalid integrity format")
	// ErrUnsupportedAlgorithm is returned when the algorithm is not sha256, sha384 or sha512.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	// ErrFileNotFound is returned when the file to digest does not exist.
	ErrFileNotFound = errors.New("file not found")
)

var algorithms = map[string]func() hash.Hash{
	"sha256": sha256.New,
	"sha384": sha512.New384,
	"sha512": sha512.New,
}

// Supported lists the accepted algorithm names in sorted order.
func Supported() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Parse splits spec on its first "-" into a lower-cased algorithm and the
// expected base64 digest.
func Parse(spec string) (algorithm, expected string, err error) {
	algorithm, expected, ok := strings.Cut(spec, "-")
	if spec == "" || !ok {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidFormat, spec)
	}
	algorithm = strings.ToLower(algorithm)
	if _, ok := algorithms[algorithm]; !ok {
		return "", "", fmt.Errorf("%w: %s (supported: %s)", ErrUnsupportedAlgorithm, algorithm, strings.Join(Supported(), ", "))
	}
	return algorithm, expected, nil
}

// Digest hashes the file at path with algorithm and returns the standard
// base64 encoding of the raw digest.
func Digest(path, algorithm string) (string, error) {
	newHash, ok := algorithms[strings.ToLower(algorithm)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, algorithm)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := newHash()
	if _, err := io.CopyBuffer(h, f, make([]byte, chunkSize)); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil)), nil
}

// Verify reports whether the file at path matches spec. Parse and read
// failures are returned as errors, a mismatch is (false, nil).
func Verify(path, spec string) (bool, error) {
	algorithm, expected, err := Parse(spec)
	if err != nil {
		return false, err
	}
	actual, err := Digest(path, algorithm)
	if err != nil {
		return false, err
	}
	return actual == expected, nil
}

// Report is the diagnostic view of a verification. When Err is set the
// other fields other than Path and Spec are zero.
type Report struct {
	Algorithm string
	Expected  string
	Actual    string
	Valid     bool
	Path      string
	Spec      string
	Size      int64
	Err       string
}

// Inspect verifies path against spec and captures every failure in the
// returned Report instead of returning an error.
func Inspect(path, spec string) (report Report) {
	report = Report{Path: path, Spec: spec}
	defer func() {
		if r := recover(); r != nil {
			report = Report{Path: path, Spec: spec, Err: fmt.Sprint(r)}
		}
	}()

	algorithm, expected, err := Parse(spec)
	if err != nil {
		report.Err = err.Error()
		return report
	}
	actual, err := Digest(path, algorithm)
	if err != nil {
		report.Err = err.Error()
		return report
	}
	info, err := os.Stat(path)
	if err != nil {
		report.Err = err.Error()
		return report
	}

	report.Algorithm = algorithm
	report.Expected = expected
	report.Actual = actual
	report.Valid = actual == expected
	report.Size = info.Size()
	return report
}

// Failed reports whether the inspection errored or the digests differ.
func (r Report) Failed() bool {
	return r.Err != "" || !r.Valid
}

// Reason describes why the report failed, or "" when it is valid.
func (r Report) Reason() string {
	switch {
	case r.Err != "":
		return r.Err
	case !r.Valid:
		return fmt.Sprintf("%s mismatch: got %s, want %s", r.Algorithm, r.Actual, r.Expected)
	default:
		return ""
	}
}
