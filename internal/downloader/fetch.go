package downloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"rav/internal/logger"
)

// userAgent is sent with every download request.
const userAgent = "rav-downloader"

// fetchFile downloads the content located at rawURL and saves it to destPath.
// Failures are returned as *FileError tagged network or filesystem. A partially
// written destPath is removed.
func (d *Downloader) fetchFile(ctx context.Context, rawURL, destPath string) (written int64, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, &FileError{Kind: KindNetwork, Err: fmt.Errorf("invalid request for %s: %w", rawURL, err)}
	}
	req.Header.Set("User-Agent", userAgent)

	// Make an HTTP GET request to the given URL
	resp, err := d.client().Do(req)
	if err != nil {
		return 0, &FileError{Kind: KindNetwork, Err: fmt.Errorf("failed to GET %s: %w", rawURL, err)}
	}
	// Ensure the response body stream is closed when the function returns
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Debug("[DEBUG] Failed to close response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &FileError{Kind: KindNetwork, Err: fmt.Errorf("GET %s: HTTP status %s", rawURL, resp.Status)}
	}

	// Create or truncate the file at destPath to write the downloaded content
	out, err := os.Create(destPath)
	if err != nil {
		return 0, &FileError{Kind: KindFilesystem, Err: fmt.Errorf("failed to create file %s: %w", destPath, err)}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &FileError{Kind: KindFilesystem, Err: fmt.Errorf("failed to close %s: %w", destPath, cerr)}
		}
		if err != nil {
			_ = os.Remove(destPath)
		}
	}()

	// Copy the entire response body (downloaded data) into the destination file
	written, err = io.Copy(out, resp.Body)
	if err != nil {
		kind := KindNetwork
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			kind = KindFilesystem
		}
		return written, &FileError{Kind: kind, Err: fmt.Errorf("failed to write response to %s: %w", destPath, err)}
	}

	logger.Debug("[DEBUG] Downloaded %d bytes from %s to %s\n", written, rawURL, destPath)
	return written, nil
}

// fetchReplace downloads rawURL into a temporary file next to destPath and
// renames it over destPath once the body is complete. A failed transfer
// leaves any existing destPath untouched.
func (d *Downloader) fetchReplace(ctx context.Context, rawURL, destPath string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), "."+filepath.Base(destPath)+".*.partial")
	if err != nil {
		return 0, &FileError{Kind: KindFilesystem, Err: fmt.Errorf("create temp file failed: %w", err)}
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return 0, &FileError{Kind: KindFilesystem, Err: fmt.Errorf("close failed: %w", err)}
	}

	written, err := d.fetchFile(ctx, rawURL, tmpName)
	if err != nil {
		_ = os.Remove(tmpName)
		return written, err
	}
	_ = os.Chmod(tmpName, 0o644)

	if err := os.Rename(tmpName, destPath); err != nil {
		_ = os.Remove(tmpName)
		return written, &FileError{Kind: KindFilesystem, Err: fmt.Errorf("rename failed: %w", err)}
	}
	return written, nil
}

// filenameFromURL returns the last path segment of rawURL, ignoring any
// query string or fragment.
func filenameFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if p == "" {
		return ""
	}
	name := path.Base(p)
	if name == "." || name == "/" || strings.Contains(name, ":") {
		return ""
	}
	return name
}

// copyFile copies src to dst through a temporary file in dst's directory and
// renames it into place, so readers never observe a partial dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.partial")
	if err != nil {
		return fmt.Errorf("create temp file failed: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close failed: %w", err)
	}

	// Preserve the source permissions where possible
	if stat, err := os.Stat(src); err == nil {
		_ = os.Chmod(tmpName, stat.Mode().Perm())
	}

	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename failed: %w", err)
	}
	return nil
}
