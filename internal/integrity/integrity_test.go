package integrity

import (
	"crypto/sha512"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sri builds the integrity string for the file at path.
func sri(path, algorithm string) (string, error) {
	digest, err := Digest(path, algorithm)
	if err != nil {
		return "", err
	}
	return algorithm + "-" + digest, nil
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestDigestEmptyFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "empty", nil)
	want := map[string]string{
		"sha256": "47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=",
		"sha384": "OLBgp1GsljhM2TJ+sbHjaiH9txEUvgdDTAzHv2P24donTt6/529l+9Ua0vFImLlb",
		"sha512": "z4PhNX7vuL3xVChQ1m2AB9Yg5AULVxXcg/SpIdNs6c5H0NE8XYXysP+DGNKHfuwvY7kxvUdBeoGlODJ6+SfaPg==",
	}
	for _, algo := range Supported() {
		got, err := Digest(path, algo)
		require.NoError(t, err, algo)
		assert.Equal(t, want[algo], got, algo)
	}
}

func TestDigestLargerThanChunk(t *testing.T) {
	t.Parallel()

	data := make([]byte, 3*chunkSize+17)
	for i := range data {
		data[i] = byte(i % 251)
	}
	path := writeFile(t, "big.bin", data)

	sum := sha512.Sum384(data)
	got, err := Digest(path, "SHA384")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(sum[:]), got)
}

func TestDigestMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Digest(filepath.Join(t.TempDir(), "nope"), "sha256")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		spec     string
		algo     string
		expected string
		wantErr  error
	}{
		{name: "sha384", spec: "sha384-AAAA", algo: "sha384", expected: "AAAA"},
		{name: "upper case algorithm", spec: "SHA256-abc=", algo: "sha256", expected: "abc="},
		{name: "splits on first dash", spec: "sha512-a-b", algo: "sha512", expected: "a-b"},
		{name: "empty digest", spec: "sha256-", algo: "sha256", expected: ""},
		{name: "no dash", spec: "bogus", wantErr: ErrInvalidFormat},
		{name: "empty", spec: "", wantErr: ErrInvalidFormat},
		{name: "md5", spec: "md5-AAAA", wantErr: ErrUnsupportedAlgorithm},
		{name: "sha1", spec: "sha1-AAAA", wantErr: ErrUnsupportedAlgorithm},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			algo, expected, err := Parse(tc.spec)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.algo, algo)
			assert.Equal(t, tc.expected, expected)
		})
	}
}

func TestVerifyFlipsOnOneByte(t *testing.T) {
	t.Parallel()

	data := []byte("hello integrity\n")
	path := writeFile(t, "file.txt", data)

	for _, algo := range Supported() {
		spec, err := sri(path, algo)
		require.NoError(t, err)

		ok, err := Verify(path, spec)
		require.NoError(t, err)
		assert.True(t, ok, algo)
	}

	spec, err := sri(path, "sha256")
	require.NoError(t, err)

	data[0] ^= 0x01
	require.NoError(t, os.WriteFile(path, data, 0o644))
	ok, err := Verify(path, spec)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyIsCaseSensitive(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "empty", nil)
	ok, err := Verify(path, "sha256-47deqpj8hbsa+/timw+5jceuqerkm5nmpjwzg3hsufu=")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyErrors(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "empty", nil)

	_, err := Verify(path, "md5-AAAA")
	require.ErrorIs(t, err, ErrUnsupportedAlgorithm)

	_, err = Verify(filepath.Join(t.TempDir(), "missing"), "sha256-AAAA")
	require.ErrorIs(t, err, ErrFileNotFound)
}

func TestInspect(t *testing.T) {
	t.Parallel()

	data := []byte("payload")
	path := writeFile(t, "payload", data)
	spec, err := sri(path, "sha512")
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		r := Inspect(path, spec)
		assert.Empty(t, r.Err)
		assert.True(t, r.Valid)
		assert.False(t, r.Failed())
		assert.Equal(t, "sha512", r.Algorithm)
		assert.Equal(t, r.Expected, r.Actual)
		assert.Equal(t, int64(len(data)), r.Size)
		assert.Equal(t, path, r.Path)
		assert.Empty(t, r.Reason())
	})

	t.Run("mismatch", func(t *testing.T) {
		t.Parallel()
		r := Inspect(path, "sha512-AAAA")
		assert.Empty(t, r.Err)
		assert.False(t, r.Valid)
		assert.True(t, r.Failed())
		assert.Equal(t, "AAAA", r.Expected)
		assert.Contains(t, r.Reason(), "mismatch")
	})

	t.Run("bad spec never panics", func(t *testing.T) {
		t.Parallel()
		r := Inspect(path, "nodash")
		assert.NotEmpty(t, r.Err)
		assert.True(t, r.Failed())
		assert.Equal(t, path, r.Path)
		assert.Equal(t, "nodash", r.Spec)
		assert.Zero(t, r.Size)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		r := Inspect(filepath.Join(t.TempDir(), "gone"), spec)
		assert.Contains(t, r.Err, "file not found")
	})
}
