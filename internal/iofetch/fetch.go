// Package iofetch downloads GeoNames files and unpacks zip archives.
//
// Every remote fetch gets its own temporary directory. The directory is
// removed by Payload.Close, and also by Fetch itself when it fails, so
// nothing is left behind on any exit path. Local files are used in place.
package iofetch

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

var zipMagic = []byte("PK\x03\x04")

// Payload is a fetched data file.
type Payload struct {
	// Path is the text file to parse.
	Path string

	// dir is the scoped temporary directory, empty for local files.
	dir string
}

// Close removes temporary files of the payload. It is safe to call more
// than once.
func (p *Payload) Close() error {
	if p == nil || p.dir == "" {
		return nil
	}
	dir := p.dir
	p.dir = ""
	return os.RemoveAll(dir)
}

// Fetcher obtains payloads from URLs or local paths.
type Fetcher struct {
	client  *http.Client
	tempDir string
}

// New creates a Fetcher that keeps downloads under tempDir.
func New(tempDir string) *Fetcher {
	return &Fetcher{client: http.DefaultClient, tempDir: tempDir}
}

// NewWithClient creates a Fetcher with a custom HTTP client.
func NewWithClient(tempDir string, client *http.Client) *Fetcher {
	return &Fetcher{client: client, tempDir: tempDir}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Fetch returns the data file behind location. Remote files are
// downloaded, zip archives are extracted. The caller must Close the
// payload.
func (f *Fetcher) Fetch(ctx context.Context, location string) (*Payload, error) {
	if !IsRemote(location) {
		return f.local(location)
	}

	if err := os.MkdirAll(f.tempDir, 0755); err != nil {
		return nil, WriteError(f.tempDir, err)
	}
	dir, err := os.MkdirTemp(f.tempDir, "fetch-*")
	if err != nil {
		return nil, WriteError(f.tempDir, err)
	}
	res := &Payload{dir: dir}

	file, err := f.download(ctx, location, dir)
	if err == nil {
		res.Path, err = unpack(file, dir)
	}
	if err != nil {
		_ = res.Close()
		return nil, err
	}
	return res, nil
}

// local uses the file in place. Zip files still need a scoped directory
// for the extracted data.
func (f *Fetcher) local(location string) (*Payload, error) {
	isZip, err := isZipFile(location)
	if err != nil {
		return nil, UnzipError(location, err)
	}
	if !isZip {
		return &Payload{Path: location}, nil
	}

	if err = os.MkdirAll(f.tempDir, 0755); err != nil {
		return nil, WriteError(f.tempDir, err)
	}
	dir, err := os.MkdirTemp(f.tempDir, "unzip-*")
	if err != nil {
		return nil, WriteError(f.tempDir, err)
	}
	res := &Payload{dir: dir}
	res.Path, err = extract(location, dir)
	if err != nil {
		_ = res.Close()
		return nil, err
	}
	return res, nil
}

func (f *Fetcher) download(ctx context.Context, location, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", RequestError(location, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", RequestError(location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", StatusError(location, resp.StatusCode)
	}

	name := path.Base(req.URL.Path)
	if name == "" || name == "/" || name == "." {
		name = "download"
	}
	file := filepath.Join(dir, name)
	out, err := os.Create(file)
	if err != nil {
		return "", WriteError(file, err)
	}
	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", RequestError(location, ctx.Err())
		}
		return "", WriteError(file, err)
	}

	slog.Info("Downloaded", "url", location, "size", humanize.Bytes(uint64(n)))
	return file, nil
}

func unpack(file, dir string) (string, error) {
	isZip, err := isZipFile(file)
	if err != nil {
		return "", UnzipError(file, err)
	}
	if !isZip {
		return file, nil
	}
	res, err := extract(file, dir)
	if err != nil {
		return "", err
	}
	// the archive is not needed after extraction
	_ = os.Remove(file)
	return res, nil
}

// isZipFile checks the suffix and the magic bytes.
func isZipFile(file string) (bool, error) {
	if strings.EqualFold(filepath.Ext(file), ".zip") {
		return true, nil
	}
	f, err := os.Open(file)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, len(zipMagic))
	n, err := io.ReadFull(f, head)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return bytes.Equal(head[:n], zipMagic), nil
}

// extract writes the data file of the archive into dir. readme.txt is
// ignored. A file named after the archive wins, otherwise the first
// text file is taken.
func extract(archive, dir string) (string, error) {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return "", UnzipError(archive, err)
	}
	defer r.Close()

	zf := payloadFile(r.File, archive)
	if zf == nil {
		return "", PayloadError(archive)
	}

	src, err := zf.Open()
	if err != nil {
		return "", UnzipError(archive, err)
	}
	defer src.Close()

	file := filepath.Join(dir, filepath.Base(zf.Name))
	out, err := os.Create(file)
	if err != nil {
		return "", WriteError(file, err)
	}
	_, err = io.Copy(out, src)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", UnzipError(archive, err)
	}
	return file, nil
}

func payloadFile(files []*zip.File, archive string) *zip.File {
	stem := strings.TrimSuffix(filepath.Base(archive), filepath.Ext(archive))
	var first *zip.File
	for _, zf := range files {
		if zf.FileInfo().IsDir() {
			continue
		}
		base := filepath.Base(zf.Name)
		if !strings.EqualFold(filepath.Ext(base), ".txt") ||
			strings.EqualFold(base, "readme.txt") {
			continue
		}
		if strings.EqualFold(strings.TrimSuffix(base, filepath.Ext(base)), stem) {
			return zf
		}
		if first == nil {
			first = zf
		}
	}
	return first
}
