package pack

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
)

// DefaultExclude is applied to archive steps that do not list their own patterns.
var DefaultExclude = []string{"*CVS*"}

// Archiver packs the contents of a directory into an archive file.
type Archiver interface {
	// Archive writes every file below source, except excluded ones, to output and
	// returns the archived file names relative to source using forward slashes.
	Archive(ctx context.Context, source, output string, exclude []string) ([]string, error)
}

// Excluded reports whether any component of the slash separated path rel
// matches one of the glob patterns.
func Excluded(rel string, patterns []string) bool {
	for _, part := range strings.Split(rel, "/") {
		for _, p := range patterns {
			if ok, _ := path.Match(p, part); ok {
				return true
			}
		}
	}
	return false
}

type entry struct {
	name string
	path string
	info fs.FileInfo
}

// collect walks source in lexical order. skip is an absolute path never
// included, so an archive written inside its own source is not archived.
func collect(ctx context.Context, source, skip string, exclude []string) ([]entry, error) {
	source = filepath.Clean(source)
	info, err := os.Stat(source)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", source)
	}

	var entries []entry
	err = filepath.WalkDir(source, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if p == source || p == skip {
			return nil
		}
		rel, err := filepath.Rel(source, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if Excluded(rel, exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		entries = append(entries, entry{name: rel, path: p, info: fi})
		return nil
	})
	return entries, err
}

func fileNames(entries []entry) []string {
	var names []string
	for _, e := range entries {
		if !e.info.IsDir() {
			names = append(names, e.name)
		}
	}
	return names
}

// ZipArchiver writes zip files using klauspost deflate at best compression.
type ZipArchiver struct {
	Level int
}

func NewZipArchiver() *ZipArchiver {
	return &ZipArchiver{Level: flate.BestCompression}
}

func (z *ZipArchiver) Archive(ctx context.Context, source, output string, exclude []string) (names []string, err error) {
	output, err = filepath.Abs(output)
	if err != nil {
		return nil, err
	}
	entries, err := collect(ctx, source, output, exclude)
	if err != nil {
		return nil, err
	}

	if err = os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cErr := f.Close(); err == nil {
			err = cErr
		}
		if err != nil {
			_ = os.Remove(output)
		}
	}()

	zw := zip.NewWriter(f)
	zw.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, z.Level)
	})

	for _, e := range entries {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = addToZip(zw, e); err != nil {
			return nil, fmt.Errorf("cannot add %s to %s: %w", e.name, output, err)
		}
	}
	if err = zw.Close(); err != nil {
		return nil, err
	}
	return fileNames(entries), nil
}

func addToZip(zw *zip.Writer, e entry) error {
	hdr, err := zip.FileInfoHeader(e.info)
	if err != nil {
		return err
	}
	hdr.Name = e.name
	if e.info.IsDir() {
		hdr.Name += "/"
		hdr.Method = zip.Store
		_, err = zw.CreateHeader(hdr)
		return err
	}
	hdr.Method = zip.Deflate

	w, err := zw.CreateHeader(hdr)
	if err != nil {
		return err
	}
	src, err := os.Open(e.path)
	if err != nil {
		return err
	}
	defer src.Close()
	_, err = io.Copy(w, src)
	return err
}

// SevenZipArchiver shells out to 7-Zip.
type SevenZipArchiver struct {
	Binary string
	Runner CommandRunner
}

func NewSevenZipArchiver(binary string, runner CommandRunner) *SevenZipArchiver {
	return &SevenZipArchiver{Binary: binary, Runner: runner}
}

// Archive runs `7z a -r <output> -x!<pattern>... <source>/*`. An existing
// output is removed first so the archive never keeps stale entries.
func (s *SevenZipArchiver) Archive(ctx context.Context, source, output string, exclude []string) ([]string, error) {
	output, err := filepath.Abs(output)
	if err != nil {
		return nil, err
	}
	entries, err := collect(ctx, source, output, exclude)
	if err != nil {
		return nil, err
	}
	if err = os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if err = os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return nil, err
	}

	args := []string{"a", "-r", output}
	for _, p := range exclude {
		args = append(args, "-x!"+p)
	}
	args = append(args, filepath.Join(source, "*"))

	if out, err := s.Runner.Run(ctx, source, s.Binary, args...); err != nil {
		return nil, &ExecError{Command: append([]string{s.Binary}, args...), Output: string(out), Wrapped: err}
	}
	return fileNames(entries), nil
}
