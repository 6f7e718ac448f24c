package vcproj

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/pdfedit/wintools/internal/fsh"
)

// Ext is the extension of Visual Studio 2008 project files.
const Ext = ".vcproj"

var (
	guidPattern = regexp.MustCompile(`"\{(\S+-\S+-\S+-\S+-\S+)\}"`)
	namePattern = regexp.MustCompile(`Name="(\S+)"`)
)

// Project is what a line scan of a .vcproj file yields.
type Project struct {
	Name string
	// GUID is the first GUID in the file, upper-cased. For files written by
	// Render it is the ProjectGUID.
	GUID string
	Path string
	// GUIDs holds every GUID mentioned in the file.
	GUIDs []string
}

// ParseProject scans the lines of a project file for its name and GUIDs.
// Fields that are not found are left empty.
func ParseProject(r io.Reader, path string) (*Project, error) {
	p := &Project{Path: path}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if m := guidPattern.FindStringSubmatch(line); m != nil {
			g := strings.ToUpper(m[1])
			if p.GUID == "" {
				p.GUID = g
			}
			p.GUIDs = append(p.GUIDs, g)
		}
		if p.Name == "" {
			if m := namePattern.FindStringSubmatch(line); m != nil {
				p.Name = m[1]
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	return p, nil
}

// ScanDir parses every project file in dir concurrently. Results are ordered
// by file name. A missing directory yields no projects.
func ScanDir(ctx context.Context, dir string) ([]*Project, error) {
	names, err := fsh.ListFiles(dir, Ext)
	if err != nil {
		return nil, err
	}

	projects := make([]*Project, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(dir, name)
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			p, err := ParseProject(f, path)
			if err != nil {
				return err
			}
			projects[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return projects, nil
}

// KnownGUIDs returns every GUID mentioned by projects, upper-cased, sorted and
// without duplicates.
func KnownGUIDs(projects []*Project) []string {
	var all []string
	for _, p := range projects {
		all = append(all, p.GUIDs...)
	}
	return normalise(all)
}
