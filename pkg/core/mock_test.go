package core_test

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/aretw0/miniapp/pkg/core"
)

// MemStorage implements core.Storage in memory.
type MemStorage struct {
	files  map[string][]byte
	writes int
}

func NewMemStorage() *MemStorage {
	return &MemStorage{files: make(map[string][]byte)}
}

func (m *MemStorage) Open(path string) (io.ReadCloser, error) {
	b, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: path, Err: os.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *MemStorage) Write(path string, fn func(io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	m.files[filepath.Clean(path)] = buf.Bytes()
	m.writes++
	return nil
}

func (m *MemStorage) Put(path, content string) {
	m.files[filepath.Clean(path)] = []byte(content)
}

func (m *MemStorage) Get(path string) (string, bool) {
	b, ok := m.files[filepath.Clean(path)]
	return string(b), ok
}

func (m *MemStorage) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// item is a record identified by ID.
type item struct {
	ID   int
	Name string
}

func (i item) RecordID() int { return i.ID }

// lineAdapter stores one "id|name" record per line.
type lineAdapter struct {
	format string
	marker string // optional first line, used for sniffing
}

func (a *lineAdapter) FormatName() string { return a.format }

func (a *lineAdapter) Read(r io.Reader) ([]item, error) {
	items := []item{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" || (line == 1 && a.marker != "" && text == a.marker) {
			continue
		}
		id, name, ok := strings.Cut(text, "|")
		if !ok {
			return nil, core.ParseError(fmt.Errorf("line %d: missing separator", line))
		}
		n, err := strconv.Atoi(id)
		if err != nil {
			return nil, core.ParseError(fmt.Errorf("line %d: %w", line, err))
		}
		items = append(items, item{ID: n, Name: name})
	}
	if err := scanner.Err(); err != nil {
		return nil, core.IOError(err)
	}
	return items, nil
}

func (a *lineAdapter) Write(records []item, w io.Writer) error {
	var buf bytes.Buffer
	if a.marker != "" {
		buf.WriteString(a.marker + "\n")
	}
	for _, r := range records {
		fmt.Fprintf(&buf, "%d|%s\n", r.ID, r.Name)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (a *lineAdapter) Sniff(head []byte) bool {
	return a.marker != "" && bytes.HasPrefix(core.TrimHead(head), []byte(a.marker))
}

// panicAdapter blows up on Read.
type panicAdapter struct{}

func (panicAdapter) FormatName() string { return "boom" }

func (panicAdapter) Read(io.Reader) ([]item, error) { panic("corrupt state") }

func (panicAdapter) Write([]item, io.Writer) error { return errors.New("unsupported") }
