package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"selectlist/internal/domain"
	"selectlist/internal/eventbus"
)

// DefaultMaxDepth limits how deep Walk descends below its root
const DefaultMaxDepth = 8

// maxLineSize is the longest input line accepted by ReadLines
const maxLineSize = 1024 * 1024

var skipDirs = map[string]bool{
	"node_modules":     true,
	"vendor":           true,
	"dist":             true,
	"build":            true,
	"target":           true,
	"__pycache__":      true,
	"venv":             true,
	".pytest_cache":    true,
	".gradle":          true,
	".tox":             true,
	"bower_components": true,
}

// Service loads picker entries from readers, files and directory trees.
// Every successful load publishes an ItemsLoadedEvent.
type Service struct {
	bus      eventbus.EventBus
	MaxDepth int
}

// NewService creates a source service publishing to bus
func NewService(bus eventbus.EventBus) *Service {
	if bus == nil {
		bus = eventbus.NullBus{}
	}
	return &Service{bus: bus, MaxDepth: DefaultMaxDepth}
}

// ReadLines returns one entry per non-empty line of r. Trailing carriage
// returns are dropped.
func (s *Service) ReadLines(name string, r io.Reader) ([]domain.Entry, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []domain.Entry
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		entries = append(entries, domain.Entry{Display: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	s.bus.Publish(eventbus.ItemsLoadedEvent{Source: name, Count: len(entries)})
	return entries, nil
}

// ReadFile returns one entry per non-empty line of the file at path
func (s *Service) ReadFile(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open item file: %w", err)
	}
	defer f.Close()
	return s.ReadLines(path, f)
}

// Walk returns an entry for every regular file below root, displayed relative
// to root. Hidden directories and common dependency/build directories are
// skipped. Unreadable directories are logged and skipped.
func (s *Service) Walk(ctx context.Context, root string) ([]domain.Entry, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	var entries []domain.Entry
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err != nil {
			if path == absRoot {
				return err
			}
			log.Printf("Error walking path %s: %v", path, err)
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)
		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirs[name] {
				return fs.SkipDir
			}
			depth := strings.Count(relPath, string(filepath.Separator))
			if s.MaxDepth > 0 && depth >= s.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		entries = append(entries, domain.Entry{
			Display: filepath.ToSlash(relPath),
			Path:    path,
		})
		return nil
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			log.Printf("Error scanning directory %s: %v", root, err)
			s.bus.Publish(eventbus.ErrorEvent{
				Message: fmt.Sprintf("Failed to scan %s", root),
				Err:     err,
			})
		}
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	s.bus.Publish(eventbus.ItemsLoadedEvent{Source: root, Count: len(entries)})
	return entries, nil
}
