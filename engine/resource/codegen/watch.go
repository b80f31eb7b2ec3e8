package codegen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/spaghettifunk/animares/engine/core"
)

// OutputPath is where the code generated from schema is written:
// scene.toml becomes scene_generated.go next to it.
func OutputPath(schema string) string {
	return strings.TrimSuffix(schema, filepath.Ext(schema)) + "_generated.go"
}

func isSchemaFile(path string) bool {
	_, err := FormatFromPath(path)
	return err == nil
}

// Result reports one regeneration.
type Result struct {
	Schema string
	Output string
	Err    error
}

// Watcher regenerates code whenever a schema file under a watched directory
// is created or written.
type Watcher struct {
	schemas map[string]string
	pkg     string

	mutex sync.RWMutex

	fsnotify *fsnotify.Watcher
	isClosed bool
	results  chan Result
}

// NewWatcher creates a watcher. A non-empty pkg overrides the package named
// in every schema file.
func NewWatcher(pkg string) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		schemas:  make(map[string]string),
		pkg:      pkg,
		fsnotify: fsWatch,
		results:  make(chan Result, 16),
	}, nil
}

// Results delivers one entry per regeneration. It is closed when Run returns.
func (w *Watcher) Results() <-chan Result {
	return w.results
}

// Add starts watching dir and all its sub-directories. Schema files already
// present are generated right away.
func (w *Watcher) Add(dir string) error {
	if w.isClosed {
		return errors.New("watcher already closed")
	}
	return w.watchRecursive(dir)
}

// Schemas lists the schema files seen so far.
func (w *Watcher) Schemas() []string {
	w.mutex.RLock()
	defer w.mutex.RUnlock()

	out := make([]string, 0, len(w.schemas))
	for path := range w.schemas {
		out = append(out, path)
	}
	return out
}

// Run processes file system events until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		w.isClosed = true
		w.fsnotify.Close()
		close(w.results)
	}()

	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return nil
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() {
				if e.Op&fsnotify.Create != 0 {
					if err := w.watchRecursive(e.Name); err != nil {
						core.LogError("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				w.handleFileEvent(ctx, e.Name)
			}
			if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				w.removeSchema(e.Name)
			}

		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return nil
			}
			core.LogError("%s", err)

		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) watchRecursive(path string) error {
	return filepath.Walk(path, func(walkPath string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			return w.fsnotify.Add(walkPath)
		}
		w.handleFileEvent(context.Background(), walkPath)
		return nil
	})
}

func (w *Watcher) handleFileEvent(ctx context.Context, path string) {
	if !isSchemaFile(path) {
		return
	}
	out := OutputPath(path)

	w.mutex.Lock()
	w.schemas[path] = out
	w.mutex.Unlock()

	err := GenerateFile(path, out, w.pkg)
	if err != nil {
		core.LogError("failed to regenerate %s: %s", path, err)
	}
	select {
	case w.results <- Result{Schema: path, Output: out, Err: err}:
	case <-ctx.Done():
	default:
		core.LogDebug("dropping regeneration result for %s, nobody is reading", path)
	}
}

// removeSchema forgets a deleted schema. The generated file is left alone.
func (w *Watcher) removeSchema(path string) {
	w.mutex.Lock()
	defer w.mutex.Unlock()

	delete(w.schemas, path)
}
