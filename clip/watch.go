package clip

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/clipreel/clipreel/log"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange every time the clip file at path is written or replaced,
// until ctx is done. The directory is watched rather than the file, so editors
// that save by renaming a new file over the old one are followed.
func Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch clip file: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch clip file: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				log.WithFields(log.Fields{"file": path, "op": event.Op.String()}).Debug("clip file changed")
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warnf("clip watcher: %v", err)
		}
	}
}
