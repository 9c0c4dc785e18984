// Package history remembers where each reel was left so playback can resume there.
package history

import (
	"path/filepath"
	"time"

	"github.com/clipreel/clipreel/filesystem"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
)

// options locate the on-disk registry. They are built per call so the path follows
// the current config directory and filesystem backend.
func options() *gache.Options {
	return &gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	}
}

func store(saved map[string]*SavedReel) error {
	return gache.New[map[string]*SavedReel](options()).Set(saved)
}

// Get returns every saved reel keyed by the absolute path of its clip file.
func Get() (map[string]*SavedReel, error) {
	cached, expired, err := gache.New[map[string]*SavedReel](options()).Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedReel), nil
	}
	return cached, nil
}

// Find returns the saved position of clipsFile, if there is one.
func Find(clipsFile string) mo.Option[*SavedReel] {
	saved, err := Get()
	if err != nil {
		return mo.None[*SavedReel]()
	}

	if reel, ok := saved[encode(clipsFile)]; ok {
		return mo.Some(reel)
	}
	return mo.None[*SavedReel]()
}

// Save records where playback of clipsFile stands. A finished reel, or one that
// never reached a clip, is forgotten instead.
func Save(clipsFile, media string, state playback.State) error {
	if state.PlaybackFinished || !state.HasClip() {
		return Remove(clipsFile)
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	saved[encode(clipsFile)] = &SavedReel{
		ClipsFile:   clipsFile,
		Media:       media,
		ClipCount:   state.ClipCount,
		ClipIndex:   state.CurrentClipIndex,
		VirtualTime: state.CurrentVirtualTime,
		Total:       state.TotalVirtualDuration,
		SavedAt:     time.Now(),
	}

	return store(saved)
}

// Remove forgets the saved position of clipsFile.
func Remove(clipsFile string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	key := encode(clipsFile)
	if _, ok := saved[key]; !ok {
		return nil
	}

	delete(saved, key)
	return store(saved)
}

func encode(clipsFile string) string {
	if abs, err := filepath.Abs(clipsFile); err == nil {
		return abs
	}
	return filepath.Clean(clipsFile)
}
