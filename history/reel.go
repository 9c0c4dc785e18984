package history

import (
	"fmt"
	"time"

	"github.com/clipreel/clipreel/util"
)

// SavedReel is where playback of one clip file stopped last time.
type SavedReel struct {
	ClipsFile   string    `json:"clips_file"`
	Media       string    `json:"media"`
	ClipCount   int       `json:"clip_count"`
	ClipIndex   int       `json:"clip_index"`
	VirtualTime float64   `json:"virtual_time"`
	Total       float64   `json:"total"`
	SavedAt     time.Time `json:"saved_at"`
}

func (s *SavedReel) String() string {
	return fmt.Sprintf(
		"%s : clip %d / %d at %s",
		util.FileStem(s.ClipsFile),
		s.ClipIndex+1,
		s.ClipCount,
		util.FormatSeconds(s.VirtualTime),
	)
}
