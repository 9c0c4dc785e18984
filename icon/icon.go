// Package icon renders the small status glyphs shown next to clips and in CLI output.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/clipreel/clipreel/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	squares = "squares"
)

// AvailableVariants returns a slice of all registered icon style identifiers.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, squares}
}

// Icon identifies a symbol in the registry.
type Icon int

const (
	Play Icon = iota + 1
	Pause
	Finished
	Virtual
	Free
	Clip
	Success
	Fail
	Warn
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	squares string
}

func (d iconDef) get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]iconDef{
	Play:     {emoji: "▶️", nerd: "", plain: ">", squares: "▶"},
	Pause:    {emoji: "⏸️", nerd: "", plain: "||", squares: "⏸"},
	Finished: {emoji: "🏁", nerd: "", plain: "[]", squares: "■"},
	Virtual:  {emoji: "🎞️", nerd: "", plain: "V", squares: "▣"},
	Free:     {emoji: "🎬", nerd: "", plain: "F", squares: "□"},
	Clip:     {emoji: "✂️", nerd: "", plain: "-", squares: "▪"},
	Success:  {emoji: "✅", nerd: "", plain: "ok", squares: "▩"},
	Fail:     {emoji: "❌", nerd: "", plain: "x", squares: "▨"},
	Warn:     {emoji: "⚠️", nerd: "", plain: "!", squares: "▧"},
}

// Get returns the glyph for i in the configured variant. Unknown icons and
// variants render as the empty string.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.get()
}
