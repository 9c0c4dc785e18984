package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/clipreel/clipreel/color"
	"github.com/clipreel/clipreel/constant"
	"github.com/clipreel/clipreel/key"
	"github.com/clipreel/clipreel/playback"
	"github.com/clipreel/clipreel/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Clipreel + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.TypeName(),
	})
}

// TypeName returns the name of the field's value type.
func (f *Field) TypeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float"
	case bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Parse converts raw command line text into a value of the field's type.
func (f *Field) Parse(raw string) (any, error) {
	switch f.Value.(type) {
	case string:
		return raw, nil
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid integer value %q", raw)
		}
		return v, nil
	case float64:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number value %q", raw)
		}
		return v, nil
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean value %q", raw)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("unsupported type for %s", f.Key)
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	def := playback.DefaultConfig()

	register(key.PlaybackEndEpsilon, def.EndEpsilon, "Seconds before the end of the last clip that count as the end of the reel")
	register(key.PlaybackRestartGuard, def.RestartGuard, "Seconds past the first clip's start before the end check may fire.\nGuards against a restart seek that hasn't landed yet")
	register(key.PlaybackSeekDebounce, def.SeekDebounce.Seconds(), "Minimum seconds between two corrective seeks")
	register(key.PlaybackSeekTolerance, def.SeekTolerance, "Seconds from a seek target within which the seek counts as landed")
	register(key.PlaybackSeekSettleMs, int(def.SeekSettle.Milliseconds()), "Milliseconds to ignore stale positions reported after a seek")
	register(key.PlaybackPlayDelayMs, int(def.PlayDelay.Milliseconds()), "Milliseconds to wait between seeking to a clip and resuming playback.\nOnly used when the player cannot acknowledge seeks")
	register(key.PlaybackSeekAckTimeoutMs, int(def.SeekAckTimeout.Milliseconds()), "Milliseconds to wait for a seek acknowledgement before resuming anyway")
	register(key.PlaybackSkipPreviousThreshold, def.SkipPreviousThreshold, "Seconds into a clip after which \"previous\" restarts the clip")
	register(key.Player, "mpv", "Media player to use. Available options are: mpv")
	register(key.PlayerChapters, true, "Publish clip boundaries to the player as chapters")
	register(key.PlayerTickIntervalMs, 250, "Minimum milliseconds between two progress ticks forwarded to the controller")
	register(key.ClipsWatch, true, "Reload the clip file while playing whenever it is saved")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, nerd, plain, squares")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"blue":     style.Fg(color.Blue),
	"purple":   style.Fg(color.Purple),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
