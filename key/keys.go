// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Engine - these keys tune the virtual timeline controller to the latency of the active player.
const (
	PlaybackEndEpsilon            = "playback.end_epsilon"
	PlaybackRestartGuard          = "playback.restart_guard"
	PlaybackSeekDebounce          = "playback.seek_debounce"
	PlaybackSeekTolerance         = "playback.seek_tolerance"
	PlaybackSeekSettleMs          = "playback.seek_settle_ms"
	PlaybackPlayDelayMs           = "playback.play_delay_ms"
	PlaybackSeekAckTimeoutMs      = "playback.seek_ack_timeout_ms"
	PlaybackSkipPreviousThreshold = "playback.skip_previous_threshold"
)

// Media Playback - these keys maintain the configuration for the external video player.
const (
	Player               = "player.default"
	PlayerChapters       = "player.chapters"
	PlayerTickIntervalMs = "player.tick_interval_ms"
)

// Clip Files - these keys control how the clip list is read.
const (
	ClipsWatch = "clips.watch"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
