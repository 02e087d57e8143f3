// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Station Lineup - these keys govern channel discovery and media ingestion.
const (
	StationChannelsFile = "station.channels_file"
	StationExtensions   = "station.extensions"
	StationCooldown     = "station.cooldown"
)

// Commercial Insertion - these keys configure break replacement behavior.
const (
	CommercialsDir                = "commercials.dir"
	CommercialsLookaheadSec       = "commercials.lookahead_sec"
	CommercialsDefaultDurationSec = "commercials.default_duration_sec"
)

// Media Playback - these keys maintain the state and configuration for the controlled mpv process.
const (
	PlayerExecutable     = "player.executable"
	PlayerConnectTimeout = "player.connect_timeout_sec"
	PlayerCallTimeout    = "player.call_timeout_sec"
	PlayerPropertyTTL    = "player.property_ttl_ms"
	PlayerIPCTrace       = "player.ipc_trace"
)

// Scheduler Cadence - these keys bound the cooperative loop's polling rates.
const (
	LoopSleepMs       = "loop.sleep_ms"
	LoopTickMs        = "loop.tick_ms"
	LoopBreakCheckSec = "loop.break_check_sec"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern non-loop application behavior.
const (
	CliColored = "cli.colored"
)
