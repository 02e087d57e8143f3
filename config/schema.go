package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// Settings mirrors the configuration surface as a typed document. It exists
// for schema export; the live values stay in viper.
type Settings struct {
	Station struct {
		ChannelsFile string   `json:"channels_file,omitempty" jsonschema:"description=Path to the channel lineup definition"`
		Extensions   []string `json:"extensions,omitempty" jsonschema:"description=Media file extensions considered during catalog scans"`
		Cooldown     int      `json:"cooldown,omitempty" jsonschema:"description=Minimum number of other selections before an item may repeat"`
	} `json:"station,omitempty"`

	Commercials struct {
		Dir                string `json:"dir,omitempty" jsonschema:"description=Directory holding the shared commercial pool"`
		LookaheadSec       int    `json:"lookahead_sec,omitempty" jsonschema:"description=Seconds before a break start at which precise evaluation begins"`
		DefaultDurationSec int    `json:"default_duration_sec,omitempty" jsonschema:"description=Assumed commercial length when no duration is reported"`
	} `json:"commercials,omitempty"`

	Player struct {
		Executable        string `json:"executable,omitempty" jsonschema:"description=Media player executable to launch and control"`
		ConnectTimeoutSec int    `json:"connect_timeout_sec,omitempty" jsonschema:"description=Seconds to keep retrying the IPC connect"`
		CallTimeoutSec    int    `json:"call_timeout_sec,omitempty" jsonschema:"description=Seconds to wait for a single IPC response"`
		PropertyTTLMs     int    `json:"property_ttl_ms,omitempty" jsonschema:"description=Milliseconds a polled property stays fresh"`
		IPCTrace          bool   `json:"ipc_trace,omitempty" jsonschema:"description=Trace every IPC request/response pair"`
	} `json:"player,omitempty"`

	Loop struct {
		SleepMs       int `json:"sleep_ms,omitempty" jsonschema:"description=Main loop sleep interval"`
		TickMs        int `json:"tick_ms,omitempty" jsonschema:"description=Interval between scheduler ticks"`
		BreakCheckSec int `json:"break_check_sec,omitempty" jsonschema:"description=Minimum seconds between break-window checks"`
	} `json:"loop,omitempty"`

	Logs struct {
		Write bool   `json:"write,omitempty" jsonschema:"description=Write logs"`
		Level string `json:"level,omitempty" jsonschema:"description=Log verbosity level"`
		Json  bool   `json:"json,omitempty" jsonschema:"description=Use json format for logs"`
	} `json:"logs,omitempty"`

	Cli struct {
		Colored bool `json:"colored,omitempty" jsonschema:"description=Enable colored CLI output"`
	} `json:"cli,omitempty"`
}

// Schema exports the configuration surface as an indented JSON schema.
func Schema() ([]byte, error) {
	schema := jsonschema.Reflect(&Settings{})
	return json.MarshalIndent(schema, "", "  ")
}
