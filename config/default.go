// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/CinkadeusBG/LCARSTV/color"
	"github.com/CinkadeusBG/LCARSTV/constant"
	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/CinkadeusBG/LCARSTV/style"
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
	prefix := strings.ToUpper(constant.Lcarstv + "_")
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
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	// register validates and adds a new configuration field to the global registry.
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		Default[k] = Field{Key: k, Value: v, Description: desc}
		EnvExposed = append(EnvExposed, k)
	}

	register(key.StationChannelsFile, "", "Path to the channel lineup definition (channels.json).\nEmpty means <config dir>/channels.json")
	register(key.StationExtensions, []string{".mp4", ".mkv", ".avi", ".m4v"}, "Media file extensions considered during catalog scans")
	register(key.StationCooldown, 10, "Minimum number of other selections before an item may repeat under random selection")

	register(key.CommercialsDir, "", "Directory holding the shared commercial pool.\nEmpty disables commercial insertion")
	register(key.CommercialsLookaheadSec, 30, "Seconds before a break start at which precise break evaluation begins")
	register(key.CommercialsDefaultDurationSec, 30, "Assumed commercial length when mpv cannot report a duration")

	register(key.PlayerExecutable, "mpv", "Media player executable to launch and control")
	register(key.PlayerConnectTimeout, 10, "Seconds to keep retrying the IPC connect while mpv initializes its listener")
	register(key.PlayerCallTimeout, 2, "Seconds to wait for a single IPC response before the call times out")
	register(key.PlayerPropertyTTL, 250, "Milliseconds a polled player property stays fresh in the property cache")
	register(key.PlayerIPCTrace, false, "Trace every IPC request/response pair at debug level")

	register(key.LoopSleepMs, 50, "Main loop sleep interval; the input responsiveness floor")
	register(key.LoopTickMs, 200, "Interval between scheduler ticks for the active channel")
	register(key.LoopBreakCheckSec, 5, "Minimum seconds between break-window checks within a tick")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
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
