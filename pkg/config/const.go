package config

const (
	MonarchCommand    = "monarch"
	CliConfigFileName = "monarch"

	SystemDirConfigFilePath = "/usr/local/etc/monarch"

	// CliConfigPathEnvVar names a config file or a directory containing monarch.yaml.
	CliConfigPathEnvVar = "MONARCH_CLI_CONFIG_PATH"
	EnvPrefix           = "MONARCH"

	DefaultIsolation  = "isolate"
	DefaultYAMLIndent = 2
	DefaultLogLevel   = "Info"
	DefaultLogFile    = "/dev/stderr"
)

var configFileExtensions = []string{".yaml", ".yml"}

// Config keys, also used as flag names after replacing "_" and "." with "-".
const (
	KeyHierarchy  = "hierarchy"
	KeyDataDir    = "data_dir"
	KeyOutputDir  = "output_dir"
	KeyTarget     = "target"
	KeyMergeKeys  = "merge_keys"
	KeyIsolation  = "settings.isolation"
	KeyYAMLIndent = "settings.yaml.indent"
	KeyWorkers    = "settings.workers"
	KeyLogsLevel  = "logs.level"
	KeyLogsFile   = "logs.file"
)

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"hierarchy":   KeyHierarchy,
	"data-dir":    KeyDataDir,
	"output-dir":  KeyOutputDir,
	"target":      KeyTarget,
	"merge-keys":  KeyMergeKeys,
	"isolation":   KeyIsolation,
	"yaml-indent": KeyYAMLIndent,
	"workers":     KeyWorkers,
	"logs-level":  KeyLogsLevel,
	"logs-file":   KeyLogsFile,
}
