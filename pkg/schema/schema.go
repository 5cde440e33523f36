package schema

// Configuration is the resolved monarch configuration.
type Configuration struct {
	// Hierarchy is the path to the YAML hierarchy description.
	Hierarchy string `yaml:"hierarchy" json:"hierarchy" mapstructure:"hierarchy"`
	// DataDir holds the current per-source documents.
	DataDir string `yaml:"data_dir" json:"data_dir" mapstructure:"data_dir"`
	// OutputDir receives the updated documents. Defaults to DataDir.
	OutputDir string `yaml:"output_dir" json:"output_dir" mapstructure:"output_dir"`
	// Target is the source at which changes start propagating.
	Target string `yaml:"target" json:"target" mapstructure:"target"`
	// MergeKeys are combined across ancestors instead of overridden.
	MergeKeys []string `yaml:"merge_keys" json:"merge_keys" mapstructure:"merge_keys"`
	Settings  Settings `yaml:"settings" json:"settings" mapstructure:"settings"`
	Logs      Logs     `yaml:"logs" json:"logs" mapstructure:"logs"`

	// CliConfigPath is the config file that was loaded, if any.
	CliConfigPath string `yaml:"cli_config_path,omitempty" json:"cli_config_path,omitempty" mapstructure:"cli_config_path"`
}

type Settings struct {
	// Isolation is "isolate" (default) or "never".
	Isolation string       `yaml:"isolation" json:"isolation" mapstructure:"isolation"`
	YAML      YAMLSettings `yaml:"yaml" json:"yaml" mapstructure:"yaml"`
	// Workers bounds the number of documents read in parallel.
	Workers int `yaml:"workers" json:"workers" mapstructure:"workers"`
}

type YAMLSettings struct {
	Indent int `yaml:"indent" json:"indent" mapstructure:"indent"`
}

type Logs struct {
	File  string `yaml:"file" json:"file" mapstructure:"file"`
	Level string `yaml:"level" json:"level" mapstructure:"level"`
}

// ApplyOptions are the per-invocation inputs of `monarch apply`.
type ApplyOptions struct {
	// ChangeFiles are paths or doublestar globs of change streams.
	ChangeFiles []string
	DryRun      bool
}
