package dirs

// ConfigTOML is the default task configuration file, relative to the
// project working directory.
const ConfigTOML = "alchemist.toml"

// ConfigYAML and ConfigYML are the YAML alternatives to ConfigTOML,
// searched after it.
const (
	ConfigYAML = "alchemist.yaml"
	ConfigYML  = "alchemist.yml"
)

// OverridesFile is the optional, usually git-ignored, file next to the task
// configuration that adjusts task visibility per checkout.
const OverridesFile = ".alchemist.overrides.yaml"

// ConfigEnv names the environment variable that provides a default for --config
const ConfigEnv = "ALCHEMIST_CONFIG"
