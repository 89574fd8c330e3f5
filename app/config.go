package app

import (
	"io/ioutil"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/cdisc-tools/datasetjson-shells/generator"
)

const defaultConfig = `# Dataset-JSON shells

################################## LOGGING ####################################

[logging]

#
# Logging verbosity level.
# Supported values: "DEBUG", "INFO", "WARN", "ERROR", "FATAL" or "PANIC".
#
level = "INFO"

################################# GENERATOR ###################################

[generator]

#
# Shell validation supports three modes:
#
#   validation_mode="strict"
#   Shells failing Dataset-JSON schema validation are not written.
#
#   validation_mode="warnings"
#   Invalid shells are written and the issues are logged.
#
#   validation_mode="disabled"
#   Schema validation will not be performed.
#
validation_mode = "strict"

#
# Path of a Dataset-JSON schema file overriding the embedded v1.1 schema.
# Leave empty to validate against the embedded schema.
#
schema_file = ""

################################# TEMPLATE ####################################

[template]

#
# SDTM Implementation Guide version used for dataset definitions.
#
sdtmig_version = "3.4"

#
# Controlled-terminology package version (SDTM CT publication date).
#
sdtmct_version = "2025-03-28"

#
# Directory holding the CDISC Library snapshot (one JSON file per cached
# resource path) used to resolve biomedical concepts and codelists.
#
library_dir = "cdisc-library"
`

type Config struct {
	v *viper.Viper

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Generator struct {
		ValidationMode string `mapstructure:"validation_mode"`
		SchemaFile     string `mapstructure:"schema_file"`
	} `mapstructure:"generator"`

	Template struct {
		SDTMIGVersion string `mapstructure:"sdtmig_version"`
		SDTMCTVersion string `mapstructure:"sdtmct_version"`
		LibraryDir    string `mapstructure:"library_dir"`
	} `mapstructure:"template"`
}

func (c Config) Validate() error {
	switch c.Generator.ValidationMode {
	case "", generator.ValidationModeStrict, generator.ValidationModeWarnings, generator.ValidationModeDisabled:
		return nil
	}
	return errors.Errorf("unknown validation_mode %q", c.Generator.ValidationMode)
}

func (c Config) String() string {
	tmpfile, err := ioutil.TempFile("", "config.*.toml")
	if err != nil {
		return err.Error()
	}
	err = c.v.WriteConfigAs(tmpfile.Name())
	if err != nil {
		return err.Error()
	}
	blob, err := ioutil.ReadAll(tmpfile)
	if err != nil {
		return err.Error()
	}
	return string(blob)
}

func loadConfig(c *Config) error {
	v := viper.New()

	v.SetEnvPrefix("DATASETJSON_SHELLS")
	v.AutomaticEnv()

	v.SetConfigName("datasetjson-shells")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/")
	v.AddConfigPath("/etc/datasetjson-shells/")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read our default configuration.
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		panic(err) // Not in the user path.
	}

	// Include configuration file provided by the user.
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return errors.Wrap(err, "configuration unmarshaling failed")
	}

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "config did not pass validation")
	}

	c.v = v

	return nil
}
