package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sigtbr/sigt-cli/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Timeouts are
// given in whole seconds.
type JsonConfig struct {
	APIBaseURL     string `json:"api_base_url"`
	RequestTimeout int    `json:"request_timeout"`
	DataDir        string `json:"data_dir"`
}

// parseJson overlays Config with values loaded from a JSON file given via
// the -c or -config flags. Absent file path means no JSON layer. Only the
// fields present in the file override the current values. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != "" {
		cfg.APIBaseURL = jc.APIBaseURL
	}
	if jc.RequestTimeout > 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout) * time.Second
	}
	if jc.DataDir != "" {
		cfg.DataDir = jc.DataDir
	}
}
