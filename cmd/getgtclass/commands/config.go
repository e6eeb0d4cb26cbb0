package commands

import (
	"os"

	"github.com/ktran04/getgtclass/lib/browser"
	"github.com/ktran04/getgtclass/lib/configutil"
	"github.com/ktran04/getgtclass/lib/notify"
	"github.com/ktran04/getgtclass/lib/serviceutil"
)

type CampConfig struct {
	MinDelaySeconds int `json:"min_delay_seconds"`
	MaxDelaySeconds int `json:"max_delay_seconds"`
}

type JournalConfig struct {
	// path (or libsql url) of the attempt log, empty disables journaling
	Database string `json:"database"`
}

type Config struct {
	Browser browser.Options `json:"browser"`
	Camp    CampConfig      `json:"camp"`
	Journal JournalConfig   `json:"journal"`
	Notify  notify.Config   `json:"notify"`
}

// loadConfig reads the config file next to the invocation, a missing file
// just means defaults.
func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if os.IsNotExist(err) {
		return Config{}
	}
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	return cfg
}
