package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppaass/ppaass/lib/util"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
	"github.com/spf13/viper"
)

var (
	CfgFile string
	log     = logger.GetPpaassLogger()
)

const (
	PPAASS_BASE_DIR = ".ppaass"
	EnvPrefix       = "PPAASS"
)

// InitConfig loads defaults, the config file and PPAASS_* environment
// overrides into viper. Without an explicit CfgFile a default config file
// is written under $HOME/.ppaass when none exists.
func InitConfig() error {
	if CfgFile != "" {
		if !util.FileExists(CfgFile) {
			return oops.With("path", CfgFile).Errorf("config file %s is not found", CfgFile)
		}
		viper.SetConfigFile(CfgFile)
	} else {
		viper.AddConfigPath(BuildPpaassDirPath())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	return handleConfigFile()
}

func setDefaults() {
	defaults := Defaults()
	viper.SetDefault("monitor.snapshot_channel_size", defaults.Monitor.SnapshotChannelSize)
	viper.SetDefault("monitor.traffic_channel_size", defaults.Monitor.TrafficChannelSize)
	viper.SetDefault("message.encryption", defaults.Message.Encryption)
}

// CurrentConfig builds a Config from the current viper settings. Channel
// sizes below one fall back to their defaults.
func CurrentConfig() *Config {
	defaults := Defaults()
	cfg := &Config{
		Monitor: MonitorConfig{
			SnapshotChannelSize: viper.GetInt("monitor.snapshot_channel_size"),
			TrafficChannelSize:  viper.GetInt("monitor.traffic_channel_size"),
		},
		Message: MessageConfig{
			Encryption: viper.GetString("message.encryption"),
		},
	}

	if cfg.Monitor.SnapshotChannelSize < 1 {
		log.WithFields(logger.Fields{
			"at":       "CurrentConfig",
			"reason":   "invalid_channel_size",
			"key":      "monitor.snapshot_channel_size",
			"value":    cfg.Monitor.SnapshotChannelSize,
			"fallback": defaults.Monitor.SnapshotChannelSize,
		}).Warn("using default snapshot channel size")
		cfg.Monitor.SnapshotChannelSize = defaults.Monitor.SnapshotChannelSize
	}
	if cfg.Monitor.TrafficChannelSize < 1 {
		log.WithFields(logger.Fields{
			"at":       "CurrentConfig",
			"reason":   "invalid_channel_size",
			"key":      "monitor.traffic_channel_size",
			"value":    cfg.Monitor.TrafficChannelSize,
			"fallback": defaults.Monitor.TrafficChannelSize,
		}).Warn("using default traffic channel size")
		cfg.Monitor.TrafficChannelSize = defaults.Monitor.TrafficChannelSize
	}
	return cfg
}

func handleConfigFile() error {
	err := viper.ReadInConfig()
	if err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
		return nil
	}

	var notFound viper.ConfigFileNotFoundError
	if !errors.As(err, &notFound) {
		return oops.Wrapf(err, "reading config file")
	}
	if CfgFile != "" {
		return oops.With("path", CfgFile).Wrapf(err, "config file not found")
	}
	return createDefaultConfig(BuildPpaassDirPath())
}

func createDefaultConfig(defaultConfigDir string) error {
	defaultConfigFile := filepath.Join(defaultConfigDir, "config.yaml")
	if err := os.MkdirAll(defaultConfigDir, 0o755); err != nil {
		return oops.With("dir", defaultConfigDir).Wrapf(err, "creating config directory")
	}
	if err := viper.SafeWriteConfigAs(defaultConfigFile); err != nil {
		return oops.With("path", defaultConfigFile).Wrapf(err, "writing default config file")
	}
	log.Debugf("Created default configuration at: %s", defaultConfigFile)
	return nil
}

func BuildPpaassDirPath() string {
	return filepath.Join(util.UserHome(), PPAASS_BASE_DIR)
}
