package config

import (
	"github.com/ppaass/ppaass/lib/common"
	"github.com/ppaass/ppaass/lib/util/logger"
	"github.com/samber/oops"
)

const (
	DefaultSnapshotChannelSize = 1024
	DefaultTrafficChannelSize  = 1024
	DefaultMessageEncryption   = "aes"
)

// Config is the effective ppaass configuration.
type Config struct {
	Monitor MonitorConfig `yaml:"monitor"`
	Message MessageConfig `yaml:"message"`
}

// MonitorConfig sizes the telemetry channels.
type MonitorConfig struct {
	// SnapshotChannelSize is the capacity of the transport snapshot channel.
	// Default: 1024
	SnapshotChannelSize int `yaml:"snapshot_channel_size"`

	// TrafficChannelSize is the capacity of the transport traffic channel.
	// Default: 1024
	TrafficChannelSize int `yaml:"traffic_channel_size"`
}

// MessageConfig controls how outbound message payloads are sealed.
type MessageConfig struct {
	// Encryption is one of plain, blowfish or aes.
	// Default: aes
	Encryption string `yaml:"encryption"`
}

// Defaults returns the default configuration tree.
func Defaults() Config {
	return Config{
		Monitor: MonitorConfig{
			SnapshotChannelSize: DefaultSnapshotChannelSize,
			TrafficChannelSize:  DefaultTrafficChannelSize,
		},
		Message: MessageConfig{
			Encryption: DefaultMessageEncryption,
		},
	}
}

// EncryptionKind parses the configured encryption name.
func (m MessageConfig) EncryptionKind() (common.EncryptionKind, error) {
	return common.ParseEncryptionKind(m.Encryption)
}

// Validate reports the first unusable value in cfg.
func Validate(cfg Config) error {
	log.WithFields(logger.Fields{
		"at":     "Validate",
		"reason": "verification_requested",
	}).Debug("validating configuration")

	if cfg.Monitor.SnapshotChannelSize < 1 {
		return oops.Code("invalid_config").With("snapshot_channel_size", cfg.Monitor.SnapshotChannelSize).
			Errorf("monitor.snapshot_channel_size must be at least 1")
	}
	if cfg.Monitor.TrafficChannelSize < 1 {
		return oops.Code("invalid_config").With("traffic_channel_size", cfg.Monitor.TrafficChannelSize).
			Errorf("monitor.traffic_channel_size must be at least 1")
	}
	if _, err := cfg.Message.EncryptionKind(); err != nil {
		return oops.Code("invalid_config").Wrapf(err, "message.encryption")
	}
	return nil
}
