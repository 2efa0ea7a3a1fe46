// Package config loads ppaass configuration through viper.
//
// Values come from, in increasing priority: Defaults(), a YAML config file
// ($HOME/.ppaass/config.yaml or CfgFile) and PPAASS_* environment variables
// such as PPAASS_MONITOR_TRAFFIC_CHANNEL_SIZE.
package config
