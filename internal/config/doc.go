// Package config loads and validates the oledsvx daemon configuration.
//
// # Overview
//
// The configuration is a TOML file with two tables: [oled] describes the
// display hardware and presentation, [svxlink] points at the files the daemon
// observes. Everything that leaves this package is already validated, so the
// rest of the daemon works with typed values (a Driver enum, an I²C address,
// contrast bytes) and never re-parses strings.
//
// # TOML Format
//
//	[oled]
//	driver = "sh1106"        # sh1106 | ssd1306 | ssd1309
//	i2c_port = 1
//	i2c_address = "0x3C"
//	contrast_nor = 128
//	contrast_low = 5
//	screensaver_time = 0     # seconds, 0 disables blanking
//	ext_temp_sensor = false
//	debug = false
//
//	[svxlink]
//	log_file = "/var/log/svxlink"
//	pid_file = "/run/svxlink.pid"
//	binary = "svxlink"
//	tgdb_file = "/var/www/html/include/tgdb.json"
//
// # Required Values
//
// driver, contrast_nor, contrast_low and ext_temp_sensor have no defaults.
// A missing or invalid value is returned as an error and the daemon refuses
// to start. All [svxlink] values are optional.
//
// # Path Expansion
//
// Paths accept a leading tilde and are converted to absolute paths.
package config
