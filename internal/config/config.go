package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/relabs-tech/inertial_tracker/internal/motion"
)

// DefaultPath is the config file looked up when no -config flag is given.
const DefaultPath = "inertial_tracker.txt"

// Sample sources selectable with SOURCE.
const (
	SourceMock   = "mock"
	SourceIMU    = "imu"
	SourceSerial = "serial"
	SourceMQTT   = "mqtt"
)

// Config holds all application configuration values.
type Config struct {
	// Dead reckoning
	CalibrationWindow     uint32
	AccelerationThreshold float64 // m/s²
	VelocityThreshold     float64 // m/s
	Gravity               float64 // m/s² per g
	AutoStart             bool

	// Sampling
	Source           string // mock, imu, serial or mqtt
	SampleIntervalMS int

	// MQTT
	MQTTBroker           string
	MQTTClientIDTracker  string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDDisplay  string

	// Topics
	TopicIMURaw   string
	TopicTracking string
	TopicControl  string

	// IMU Hardware
	IMUSPIDevice string
	IMUCSPin     string

	// IMU sensitivities, matching the configured full-scale ranges.
	// ±2g is 16384 LSB/g, ±250°/s is 131 LSB/(°/s).
	IMUAccelLSBPerG  float64
	IMUGyroLSBPerDPS float64

	// Serial sample source
	SerialPort     string
	SerialBaudRate uint

	// Web Server
	WebServerPort int

	// Export
	ExportDir      string // empty means the OS temp directory
	ExportFileName string
	ArchiveDBPath  string // empty disables the SQLite archive

	// Display
	DisplayUpdateInterval int // milliseconds
}

// Package-level state for the singleton: InitGlobal sets it once, Get reads
// it under a read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Defaults returns a Config populated with the reference values. Every file
// is parsed on top of these, so a config only needs the keys it changes.
func Defaults() *Config {
	m := motion.DefaultConfig()
	return &Config{
		CalibrationWindow:     m.CalibrationWindow,
		AccelerationThreshold: m.AccelerationThreshold,
		VelocityThreshold:     m.VelocityThreshold,
		Gravity:               m.GravityConstant,

		Source:           SourceMock,
		SampleIntervalMS: 10,

		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDTracker:  "inertial-tracker",
		MQTTClientIDProducer: "inertial-imu-producer",
		MQTTClientIDConsole:  "inertial-console",
		MQTTClientIDDisplay:  "inertial-display",

		TopicIMURaw:   "inertial/imu/raw",
		TopicTracking: "inertial/tracking",
		TopicControl:  "inertial/tracking/control",

		IMUSPIDevice:     "/dev/spidev0.0",
		IMUCSPin:         "8",
		IMUAccelLSBPerG:  16384,
		IMUGyroLSBPerDPS: 131,

		SerialBaudRate: 115200,

		WebServerPort: 8080,

		ExportFileName: "motion_data.csv",

		DisplayUpdateInterval: 200,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines on top of Defaults. Blank lines and lines
// starting with # are skipped; unknown keys are an error.
func Parse(r io.Reader) (*Config, error) {
	cfg := Defaults()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		if err := cfg.setValue(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Dead reckoning
	case "CALIBRATION_WINDOW":
		n, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid CALIBRATION_WINDOW %q: %w", value, err)
		}
		c.CalibrationWindow = uint32(n)
	case "ACCEL_THRESHOLD":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_THRESHOLD %q: %w", value, err)
		}
		c.AccelerationThreshold = f
	case "VELOCITY_THRESHOLD":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid VELOCITY_THRESHOLD %q: %w", value, err)
		}
		c.VelocityThreshold = f
	case "GRAVITY":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid GRAVITY %q: %w", value, err)
		}
		c.Gravity = f
	case "AUTO_START":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid AUTO_START %q: %w", value, err)
		}
		c.AutoStart = b

	// Sampling
	case "SOURCE":
		switch value {
		case SourceMock, SourceIMU, SourceSerial, SourceMQTT:
			c.Source = value
		default:
			return fmt.Errorf("SOURCE must be one of mock, imu, serial, mqtt, got %q", value)
		}
	case "SAMPLE_INTERVAL_MS":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL_MS %q: %w", value, err)
		}
		c.SampleIntervalMS = interval

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_TRACKER":
		c.MQTTClientIDTracker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_IMU_RAW":
		c.TopicIMURaw = value
	case "TOPIC_TRACKING":
		c.TopicTracking = value
	case "TOPIC_CONTROL":
		c.TopicControl = value

	// IMU Hardware
	case "IMU_SPI_DEVICE":
		c.IMUSPIDevice = value
	case "IMU_CS_PIN":
		c.IMUCSPin = value
	case "IMU_ACCEL_LSB_PER_G":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid IMU_ACCEL_LSB_PER_G %q: %w", value, err)
		}
		c.IMUAccelLSBPerG = f
	case "IMU_GYRO_LSB_PER_DPS":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid IMU_GYRO_LSB_PER_DPS %q: %w", value, err)
		}
		c.IMUGyroLSBPerDPS = f

	// Serial
	case "SERIAL_PORT":
		c.SerialPort = value
	case "SERIAL_BAUD_RATE":
		rate, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid SERIAL_BAUD_RATE %q: %w", value, err)
		}
		c.SerialBaudRate = uint(rate)

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Export
	case "EXPORT_DIR":
		c.ExportDir = value
	case "EXPORT_FILE_NAME":
		c.ExportFileName = value
	case "ARCHIVE_DB_PATH":
		c.ArchiveDBPath = value

	// Display
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks cross-field constraints after parsing.
func (c *Config) validate() error {
	if err := c.Motion().Validate(); err != nil {
		return err
	}
	if c.SampleIntervalMS <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL_MS must be positive, got %d", c.SampleIntervalMS)
	}
	if c.IMUAccelLSBPerG <= 0 || c.IMUGyroLSBPerDPS <= 0 {
		return fmt.Errorf("IMU sensitivities must be positive")
	}
	if c.ExportFileName == "" {
		return fmt.Errorf("EXPORT_FILE_NAME is required")
	}
	if c.WebServerPort < 0 || c.WebServerPort > 65535 {
		return fmt.Errorf("WEB_SERVER_PORT out of range: %d", c.WebServerPort)
	}
	switch c.Source {
	case SourceSerial:
		if c.SerialPort == "" {
			return fmt.Errorf("SERIAL_PORT is required when SOURCE=serial")
		}
		if c.SerialBaudRate == 0 {
			return fmt.Errorf("SERIAL_BAUD_RATE is required when SOURCE=serial")
		}
	case SourceMQTT:
		if c.MQTTBroker == "" || c.TopicIMURaw == "" {
			return fmt.Errorf("MQTT_BROKER and TOPIC_IMU_RAW are required when SOURCE=mqtt")
		}
	}
	return nil
}

// Motion returns the dead-reckoning tuning carried by the config.
func (c *Config) Motion() motion.Config {
	return motion.Config{
		CalibrationWindow:     c.CalibrationWindow,
		AccelerationThreshold: c.AccelerationThreshold,
		VelocityThreshold:     c.VelocityThreshold,
		GravityConstant:       c.Gravity,
	}
}

// SampleInterval is SAMPLE_INTERVAL_MS as a duration.
func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalMS) * time.Millisecond
}

// InitGlobal initializes the global configuration from file.
// Only the first call has any effect.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
