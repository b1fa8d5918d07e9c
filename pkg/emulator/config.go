package emulator

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config describes the emulated device. Zero fields fall back to the
// defaults, so a YAML file only lists what it overrides.
type Config struct {
	// Name the device advertises.
	Name string `yaml:"name"`

	// FirmwareVersion as a dotted string, e.g. "4.12.0.1".
	FirmwareVersion string `yaml:"firmware_version"`

	// SerialNumber, 24 bits on the wire.
	SerialNumber uint32 `yaml:"serial_number"`

	// MfcYear and MfcWeek form the manufacturing date.
	MfcYear uint8 `yaml:"mfc_year"`
	MfcWeek uint8 `yaml:"mfc_week"`

	// BatteryLevel reported in percent. Levels of 5 and below make the
	// device refuse configuration writes, like a real one.
	BatteryLevel uint8 `yaml:"battery_level"`

	// StorageSize is the configuration storage in bytes.
	StorageSize uint32 `yaml:"storage_size"`

	// USBPowered gates Shutdown (refused) and Reset (required).
	USBPowered bool `yaml:"usb_powered"`
}

// DefaultConfig returns the stock device: a healthy battery, an
// arbitrary serial and 1 MiB of configuration storage.
func DefaultConfig() Config {
	return Config{
		Name:            "ENGO 2 EMU",
		FirmwareVersion: "4.12.0.1",
		SerialNumber:    0x00017B,
		MfcYear:         24,
		MfcWeek:         3,
		BatteryLevel:    100,
		StorageSize:     1 << 20,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// Validate checks the field ranges.
func (c Config) Validate() error {
	if c.BatteryLevel > 100 {
		return fmt.Errorf("battery level %d out of range", c.BatteryLevel)
	}
	if c.SerialNumber > 0xFFFFFF {
		return fmt.Errorf("serial number 0x%X exceeds 24 bits", c.SerialNumber)
	}
	if c.StorageSize < systemCfgSize {
		return fmt.Errorf("storage size %d below the %d bytes held by the built-in configuration", c.StorageSize, systemCfgSize)
	}
	if _, err := c.firmwareVersion(); err != nil {
		return err
	}
	return nil
}

// firmwareVersion parses the dotted version string into its wire form.
func (c Config) firmwareVersion() ([4]byte, error) {
	var version [4]byte
	parts := strings.Split(c.FirmwareVersion, ".")
	if len(parts) != 4 {
		return version, fmt.Errorf("firmware version %q: want four dotted numbers", c.FirmwareVersion)
	}
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 8)
		if err != nil {
			return version, fmt.Errorf("firmware version %q: %w", c.FirmwareVersion, err)
		}
		version[i] = byte(n)
	}
	return version, nil
}
