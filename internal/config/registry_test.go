package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "rokuctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'rokuctl'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin", "linux":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("Unix config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.ScanTimeout != 2 {
		t.Errorf("NewRegistry().Preferences.ScanTimeout = %v, want 2", reg.Preferences.ScanTimeout)
	}

	if reg.Preferences.MulticastTTL != 4 {
		t.Errorf("NewRegistry().Preferences.MulticastTTL = %v, want 4", reg.Preferences.MulticastTTL)
	}

	if reg.Preferences.ScanRounds != 1 {
		t.Errorf("NewRegistry().Preferences.ScanRounds = %v, want 1", reg.Preferences.ScanRounds)
	}
}

func TestRegistryEnsureDevice(t *testing.T) {
	reg := NewRegistry()

	// First call should create device
	device1 := reg.EnsureDevice("192.168.1.50:8060")
	if device1 == nil {
		t.Fatal("EnsureDevice() returned nil")
	}

	// Second call should return same device
	device2 := reg.EnsureDevice("192.168.1.50:8060")
	if device1 != device2 {
		t.Error("EnsureDevice() should return same instance for same address")
	}

	// Different address should create new device
	device3 := reg.EnsureDevice("192.168.1.51:8060")
	if device1 == device3 {
		t.Error("EnsureDevice() should create new instance for different address")
	}
}

func TestRegistryMarkSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.MarkSeen("192.168.1.50:8060", "Roku/14.0 UPnP/1.0 Roku/14.0")
	after := time.Now()

	device := reg.GetDevice("192.168.1.50:8060")
	if device == nil {
		t.Fatal("Device should exist after MarkSeen()")
	}

	if device.Server != "Roku/14.0 UPnP/1.0 Roku/14.0" {
		t.Errorf("Server = %v, want the discovery server string", device.Server)
	}

	if device.LastSeen.Before(before) || device.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", device.LastSeen, before, after)
	}

	// Empty server string should not clobber the stored one
	reg.MarkSeen("192.168.1.50:8060", "")
	if device.Server != "Roku/14.0 UPnP/1.0 Roku/14.0" {
		t.Error("MarkSeen() with empty server should keep the previous value")
	}
}

func TestRegistrySetNickname(t *testing.T) {
	reg := NewRegistry()

	reg.SetNickname("192.168.1.50:8060", "Living Room TV")

	device := reg.GetDevice("192.168.1.50:8060")
	if device == nil {
		t.Fatal("Device should exist after SetNickname()")
	}

	if device.Nickname != "Living Room TV" {
		t.Errorf("Nickname = %v, want 'Living Room TV'", device.Nickname)
	}
}

func TestRegistryDisplayName(t *testing.T) {
	reg := NewRegistry()

	if got := reg.DisplayName("192.168.1.50:8060"); got != "192.168.1.50:8060" {
		t.Errorf("DisplayName() for unknown device = %v, want the address", got)
	}

	reg.SetNickname("192.168.1.50:8060", "Bedroom")
	if got := reg.DisplayName("192.168.1.50:8060"); got != "Bedroom" {
		t.Errorf("DisplayName() = %v, want 'Bedroom'", got)
	}
}

func TestRegistryYAMLRoundTrip(t *testing.T) {
	reg := NewRegistry()
	reg.SetNickname("192.168.1.50:8060", "Living Room TV")
	reg.MarkSeen("192.168.1.50:8060", "Roku/14.0 UPnP/1.0 Roku/14.0")
	reg.Preferences.DefaultDevice = "192.168.1.50:8060"
	reg.Preferences.MDNSFallback = true

	data, err := yaml.Marshal(reg)
	if err != nil {
		t.Fatalf("Failed to marshal registry: %v", err)
	}

	var loaded Registry
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("Failed to unmarshal registry: %v", err)
	}

	if loaded.Version != 1 {
		t.Errorf("Loaded version = %v, want 1", loaded.Version)
	}

	device := loaded.GetDevice("192.168.1.50:8060")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}

	if device.Nickname != "Living Room TV" {
		t.Errorf("Loaded nickname = %v, want 'Living Room TV'", device.Nickname)
	}

	if loaded.Preferences == nil || loaded.Preferences.DefaultDevice != "192.168.1.50:8060" {
		t.Error("Loaded preferences should carry the default device")
	}

	if !loaded.Preferences.MDNSFallback {
		t.Error("Loaded preferences should carry the mDNS fallback flag")
	}
}

func TestLoadRegistryFromDiskMissingFile(t *testing.T) {
	// Point the config dir at an empty temp directory so no file exists.
	tmpDir := t.TempDir()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("LOCALAPPDATA", tmpDir)
	default:
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
	}

	reg, err := loadRegistryFromDisk()
	if err != nil {
		t.Fatalf("loadRegistryFromDisk() error = %v", err)
	}

	if reg.Version != 1 {
		t.Errorf("Default registry version = %v, want 1", reg.Version)
	}

	if len(reg.Devices) != 0 {
		t.Errorf("Default registry should have no devices, got %d", len(reg.Devices))
	}
}

func TestLoadRegistryFromDiskBadVersion(t *testing.T) {
	tmpDir := t.TempDir()
	switch runtime.GOOS {
	case "windows":
		t.Setenv("LOCALAPPDATA", tmpDir)
	default:
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
	}

	configDir := filepath.Join(tmpDir, appName)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, configFile), []byte("version: 99\n"), 0600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	if _, err := loadRegistryFromDisk(); err == nil {
		t.Error("loadRegistryFromDisk() should reject an unsupported version")
	}
}

func BenchmarkEnsureDevice(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureDevice("192.168.1.50:8060")
	}
}
