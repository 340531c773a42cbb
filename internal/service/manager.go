// Package service installs and controls the promptforge system service:
// a launchd daemon on macOS or a systemd unit on Linux that runs the
// HTTP API.
package service

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"text/template"
)

// LogPath is where the service writes stdout and stderr.
const LogPath = "/tmp/promptforge.log"

// ID returns the launchd label (darwin) or systemd unit name (linux).
func ID() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return "com.promptforge.promptforge", nil
	case "linux":
		return "promptforge", nil
	default:
		return "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Paths returns the installed binary and service config locations.
func Paths() (binaryPath, configPath string, err error) {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/bin/promptforge",
			"/Library/LaunchDaemons/com.promptforge.promptforge.plist", nil
	case "linux":
		return "/usr/local/bin/promptforge",
			"/etc/systemd/system/promptforge.service", nil
	default:
		return "", "", fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// IsInstalled checks whether the service binary and config are in place.
func IsInstalled() bool {
	binaryPath, configPath, err := Paths()
	if err != nil {
		return false
	}

	if _, err := os.Stat(configPath); err != nil {
		return false
	}
	_, err = os.Stat(binaryPath)
	return err == nil
}

// IsRunning checks if the service is running.
func IsRunning() bool {
	serviceID, err := ID()
	if err != nil {
		return false
	}

	switch runtime.GOOS {
	case "darwin":
		cmd := exec.Command("launchctl", "list", serviceID)
		return cmd.Run() == nil
	case "linux":
		cmd := exec.Command("systemctl", "is-active", "--quiet", serviceID)
		return cmd.Run() == nil
	default:
		return false
	}
}

// Install copies the binary, writes the service config, and enables it.
func Install(sourceBinary string) error {
	binaryPath, configPath, err := Paths()
	if err != nil {
		return err
	}

	if err := copyBinary(sourceBinary, binaryPath); err != nil {
		return fmt.Errorf("failed to copy binary: %w", err)
	}

	if err := createServiceConfig(configPath, binaryPath); err != nil {
		return fmt.Errorf("failed to create service config: %w", err)
	}

	if err := enableService(); err != nil {
		return fmt.Errorf("failed to enable service: %w", err)
	}

	return nil
}

// Uninstall stops the service and removes its binary and config.
func Uninstall() error {
	_ = Stop()

	binaryPath, configPath, err := Paths()
	if err != nil {
		return err
	}
	serviceID, err := ID()
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		exec.Command("launchctl", "unload", configPath).Run()
	case "linux":
		exec.Command("systemctl", "disable", serviceID).Run()
		exec.Command("systemctl", "daemon-reload").Run()
	}

	os.Remove(configPath)
	os.Remove(binaryPath)

	return nil
}

// Start starts the service.
func Start() error {
	serviceID, err := ID()
	if err != nil {
		return err
	}
	_, configPath, err := Paths()
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("launchctl", "load", configPath).Run()
	case "linux":
		return exec.Command("systemctl", "start", serviceID).Run()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Stop stops the service.
func Stop() error {
	serviceID, err := ID()
	if err != nil {
		return err
	}
	_, configPath, err := Paths()
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("launchctl", "unload", configPath).Run()
	case "linux":
		return exec.Command("systemctl", "stop", serviceID).Run()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// Restart restarts the service. A stop failure is ignored, the service
// might not be running.
func Restart() error {
	_ = Stop()
	return Start()
}

func copyBinary(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, data, 0755)
}

func createServiceConfig(configPath, binaryPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return createLaunchdPlist(configPath, binaryPath)
	case "linux":
		return createSystemdUnit(configPath, binaryPath)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

func enableService() error {
	serviceID, err := ID()
	if err != nil {
		return err
	}
	_, configPath, err := Paths()
	if err != nil {
		return err
	}

	switch runtime.GOOS {
	case "darwin":
		return exec.Command("launchctl", "load", configPath).Run()
	case "linux":
		if err := exec.Command("systemctl", "daemon-reload").Run(); err != nil {
			return err
		}
		return exec.Command("systemctl", "enable", serviceID).Run()
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

const launchdPlistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.BinaryPath}}</string>
        <string>serve</string>
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <true/>
    <key>StandardOutPath</key>
    <string>{{.LogPath}}</string>
    <key>StandardErrorPath</key>
    <string>{{.LogPath}}</string>
</dict>
</plist>
`

func createLaunchdPlist(configPath, binaryPath string) error {
	tmpl, err := template.New("plist").Parse(launchdPlistTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	serviceID, err := ID()
	if err != nil {
		return err
	}

	return tmpl.Execute(f, map[string]string{
		"Label":      serviceID,
		"BinaryPath": binaryPath,
		"LogPath":    LogPath,
	})
}

const systemdUnitTemplate = `[Unit]
Description=promptforge prompt assembly service
After=network.target

[Service]
Type=simple
ExecStart={{.BinaryPath}} serve
Restart=always
RestartSec=5
StandardOutput=append:{{.LogPath}}
StandardError=append:{{.LogPath}}

[Install]
WantedBy=multi-user.target
`

func createSystemdUnit(configPath, binaryPath string) error {
	tmpl, err := template.New("unit").Parse(systemdUnitTemplate)
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return tmpl.Execute(f, map[string]string{
		"BinaryPath": binaryPath,
		"LogPath":    LogPath,
	})
}
