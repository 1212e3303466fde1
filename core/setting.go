package core

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// EngineSetting carries the commutation-engine limits from the setting
// file. The instruction ceiling is the backpressure against the
// exponential branch growth of conditioned Clifford rotations.
type EngineSetting struct {
	MaxInstructions int `toml:"max_instructions"`
	TimeoutSeconds  int `toml:"timeout_seconds"`
}

type PipelineSetting struct {
	QueueMaxSize int `toml:"queue_max_size"`
}

type Setting struct {
	Engine   EngineSetting   `toml:"engine"`
	Pipeline PipelineSetting `toml:"pipeline"`
}

func DefaultSetting() *Setting {
	return &Setting{
		Engine: EngineSetting{
			MaxInstructions: 1 << 20,
			TimeoutSeconds:  0,
		},
		Pipeline: PipelineSetting{QueueMaxSize: 100},
	}
}

var globalSetting *Setting

func ResetSetting() {
	globalSetting = DefaultSetting()
}

func GetSetting() *Setting {
	if globalSetting == nil {
		ResetSetting()
	}
	return globalSetting
}

// ParseSettingFromPath decodes the TOML setting file over the defaults,
// so absent keys keep their default values.
func ParseSettingFromPath(settingsPath string) error {
	tomlString, err := readSettingsFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read setting file/reason:%s", err))
		return err
	}
	return GetSetting().parseSetting(tomlString)
}

func (s *Setting) parseSetting(tomlString string) error {
	_, err := toml.Decode(tomlString, s)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to parse setting/reason:%s", err))
		return err
	}
	zap.L().Debug(fmt.Sprintf("Setting is %+v", *s))
	return nil
}

func readSettingsFile(settingsPath string) (string, error) {
	bytes, err := os.ReadFile(settingsPath)
	if err != nil {
		zap.L().Error(fmt.Sprintf("failed to read settings file/path:%s/reason:%s",
			settingsPath, err))
		if absolutePath, absErr := filepath.Abs(settingsPath); absErr != nil {
			zap.L().Error(fmt.Sprintf("failed to get absolute path of %s/reason:%s",
				settingsPath, absErr))
		} else {
			zap.L().Debug(fmt.Sprintf("absolute path:%s", absolutePath))
		}
		return "", err
	}
	return string(bytes), nil
}
