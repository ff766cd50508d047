/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package buildcfg

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	hscvrs "github.com/hashicorp/go-version"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/wolfpld/usenetarchive-sub001/uaterr"
)

// GatewayConfig is the web gateway's single INI file (spec §6.4): the
// boundary contract an unbuilt HTTP server reads its bind address, archive
// path and tracker endpoint from.
type GatewayConfig struct {
	Bind             string `mapstructure:"bind"`
	Port             int    `mapstructure:"port"`
	Path             string `mapstructure:"path"`
	Tracker          string `mapstructure:"tracker"`
	MinClientVersion string `mapstructure:"min_client_version"`
}

// DefaultPath resolves baseName against the user's home directory, mirroring
// cobra's getDefaultPath: "~/<baseName>.ini" unless baseName is already an
// absolute path, which is returned unchanged.
func DefaultPath(baseName string) (string, error) {
	if baseName == "" {
		return "", uaterr.Malformedf("buildcfg.DefaultPath", "base name is empty")
	}
	if filepath.IsAbs(baseName) {
		return baseName, nil
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", uaterr.IOErrorWrap("buildcfg.DefaultPath", err)
	}
	return filepath.Join(home, baseName+".ini"), nil
}

// Load reads path as INI via viper and decodes it into a GatewayConfig.
func Load(path string) (*GatewayConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	v.SetDefault("bind", "127.0.0.1")
	v.SetDefault("port", 8080)

	if err := v.ReadInConfig(); err != nil {
		return nil, uaterr.IOErrorWrap("buildcfg.Load", err)
	}

	var cfg GatewayConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, uaterr.Malformedf("buildcfg.Load", "decoding %s: %v", path, err)
	}
	return &cfg, nil
}

// Watch reloads the config from path whenever it changes on disk (fsnotify,
// via viper's WatchConfig) and hands the new value to onChange. onChange
// receives nil if the reload itself fails, so callers can log and keep
// serving the last good config rather than crash on a bad edit.
func Watch(path string, onChange func(cfg *GatewayConfig, err error)) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")

	if err := v.ReadInConfig(); err != nil {
		return uaterr.IOErrorWrap("buildcfg.Watch", err)
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		var cfg GatewayConfig
		if err := v.Unmarshal(&cfg); err != nil {
			onChange(nil, uaterr.Malformedf("buildcfg.Watch", "decoding %s after %s: %v", path, e.Op, err))
			return
		}
		onChange(&cfg, nil)
	})
	v.WatchConfig()
	return nil
}

// CheckClientVersion reports whether clientVersion satisfies the config's
// MinClientVersion constraint (empty MinClientVersion accepts anything).
func (c *GatewayConfig) CheckClientVersion(clientVersion string) (bool, error) {
	if c.MinClientVersion == "" {
		return true, nil
	}
	min, err := hscvrs.NewVersion(c.MinClientVersion)
	if err != nil {
		return false, uaterr.Malformedf("buildcfg.CheckClientVersion", "min_client_version %q: %v", c.MinClientVersion, err)
	}
	got, err := hscvrs.NewVersion(clientVersion)
	if err != nil {
		return false, uaterr.Malformedf("buildcfg.CheckClientVersion", "client version %q: %v", clientVersion, err)
	}
	return got.GreaterThanOrEqual(min), nil
}

func (c *GatewayConfig) String() string {
	return fmt.Sprintf("%s:%d%s -> %s", c.Bind, c.Port, c.Path, c.Tracker)
}
