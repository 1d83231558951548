/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"screenwright/internal/config"
	"screenwright/internal/storage"
)

// commandContext carries lazily opened state shared by all subcommands.
type commandContext struct {
	projectFlag *string

	projectOnce sync.Once
	ph          *storage.ProjectHandle
	phErr       error

	configOnce sync.Once
	cfg        config.AppConfig
	token      string
}

func newCommandContext(projectFlag *string) *commandContext {
	return &commandContext{projectFlag: projectFlag}
}

func (c *commandContext) projectRoot() string {
	dir := "."
	if c.projectFlag != nil && strings.TrimSpace(*c.projectFlag) != "" {
		dir = *c.projectFlag
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}

// handle opens the project named by --project exactly once.
func (c *commandContext) handle() (*storage.ProjectHandle, error) {
	c.projectOnce.Do(func() {
		ph, err := storage.Open(c.projectRoot())
		if err != nil {
			c.phErr = fmt.Errorf("open project %s: %w", c.projectRoot(), err)
			return
		}
		c.ph = ph
	})
	return c.ph, c.phErr
}

// config loads the user config once; load failures fall back to defaults so
// commands that only touch local files keep working.
func (c *commandContext) config() config.AppConfig {
	c.configOnce.Do(func() {
		cfg, token, err := config.Load()
		if err != nil {
			c.cfg = config.Defaults()
			return
		}
		c.cfg = cfg
		c.token = token
	})
	return c.cfg
}

// readScript returns the text to operate on: the file argument when given,
// otherwise the open project's script.
func (c *commandContext) readScript(args []string) (text string, path string, err error) {
	if len(args) > 0 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("read %s: %w", args[0], err)
		}
		return string(b), args[0], nil
	}
	ph, err := c.handle()
	if err != nil {
		return "", "", err
	}
	text, err = storage.ReadScript(ph)
	if err != nil {
		return "", "", err
	}
	return text, storage.ScriptFilePath(ph), nil
}

// writeResult either rewrites the source in place or prints to w.
func (c *commandContext) writeResult(w io.Writer, out string, path string, inPlace bool, fromArg bool) error {
	if !inPlace {
		if !strings.HasSuffix(out, "\n") {
			out += "\n"
		}
		_, err := io.WriteString(w, out)
		return err
	}
	if fromArg {
		return os.WriteFile(path, []byte(out), 0o644)
	}
	ph, err := c.handle()
	if err != nil {
		return err
	}
	return storage.WriteScript(ph, out)
}
