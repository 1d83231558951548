/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"testing"
	"time"
)

// memStore stubs the keyring so tests never touch the OS keychain.
type memStore map[string]string

func (m memStore) Get(service, key string) (string, error) { return m[service+"/"+key], nil }
func (m memStore) Set(service, key, value string) error    { m[service+"/"+key] = value; return nil }
func (m memStore) Delete(service, key string) error        { delete(m, service+"/"+key); return nil }

func stubKeyring(t *testing.T) memStore {
	t.Helper()
	old := tokenStore
	m := memStore{}
	tokenStore = m
	t.Cleanup(func() { tokenStore = old })
	return m
}

func TestEnvOverridesAI(t *testing.T) {
	stubKeyring(t)
	t.Setenv(EnvAIBaseURL, "https://example.test:8443")
	t.Setenv(EnvAIModel, "fast-draft")
	t.Setenv(EnvAIMaxRetries, "5")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AI.BaseURL != "https://example.test:8443" || cfg.AI.Model != "fast-draft" || cfg.AI.MaxRetries != 5 {
		t.Fatalf("AI env overrides not applied: %#v", cfg.AI)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	stubKeyring(t)
	t.Setenv(EnvTelemetryOptIn, "true")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "/tmp/sw.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "/tmp/sw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestMergeIncludesAI(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	src.AI.Model = "long-form"
	src.AI.MaxRetries = 3
	mergeInto(&dst, &src)
	if dst.AI.Model != "long-form" || dst.AI.MaxRetries != 3 {
		t.Fatalf("AI fields not merged: %#v", dst.AI)
	}
	// Zero values must not clobber defaults.
	if dst.AI.BaseURL != Defaults().AI.BaseURL || dst.AI.TimeoutMs != Defaults().AI.TimeoutMs {
		t.Fatalf("defaults clobbered: %#v", dst.AI)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	stubKeyring(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "/tmp/sw.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "/tmp/sw.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	m := stubKeyring(t)
	t.Setenv("HOME", t.TempDir())
	if err := Save(Defaults(), "secret-token"); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if m["Screenwright/ai_token"] != "secret-token" {
		t.Fatalf("token not persisted to keyring: %#v", m)
	}
	_, tok, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if tok != "secret-token" {
		t.Fatalf("token not loaded: %q", tok)
	}
}

func TestAITimeout(t *testing.T) {
	a := AIConfig{TimeoutMs: 1500}
	if a.Timeout() != 1500*time.Millisecond {
		t.Fatalf("timeout: %v", a.Timeout())
	}
	if (AIConfig{}).Timeout() != 30*time.Second {
		t.Fatalf("default timeout: %v", (AIConfig{}).Timeout())
	}
}
