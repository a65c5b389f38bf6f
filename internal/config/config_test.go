/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"runtime"
	"testing"
)

// stubStore keeps tokens in memory so tests never touch the OS keyring.
type stubStore struct {
	m map[string]string
}

func (s *stubStore) Get(service, key string) (string, error) { return s.m[service+"/"+key], nil }
func (s *stubStore) Set(service, key, value string) error {
	s.m[service+"/"+key] = value
	return nil
}
func (s *stubStore) Delete(service, key string) error {
	delete(s.m, service+"/"+key)
	return nil
}

func useStubKeyring(t *testing.T) *stubStore {
	t.Helper()
	old := tokenStore
	st := &stubStore{m: map[string]string{}}
	tokenStore = st
	t.Cleanup(func() { tokenStore = old })
	return st
}

func useTempHome(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("temp home redirection not supported on windows")
	}
	t.Setenv("HOME", t.TempDir())
}

func clearEnvOverrides(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvRemoteTimeoutMs, EnvTelemetryOptIn, EnvLogLevel, EnvLogFormat, EnvLogSource, EnvLogFile} {
		t.Setenv(k, "")
		_ = os.Unsetenv(k)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.Editor.ContainerWidth != 500 || cfg.Editor.ContainerHeight != 375 {
		t.Fatalf("unexpected container defaults: %+v", cfg.Editor)
	}
	if cfg.Editor.MinCropSize != 50 || cfg.Editor.PreviewBudget != 200 {
		t.Fatalf("unexpected editor defaults: %+v", cfg.Editor)
	}
	if cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry must default to opt-out")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	useTempHome(t)
	clearEnvOverrides(t)
	st := useStubKeyring(t)

	cfg := Defaults()
	cfg.General.Theme = "dark"
	cfg.Editor.MinCropSize = 64
	cfg.Remote.TimeoutMs = 3000
	if err := Save(cfg, "tok123"); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if st.m[keyringService+"/"+keyringToken] != "tok123" {
		t.Fatalf("token not persisted to keyring")
	}

	got, tok, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.General.Theme != "dark" || got.Editor.MinCropSize != 64 || got.Remote.TimeoutMs != 3000 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if tok != "tok123" {
		t.Fatalf("token = %q", tok)
	}
}

func TestLoadAppliesEnvOverrides(t *testing.T) {
	useTempHome(t)
	clearEnvOverrides(t)
	useStubKeyring(t)

	t.Setenv(EnvRemoteTimeoutMs, "250")
	t.Setenv(EnvTelemetryOptIn, "yes")
	t.Setenv(EnvLogLevel, "DEBUG")

	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Remote.TimeoutMs != 250 {
		t.Fatalf("timeout override ignored: %d", cfg.Remote.TimeoutMs)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("telemetry override ignored")
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("log level override ignored: %s", cfg.Logging.Level)
	}
}

func TestMergeKeepsDefaultsForZeroValues(t *testing.T) {
	dst := Defaults()
	src := AppConfig{}
	mergeInto(&dst, &src)
	if dst.Editor.ContainerWidth != 500 || dst.Editor.PreviewBudget != 200 {
		t.Fatalf("zero-value merge clobbered defaults: %+v", dst.Editor)
	}
	src.Editor.ContainerWidth = 640
	mergeInto(&dst, &src)
	if dst.Editor.ContainerWidth != 640 {
		t.Fatalf("merge ignored set value: %+v", dst.Editor)
	}
}

func TestDeleteToken(t *testing.T) {
	st := useStubKeyring(t)
	st.m[keyringService+"/"+keyringToken] = "x"
	if err := DeleteToken(); err != nil {
		t.Fatalf("DeleteToken error: %v", err)
	}
	if _, ok := st.m[keyringService+"/"+keyringToken]; ok {
		t.Fatalf("token not deleted")
	}
}
