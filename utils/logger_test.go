/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLogLevel(" DEBUG "))
	assert.Equal(t, logrus.WarnLevel, ParseLogLevel("warning"))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLogLevel("chatty"))
}

func TestTextFormatter(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetFormatter(&Log4jColorFormatter{LoggerName: "NORM", NameWidth: 8})

	l.WithFields(logrus.Fields{"table": "Person", "rows": 3}).Warn("slow statement")
	out := buf.String()
	assert.Contains(t, out, "WARNING")
	assert.Contains(t, out, "    NORM")
	assert.Contains(t, out, ": slow statement rows=3 table=Person")
}

func TestJSONFormatter(t *testing.T) {
	l := logrus.New()
	var buf bytes.Buffer
	l.SetOutput(&buf)
	l.SetFormatter(&JSONLogFormatter{LoggerName: "NORM"})

	l.WithField("error", errors.New("boom")).Error("statement failed")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "error", rec["level"])
	assert.Equal(t, "NORM", rec["logger"])
	assert.Equal(t, "statement failed", rec["message"])
	assert.Equal(t, map[string]any{"error": "boom"}, rec["fields"])
}

func TestNamedLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	ConfigureConsoleOutput(&buf)
	t.Cleanup(func() { ConfigureConsoleOutput(os.Stdout) })

	l := NewLogger("utils-test")
	assert.True(t, SetLoggerLevel("utils-test", "error"))
	assert.False(t, SetLoggerLevel("never-registered", "error"))

	l.Info("hidden")
	assert.Empty(t, buf.String())
	l.Error("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("UTILS_TEST_STRING", "value")
	t.Setenv("UTILS_TEST_BOOL", "true")
	t.Setenv("UTILS_TEST_BAD_BOOL", "maybe")

	assert.Equal(t, "value", EnvDefaultString("UTILS_TEST_STRING", "def"))
	assert.Equal(t, "def", EnvDefaultString("UTILS_TEST_UNSET", "def"))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BOOL", false))
	assert.True(t, EnvDefaultBool("UTILS_TEST_BAD_BOOL", true))
	assert.False(t, EnvDefaultBool("UTILS_TEST_UNSET", false))
}

func TestRuneHelpers(t *testing.T) {
	assert.Equal(t, "abc", limitRunes("abcdef", 3))
	assert.Equal(t, "def", limitRunesLeft("abcdef", 3))
	assert.Equal(t, "  ab", padLeftRunes("ab", 4))
	assert.Equal(t, "database/hook.go", shortPath("/src/norm/database/hook.go"))
	assert.GreaterOrEqual(t, Since(time.Now().Add(-time.Millisecond)), time.Millisecond)
}
