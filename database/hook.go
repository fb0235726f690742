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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/tomoncle/norm/utils"
	"github.com/uptrace/bun"
)

// DebugEnv overrides StatementHook: "0" disables it, "1" logs failed
// statements and "2" logs every statement.
const DebugEnv = "NORM_DEBUG"

var silent atomic.Bool

// EnableSilent mutes every statement hook in the process.
func EnableSilent(b bool) {
	silent.Store(b)
}

var operationColors = map[string]*color.Color{
	"SELECT": color.New(color.FgGreen),
	"INSERT": color.New(color.FgBlue),
	"UPDATE": color.New(color.FgYellow),
	"DELETE": color.New(color.FgMagenta),
}

func colorize(event *bun.QueryEvent) string {
	c, ok := operationColors[strings.ToUpper(event.Operation())]
	if !ok {
		c = color.New(color.FgRed)
	}
	return c.Sprint(event.Query)
}

type HookOption func(*StatementHook)

func WithEnabled(on bool) HookOption {
	return func(h *StatementHook) { h.enabled = on }
}

func WithVerbose(on bool) HookOption {
	return func(h *StatementHook) { h.verbose = on }
}

func WithWriter(w io.Writer) HookOption {
	return func(h *StatementHook) { h.writer = w }
}

// StatementHook prints executed statements with their duration, colored by
// operation.
type StatementHook struct {
	envName string
	enabled bool
	verbose bool
	writer  io.Writer
}

var _ bun.QueryHook = (*StatementHook)(nil)

func NewStatementHook(opts ...HookOption) *StatementHook {
	h := &StatementHook{envName: DebugEnv, enabled: true, writer: os.Stderr}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *StatementHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *StatementHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if silent.Load() {
		return
	}
	enabled, verbose := h.enabled, h.verbose
	if env, ok := os.LookupEnv(h.envName); ok {
		enabled = env != "" && env != "0"
		verbose = env == "2"
	}
	if !enabled {
		return
	}
	if !verbose {
		switch {
		case event.Err == nil, errors.Is(event.Err, sql.ErrNoRows), errors.Is(event.Err, sql.ErrTxDone):
			return
		}
	}

	now := time.Now()
	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		color.CyanString("%8s", "[NORM]"),
		fmt.Sprintf("%12s", utils.Since(event.StartTime)),
		" ", colorize(event),
	}
	if n := len(event.QueryArgs); n > 0 {
		args = append(args, color.New(color.Faint).Sprintf("(%d params)", n))
	}
	if event.Err != nil {
		typ := reflect.TypeOf(event.Err).String()
		args = append(args, "\t", color.New(color.BgRed).Sprintf(" %s: %s ", typ, event.Err))
	}
	_, _ = fmt.Fprintln(h.writer, args...)
}

// SlowStatementHook logs a warning for successful statements slower than
// the threshold.
type SlowStatementHook struct {
	threshold time.Duration
	logger    Logger
}

var _ bun.QueryHook = (*SlowStatementHook)(nil)

func NewSlowStatementHook(threshold time.Duration, logger Logger) *SlowStatementHook {
	if logger == nil {
		logger = GetLogger()
	}
	return &SlowStatementHook{threshold: threshold, logger: logger}
}

func (h *SlowStatementHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *SlowStatementHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if silent.Load() || event.Err != nil || h.threshold <= 0 {
		return
	}
	if d := utils.Since(event.StartTime); d > h.threshold {
		h.logger.Warn("Slow statement detected",
			"duration", d,
			"threshold", h.threshold,
			"query", event.Query,
		)
	}
}
