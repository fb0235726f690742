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
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tomoncle/norm/utils"
	"github.com/uptrace/bun"
)

// ScriptFile is one discovered .sql file.
type ScriptFile struct {
	Path  string
	Name  string
	Order int
}

// ScriptResult is the outcome of running one ScriptFile.
type ScriptResult struct {
	File         string
	Statements   int
	RowsAffected int64
	Duration     time.Duration
	Err          error
}

var scriptOrderRe = regexp.MustCompile(`^(\d+)_`)

// unordered scripts run after every numbered one
const unorderedScript = 999

// ScriptRunner executes schema and seed scripts, one transaction per file.
type ScriptRunner struct {
	db     *bun.DB
	logger Logger
}

func NewScriptRunner(db *bun.DB) *ScriptRunner {
	return &ScriptRunner{db: db, logger: GetLogger()}
}

// Files lists the .sql files under dir ordered by their numeric prefix
// ("001_schema.sql") and then by name.
func (s *ScriptRunner) Files(dir string) ([]ScriptFile, error) {
	var files []ScriptFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".sql") {
			return nil
		}
		files = append(files, ScriptFile{Path: path, Name: d.Name(), Order: scriptOrder(d.Name())})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Order != files[j].Order {
			return files[i].Order < files[j].Order
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

func scriptOrder(name string) int {
	if m := scriptOrderRe.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return unorderedScript
}

// RunDir runs every script under dir and stops at the first failure.
func (s *ScriptRunner) RunDir(ctx context.Context, dir string) ([]ScriptResult, error) {
	files, err := s.Files(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list SQL scripts: %w", err)
	}
	results := make([]ScriptResult, 0, len(files))
	for _, f := range files {
		res := s.RunFile(ctx, f.Path)
		results = append(results, res)
		if res.Err != nil {
			s.logger.Error("SQL script failed", "file", f.Name, "error", res.Err)
			return results, fmt.Errorf("SQL script %s failed: %w", f.Name, res.Err)
		}
		s.logger.Info("SQL script executed",
			"file", f.Name,
			"statements", res.Statements,
			"rows_affected", res.RowsAffected,
			"duration", res.Duration,
		)
	}
	return results, nil
}

// RunFile runs the batches of one script inside a transaction.
func (s *ScriptRunner) RunFile(ctx context.Context, path string) ScriptResult {
	start := time.Now()
	res := ScriptResult{File: path}

	content, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("failed to read file: %w", err)
		res.Duration = utils.Since(start)
		return res
	}
	batches := SplitBatches(string(content))
	res.Statements = len(batches)
	if len(batches) == 0 {
		res.Duration = utils.Since(start)
		return res
	}

	res.Err = s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		for _, stmt := range batches {
			r, err := tx.ExecContext(ctx, stmt)
			if err != nil {
				return fmt.Errorf("failed to execute %q: %w", firstLine(stmt), err)
			}
			n, _ := r.RowsAffected()
			res.RowsAffected += n
		}
		return nil
	})
	res.Duration = utils.Since(start)
	return res
}

// SplitBatches splits a script into executable statements. A line holding
// only GO ends a batch; scripts without GO lines are split after lines
// ending in a semicolon. Blank lines and "--" comment lines are dropped.
func SplitBatches(content string) []string {
	var lines []string
	useGo := false
	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		if strings.EqualFold(line, "GO") {
			useGo = true
		}
		lines = append(lines, line)
	}

	var batches []string
	var current []string
	flush := func() {
		if stmt := strings.TrimSpace(strings.Join(current, "\n")); stmt != "" {
			batches = append(batches, stmt)
		}
		current = current[:0]
	}
	for _, line := range lines {
		switch {
		case useGo && strings.EqualFold(line, "GO"):
			flush()
		case useGo:
			current = append(current, line)
		default:
			current = append(current, line)
			if strings.HasSuffix(line, ";") {
				flush()
			}
		}
	}
	flush()
	return batches
}

func firstLine(stmt string) string {
	if i := strings.IndexByte(stmt, '\n'); i >= 0 {
		return stmt[:i] + " ..."
	}
	return stmt
}
