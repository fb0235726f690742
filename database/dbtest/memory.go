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

package dbtest

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/types"
)

// Recorded is one executed command.
type Recorded struct {
	Text   string
	Params []types.Param
	Method string
}

// Param returns the value bound under name.
func (r Recorded) Param(name string) (types.Value, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return types.Null, false
}

type table struct {
	columns []string
	rows    []map[string]any
	nextID  int64
}

// Conn is an in-memory database.Connection that understands the statement
// shapes norm generates. WHERE clauses match rows on equality of every bound
// parameter; other predicate forms are recorded but not evaluated.
type Conn struct {
	mu       sync.Mutex
	tables   map[string]*table
	recorded []Recorded
	failNext error
}

var _ database.Connection = (*Conn)(nil)

func NewConn() *Conn {
	return &Conn{tables: make(map[string]*table)}
}

// FailNext makes the next executed command return err.
func (c *Conn) FailNext(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failNext = err
}

// Commands returns the commands executed so far.
func (c *Conn) Commands() []Recorded {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Recorded(nil), c.recorded...)
}

// Last returns the most recently executed command.
func (c *Conn) Last() Recorded {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.recorded) == 0 {
		return Recorded{}
	}
	return c.recorded[len(c.recorded)-1]
}

// Count returns the number of rows stored for table.
func (c *Conn) Count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.tables[name]; ok {
		return len(t.rows)
	}
	return 0
}

// Seed stores a raw row without going through a statement.
func (c *Conn) Seed(name string, row map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.table(name)
	for k := range row {
		t.addColumn(k)
	}
	t.rows = append(t.rows, row)
}

func (c *Conn) CreateCommand() database.Command {
	return &command{conn: c}
}

func (c *Conn) table(name string) *table {
	t, ok := c.tables[name]
	if !ok {
		t = &table{}
		c.tables[name] = t
	}
	return t
}

func (t *table) addColumn(name string) {
	for _, c := range t.columns {
		if strings.EqualFold(c, name) {
			return
		}
	}
	t.columns = append(t.columns, name)
}

func (c *Conn) begin(method string, cmd *command) error {
	c.recorded = append(c.recorded, Recorded{
		Text:   cmd.text,
		Params: append([]types.Param(nil), cmd.params...),
		Method: method,
	})
	if err := c.failNext; err != nil {
		c.failNext = nil
		return err
	}
	return nil
}

var (
	insertRe = regexp.MustCompile(`^INSERT INTO \[(\w+)\] \((.*)\) OUTPUT INSERTED\.\[(\w+)\] VALUES \((.*)\)$`)
	selectRe = regexp.MustCompile(`^SELECT (?:TOP (\d+) )?\* FROM \[(\w+)\](?: WHERE (.*?))?(?: ORDER BY (.*))?$`)
	updateRe = regexp.MustCompile(`^UPDATE \[(\w+)\] SET (.*) WHERE \[(\w+)\]=@(\w+)$`)
	deleteRe = regexp.MustCompile(`^DELETE FROM \[(\w+)\] WHERE \[(\w+)\]=@(\w+)$`)
	orderRe  = regexp.MustCompile(`\[(\w+)\] (ASC|DESC)`)
)

type command struct {
	conn   *Conn
	text   string
	params []types.Param
}

func (cmd *command) SetText(sql string) { cmd.text = sql }

func (cmd *command) Text() string { return cmd.text }

func (cmd *command) AddParameter(name string, value types.Value) {
	cmd.params = append(cmd.params, types.Param{Name: name, Value: value})
}

func (cmd *command) param(name string) (types.Value, bool) {
	for _, p := range cmd.params {
		if p.Name == name {
			return p.Value, true
		}
	}
	return types.Null, false
}

func (cmd *command) ExecuteScalar(ctx context.Context) (any, error) {
	c := cmd.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("ExecuteScalar", cmd); err != nil {
		return nil, err
	}

	m := insertRe.FindStringSubmatch(cmd.text)
	if m == nil {
		return nil, fmt.Errorf("dbtest: unsupported scalar statement %q", cmd.text)
	}
	t := c.table(m[1])
	t.addColumn(m[3])
	t.nextID++
	row := map[string]any{m[3]: t.nextID}
	for _, col := range splitColumns(m[2]) {
		t.addColumn(col)
		v, ok := cmd.param(col)
		if !ok {
			return nil, fmt.Errorf("dbtest: no parameter bound for column %s", col)
		}
		row[col] = v.Interface()
	}
	t.rows = append(t.rows, row)
	return t.nextID, nil
}

func (cmd *command) ExecuteNonQuery(ctx context.Context) (int64, error) {
	c := cmd.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("ExecuteNonQuery", cmd); err != nil {
		return 0, err
	}

	if m := updateRe.FindStringSubmatch(cmd.text); m != nil {
		t := c.table(m[1])
		key, _ := cmd.param(m[4])
		var affected int64
		for _, row := range t.rows {
			if !sameValue(row[m[3]], key) {
				continue
			}
			for _, assign := range strings.Split(m[2], ",") {
				col := strings.Trim(strings.SplitN(assign, "=", 2)[0], "[] ")
				v, _ := cmd.param(col)
				row[col] = v.Interface()
			}
			affected++
		}
		return affected, nil
	}
	if m := deleteRe.FindStringSubmatch(cmd.text); m != nil {
		t := c.table(m[1])
		key, _ := cmd.param(m[3])
		kept := t.rows[:0]
		var affected int64
		for _, row := range t.rows {
			if sameValue(row[m[2]], key) {
				affected++
				continue
			}
			kept = append(kept, row)
		}
		t.rows = kept
		return affected, nil
	}
	return 0, fmt.Errorf("dbtest: unsupported statement %q", cmd.text)
}

func (cmd *command) ExecuteReader(ctx context.Context) (database.RowCursor, error) {
	c := cmd.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin("ExecuteReader", cmd); err != nil {
		return nil, err
	}

	m := selectRe.FindStringSubmatch(cmd.text)
	if m == nil {
		return nil, fmt.Errorf("dbtest: unsupported query %q", cmd.text)
	}
	t := c.table(m[2])

	var rows []map[string]any
	for _, row := range t.rows {
		if cmd.matches(row) {
			rows = append(rows, row)
		}
	}
	if m[4] != "" {
		keys := orderRe.FindAllStringSubmatch(m[4], -1)
		sort.SliceStable(rows, func(i, j int) bool {
			for _, k := range keys {
				a, b := fmt.Sprint(rows[i][k[1]]), fmt.Sprint(rows[j][k[1]])
				if a == b {
					continue
				}
				less := lessValue(rows[i][k[1]], rows[j][k[1]])
				if k[2] == "DESC" {
					return !less
				}
				return less
			}
			return false
		})
	}
	if m[1] != "" {
		n, _ := strconv.Atoi(m[1])
		if n < len(rows) {
			rows = rows[:n]
		}
	}
	return &Cursor{Columns: append([]string(nil), t.columns...), Rows: rows}, nil
}

func (cmd *command) matches(row map[string]any) bool {
	for _, p := range cmd.params {
		if !sameValue(row[p.Name], p.Value) {
			return false
		}
	}
	return true
}

func splitColumns(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, strings.Trim(p, "[] "))
	}
	return cols
}

func sameValue(stored any, v types.Value) bool {
	if v.IsNull() {
		return stored == nil
	}
	sv, err := types.ValueOf(stored)
	if err != nil || sv.IsNull() {
		return false
	}
	return sv.String() == v.String()
}

func lessValue(a, b any) bool {
	switch x := a.(type) {
	case int64:
		if y, ok := b.(int64); ok {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

// Cursor is a list-backed database.RowCursor.
type Cursor struct {
	Columns []string
	Rows    []map[string]any
	Failure error

	pos    int
	Closed bool
}

var _ database.RowCursor = (*Cursor)(nil)

func (c *Cursor) Read() bool {
	if c.Closed || c.pos >= len(c.Rows) {
		return false
	}
	c.pos++
	return true
}

func (c *Cursor) FieldCount() int { return len(c.Columns) }

func (c *Cursor) ColumnName(i int) string { return c.Columns[i] }

func (c *Cursor) Value(name string) any {
	if c.pos == 0 || c.pos > len(c.Rows) {
		return nil
	}
	row := c.Rows[c.pos-1]
	v, ok := row[name]
	if !ok {
		for k, cell := range row {
			if strings.EqualFold(k, name) {
				v, ok = cell, true
				break
			}
		}
	}
	if !ok {
		return nil
	}
	if v == nil {
		return database.DBNull
	}
	return v
}

func (c *Cursor) Err() error {
	if c.pos >= len(c.Rows) {
		return c.Failure
	}
	return nil
}

func (c *Cursor) Close() error {
	c.Closed = true
	return nil
}
