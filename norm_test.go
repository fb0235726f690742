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

package norm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomoncle/norm/database"
	"github.com/tomoncle/norm/database/dbtest"
	"github.com/tomoncle/norm/predicate"
	"github.com/tomoncle/norm/types"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) SetLevel(database.LogLevel)   {}
func (l *recordingLogger) Debug(string, ...interface{}) {}
func (l *recordingLogger) Info(string, ...interface{})  {}
func (l *recordingLogger) Warn(string, ...interface{})  {}
func (l *recordingLogger) Error(msg string, kv ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, fmt.Sprint(append([]interface{}{msg}, kv...)...))
}

func newTestDB(t *testing.T) (*Database, *dbtest.Conn, *recordingLogger) {
	t.Helper()
	conn := dbtest.NewConn()
	logger := &recordingLogger{}
	db := New(conn, WithClock(func() time.Time { return testNow }), WithLogger(logger))
	t.Cleanup(func() { assert.NoError(t, db.Close()) })
	return db, conn, logger
}

func TestInsertThenSelectByKey(t *testing.T) {
	ctx := context.Background()
	db, _, _ := newTestDB(t)

	mi := types.Char('Q')
	p := dbtest.NewPerson("Jane", "Doe", 'F')
	p.MiddleInitial = &mi

	id, err := Insert(ctx, db, p)
	require.NoError(t, err)
	assert.EqualValues(t, 1, id)
	assert.Equal(t, 1, p.Id)
	assert.Equal(t, testNow, p.CreateDate)

	got, err := Select[dbtest.Person](db, predicate.Field("Id").Eq(id)).SingleOrDefault(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.Id, got.Id)
	assert.Equal(t, p.FirstName, got.FirstName)
	assert.Equal(t, p.LastName, got.LastName)
	assert.Equal(t, p.Gender, got.Gender)
	require.NotNil(t, got.MiddleInitial)
	assert.Equal(t, mi, *got.MiddleInitial)
}

type Widget struct {
	Id   uuid.UUID
	Name string
}

// scalarConn answers every ExecuteScalar with a fixed value.
type scalarConn struct {
	scalar any
	texts  []string
}

func (c *scalarConn) CreateCommand() database.Command { return &scalarCommand{conn: c} }

type scalarCommand struct {
	conn *scalarConn
	text string
}

func (cmd *scalarCommand) SetText(sql string)                             { cmd.text = sql }
func (cmd *scalarCommand) Text() string                                   { return cmd.text }
func (cmd *scalarCommand) AddParameter(string, types.Value)               {}
func (cmd *scalarCommand) ExecuteNonQuery(context.Context) (int64, error) { return 0, nil }
func (cmd *scalarCommand) ExecuteReader(context.Context) (database.RowCursor, error) {
	return &dbtest.Cursor{}, nil
}
func (cmd *scalarCommand) ExecuteScalar(context.Context) (any, error) {
	cmd.conn.texts = append(cmd.conn.texts, cmd.text)
	return cmd.conn.scalar, nil
}

func TestInsertGuidKey(t *testing.T) {
	g := uuid.New()
	conn := &scalarConn{scalar: g.String()}
	db := New(conn, WithLogger(&recordingLogger{}))

	w := &Widget{Name: "gear"}
	key, err := Insert(context.Background(), db, w)
	require.NoError(t, err)
	assert.Equal(t, g, key)
	assert.Equal(t, g, w.Id)
	require.Len(t, conn.texts, 1)
	assert.Equal(t, "INSERT INTO [Widget] ([Name]) OUTPUT INSERTED.[Id] VALUES (@Name)", conn.texts[0])
}

func TestInsertStringKey(t *testing.T) {
	type Code struct {
		CodeId string
		Label  string
	}
	db := New(&scalarConn{scalar: "AB-12"}, WithLogger(&recordingLogger{}))

	c := &Code{Label: "x"}
	key, err := Insert(context.Background(), db, c)
	require.NoError(t, err)
	assert.Equal(t, "AB-12", key)
	assert.Equal(t, "AB-12", c.CodeId)
}

func TestInsertKeyConversionFailure(t *testing.T) {
	logger := &recordingLogger{}
	db := New(&scalarConn{scalar: "not-a-number"}, WithLogger(logger))

	p := dbtest.NewPerson("A", "B", 'M')
	key, err := Insert(context.Background(), db, p)
	var conv *ConversionError
	assert.ErrorAs(t, err, &conv)
	assert.Nil(t, key)
	assert.Zero(t, p.Id)
	assert.Len(t, logger.errors, 1)
}

func TestSingleOrDefault(t *testing.T) {
	ctx := context.Background()
	db, _, _ := newTestDB(t)

	none, err := Select[dbtest.Person](db, predicate.Field("LastName").Eq("Nobody")).SingleOrDefault(ctx)
	require.NoError(t, err)
	assert.Nil(t, none)

	for _, first := range []string{"A", "B"} {
		_, err := Insert(ctx, db, dbtest.NewPerson(first, "Same", 'M'))
		require.NoError(t, err)
	}
	_, err = Select[dbtest.Person](db, predicate.Field("LastName").Eq("Same")).SingleOrDefault(ctx)
	var multiple *MultipleRowsError
	require.ErrorAs(t, err, &multiple)
	assert.Equal(t, 2, multiple.Count)
}

func TestSelectLimit(t *testing.T) {
	ctx := context.Background()
	db, conn, _ := newTestDB(t)
	for i := 0; i < 500; i++ {
		_, err := Insert(ctx, db, dbtest.NewPerson(fmt.Sprintf("P%03d", i), "Bulk", 'M'))
		require.NoError(t, err)
	}
	require.Equal(t, 500, conn.Count("Person"))

	people, err := Select[dbtest.Person](db, predicate.Predicate{}).Limit(5).ToList(ctx)
	require.NoError(t, err)
	assert.Len(t, people, 5)
	assert.Equal(t, "SELECT TOP 5 * FROM [Person]", conn.Last().Text)

	_, err = Select[dbtest.Person](db, predicate.Predicate{}).Limit(0).ToList(ctx)
	var invalid *InvalidArgumentError
	assert.ErrorAs(t, err, &invalid)
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	db, conn, _ := newTestDB(t)
	for _, first := range []string{"Ann", "Cid", "Bob"} {
		_, err := Insert(ctx, db, dbtest.NewPerson(first, "Find", 'F'))
		require.NoError(t, err)
	}

	people, err := Find[dbtest.Person](ctx, db, predicate.Field("LastName").Eq("Find"), "FirstName", types.Desc, 2)
	require.NoError(t, err)
	require.Len(t, people, 2)
	assert.Equal(t, "Cid", people[0].FirstName)
	assert.Equal(t, "Bob", people[1].FirstName)
	assert.Equal(t,
		"SELECT TOP 2 * FROM [Person] WHERE [LastName] = @LastName ORDER BY [FirstName] DESC",
		conn.Last().Text)

	all, err := Find[dbtest.Person](ctx, db, predicate.Predicate{}, "", types.Asc, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	db, conn, _ := newTestDB(t)

	p := dbtest.NewPerson("Jane", "Doe", 'F')
	_, err := Insert(ctx, db, p)
	require.NoError(t, err)

	p.LastName = "Smith"
	ok, err := Update(ctx, db, p)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NotNil(t, p.UpdateDate)
	assert.Equal(t, testNow, *p.UpdateDate)

	got, err := Select[dbtest.Person](db, predicate.Field("Id").Eq(p.Id)).SingleOrDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Smith", got.LastName)

	ok, err = Delete(ctx, db, p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, conn.Count("Person"))

	ok, err = Delete(ctx, db, p)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWritesWithoutPrimaryKey(t *testing.T) {
	ctx := context.Background()
	db, conn, _ := newTestDB(t)
	p := &dbtest.PersonNoPk{FirstName: "A", LastName: "B"}

	var noPk *NoPrimaryKeyError
	_, err := Insert(ctx, db, p)
	assert.ErrorAs(t, err, &noPk)
	_, err = Update(ctx, db, p)
	assert.ErrorAs(t, err, &noPk)
	_, err = Delete(ctx, db, p)
	assert.ErrorAs(t, err, &noPk)
	assert.Empty(t, conn.Commands())
}

func TestConnectionErrorsPassThrough(t *testing.T) {
	ctx := context.Background()
	db, conn, logger := newTestDB(t)
	boom := errors.New("network unreachable")

	conn.FailNext(boom)
	_, err := Insert(ctx, db, dbtest.NewPerson("A", "B", 'M'))
	assert.ErrorIs(t, err, boom)

	conn.FailNext(boom)
	_, err = Select[dbtest.Person](db, predicate.Predicate{}).ToList(ctx)
	assert.ErrorIs(t, err, boom)

	conn.FailNext(boom)
	_, err = Update(ctx, db, &dbtest.Person{Id: 1, FirstName: "A", LastName: "B", Gender: 'M'})
	assert.ErrorIs(t, err, boom)

	assert.Len(t, logger.errors, 3)
}

func TestTranslationErrorsSurface(t *testing.T) {
	db, conn, _ := newTestDB(t)
	_, err := Select[dbtest.Person](db, predicate.Field("Nickname").Eq("x")).ToList(context.Background())
	var unresolved *UnresolvedFieldError
	assert.ErrorAs(t, err, &unresolved)
	assert.Empty(t, conn.Commands())
}

func TestOpenRejectsNonSQLServer(t *testing.T) {
	for _, typ := range []string{database.TypeMySQL, database.TypePostgres, database.TypeSQLite} {
		cfg := &database.Config{}
		cfg.ConnectionConfig.Type = typ
		db, err := Open(context.Background(), cfg)
		var unsupported *UnsupportedDatabaseError
		require.ErrorAs(t, err, &unsupported, typ)
		assert.Equal(t, typ, unsupported.Type)
		assert.Nil(t, db)
	}
}

func TestOpenNilConfig(t *testing.T) {
	db, err := Open(context.Background(), nil)
	assert.Error(t, err)
	assert.Nil(t, db)
}

func TestBorrowedConnectionHealth(t *testing.T) {
	db, _, _ := newTestDB(t)
	assert.Nil(t, db.HealthCheck(context.Background()))
	assert.NotNil(t, db.Conn())
	assert.NotNil(t, db.Registry())
}
