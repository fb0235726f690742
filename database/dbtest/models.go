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
	"time"

	"github.com/tomoncle/norm/types"
)

// Person is keyed by the "Id" convention and carries both timestamp columns.
type Person struct {
	Id            int
	FirstName     string
	MiddleInitial *types.Char
	LastName      string
	Gender        types.Char
	CreateDate    time.Time
	UpdateDate    *time.Time
}

// PersonAltPk is keyed by the "<TypeName>Id" convention.
type PersonAltPk struct {
	PersonAltPkId int
	FirstName     string
	LastName      string
}

// PersonNoPk has no key column and is select-only.
type PersonNoPk struct {
	FirstName string
	LastName  string
}

// NewPerson returns an unsaved Person.
func NewPerson(first, last string, gender rune) *Person {
	return &Person{
		FirstName: first,
		LastName:  last,
		Gender:    types.Char(gender),
	}
}

// PersonDDL creates the Person table on SQLite.
const PersonDDL = `CREATE TABLE [Person] (
	[Id] INTEGER PRIMARY KEY AUTOINCREMENT,
	[FirstName] TEXT NOT NULL,
	[MiddleInitial] TEXT NULL,
	[LastName] TEXT NOT NULL,
	[Gender] TEXT NOT NULL,
	[CreateDate] DATETIME NOT NULL,
	[UpdateDate] DATETIME NULL
)`
