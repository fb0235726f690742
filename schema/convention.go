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

package schema

import "strings"

var (
	createdFieldNames = []string{"created", "createdate", "createdon"}
	updatedFieldNames = []string{"updated", "updatedate", "updatedon"}
)

// IsCreatedField reports whether name is a created-convention column.
func IsCreatedField(name string) bool {
	return containsFold(createdFieldNames, name)
}

// IsUpdatedField reports whether name is an updated-convention column.
func IsUpdatedField(name string) bool {
	return containsFold(updatedFieldNames, name)
}

// IsPrimaryKeyName reports whether column matches the key convention for the
// entity type: Id or <TypeName>Id, case-insensitively.
func IsPrimaryKeyName(typeName, column string) bool {
	return strings.EqualFold(column, "id") || strings.EqualFold(column, typeName+"id")
}

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}
