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

package predicate

import "fmt"

// UnsupportedOperationError reports an operator or method the translator
// has no SQL form for.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("the operation '%s' is not supported", e.Operation)
}

// UnresolvedFieldError reports a field reference with no matching column.
type UnresolvedFieldError struct {
	Type  string
	Field string
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("field %q is not a column of %s", e.Field, e.Type)
}
