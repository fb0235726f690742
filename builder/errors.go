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

package builder

import "fmt"

// NoPrimaryKeyError reports a write against an entity type without exactly
// one primary-key column.
type NoPrimaryKeyError struct {
	Type string
}

func (e *NoPrimaryKeyError) Error() string {
	return fmt.Sprintf("type %s has no primary key column (expected Id or %sId)", e.Type, e.Type)
}

// InvalidArgumentError reports an argument outside its accepted range.
type InvalidArgumentError struct {
	Argument string
	Value    any
	Reason   string
}

func (e *InvalidArgumentError) Error() string {
	msg := fmt.Sprintf("invalid %s: %v", e.Argument, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}
