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

package types

import "fmt"

// OrderKey is one (column, direction) pair of an ORDER BY list.
type OrderKey struct {
	Column    string
	Direction SortDirection
}

// NewOrderKey constructs an OrderKey.
func NewOrderKey(column string, direction SortDirection) OrderKey {
	return OrderKey{Column: column, Direction: direction}
}

// SQL renders the key as "[column] ASC" or "[column] DESC".
func (o OrderKey) SQL() string {
	return fmt.Sprintf("[%s] %s", o.Column, o.Direction)
}
