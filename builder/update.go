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

import (
	"fmt"
	"strings"

	"github.com/tomoncle/norm/schema"
	"github.com/tomoncle/norm/types"
)

// Update builds an UPDATE of every column of entity except the key and
// created-convention columns, matched by primary key. Updated-convention
// columns are stamped on entity.
func Update(entity any, opts ...Option) (Command, error) {
	o := newOptions(opts)
	desc, ev, err := o.describeWritable(entity)
	if err != nil {
		return Command{}, err
	}

	params := types.NewParams()
	var set []string
	for _, c := range desc.Columns {
		if schema.IsCreatedField(c.Name) {
			continue
		}
		var v types.Value
		switch {
		case c == desc.PrimaryKey:
			v, err = types.ValueOf(c.FieldOf(ev).Interface())
		case schema.IsUpdatedField(c.Name):
			v, err = o.stamp(c, ev)
		default:
			v, err = bindColumn(c, ev)
		}
		if err != nil {
			return Command{}, fmt.Errorf("failed to bind %s.%s: %w", desc.Table, c.Name, err)
		}
		if err := params.Add(c.Name, v); err != nil {
			return Command{}, err
		}
		if c != desc.PrimaryKey {
			set = append(set, quote(c.Name)+"=@"+c.Name)
		}
	}
	if len(set) == 0 {
		return Command{}, &InvalidArgumentError{Argument: "entity", Value: desc.Table, Reason: "no updatable columns"}
	}

	pk := desc.PrimaryKey.Name
	return Command{
		Text:   fmt.Sprintf("UPDATE %s SET %s WHERE %s=@%s", quote(desc.Table), strings.Join(set, ","), quote(pk), pk),
		Params: params,
	}, nil
}
