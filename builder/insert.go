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

	"github.com/tomoncle/norm/schema"
	"github.com/tomoncle/norm/types"
)

// Insert builds an INSERT for entity, a pointer to a struct with a primary
// key. The key and updated-convention columns are not written;
// created-convention columns are stamped on entity.
func Insert(entity any, opts ...Option) (Command, error) {
	o := newOptions(opts)
	desc, ev, err := o.describeWritable(entity)
	if err != nil {
		return Command{}, err
	}

	params := types.NewParams()
	var columns []string
	for _, c := range desc.Columns {
		if c == desc.PrimaryKey || schema.IsUpdatedField(c.Name) {
			continue
		}
		var v types.Value
		if schema.IsCreatedField(c.Name) {
			v, err = o.stamp(c, ev)
		} else {
			v, err = bindColumn(c, ev)
		}
		if err != nil {
			return Command{}, fmt.Errorf("failed to bind %s.%s: %w", desc.Table, c.Name, err)
		}
		if err := params.Add(c.Name, v); err != nil {
			return Command{}, err
		}
		columns = append(columns, c.Name)
	}

	output := "OUTPUT INSERTED." + quote(desc.PrimaryKey.Name)
	if len(columns) == 0 {
		return Command{
			Text:   fmt.Sprintf("INSERT INTO %s %s DEFAULT VALUES", quote(desc.Table), output),
			Params: params,
		}, nil
	}
	return Command{
		Text: fmt.Sprintf("INSERT INTO %s (%s) %s VALUES (%s)",
			quote(desc.Table),
			joinColumns(columns, "[", "]"),
			output,
			joinColumns(columns, "@", ""),
		),
		Params: params,
	}, nil
}
