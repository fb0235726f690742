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

// Delete builds a DELETE of the row whose key equals the key of entity.
func Delete(entity any, opts ...Option) (Command, error) {
	o := newOptions(opts)
	desc, ev, err := o.describeWritable(entity)
	if err != nil {
		return Command{}, err
	}
	return DeleteKey(desc, desc.PrimaryKey.FieldOf(ev).Interface())
}

// DeleteKey builds a DELETE of the row of desc whose key equals key.
func DeleteKey(desc *schema.EntityDescriptor, key any) (Command, error) {
	if !desc.HasPrimaryKey() {
		return Command{}, &NoPrimaryKeyError{Type: desc.Table}
	}
	v, err := types.ValueOf(key)
	if err != nil {
		return Command{}, err
	}
	if v.IsNull() {
		return Command{}, &InvalidArgumentError{Argument: "key", Value: key, Reason: "must not be null"}
	}
	pk := desc.PrimaryKey.Name
	params := types.NewParams()
	if err := params.Add(pk, v); err != nil {
		return Command{}, err
	}
	return Command{
		Text:   fmt.Sprintf("DELETE FROM %s WHERE %s=@%s", quote(desc.Table), quote(pk), pk),
		Params: params,
	}, nil
}
