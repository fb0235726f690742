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
	"reflect"

	"github.com/tomoncle/norm/builder"
)

// Insert writes entity and returns its generated key, coerced to the type of
// the entity's key field and stored there. Created-convention columns are
// stamped on entity before the write.
func Insert(ctx context.Context, db *Database, entity any) (any, error) {
	cmd, err := builder.Insert(entity, db.builderOptions()...)
	if err != nil {
		return nil, err
	}
	scalar, err := db.prepare(cmd).ExecuteScalar(ctx)
	if err != nil {
		return nil, db.failed(cmd, err)
	}
	if scalar == nil {
		return nil, db.failed(cmd, ErrNoGeneratedKey)
	}

	desc := db.registry.DescribeOf(entity)
	key := desc.PrimaryKey.FieldOf(entityValue(entity))
	if err := db.converters.Assign(key, scalar); err != nil {
		return nil, db.failed(cmd, err)
	}
	return key.Interface(), nil
}

// Update writes every column of entity matched by its key and reports
// whether exactly one row changed.
func Update(ctx context.Context, db *Database, entity any) (bool, error) {
	cmd, err := builder.Update(entity, db.builderOptions()...)
	if err != nil {
		return false, err
	}
	return db.execOne(ctx, cmd)
}

// Delete removes the row of entity and reports whether exactly one row was
// deleted.
func Delete(ctx context.Context, db *Database, entity any) (bool, error) {
	cmd, err := builder.Delete(entity, db.builderOptions()...)
	if err != nil {
		return false, err
	}
	return db.execOne(ctx, cmd)
}

// DeleteByKey removes the row of T whose primary key equals key.
func DeleteByKey[T any](ctx context.Context, db *Database, key any) (bool, error) {
	desc := db.registry.Describe(reflect.TypeOf((*T)(nil)).Elem())
	cmd, err := builder.DeleteKey(desc, key)
	if err != nil {
		return false, err
	}
	return db.execOne(ctx, cmd)
}

func (db *Database) execOne(ctx context.Context, cmd builder.Command) (bool, error) {
	affected, err := db.prepare(cmd).ExecuteNonQuery(ctx)
	if err != nil {
		return false, db.failed(cmd, err)
	}
	return affected == 1, nil
}
