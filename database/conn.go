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

package database

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomoncle/norm/utils"
	"github.com/uptrace/bun"
)

var (
	globalMu      sync.RWMutex
	globalFactory *BaseDatabaseFactory
)

// Open creates and connects a factory for cfg and applies its log settings.
// MySQL, PostgreSQL and SQLite pools serve ScriptRunner and raw bun access;
// norm statements need a SQL Server pool.
func Open(ctx context.Context, cfg *Config) (*BaseDatabaseFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	if cfg.Log.Format != "" {
		utils.ConfigureConsoleLogFormat(cfg.Log.Format)
	}
	if cfg.Log.Level != "" {
		utils.ConfigureLogLevel(cfg.Log.Level)
	}

	factory := NewDatabaseFactory()
	if _, err := factory.CreateFromConfig(&cfg.ConnectionConfig); err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	if err := factory.InitializeDatabase(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return factory, nil
}

// InitDB opens the process-wide database. A previously opened one is closed.
func InitDB(cfg *Config) (*bun.DB, error) {
	factory, err := Open(context.Background(), cfg)
	if err != nil {
		return nil, err
	}

	globalMu.Lock()
	prev := globalFactory
	globalFactory = factory
	globalMu.Unlock()

	if prev != nil {
		_ = prev.Close()
	}
	return factory.GetDB(), nil
}

func getFactory() *BaseDatabaseFactory {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalFactory
}

// GetDB returns the process-wide bun database, or nil.
func GetDB() *bun.DB {
	if f := getFactory(); f != nil {
		return f.GetDB()
	}
	return nil
}

// GetConnection returns a Connection over the process-wide database, or nil.
func GetConnection() Connection {
	if f := getFactory(); f != nil {
		return f.Connection()
	}
	return nil
}

func GetDatabaseManager() AbstractDatabaseManager {
	if f := getFactory(); f != nil {
		return f.GetManager()
	}
	return nil
}

// CloseDB closes the process-wide database.
func CloseDB() error {
	globalMu.Lock()
	f := globalFactory
	globalFactory = nil
	globalMu.Unlock()

	if f != nil {
		return f.Close()
	}
	return nil
}

func GetHealthStatus(ctx context.Context) *HealthStatus {
	if f := getFactory(); f != nil {
		return f.GetHealthStatus(ctx)
	}
	return &HealthStatus{LastError: "Database not initialized"}
}

func GetDatabaseStats() *DBStats {
	if f := getFactory(); f != nil {
		return f.GetStats()
	}
	return &DBStats{}
}
