// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/voter-roster/db"
)

type options struct {
	databaseURL  string
	databaseType string
	envFile      string
}

// resolve fills unset flags from the env file and the environment
func (o *options) resolve() error {
	if o.envFile != "" {
		err := godotenv.Load(o.envFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", o.envFile, err)
		}
	}
	if o.databaseURL == "" {
		o.databaseURL = os.Getenv("DATABASE_URL")
	}
	if o.databaseType == "" {
		o.databaseType = os.Getenv("DATABASE_TYPE")
	}
	if o.databaseType == "" {
		o.databaseType = db.TypeSQLite
	}
	return nil
}

func (o *options) connect(ctx context.Context) (*db.SQLStore, error) {
	if o.databaseURL == "" {
		return nil, errors.New("database URL required (use --database-url or DATABASE_URL env)")
	}
	return db.Connect(ctx, o.databaseType, o.databaseURL)
}
