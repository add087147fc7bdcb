// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package checkpoint persists intermediate pipeline artifacts so a rerun can
// resume from a previously materialized aggregate instead of recomputing it.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
)

// Store reads and writes named artifacts. Open returns an error wrapping
// fs.ErrNotExist when the artifact is absent.
type Store interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Save(ctx context.Context, name string, r io.Reader) error
}

// LoadOrBuild returns the loaded value when load succeeds. Otherwise it
// calls build and then save; a failed save is logged and does not fail the
// call. A build error is returned as is.
func LoadOrBuild[T any](ctx context.Context, log *zap.Logger, name string,
	load func(context.Context) (T, error),
	build func(context.Context) (T, error),
	save func(context.Context, T) error,
) (T, error) {
	if log == nil {
		log = zap.NewNop()
	}

	v, err := load(ctx)
	if err == nil {
		log.Info("checkpoint loaded, skipping build", zap.String("artifact", name))
		return v, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("checkpoint absent, building", zap.String("artifact", name))
	} else {
		log.Warn("checkpoint unreadable, rebuilding", zap.String("artifact", name), zap.Error(err))
	}

	v, err = build(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := save(ctx, v); err != nil {
		log.Warn("saving checkpoint", zap.String("artifact", name), zap.Error(err))
	} else {
		log.Info("checkpoint saved", zap.String("artifact", name))
	}
	return v, nil
}

// Cached wires LoadOrBuild to a Store using the gzip JSON codec. A nil
// store always builds.
func Cached[T any](ctx context.Context, log *zap.Logger, store Store, name string, build func(context.Context) (T, error)) (T, error) {
	if store == nil {
		return build(ctx)
	}
	return LoadOrBuild(ctx, log, name,
		func(ctx context.Context) (T, error) { return Read[T](ctx, store, name) },
		build,
		func(ctx context.Context, v T) error { return Write(ctx, store, name, v) },
	)
}

// Read decodes the named artifact from store.
func Read[T any](ctx context.Context, store Store, name string) (T, error) {
	var v T
	rc, err := store.Open(ctx, name)
	if err != nil {
		return v, err
	}
	defer rc.Close()
	if err := Decode(rc, &v); err != nil {
		return v, fmt.Errorf("decoding checkpoint %s: %w", name, err)
	}
	return v, nil
}

// Write encodes v and saves it under name.
func Write[T any](ctx context.Context, store Store, name string, v T) error {
	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(Encode(pw, v))
	}()
	err := store.Save(ctx, name, pr)
	pr.Close()
	if err != nil {
		return fmt.Errorf("saving checkpoint %s: %w", name, err)
	}
	return nil
}

// Encode writes v as gzip-compressed JSON.
func Encode(w io.Writer, v any) error {
	gz := pgzip.NewWriter(w)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		gz.Close()
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	return gz.Close()
}

// Decode reads gzip-compressed JSON into v.
func Decode(r io.Reader, v any) error {
	gz, err := pgzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gz.Close()
	return json.NewDecoder(gz).Decode(v)
}
