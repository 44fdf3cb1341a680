// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/telekom/hopscope/internal/logger"
	"github.com/telekom/hopscope/pkg/session"
	"gopkg.in/yaml.v3"
)

// destinationsFile is the layout of a destinations file
type destinationsFile struct {
	Destinations []session.Destination `yaml:"destinations"`
}

// FileLoader loads the destinations from a local YAML file.
type FileLoader struct {
	config LoaderConfig
	cDest  chan<- []session.Destination
	done   chan struct{}
	fsys   fs.FS
	// last is the destination list sent last
	last []session.Destination
}

func NewFileLoader(cfg LoaderConfig, cDest chan<- []session.Destination) *FileLoader {
	return &FileLoader{
		config: cfg,
		cDest:  cDest,
		done:   make(chan struct{}, 1),
		fsys:   os.DirFS(filepath.Dir(cfg.Path)),
	}
}

// Run loads the destinations from the file.
// The file is reloaded periodically defined by the loader interval.
// If the interval is 0, the file is only loaded once.
// Destination lists are only sent if they are valid and differ from the
// list sent before.
func (f *FileLoader) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).With("path", f.config.Path)

	// Get the destinations once on startup
	dests, err := f.getDestinations(ctx)
	if err != nil {
		log.WarnContext(ctx, "Could not load destinations file", "error", err)
		err = fmt.Errorf("could not load destinations file: %w", err)
	} else {
		f.send(ctx, dests)
	}

	if f.config.Interval == 0 {
		log.InfoContext(ctx, "Destinations file reload disabled")
		return err
	}

	tick := time.NewTicker(f.config.Interval)
	defer tick.Stop()

	for {
		select {
		case <-f.done:
			log.InfoContext(ctx, "Destinations file loader terminated")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			dests, err := f.getDestinations(ctx)
			if err != nil {
				log.WarnContext(ctx, "Could not load destinations file", "error", err)
				continue
			}

			if slices.Equal(dests, f.last) {
				continue
			}
			log.DebugContext(ctx, "Destinations file changed", "destinations", len(dests))
			f.send(ctx, dests)
		}
	}
}

func (f *FileLoader) send(ctx context.Context, dests []session.Destination) {
	select {
	case f.cDest <- dests:
		f.last = dests
	case <-ctx.Done():
	}
}

// Load reads the destinations file once.
func (f *FileLoader) Load(ctx context.Context) ([]session.Destination, error) {
	return f.getDestinations(ctx)
}

// getDestinations reads and validates the destinations file.
func (f *FileLoader) getDestinations(ctx context.Context) (dests []session.Destination, err error) {
	log := logger.FromContext(ctx).With("path", f.config.Path)

	file, err := f.fsys.Open(filepath.Base(f.config.Path))
	if err != nil {
		log.ErrorContext(ctx, "Failed to open destinations file", "error", err)
		return nil, fmt.Errorf("failed to open destinations file: %w", err)
	}
	defer func() {
		cerr := file.Close()
		if cerr != nil {
			log.ErrorContext(ctx, "Failed to close destinations file", "error", cerr)
		}
		err = errors.Join(cerr, err)
	}()

	b, err := io.ReadAll(file)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read destinations file", "error", err)
		return nil, fmt.Errorf("failed to read destinations file: %w", err)
	}

	var content destinationsFile
	if err := yaml.Unmarshal(b, &content); err != nil {
		log.ErrorContext(ctx, "Failed to parse destinations file", "error", err)
		return nil, fmt.Errorf("failed to parse destinations file: %w", err)
	}

	cfg := session.Config{Destinations: content.Destinations}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid destinations file: %w", err)
	}
	return content.Destinations, nil
}

func (f *FileLoader) Shutdown(ctx context.Context) {
	log := logger.FromContext(ctx)
	select {
	case f.done <- struct{}{}:
		log.DebugContext(ctx, "Sending signal to shut down destinations file loader")
	default:
	}
}
