package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/models"
	"github.com/codr1/leaguedesk/internal/store"
)

// importEntry is one document in an import file.
type importEntry struct {
	Collection string     `json:"collection" yaml:"collection"`
	ID         string     `json:"id,omitempty" yaml:"id,omitempty"`
	Data       store.Data `json:"data" yaml:"data"`

	source string
}

func newImportCmd(a *app) *cobra.Command {
	var (
		dryRun      bool
		parallelism int
	)
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Validate and create documents from JSON or YAML files",
		Long: "Each file holds a list of {collection, id, data} entries. Every entry is " +
			"validated before anything is written; entries are then created in file order " +
			"inside one transaction, so a failed import writes nothing.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			entries, err := loadImportFiles(ctx, args, parallelism)
			if err != nil {
				return err
			}
			if err := validateEntries(ctx, entries, time.Now(), parallelism); err != nil {
				return err
			}
			if dryRun {
				log.Ctx(ctx).Info().Int("documents", len(entries)).Msg("Import files are valid")
				return nil
			}
			return a.withEngine(cmd, func(ctx context.Context) error {
				return writeEntries(ctx, a.engine, entries)
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate without writing")
	cmd.Flags().IntVar(&parallelism, "parallelism", 4, "Files parsed and documents validated concurrently")
	return cmd
}

// loadImportFiles reads and parses every file concurrently, keeping the
// entries in argument order.
func loadImportFiles(ctx context.Context, paths []string, parallelism int) ([]importEntry, error) {
	perFile := make([][]importEntry, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))
	for i, path := range paths {
		g.Go(func() error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			entries, err := parseImport(path, raw)
			if err != nil {
				return err
			}
			perFile[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []importEntry
	for _, entries := range perFile {
		all = append(all, entries...)
	}
	return all, nil
}

// parseImport decodes an import file. Files ending in .yaml or .yml are
// YAML; everything else is JSON.
func parseImport(name string, raw []byte) ([]importEntry, error) {
	var entries []importEntry
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(raw, &entries); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}

	for i := range entries {
		entries[i].source = fmt.Sprintf("%s[%d]", name, i)
		if !models.Known(entries[i].Collection) {
			return nil, fmt.Errorf("%s: %w: %q", entries[i].source, models.ErrUnknownCollection, entries[i].Collection)
		}
		if entries[i].Data == nil {
			return nil, fmt.Errorf("%s: data is required", entries[i].source)
		}
	}
	return entries, nil
}

// validateEntries checks every entry against its schema and reports all
// failures together.
func validateEntries(ctx context.Context, entries []importEntry, now time.Time, parallelism int) error {
	failures := make([]error, len(entries))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(parallelism, 1))
	for i := range entries {
		g.Go(func() error {
			data := entries[i].Data.Clone()
			models.ApplyDefaults(entries[i].Collection, data)
			if err := models.Validate(entries[i].Collection, data, now); err != nil {
				failures[i] = fmt.Errorf("%s: %w", entries[i].source, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(failures...)
}

// writeEntries creates every entry in one transaction: either the whole
// import lands or none of it does.
func writeEntries(ctx context.Context, engine *consistency.Engine, entries []importEntry) error {
	logger := log.Ctx(ctx)
	err := engine.RunInTx(ctx, func(tx *consistency.Engine) error {
		for _, entry := range entries {
			var (
				doc store.Document
				err error
			)
			if entry.ID != "" {
				doc, err = tx.CreateWithID(ctx, entry.Collection, entry.ID, entry.Data)
			} else {
				doc, err = tx.Create(ctx, entry.Collection, entry.Data)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", entry.source, err)
			}
			logger.Debug().Str("collection", entry.Collection).Str("id", doc.ID).Msg("Imported document")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.Info().Int("documents", len(entries)).Msg("Import complete")
	return nil
}
