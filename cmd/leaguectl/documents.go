package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/codr1/leaguedesk/internal/consistency"
	"github.com/codr1/leaguedesk/internal/store"
)

func newCreateCmd(a *app) *cobra.Command {
	var (
		file string
		id   string
	)
	cmd := &cobra.Command{
		Use:   "create <collection>",
		Short: "Create a document through the consistency engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readJSON(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context) error {
				var doc store.Document
				if id != "" {
					doc, err = a.engine.CreateWithID(ctx, args[0], id, data)
				} else {
					doc, err = a.engine.Create(ctx, args[0], data)
				}
				return printWrite(cmd, doc, err)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON document to create (- for stdin)")
	cmd.Flags().StringVar(&id, "id", "", "Document ID (generated when empty)")
	return cmd
}

func newUpdateCmd(a *app) *cobra.Command {
	var (
		file      string
		ifVersion int64
	)
	cmd := &cobra.Command{
		Use:   "update <collection> <id>",
		Short: "Patch a document through the consistency engine",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := readJSON(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.withEngine(cmd, func(ctx context.Context) error {
				var doc store.Document
				if ifVersion > 0 {
					doc, err = a.engine.UpdateIfVersion(ctx, args[0], args[1], patch, ifVersion)
				} else {
					doc, err = a.engine.Update(ctx, args[0], args[1], patch)
				}
				return printWrite(cmd, doc, err)
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "-", "JSON patch (- for stdin)")
	cmd.Flags().Int64Var(&ifVersion, "if-version", 0, "Only update if the stored version matches")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <collection> <id>",
		Short: "Print a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				doc, err := a.engine.Get(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), doc.Flatten())
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <collection> <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				if err := a.engine.Delete(ctx, args[0], args[1]); err != nil {
					return err
				}
				log.Ctx(ctx).Info().Str("collection", args[0]).Str("id", args[1]).Msg("Document deleted")
				return nil
			})
		},
	}
}

// printWrite prints the persisted document. A failed after stage still
// leaves the document written, so it is printed before the error returns.
func printWrite(cmd *cobra.Command, doc store.Document, err error) error {
	var perr *consistency.PropagationError
	if err != nil && !errors.As(err, &perr) {
		return err
	}
	if printErr := printJSON(cmd.OutOrStdout(), doc.Flatten()); printErr != nil {
		return printErr
	}
	return err
}
