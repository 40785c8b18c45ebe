package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/SscSPs/ledger_core/internal/app"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

const defaultOperator = "ledgerctl"

func newPostCommand(rt Runtime) *cobra.Command {
	var file string
	var operator string

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post one or more journal entries from a JSON file",
		Long: `Reads a draft entry (or an array of drafts) in the same JSON shape the HTTP API accepts
and posts each one as a trusted system process. Drafts are posted in file order; the first
rejection stops the batch and earlier drafts stay committed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, file)
			if err != nil {
				return err
			}
			reqs, err := decodeDrafts(raw)
			if err != nil {
				return err
			}
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				return runPost(ctx, cmd.OutOrStdout(), a, reqs, domain.SystemActor(operator))
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "draft JSON file, - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")
	cmd.Flags().StringVar(&operator, "as", defaultOperator, "user id recorded as the entries' creator")

	return cmd
}

func readInput(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", file, err)
	}
	return data, nil
}

// decodeDrafts accepts a single draft object or an array of drafts and validates each.
func decodeDrafts(raw []byte) ([]dto.CreateEntryRequest, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("no draft entries in input")
	}

	var reqs []dto.CreateEntryRequest
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &reqs); err != nil {
			return nil, fmt.Errorf("decoding drafts: %w", err)
		}
	} else {
		var req dto.CreateEntryRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("decoding draft: %w", err)
		}
		reqs = append(reqs, req)
	}

	v, err := dto.NewValidator()
	if err != nil {
		return nil, err
	}
	for i := range reqs {
		if err := v.Struct(reqs[i]); err != nil {
			return nil, fmt.Errorf("draft %d: %w", i+1, err)
		}
	}
	return reqs, nil
}

func runPost(ctx context.Context, out io.Writer, a *app.App, reqs []dto.CreateEntryRequest, actor domain.Actor) error {
	for i, req := range reqs {
		draft, err := req.ToDraft()
		if err != nil {
			return fmt.Errorf("draft %d: %w", i+1, err)
		}
		entry, err := a.Services.Posting.Post(ctx, draft, actor)
		if err != nil {
			return fmt.Errorf("draft %d: %w", i+1, err)
		}
		fmt.Fprintf(out, "posted entry #%d %s (%s, %d lines)\n", entry.SequenceNumber, entry.EntryID, entry.SourceType, len(entry.Lines))
	}
	return nil
}

func newReverseCommand(rt Runtime) *cobra.Command {
	var date string
	var operator string

	cmd := &cobra.Command{
		Use:   "reverse <entryID>",
		Short: "Reverse a posted journal entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := dto.ReverseEntryRequest{}
			if date != "" {
				req.EntryDate = &date
			}
			opts, err := req.ToOptions()
			if err != nil {
				return err
			}
			return withApp(cmd, rt, func(ctx context.Context, a *app.App) error {
				reversal, err := a.Services.Reversal.Reverse(ctx, args[0], opts, domain.SystemActor(operator))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "reversed entry %s with entry #%d %s dated %s\n",
					args[0], reversal.SequenceNumber, reversal.EntryID, reversal.EntryDate.Format(domain.DateLayout))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "reversal date YYYY-MM-DD (defaults to the original entry's date)")
	cmd.Flags().StringVar(&operator, "as", defaultOperator, "user id recorded as the reversal's creator")
	return cmd
}
