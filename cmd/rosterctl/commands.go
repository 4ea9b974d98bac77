// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/danielhkuo/voter-roster/db"
	"github.com/danielhkuo/voter-roster/importer"
	"github.com/danielhkuo/voter-roster/ingest"
	"github.com/danielhkuo/voter-roster/models"
	"github.com/danielhkuo/voter-roster/roster"
)

const previewRows = 5

func probeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Show how a file would be read, without saving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := probeFile(cmd.OutOrStdout(), args[0])
			if err != nil {
				return err
			}
			printPreview(cmd.OutOrStdout(), res.Records)
			return nil
		},
	}
}

func importCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Probe a file and save its leaders and voters",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			res, err := probeFile(out, args[0])
			if err != nil {
				return err
			}

			store, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer store.DB().Close()

			saved, err := importer.Save(cmd.Context(), store, res.Records)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, saved.Summary())
			if len(saved.FailedLeaders) > 0 {
				fmt.Fprintf(out, "Saved without leader: %s\n", strings.Join(saved.FailedLeaders, ", "))
			}
			return nil
		},
	}
}

func exportCmd(opts *options) *cobra.Command {
	var (
		leader string
		search string
		out    string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the consolidated roster as semicolon-delimited CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer store.DB().Close()

			records, err := listRecords(cmd.Context(), store, leader, search, limit)
			if err != nil {
				return err
			}

			if out == "-" {
				return ingest.Export(cmd.OutOrStdout(), records)
			}
			if out == "" {
				name := leader
				if name == roster.AllLeaders {
					name = ""
				}
				out = ingest.ExportFilename(name, time.Now())
			}
			if err := writeExport(out, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s voters to %s\n", humanize.Comma(int64(len(records))), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&leader, "leader", "", `Only this leader's voters ("Todos" for all)`)
	cmd.Flags().StringVar(&search, "q", "", "Name or document number search")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output path, - for stdout (default consolidado_<leader>_<date>.csv)")
	cmd.Flags().IntVar(&limit, "limit", roster.DefaultLimit, "Most matching voters written, newest first")

	return cmd
}

// listRecords filters in the store, so the limit applies to matches
func listRecords(ctx context.Context, store db.Store, leader, search string, limit int) ([]models.CanonicalRecord, error) {
	q := db.VoterQuery{
		LeaderName: strings.TrimSpace(leader),
		Search:     strings.TrimSpace(search),
		Limit:      limit,
	}
	if q.LeaderName == roster.AllLeaders {
		q.LeaderName = ""
	}
	voters, err := store.ListVoters(ctx, q)
	if err != nil {
		return nil, err
	}
	records := make([]models.CanonicalRecord, len(voters))
	for i, v := range voters {
		records[i] = v.Record()
	}
	return records, nil
}

// probeFile reads and probes path, printing the outcome
func probeFile(out io.Writer, path string) (*ingest.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	res, err := ingest.Probe(filepath.Base(path), data)
	var exhausted *ingest.ParseExhaustedError
	if errors.As(err, &exhausted) {
		for _, line := range exhausted.Details() {
			fmt.Fprintln(out, line)
		}
		if missing := exhausted.Missing(); len(missing) > 0 {
			fmt.Fprintf(out, "Missing fields: %s\n", strings.Join(missing, ", "))
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	header := "header row"
	if !res.HasHeader {
		header = "positional columns"
	}
	if res.Delimiter == 0 {
		fmt.Fprintf(out, "Read as workbook, %s\n", header)
	} else {
		fmt.Fprintf(out, "Read with attempt %d (%s), delimiter %q, %s\n", res.Number, res.Attempt, res.Delimiter, header)
	}
	fmt.Fprintf(out, "%s records\n", humanize.Comma(int64(len(res.Records))))
	return res, nil
}

func printPreview(out io.Writer, records []models.CanonicalRecord) {
	for i, rec := range records {
		if i == previewRows {
			fmt.Fprintf(out, "... %s more\n", humanize.Comma(int64(len(records)-previewRows)))
			break
		}
		fmt.Fprintf(out, "  %s | %s %s | %s\n",
			rec[models.FieldDocument], rec[models.FieldFirstName], rec[models.FieldLastName], rec[models.FieldLeader])
	}
}

func writeExport(path string, records []models.CanonicalRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := ingest.Export(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
