package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/rpggio/powermason/internal/ingest"
	"github.com/rpggio/powermason/internal/workbook"
	"github.com/spf13/cobra"
)

func newImportCmd() *cobra.Command {
	var (
		userID string
		source string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "import [report.xlsx]",
		Short: "Import a progress report workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			path := args[0]
			if source == "" {
				source = filepath.Base(path)
			}

			var resp ingest.Response
			wb, err := workbook.Open(path)
			if err != nil {
				resp = ingest.ErrorResponse(&ingest.IngestionError{Stage: ingest.StageOpenWorkbook, Err: err})
			} else {
				defer wb.Close()
				opts := ingest.Options{Source: source}
				if userID != "" {
					opts.ActingUser = &userID
				}
				resp = a.importer.Handle(cmd.Context(), wb, opts)
			}

			var out []byte
			if pretty {
				out, err = json.MarshalIndent(resp, "", "  ")
			} else {
				out, err = json.Marshal(resp)
			}
			if err != nil {
				return fmt.Errorf("encoding result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !resp.OK() {
				return fmt.Errorf("import of %s failed", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "ID of the user recorded as creator")
	cmd.Flags().StringVar(&source, "source", "", "Source name for the activity log (default: file name)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}
