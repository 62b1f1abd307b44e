package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"astrogen/internal/services"
	"astrogen/internal/world"
)

const maxDecodeInput = 8 << 20

func newDecodeCommand() *cobra.Command {
	var sectorName string
	var subsectorFlag string
	var subsectorName string

	cmd := &cobra.Command{
		Use:         "decode [file|-]",
		Short:       "Decode a local sec-format listing and print its worlds",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := world.ParseSubsectorIndex(strings.TrimSpace(subsectorFlag))
			if err != nil {
				return fmt.Errorf("%w: %w", services.ErrValidation, err)
			}
			input := "-"
			if len(args) == 1 {
				input = args[0]
			}
			blob, err := readDecodeInput(cmd, input)
			if err != nil {
				return err
			}

			meta := world.SubsectorMetadata{Name: strings.TrimSpace(subsectorName), Index: index}
			if meta.Name == "" {
				meta.Name = meta.Letter()
			}
			result := world.Aggregate(strings.TrimSpace(sectorName), meta, blob)

			rows := make([][]string, 0, len(result.Worlds))
			for _, w := range result.Worlds {
				rows = append(rows, worldRow(w))
			}
			out := cmd.OutOrStdout()
			if len(rows) > 0 {
				fmt.Fprintln(out, renderTable(worldColumns, rows))
			}
			fmt.Fprintf(out, "%d systems, %d rejected lines\n", len(result.Worlds), result.Rejected)
			return nil
		},
	}

	cmd.Flags().StringVar(&sectorName, "sector", "", "Sector name recorded on each world")
	cmd.Flags().StringVar(&subsectorFlag, "subsector", "A", "Subsector letter (A-P) or index (0-15)")
	cmd.Flags().StringVar(&subsectorName, "subsector-name", "", "Subsector name recorded on each world (default: the letter)")
	return cmd
}

func readDecodeInput(cmd *cobra.Command, input string) (string, error) {
	var reader io.Reader
	if input == "-" {
		reader = cmd.InOrStdin()
	} else {
		file, err := os.Open(input)
		if err != nil {
			return "", fmt.Errorf("%w: open %s: %w", services.ErrValidation, input, err)
		}
		defer file.Close()
		reader = file
	}
	data, err := io.ReadAll(io.LimitReader(reader, maxDecodeInput))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", input, err)
	}
	return string(data), nil
}
