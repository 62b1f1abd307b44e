package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"astrogen/internal/services"
	"astrogen/internal/textutil"
)

func newSectorsCommand(ctx *commandContext) *cobra.Command {
	var match string
	var limit int

	cmd := &cobra.Command{
		Use:   "sectors",
		Short: "List sectors known to TravellerMap",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.newClient()
			if err != nil {
				return err
			}
			names, err := client.SectorNames(cmd.Context())
			if err != nil {
				return services.Wrap(services.ErrUpstream, "fetch", "sector list", "", err)
			}

			out := cmd.OutOrStdout()
			query := strings.TrimSpace(match)
			if query != "" {
				names = textutil.SuggestNames(query, names, limit)
				if len(names) == 0 {
					fmt.Fprintf(out, "No sectors resemble %q\n", query)
					return nil
				}
			} else {
				sort.Strings(names)
			}

			rows := make([][]string, 0, len(names))
			for i, name := range names {
				rows = append(rows, []string{strconv.Itoa(i + 1), name})
			}
			fmt.Fprintln(out, renderTable(sectorColumns, rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&match, "match", "m", "", "Show the sectors whose names most resemble TEXT")
	cmd.Flags().IntVar(&limit, "limit", 5, "Maximum matches shown with --match")
	return cmd
}
