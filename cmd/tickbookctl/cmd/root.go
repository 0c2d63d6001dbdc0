// Package cmd wires the tickbookctl CLI, structurally descended from the
// teacher's cmd/main.go (signal-aware startup/shutdown) and cmd/client's
// flag-driven single-binary shape, rebuilt on spf13/cobra per the ecosystem
// pattern shown in the wider retrieved pack.
package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd constructs the tickbookctl root command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tickbookctl",
		Short: "Drive a tracked top-N order book engine from a columnar event batch",
		Long: `tickbookctl reads a columnar batch of price-point events, applies them in
order to a tracked top-N limit order book, and prints the resulting sequence
of best-bid/best-ask snapshots.`,
		SilenceUsage: true,
	}

	root.AddCommand(newRunCmd())
	return root
}
