package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dgallion1/assetree/internal/version"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the assetree command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assetree",
		Short: "Assemble level-bucketed entity documents into trees",
		Long: `assetree validates documents whose top-level keys are hierarchy levels
and whose values are arrays of flat entities, then links every entity under
its parent_id and prints the resulting forest.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = version.Version
	root.SetVersionTemplate(fmt.Sprintf("assetree %s\n", version.String()))

	root.AddCommand(newFormatCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assetree %s\n", version.String())
		},
	}
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		stop()
		os.Exit(1)
	}
}
