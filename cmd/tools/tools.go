package tools

import (
	"github.com/spf13/cobra"
)

// NewToolsCmd returns the tools command
func NewToolsCmd() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "passcheck miscellaneous tools",
	}

	toolsCmd.AddCommand(newPassesCmd())
	return toolsCmd
}
