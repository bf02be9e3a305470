package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listVerbose bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available analyses",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runner, err := newRunner()
		if err != nil {
			return err
		}
		c := runner.Catalog()
		w := cmd.OutOrStdout()
		for _, name := range c.Names() {
			p, err := c.Lookup(name)
			if err != nil {
				return err
			}
			tag := ""
			if !c.IsBuiltin(name) {
				tag = " [custom]"
			}
			if p.Description == "" {
				fmt.Fprintf(w, "- %s%s\n", name, tag)
			} else {
				fmt.Fprintf(w, "- %s%s: %s\n", name, tag, p.Description)
			}
			if listVerbose {
				for i, st := range p.Steps {
					fmt.Fprintf(w, "    %d. %s\n", i+1, st.Op())
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&listVerbose, "verbose", "v", false, "show the steps of each query")
}
