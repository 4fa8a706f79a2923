package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/kernsim/kernsim/sim"
	_ "github.com/kernsim/kernsim/sim/demo" // register demo component types
)

var validatePath string

// validateCmd builds a description without running it, so configuration
// errors (missing parameters, dangling references, cardinality violations)
// surface without advancing any simulated time.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Build a hierarchy description without running it",
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, err := sim.LoadDescription(validatePath)
		if err != nil {
			return err
		}
		h, err := sim.Build(desc)
		if err != nil {
			return err
		}
		defer func() {
			if err := h.Teardown(); err != nil {
				logrus.Errorf("Teardown: %v", err)
			}
		}()

		h.Walk(func(c sim.Component) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", c.Name(), componentType(c))
		})
		logrus.Infof("Description %s is valid", validatePath)
		return nil
	},
}

func componentType(c sim.Component) string {
	type recorded interface{ Record() *sim.Record }
	if rc, ok := c.(recorded); ok && rc.Record() != nil {
		return rc.Record().TypeName()
	}
	return "standalone"
}

// typesCmd lists the registered component types and their schemas.
var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered component types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, name := range sim.RegisteredTypes() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
			schema, _ := sim.TypeSchema(name)
			for _, f := range schema {
				req := ""
				if f.Default == nil {
					req = " (required)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "  %s: %s%s  %s\n", f.Name, f.Kind, req, f.Doc)
			}
		}
	},
}

func init() {
	validateCmd.Flags().StringVar(&validatePath, "config", "", "Path to YAML hierarchy description")
	_ = validateCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(typesCmd)
}
