package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/workbridge/workbridge/internal/types"
)

var (
	applyMessage string
	applyRate    float64
)

func init() {
	applicationsCmd.AddCommand(applyCmd)
	applicationsCmd.AddCommand(getApplicationCmd)
	applicationsCmd.AddCommand(applicationActionCmd)
	applicationsCmd.AddCommand(acceptApplicationCmd)

	applyCmd.Flags().StringVar(&applyMessage, "message", "", "Message to the client")
	applyCmd.Flags().Float64Var(&applyRate, "rate", 0, "Proposed rate")
}

var applicationsCmd = &cobra.Command{
	Use:   "applications",
	Short: "Manage job applications",
}

var applyCmd = &cobra.Command{
	Use:   "apply [job-id]",
	Short: "Apply to an open job (worker)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		jobID, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		app, err := apiClient.Apply(context.Background(), jobID, &types.ApplyRequest{
			Message:      applyMessage,
			ProposedRate: applyRate,
		})
		if err != nil {
			return fmt.Errorf("error applying: %w", err)
		}
		return printJSON(app)
	},
}

var getApplicationCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific application",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		app, err := apiClient.GetApplication(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching application: %w", err)
		}
		return printJSON(app)
	},
}

var applicationActionCmd = &cobra.Command{
	Use:       "action [id] [discussion|agreement|reject|withdraw]",
	Short:     "Run an offer transition on an application",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"discussion", "agreement", "reject", "withdraw"},
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		app, err := apiClient.ApplicationAction(context.Background(), id, args[1])
		if err != nil {
			return fmt.Errorf("error running %s: %w", args[1], err)
		}
		return printJSON(app)
	},
}

var acceptApplicationCmd = &cobra.Command{
	Use:   "accept [id]",
	Short: "Accept a mutually agreed application (client)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		result, err := apiClient.AcceptApplication(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error accepting application: %w", err)
		}
		return printJSON(result)
	},
}

// parseIDArg parses a positional id argument.
func parseIDArg(arg string) (uint, error) {
	id, err := strconv.ParseUint(arg, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", arg)
	}
	return uint(id), nil
}

// GetApplicationsCmd returns the applications command
func GetApplicationsCmd() *cobra.Command {
	return applicationsCmd
}
