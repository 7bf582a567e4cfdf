package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workbridge/workbridge/internal/types"
)

var feedbackComment string

func init() {
	contractsCmd.AddCommand(listContractsCmd)
	contractsCmd.AddCommand(getContractCmd)
	contractsCmd.AddCommand(contractActionCmd)
	contractsCmd.AddCommand(submitFeedbackCmd)

	listContractsCmd.Flags().IntP("page", "p", 1, "Page of results to fetch")

	submitFeedbackCmd.Flags().StringVar(&feedbackComment, "comment", "", "Feedback comment")
}

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "Manage contracts",
}

var listContractsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your contracts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")
		response, err := apiClient.ListContracts(context.Background(), page)
		if err != nil {
			return fmt.Errorf("error fetching contracts: %w", err)
		}
		return printJSON(response)
	},
}

var getContractCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific contract",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		contract, err := apiClient.GetContract(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching contract: %w", err)
		}
		return printJSON(contract)
	},
}

var contractActionCmd = &cobra.Command{
	Use:       "action [id] [start|complete|confirm|cancel|dispute]",
	Short:     "Run a contract transition",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"start", "complete", "confirm", "cancel", "dispute"},
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		contract, err := apiClient.ContractAction(context.Background(), id, args[1])
		if err != nil {
			return fmt.Errorf("error running %s: %w", args[1], err)
		}
		return printJSON(contract)
	},
}

var submitFeedbackCmd = &cobra.Command{
	Use:   "feedback [id] [rating]",
	Short: "Rate the other party of a completed contract",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		rating, err := parseIDArg(args[1])
		if err != nil {
			return fmt.Errorf("invalid rating %q", args[1])
		}
		fb, err := apiClient.SubmitFeedback(context.Background(), id, &types.SubmitFeedbackRequest{
			Rating:  int(rating),
			Comment: feedbackComment,
		})
		if err != nil {
			return fmt.Errorf("error submitting feedback: %w", err)
		}
		return printJSON(fb)
	},
}

// GetContractsCmd returns the contracts command
func GetContractsCmd() *cobra.Command {
	return contractsCmd
}
