package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workbridge/workbridge/internal/types"
)

var (
	inviteWorkerID    uint
	inviteDescription string
	inviteRate        float64
)

func init() {
	invitationsCmd.AddCommand(sendInvitationCmd)
	invitationsCmd.AddCommand(listInvitationsCmd)
	invitationsCmd.AddCommand(getInvitationCmd)
	invitationsCmd.AddCommand(invitationActionCmd)
	invitationsCmd.AddCommand(acceptInvitationCmd)

	sendInvitationCmd.Flags().UintVar(&inviteWorkerID, "worker", 0, "Worker id to invite")
	sendInvitationCmd.Flags().StringVar(&inviteDescription, "description", "", "Message to the worker")
	sendInvitationCmd.Flags().Float64Var(&inviteRate, "rate", 0, "Proposed rate")
	_ = sendInvitationCmd.MarkFlagRequired("worker")

	listInvitationsCmd.Flags().IntP("page", "p", 1, "Page of results to fetch")
}

var invitationsCmd = &cobra.Command{
	Use:   "invitations",
	Short: "Manage work invitations",
}

var sendInvitationCmd = &cobra.Command{
	Use:   "send [job-id]",
	Short: "Invite a worker to a job (client)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		jobID, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		inv, err := apiClient.Invite(context.Background(), jobID, &types.InviteRequest{
			WorkerID:     inviteWorkerID,
			Description:  inviteDescription,
			ProposedRate: inviteRate,
		})
		if err != nil {
			return fmt.Errorf("error sending invitation: %w", err)
		}
		return printJSON(inv)
	},
}

var listInvitationsCmd = &cobra.Command{
	Use:   "list",
	Short: "List your invitations, sent or received",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")
		response, err := apiClient.ListInvitations(context.Background(), page)
		if err != nil {
			return fmt.Errorf("error fetching invitations: %w", err)
		}
		return printJSON(response)
	},
}

var getInvitationCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific invitation",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		inv, err := apiClient.GetInvitation(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching invitation: %w", err)
		}
		return printJSON(inv)
	},
}

var invitationActionCmd = &cobra.Command{
	Use:       "action [id] [discussion|agreement|reject|withdraw]",
	Short:     "Run an offer transition on an invitation",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"discussion", "agreement", "reject", "withdraw"},
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		inv, err := apiClient.InvitationAction(context.Background(), id, args[1])
		if err != nil {
			return fmt.Errorf("error running %s: %w", args[1], err)
		}
		return printJSON(inv)
	},
}

var acceptInvitationCmd = &cobra.Command{
	Use:   "accept [id]",
	Short: "Accept a mutually agreed invitation (worker)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		result, err := apiClient.AcceptInvitation(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error accepting invitation: %w", err)
		}
		return printJSON(result)
	},
}

// GetInvitationsCmd returns the invitations command
func GetInvitationsCmd() *cobra.Command {
	return invitationsCmd
}
