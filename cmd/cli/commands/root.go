// Package commands contains the cobra commands of the WorkBridge CLI.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/workbridge/workbridge/internal/types"
	"github.com/workbridge/workbridge/pkg/api/v1/client"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagActorID       = "actor-id"
	flagActorRole     = "role"
	flagVerified      = "verified"
)

// environment variable names
const (
	envServerAddress = "WORKBRIDGE_SERVER_ADDRESS"
	envActorID       = "WORKBRIDGE_ACTOR_ID"
	envActorRole     = "WORKBRIDGE_ACTOR_ROLE"
)

var (
	// apiClient is the shared API client instance
	apiClient *client.APIClient

	serverAddress string
	actorID       uint
	actorRole     string
	actorVerified bool
)

// initClient initializes the API client with the caller identity from
// the persistent flags.
func initClient() error {
	opts := client.DefaultOptions()
	opts.BaseURL = serverAddress
	opts.Actor = types.Actor{
		ID:       actorID,
		Role:     types.Role(actorRole),
		Verified: actorVerified,
	}

	var err error
	apiClient, err = client.NewClient(opts)
	return err
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", client.DefaultBaseURL, "Address of the WorkBridge API server (env: WORKBRIDGE_SERVER_ADDRESS)")
	RootCmd.PersistentFlags().UintVar(&actorID, flagActorID, 0, "Actor id to act as (env: WORKBRIDGE_ACTOR_ID)")
	RootCmd.PersistentFlags().StringVar(&actorRole, flagActorRole, string(types.RoleClient), "Actor role: client, worker or admin (env: WORKBRIDGE_ACTOR_ROLE)")
	RootCmd.PersistentFlags().BoolVar(&actorVerified, flagVerified, true, "Whether the actor is verified")

	RootCmd.AddCommand(GetJobsCmd())
	RootCmd.AddCommand(GetApplicationsCmd())
	RootCmd.AddCommand(GetInvitationsCmd())
	RootCmd.AddCommand(GetContractsCmd())
	RootCmd.AddCommand(GetSweepCmd())
}

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "workbridge",
	Short: "WorkBridge CLI - A command line interface for the WorkBridge API",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Flag > env var > default
		if !cmd.Flags().Changed(flagServerAddress) {
			if envAddr := os.Getenv(envServerAddress); envAddr != "" {
				serverAddress = envAddr
			}
		}
		if !cmd.Flags().Changed(flagActorID) {
			if envID := os.Getenv(envActorID); envID != "" {
				id, err := strconv.ParseUint(envID, 10, 32)
				if err != nil {
					return fmt.Errorf("invalid %s: %w", envActorID, err)
				}
				actorID = uint(id)
			}
		}
		if !cmd.Flags().Changed(flagActorRole) {
			if envRole := os.Getenv(envActorRole); envRole != "" {
				actorRole = envRole
			}
		}

		if serverAddress == "" {
			return fmt.Errorf("server address cannot be empty")
		}
		if !types.Role(actorRole).Valid() {
			return fmt.Errorf("invalid role %q", actorRole)
		}
		return initClient()
	},
}

// printJSON pretty prints a value as JSON to stdout.
func printJSON(v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	fmt.Println(string(prettyJSON))
	return nil
}
