package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/workbridge/workbridge/internal/types"
)

var (
	jobTitle       string
	jobDescription string
	jobPrice       float64
	jobLocation    string
	jobCategoryID  uint
)

func init() {
	jobsCmd.AddCommand(listJobsCmd)
	jobsCmd.AddCommand(getJobCmd)
	jobsCmd.AddCommand(createJobCmd)
	jobsCmd.AddCommand(cancelJobCmd)
	jobsCmd.AddCommand(verifyJobCmd)

	listJobsCmd.Flags().IntP("page", "p", 1, "Page of results to fetch")

	createJobCmd.Flags().StringVar(&jobTitle, "title", "", "Job title")
	createJobCmd.Flags().StringVar(&jobDescription, "description", "", "Job description")
	createJobCmd.Flags().Float64Var(&jobPrice, "price", 0, "Job price")
	createJobCmd.Flags().StringVar(&jobLocation, "location", "", "Job location")
	createJobCmd.Flags().UintVar(&jobCategoryID, "category", 0, "Category id")
	_ = createJobCmd.MarkFlagRequired("title")
	_ = createJobCmd.MarkFlagRequired("description")
	_ = createJobCmd.MarkFlagRequired("price")
	_ = createJobCmd.MarkFlagRequired("category")
}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage job postings",
}

var listJobsCmd = &cobra.Command{
	Use:   "list",
	Short: "List the public job board",
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, _ := cmd.Flags().GetInt("page")
		response, err := apiClient.ListJobs(context.Background(), page)
		if err != nil {
			return fmt.Errorf("error fetching jobs: %w", err)
		}
		return printJSON(response)
	},
}

var getJobCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Get a specific job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		job, err := apiClient.GetJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error fetching job: %w", err)
		}
		return printJSON(job)
	},
}

var createJobCmd = &cobra.Command{
	Use:   "create",
	Short: "Post a new job",
	RunE: func(_ *cobra.Command, _ []string) error {
		job, err := apiClient.CreateJob(context.Background(), &types.CreateJobRequest{
			Title:       jobTitle,
			Description: jobDescription,
			Price:       jobPrice,
			Location:    jobLocation,
			CategoryID:  jobCategoryID,
		})
		if err != nil {
			return fmt.Errorf("error creating job: %w", err)
		}
		return printJSON(job)
	},
}

var cancelJobCmd = &cobra.Command{
	Use:   "cancel [id]",
	Short: "Cancel an open job",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		job, err := apiClient.CancelJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error cancelling job: %w", err)
		}
		return printJSON(job)
	},
}

var verifyJobCmd = &cobra.Command{
	Use:   "verify [id]",
	Short: "Approve a job for public listing (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		job, err := apiClient.VerifyJob(context.Background(), id)
		if err != nil {
			return fmt.Errorf("error verifying job: %w", err)
		}
		return printJSON(job)
	},
}

// GetJobsCmd returns the jobs command
func GetJobsCmd() *cobra.Command {
	return jobsCmd
}
