package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/dashboard"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard",
	Long:  "Load analytics, jobs, projects and skill gaps concurrently and print one tab (or all of them).",
	Args:  cobra.NoArgs,
	RunE:  runDashboard,
}

var searchJobsCmd = &cobra.Command{
	Use:   "search-jobs",
	Short: "Search for new job opportunities",
	Args:  cobra.NoArgs,
	RunE:  runSearchJobs,
}

var proposeCmd = &cobra.Command{
	Use:   "propose",
	Short: "Generate a proposal for a job",
	Args:  cobra.NoArgs,
	RunE:  runPropose,
}

var proposalsCmd = &cobra.Command{
	Use:   "proposals",
	Short: "List generated proposals",
	Args:  cobra.NoArgs,
	RunE:  runProposals,
}

var (
	dashboardTab   string
	dashboardAll   bool
	dashboardLimit int
	proposeJobID   int64
)

func init() {
	dashboardCmd.Flags().StringVar(&dashboardTab, "tab", string(dashboard.ViewOverview), "Tab to show: overview, jobs, projects, skills or communication")
	dashboardCmd.Flags().BoolVar(&dashboardAll, "all", false, "Show every tab")
	dashboardCmd.Flags().IntVar(&dashboardLimit, "limit", 0, "Maximum items per list (0 uses the default, -1 shows all)")
	searchJobsCmd.Flags().IntVar(&dashboardLimit, "limit", 0, "Maximum jobs to list (0 uses the default, -1 shows all)")

	proposeCmd.Flags().Int64Var(&proposeJobID, "job-id", 0, "Job to write a proposal for (required)")
	_ = proposeCmd.MarkFlagRequired("job-id")

	rootCmd.AddCommand(dashboardCmd, searchJobsCmd, proposeCmd, proposalsCmd)
}

func newController() *dashboard.Controller {
	return dashboard.New(current.client, current.logger)
}

func runDashboard(cmd *cobra.Command, _ []string) error {
	a := current
	view, err := dashboard.ParseView(dashboardTab)
	if err != nil {
		return err
	}
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	ctrl := newController()
	if err := ctrl.SetView(view); err != nil {
		return err
	}
	loadErr := ctrl.Load(cmd.Context(), user.ID)

	a.printer.Limit = dashboardLimit
	state := ctrl.Snapshot()
	if !dashboardAll {
		a.printer.PrintDashboard(state, user)
		return loadErr
	}

	for i, v := range dashboard.Views {
		state.View = v
		if i == 0 {
			a.printer.PrintDashboard(state, user)
		} else {
			a.printer.PrintDashboard(state, nil)
		}
		if loadErr != nil {
			break
		}
	}
	return loadErr
}

func runSearchJobs(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	ctrl := newController()
	if err := ctrl.Use(user.ID); err != nil {
		return err
	}
	summary, err := ctrl.SearchJobs(cmd.Context())
	if err != nil {
		return err
	}

	a.printer.Limit = dashboardLimit
	a.printer.PrintSearchSummary(summary)
	a.printer.PrintJobs(ctrl.Snapshot().Jobs.Data)
	return nil
}

func runPropose(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}
	if proposeJobID <= 0 {
		return fmt.Errorf("--job-id must be positive")
	}

	ctrl := newController()
	if err := ctrl.Use(user.ID); err != nil {
		return err
	}
	resp, err := ctrl.GenerateProposal(cmd.Context(), proposeJobID)
	if err != nil {
		return fmt.Errorf("failed to generate proposal: %w", err)
	}
	a.printer.PrintProposal(resp)
	return nil
}

func runProposals(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	resp, err := a.client.GetProposals(cmd.Context(), user.ID)
	if err != nil {
		return err
	}
	a.printer.PrintProposals(resp.Proposals)
	return nil
}
