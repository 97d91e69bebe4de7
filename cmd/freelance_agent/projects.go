package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/freelance-agent/internal/types"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	Args:  cobra.NoArgs,
	RunE:  runProjectsCreate,
}

var logTimeCmd = &cobra.Command{
	Use:   "log-time",
	Short: "Record hours worked on a project",
	Args:  cobra.NoArgs,
	RunE:  runLogTime,
}

var (
	projectTitle       string
	projectClient      string
	projectDescription string
	projectBudget      float64
	projectStatus      string

	logProjectID   int64
	logHours       float64
	logDescription string
	logDate        string
)

func init() {
	projectsCreateCmd.Flags().StringVar(&projectTitle, "title", "", "Project title (required)")
	projectsCreateCmd.Flags().StringVar(&projectClient, "client", "", "Client name")
	projectsCreateCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectsCreateCmd.Flags().Float64Var(&projectBudget, "budget", 0, "Budget in USD")
	projectsCreateCmd.Flags().StringVar(&projectStatus, "status", "", "Status: active, completed or cancelled")
	_ = projectsCreateCmd.MarkFlagRequired("title")
	projectsCmd.AddCommand(projectsCreateCmd)

	logTimeCmd.Flags().Int64Var(&logProjectID, "project-id", 0, "Project the hours belong to (required)")
	logTimeCmd.Flags().Float64Var(&logHours, "hours", 0, "Hours worked (required)")
	logTimeCmd.Flags().StringVar(&logDescription, "description", "", "What was done")
	logTimeCmd.Flags().StringVar(&logDate, "date", "", "Date worked, YYYY-MM-DD (defaults to today on the backend)")
	_ = logTimeCmd.MarkFlagRequired("project-id")
	_ = logTimeCmd.MarkFlagRequired("hours")

	rootCmd.AddCommand(projectsCmd, logTimeCmd)
}

func runProjects(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	resp, err := a.client.GetProjects(cmd.Context(), user.ID)
	if err != nil {
		return err
	}
	a.printer.PrintProjects(resp.Projects)
	return nil
}

func runProjectsCreate(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	req := &types.CreateProjectRequest{
		UserID:      user.ID,
		Title:       projectTitle,
		ClientName:  projectClient,
		Description: projectDescription,
		Budget:      projectBudget,
		Status:      types.ProjectStatus(projectStatus),
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid project: %w", err)
	}

	resp, err := a.client.CreateProject(cmd.Context(), req)
	if err != nil {
		return err
	}
	if resp.Project != nil {
		a.printer.PrintMessage("Created project #%d: %s", resp.Project.ID, resp.Project.Title)
		return nil
	}
	a.printer.PrintMessage("%s", resp.Message)
	return nil
}

func runLogTime(cmd *cobra.Command, _ []string) error {
	a := current
	user, err := a.requireUser()
	if err != nil {
		return err
	}

	req := &types.CreateTimeLogRequest{
		UserID:      user.ID,
		ProjectID:   logProjectID,
		Hours:       logHours,
		Description: logDescription,
		DateLogged:  logDate,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid time log: %w", err)
	}

	resp, err := a.client.LogTime(cmd.Context(), req)
	if err != nil {
		return err
	}
	a.printer.PrintMessage("Logged %g hours on project #%d.", logHours, logProjectID)
	if resp.Message != "" {
		a.printer.PrintMessage("%s", resp.Message)
	}
	return nil
}
