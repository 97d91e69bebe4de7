// Package observability renders dashboard output for the CLI and sets up logging and
// tracing.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/jonathan/freelance-agent/internal/dashboard"
	"github.com/jonathan/freelance-agent/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// descriptionLines caps how much of a job description is shown
	descriptionLines = 3
)

// Messages shown for empty collections.
const (
	NoJobsMessage      = `No job opportunities found. Click "Find New Jobs" to search!`
	NoSkillGapsMessage = "No skill gaps identified yet. Keep applying to jobs to get AI-powered recommendations!"
	NoProjectsMessage  = "No projects yet."
	NoProposalsMessage = "No proposals generated yet."
)

// Printer writes human-readable dashboard output.
type Printer struct {
	out io.Writer
	// Limit caps list lengths; zero means maxItemsToShow, negative means no limit.
	Limit int
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) limit(n int) int {
	switch {
	case p.Limit < 0:
		return n
	case p.Limit == 0:
		return min(n, maxItemsToShow)
	default:
		return min(n, p.Limit)
	}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	p.boxLine(title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		p.boxLine(truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) boxLine(line string) {
	pad := max(boxWidth-4-utf8.RuneCountInString(line), 0)
	fmt.Fprintf(p.out, "│ %s%s │\n", line, strings.Repeat(" ", pad))
}

// printNotice prints a one-line box, used for empty states and errors.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printNotice(text string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	for _, line := range wrap(text, boxWidth-4) {
		p.boxLine(line)
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintMessage writes a plain line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintMessage(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// PrintUser outputs the signed-in profile.
func (p *Printer) PrintUser(user *types.User) {
	if user == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:   %s\n", user.DisplayName()))
	sb.WriteString(fmt.Sprintf("Email:  %s\n", user.Email))
	sb.WriteString(fmt.Sprintf("ID:     %d\n", user.ID))
	if user.ExperienceLevel != "" {
		sb.WriteString(fmt.Sprintf("Level:  %s\n", user.ExperienceLevel))
	}
	if user.HourlyRate > 0 {
		sb.WriteString(fmt.Sprintf("Rate:   $%.2f/hr\n", user.HourlyRate))
	}
	if user.Skills != "" {
		sb.WriteString(fmt.Sprintf("Skills: %s\n", user.Skills))
	}

	p.printBox("PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDashboard outputs the active tab of a dashboard snapshot.
func (p *Printer) PrintDashboard(state dashboard.State, user *types.User) {
	if user != nil {
		p.PrintMessage("Welcome back, %s!", user.DisplayName())
	}

	switch state.Status {
	case dashboard.StatusUninitialized, dashboard.StatusLoading:
		p.printNotice("Loading dashboard...")
		return
	case dashboard.StatusError:
		p.printNotice(fmt.Sprintf("⚠ Dashboard unavailable: %v", state.Err))
		return
	}

	switch state.View {
	case dashboard.ViewJobs:
		if renderable(p, "jobs", state.Jobs) {
			p.PrintJobs(state.Jobs.Data)
		}
	case dashboard.ViewProjects:
		if renderable(p, "projects", state.Projects) {
			p.PrintProjects(state.Projects.Data)
		}
	case dashboard.ViewSkills:
		if renderable(p, "skill gaps", state.SkillGaps) {
			p.PrintSkillGaps(state.SkillGaps.Data)
		}
	case dashboard.ViewCommunication:
		p.printNotice("Paste a client message into `suggest-reply` to draft a response.")
	default:
		if renderable(p, "analytics", state.Analytics) {
			p.PrintAnalytics(state.Analytics.Data)
		}
	}
}

// renderable reports whether r has data to show and prints a notice when it does not.
func renderable[T any](p *Printer, name string, r dashboard.Resource[T]) bool {
	if r.Status == dashboard.ResourceFailed {
		p.printNotice(fmt.Sprintf("⚠ Could not load %s: %v", name, r.Err))
	}
	if r.Loaded {
		return true
	}
	if r.Status == dashboard.ResourcePending {
		p.printNotice(fmt.Sprintf("Loading %s...", name))
	}
	return false
}

// PrintAnalytics outputs the summary cards and the pricing suggestion.
func (p *Printer) PrintAnalytics(a *types.Analytics) {
	if a == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total Earnings:  %s\n", money(a.Summary.TotalEarnings)))
	sb.WriteString(fmt.Sprintf("Hours Worked:    %s\n", formatHours(a.Summary.TotalHours)))
	sb.WriteString(fmt.Sprintf("Avg Rate:        %s/hr\n", money(a.Summary.AverageHourlyRate)))
	sb.WriteString(fmt.Sprintf("Active Projects: %d", a.Summary.ActiveProjects))
	p.printBox("OVERVIEW", sb.String())

	if ps := a.PricingSuggestion; ps != nil {
		sb.Reset()
		sb.WriteString(strings.Join(wrap(ps.Recommendation, boxWidth-4), "\n"))
		if ps.TargetRate.Valid {
			sb.WriteString(fmt.Sprintf("\nSuggested Rate: %s/hour", money(ps.TargetRate.Decimal)))
		} else if ps.TargetRateText != "" {
			sb.WriteString("\nSuggested Rate: " + truncate(ps.TargetRateText, boxWidth-20))
		}
		if ps.Tip != "" {
			sb.WriteString("\n" + strings.Join(wrap("Tip: "+ps.Tip, boxWidth-4), "\n"))
		}
		p.printBox("💡 AI PRICING SUGGESTION", sb.String())
	}
}

// PrintJobs outputs job cards with the match badge, budget and skill tags.
func (p *Printer) PrintJobs(jobs []types.JobPosting) {
	if len(jobs) == 0 {
		p.printNotice(NoJobsMessage)
		return
	}

	var sb strings.Builder
	count := p.limit(len(jobs))
	for i := 0; i < count; i++ {
		job := jobs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", job.ID, job.Title))

		var meta []string
		if job.ClientName != "" {
			meta = append(meta, job.ClientName)
		}
		if job.Source != "" {
			meta = append(meta, job.Source)
		}
		if len(meta) > 0 {
			sb.WriteString("    " + strings.Join(meta, " • ") + "\n")
		}

		sb.WriteString(fmt.Sprintf("    %s", MatchBadge(&job)))
		if job.Budget.Valid {
			sb.WriteString("  Budget: " + money(job.Budget.Decimal))
		}
		sb.WriteString("\n")

		if tags := job.SkillTags(); len(tags) > 0 {
			sb.WriteString(fmt.Sprintf("    Skills: %s\n", strings.Join(tags, ", ")))
		}
		if desc := PlainText(job.Description); desc != "" {
			lines := wrap(desc, boxWidth-8)
			shown := min(len(lines), descriptionLines)
			for j := 0; j < shown; j++ {
				line := lines[j]
				if j == shown-1 && len(lines) > shown {
					line = truncate(line+" ...", boxWidth-8)
				}
				sb.WriteString("    " + line + "\n")
			}
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(jobs) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more jobs", len(jobs)-count))
	}

	p.printBox("SMART JOB OPPORTUNITIES", strings.TrimSuffix(sb.String(), "\n"))
}

// MatchBadge renders the match score with its tier marker.
func MatchBadge(job *types.JobPosting) string {
	marker := "○"
	switch job.Tier() {
	case types.MatchHigh:
		marker = "●"
	case types.MatchMedium:
		marker = "◐"
	}
	return fmt.Sprintf("%s %s%% Match", marker, decimal.NewFromFloat(job.Score()).Round(1).String())
}

// PrintProjects outputs the user's projects.
func (p *Printer) PrintProjects(projects []types.Project) {
	if len(projects) == 0 {
		p.printNotice(NoProjectsMessage)
		return
	}

	var sb strings.Builder
	count := p.limit(len(projects))
	for i := 0; i < count; i++ {
		project := projects[i]
		sb.WriteString(fmt.Sprintf("#%d  %s [%s]\n", project.ID, project.Title, project.Status))
		if project.ClientName != "" {
			sb.WriteString(fmt.Sprintf("    Client: %s\n", project.ClientName))
		}
		sb.WriteString(fmt.Sprintf("    Budget: %s  Hours: %s\n", money(project.Budget), formatHours(project.HoursWorked)))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(projects) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more projects", len(projects)-count))
	}

	p.printBox("PROJECTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillGaps outputs the skill development recommendations.
func (p *Printer) PrintSkillGaps(gaps []types.SkillGap) {
	if len(gaps) == 0 {
		p.printNotice(NoSkillGapsMessage)
		return
	}

	var sb strings.Builder
	count := p.limit(len(gaps))
	for i := 0; i < count; i++ {
		gap := gaps[i]
		sb.WriteString(fmt.Sprintf("%s [%s]\n", gap.MissingSkill, gap.Status))
		sb.WriteString(fmt.Sprintf("    Missed %s • Priority: %s/10\n",
			plural(gap.JobMissedCount, "opportunity", "opportunities"),
			decimal.NewFromFloat(gap.PriorityScore).Round(1).String()))
		if gap.LearningResource != nil && *gap.LearningResource != "" {
			sb.WriteString(fmt.Sprintf("    📚 %s\n", *gap.LearningResource))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(gaps) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more skill gaps", len(gaps)-count))
	}

	p.printBox("SKILL DEVELOPMENT RECOMMENDATIONS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSearchSummary outputs the result of a job search.
func (p *Printer) PrintSearchSummary(summary dashboard.SearchSummary) {
	p.printNotice(summary.String())
}

// PrintProposal outputs a generated proposal.
func (p *Printer) PrintProposal(resp *types.ProposalResponse) {
	if resp == nil {
		return
	}
	if resp.Proposal == nil {
		p.printNotice(resp.Message)
		return
	}
	p.printBox(proposalTitle(resp.Proposal), strings.Join(wrap(resp.Proposal.Content, boxWidth-4), "\n"))
}

// PrintProposals outputs the proposals generated for the user.
func (p *Printer) PrintProposals(proposals []types.Proposal) {
	if len(proposals) == 0 {
		p.printNotice(NoProposalsMessage)
		return
	}

	var sb strings.Builder
	count := p.limit(len(proposals))
	for i := 0; i < count; i++ {
		proposal := proposals[i]
		sb.WriteString(proposalTitle(&proposal) + "\n")
		if proposal.Status != "" {
			sb.WriteString(fmt.Sprintf("    Status: %s\n", proposal.Status))
		}
		lines := wrap(proposal.Content, boxWidth-8)
		if len(lines) > 0 {
			line := lines[0]
			if len(lines) > 1 {
				line = truncate(line+" ...", boxWidth-8)
			}
			sb.WriteString("    " + line + "\n")
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(proposals) > count {
		sb.WriteString(fmt.Sprintf("\n... and %d more proposals", len(proposals)-count))
	}

	p.printBox("PROPOSALS", strings.TrimSuffix(sb.String(), "\n"))
}

func proposalTitle(proposal *types.Proposal) string {
	if proposal.JobTitle != nil && *proposal.JobTitle != "" {
		return fmt.Sprintf("PROPOSAL #%d: %s", proposal.ID, *proposal.JobTitle)
	}
	return fmt.Sprintf("PROPOSAL #%d (job %d)", proposal.ID, proposal.JobID)
}

// PrintCommunication outputs a suggested client reply.
func (p *Printer) PrintCommunication(resp *types.CommunicationResponse) {
	text := resp.Text()
	if text == "" {
		p.printNotice("No suggestion returned.")
		return
	}
	p.printBox("SUGGESTED REPLY", strings.Join(wrap(text, boxWidth-4), "\n"))
}

func money(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

func formatHours(h float64) string {
	return decimal.NewFromFloat(h).Round(2).String()
}
