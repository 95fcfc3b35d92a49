package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/project-tktt/job-explorer/internal/common/skills"
	"github.com/project-tktt/job-explorer/internal/domain"
	"github.com/project-tktt/job-explorer/internal/explore"
)

// StatsAction filters the cleaned dataset and prints statistics
func StatsAction(ctx context.Context, cmd *cli.Command) error {
	appCtx, err := NewAppContext(cmd)
	if err != nil {
		return err
	}

	levels, err := parseLevels(cmd.StringSlice("level"))
	if err != nil {
		return err
	}

	filter := explore.Filter{
		Levels:   levels,
		Location: cmd.String("location"),
		Query:    cmd.String("search"),
	}

	jobs, err := appCtx.Dataset().Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	displayStats(appCtx.Out, jobs, filter, cmd.Int("top"), cmd.Bool("list"), time.Now().UTC())
	return nil
}

func parseLevels(values []string) ([]domain.ExperienceLevel, error) {
	var out []domain.ExperienceLevel
	for _, v := range values {
		matched := false
		for _, level := range domain.Levels {
			if strings.EqualFold(v, string(level)) {
				out = append(out, level)
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("unknown experience level %q", v)
		}
	}
	return out, nil
}

func displayStats(w io.Writer, jobs []domain.CleanedJob, filter explore.Filter, top int, list bool, now time.Time) {
	filtered := filter.Apply(jobs)

	fmt.Fprintf(w, "Jobs: %d of %d\n", len(filtered), len(jobs))
	if hours, ok := explore.Freshness(jobs, now); ok {
		fmt.Fprintf(w, "Last updated: %d hrs ago\n", hours)
	} else {
		fmt.Fprintln(w, "Last updated: unknown")
	}

	topSkills := explore.TopSkills(filtered, top)
	if len(topSkills) == 0 {
		fmt.Fprintln(w, "No tech skills in filtered jobs, showing overall top skills")
		topSkills = explore.TopSkills(jobs, top)
	}

	skillTable := tablewriter.NewWriter(w)
	skillTable.Header("Skill", "Jobs")
	for _, sc := range topSkills {
		skillTable.Append(sc.Skill, fmt.Sprintf("%d", sc.Count))
	}
	skillTable.Render()

	summary := explore.Summarize(filtered)
	levelTable := tablewriter.NewWriter(w)
	levelTable.Header("Experience", "Jobs")
	for _, level := range domain.Levels {
		levelTable.Append(string(level), fmt.Sprintf("%d", summary.ByLevel[level]))
	}
	levelTable.Render()

	if !list {
		return
	}

	jobTable := tablewriter.NewWriter(w)
	jobTable.Header("Title", "Company", "Location", "Experience", "Skills", "URL")
	for _, j := range filtered {
		jobTable.Append(
			j.JobTitle,
			j.Company,
			valueOr(j.Location, "-"),
			string(j.ExperienceLevel),
			skills.Encode(j.Skills),
			valueOr(j.URL, "-"),
		)
	}
	jobTable.Render()
}

func valueOr(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
