package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/spider"
	"github.com/fwojciec/spider/crawl"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := spider.RunFilter{Limit: c.Limit}
	if c.Seed != "" {
		seed, err := spider.ParseURI(c.Seed)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
			return err
		}
		s := seed.String()
		filter.Seed = &s
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'spider crawl URL' to start one.")
		return nil
	}

	for _, r := range runs {
		state := r.State
		if state == "" {
			state = "running"
		}
		fmt.Fprintf(deps.Stdout, "%s  %s  %-22s  %4d  %s\n",
			r.ID, r.StartedAt.Local().Format(time.DateTime), state, r.Persisted, r.Seed)
	}
	return nil
}

// Run executes the resources command.
func (c *ResourcesCmd) Run(deps *Dependencies) error {
	if _, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	runID := c.RunID
	resources, err := deps.Resources.FindResources(deps.Ctx, spider.ResourceFilter{RunID: &runID, Limit: c.Limit})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", spider.ErrorMessage(err))
		return err
	}

	if len(resources) == 0 {
		fmt.Fprintln(deps.Stdout, "No resources persisted by this run.")
		return nil
	}

	for _, res := range resources {
		fmt.Fprintf(deps.Stdout, "%d  %3d  %9s  %s  %s\n",
			res.DepthFound, res.StatusCode, crawl.FormatBytes(len(res.Body)), crawl.ComputeHash(res.Body), res.URI)
	}
	return nil
}
