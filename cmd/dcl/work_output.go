package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dcl/internal/workflow"
)

const clockLayout = "15:04"

func printWorkResult(out io.Writer, result workflow.Result, colorize bool) {
	printStopLine(out, result, colorize)

	tags := make([]string, 0, len(result.Tags))
	for _, tag := range result.Tags {
		tags = append(tags, tag.Name)
	}
	detail := fmt.Sprintf("%s / %s", result.Project.Name, result.Task.Name)
	if len(tags) > 0 {
		detail += " [" + strings.Join(tags, ", ") + "]"
	}
	if result.Description != "" {
		detail += fmt.Sprintf(" %q", result.Description)
	}
	billing := "billable"
	if !result.Billable {
		billing = "non-billable"
	}
	detail += fmt.Sprintf(", %s, from %s", billing, formatClock(result.Start))
	fmt.Fprintln(out, renderStatusLine("Started "+result.Bucket, statusOK, detail, colorize))
}

func printStopResult(out io.Writer, result workflow.Result, colorize bool) {
	printStopLine(out, result, colorize)
}

func printStopLine(out io.Writer, result workflow.Result, colorize bool) {
	if result.Stopped {
		fmt.Fprintln(out, renderStatusLine("Stopped", statusOK, "running timer ended at "+formatClock(result.StopEnd), colorize))
		return
	}
	fmt.Fprintln(out, renderStatusLine("Stopped", statusInfo, "no timer was running", colorize))
}

func formatClock(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(clockLayout)
}
