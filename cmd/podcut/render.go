package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"podcut/internal/audit"
	"podcut/internal/edit"
	"podcut/internal/pipeline"
	"podcut/internal/runctx"
	"podcut/internal/semantic"
)

const detailWidth = 36

func renderRun(run *pipeline.Run, runErr error, colorize bool) string {
	var b strings.Builder
	for _, line := range renderSectionHeader("podcut "+shortID(run.ID), colorize) {
		b.WriteString(line + "\n")
	}
	b.WriteString(renderStatusLine("Workspace", statusInfo, run.Workspace.Dir(), colorize) + "\n")
	kind, message := runStatus(runErr)
	b.WriteString(renderStatusLine("Result", kind, message, colorize) + "\n")
	res := run.Results
	for _, name := range res.Skipped {
		b.WriteString(renderStatusLine("Stage "+name, statusSkip, "no usable input", colorize) + "\n")
	}
	for _, name := range res.Ignored {
		b.WriteString(renderStatusLine("Input", statusSkip, name+" unreadable; ignored", colorize) + "\n")
	}
	b.WriteString("\n")

	if rows := stageRows(res); len(rows) > 0 {
		b.WriteString(renderTable("Stages", []string{"Stage", "Summary"}, rows, nil))
	}
	if res.Audit != nil && len(res.Audit.Issues()) > 0 {
		b.WriteString(renderTable("Audit issues", []string{"Type", "Severity", "Time", "Detail", "Ack"}, auditRows(*res.Audit),
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft}))
	}
	if res.Review != nil && res.Review.Summary.TotalIssues > 0 {
		b.WriteString(renderTable("Review findings", []string{"Type", "Severity", "Time", "Text"}, reviewRows(*res.Review),
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
	}
	if res.Fix != nil && len(res.Fix.Changes) > 0 {
		rows := make([][]string, 0, len(res.Fix.Changes))
		for _, c := range res.Fix.Changes {
			rows = append(rows, []string{string(c.Kind), c.String()})
		}
		b.WriteString(renderTable("Segment changes", []string{"Kind", "Change"}, rows, nil))
	}
	if len(res.Artifacts) > 0 {
		rows := make([][]string, 0, len(res.Artifacts))
		for _, a := range res.Artifacts {
			version := "-"
			if a.Version > 0 {
				version = strconv.Itoa(a.Version)
			}
			rows = append(rows, []string{a.Stage, a.Name, version, shortID(a.SHA256)})
		}
		b.WriteString(renderTable("Artifacts", []string{"Stage", "File", "Version", "SHA256"}, rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}))
	}
	return b.String()
}

func runStatus(err error) (statusKind, string) {
	switch {
	case err == nil:
		return statusOK, "complete"
	case errors.Is(err, runctx.ErrAuditFailed):
		return statusOpen, "audit found open issues"
	default:
		return statusError, "failed"
	}
}

func stageRows(res pipeline.Results) [][]string {
	var rows [][]string
	if s := res.Sentences; s != nil {
		origin := "kept existing index"
		if s.Generated {
			origin = "generated"
		}
		rows = append(rows, []string{pipeline.StageSentences, fmt.Sprintf("%d sentences, %d words (%s)", s.Sentences, s.Words, origin)})
	}
	if s := res.Detect; s != nil {
		rows = append(rows, []string{pipeline.StageDetect, editSummary(*s)})
	}
	if s := res.Merge; s != nil {
		line := editSummary(*s)
		if src := s.Sources; src != nil {
			line += fmt.Sprintf("; rules %d, external %d, self-correction %d, merged gaps %d, unmapped %d",
				src.Rules, src.External, src.SelfCorrectionRules, src.SilenceMerged, src.MappingFailures)
		}
		rows = append(rows, []string{pipeline.StageMerge, line})
	}
	if s := res.Segments; s != nil {
		rows = append(rows, []string{pipeline.StageSegments, fmt.Sprintf("%d segments, %s deleted, longest %.1fs", s.Segments, s.DeletedClock, s.LongestLength)})
	}
	if r := res.Audit; r != nil {
		rows = append(rows, []string{pipeline.StageAudit, r.Summary})
	}
	if r := res.Review; r != nil {
		rows = append(rows, []string{pipeline.StageReview, r.Headline()})
	}
	if r := res.Fix; r != nil {
		rows = append(rows, []string{pipeline.StageFix, fmt.Sprintf("removed %d, extended %d, inserted %d, manual %d",
			r.Removed, r.Extended, r.Inserted, r.Manual)})
	}
	return rows
}

func editSummary(s edit.Summary) string {
	line := fmt.Sprintf("%d edits, %s saved", s.TotalEdits, s.EstimatedTimeSaved)
	if s.NeedsReview > 0 {
		line += fmt.Sprintf(", %d need review", s.NeedsReview)
	}
	if cats := categoryList(s.ByType); cats != "" {
		line += " (" + cats + ")"
	}
	return line
}

func categoryList(byType map[edit.Category]int) string {
	keys := make([]string, 0, len(byType))
	for k, n := range byType {
		if n > 0 {
			keys = append(keys, string(k))
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s %d", k, byType[edit.Category(k)])
	}
	return strings.Join(parts, ", ")
}

func auditRows(r audit.Report) [][]string {
	issues := r.Issues()
	rows := make([][]string, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []string{
			is.Type,
			string(is.Severity),
			edit.FormatClock(is.Time),
			clip(issueDetail(is), detailWidth),
			yesNo(is.Acknowledged),
		})
	}
	return rows
}

func issueDetail(is audit.Issue) string {
	switch {
	case is.Text != "":
		return is.Text
	case is.SentenceText != "":
		return is.SentenceText
	case is.BeforeText != "" || is.AfterText != "":
		return is.BeforeText + " | " + is.AfterText
	default:
		return is.Note
	}
}

func reviewRows(r semantic.Report) [][]string {
	var rows [][]string
	for _, group := range [][]semantic.Finding{r.Checks.MissingContent, r.Checks.ResidualStutters, r.Checks.ResidualFillers} {
		for _, f := range group {
			rows = append(rows, []string{f.Type, string(f.Severity), edit.FormatClock(f.Time), clip(f.Text, detailWidth)})
		}
	}
	return rows
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}

func shortID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
