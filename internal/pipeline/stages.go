package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"podcut/internal/audit"
	"podcut/internal/consolidate"
	"podcut/internal/detect"
	"podcut/internal/edit"
	"podcut/internal/gapclean"
	"podcut/internal/logging"
	"podcut/internal/repair"
	"podcut/internal/runctx"
	"podcut/internal/segments"
	"podcut/internal/selfcorrect"
	"podcut/internal/semantic"
	"podcut/internal/spanmap"
	"podcut/internal/suggest"
	"podcut/internal/transcript"
	"podcut/internal/workspace"
)

// Sequence returns the default stage order of a full run. The review stage
// is skipped when no re-transcription exists.
func Sequence() []Stage {
	return []Stage{
		SentencesStage{},
		DetectStage{},
		MergeStage{},
		SegmentsStage{},
		AuditStage{},
		ReviewStage{Optional: true},
	}
}

// SentencesStage derives sentences.txt from words.json. An existing index is
// validated and kept unless Force is set.
type SentencesStage struct {
	Force bool
}

func (SentencesStage) Name() string { return StageSentences }

func (s SentencesStage) Run(_ context.Context, run *Run) error {
	if err := run.Workspace.Require(StageSentences, workspace.WordsFile); err != nil {
		return err
	}
	tr, err := loadTranscript(run, StageSentences)
	if err != nil {
		return err
	}

	if run.Workspace.Has(workspace.SentencesFile) && !s.Force {
		sentences, err := loadSentences(run, StageSentences, tr)
		if err != nil {
			return err
		}
		run.Results.Sentences = &SentenceStats{Sentences: len(sentences), Words: len(tr.Speech())}
		run.Logger.Info("sentence index present; keeping it",
			logging.Int("sentences", len(sentences)),
			logging.String("file", workspace.SentencesFile),
		)
		return nil
	}

	sentences := transcript.BuildSentences(tr, run.Lexicon.IsSentenceTerminal)
	var buf bytes.Buffer
	if err := transcript.WriteSentenceIndex(&buf, sentences); err != nil {
		return runctx.Wrap(runctx.ErrValidation, StageSentences, "render sentence index", "", err)
	}
	if err := run.Workspace.WriteFile(workspace.SentencesFile, buf.Bytes()); err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageSentences, "write sentence index", "", err)
	}
	run.record(workspace.SentencesFile, buf.Bytes())
	run.Results.Sentences = &SentenceStats{Sentences: len(sentences), Words: len(tr.Speech()), Generated: true}
	run.Logger.Info("sentence index written",
		logging.Int("sentences", len(sentences)),
		logging.Int("words", len(tr.Speech())),
	)
	return nil
}

// DetectStage runs the rule layer and writes edits_rules.json.
type DetectStage struct{}

func (DetectStage) Name() string { return StageDetect }

func (DetectStage) Run(ctx context.Context, run *Run) error {
	if err := run.Workspace.Require(StageDetect, workspace.WordsFile, workspace.SentencesFile); err != nil {
		return err
	}
	tr, sentences, err := loadSource(run, StageDetect)
	if err != nil {
		return err
	}
	deleted := loadDeleted(run)

	det := detect.New(detect.OptionsFromConfig(run.Config.Detect, run.Lexicon, run.Logger))
	res := det.Detect(tr, sentences, deleted)
	if err := run.writeJSON(workspace.RuleEditsFile, edit.Document{Edits: nonNil(res.Edits), Summary: res.Summary}); err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageDetect, "write rule edits", "", err)
	}
	run.Metrics.RecordEdits(ctx, StageDetect, categoryCounts(res.Summary.ByType))
	run.Results.Detect = &res.Summary
	return nil
}

// MergeStage consolidates the rule edits with external suggestions, runs the
// self-correction scanner and the gap cleanup, and writes edits.json.
type MergeStage struct{}

func (MergeStage) Name() string { return StageMerge }

func (MergeStage) Run(ctx context.Context, run *Run) error {
	ws := run.Workspace
	if err := ws.Require(StageMerge, workspace.WordsFile, workspace.SentencesFile); err != nil {
		return err
	}
	if err := ws.RequireAny(StageMerge, workspace.RuleEditsFile, workspace.SuggestionsFile); err != nil {
		return err
	}
	tr, sentences, err := loadSource(run, StageMerge)
	if err != nil {
		return err
	}
	deleted := loadDeleted(run)
	rules, haveRules := loadOptionalEdits(run, workspace.RuleEditsFile)
	items, haveSuggestions := loadSuggestions(run)
	if !haveRules && !haveSuggestions {
		return noSource(workspace.RuleEditsFile, workspace.SuggestionsFile)
	}

	var external suggest.Outcome
	if haveSuggestions {
		external = suggest.Resolve(items, sentences, spanmap.New(run.Lexicon), run.Logger)
		run.Metrics.RecordUnmapped(ctx, len(external.Failures))
	}

	merged := consolidate.Merge(run.Logger, rules, external.Edits)
	all := append([]edit.Edit(nil), merged.Edits...)

	var corrections []edit.Edit
	if run.Config.SelfCorrection.Enabled {
		scanner := selfcorrect.New(selfcorrect.OptionsFromConfig(run.Config.SelfCorrection, run.Lexicon, run.Logger))
		corrections = scanner.Scan(sentences, all)
		all = append(all, corrections...)
	}

	var gaps []edit.Edit
	if run.Config.GapCleanup.Enabled {
		sentenceDeletes := segments.SentenceDeletions(deleted, sentences, run.Config.Segments.SentenceGroupGap)
		cleaner := gapclean.New(gapclean.OptionsFromConfig(run.Config, run.Logger))
		gaps = cleaner.Clean(tr, sentences, all, sentenceDeletes)
		all = append(all, gaps...)
	}

	doc := edit.NewDocument(all)
	doc.Edits = nonNil(doc.Edits)
	doc.Summary.Sources = &edit.Sources{
		Rules:               len(rules),
		External:            len(external.Edits),
		SelfCorrectionRules: len(corrections),
		AfterDedup:          len(merged.Edits),
		SilenceMerged:       len(gaps),
		MappingFailures:     len(external.Failures),
	}
	if err := run.writeJSON(workspace.EditsFile, doc); err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageMerge, "write edits", "", err)
	}
	run.Metrics.RecordEdits(ctx, StageMerge, categoryCounts(doc.Summary.ByType))
	run.Results.Merge = &doc.Summary
	run.Logger.Info("edits consolidated",
		logging.Int("rules", len(rules)),
		logging.Int("external", len(external.Edits)),
		logging.Int("unmapped", len(external.Failures)),
		logging.Int("replaced", merged.Replaced),
		logging.Int("rejected", merged.Rejected),
		logging.Int("self_corrections", len(corrections)),
		logging.Int("silence_merged", len(gaps)),
		logging.Int("total", doc.Summary.TotalEdits),
	)
	return nil
}

// SegmentsStage turns edits.json and the upstream sentence deletions into
// delete_segments.json.
type SegmentsStage struct{}

func (SegmentsStage) Name() string { return StageSegments }

func (SegmentsStage) Run(_ context.Context, run *Run) error {
	if err := run.Workspace.Require(StageSegments, workspace.WordsFile, workspace.SentencesFile, workspace.EditsFile); err != nil {
		return err
	}
	tr, sentences, err := loadSource(run, StageSegments)
	if err != nil {
		return err
	}
	deleted := loadDeleted(run)
	edits, err := loadEdits(run, StageSegments, workspace.EditsFile)
	if err != nil {
		return err
	}

	sentenceDeletes := segments.SentenceDeletions(deleted, sentences, run.Config.Segments.SentenceGroupGap)
	segs := segments.Build(edits, sentenceDeletes, tr, segments.OptionsFromConfig(run.Config.Segments))
	data, err := segments.Save(run.Workspace.Path(workspace.SegmentsFile), segs)
	if err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageSegments, "write segments", "", err)
	}
	run.record(workspace.SegmentsFile, data)

	stats := segments.Summarize(segs)
	run.Results.Segments = &stats
	run.Logger.Info("deletion segments written",
		logging.Int("edits", len(edits)),
		logging.Int("sentence_deletions", len(deleted)),
		logging.Int("segments", stats.Segments),
		logging.String("deleted", stats.DeletedClock),
	)
	return nil
}

// AuditStage checks the deletion segments against reviewer feedback and
// writes audit_report.json. Unacknowledged issues end the run with
// runctx.ErrAuditFailed after the report is written.
type AuditStage struct{}

func (AuditStage) Name() string { return StageAudit }

func (AuditStage) Run(ctx context.Context, run *Run) error {
	if err := run.Workspace.Require(StageAudit, workspace.WordsFile, workspace.SentencesFile, workspace.SegmentsFile); err != nil {
		return err
	}
	tr, sentences, err := loadSource(run, StageAudit)
	if err != nil {
		return err
	}
	segs, err := loadSegments(run, StageAudit)
	if err != nil {
		return err
	}
	edits, _ := loadOptionalEdits(run, workspace.EditsFile)
	fb := loadFeedback(run)

	engine := audit.New(audit.OptionsFromConfig(run.Config.Audit, run.Lexicon, run.Logger))
	report := engine.Run(audit.Input{
		Workspace:  run.Workspace.Dir(),
		Transcript: tr,
		Sentences:  sentences,
		Segments:   segs,
		Edits:      edits,
		Feedback:   fb,
	})
	if err := run.writeJSON(workspace.AuditReportFile, report); err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageAudit, "write audit report", "", err)
	}
	for _, is := range report.Issues() {
		run.Metrics.RecordIssue(ctx, is.Type, string(is.Severity), is.Acknowledged)
	}
	run.Results.Audit = &report
	if !report.Passed {
		return runctx.Wrap(runctx.ErrAuditFailed, StageAudit, "evaluate segments", report.Summary, nil)
	}
	return nil
}

// ReviewStage aligns a re-transcription of the rendered audio against the
// expected kept words and writes review_report.json. With Optional set a
// missing or unreadable re-transcription skips the stage.
type ReviewStage struct {
	Optional bool
}

func (ReviewStage) Name() string { return StageReview }

func (s ReviewStage) Run(ctx context.Context, run *Run) error {
	ws := run.Workspace
	if s.Optional && !ws.Has(workspace.RetranscriptFile) {
		run.skip(StageReview, "no "+workspace.RetranscriptFile)
		return nil
	}
	if err := ws.Require(StageReview, workspace.WordsFile, workspace.SegmentsFile, workspace.RetranscriptFile); err != nil {
		return err
	}
	tr, err := loadTranscript(run, StageReview)
	if err != nil {
		return err
	}
	segs, err := loadSegments(run, StageReview)
	if err != nil {
		return err
	}
	actual, err := transcript.LoadWords(ws.Path(workspace.RetranscriptFile))
	if err != nil {
		if s.Optional {
			run.ignore(workspace.RetranscriptFile, "semantic review skipped", err)
			run.skip(StageReview, "unreadable "+workspace.RetranscriptFile)
			return nil
		}
		return inputError(StageReview, "load re-transcription", workspace.RetranscriptFile, err)
	}

	report := semantic.Review(actual, tr.Words(), segs,
		semantic.OptionsFromConfig(run.Config.Semantic, run.Lexicon, run.Logger))
	if err := run.writeJSON(workspace.ReviewReportFile, report); err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageReview, "write review report", "", err)
	}
	for _, group := range [][]semantic.Finding{report.Checks.MissingContent, report.Checks.ResidualFillers, report.Checks.ResidualStutters} {
		for _, f := range group {
			run.Metrics.RecordIssue(ctx, f.Type, string(f.Severity), false)
		}
	}
	run.Results.Review = &report
	return nil
}

// FixStage applies the mechanical audit fixes to delete_segments.json. The
// first fix keeps a backup of the original segments. DryRun reports the
// changes without writing.
type FixStage struct {
	DryRun bool
}

func (FixStage) Name() string { return StageFix }

func (s FixStage) Run(_ context.Context, run *Run) error {
	ws := run.Workspace
	if err := ws.Require(StageFix, workspace.SegmentsFile, workspace.AuditReportFile); err != nil {
		return err
	}
	segs, err := loadSegments(run, StageFix)
	if err != nil {
		return err
	}
	report, err := audit.LoadReport(ws.Path(workspace.AuditReportFile))
	if err != nil {
		return inputError(StageFix, "load audit report", workspace.AuditReportFile, err)
	}

	res := repair.Apply(segs, report)
	run.Results.Fix = &res
	for _, c := range res.Changes {
		run.Logger.Debug("segment change", logging.String("change", c.String()))
	}
	attrs := []logging.Attr{
		logging.Int("removed", res.Removed),
		logging.Int("extended", res.Extended),
		logging.Int("inserted", res.Inserted),
		logging.Int("manual", res.Manual),
		logging.Bool("dry_run", s.DryRun),
	}
	if !res.Changed() || s.DryRun {
		run.Logger.Info("segments left unchanged", logging.Args(attrs...)...)
		return nil
	}

	copied, err := ws.Backup(workspace.SegmentsFile, workspace.SegmentsBackupFile)
	if err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageFix, "backup segments", "", err)
	}
	if copied {
		run.Logger.Info("segment backup written", logging.String("file", workspace.SegmentsBackupFile))
	}
	data, err := segments.Save(ws.Path(workspace.SegmentsFile), res.Segments)
	if err != nil {
		return runctx.Wrap(runctx.ErrStorage, StageFix, "write segments", "", err)
	}
	run.record(workspace.SegmentsFile, data)
	run.Logger.Info("segments repaired", logging.Args(attrs...)...)
	if res.Manual > 0 {
		logging.WarnWithContext(run.Logger, "audit issues need manual attention", "manual_fix_required",
			logging.Int("count", res.Manual),
			logging.String(logging.FieldImpact, fmt.Sprintf("%d manual deletion(s) still open", res.Manual)),
		)
	}
	return nil
}

func nonNil(edits []edit.Edit) []edit.Edit {
	if edits == nil {
		return []edit.Edit{}
	}
	return edits
}
