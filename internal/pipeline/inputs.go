package pipeline

import (
	"fmt"

	"podcut/internal/edit"
	"podcut/internal/feedback"
	"podcut/internal/fileutil"
	"podcut/internal/interval"
	"podcut/internal/logging"
	"podcut/internal/runctx"
	"podcut/internal/segments"
	"podcut/internal/suggest"
	"podcut/internal/transcript"
	"podcut/internal/workspace"
)

func loadTranscript(run *Run, stage string) (*transcript.Transcript, error) {
	words, err := transcript.LoadWords(run.Workspace.Path(workspace.WordsFile))
	if err != nil {
		return nil, inputError(stage, "load transcript", workspace.WordsFile, err)
	}
	return transcript.New(words), nil
}

// loadSentences reads the sentence index and attaches it to tr.
func loadSentences(run *Run, stage string, tr *transcript.Transcript) ([]transcript.Sentence, error) {
	parsed, err := transcript.LoadSentenceIndex(run.Workspace.Path(workspace.SentencesFile))
	if err != nil {
		return nil, inputError(stage, "load sentences", workspace.SentencesFile, err)
	}
	sentences, err := transcript.Attach(tr, parsed)
	if err != nil {
		return nil, runctx.Wrap(runctx.ErrValidation, stage, "attach sentences",
			"sentence index does not match words.json", err)
	}
	return sentences, nil
}

func loadSource(run *Run, stage string) (*transcript.Transcript, []transcript.Sentence, error) {
	tr, err := loadTranscript(run, stage)
	if err != nil {
		return nil, nil, err
	}
	sentences, err := loadSentences(run, stage, tr)
	if err != nil {
		return nil, nil, err
	}
	return tr, sentences, nil
}

// loadDeleted returns the sentences deleted upstream. The decision file is
// optional; an unreadable one counts as no upstream deletions.
func loadDeleted(run *Run) []int {
	if !run.Workspace.Has(workspace.DecisionsFile) {
		run.Logger.Info("no sentence decisions; nothing deleted upstream",
			logging.String("file", workspace.DecisionsFile))
		return nil
	}
	decisions, err := transcript.LoadDecisions(run.Workspace.Path(workspace.DecisionsFile))
	if err != nil {
		run.ignore(workspace.DecisionsFile, "no upstream sentence deletions applied", err)
		return nil
	}
	return decisions.Deleted()
}

func loadEdits(run *Run, stage, name string) ([]edit.Edit, error) {
	doc, err := edit.LoadDocument(run.Workspace.Path(name))
	if err != nil {
		return nil, inputError(stage, "load edits", name, err)
	}
	return doc.Edits, nil
}

// loadOptionalEdits reports false when the edit file is absent or
// unreadable.
func loadOptionalEdits(run *Run, name string) ([]edit.Edit, bool) {
	if !run.Workspace.Has(name) {
		run.Logger.Info("optional edit source absent", logging.String("file", name))
		return nil, false
	}
	doc, err := edit.LoadDocument(run.Workspace.Path(name))
	if err != nil {
		run.ignore(name, "edit source skipped", err)
		return nil, false
	}
	return doc.Edits, true
}

// loadSuggestions reports false when suggestions.json is absent or
// unreadable.
func loadSuggestions(run *Run) ([]suggest.Item, bool) {
	if !run.Workspace.Has(workspace.SuggestionsFile) {
		run.Logger.Info("no external suggestions", logging.String("file", workspace.SuggestionsFile))
		return nil, false
	}
	items, err := suggest.Load(run.Workspace.Path(workspace.SuggestionsFile))
	if err != nil {
		run.ignore(workspace.SuggestionsFile, "external suggestions skipped", err)
		return nil, false
	}
	return items, true
}

func loadSegments(run *Run, stage string) ([]interval.Interval, error) {
	segs, err := segments.Load(run.Workspace.Path(workspace.SegmentsFile))
	if err != nil {
		return nil, inputError(stage, "load segments", workspace.SegmentsFile, err)
	}
	return segs, nil
}

// loadFeedback returns nil when no readable reviewer feedback exists.
func loadFeedback(run *Run) *feedback.Feedback {
	if !run.Workspace.Has(workspace.FeedbackFile) {
		run.Logger.Info("no reviewer feedback", logging.String("file", workspace.FeedbackFile))
		return nil
	}
	fb, err := feedback.Load(run.Workspace.Path(workspace.FeedbackFile))
	if err != nil {
		run.ignore(workspace.FeedbackFile, "audit runs without reviewer corrections", err)
		return nil
	}
	return fb
}

// ignore records an optional input that could not be read. The stage goes
// on without it.
func (r *Run) ignore(name, impact string, err error) {
	r.Results.Ignored = append(r.Results.Ignored, name)
	logging.WarnWithContext(r.Logger, "optional input unreadable", "optional_input_invalid",
		logging.String("file", name),
		logging.Error(err),
		logging.String(logging.FieldImpact, impact),
	)
}

// noSource is returned by merge when every edit source present is unreadable.
func noSource(names ...string) error {
	return runctx.Wrap(runctx.ErrValidation, StageMerge, "load edit sources",
		fmt.Sprintf("no readable edit source among %v", names), nil)
}

// inputError classifies a load failure: absent files are missing inputs,
// anything else is invalid data.
func inputError(stage, operation, name string, err error) error {
	if fileutil.IsNotExist(err) {
		return runctx.Wrap(runctx.ErrMissingInput, stage, operation, "missing "+name, err)
	}
	return runctx.Wrap(runctx.ErrValidation, stage, operation, "invalid "+name, err)
}
