package consolidate

import (
	"log/slog"
	"sort"

	"podcut/internal/edit"
	"podcut/internal/interval"
	"podcut/internal/logging"
)

// Result is the consolidated edit list with decision counts.
type Result struct {
	Edits    []edit.Edit
	Inserted int
	Replaced int
	Rejected int
}

// Merge consolidates the edit streams. The inputs are not modified.
func Merge(logger *slog.Logger, streams ...[]edit.Edit) Result {
	logger = logging.NewComponentLogger(logger, "consolidate")

	var all []edit.Edit
	for _, stream := range streams {
		all = append(all, stream...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].DeleteStart != all[j].DeleteStart {
			return all[i].DeleteStart < all[j].DeleteStart
		}
		return Better(all[i], all[j])
	})

	set := NewEditSet()
	var res Result
	for _, candidate := range all {
		outcome, displaced := set.InsertOrReplace(candidate)
		switch outcome {
		case interval.Inserted:
			res.Inserted++
		case interval.Replaced:
			res.Replaced += len(displaced)
		case interval.Rejected:
			res.Rejected++
		}
		if outcome != interval.Inserted {
			logger.Debug("edit conflict settled",
				logging.Args(append(logging.DecisionAttrs("edit_merge", outcome.String(), "longer edit wins"),
					logging.Int(logging.FieldSentence, candidate.SentenceIndex),
					logging.String("type", string(candidate.Type)),
					logging.Seconds("start", candidate.DeleteStart),
					logging.Seconds("end", candidate.DeleteEnd),
					logging.Int("displaced", len(displaced)),
				)...)...,
			)
		}
	}

	res.Edits = set.Items()
	edit.SortByStart(res.Edits)
	logger.Info("edits consolidated",
		logging.Int("candidates", len(all)),
		logging.Int("kept", len(res.Edits)),
		logging.Int("replaced", res.Replaced),
		logging.Int("rejected", res.Rejected),
	)
	return res
}

// NewEditSet returns an empty set that keeps at most one edit per overlapping
// time range of a sentence.
func NewEditSet() *interval.Set[edit.Edit] {
	return interval.NewSet(interval.SetOptions[edit.Edit]{
		Span:      edit.Edit.Span,
		Conflicts: sameSentence,
		Better:    Better,
	})
}

func sameSentence(a, b edit.Edit) bool {
	return a.SentenceIndex == b.SentenceIndex
}

// Better reports whether a should survive a conflict with b.
func Better(a, b edit.Edit) bool {
	if da, db := a.Duration(), b.Duration(); da != db {
		return da > db
	}
	if ra, rb := a.Source.Rank(), b.Source.Rank(); ra != rb {
		return ra < rb
	}
	return a.DeleteStart < b.DeleteStart
}
