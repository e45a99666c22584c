package semantic_test

import (
	"testing"
	"time"

	"podcut/internal/audit"
	"podcut/internal/config"
	"podcut/internal/interval"
	"podcut/internal/semantic"
	"podcut/internal/testsupport"
	"podcut/internal/transcript"
)

func review(actual, original []transcript.Word, segs []interval.Interval) semantic.Report {
	opts := semantic.OptionsFromConfig(config.Default().Semantic, nil, nil)
	opts.Now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return semantic.Review(actual, original, segs, opts)
}

func words(texts ...string) []transcript.Word {
	return testsupport.NewTranscript().Say(texts...).Words()
}

func TestIdenticalSequencesMatchFully(t *testing.T) {
	original := words("今天", "我们", "聊聊", "播客", "剪辑")
	report := review(words("今天", "我们", "聊聊", "播客", "剪辑"), original, nil)
	if report.Stats.Matched != 5 || report.Stats.Missing != 0 {
		t.Fatalf("unexpected stats %+v", report.Stats)
	}
	if len(report.Checks.MissingContent) != 0 {
		t.Fatalf("expected no missing content, got %+v", report.Checks.MissingContent)
	}
}

func TestMissingRunReported(t *testing.T) {
	tests := []struct {
		name     string
		extra    []string
		wantText string
		wantSev  audit.Severity
	}{
		{name: "short run", extra: []string{"甲", "乙", "丙", "丁", "戊"}, wantText: "甲乙丙丁戊", wantSev: audit.SeverityLow},
		{name: "long run", extra: []string{"这一段", "内容", "在渲染", "的时候", "丢掉了"}, wantText: "这一段内容在渲染的时候丢掉了", wantSev: audit.SeverityHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texts := append([]string{"今天", "我们"}, tt.extra...)
			texts = append(texts, "聊聊", "剪辑", "吧")
			original := words(texts...)
			actual := words("今天", "我们", "聊聊", "剪辑", "吧")

			report := review(actual, original, nil)
			if report.Stats.Matched != 5 || report.Stats.Missing != 5 {
				t.Fatalf("unexpected stats %+v", report.Stats)
			}
			missing := report.Checks.MissingContent
			if len(missing) != 1 {
				t.Fatalf("expected one missing run, got %+v", missing)
			}
			if missing[0].Text != tt.wantText || missing[0].WordCount != 5 || missing[0].Severity != tt.wantSev {
				t.Fatalf("unexpected finding %+v", missing[0])
			}
			if missing[0].Range == nil || missing[0].Range.Start != 0.5 || missing[0].Range.End != 1.75 {
				t.Fatalf("unexpected range %v", missing[0].Range)
			}
		})
	}
}

func TestMissingRunsNeedThreeCloseWords(t *testing.T) {
	original := testsupport.NewTranscript().
		Say("开始", "甲", "乙").
		Pause(1.5).
		Say("丙", "丁", "结束").
		Words()
	actual := words("开始", "结束")
	report := review(actual, original, nil)
	if report.Stats.Missing != 4 {
		t.Fatalf("expected 4 missing words, got %+v", report.Stats)
	}
	if len(report.Checks.MissingContent) != 0 {
		t.Fatalf("runs split by a long pause should not be reported: %+v", report.Checks.MissingContent)
	}
}

func TestDeletedWordsAreNotExpected(t *testing.T) {
	original := words("今天", "嗯", "嗯", "嗯", "我们", "聊聊")
	segs := []interval.Interval{{Start: 0.25, End: 1.0}}
	report := review(words("今天", "我们", "聊聊"), original, segs)
	if report.Stats.Original != 6 || report.Stats.Expected != 3 || report.Stats.Missing != 0 {
		t.Fatalf("unexpected stats %+v", report.Stats)
	}
	if report.Summary.TotalIssues != 0 {
		t.Fatalf("expected a clean report, got %+v", report.Summary)
	}
}

func TestResidualFillersAndStutters(t *testing.T) {
	actual := testsupport.NewTranscript().
		Say("我", "我", "觉得", "嗯", "奶奶", "奶奶", "好").
		Say("对").
		Pause(0.6).
		Say("对").
		Words()
	report := review(actual, actual, nil)

	fillers := report.Checks.ResidualFillers
	if len(fillers) != 3 {
		t.Fatalf("expected 嗯 and both 对 as fillers, got %+v", fillers)
	}
	if fillers[0].Text != "嗯" || fillers[0].Context != "觉得[嗯]奶奶" {
		t.Fatalf("unexpected filler %+v", fillers[0])
	}

	stutters := report.Checks.ResidualStutters
	if len(stutters) != 1 {
		t.Fatalf("expected only 我我, got %+v", stutters)
	}
	if stutters[0].Text != "我我" || stutters[0].Time != 0 || stutters[0].Severity != audit.SeverityMedium {
		t.Fatalf("unexpected stutter %+v", stutters[0])
	}
	if report.Summary.BySeverity[audit.SeverityMedium] != 4 || report.Summary.TotalIssues != 4 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
}

func TestGapAndSpeakerMarkersIgnored(t *testing.T) {
	original := testsupport.NewTranscript().
		Speaker("A").Say("你好").Gap(1.0).Say("世界").
		Words()
	actual := words("你好", "世界")
	report := review(actual, original, nil)
	if report.Stats.Original != 2 || report.Stats.Matched != 2 {
		t.Fatalf("unexpected stats %+v", report.Stats)
	}
}
