package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"podcut/internal/pipeline"
)

func newStageCommands(ctx *commandContext) []*cobra.Command {
	var force bool
	sentences := newStageCommand(ctx, pipeline.StageSentences,
		"Build sentences.txt from words.json",
		func() pipeline.Stage { return pipeline.SentencesStage{Force: force} })
	sentences.Flags().BoolVar(&force, "force", false, "Rebuild the sentence index even if one exists")

	return []*cobra.Command{
		sentences,
		newStageCommand(ctx, pipeline.StageDetect,
			"Detect silences, stutters and restarts into edits_rules.json",
			func() pipeline.Stage { return pipeline.DetectStage{} }),
		newStageCommand(ctx, pipeline.StageMerge,
			"Consolidate rule edits and suggestions into edits.json",
			func() pipeline.Stage { return pipeline.MergeStage{} }),
		newStageCommand(ctx, pipeline.StageSegments,
			"Turn edits.json into delete_segments.json",
			func() pipeline.Stage { return pipeline.SegmentsStage{} }),
		newStageCommand(ctx, pipeline.StageAudit,
			"Audit delete_segments.json against reviewer feedback",
			func() pipeline.Stage { return pipeline.AuditStage{} }),
		newStageCommand(ctx, pipeline.StageReview,
			"Compare a re-transcription of the cut audio with the expected words",
			func() pipeline.Stage { return pipeline.ReviewStage{} }),
	}
}

func newStageCommand(ctx *commandContext, name, short string, build func() pipeline.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   name + " DIR",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.execute(cmd, args[0], []pipeline.Stage{build()})
		},
	}
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "run DIR",
		Short: "Run the pipeline stages in order",
		Long: fmt.Sprintf("Run the stages %s in order. The review stage is skipped when no re-transcription exists.",
			strings.Join(pipeline.Names(pipeline.Sequence()), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stages, err := pipeline.Select(pipeline.Sequence(), from, to)
			if err != nil {
				return err
			}
			return ctx.execute(cmd, args[0], stages)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "First stage to run")
	cmd.Flags().StringVar(&to, "to", "", "Last stage to run")
	return cmd
}

func newFixCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix DIR",
		Short: "Apply the mechanical audit fixes to delete_segments.json",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.execute(cmd, args[0], []pipeline.Stage{pipeline.FixStage{DryRun: dryRun}})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report the changes without writing")
	return cmd
}
