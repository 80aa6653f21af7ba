package main

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/JGaukrogers/parkapi-sources-v3/internal/converter"
	"github.com/JGaukrogers/parkapi-sources-v3/internal/registry"
)

// sourceOutput is the JSON document emitted per converted source.
type sourceOutput struct {
	RunID     string                    `json:"run_id"`
	SourceUID string                    `json:"source_uid"`
	Static    *converter.StaticResult   `json:"static,omitempty"`
	Realtime  *converter.RealtimeResult `json:"realtime,omitempty"`
	Error     string                    `json:"error,omitempty"`
}

var convertCmd = &cobra.Command{
	Use:   "convert [source-uid]",
	Short: "Fetch and convert one pull source, or all with --all",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		all, _ := cmd.Flags().GetBool("all")
		withRealtime, _ := cmd.Flags().GetBool("realtime")
		parallel, _ := cmd.Flags().GetInt("parallel")

		if all == (len(args) == 1) {
			return eris.New("convert: pass exactly one source uid, or --all")
		}

		client := newClient()
		reg := registry.New(cfg, client)
		runner := converter.NewRunner(cfg, client)
		runID := uuid.NewString()

		uids := args
		if all {
			uids = reg.PullUIDs()
		}

		outputs := make([]sourceOutput, len(uids))
		var mu sync.Mutex

		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(parallel)
		for i, uid := range uids {
			i, uid := i, uid
			g.Go(func() error {
				out := convertOne(ctx, reg, runner, runID, uid, withRealtime)
				mu.Lock()
				outputs[i] = out
				mu.Unlock()
				if !all && out.Error != "" {
					return eris.New(out.Error)
				}
				return nil
			})
		}
		err := g.Wait()

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		for _, out := range outputs {
			if encodeErr := enc.Encode(out); encodeErr != nil {
				return eris.Wrap(encodeErr, "convert: encode output")
			}
		}
		return err
	},
}

func convertOne(ctx context.Context, reg *registry.Registry, runner *converter.Runner, runID, uid string, withRealtime bool) sourceOutput {
	out := sourceOutput{RunID: runID, SourceUID: uid}

	conv, err := reg.Pull(uid)
	if err != nil {
		out.Error = err.Error()
		return out
	}

	static, err := runner.RunStatic(ctx, conv)
	if err != nil {
		zap.L().Error("static conversion failed", zap.String("source", uid), zap.Error(err))
		out.Error = err.Error()
		return out
	}
	out.Static = static

	if withRealtime && conv.Info().HasRealtimeData {
		rt, ok := conv.(converter.RealtimePullConverter)
		if !ok {
			out.Error = "source advertises realtime data but has no realtime converter"
			return out
		}
		realtime, err := runner.RunRealtime(ctx, rt)
		if err != nil {
			zap.L().Error("realtime conversion failed", zap.String("source", uid), zap.Error(err))
			out.Error = err.Error()
			return out
		}
		out.Realtime = realtime
	}
	return out
}

func init() {
	convertCmd.Flags().Bool("all", false, "convert every pull source")
	convertCmd.Flags().Bool("realtime", false, "also fetch realtime data where available")
	convertCmd.Flags().Int("parallel", 4, "maximum sources converted concurrently")
	rootCmd.AddCommand(convertCmd)
}
