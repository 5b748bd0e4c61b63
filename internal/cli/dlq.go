package cli

import (
	"fmt"
	"slices"

	"carta/internal/worker"

	"github.com/spf13/cobra"
)

// NewDLQCommand groups the dead letter queue tools.
func NewDLQCommand(root *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dlq",
		Short: "Inspect and requeue failed background jobs",
	}
	cmd.AddCommand(newDLQStatsCommand(root), newDLQRequeueCommand(root))
	return cmd
}

func newDLQStatsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the length of every dead letter queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			rdb, err := root.openRedis()
			if err != nil {
				return err
			}
			defer rdb.Close()
			for _, q := range worker.Queues {
				n, err := worker.DLQLength(cmd.Context(), rdb, q)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", q, n)
			}
			return nil
		},
	}
}

func newDLQRequeueCommand(root *RootOptions) *cobra.Command {
	var max int
	cmd := &cobra.Command{
		Use:   "requeue <queue>",
		Short: "Move failed jobs back onto their queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queue := args[0]
			if !slices.Contains(worker.Queues, queue) {
				return fmt.Errorf("unknown queue %q: must be one of %v", queue, worker.Queues)
			}
			rdb, err := root.openRedis()
			if err != nil {
				return err
			}
			defer rdb.Close()
			n, err := worker.RequeueDLQ(cmd.Context(), rdb, queue, max)
			fmt.Fprintf(cmd.OutOrStdout(), "requeued %d job(s) on %s\n", n, queue)
			return err
		},
	}
	cmd.Flags().IntVarP(&max, "max", "n", 100, "maximum number of jobs to move")
	return cmd
}
