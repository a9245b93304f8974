package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"github.com/vippsas/chunkfmt/sql"
	"github.com/vippsas/chunkfmt/sql/sqltoken"
	"github.com/vippsas/chunkfmt/writer"
)

var (
	dumpReprChunks bool
	dumpNoPreempt  bool
)

var dumpCostCmd = &cobra.Command{
	Use:   "dump-cost <file>",
	Short: "print the chosen split cost for one file, for debugging",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := resolveOptions()
		if err != nil {
			return err
		}
		if opts.PageWidth == 0 {
			opts.PageWidth = sql.DefaultPageWidth
		}
		if dumpNoPreempt {
			opts.DisablePreemption = true
		}

		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}

		chunks, errs := sql.Build(string(src), sqltoken.FileRef(args[0]))
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e.Error())
		}
		if len(errs) > 0 {
			return fmt.Errorf("dump-cost: %d scan error(s)", len(errs))
		}

		if dumpReprChunks {
			repr.Println(chunks)
		}

		// Route through writer.LineWriter, the only place preemption (and
		// --no-preempt) actually applies — calling split.New directly here
		// would silently ignore opts.DisablePreemption.
		w := writer.New(opts.PageWidth)
		w.DisablePreemption = opts.DisablePreemption
		_, cost := w.Format(chunks, 0)
		fmt.Printf("cost: %d\n", cost)
		return nil
	},
}

func init() {
	dumpCostCmd.Flags().BoolVar(&dumpReprChunks, "repr", false, "pretty-print the chunk tree before the cost")
	dumpCostCmd.Flags().BoolVar(&dumpNoPreempt, "no-preempt", false, "force full search, ignoring the rule-preemption threshold")
	rootCmd.AddCommand(dumpCostCmd)
}
