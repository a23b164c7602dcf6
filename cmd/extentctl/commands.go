package main

import (
	"fmt"

	extent "github.com/gofs/ext4extent"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var opByName = map[string]extent.Op{
	"current":       extent.OpCurrent,
	"root":          extent.OpRoot,
	"first-sib":     extent.OpFirstSib,
	"last-sib":      extent.OpLastSib,
	"next-sib":      extent.OpNextSib,
	"prev-sib":      extent.OpPrevSib,
	"up":            extent.OpUp,
	"down":          extent.OpDown,
	"down-and-last": extent.OpDownAndLast,
	"next":          extent.OpNext,
	"prev":          extent.OpPrev,
	"next-leaf":     extent.OpNextLeaf,
	"prev-leaf":     extent.OpPrevLeaf,
	"last-leaf":     extent.OpLastLeaf,
}

func openLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

func printExtent(e extent.Extent) {
	fmt.Printf("lblk=%d pblk=%d len=%d leaf=%v uninit=%v second_visit=%v\n",
		e.ELblk, e.EPblk, e.ELen, e.IsLeaf(), e.IsUninit(), e.IsSecondVisit())
}

func openDemoHandle(twoLevel, verbose bool) (*extent.Handle, error) {
	img, err := buildDemoImage(twoLevel)
	if err != nil {
		return nil, err
	}
	return extent.Open(img, demoInode, extent.WithLogger(openLogger(verbose)))
}

func newDemoCommand() *cobra.Command {
	var twoLevel, verbose bool
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Build an in-memory extent tree and print it via NEXT_LEAF",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openDemoHandle(twoLevel, verbose)
			if err != nil {
				return err
			}
			defer h.Free()

			e, err := h.Get(extent.OpRoot)
			if err != nil {
				return err
			}
			printExtent(e)
			for {
				e, err = h.Get(extent.OpNextLeaf)
				if err != nil {
					fmt.Println(err)
					return nil
				}
				printExtent(e)
			}
		},
	}
	cmd.Flags().BoolVar(&twoLevel, "two-level", false, "build a depth-1 tree instead of a single leaf")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace traversal steps")
	return cmd
}

func newGetCommand() *cobra.Command {
	var opName string
	var twoLevel, verbose bool
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Run a single cursor operation against the demo tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			op, ok := opByName[opName]
			if !ok {
				return fmt.Errorf("unknown op %q", opName)
			}
			h, err := openDemoHandle(twoLevel, verbose)
			if err != nil {
				return err
			}
			defer h.Free()

			if op != extent.OpRoot {
				if _, err := h.Get(extent.OpRoot); err != nil {
					return err
				}
			}
			e, err := h.Get(op)
			if err != nil {
				return err
			}
			printExtent(e)
			return nil
		},
	}
	cmd.Flags().StringVar(&opName, "op", "root", "cursor operation to run")
	cmd.Flags().BoolVar(&twoLevel, "two-level", false, "build a depth-1 tree instead of a single leaf")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace traversal steps")
	return cmd
}

func newGotoCommand() *cobra.Command {
	var lblk uint64
	var twoLevel, verbose bool
	cmd := &cobra.Command{
		Use:   "goto",
		Short: "Seek to a logical block in the demo tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openDemoHandle(twoLevel, verbose)
			if err != nil {
				return err
			}
			defer h.Free()

			gotoErr := h.Goto(lblk)
			e, err := h.Get(extent.OpCurrent)
			if err != nil {
				return err
			}
			printExtent(e)
			if gotoErr != nil {
				return gotoErr
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&lblk, "lblk", 0, "logical block to seek to")
	cmd.Flags().BoolVar(&twoLevel, "two-level", false, "build a depth-1 tree instead of a single leaf")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace traversal steps")
	return cmd
}

func newInfoCommand() *cobra.Command {
	var twoLevel bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Report cursor geometry for the demo tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openDemoHandle(twoLevel, false)
			if err != nil {
				return err
			}
			defer h.Free()

			if _, err := h.Get(extent.OpRoot); err != nil {
				return err
			}
			info := h.GetInfo()
			fmt.Printf("entry=%d/%d bytes_avail=%d level=%d/%d max_lblk=%d max_pblk=%d max_len=%d max_uninit_len=%d\n",
				info.CurrEntry, info.NumEntries, info.BytesAvail, info.CurrLevel, info.MaxDepth,
				info.MaxLblk, info.MaxPblk, info.MaxLen, info.MaxUninitLen)
			return nil
		},
	}
	cmd.Flags().BoolVar(&twoLevel, "two-level", false, "build a depth-1 tree instead of a single leaf")
	return cmd
}

func newWalkCommand() *cobra.Command {
	var twoLevel, reverse, verbose bool
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Walk every leaf in the demo tree, forward or in reverse",
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := openDemoHandle(twoLevel, verbose)
			if err != nil {
				return err
			}
			defer h.Free()

			startOp, stepOp := extent.OpRoot, extent.OpNextLeaf
			if reverse {
				startOp, stepOp = extent.OpLastLeaf, extent.OpPrevLeaf
			}

			e, err := h.Get(startOp)
			if err != nil {
				return err
			}
			if e.IsLeaf() {
				printExtent(e)
			}
			for {
				e, err = h.Get(stepOp)
				if err != nil {
					return nil
				}
				printExtent(e)
			}
		},
	}
	cmd.Flags().BoolVar(&twoLevel, "two-level", false, "build a depth-1 tree instead of a single leaf")
	cmd.Flags().BoolVar(&reverse, "reverse", false, "walk from LAST_LEAF backward with PREV_LEAF")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "trace traversal steps")
	return cmd
}
