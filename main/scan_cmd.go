package main

import (
	"fmt"
	"io"

	"github.com/ryogrid/SamehadaScan/common"
	"github.com/ryogrid/SamehadaScan/execution/iterators"
	"github.com/ryogrid/SamehadaScan/samehada"
	"github.com/ryogrid/SamehadaScan/testing/testing_tbl_gen"
	"github.com/ryogrid/SamehadaScan/types"
	"github.com/spf13/cobra"
)

var heapCmd = &cobra.Command{
	Use:   "heap",
	Short: "Scans the heap file of the table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd.OutOrStdout(), func(table *samehada.Table) (iterators.Iterator, error) {
			return iterators.NewHeapScan(table.GetSchema(), table.GetTableHeap())
		})
	},
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Scans every bucket of the hash index on colB",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd.OutOrStdout(), func(table *samehada.Table) (iterators.Iterator, error) {
			return iterators.NewIndexScan(table.GetSchema(), table.GetIndexByColumnName("colB"), table.GetTableHeap())
		})
	},
}

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Scans the rows whose colB equals --key through the hash index",
	RunE: func(cmd *cobra.Command, args []string) error {
		key := types.NewSearchKey(types.NewInteger(keyValue))
		return runScan(cmd.OutOrStdout(), func(table *samehada.Table) (iterators.Iterator, error) {
			return iterators.NewKeyScan(table.GetSchema(), table.GetIndexByColumnName("colB"), key, table.GetTableHeap())
		})
	},
}

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "Dumps (bucket, RID) pairs of the hash index on colB",
	RunE: func(cmd *cobra.Command, args []string) error {
		shi, table, err := setupTable()
		if err != nil {
			return err
		}
		defer shi.Shutdown(true)

		entries, err := table.GetIndexByColumnName("colB").Entries()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, entry := range entries {
			fmt.Fprintf(out, "bucket=%d rid=%v\n", entry.First, entry.Second)
		}
		return nil
	},
}

func init() {
	keyCmd.Flags().Int32Var(&keyValue, "key", 0, "colB value to look up")
	rootCmd.AddCommand(heapCmd, indexCmd, keyCmd, entriesCmd)
}

func setupTable() (*samehada.SamehadaInstance, *samehada.Table, error) {
	common.EnableOnMemStorage = true
	shi, err := samehada.NewSamehadaInstance("samehada-scan", common.BufferPoolMaxFrameNumForTest)
	if err != nil {
		return nil, nil, err
	}
	table, _, err := testing_tbl_gen.GenerateTestTable(shi, numRows)
	if err != nil {
		shi.Shutdown(true)
		return nil, nil, err
	}
	return shi, table, nil
}

func runScan(out io.Writer, open func(*samehada.Table) (iterators.Iterator, error)) error {
	shi, table, err := setupTable()
	if err != nil {
		return err
	}
	defer shi.Shutdown(true)

	it, err := open(table)
	if err != nil {
		return err
	}
	return iterators.WithScan(it, func(it iterators.Iterator) error {
		it.Explain(out, 0)
		if explainOnly {
			return nil
		}

		cnt := 0
		for it.HasNext() {
			tuple_, err := it.GetNext()
			if err != nil {
				return err
			}
			// index scans return identity only tuples
			if !tuple_.IsMaterialized() {
				if tuple_, err = tuple_.Resolve(table.GetTableHeap()); err != nil {
					return err
				}
			}
			fmt.Fprintf(out, "%v %v\n", *tuple_.GetRID(), tuple_)
			cnt++
		}
		fmt.Fprintf(out, "%d rows\n", cnt)
		return nil
	})
}

