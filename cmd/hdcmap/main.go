// Command hdcmap inspects and creates binary mapper (.bcmap) files:
// dump a file's contents, verify that it loads and re-encodes without
// error (the re-encoded bytes are not read back or compared), or create a
// new empty one at a given dimension.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/axonforge/hdkernel/mapper"
	"github.com/axonforge/hdkernel/tensor"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "hdcmap",
		Short: "Inspect and create binary mapper (.bcmap) files",
	}
	root.AddCommand(dumpCmd(), verifyCmd(), newCmd())
	return root
}

func dumpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dump FILE",
		Short: "Print a bcmap file's header, symbol tokens, and reflex ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := mapper.Load(f, 0)
			if err != nil {
				return err
			}

			fmt.Printf("version=%d dim=%d symbols=%d reflexes=%d\n", doc.Version, doc.Dim, len(doc.Symbols), len(doc.Reflexes))
			for tok := range doc.Symbols {
				fmt.Printf("  symbol %s\n", tok)
			}
			for _, e := range doc.Reflexes {
				fmt.Printf("  reflex %s stability=%s\n", e.ReflexID, e.Meta["stability"])
			}
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify FILE",
		Short: "Check that a bcmap file parses and re-encodes without error",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			doc, err := mapper.Load(f, 0)
			f.Close()
			if err != nil {
				return fmt.Errorf("invalid: %w", err)
			}

			tmp, err := os.CreateTemp("", "hdcmap-verify-*.bcmap")
			if err != nil {
				return err
			}
			defer os.Remove(tmp.Name())
			defer tmp.Close()

			if err := mapper.Save(tmp, doc); err != nil {
				return fmt.Errorf("round-trip save failed: %w", err)
			}

			fmt.Println("ok")
			return nil
		},
	}
}

func newCmd() *cobra.Command {
	var dim int
	var version uint32

	cmd := &cobra.Command{
		Use:   "new FILE",
		Short: "Create a new empty bcmap file at the given dimension",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dim <= 0 {
				return fmt.Errorf("dim must be positive")
			}
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc := mapper.Document{
				Version: version,
				Dim:     dim,
				Symbols: map[string]tensor.Tensor{},
			}
			return mapper.Save(f, doc)
		},
	}
	cmd.Flags().IntVar(&dim, "dim", 1024, "hypervector dimension")
	cmd.Flags().Uint32Var(&version, "version", mapper.Version3, "mapper file version (2 or 3)")
	return cmd
}
