package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"modelbridge/internal/bridge"
	"modelbridge/internal/session"
	"modelbridge/internal/store"
)

func newHandshakeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "handshake",
		Short: "Print the native handshake string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bridge.Build(c.cfg, c.log)
			if err != nil {
				return err
			}
			defer b.Close()
			_, err = fmt.Fprintln(c.out, b.Handshake())
			return err
		},
	}
}

// embedOutput is the JSON shape printed by the embed command.
type embedOutput struct {
	Text      string    `json:"text"`
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
}

func newEmbedCmd(c *cli) *cobra.Command {
	var load string
	cmd := &cobra.Command{
		Use:     "embed <text>...",
		Short:   "Print embeddings as JSON lines",
		Example: "  modelbridge embed ping\n  modelbridge embed --load /models/test.bin ping pong",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := bridge.Build(c.cfg, c.log)
			if err != nil {
				return err
			}
			defer b.Close()
			if load != "" && !b.LoadModel(load) {
				return fmt.Errorf("load %s failed", load)
			}
			enc := json.NewEncoder(c.out)
			for _, text := range args {
				v := b.GetEmbedding(text)
				if v == nil {
					return fmt.Errorf("no embedding for %q", text)
				}
				if err := enc.Encode(embedOutput{Text: text, Dim: len(v), Embedding: v}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&load, "load", "", "Model path to load before embedding")
	return cmd
}

func newInspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>",
		Short: "Validate a GGUF header and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := session.Inspect(args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(c.out)
			enc.SetIndent("", "  ")
			return enc.Encode(h)
		},
	}
}

func newVerifyCmd(c *cli) *cobra.Command {
	var (
		db     string
		record bool
		load   string
	)
	cmd := &cobra.Command{
		Use:   "verify <text>...",
		Short: "Check embeddings against the fingerprint ledger",
		Long: "Embeds each text and compares it bit-for-bit with the vector recorded " +
			"for the same engine. With --record, texts without an entry are recorded.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if db == "" {
				db = c.cfg.FingerprintDB
			}
			if db == "" {
				return fmt.Errorf("no fingerprint database: set fingerprint_db or --db")
			}
			st, err := store.Open(db)
			if err != nil {
				return err
			}
			defer st.Close()
			b, err := bridge.Build(c.cfg, c.log)
			if err != nil {
				return err
			}
			defer b.Close()
			if load != "" && !b.LoadModel(load) {
				return fmt.Errorf("load %s failed", load)
			}
			engine := b.Session().Engine()
			mismatches := 0
			for _, text := range args {
				v := b.GetEmbedding(text)
				if v == nil {
					return fmt.Errorf("no embedding for %q", text)
				}
				match, found, err := st.Verify(cmd.Context(), engine, text, v)
				if err != nil {
					return err
				}
				status := "match"
				switch {
				case !found && record:
					if err := st.Record(cmd.Context(), engine, text, v); err != nil {
						return err
					}
					status = "recorded"
				case !found:
					status = "missing"
				case !match:
					status = "MISMATCH"
					mismatches++
				}
				fmt.Fprintf(c.out, "%-8s %s %q\n", status, store.HashText(text), text)
			}
			if mismatches > 0 {
				return fmt.Errorf("%d embedding(s) differ from the ledger", mismatches)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "Fingerprint database (overrides fingerprint_db)")
	cmd.Flags().BoolVar(&record, "record", false, "Record texts that have no entry yet")
	cmd.Flags().StringVar(&load, "load", "", "Model path to load before embedding")
	return cmd
}

func newSearchCmd(c *cli) *cobra.Command {
	var (
		db string
		k  int
	)
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Rank texts in the fingerprint ledger by similarity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if db == "" {
				db = c.cfg.FingerprintDB
			}
			if db == "" {
				return fmt.Errorf("no fingerprint database: set fingerprint_db or --db")
			}
			st, err := store.Open(db)
			if err != nil {
				return err
			}
			defer st.Close()
			b, err := bridge.Build(c.cfg, c.log)
			if err != nil {
				return err
			}
			defer b.Close()
			q := b.GetEmbedding(args[0])
			if q == nil {
				return fmt.Errorf("no embedding for %q", args[0])
			}
			matches, err := st.Search(cmd.Context(), b.Session().Engine(), q, k)
			if err != nil {
				return err
			}
			for _, m := range matches {
				fmt.Fprintf(c.out, "%.6f %s %q\n", m.Score, m.TextHash, m.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&db, "db", "", "Fingerprint database (overrides fingerprint_db)")
	cmd.Flags().IntVarP(&k, "k", "k", 5, "Number of results")
	return cmd
}
