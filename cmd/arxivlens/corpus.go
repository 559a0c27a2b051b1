// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/arxivlens/internal/corpus"
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the interest corpus",
	Long: `Corpus manages the documents that describe the project's research
interests. Documents are stored newest-first; the embedding scorer weights
recent documents more heavily than old ones.`,
}

var corpusAddCmd = &cobra.Command{
	Use:   "add [text]",
	Short: "Add a document to the interest corpus",
	Long: `Add stores one interest document. The text comes from the argument, or
from a file with --file.`,
	RunE: runCorpusAdd,
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List corpus documents, newest first",
	RunE:  runCorpusList,
}

var corpusClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all corpus documents",
	RunE:  runCorpusClear,
}

func init() {
	corpusCmd.PersistentFlags().String("corpus-dir", "corpus", "directory holding the interest corpus database")
	corpusAddCmd.Flags().String("file", "", "read the document text from this file")
	corpusListCmd.Flags().Int("preview", 120, "characters of each document to show")

	corpusCmd.AddCommand(corpusAddCmd)
	corpusCmd.AddCommand(corpusListCmd)
	corpusCmd.AddCommand(corpusClearCmd)
	rootCmd.AddCommand(corpusCmd)
}

func openStore(cmd *cobra.Command) (*corpus.Store, error) {
	dir, _ := cmd.Flags().GetString("corpus-dir")
	store, err := corpus.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("opening corpus store: %w", err)
	}
	return store, nil
}

func runCorpusAdd(cmd *cobra.Command, args []string) error {
	var text string
	if file, _ := cmd.Flags().GetString("file"); file != "" {
		raw, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("reading document file: %w", err)
		}
		text = string(raw)
	} else if len(args) > 0 {
		text = strings.Join(args, " ")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("provide the document text as an argument or with --file")
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Add(cmd.Context(), text, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("adding corpus document: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added document %d\n", id)
	return nil
}

func runCorpusList(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	docs, err := store.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing corpus documents: %w", err)
	}
	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Corpus is empty.")
		return nil
	}

	preview, _ := cmd.Flags().GetInt("preview")
	for _, doc := range docs {
		text := strings.Join(strings.Fields(doc.Text), " ")
		if preview > 0 && len(text) > preview {
			text = text[:preview] + "..."
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d  %s  %s\n", doc.ID, doc.AddedAt.UTC().Format("2006-01-02"), text)
	}
	return nil
}

func runCorpusClear(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Clear(cmd.Context()); err != nil {
		return fmt.Errorf("clearing corpus: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Corpus cleared.")
	return nil
}
