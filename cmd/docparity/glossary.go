// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docparity/docparity/internal/glossary"
)

var glossaryCmd = &cobra.Command{
	Use:   "glossary",
	Short: "Show the project glossary",
	Long: `Glossary prints the terms loaded from the project glossary file.
These terms are attached to translation batches so translators keep
terminology consistent. Use --find to check which terms occur in a text.`,
	RunE: runGlossary,
}

func runGlossary(cmd *cobra.Command, args []string) error {
	cfg, err := pipelineConfig()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		path = cfg.Project.GlossaryFile
	}

	gloss, err := glossary.Load(path)
	if err != nil {
		return err
	}
	if gloss.Len() == 0 {
		fmt.Printf("no glossary terms loaded from %s\n", path)
		return nil
	}

	if find, _ := cmd.Flags().GetString("find"); find != "" {
		terms := gloss.FindInText(find)
		if len(terms) == 0 {
			fmt.Println("no glossary terms found in text")
			return nil
		}
		for _, term := range terms {
			fmt.Println(term.Term)
		}
		return nil
	}

	fmt.Printf("%-24s  %-24s  %s\n", "Term", "Translation", "Definition")
	fmt.Println(strings.Repeat("-", 78))
	for _, term := range gloss.Terms() {
		translation := term.Translation
		if term.MaintainOriginal {
			translation = "(keep original)"
		}
		definition := term.Definition
		if len(definition) > 28 {
			definition = definition[:25] + "..."
		}
		fmt.Printf("%-24s  %-24s  %s\n", term.Term, translation, definition)
	}
	fmt.Printf("\n%d terms\n", gloss.Len())
	return nil
}

func init() {
	glossaryCmd.Flags().String("file", "", "glossary file path (default from config)")
	glossaryCmd.Flags().String("find", "", "list the glossary terms occurring in the given text")

	rootCmd.AddCommand(glossaryCmd)
}
