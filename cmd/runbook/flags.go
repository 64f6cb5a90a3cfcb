package main

import "fmt"

type verboseMode string

const (
	verbosePlain    verboseMode = "plain"
	verboseRich     verboseMode = "rich"
	verboseMarkdown verboseMode = "markdown"
)

func parseVerboseMode(raw string) (verboseMode, error) {
	switch verboseMode(raw) {
	case "", verbosePlain:
		return verbosePlain, nil
	case verboseRich:
		return verboseRich, nil
	case verboseMarkdown:
		return verboseMarkdown, nil
	default:
		return "", fmt.Errorf("unknown --verbose mode %q (want plain, rich, or markdown)", raw)
	}
}

type visualizeMode string

const (
	visualizeNone          visualizeMode = ""
	visualizeASCIITree     visualizeMode = "ascii-tree"
	visualizeASCIIWorkflow visualizeMode = "ascii-workflow"
	visualizeASCIIFlow     visualizeMode = "ascii-flowchart"
	visualizeMermaid       visualizeMode = "mermaid-js"
)

func parseVisualizeMode(raw string) (visualizeMode, error) {
	switch visualizeMode(raw) {
	case visualizeNone, visualizeASCIITree, visualizeASCIIWorkflow, visualizeASCIIFlow, visualizeMermaid:
		return visualizeMode(raw), nil
	default:
		return "", fmt.Errorf("unknown --visualize mode %q", raw)
	}
}
