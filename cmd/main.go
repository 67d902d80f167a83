package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/legalguard/piiguard"
	"github.com/legalguard/piiguard/core"
	"github.com/legalguard/piiguard/llm"
)

func main() {
	// Optional .env for MCP_SERVER_PATH / PII_ANALYZER_URL / PIIGUARD_RULES
	godotenv.Load()

	input := "Contact John Smith at john.smith@example.com or 555-123-4567"
	if len(os.Args) > 1 {
		input = strings.Join(os.Args[1:], " ")
	}

	guard, err := piiguard.NewFromEnvironment()
	if err != nil {
		// Without a model server, fall back to pattern-only detection.
		fmt.Fprintf(os.Stderr, "model adapters unavailable (%v); running pattern-only scan\n", err)
		guard, err = piiguard.NewBilingual(
			&llm.StaticClassifier{Code: core.LangEnglish},
			&llm.StaticRecognizer{},
			&llm.StaticRecognizer{},
			core.EngineConfig{DisableAudit: true},
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building engine: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()

	entities, err := guard.DetectPII(ctx, input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error detecting PII: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Entities Found:")
	for _, entity := range entities {
		fmt.Printf(" - %s (%s): \"%s\" at [%d:%d]\n",
			entity.Category, entity.Source, entity.Text, entity.Start, entity.End)
	}

	redacted, _, err := guard.RedactPII(ctx, input, core.StrategyRedact)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error redacting: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nRedacted Output:")
	fmt.Println(redacted)
}
