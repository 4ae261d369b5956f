package cli

import (
	"fmt"
	"os"

	"github.com/medichain/triage/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	outJSON     string
	patientAge  int
	allergies   []string
	medications []string
	history     []string
	backendKind string
	kbPath      string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <description>",
	Short: "Triage a free-text symptom description",
	Long: `Analyze extracts canonical symptoms from a free-text description,
matches them against the medical knowledge base, assesses urgency, ranks a
differential diagnosis and resolves treatments with safety checks.

Example:
  triage analyze "I have a terrible headache and fever for 2 days"
  triage analyze "chest pain and short of breath" --age 70 --json report.json
  triage analyze "stomach ache since yesterday" --history kidney-disease`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().IntVar(&patientAge, "age", 0, "patient age (0 means unknown; overrides age found in the text)")
	analyzeCmd.Flags().StringSliceVar(&allergies, "allergy", nil, "known allergy (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&medications, "medication", nil, "current medication (repeatable)")
	analyzeCmd.Flags().StringSliceVar(&history, "history", nil, "medical history entry (repeatable)")
	analyzeCmd.Flags().StringVar(&backendKind, "backend", "pattern", "query backend (pattern, fallback)")
	analyzeCmd.Flags().StringVar(&kbPath, "kb", "", "external knowledge base file (default: embedded)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text := args[0]

	cfg := loadConfig()
	if cmd.Flags().Changed("backend") {
		cfg.KB.Backend = backendKind
	}
	if cmd.Flags().Changed("kb") {
		cfg.KB.Path = kbPath
	}

	p := pipeline.NewPipeline(cfg)

	patient := pipeline.PatientContext{
		Allergies:          allergies,
		CurrentMedications: medications,
		MedicalHistory:     history,
	}
	if patientAge > 0 {
		patient.Age = &patientAge
	}

	report := p.Triage(text, patient)

	renderer := pipeline.NewRenderer(cfg.Output.Pretty)
	if outJSON != "" {
		if err := renderer.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}

	renderer.RenderSummary(report)

	return nil
}
