package cli

import (
	"encoding/json"
	"fmt"

	"github.com/medichain/triage/internal/model"
	"github.com/medichain/triage/internal/pipeline"
	"github.com/spf13/cobra"
)

var treatUrgency string

// treatCmd represents the treat command
var treatCmd = &cobra.Command{
	Use:   "treat <condition>",
	Short: "Resolve treatments and safety checks for a condition",
	Long: `Treat looks up the treatments for a condition and resolves
contraindications, drug interactions, allergy alerts, specialist referral
and follow-up timeline for the given patient context.

Example:
  triage treat heart-attack --urgency emergency --allergy aspirin
  triage treat migraine --age 70 --history kidney-disease --medication anticoagulation`,
	Args: cobra.ExactArgs(1),
	RunE: runTreat,
}

func init() {
	rootCmd.AddCommand(treatCmd)

	treatCmd.Flags().StringVar(&treatUrgency, "urgency", model.UrgencyRoutine, "urgency level (emergency, urgent, routine)")
	treatCmd.Flags().IntVar(&patientAge, "age", 0, "patient age (0 means unknown)")
	treatCmd.Flags().StringSliceVar(&allergies, "allergy", nil, "known allergy (repeatable)")
	treatCmd.Flags().StringSliceVar(&medications, "medication", nil, "current medication (repeatable)")
	treatCmd.Flags().StringSliceVar(&history, "history", nil, "medical history entry (repeatable)")
	treatCmd.Flags().StringVar(&backendKind, "backend", "pattern", "query backend (pattern, fallback)")
	treatCmd.Flags().StringVar(&kbPath, "kb", "", "external knowledge base file (default: embedded)")
}

func runTreat(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if cmd.Flags().Changed("backend") {
		cfg.KB.Backend = backendKind
	}
	if cmd.Flags().Changed("kb") {
		cfg.KB.Path = kbPath
	}

	p := pipeline.NewPipeline(cfg)

	req := model.TreatmentRequest{
		PrimaryCondition:   args[0],
		UrgencyLevel:       treatUrgency,
		Allergies:          allergies,
		CurrentMedications: medications,
		MedicalHistory:     history,
	}
	if patientAge > 0 {
		req.PatientAge = &patientAge
	}

	result := p.Recommend(req)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	fmt.Println(string(data))

	return nil
}
