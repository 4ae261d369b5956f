package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/medichain/triage/internal/model"
)

// Renderer writes triage reports as JSON files and stdout summaries
type Renderer struct {
	pretty bool
}

// NewRenderer creates a renderer
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{pretty: pretty}
}

// RenderJSON writes the report to the given path
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	var (
		data []byte
		err  error
	)
	if r.pretty {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}

// RenderSummary prints a human-oriented summary of the report to stdout
func (r *Renderer) RenderSummary(report *model.Report) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Triage Report")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println()

	if len(report.Symptoms) == 0 {
		fmt.Println(report.Clarification)
		fmt.Println()
		return
	}

	names := make([]string, len(report.Symptoms))
	for i, s := range report.Symptoms {
		names[i] = s.Name
	}
	fmt.Printf("  Symptoms:   %s\n", strings.Join(names, ", "))
	if report.Age != nil {
		fmt.Printf("  Age:        %d\n", *report.Age)
	}
	fmt.Printf("  Urgency:    %s\n", strings.ToUpper(report.Analysis.UrgencyLevel))

	if len(report.Analysis.RedFlags) > 0 {
		fmt.Println()
		fmt.Println("  Red flags:")
		for _, flag := range report.Analysis.RedFlags {
			fmt.Printf("    ! %s\n", flag)
		}
	}

	if len(report.Analysis.DifferentialDiagnoses) > 0 {
		fmt.Println()
		fmt.Println("  Differential diagnoses:")
		for _, cond := range report.Analysis.DifferentialDiagnoses {
			fmt.Printf("    - %s (confidence %.2f)\n", cond, report.Analysis.ConfidenceScores[cond])
		}
	}

	fmt.Println()
	fmt.Printf("  Next step:  %s\n", report.Analysis.RecommendedNextStep)

	if report.Treatment != nil {
		fmt.Println()
		fmt.Println("  Treatments:")
		for _, t := range report.Treatment.Treatments {
			fmt.Printf("    - %s\n", t)
			for _, c := range report.Treatment.Contraindications[t] {
				fmt.Printf("        contraindication: %s\n", c)
			}
		}
		for _, w := range report.Treatment.SafetyWarnings {
			fmt.Printf("    ! %s\n", w)
		}
		if report.Treatment.SpecialistReferral != "" {
			fmt.Printf("  Specialist: %s\n", report.Treatment.SpecialistReferral)
		}
		fmt.Printf("  Follow-up:  %s\n", report.Treatment.FollowUpTimeline)
	}

	if report.Clarification != "" {
		fmt.Println()
		fmt.Printf("  Note: %s\n", report.Clarification)
	}

	fmt.Println()
}
