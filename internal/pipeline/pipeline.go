// Package pipeline orchestrates the triage flow: symptom extraction,
// diagnostic analysis, condition selection and treatment resolution.
package pipeline

import (
	"time"

	"github.com/google/uuid"
	"github.com/medichain/triage/internal/diagnose"
	"github.com/medichain/triage/internal/extract"
	"github.com/medichain/triage/internal/kb"
	"github.com/medichain/triage/internal/model"
	"github.com/medichain/triage/internal/treat"
)

// Pipeline wires the extractor and both engines over one shared backend.
// Construction happens once at startup; afterwards every stage is a pure
// function of its inputs and the immutable knowledge base, so a single
// Pipeline is safe for concurrent use.
type Pipeline struct {
	extractor   *extract.Extractor
	diagnoser   *diagnose.Engine
	recommender *treat.Engine
	config      *model.Config
}

// NewPipeline creates a pipeline, selecting the query backend from the
// configuration
func NewPipeline(cfg *model.Config) *Pipeline {
	backend := kb.New(cfg.KB.Backend, cfg.KB.Path, cfg.Output.Verbose)
	return &Pipeline{
		extractor:   extract.NewExtractor(),
		diagnoser:   diagnose.NewEngine(backend),
		recommender: treat.NewEngine(backend),
		config:      cfg,
	}
}

// PatientContext carries the caller-supplied details that free text alone
// cannot provide
type PatientContext struct {
	Age                *int
	Allergies          []string
	CurrentMedications []string
	MedicalHistory     []string
}

// Triage runs the full flow over one case description and assembles the
// report envelope. An input with no recognizable symptoms is not a fault:
// the report carries a clarification prompt and no analysis.
func (p *Pipeline) Triage(text string, patient PatientContext) *model.Report {
	symptoms := p.extractor.Extract(text)

	age := patient.Age
	if age == nil {
		if extracted, ok := extract.ExtractAge(text); ok {
			age = &extracted
		}
	}

	report := &model.Report{
		ReportID:      uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		Input:         text,
		Symptoms:      symptoms,
		Age:           age,
		Clarification: extract.Clarify(symptoms, age),
	}

	if len(symptoms) == 0 {
		return report
	}

	names := make([]string, len(symptoms))
	severityScores := make(map[string]int, len(symptoms))
	durationInfo := make(map[string]string, len(symptoms))
	for i, s := range symptoms {
		names[i] = s.Name
		severityScores[s.Name] = s.Severity
		if s.Duration != "" {
			durationInfo[s.Name] = s.Duration
		}
	}

	report.Analysis = p.diagnoser.Analyze(model.AnalysisRequest{
		Symptoms:       names,
		Age:            age,
		SeverityScores: severityScores,
		DurationInfo:   durationInfo,
		MedicalHistory: patient.MedicalHistory,
	})

	if len(report.Analysis.DifferentialDiagnoses) > 0 {
		primary := report.Analysis.DifferentialDiagnoses[0]
		treatment := p.recommender.Recommend(model.TreatmentRequest{
			PrimaryCondition:      primary,
			AlternativeConditions: report.Analysis.DifferentialDiagnoses[1:],
			UrgencyLevel:          report.Analysis.UrgencyLevel,
			PatientAge:            age,
			Allergies:             patient.Allergies,
			CurrentMedications:    patient.CurrentMedications,
			MedicalHistory:        patient.MedicalHistory,
		})
		report.Treatment = &treatment
	}

	return report
}

// Analyze exposes the diagnostic engine for callers that already hold
// canonical symptoms
func (p *Pipeline) Analyze(req model.AnalysisRequest) model.AnalysisResult {
	return p.diagnoser.Analyze(req)
}

// Recommend exposes the treatment engine for callers that already selected a
// condition
func (p *Pipeline) Recommend(req model.TreatmentRequest) model.TreatmentResult {
	return p.recommender.Recommend(req)
}
