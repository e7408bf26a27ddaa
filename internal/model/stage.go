// ABOUTME: Stage models with preset-driven sub-forms for unlock rules, hints and puzzles
// ABOUTME: Registers a struct-level rule that enforces the fields each unlock preset needs

package model

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/kimguny/xpg-admin/internal/validate"
)

// Unlock presets decide what a player must do before a stage opens.
const (
	UnlockNone          = "none"
	UnlockPreviousStage = "previous_stage"
	UnlockNFC           = "nfc"
	UnlockLocation      = "location"
	UnlockPuzzle        = "puzzle"
)

// UnlockPresets lists every preset in form order.
var UnlockPresets = []string{UnlockNone, UnlockPreviousStage, UnlockNFC, UnlockLocation, UnlockPuzzle}

// Hint presets
const (
	HintText     = "text"
	HintImage    = "image"
	HintLocation = "location"
)

// Puzzle types
const (
	PuzzleText   = "text"
	PuzzleChoice = "choice"
)

// Stage is one step of a content.
type Stage struct {
	ID           string        `json:"id"`
	ContentID    string        `json:"content_id"`
	Order        int           `json:"order"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	RewardPoints int           `json:"reward_points"`
	UnlockPreset string        `json:"unlock_preset"`
	Unlock       UnlockConfig  `json:"unlock"`
	Puzzle       *PuzzleConfig `json:"puzzle,omitempty"`
	HintCount    int           `json:"hint_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// UnlockConfig holds the parameters of every preset; only the fields of the
// chosen preset are meaningful.
type UnlockConfig struct {
	PreviousStageID string   `json:"previous_stage_id,omitempty"`
	NFCTagID        string   `json:"nfc_tag_id,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	RadiusM         int      `json:"radius_m,omitempty" validate:"omitempty,gte=5,max=5000"`
}

// PuzzleConfig is the question a player answers to unlock a puzzle stage.
type PuzzleConfig struct {
	Type     string   `json:"type" validate:"required,oneof=text choice"`
	Question string   `json:"question" validate:"required,max=500"`
	Answer   string   `json:"answer" validate:"required,max=200"`
	Choices  []string `json:"choices,omitempty" validate:"required_if=Type choice,omitempty,min=2,max=6,dive,required"`
}

// StageInput is the stage registration and edit payload.
type StageInput struct {
	Order        int           `json:"order" validate:"gte=1"`
	Title        string        `json:"title" validate:"required,max=100"`
	Description  string        `json:"description,omitempty" validate:"max=2000"`
	RewardPoints int           `json:"reward_points" validate:"gte=0"`
	UnlockPreset string        `json:"unlock_preset" validate:"required,oneof=none previous_stage nfc location puzzle"`
	Unlock       UnlockConfig  `json:"unlock"`
	Puzzle       *PuzzleConfig `json:"puzzle,omitempty"`
	Hints        []HintInput   `json:"hints,omitempty" validate:"max=5,dive"`
}

func init() {
	validate.Register(func(v *validator.Validate) {
		v.RegisterStructValidation(stageInputRules, StageInput{})
	})
}

// stageInputRules requires the fields of the selected unlock preset.
func stageInputRules(sl validator.StructLevel) {
	in := sl.Current().Interface().(StageInput)
	preset := in.UnlockPreset

	switch preset {
	case UnlockPreviousStage:
		if in.Unlock.PreviousStageID == "" {
			sl.ReportError(in.Unlock.PreviousStageID, "Unlock.PreviousStageID", "PreviousStageID", "unlock", preset)
		}
	case UnlockNFC:
		if in.Unlock.NFCTagID == "" {
			sl.ReportError(in.Unlock.NFCTagID, "Unlock.NFCTagID", "NFCTagID", "unlock", preset)
		}
	case UnlockLocation:
		if in.Unlock.Latitude == nil {
			sl.ReportError(in.Unlock.Latitude, "Unlock.Latitude", "Latitude", "unlock", preset)
		}
		if in.Unlock.Longitude == nil {
			sl.ReportError(in.Unlock.Longitude, "Unlock.Longitude", "Longitude", "unlock", preset)
		}
		if in.Unlock.RadiusM == 0 {
			sl.ReportError(in.Unlock.RadiusM, "Unlock.RadiusM", "RadiusM", "unlock", preset)
		}
	case UnlockPuzzle:
		if in.Puzzle == nil {
			sl.ReportError(in.Puzzle, "Puzzle", "Puzzle", "unlock", preset)
		}
	}
}
