package manifest

import "github.com/ckeeney/maestro/pkg/models"

// defaultRoster covers every capability tag so a zero-config run can
// route any request. Weights and priorities follow the rough cost and
// speed of the backing models.
var defaultRoster = []models.Specialist{
	{
		ID:              "scout",
		Name:            "Scout",
		Model:           "claude-3-5-haiku-20241022",
		Specializations: []models.Specialization{models.SpecText},
		Weight:          0.4,
		Priority:        1,
		Enabled:         true,
	},
	{
		ID:              "sage",
		Name:            "Sage",
		Model:           "claude-opus-4-1-20250805",
		Specializations: []models.Specialization{models.SpecText, models.SpecReasoning, models.SpecThinking},
		Weight:          0.9,
		Priority:        2,
		Enabled:         true,
	},
	{
		ID:              "coder",
		Name:            "Coder",
		Model:           "claude-sonnet-4-20250514",
		Specializations: []models.Specialization{models.SpecText, models.SpecCode, models.SpecTool},
		Weight:          0.7,
		Priority:        3,
		Enabled:         true,
	},
	{
		ID:              "analyst",
		Name:            "Analyst",
		Model:           "claude-sonnet-4-20250514",
		Specializations: []models.Specialization{models.SpecText, models.SpecData},
		Weight:          0.6,
		Priority:        4,
		Enabled:         true,
	},
	{
		ID:              "spotter",
		Name:            "Spotter",
		Model:           "claude-sonnet-4-20250514",
		Specializations: []models.Specialization{models.SpecText, models.SpecMultimodal},
		Weight:          0.5,
		Priority:        5,
		Enabled:         true,
	},
	{
		ID:              "drafter",
		Name:            "Drafter",
		Model:           "claude-sonnet-4-20250514",
		Specializations: []models.Specialization{models.SpecText, models.SpecPlanning},
		Weight:          0.6,
		Priority:        6,
		Enabled:         true,
	},
}

// DefaultRoster returns the built-in roster used when no manifest
// exists on disk.
func DefaultRoster() []models.Specialist {
	roster := make([]models.Specialist, len(defaultRoster))
	copy(roster, defaultRoster)
	return roster
}
