package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestScoreNeverExceedsOne(t *testing.T) {
	w := models.DefaultScoringWeights()
	f := models.Finding{
		Tools:            []string{"sqlmap", "nuclei", "dalfox"},
		SuccessIndicator: models.SuccessConfirmedExecuted,
		Parameter:        "id",
	}
	score := Score(f, w)
	assert.LessOrEqual(t, score, 1.0)
	assert.Greater(t, score, 0.0)
}

func TestScoreRewardsCorroboration(t *testing.T) {
	w := models.DefaultScoringWeights()
	single := models.Finding{Tools: []string{"nikto"}, Parameter: "id"}
	corroborated := models.Finding{Tools: []string{"nikto", "whatweb"}, Parameter: "id"}

	assert.Less(t, Score(single, w), Score(corroborated, w), "a second corroborating tool must raise confidence")
}

func TestScoreUnknownToolFallsBackToBaselineReliability(t *testing.T) {
	w := models.DefaultScoringWeights()
	known := models.Finding{Tools: []string{"sqlmap"}, Parameter: "id"}
	unknown := models.Finding{Tools: []string{"some-future-tool"}, Parameter: "id"}

	assert.Greater(t, Score(known, w), Score(unknown, w), "a scored tool must outrank an unscored one")
}

func TestScoreWithoutParameterUsesCrawledSource(t *testing.T) {
	w := models.DefaultScoringWeights()
	f := models.Finding{Tools: []string{"nmap-quick"}}
	assert.Greater(t, Score(f, w), 0.0)
}
