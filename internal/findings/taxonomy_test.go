package findings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SpaceLeam/vapt-engine/internal/models"
)

func TestClassifyMatchesMoreSpecificKeywordFirst(t *testing.T) {
	e := Classify("Possible SQL Injection found in parameter id")
	assert.Equal(t, models.CategoryInjection, e.Category)
	assert.Equal(t, "CWE-89", e.CWE)
	assert.Equal(t, models.SeverityCritical, e.BaseSeverity)
}

func TestClassifyXSS(t *testing.T) {
	e := Classify("reflected xss via search parameter")
	assert.Equal(t, models.CategoryInjection, e.Category)
	assert.Equal(t, "CWE-79", e.CWE)
}

func TestClassifySSRF(t *testing.T) {
	e := Classify("SSRF: server made outbound request to internal host")
	assert.Equal(t, models.CategorySSRF, e.Category)
	assert.Equal(t, "CWE-918", e.CWE)
}

func TestClassifyUnknownFallsBackToDefault(t *testing.T) {
	e := Classify("some completely novel tool message nobody has seen before")
	assert.Equal(t, defaultEntry, e)
	assert.Equal(t, models.CategoryMisconfiguration, e.Category)
}
