package reasoning

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/irfndi/paragon-ai-go/internal/models"
)

// ErrInvalidVerdict is returned when the reply is not a usable verdict.
var ErrInvalidVerdict = errors.New("invalid reasoning verdict")

var riskSynonyms = map[string]models.RiskLevel{
	"low":     models.RiskLow,
	"niedrig": models.RiskLow,
	"medium":  models.RiskMedium,
	"mittel":  models.RiskMedium,
	"high":    models.RiskHigh,
	"hoch":    models.RiskHigh,
}

type rawVerdict struct {
	Tendency  string `json:"tendency"`
	Risk      string `json:"risk"`
	Reasoning string `json:"reasoning"`
}

// ParseVerdict decodes a reply into a canonical AnalysisVerdict.
func ParseVerdict(content string) (models.AnalysisVerdict, error) {
	var raw rawVerdict
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &raw); err != nil {
		return models.AnalysisVerdict{}, errors.Wrapf(ErrInvalidVerdict, "decode: %v", err)
	}

	tendency := models.Tendency(cases.Title(language.English).String(strings.TrimSpace(raw.Tendency)))
	risk, ok := riskSynonyms[strings.ToLower(strings.TrimSpace(raw.Risk))]
	if !ok {
		return models.AnalysisVerdict{}, errors.Wrapf(ErrInvalidVerdict, "risk %q", raw.Risk)
	}

	verdict := models.AnalysisVerdict{
		Tendency:  tendency,
		Risk:      risk,
		Reasoning: strings.TrimSpace(raw.Reasoning),
	}
	if err := verdict.Validate(); err != nil {
		return models.AnalysisVerdict{}, errors.Wrap(ErrInvalidVerdict, err.Error())
	}
	return verdict, nil
}

func stripCodeFence(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
