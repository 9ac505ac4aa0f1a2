package artifact

import (
	"fmt"

	"github.com/osteele/liquid"

	"github.com/hastla007/webradio-sub000/internal/domain"
)

// summaryTemplate renders the human-readable delivery summary attached to
// reports and notification emails. Kept as a Liquid template so operators
// can eventually override it without a rebuild.
const summaryTemplate = `Export "{{ profile }}" {{ status }}: {{ count }} station{% if count != 1 %}s{% endif %} written to {{ file }}{% if uploaded %} and uploaded via FTP{% endif %}.{% if error != "" %} Error: {{ error }}.{% endif %}`

var summaryEngine = liquid.NewEngine()

// Summary renders a one-line human-readable description of a delivery run.
func Summary(a *Artifact, result *domain.DeliveryResult) (string, error) {
	bindings := map[string]interface{}{
		"profile":  result.ProfileName,
		"status":   string(result.Status),
		"count":    a.StationCount,
		"file":     a.FileName,
		"uploaded": result.Uploaded(),
		"error":    result.Error,
	}
	out, err := summaryEngine.ParseAndRenderString(summaryTemplate, bindings)
	if err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return out, nil
}
