package summarizer

import (
	"fmt"
	"strings"
)

const (
	coreMarker   = "**核心观点**"
	pointsMarker = "**关键要点**"

	minKeyPoints = 1
	maxKeyPoints = 5
)

// parseStructured validates model output against the summary contract:
// a 核心观点 line followed by a 关键要点 bullet list.
func parseStructured(raw string) (string, []string, error) {
	body := stripFences(raw)

	coreIdx := strings.Index(body, coreMarker)
	pointsIdx := strings.Index(body, pointsMarker)
	if coreIdx < 0 || pointsIdx < 0 || pointsIdx <= coreIdx {
		return "", nil, fmt.Errorf("summarizer: response missing %s/%s structure", coreMarker, pointsMarker)
	}

	core := body[coreIdx+len(coreMarker) : pointsIdx]
	core = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(core), ":："))
	core = strings.TrimSpace(core)
	if core == "" {
		return "", nil, fmt.Errorf("summarizer: empty core viewpoint")
	}

	var points []string
	for _, line := range strings.Split(body[pointsIdx+len(pointsMarker):], "\n") {
		line = strings.TrimSpace(line)
		if point, ok := bulletText(line); ok {
			points = append(points, point)
		}
	}
	if len(points) < minKeyPoints {
		return "", nil, fmt.Errorf("summarizer: no key points found")
	}
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}

	return core, points, nil
}

func bulletText(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, prefix) {
			text := strings.TrimSpace(strings.TrimPrefix(line, prefix))
			return text, text != ""
		}
	}
	return "", false
}

// stripFences removes markdown code fences some models wrap around their
// answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```markdown")
	s = strings.TrimPrefix(s, "```md")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
