package dashboard

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// ScoreNotAvailable is shown when a match score is missing or not numeric.
const ScoreNotAvailable = "not available"

// RenderScore formats a match score to two decimal places. Scores arrive
// untyped from the ranking endpoint; anything that cannot be coerced to a
// finite number renders as "not available" instead of NaN or a panic.
func RenderScore(v any) string {
	f, ok := coerceScore(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return ScoreNotAvailable
	}
	return fmt.Sprintf("%.2f", f)
}

func coerceScore(v any) (float64, bool) {
	switch value := v.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case json.Number:
		f, err := value.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(value, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
