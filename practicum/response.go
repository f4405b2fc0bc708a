package practicum

import (
	"encoding/json"
	"fmt"
)

// CheckResponse validates the shape of a decoded homework_statuses answer and
// returns its homeworks, newest first. The slice may be empty.
func CheckResponse(response any) ([]any, error) {
	body, ok := response.(map[string]any)
	if !ok {
		return nil, newError(KindTypeMismatch, fmt.Sprintf("response is %T, not an object", response), nil)
	}

	raw, ok := body["homeworks"]
	if !ok {
		return nil, newError(KindMalformedResponse, "no homeworks key", nil)
	}

	homeworks, ok := raw.([]any)
	if !ok {
		return nil, newError(KindTypeMismatch, "homeworks is not a list", nil)
	}

	return homeworks, nil
}

// CurrentDate extracts current_date from a decoded response. The second
// result is false when the key is absent or not an integral number.
func CurrentDate(response any) (int64, bool) {
	body, ok := response.(map[string]any)
	if !ok {
		return 0, false
	}

	switch v := body["current_date"].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
