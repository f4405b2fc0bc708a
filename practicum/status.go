package practicum

import (
	"fmt"
)

const statusMessageFormat = `Изменился статус проверки работы "%s". %s`

// HomeworkVerdicts maps a review status code to its verdict.
var HomeworkVerdicts = map[string]string{
	"approved":  "Работа проверена: ревьюеру всё понравилось. Ура!",
	"reviewing": "Работа взята на проверку ревьюером.",
	"rejected":  "Работа проверена: у ревьюера есть замечания.",
}

// ParseStatus renders the notification text for a single homework record.
func ParseStatus(homework any) (string, error) {
	hw, ok := homework.(map[string]any)
	if !ok {
		return "", newError(KindMalformedItem, fmt.Sprintf("homework is %T, not an object", homework), nil)
	}

	rawName, ok := hw["homework_name"]
	if !ok {
		return "", newError(KindMalformedItem, "no homework_name key", nil)
	}
	name, ok := rawName.(string)
	if !ok {
		return "", newError(KindMalformedItem, fmt.Sprintf("homework_name is %T, not a string", rawName), nil)
	}

	status := fmt.Sprint(hw["status"])
	if s, isString := hw["status"].(string); isString {
		status = s
	}
	verdict, ok := HomeworkVerdicts[status]
	if !ok {
		return "", &Error{
			Kind:   KindUnknownStatus,
			Msg:    status,
			Status: status,
		}
	}

	return fmt.Sprintf(statusMessageFormat, name, verdict), nil
}
