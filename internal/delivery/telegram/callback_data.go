package telegram

import (
	"strconv"
	"strings"
)

// Callback actions.
const (
	actionLesson   = "lesson"
	actionAnswer   = "answer"
	actionNext     = "next"
	actionProgress = "progress"
	actionShop     = "shop"
	actionSettings = "settings"
)

// Shop sub-actions.
const (
	shopRefill  = "refill"
	shopPremium = "premium"
)

// Settings sub-actions.
const (
	settingsSound = "sound"
	settingsMusic = "music"
)

// callbackData is the parsed form of "action:param:param".
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// intParam returns the i-th parameter as an int.
func (cd callbackData) intParam(i int) (int, bool) {
	if i >= len(cd.Params) {
		return 0, false
	}
	n, err := strconv.Atoi(cd.Params[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func buildLessonCallback(lessonID string) string {
	return callbackData{Action: actionLesson, Params: []string{lessonID}}.encode()
}

// buildAnswerCallback keeps the exercise index so taps on an old question
// can be told apart from the current one.
func buildAnswerCallback(exerciseIdx, optionIdx int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(exerciseIdx), strconv.Itoa(optionIdx)},
	}.encode()
}

func buildShopCallback(item string) string {
	return callbackData{Action: actionShop, Params: []string{item}}.encode()
}

func buildSettingsCallback(setting string, enabled bool) string {
	value := "off"
	if enabled {
		value = "on"
	}
	return callbackData{Action: actionSettings, Params: []string{setting, value}}.encode()
}
