package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncAction_DecodesTypedPayload(t *testing.T) {
	data := `[
		{"id":"a1","type":"COMPLETE_LESSON","payload":{"lessonId":"u1_l1","xp":33},"timestamp":1700000000000},
		{"id":"a2","type":"UPDATE_STATS","payload":{"streak":4,"soundEnabled":false},"timestamp":1700000000001}
	]`

	var actions []SyncAction
	require.NoError(t, json.Unmarshal([]byte(data), &actions))
	require.Len(t, actions, 2)

	assert.Equal(t, ActionCompleteLesson, actions[0].Kind)
	require.NotNil(t, actions[0].CompleteLesson)
	assert.Equal(t, "u1_l1", actions[0].CompleteLesson.LessonID)
	assert.Equal(t, 33, actions[0].CompleteLesson.XP)
	assert.Equal(t, int64(1700000000000), actions[0].Timestamp.UnixMilli())

	require.NotNil(t, actions[1].UpdateStats)
	assert.Equal(t, 4, *actions[1].UpdateStats.Streak)
	assert.False(t, *actions[1].UpdateStats.SoundEnabled)
	assert.Nil(t, actions[1].UpdateStats.Hearts)
}

func TestSyncAction_RejectsMalformedPayload(t *testing.T) {
	cases := map[string]string{
		"unknown kind":   `{"type":"DELETE_EVERYTHING","payload":{},"timestamp":1}`,
		"missing lesson": `{"type":"COMPLETE_LESSON","payload":{"xp":10},"timestamp":1}`,
		"negative xp":    `{"type":"COMPLETE_LESSON","payload":{"lessonId":"l","xp":-3},"timestamp":1}`,
		"wrong shape":    `{"type":"UPDATE_STATS","payload":[1,2],"timestamp":1}`,
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			var a SyncAction
			assert.Error(t, json.Unmarshal([]byte(data), &a))
		})
	}
}

func TestSyncAction_RoundTripKeepsMilliseconds(t *testing.T) {
	at := time.Date(2026, 10, 18, 9, 30, 0, 123_000_000, time.UTC)
	a := NewCompleteLessonAction("u1_l2", 15, at)
	a.ID = "x"

	data, err := json.Marshal(a)
	require.NoError(t, err)

	var back SyncAction
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, a.ID, back.ID)
	assert.True(t, at.Equal(back.Timestamp))
	assert.Equal(t, *a.CompleteLesson, *back.CompleteLesson)
}

func TestStatsPatch_ApplyOnlyPresentFields(t *testing.T) {
	p := NewLearnerProfile("guest_1", "Explorer")
	p.Streak = 3

	StatsPatch{Hearts: Ptr(2), MusicEnabled: Ptr(false)}.ApplyTo(p)

	assert.Equal(t, 3, p.Streak)
	assert.Equal(t, 2, p.Hearts)
	assert.False(t, p.MusicEnabled)
	assert.True(t, p.SoundEnabled)

	StatsPatch{Hearts: Ptr(42)}.ApplyTo(p)
	assert.Equal(t, MaxHearts, p.Hearts)
	assert.True(t, StatsPatch{}.IsEmpty())
}

func TestLearnerProfile_CloneIsDeep(t *testing.T) {
	p := NewLearnerProfile("guest_1", "Explorer")
	p.MarkCompleted("u1_l1")

	c := p.Clone()
	c.MarkCompleted("u1_l2")
	c.Badges = append(c.Badges, "b1")

	assert.Equal(t, []string{"u1_l1"}, p.CompletedLessons)
	assert.Empty(t, p.Badges)
	assert.False(t, p.MarkCompleted("u1_l1"))
}

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := ParseTimezoneLocation("UTC+3")
	require.NoError(t, err)
	_, offset := time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3*3600, offset)

	loc, err = ParseTimezoneLocation("-03:30")
	require.NoError(t, err)
	_, offset = time.Date(2026, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -(3*3600 + 30*60), offset)

	loc, err = ParseTimezoneLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = ParseTimezoneLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestAccuracyForScore(t *testing.T) {
	assert.Equal(t, AccuracyExcellent, AccuracyForScore(95))
	assert.Equal(t, AccuracyGood, AccuracyForScore(70))
	assert.Equal(t, AccuracyAverage, AccuracyForScore(40))
	assert.Equal(t, AccuracyPoor, AccuracyForScore(39))
}
