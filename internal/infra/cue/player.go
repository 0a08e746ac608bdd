// Package cue provides a headless cue player that records audio triggers in
// the log instead of playing them.
package cue

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/service"
)

// LogPlayer satisfies service.CuePlayer without an audio device.
type LogPlayer struct {
	logger *zap.Logger
	music  atomic.Bool
}

// NewLogPlayer creates a LogPlayer with music on.
func NewLogPlayer(logger *zap.Logger) *LogPlayer {
	p := &LogPlayer{logger: logger}
	p.music.Store(true)
	return p
}

func (p *LogPlayer) Play(c service.Cue) {
	p.logger.Debug("cue", zap.String("cue", string(c)))
}

func (p *LogPlayer) Speak(text string) {
	p.logger.Debug("speak", zap.String("text", text))
}

func (p *LogPlayer) SetMusic(enabled bool) {
	if p.music.Swap(enabled) != enabled {
		p.logger.Debug("background music", zap.Bool("enabled", enabled))
	}
}

// MusicEnabled reports the current background music state.
func (p *LogPlayer) MusicEnabled() bool {
	return p.music.Load()
}
