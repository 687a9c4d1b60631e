package gamelog

import (
	"github.com/rs/zerolog"

	"towers/game"
)

// ZerologSink writes engine entries to a zerolog logger, one event per entry.
type ZerologSink struct {
	logger zerolog.Logger
}

func NewZerologSink(logger zerolog.Logger) *ZerologSink {
	return &ZerologSink{logger: logger}
}

func (s *ZerologSink) Log(category game.Category, message string, fields game.Fields) {
	event := s.event(category)
	if event == nil {
		return
	}
	event.Str("category", string(category)).Fields(map[string]any(fields)).Msg(message)
}

func (s *ZerologSink) event(category game.Category) *zerolog.Event {
	switch category {
	case game.CategoryError:
		return s.logger.Error()
	case game.CategoryValidation:
		return s.logger.Warn()
	case game.CategoryDebug:
		return s.logger.Debug()
	default:
		return s.logger.Info()
	}
}

// Tee fans every entry out to all sinks in order.
type Tee []game.Sink

func (t Tee) Log(category game.Category, message string, fields game.Fields) {
	for _, s := range t {
		s.Log(category, message, fields)
	}
}
