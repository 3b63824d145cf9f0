package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/rs/zerolog"
)

// WriterSink writes one human-readable line per event.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Record(_ context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev.Kind {
	case CallStart:
		fmt.Fprintf(s.w, "%s %s mode=%s [%g, %g] n=%d\n", ev.Kind, ev.Func, ev.Mode, ev.A, ev.B, ev.N)
	case JobStart:
		fmt.Fprintf(s.w, "%s %s mode=%s job=%d [%g, %g) n=%d\n", ev.Kind, ev.Func, ev.Mode, ev.Job, ev.A, ev.B, ev.N)
	case JobEnd:
		if ev.Err != nil {
			fmt.Fprintf(s.w, "%s %s mode=%s job=%d err=%v\n", ev.Kind, ev.Func, ev.Mode, ev.Job, ev.Err)
			return
		}
		fmt.Fprintf(s.w, "%s %s mode=%s job=%d value=%.12g\n", ev.Kind, ev.Func, ev.Mode, ev.Job, ev.Value)
	default:
		if ev.Err != nil {
			fmt.Fprintf(s.w, "%s %s mode=%s took=%v err=%v\n", ev.Kind, ev.Func, ev.Mode, ev.Duration, ev.Err)
			return
		}
		fmt.Fprintf(s.w, "%s %s mode=%s took=%v value=%.12g\n", ev.Kind, ev.Func, ev.Mode, ev.Duration, ev.Value)
	}
}

// SlogSink logs events through slog. Start events go out at debug level.
type SlogSink struct {
	log *slog.Logger
}

func NewSlogSink(log *slog.Logger) *SlogSink {
	return &SlogSink{log: log}
}

func (s *SlogSink) Record(ctx context.Context, ev Event) {
	level := slog.LevelDebug
	if ev.Kind == CallEnd {
		level = slog.LevelInfo
	}
	if ev.Err != nil {
		level = slog.LevelError
	}

	attrs := []slog.Attr{
		slog.String("func", ev.Func),
		slog.String("mode", ev.Mode),
		slog.Float64("a", ev.A),
		slog.Float64("b", ev.B),
		slog.Int("n", ev.N),
	}
	if ev.Job >= 0 {
		attrs = append(attrs, slog.Int("job", ev.Job))
	}
	if ev.Kind == CallEnd || ev.Kind == BatchEnd {
		attrs = append(attrs, slog.Duration("took", ev.Duration))
	}
	if ev.Kind == CallEnd || ev.Kind == JobEnd || ev.Kind == BatchEnd {
		if ev.Err != nil {
			attrs = append(attrs, slog.Any("err", ev.Err))
		} else {
			attrs = append(attrs, slog.Float64("value", ev.Value))
		}
	}
	s.log.LogAttrs(ctx, level, string(ev.Kind), attrs...)
}

// ZerologSink writes events as JSON lines.
type ZerologSink struct {
	log zerolog.Logger
}

func NewZerologSink(w io.Writer) *ZerologSink {
	return &ZerologSink{log: zerolog.New(w).With().Timestamp().Logger()}
}

func (s *ZerologSink) Record(_ context.Context, ev Event) {
	e := s.log.Info()
	if ev.Err != nil {
		e = s.log.Error().Err(ev.Err)
	}
	e = e.Str("kind", string(ev.Kind)).
		Str("func", ev.Func).
		Str("mode", ev.Mode).
		Int("job", ev.Job).
		Float64("a", ev.A).
		Float64("b", ev.B).
		Int("n", ev.N)
	if ev.Kind == CallEnd || ev.Kind == BatchEnd {
		e = e.Dur("took", ev.Duration)
	}
	if ev.Kind == CallEnd || ev.Kind == JobEnd || ev.Kind == BatchEnd {
		if ev.Err == nil {
			e = e.Float64("value", ev.Value)
		}
	}
	e.Send()
}
