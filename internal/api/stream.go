package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"astrogen/internal/logging"
	"astrogen/internal/progress"
	"astrogen/internal/sector"
)

const (
	streamBuffer  = 32
	writeDeadline = 60 * time.Second
)

// stream runs a build for req and relays its progress as SSE frames until the
// terminal token has been written or the client goes away.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, req sector.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	rc := http.NewResponseController(w)
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		s.logger.Error("streaming not supported", logging.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	logger := logging.WithContext(ctx, s.logger).With(
		logging.String(logging.FieldSector, req.Sector),
		logging.String(logging.FieldFormat, req.Format),
	)

	messages := make(chan string, streamBuffer)
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		defer close(messages)
		sink := progress.Func(func(msg string) {
			select {
			case messages <- msg:
			case <-ctx.Done():
			}
		})
		if _, err := s.runner.Run(ctx, req, sink); err != nil {
			logger.Info("streamed build failed", logging.Error(err))
		}
	}()

	ticker := time.NewTicker(s.keepalive)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if err := s.writeFrame(rc, w, formatData(msg)); err != nil {
				logger.Info("client disconnected during build", logging.Error(err))
				cancel()
				<-finished
				return
			}
		case <-ticker.C:
			if err := s.writeFrame(rc, w, ":\n\n"); err != nil {
				logger.Info("client disconnected during keepalive", logging.Error(err))
				cancel()
				<-finished
				return
			}
		case <-ctx.Done():
			logger.Info("client context canceled")
			<-finished
			return
		}
	}
}

// formatData renders msg as one SSE event. Embedded newlines become
// additional data lines so a message never ends an event early.
func formatData(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	return "data: " + strings.ReplaceAll(msg, "\n", "\ndata: ") + "\n\n"
}

func (s *Server) writeFrame(rc *http.ResponseController, w http.ResponseWriter, frame string) error {
	if err := rc.SetWriteDeadline(time.Now().Add(writeDeadline)); err != nil {
		// not every ResponseWriter supports deadlines
		s.logger.Debug("failed to set write deadline", logging.Error(err))
	}
	if _, err := fmt.Fprint(w, frame); err != nil {
		return err
	}
	return rc.Flush()
}
