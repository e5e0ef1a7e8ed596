package config

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"
)

type logEntry struct {
	Time     string `json:"time"`
	Level    string `json:"level"`
	Action   string `json:"action"`
	Entity   string `json:"entity"`
	EntityID int64  `json:"entity_id"`
	ActorID  int64  `json:"actor_id"`
	Status   string `json:"status,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Logger writes one JSON object per line. Entries carry the chat as the
// entity id and the acting account as the actor id, so a chat's history can
// be grepped out of the stream.
type Logger struct {
	mu  sync.Mutex
	out io.Writer
}

func NewLogger() *Logger {
	return &Logger{out: os.Stdout}
}

// NewLoggerTo writes entries to w instead of stdout.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{out: w}
}

func (l *Logger) Info(action string, entity string, entityID int64, actorID int64, status string) {
	l.write(logEntry{
		Level:    "info",
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		ActorID:  actorID,
		Status:   status,
	})
}

func (l *Logger) Error(err error, action string, entity string, entityID int64, actorID int64) {
	l.write(logEntry{
		Level:    "error",
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		ActorID:  actorID,
		Error:    err.Error(),
	})
}

func (l *Logger) write(e logEntry) {
	e.Time = time.Now().UTC().Format(time.RFC3339)
	data, err := json.Marshal(e)
	if err != nil {
		data = []byte(`{"level":"error","error":"logger marshal failed"}`)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Write(append(data, '\n'))
}
