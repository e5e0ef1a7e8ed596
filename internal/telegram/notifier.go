package telegram

import (
	"context"
	"time"
)

// Notifier forwards failure reports to the first configured creator, drained
// at one message per second so an incident cannot flood the private chat.
// The queue is FIFO and drops new entries when full.
type Notifier struct {
	queue     chan string
	send      Sender
	creatorID int64
}

func NewNotifier(send Sender, creatorID int64) *Notifier {
	return &Notifier{
		queue:     make(chan string, 100),
		send:      send,
		creatorID: creatorID,
	}
}

func (n *Notifier) Notify(text string) {
	select {
	case n.queue <- text:
	default:
	}
}

func (n *Notifier) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case text := <-n.queue:
				n.send.Send(n.creatorID, 0, text)
			default:
			}
		}
	}
}
