package service

import (
	"context"
	"log"
	"time"

	"quetest-service/internal/testcode"
)

// EventSink receives lifecycle events; the amqp publisher satisfies it.
type EventSink interface {
	Publish(eventType string, payload any) error
}

// RotationService periodically regenerates the test code of every stored
// question group. Each group's swap is a compare-and-set against the code
// the scan observed, so a group touched concurrently is skipped and picked
// up on the next tick.
type RotationService struct {
	store    QuestionStore
	interval time.Duration
	events   EventSink
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewRotationService(store QuestionStore, interval time.Duration, events EventSink) *RotationService {
	return &RotationService{store: store, interval: interval, events: events}
}

// Start launches the rotation loop. Failures are logged and never retried
// before the next tick; no caller awaits a rotation.
func (s *RotationService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RotateAll(ctx)
			}
		}
	}()
}

// Stop cancels the loop and waits for it to finish.
func (s *RotationService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// RotateAll rewrites every group's code with a fresh generation for its
// quiz name.
func (s *RotationService) RotateAll(ctx context.Context) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		log.Printf("rotation: listing groups failed: %v", err)
		return
	}
	for _, group := range groups {
		newCode := testcode.Generate(group.Quizname)
		rotated, err := s.store.RotateTestcode(ctx, group.ID, group.Testcode, newCode)
		if err != nil {
			log.Printf("rotation: rotating %s failed: %v", group.Testcode, err)
			continue
		}
		if !rotated {
			log.Printf("rotation: %s changed concurrently, skipping", group.Testcode)
			continue
		}
		log.Printf("Test code updated for quiz: %s", group.Quizname)
		if s.events != nil {
			s.events.Publish("testcode.rotated", map[string]any{
				"quizname": group.Quizname,
				"testcode": newCode,
			})
		}
	}
}
