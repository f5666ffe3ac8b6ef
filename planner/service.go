// Package planner holds the rules for collaborative event management: who
// may do what to an event, and how attendee, co-host invite and poll state
// moves. Every multi-row change runs inside one repository transaction.
package planner

import (
	"time"

	"event-planner/data/repository"

	"github.com/go-playground/validator"
	"github.com/sirupsen/logrus"
)

type Service struct {
	repo repository.DBRepo
	log  logrus.FieldLogger
	now  func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.DBRepo, log logrus.FieldLogger, opts ...Option) *Service {
	s := &Service{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

var validate = validator.New()
