// Package service holds the tweet, like, follow and media operations. Every
// mutating call authenticates its API key before it writes anything, and
// every multi-statement write runs in one transaction.
package service

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sujalbistaa/twitclone/internal/storage"
)

// Publisher receives an event after a successful commit.
type Publisher interface {
	Publish(typ string, data any)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

// Service is safe for concurrent use; all shared state lives in the database.
type Service struct {
	db             *gorm.DB
	store          storage.Store
	events         Publisher
	maxUploadBytes int64
	tel            telemetry
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

type Option func(*Service)

// WithPublisher sends post/like/follow events to p.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.events = p
		}
	}
}

// WithMaxUploadBytes caps media uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Service) {
		s.maxUploadBytes = n
	}
}

// WithTelemetry reports spans and the operation counter to tp and mp instead
// of the global providers.
func WithTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(s *Service) {
		s.tracerProvider = tp
		s.meterProvider = mp
	}
}

func New(db *gorm.DB, store storage.Store, opts ...Option) *Service {
	s := &Service{
		db:             db,
		store:          store,
		events:         nopPublisher{},
		maxUploadBytes: 10 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tel = initTelemetry(s.tracerProvider, s.meterProvider)
	return s
}

// Ping checks the database connection.
func (s *Service) Ping() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
