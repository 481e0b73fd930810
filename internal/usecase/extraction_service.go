package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/meshcompare/backend/internal/domain"
)

// Extraction sources reported back to the caller
const (
	SourceProvider = "provider"
	SourceSheet    = "sheet"
	SourceFallback = "fallback"
)

// ExtractionServiceConfig holds configuration for the extraction service
type ExtractionServiceConfig struct {
	Timeout time.Duration
}

// ExtractionOutcome is the terminal, successful result of one extraction
type ExtractionOutcome struct {
	Source     string                   `json:"source"`
	Generation uint64                   `json:"generation"`
	Raw        *domain.ExtractionResult `json:"raw"`
	Normalized NormalizeResult          `json:"normalized"`
}

// ExtractionService runs one extraction producer per request and normalizes
// its output. Each request gets a generation number; a response that arrives
// after a newer request from the same client has started is discarded.
type ExtractionService struct {
	provider   domain.Extractor
	fallback   domain.Extractor
	sheets     domain.SheetExtractor
	timeout    time.Duration
	generation atomic.Uint64

	mu     sync.Mutex
	latest map[string]uint64 // client -> generation of its newest in-flight request
}

// NewExtractionService creates a new extraction service. provider may be nil
// when no AI provider is configured; fallback then answers instead.
func NewExtractionService(
	provider domain.Extractor,
	fallback domain.Extractor,
	sheets domain.SheetExtractor,
	config ExtractionServiceConfig,
) *ExtractionService {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second // Default bounded wait
	}

	return &ExtractionService{
		provider: provider,
		fallback: fallback,
		sheets:   sheets,
		timeout:  timeout,
		latest:   make(map[string]uint64),
	}
}

// Extract runs the producer matching the request's file and returns the
// normalized candidates. Any producer failure surfaces as a single
// ErrExtractionFailure; no partial data is returned.
func (s *ExtractionService) Extract(ctx context.Context, req domain.ExtractionRequest) (*ExtractionOutcome, error) {
	if !req.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown extraction kind %q", domain.ErrInvalidRequest, req.Kind)
	}
	if len(req.Data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrInvalidRequest)
	}

	gen := s.begin(req.ClientID)
	defer s.finish(req.ClientID, gen)

	source, producer := s.pick(req.FileName)
	if producer == nil {
		return nil, fmt.Errorf("%w: no producer available", domain.ErrExtractionFailure)
	}

	logger := log.With().
		Uint64("generation", gen).
		Str("client", req.ClientID).
		Str("kind", string(req.Kind)).
		Str("file", req.FileName).
		Str("source", source).
		Logger()
	logger.Info().Msg("extraction started")
	start := time.Now()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	result, err := producer.Extract(callCtx, req)

	if latest := s.latestFor(req.ClientID); latest != gen {
		logger.Warn().Uint64("latest", latest).Msg("discarding stale extraction result")
		return nil, domain.ErrStaleExtraction
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			logger.Error().Dur("timeout", s.timeout).Msg("extraction timed out")
			return nil, fmt.Errorf("%w: %w after %s", domain.ErrExtractionFailure, domain.ErrExtractionTimeout, s.timeout)
		}
		logger.Error().Err(err).Msg("extraction failed")
		if errors.Is(err, domain.ErrExtractionFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrExtractionFailure, err)
	}

	if result == nil || result.Kind != req.Kind {
		got := domain.CandidateKind("nothing")
		if result != nil {
			got = result.Kind
		}
		return nil, fmt.Errorf("%w: producer returned %s for a %s request", domain.ErrExtractionFailure, got, req.Kind)
	}

	normalized := Normalize(result)
	logger.Info().
		Int("candidates", result.Len()).
		Int("records", len(normalized.Records)).
		Int("skipped", normalized.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("extraction done")

	return &ExtractionOutcome{
		Source:     source,
		Generation: gen,
		Raw:        result,
		Normalized: normalized,
	}, nil
}

// begin registers a new request of client and returns its generation
func (s *ExtractionService) begin(client string) uint64 {
	gen := s.generation.Add(1)
	s.mu.Lock()
	s.latest[client] = gen
	s.mu.Unlock()
	return gen
}

// latestFor returns the generation of the newest request of client still in
// flight, or 0 when it has already finished
func (s *ExtractionService) latestFor(client string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[client]
}

// finish forgets client once its newest request is done, so the map only
// holds clients with work in flight
func (s *ExtractionService) finish(client string, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[client] == gen {
		delete(s.latest, client)
	}
}

// pick selects the producer for a file: spreadsheets are read locally, other
// files go to the AI provider or, when none is configured, to the fallback
func (s *ExtractionService) pick(fileName string) (string, domain.Extractor) {
	if s.sheets != nil && s.sheets.Supports(fileName) {
		return SourceSheet, s.sheets
	}
	if s.provider != nil {
		return SourceProvider, s.provider
	}
	if s.fallback != nil {
		return SourceFallback, s.fallback
	}
	return "", nil
}
