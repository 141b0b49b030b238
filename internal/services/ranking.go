// Ranking service client
//
// All reads collapse failures into absence: see [FetchJSON].
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/qpm/internal/shared"
	"github.com/samber/lo"
	"golang.org/x/time/rate"
)

const defaultRankingBaseURL string = "https://scoresaber.com/api/ranking"

// RankingOpts contains configuration for a [RankingService].
type RankingOpts struct {
	BaseURL    string        // Defaults to the public ScoreSaber ranking API
	HTTPClient *http.Client  // Defaults to [http.DefaultClient]
	Timeout    time.Duration // Per request, 0 leaves the transport default
	RateLimit  float64       // Requests per second, 0 disables limiting
	RateBurst  int           // Defaults to 1 when limiting
	Logger     *log.Logger
}

// RankingService reads the ranking queue and per-request details.
type RankingService struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *log.Logger
}

// NewRankingService creates a ranking client from opts.
func NewRankingService(opts RankingOpts) *RankingService {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultRankingBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, opts.RateBurst))
	}

	return &RankingService{
		baseURL:    strings.TrimSuffix(opts.BaseURL, "/"),
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		limiter:    limiter,
		logger:     shared.WithLogger(opts.Logger, "component", "ranking"),
	}
}

// NewRankingServiceFromConfig creates a ranking client from the [shared.RankingConfig] section.
func NewRankingServiceFromConfig(cfg shared.RankingConfig, logger *log.Logger) *RankingService {
	return NewRankingService(RankingOpts{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.RequestTimeout(),
		RateLimit: cfg.RateLimit,
		RateBurst: cfg.RateBurst,
		Logger:    logger,
	})
}

// Name returns the service name.
func (s *RankingService) Name() string {
	return "ScoreSaber Ranking"
}

// PartitionURL returns the listing URL for a queue partition.
func (s *RankingService) PartitionURL(p Partition) string {
	return fmt.Sprintf("%s/requests/%s", s.baseURL, p)
}

// RequestURL returns the detail URL for a single ranking request.
func (s *RankingService) RequestURL(requestID int) string {
	return fmt.Sprintf("%s/request/%d", s.baseURL, requestID)
}

// FetchJSON performs a GET against url and decodes the body into T.
//
// ok is true only for a 2xx response whose body decodes into T. Transport errors, non-2xx statuses,
// rate limiter interruptions and malformed or mismatched JSON all return ok == false, and callers cannot
// tell them apart. The cause is logged at debug level.
func FetchJSON[T any](ctx context.Context, s *RankingService, url string) (T, bool) {
	var result T
	if err := s.getJSON(ctx, url, &result); err != nil {
		s.logger.Debug("fetch collapsed to absent", "url", url, "err", err)
		var zero T
		return zero, false
	}
	return result, true
}

func (s *RankingService) getJSON(ctx context.Context, url string, out any) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("ranking API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// FetchPartition fetches a single queue partition.
func (s *RankingService) FetchPartition(ctx context.Context, p Partition) ([]QueueEntry, bool) {
	return FetchJSON[[]QueueEntry](ctx, s, s.PartitionURL(p))
}

// FetchRequest fetches the details of one ranking request.
func (s *RankingService) FetchRequest(ctx context.Context, requestID int) (*QueueEntry, bool) {
	entry, ok := FetchJSON[QueueEntry](ctx, s, s.RequestURL(requestID))
	if !ok {
		return nil, false
	}
	return &entry, true
}

// FetchQueue fetches every partition concurrently and concatenates the entries.
//
// A partition that cannot be fetched contributes nothing; if all fail the result is empty.
func (s *RankingService) FetchQueue(ctx context.Context) []QueueEntry {
	parts := make([][]QueueEntry, len(Partitions))

	var wg sync.WaitGroup
	for i, p := range Partitions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if entries, ok := s.FetchPartition(ctx, p); ok {
				parts[i] = entries
			} else {
				s.logger.Warn("queue partition unavailable", "partition", p)
			}
		}()
	}
	wg.Wait()

	entries := lo.Flatten(parts)
	if entries == nil {
		entries = []QueueEntry{}
	}
	return entries
}
