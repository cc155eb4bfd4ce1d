package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/es2/countrysync/internal/domain"
	"github.com/es2/countrysync/internal/logger"
	"github.com/es2/countrysync/internal/repository"
	"github.com/es2/countrysync/internal/storage"
)

const fileTimestampLayout = "20060102150405"

var whitespaceRun = regexp.MustCompile(`\s+`)

// ProviderLookup resolves a provider id into its name and API base URL.
type ProviderLookup interface {
	GetProvider(ctx context.Context, id uint) (*domain.ProviderPayload, error)
}

// SourceFetcher downloads the raw country document of a provider.
type SourceFetcher interface {
	FetchAll(ctx context.Context, apiBaseURL string) ([]byte, error)
}

// CallbackSender posts transformed countries to a sync URL.
type CallbackSender interface {
	Send(ctx context.Context, url string, countries []domain.CountryPayload) error
}

// IngestionConfig holds configuration for the ingestion service.
type IngestionConfig struct {
	Workers        int
	QueueSize      int
	ResumeInterval time.Duration
}

// IngestionService runs the fetch, transform and callback pipeline for ingestion jobs.
// Submitted job ids go through a bounded queue drained by a fixed set of workers.
type IngestionService struct {
	jobs      *repository.JobRepository
	providers ProviderLookup
	source    SourceFetcher
	callback  CallbackSender
	storage   storage.ObjectStorage
	logger    *logger.Logger

	workers        int
	resumeInterval time.Duration
	queue          chan uint

	mu      sync.Mutex
	queued  map[uint]struct{}
	running map[uint]struct{}
	wg      sync.WaitGroup

	now func() time.Time
}

// NewIngestionService creates a new ingestion service. Call Start to begin processing.
// Parameters:
//   - jobs: job store; every status change is one commit.
//   - providers: MDM provider directory client.
//   - source: external provider API client.
//   - callback: client used to deliver results.
//   - objectStorage: destination for raw and transformed documents.
//   - log: base logger.
//   - cfg: worker pool sizing.
// Returns:
//   - *IngestionService: service ready to Start.
func NewIngestionService(
	jobs *repository.JobRepository,
	providers ProviderLookup,
	source SourceFetcher,
	callback CallbackSender,
	objectStorage storage.ObjectStorage,
	log *logger.Logger,
	cfg *IngestionConfig,
) *IngestionService {
	workers, queueSize := 4, 100
	var resume time.Duration
	if cfg != nil {
		if cfg.Workers > 0 {
			workers = cfg.Workers
		}
		if cfg.QueueSize > 0 {
			queueSize = cfg.QueueSize
		}
		resume = cfg.ResumeInterval
	}
	if log == nil {
		log = logger.GetDefault()
	}
	return &IngestionService{
		jobs:           jobs,
		providers:      providers,
		source:         source,
		callback:       callback,
		storage:        objectStorage,
		logger:         log.WithField(logger.FieldComponent, "ingest"),
		workers:        workers,
		resumeInterval: resume,
		queue:          make(chan uint, queueSize),
		queued:         make(map[uint]struct{}),
		running:        make(map[uint]struct{}),
		now:            time.Now,
	}
}

// Start launches the workers and, if configured, the PENDING sweep.
// Workers stop taking new jobs once ctx is cancelled; use Wait to block until runs in progress finish.
func (s *IngestionService) Start(ctx context.Context) {
	ctx = s.logger.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		s.wg.Add(1)
		go func(workerID int) {
			defer s.wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	if _, err := s.ResumePending(ctx); err != nil {
		logger.CtxError(ctx, "Failed to resume pending jobs: %v", err)
	}

	if s.resumeInterval > 0 {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			ticker := time.NewTicker(s.resumeInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if _, err := s.ResumePending(ctx); err != nil {
						logger.CtxWarn(ctx, "Pending sweep failed: %v", err)
					}
				}
			}
		}()
	}

	logger.With(logger.Fields{"workers": s.workers, "queue_size": cap(s.queue)}).Info(ctx, "Ingestion workers started")
}

// Wait blocks until all workers have returned.
func (s *IngestionService) Wait() {
	s.wg.Wait()
}

func (s *IngestionService) worker(ctx context.Context, workerID int) {
	ctx = logger.WithField(ctx, "worker", workerID)
	for {
		select {
		case <-ctx.Done():
			return
		case id := <-s.queue:
			s.mu.Lock()
			delete(s.queued, id)
			s.mu.Unlock()
			// A run in progress is allowed to finish during shutdown.
			s.Run(context.WithoutCancel(ctx), id)
		}
	}
}

// Submit records a PENDING job and hands it to the worker queue.
// It never waits for the pipeline; when the queue is full the job stays PENDING
// and is picked up by the next sweep.
// Parameters:
//   - ctx: request context.
//   - providerID: MDM provider to ingest from.
//   - callbackURL: where the transformed list is POSTed.
// Returns:
//   - *domain.IngestionJob: the persisted PENDING job.
//   - error: non-nil only if the job could not be persisted.
func (s *IngestionService) Submit(ctx context.Context, providerID uint, callbackURL string) (*domain.IngestionJob, error) {
	job := &domain.IngestionJob{
		MDMProviderID: providerID,
		MDMSyncURL:    callbackURL,
		Status:        domain.JobStatusPending,
		StatusMessage: "ingestion request received",
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to create ingestion job: %w", err)
	}

	logger.CtxInfo(logger.WithFields(ctx, logger.Fields{
		logger.FieldJobID:      job.ID,
		logger.FieldProviderID: providerID,
	}), "Ingestion job created")

	if _, full := s.enqueue(job.ID); full {
		logger.CtxWarn(ctx, "Ingestion queue full, job %d stays PENDING until the next sweep", job.ID)
	}
	return job, nil
}

// enqueue adds id to the queue unless it is already queued or running.
// full reports that the queue had no room.
func (s *IngestionService) enqueue(id uint) (added, full bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.queued[id]; ok {
		return false, false
	}
	if _, ok := s.running[id]; ok {
		return false, false
	}
	select {
	case s.queue <- id:
		s.queued[id] = struct{}{}
		return true, false
	default:
		return false, true
	}
}

// claim marks id as running; false means another run already holds it.
func (s *IngestionService) claim(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.running[id]; ok {
		return false
	}
	s.running[id] = struct{}{}
	return true
}

func (s *IngestionService) unclaim(id uint) {
	s.mu.Lock()
	delete(s.running, id)
	s.mu.Unlock()
}

// ResumePending re-queues PENDING jobs that are not already queued or running.
// Returns the number of jobs queued.
func (s *IngestionService) ResumePending(ctx context.Context) (int, error) {
	jobs, err := s.jobs.ListByStatus(ctx, domain.JobStatusPending, cap(s.queue))
	if err != nil {
		return 0, fmt.Errorf("failed to list pending jobs: %w", err)
	}
	queued := 0
	for _, job := range jobs {
		added, full := s.enqueue(job.ID)
		if full {
			break
		}
		if added {
			queued++
		}
	}
	if queued > 0 {
		logger.With(logger.Fields{logger.FieldCount: queued}).Info(ctx, "Resumed pending ingestion jobs")
	}
	return queued, nil
}

// Run executes the pipeline for one job. Every failure ends in FAILED with a
// message; nothing is returned to the caller. Only PENDING jobs are started,
// and a second Run for a job that is already running returns immediately.
func (s *IngestionService) Run(ctx context.Context, jobID uint) {
	ctx = logger.SetJobID(ctx, jobID)
	if !s.claim(jobID) {
		logger.CtxWarn(ctx, "Skipping run: job is already running")
		return
	}
	defer s.unclaim(jobID)
	start := s.now()

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		logger.CtxError(ctx, "Ingestion job not found, nothing to run: %v", err)
		return
	}
	if job.Status != domain.JobStatusPending {
		logger.CtxWarn(ctx, "Skipping run: job is already %s", job.Status)
		return
	}
	ctx = logger.WithField(ctx, logger.FieldProviderID, job.MDMProviderID)

	defer func() {
		if r := recover(); r != nil {
			logger.CtxError(ctx, "Ingestion run panicked: %v", r)
			s.fail(ctx, job, fmt.Errorf("internal error: %v", r))
		}
	}()

	if err := s.pipeline(ctx, job); err != nil {
		s.fail(ctx, job, err)
	}

	logger.With(logger.Fields{
		logger.FieldStatus: string(job.Status),
	}).WithDuration(s.now().Sub(start).Milliseconds()).Info(ctx, "Ingestion run finished")
}

// pipeline performs steps that may fail; the caller turns any error into FAILED.
func (s *IngestionService) pipeline(ctx context.Context, job *domain.IngestionJob) error {
	if err := s.advance(ctx, job, domain.JobStatusProcessing, "resolving provider"); err != nil {
		return err
	}

	provider, err := s.providers.GetProvider(logger.WithField(ctx, logger.FieldStep, "provider"), job.MDMProviderID)
	if err != nil {
		return err
	}
	slug := ProviderSlug(provider.Name, job.MDMProviderID)
	if strings.TrimSpace(provider.APIURL) == "" {
		return errors.New("provider has no API URL")
	}
	if err := s.advance(ctx, job, job.Status, "provider resolved, fetching external data"); err != nil {
		return err
	}

	raw, err := s.source.FetchAll(logger.WithField(ctx, logger.FieldStep, "fetch"), provider.APIURL)
	if err != nil {
		return err
	}

	rawKey := fmt.Sprintf("raw/%s/raw_ingestion_%d_%s.json", slug, job.ID, s.now().Format(fileTimestampLayout))
	rawPath, err := storage.PutBytes(ctx, s.storage, rawKey, raw, storage.ContentTypeJSON)
	if err != nil {
		return fmt.Errorf("failed to save raw data: %w", err)
	}
	job.RawDataPath = rawPath
	if err := s.advance(ctx, job, job.Status, "raw data saved"); err != nil {
		return err
	}
	logger.With(logger.Fields{logger.FieldSize: len(raw)}).Info(ctx, "Raw data saved to %s", rawPath)

	if err := s.advance(ctx, job, job.Status, "transforming data"); err != nil {
		return err
	}
	stored, err := storage.ReadAll(ctx, s.storage, rawKey)
	if err != nil {
		return fmt.Errorf("failed to read raw data back: %w", err)
	}
	countries, err := TransformCountries(logger.WithField(ctx, logger.FieldStep, "transform"), stored)
	if err != nil {
		return err
	}

	transformed, err := json.MarshalIndent(countries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode transformed data: %w", err)
	}
	transformedKey := fmt.Sprintf("transformed/%s/transformed_ingestion_%d_%s.json", slug, job.ID, s.now().Format(fileTimestampLayout))
	transformedPath, err := storage.PutBytes(ctx, s.storage, transformedKey, transformed, storage.ContentTypeJSON)
	if err != nil {
		return fmt.Errorf("failed to save transformed data: %w", err)
	}
	job.TransformedDataPath = transformedPath
	if err := s.advance(ctx, job, domain.JobStatusReady, "data transformed and ready to send"); err != nil {
		return err
	}
	logger.With(logger.Fields{logger.FieldCount: len(countries)}).Info(ctx, "Transformed data saved to %s", transformedPath)

	if len(countries) == 0 {
		return errors.New("nothing to send")
	}

	if err := s.advance(ctx, job, domain.JobStatusProcessing, "sending to callback"); err != nil {
		return err
	}
	if err := s.callback.Send(logger.WithField(ctx, logger.FieldStep, "callback"), job.MDMSyncURL, countries); err != nil {
		return err
	}
	return s.advance(ctx, job, domain.JobStatusCompleted, "callback accepted")
}

// advance applies a transition, or a message update when next is the current status,
// and commits it before the next step starts.
func (s *IngestionService) advance(ctx context.Context, job *domain.IngestionJob, next domain.JobStatus, message string) error {
	var err error
	if next == job.Status {
		err = job.Note(message)
	} else {
		err = job.Transition(next, message)
	}
	if err != nil {
		return err
	}
	if err := s.jobs.Save(ctx, job); err != nil {
		return fmt.Errorf("failed to persist job status: %w", err)
	}
	logger.CtxDebug(ctx, "Job %d is %s: %s", job.ID, job.Status, message)
	return nil
}

func (s *IngestionService) fail(ctx context.Context, job *domain.IngestionJob, cause error) {
	logger.CtxError(ctx, "Ingestion failed: %v", cause)
	if err := job.Transition(domain.JobStatusFailed, cause.Error()); err != nil {
		logger.CtxWarn(ctx, "Cannot mark job failed: %v", err)
		return
	}
	if err := s.jobs.Save(context.WithoutCancel(ctx), job); err != nil {
		logger.CtxError(ctx, "Failed to persist FAILED status: %v", err)
	}
}

// Get returns the current state of a job.
func (s *IngestionService) Get(ctx context.Context, id uint) (*domain.IngestionJob, error) {
	return s.jobs.GetByID(ctx, id)
}

// List returns every job ordered by id.
func (s *IngestionService) List(ctx context.Context) ([]domain.IngestionJob, error) {
	return s.jobs.List(ctx)
}

// ProviderSlug derives the directory name used for a provider's artifacts:
// whitespace runs become underscores and the result is lowercased.
// A blank name falls back to provider_<id>.
func ProviderSlug(name string, providerID uint) string {
	if strings.TrimSpace(name) == "" {
		return fmt.Sprintf("provider_%d", providerID)
	}
	slug := whitespaceRun.ReplaceAllString(name, "_")
	slug = strings.NewReplacer("/", "_", `\`, "_").Replace(slug)
	if slug == "." || slug == ".." {
		return fmt.Sprintf("provider_%d", providerID)
	}
	return strings.ToLower(slug)
}
