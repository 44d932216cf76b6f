package cron

import (
	"context"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v6"
	cronv3 "github.com/robfig/cron/v3"

	"github.com/snapstack/snapstack/config"
	"github.com/snapstack/snapstack/interfaces"
	cron_config "github.com/snapstack/snapstack/internal/cron/config"
	"github.com/snapstack/snapstack/internal/logger"
	"github.com/snapstack/snapstack/internal/tracing"
	"github.com/snapstack/snapstack/internal/utils"
)

const (
	// GroupStorage serializes jobs that touch the photo bucket
	GroupStorage = "storage"

	// orphanGracePeriod keeps freshly uploaded objects out of the sweep;
	// an upload may land before its post row commits.
	orphanGracePeriod = 24 * time.Hour
)

// LOCK MANAGEMENT
var jobLocks = struct {
	sync.Mutex
	locks map[string]*sync.Mutex
}{
	locks: map[string]*sync.Mutex{
		GroupStorage: new(sync.Mutex),
	},
}

type CronManager struct {
	cfg     *config.Config
	log     logger.Logger
	cron    *cronv3.Cron
	stopCh  chan struct{}
	jobIDs  map[string]cronv3.EntryID
	posts   interfaces.PostRepository
	storage interfaces.StorageService
}

func NewCronManager(cfg *config.Config, log logger.Logger, posts interfaces.PostRepository, storage interfaces.StorageService) *CronManager {
	return &CronManager{
		cfg:     cfg,
		log:     log,
		stopCh:  make(chan struct{}),
		jobIDs:  make(map[string]cronv3.EntryID),
		posts:   posts,
		storage: storage,
	}
}

// Start initializes and starts the cron scheduler.
func (cm *CronManager) Start() error {
	cm.StartCron()
	return nil
}

// Stop gracefully stops the cron manager
func (cm *CronManager) Stop() {
	if cm.cron != nil {
		cm.log.Info("Stopping cron manager")
		ctx := cm.cron.Stop()
		// Wait for jobs to finish
		<-ctx.Done()
	}
	close(cm.stopCh)
}

// registerJobs adds all cron jobs to the scheduler
func (cm *CronManager) registerJobs(c *cronv3.Cron) {
	// Load cron config from environment variables
	var cronConfig cron_config.Config
	if err := env.Parse(&cronConfig); err != nil {
		cm.log.Fatalf("Failed to parse cron config from environment: %v", err)
	}

	// Register heartbeat job
	if cronConfig.CronScheduleHeartbeat != "" {
		podName := os.Getenv("POD_NAME")
		if podName == "" {
			podName = "local"
		}
		id, err := c.AddFunc(cronConfig.CronScheduleHeartbeat, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			cm.log.Infof("Cron heartbeat from pod: %s", podName)
		})
		if err != nil {
			cm.log.Fatalf("Could not add heartbeat cron job: %v", err)
		}
		cm.jobIDs["heartbeat"] = id
		cm.log.Infof("Registered heartbeat job with schedule: %s", cronConfig.CronScheduleHeartbeat)
	}

	// Add orphaned photo sweep job
	if cronConfig.CronScheduleOrphanSweep != "" {
		id, err := c.AddFunc(cronConfig.CronScheduleOrphanSweep, func() {
			defer tracing.RecoverAndLogToJaeger(cm.log)
			jobLocks.locks[GroupStorage].Lock()
			defer jobLocks.locks[GroupStorage].Unlock()
			cm.sweepOrphanedPhotos()
		})
		if err != nil {
			cm.log.Fatalf("Could not add orphan sweep cron job: %v", err)
		}
		cm.jobIDs["orphan_sweep"] = id
		cm.log.Infof("Registered orphan sweep job with schedule: %s", cronConfig.CronScheduleOrphanSweep)
	}
}

// StartCron initializes and starts the cron scheduler
func (cm *CronManager) StartCron() {
	cm.log.Info("Starting cron manager")
	// Create a new cron with seconds field enabled and panic recovery
	cronOptions := []cronv3.Option{
		cronv3.WithSeconds(),
		cronv3.WithChain(
			cronv3.SkipIfStillRunning(cronv3.DefaultLogger), // Skip if still running
			cronv3.Recover(cronv3.DefaultLogger),            // Default recovery as backup
		),
	}
	c := cronv3.New(cronOptions...)
	cm.registerJobs(c)
	c.Start()
	cm.cron = c
}

// sweepOrphanedPhotos deletes bucket objects that no post references.
// Objects younger than the grace period are left alone.
func (cm *CronManager) sweepOrphanedPhotos() {
	cm.log.Info("Running orphaned photo sweep")

	ctx := context.Background()

	span, ctx := tracing.StartTracerSpan(ctx, "CronManager.sweepOrphanedPhotos")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	keys, err := cm.storage.ListKeys(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to list photo objects: %v", err)
		return
	}

	posts, err := cm.posts.List(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		cm.log.Errorf("Failed to list posts: %v", err)
		return
	}

	referenced := make(map[string]bool, len(posts))
	for _, post := range posts {
		referenced[post.StorageKey()] = true
	}

	removed := 0
	for _, key := range keys {
		if referenced[key] {
			continue
		}
		if uploadedWithin(key, orphanGracePeriod) {
			continue
		}
		if err := cm.storage.Delete(ctx, key); err != nil {
			tracing.TraceErr(span, err)
			cm.log.Warnf("Failed to delete orphaned object %s: %v", key, err)
			continue
		}
		removed++
	}

	span.SetTag("objects.removed", removed)
	cm.log.Infof("Orphaned photo sweep removed %d objects", removed)
}

// uploadedWithin reports whether the key's millisecond timestamp prefix
// falls inside the window. Keys without the prefix are treated as recent
// so they are never swept.
func uploadedWithin(key string, window time.Duration) bool {
	prefix, _, found := strings.Cut(key, "-")
	if !found {
		return true
	}
	millis, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return true
	}
	uploadedAt := time.UnixMilli(millis).UTC()
	return utils.Now().Sub(uploadedAt) < window
}
