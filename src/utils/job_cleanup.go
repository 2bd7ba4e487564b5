// Package utils holds background maintenance helpers.
package utils

import (
	"context"
	"log"
	"time"

	"github.com/alumnet/alumnet-backend/src/repository"
)

// JobCleaner sweeps job postings whose application deadline has passed.
type JobCleaner struct {
	jobs     repository.JobRepo
	interval time.Duration
}

func NewJobCleaner(jobs repository.JobRepo, interval time.Duration) *JobCleaner {
	return &JobCleaner{jobs: jobs, interval: interval}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. Callers run it in its own goroutine.
func (c *JobCleaner) Run(ctx context.Context) {
	log.Printf("Job cleanup scheduler started, interval %v", c.interval)

	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Job cleanup scheduler stopped")
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

func (c *JobCleaner) sweep(ctx context.Context) {
	deleted, err := c.jobs.DeleteExpired(ctx, time.Now())
	if err != nil {
		log.Printf("Error deleting expired jobs: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("Deleted %d expired job(s)", deleted)
	}
}
