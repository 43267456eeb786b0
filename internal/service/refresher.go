package service

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WordlistRefresher periodically reloads the banned wordlist from the store
// so moderation picks up new terms without a restart.
type WordlistRefresher struct {
	service  *MessageService
	interval time.Duration
	log      zerolog.Logger

	mu        sync.Mutex
	stopChan  chan struct{}
	isRunning bool
}

func NewWordlistRefresher(service *MessageService, interval time.Duration, log zerolog.Logger) *WordlistRefresher {
	return &WordlistRefresher{
		service:  service,
		interval: interval,
		log:      log,
	}
}

func (r *WordlistRefresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		r.log.Info().Msg("wordlist refresher is already running")
		return nil
	}
	r.stopChan = make(chan struct{})
	r.isRunning = true
	go r.run(r.stopChan)
	return nil
}

// run owns its ticker and stop channel so a later Stop/Start cycle never
// touches state this goroutine is still using.
func (r *WordlistRefresher) run(stopChan chan struct{}) {
	r.log.Info().Dur("interval", r.interval).Msg("wordlist refresher started")
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopChan:
			r.log.Info().Msg("wordlist refresher stopped")
			return
		case <-ticker.C:
			if err := r.service.ReloadBannedWords(); err != nil {
				r.log.Warn().Err(err).Msg("banned wordlist refresh failed")
			}
		}
	}
}

func (r *WordlistRefresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isRunning {
		r.log.Info().Msg("wordlist refresher is not running")
		return nil
	}
	close(r.stopChan)
	r.isRunning = false
	return nil
}

func (r *WordlistRefresher) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isRunning
}
