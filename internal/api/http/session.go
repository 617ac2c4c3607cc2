package apihttp

import (
	"sync"

	dataset "energy-audit/internal/dataset/domain"
	"energy-audit/internal/model"
)

// Session is the shell-owned analysis state: the current dataset and the
// last fit. The pipeline itself is stateless; only the HTTP shell keeps a
// session, and a new upload replaces everything.
type Session struct {
	mu  sync.RWMutex
	ds  *dataset.Dataset
	fit *model.Result
}

// NewSession constructs an empty session.
func NewSession() *Session {
	return &Session{}
}

// Replace installs a freshly uploaded dataset and discards any prior fit.
func (s *Session) Replace(ds *dataset.Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.fit = nil
}

// Dataset returns the current dataset, if one was uploaded.
func (s *Session) Dataset() (*dataset.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds, s.ds != nil
}

// SetFit stores a fit result together with the dataset it was computed
// on (which may have been weather-enriched).
func (s *Session) SetFit(ds *dataset.Dataset, fit *model.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
	s.fit = fit
}

// Fit returns the last fit result, if any.
func (s *Session) Fit() (*model.Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fit, s.fit != nil
}
