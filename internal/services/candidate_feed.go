package services

import (
	"sync"

	"github.com/nicolebling/CupCircle-sub000/internal/models"
)

const candidatePageSize = 10

// CandidateFeed owns pagination over one ranked candidate set. The ranker
// is stateless per invocation; the feed holds the full filtered set and
// hands it out in fixed-size pages. Any filter change means a fresh
// ranking and a Reset back to page zero.
type CandidateFeed struct {
	mu      sync.Mutex
	all     []models.Candidate
	loaded  int
	partial bool
}

func NewCandidateFeed(set *CandidateSet) *CandidateFeed {
	feed := &CandidateFeed{}
	feed.Reset(set)
	return feed
}

// LoadNext returns the next page, or an empty slice when every page has
// already been handed out.
func (f *CandidateFeed) LoadNext() []models.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()

	start := f.loaded * candidatePageSize
	if start >= len(f.all) {
		return []models.Candidate{}
	}
	end := start + candidatePageSize
	if end > len(f.all) {
		end = len(f.all)
	}
	f.loaded++

	page := make([]models.Candidate, end-start)
	copy(page, f.all[start:end])
	return page
}

// Loaded returns everything handed out so far, in order.
func (f *CandidateFeed) Loaded() []models.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()

	end := f.loaded * candidatePageSize
	if end > len(f.all) {
		end = len(f.all)
	}
	loaded := make([]models.Candidate, end)
	copy(loaded, f.all[:end])
	return loaded
}

func (f *CandidateFeed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded*candidatePageSize < len(f.all)
}

// Page is the number of pages handed out so far; zero right after Reset.
func (f *CandidateFeed) Page() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}

func (f *CandidateFeed) Partial() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.partial
}

func (f *CandidateFeed) Total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.all)
}

// Reset replaces the backing set and returns the feed to page zero.
func (f *CandidateFeed) Reset(set *CandidateSet) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.loaded = 0
	f.all = nil
	f.partial = false
	if set != nil {
		f.all = set.Candidates
		f.partial = set.Partial
	}
}
