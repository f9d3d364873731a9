package refresh

import (
	"context"
	"sync"

	"github.com/VoxDroid/rpkgs/internal/executor"
	"github.com/VoxDroid/rpkgs/internal/history"
	"github.com/VoxDroid/rpkgs/internal/packages"
)

// fakeRuntime is an executor.Runtime whose Execute behavior is scripted.
type fakeRuntime struct {
	noRuntime bool
	execute   func(req executor.Request) (*executor.Execution, error)

	mu   sync.Mutex
	reqs []executor.Request
}

func (f *fakeRuntime) RegisteredRuntimes(context.Context) ([]executor.RuntimeInfo, error) {
	if f.noRuntime {
		return nil, nil
	}
	return []executor.RuntimeInfo{{LanguageID: executor.LanguageR, Name: "R", Path: "/usr/bin/R"}}, nil
}

func (f *fakeRuntime) ActiveSessions(context.Context) ([]executor.SessionInfo, error) {
	if f.noRuntime {
		return nil, nil
	}
	return []executor.SessionInfo{{ID: "r-1", RuntimeMetadata: executor.RuntimeInfo{LanguageID: executor.LanguageR}}}, nil
}

func (f *fakeRuntime) Execute(_ context.Context, req executor.Request) (*executor.Execution, error) {
	f.mu.Lock()
	f.reqs = append(f.reqs, req)
	f.mu.Unlock()
	if f.execute == nil {
		return executor.Finished("x", nil), nil
	}
	return f.execute(req)
}

func (f *fakeRuntime) requests() []executor.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]executor.Request(nil), f.reqs...)
}

// fakeStore records published snapshots.
type fakeStore struct {
	mu        sync.Mutex
	snapshots [][]packages.Record
}

func (s *fakeStore) Refresh(records []packages.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots = append(s.snapshots, records)
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.snapshots)
}

func (s *fakeStore) last() []packages.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snapshots) == 0 {
		return nil
	}
	return s.snapshots[len(s.snapshots)-1]
}

type fakeJournal struct {
	mu      sync.Mutex
	entries []history.Entry
}

func (j *fakeJournal) Record(e history.Entry) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, e)
	return int64(len(j.entries)), nil
}

func (j *fakeJournal) all() []history.Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]history.Entry(nil), j.entries...)
}
