package syncer

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sync replaces the local state with the server's when a session exists. The
// four collections are fetched concurrently; if any fetch fails nothing
// changes and the error is returned for the caller to log.
func (s *Synchronizer) Sync(ctx context.Context) error {
	if !s.Authenticated() {
		return nil
	}

	var data remoteData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.habits, err = s.remote.ListHabits(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.completions, err = s.remote.ListCompletions(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.todos, err = s.remote.ListTodos(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.logs, err = s.remote.ListLogs(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logRemoteFailure("sync", err)
		return err
	}

	s.mu.Lock()
	previous := s.state
	s.mu.Unlock()

	s.replace(fromRemote(data, previous))
	s.log.Info("Synced from server", "habits", len(data.habits), "todos", len(data.todos), "logs", len(data.logs))
	return nil
}
