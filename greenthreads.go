package greenthreads

import "sync"

var (
	defaultOnce  sync.Once
	defaultSched *Scheduler
	defaultErr   error
)

// Default returns the package-level default Scheduler, constructing it
// with no options on first use. Most programs only need one scheduler
// per OS thread; Default exists for that common case.
func Default() (*Scheduler, error) {
	defaultOnce.Do(func() {
		defaultSched, defaultErr = New()
	})
	return defaultSched, defaultErr
}

// Create, Run, and Shutdown below are thin forwards onto Default(), for
// callers that only ever need a single process-wide scheduler. The
// other operations (Yield, Sleep, Exit, Join, SelfID, SetTickets) have
// no package-level forward; call them on the Scheduler itself.

func Create(name string, entry EntryFunc, arg any, tickets int) (*Fiber, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	return s.Create(name, entry, arg, tickets)
}

func Run() error {
	s, err := Default()
	if err != nil {
		return err
	}
	return s.Run()
}

func Shutdown() error {
	s, err := Default()
	if err != nil {
		return err
	}
	s.Shutdown()
	return nil
}
