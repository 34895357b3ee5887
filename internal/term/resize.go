package term

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// SignalFlags holds the SIGWINCH/SIGTSTP flags the dispatch loop polls
// at the top of each iteration (spec §9: "Signals ... set flags
// checked at the top of the dispatch loop; they never pre-empt the
// middle of a command").
type SignalFlags struct {
	resized  atomic.Bool
	stopped  atomic.Bool
	sigCh    chan os.Signal
}

// WatchSignals starts listening for SIGWINCH and SIGTSTP, setting the
// corresponding flag on each delivery. The flags are polled, not
// pushed: nothing here touches editor state directly.
func WatchSignals() *SignalFlags {
	f := &SignalFlags{sigCh: make(chan os.Signal, 4)}
	signal.Notify(f.sigCh, syscall.SIGWINCH, syscall.SIGTSTP)
	go func() {
		for sig := range f.sigCh {
			switch sig {
			case syscall.SIGWINCH:
				f.resized.Store(true)
			case syscall.SIGTSTP:
				f.stopped.Store(true)
			}
		}
	}()
	return f
}

// TakeResized reports and clears the pending-resize flag.
func (f *SignalFlags) TakeResized() bool { return f.resized.Swap(false) }

// TakeStopped reports and clears the pending-stop flag.
func (f *SignalFlags) TakeStopped() bool { return f.stopped.Swap(false) }

// Stop stops listening for signals.
func (f *SignalFlags) Stop() { signal.Stop(f.sigCh); close(f.sigCh) }
