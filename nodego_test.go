package nodego

import (
	"log/slog"
	"os"
	"testing"
	"time"
)

func TestRunExecutesScriptAndReturnsExitCode(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))

	done := make(chan int, 1)
	go func() {
		done <- rt.Run("exit.js", `process.exit(3)`)
	}()

	select {
	case code := <-done:
		if code != 3 {
			t.Fatalf("exit code = %d, want 3", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestRunDefaultsExitCodeToZero(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))

	done := make(chan int, 1)
	go func() {
		done <- rt.Run("noop.js", `process.exit()`)
	}()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for Run to return")
	}
}

func TestRunReturnsOneOnCompileError(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
	code := rt.Run("broken.js", `this is not valid javascript {{{`)
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
}

func TestRunTerminatesNaturallyWithoutProcessExit(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))

	done := make(chan int, 1)
	go func() {
		done <- rt.Run("plain.js", `console.log("hello")`)
	}()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run hung: a script with no outstanding work and no process.exit() must still terminate")
	}
}

func TestRunTerminatesNaturallyAfterOneShotTimerWithNoExit(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))

	done := make(chan int, 1)
	go func() {
		done <- rt.Run("timer-no-exit.js", `
			setTimeout(function() {
				console.log("fired");
			}, 1);
		`)
	}()

	select {
	case code := <-done:
		if code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run hung after the only pending timer fired with no process.exit() call")
	}
}

func TestRunDoesNotTerminateWhileRecurringTimerIsLive(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))

	done := make(chan int, 1)
	go func() {
		done <- rt.Run("interval.js", `
			var n = 0;
			setInterval(function() {
				n++;
			}, 1);
		`)
	}()

	select {
	case <-done:
		t.Fatal("Run returned despite a live recurring timer keeping the process alive")
	case <-time.After(200 * time.Millisecond):
		// Expected: the uncancelled interval keeps the pool active, so Run
		// must not exit on its own.
	}
}

func TestRunDrivesTimerThenExits(t *testing.T) {
	rt := New(WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))

	done := make(chan int, 1)
	go func() {
		done <- rt.Run("timer.js", `
			setTimeout(function() {
				process.exit(5);
			}, 1);
		`)
	}()

	select {
	case code := <-done:
		if code != 5 {
			t.Fatalf("exit code = %d, want 5", code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the timer-driven exit")
	}
}
