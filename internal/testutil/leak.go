package testutil

import "go.uber.org/goleak"

// LeakOptions ignores the goroutines the socket.io stack starts from package
// init and keeps for the life of the process.
func LeakOptions() []goleak.Option {
	return []goleak.Option{
		goleak.IgnoreTopFunction("github.com/zishang520/engine.io-client-go/engine.setupSignalHandling.func1"),
		goleak.IgnoreTopFunction("github.com/zishang520/engine.io/v2/utils.SetInterval.func1"),
		goleak.IgnoreTopFunction("os/signal.NotifyContext.func1"),
	}
}
