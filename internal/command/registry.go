package command

import "sync"

var (
	regMu    sync.RWMutex
	registry = make(map[string]Command)
	order    []string
)

// RegisterCommand adds a command to the registry, applying middlewares
// outermost-last.
func RegisterCommand(cmd Command, mws ...Middleware) {
	cmd = ApplyMiddlewares(cmd, mws...)

	regMu.Lock()
	defer regMu.Unlock()

	if _, exists := registry[cmd.Name()]; !exists {
		order = append(order, cmd.Name())
	}
	registry[cmd.Name()] = cmd
}

// AllCommands returns every registered command in registration order.
func AllCommands() []Command {
	regMu.RLock()
	defer regMu.RUnlock()

	out := make([]Command, 0, len(order))
	for _, name := range order {
		out = append(out, registry[name])
	}
	return out
}

// GetCommand looks a command up by name.
func GetCommand(name string) (Command, bool) {
	regMu.RLock()
	defer regMu.RUnlock()

	cmd, ok := registry[name]
	return cmd, ok
}
