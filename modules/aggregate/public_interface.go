package aggregate

import "github.com/chebyrash/promise"

// Plugin is a component with a lifecycle: the config file, the wallet.
type Plugin interface {
	// Loads or creates what the plugin needs. Called in registration order.
	Init() error
	// Resolves once the plugin is usable. Must not block.
	Start() *promise.Promise[any]
	// Releases resources. Called in reverse registration order.
	Stop() error
}
