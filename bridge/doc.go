// Package bridge orchestrates the ordered asynchronous startup of the
// native engine bridge.
//
// The controller walks a strict sequence: load the artifact, hand-bind the
// frame-fetch symbol, resolve a working directory, build the call surface,
// conditionally start platform services, start the event listener, resolve
// the home directory, query device identity, run connection-manager setup
// when acting in that role, push identity and config into the engine, and
// only then mark the bridge Ready.
//
// Each non-fatal step owns its own recovery boundary: a panic or error is
// logged and the sequence continues. Loading the artifact, binding the call
// surface, and the final engine init are fatal; a fatal failure leaves the
// bridge permanently non-Ready, and restarting the process is the only
// recovery. Call-surface operations other than Start are undefined before
// Ready — callers check Ready() first.
//
// The controller is an explicitly constructed object with a single-Start
// guarantee; there is no implicit process-wide instance. Construct one and
// pass it to every consumer.
package bridge
