// Package confloader loads layered configuration and watches config files.
//
// Layers apply with priority Flag > Env > File > Default. Defaults come from
// the target struct passed to Load. Each layer is loaded on its own so
// Settings can report which one set a key.
//
// Watcher debounces editor saves before notifying handlers.
package confloader
