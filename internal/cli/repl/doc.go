// Package repl implements the interactive kvplay console.
//
// The console owns the current store snapshot and threads it through the
// interpreter. A background ticker sweeps expired keys. Besides the command
// language it understands a few meta commands:
//
//	help [command]   list commands or show one command's usage
//	clear            drop every key
//	:dump [format]   print the store as a table, JSON or YAML
//	:history [glob]  print the input history, optionally filtered
//	:stats           print command and expiry counters
//	exit, quit       leave the console
//
// A line ending in "?" lists the commands starting with the text before it.
package repl
