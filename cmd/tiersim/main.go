// Command tiersim replays an address trace through a multi-tier cache
// hierarchy and reports per-access events, final tier contents and stats.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
