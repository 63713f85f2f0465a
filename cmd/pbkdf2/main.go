// Command pbkdf2 creates, verifies and inspects PBKDF2 password hashes in the
// iterations::salt::key format.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
