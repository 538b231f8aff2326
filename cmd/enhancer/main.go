// SPDX-License-Identifier: MPL-2.0

// Command enhancer post-processes compiled class artifacts in place.
package main

func main() {
	execute()
}
