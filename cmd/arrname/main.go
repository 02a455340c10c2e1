// Command arrname parses scene release names and media library paths.
package main

func main() {
	Execute()
}
