// Command elm-pair runs the elm-pair background daemon: it watches an Elm
// project for edits streamed over its editor-driver socket, infers
// refactoring intent, and streams back coordinated multi-file refactors
// that keep the project compiling.
package main

func main() {
	Execute()
}
