// Command muhasabah runs the muhasabah API server and its maintenance tasks.
package main

func main() {
	Execute()
}
