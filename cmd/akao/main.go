// Command akao validates projects against rule definitions: it
// discovers files, evaluates enabled rules, and reports violations
// with compliance scoring.
package main

func main() {
	Execute()
}
