// Package prompt collects form values interactively in the terminal.
//
// Collector walks a form.Definition in order and asks for each field through
// a PromptDriver. The default driver is backed by survey; tests script
// answers through their own driver.
package prompt
