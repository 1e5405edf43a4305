// Package ui renders download progress and asks the user questions on the terminal.
//
// Two [tasks.Display] implementations are provided:
//  1. [MultiProgress] : a bubbletea program with a spinner and one progress bar per running task.
//     Finished tasks and log lines are printed above the bars.
//  2. [PlainDisplay] : one styled line when a task starts and one when it finishes, for pipes,
//     log files and interactive runs where prompts share the terminal.
//
// [Prompter] implements the per-record y/N confirmation and free-form questions.
//
// The [MultiProgress] model follows bubbletea's Elm architecture and receives its updates as the
// Msg union type. It never reads input; interrupts are handled by the caller's context.
package ui
