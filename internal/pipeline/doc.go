// Package pipeline runs recognition and annotation off the UI goroutine.
//
// A Runner takes an image path, runs the Recognizer and the Annotator on a
// worker goroutine, writes the annotated JPEG, and hands the outcome back to
// the goroutine that owns the UI through a Dispatcher. Callbacks are never
// invoked on a worker goroutine.
//
// # Scheduling
//
// Workers are bounded by a weighted semaphore. Two policies decide which
// result the UI ends up showing when requests overlap:
//
//   - Supersede (default): starting a request cancels the one before it. A
//     superseded request never reaches its callbacks, so the display always
//     matches the most recently started request.
//   - Parity (Supersede=false): every request runs to completion and delivers
//     its own callbacks. The request that finishes last wins the display,
//     whichever was started last.
//
// Tesseract cannot be interrupted mid-inference. Cancellation stops a
// request before it gets a worker or an engine client, and discards its
// result if it was already running.
//
// # Dispatchers
//
// Loop is a channel-backed dispatcher for programs without a GUI toolkit:
// the goroutine calling Run executes every dispatched function in order.
// GUI front ends adapt their toolkit's main-thread hook instead.
package pipeline
