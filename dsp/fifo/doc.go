// Package fifo provides a bounded single-producer/single-consumer ring
// buffer for handing values from a control goroutine to a real-time audio
// goroutine (and back) without locks, blocking or allocation.
//
// Exactly one goroutine may call Push and exactly one goroutine may call
// Pull. Both sides publish their position with an atomic store after the
// cell access, so a value written by Push is fully visible to the Pull that
// observes the advanced tail.
//
//	q, _ := fifo.New[effectchain.Order](5)
//	q.Push(order)        // control goroutine
//	for q.Pull(&next) {} // audio goroutine, once per block
package fifo
