// Package broadcast fans session events out to the live listeners watching
// a session. Delivery is best effort: a dead or failing listener never
// blocks its siblings and never fails the operation that triggered the
// broadcast.
package broadcast
