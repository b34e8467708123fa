package message

import (
	"math/rand"

	"github.com/handorff/anagram-thief/server/log"
)

// sendDebugID numbers debug log lines so a send and its completion can be paired.
var sendDebugID = rand.Int

// Send is a utility function for sending messages on out.
// When debugging, it prints a message before and after the message is sent to help identify deadlocks.
func Send(m Message, out chan<- Message, debug bool, log log.Logger) {
	if debug {
		id := sendDebugID()
		log.Printf("[id: %v] sending message: %v", id, m)
		defer log.Printf("[id: %v] message sent", id)
	}
	out <- m
}
