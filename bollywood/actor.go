package bollywood

// Actor owns its state and sees one message at a time, in mailbox order.
type Actor interface {
	Receive(ctx Context)
}
