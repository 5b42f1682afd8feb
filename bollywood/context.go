package bollywood

// Context is what Receive sees for one message.
type Context interface {
	Engine() *Engine
	Self() *PID
	// Sender is nil for messages posted by timers, pumps and handlers.
	Sender() *PID
	Message() interface{}
}

type messageContext struct {
	engine  *Engine
	self    *PID
	sender  *PID
	message interface{}
}

func (c *messageContext) Engine() *Engine {
	return c.engine
}

func (c *messageContext) Self() *PID {
	return c.self
}

func (c *messageContext) Sender() *PID {
	return c.sender
}

func (c *messageContext) Message() interface{} {
	return c.message
}
