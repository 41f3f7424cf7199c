package types

// EngineOutput is the engine's raw answer for a single message.
//
// Consumed wins over Modified: a consumed message has nothing for the
// transport. When neither is set the input passes through untouched.
type EngineOutput struct {
	Text     string
	Modified bool
	Consumed bool
}
