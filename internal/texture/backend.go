package texture

// Request asks a backend to decode one file under a policy.
type Request struct {
	Path   string
	Policy Policy
}

// Result is the outcome of a Request. Exactly one of Texture and Err is set.
type Result struct {
	Texture *Texture
	Err     *DecodeError
}

// Backend decodes textures off the caller's goroutine.
// Submit must not block, and must call done exactly once per request,
// from any goroutine.
type Backend interface {
	Submit(req Request, done func(Result))
}
