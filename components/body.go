package components

// Handle is the opaque reference returned by a presentation factory.
type Handle uint64

// Body holds identity shared by every agent.
type Body struct {
	ID     uint32
	Kind   Kind
	Handle Handle
}
