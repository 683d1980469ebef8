package sim

// A PortRef identifies one port of one block by name.
type PortRef struct {
	Block string
	Port  string
}

// A Connection carries the value on a source output port to a destination
// input port. A source port may feed any number of destinations. The core
// does not enforce fan-in uniqueness on a destination port. Connections are
// immutable once the model's execution order is computed.
type Connection struct {
	Src PortRef
	Dst PortRef
}
