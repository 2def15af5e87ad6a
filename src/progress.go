package bookforge

// progressor receives human-readable updates during long generation runs so
// callers can surface them (websocket, console) without the generation code
// knowing about the transport.
type progressor interface {
	UpdateOutput(message string)
}

type nullProgressor struct{}

func (nullProgressor) UpdateOutput(string) {}

// Progressor is the exported alias callers implement.
type Progressor = progressor

func orNull(p progressor) progressor {
	if p != nil {
		return p
	}
	return nullProgressor{}
}
