package ir

// Message is an immutable record in the store.
type Message struct {
	ID      Uint64 `json:"id"`      // Allocated, never reused
	Owner   string `json:"owner"`   // Sender identity, stored verbatim
	Topic   string `json:"topic"`
	Message string `json:"message"` // Body
}

// MessageInfo carries the caller identity supplied by the host.
type MessageInfo struct {
	Sender string `json:"sender"`
}

// Env describes the transition being executed.
type Env struct {
	Height uint64 `json:"height"` // Logical clock of the host
	TxID   string `json:"tx_id"`
}

// Attribute is a key/value pair emitted by a state transition.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the observable result of a transition.
type Response struct {
	Attributes []Attribute `json:"attributes"`
}

// NewResponse returns a Response with no attributes.
func NewResponse() Response {
	return Response{Attributes: []Attribute{}}
}

// AddAttribute appends an attribute and returns the response for chaining.
func (r Response) AddAttribute(key, value string) Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// Attribute returns the value of the first attribute with key.
func (r Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// MessagesResponse is returned by every listing and lookup query.
// Messages is never nil so it encodes as [] when empty.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
}
