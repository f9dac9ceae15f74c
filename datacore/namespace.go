package datacore

// Namespace separates Model types from Template types.
type Namespace int

const (
	Models Namespace = iota
	Templates
)

func (n Namespace) String() string {
	switch n {
	case Models:
		return "model"
	case Templates:
		return "template"
	default:
		return "unknown"
	}
}

func (n Namespace) valid() bool {
	return n == Models || n == Templates
}
