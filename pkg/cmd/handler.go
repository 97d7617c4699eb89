package cmd

// Handler is the only capability a command type needs. Every exported method
// other than CommandName and CommandVariants becomes a variant of the command.
//
// Supported method shapes:
//
//	func (h *H) Foo(args...) string
//	func (h *H) Foo(args...) (string, error)
//
// Parameters of type Target, CallerID and context.Context are bound from the
// invocation and consume no token.
type Handler interface {
	CommandName() string
}

// VariantProvider lets a handler attach options to its methods. Variants are
// tried in the order listed here, then the remaining methods by name.
type VariantProvider interface {
	CommandVariants() []Variant
}

// Variant holds the declarative options of one handler method.
type Variant struct {
	Method       string
	Access       Access
	RequireReady bool
	// MultiTarget consumes the first token as a target pattern and runs the
	// method once per resolved target.
	MultiTarget bool
	// Args describes the token-consuming parameters, in order. Missing
	// entries are named arg1, arg2, ...
	Args []Arg
}

// Arg names a token-consuming parameter and sets its validation flags.
type Arg struct {
	Name string
	// Text makes a string parameter swallow every remaining token, joined by
	// single spaces. Only the last token-consuming parameter may set it.
	Text    bool
	NonZero bool
}
