package pipeline

import "errors"

// ErrInvalidInput marks a request rejected before the pipeline ran. The HTTP
// layer maps it to 400; content store unavailability (store.ErrUnavailable)
// maps to 503, and anything else to 500.
var ErrInvalidInput = errors.New("invalid input")

// BiasDeflectionMessage is returned verbatim whenever the bias filter flags a
// query. Biased queries never reach retrieval or generation.
const BiasDeflectionMessage = "I noticed that your question may contain biased language. " +
	"I'm here to provide fair and supportive career guidance for everyone. " +
	"Could you please rephrase your question?"
