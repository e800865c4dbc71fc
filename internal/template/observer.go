package template

import "CodifyEngine/internal/codify"

// Observer receives population events as they happen. The engine itself
// stays silent so it can run inside a service, a CLI or a batch job without
// dictating a logging backend; hosts that want audit output hang it here.
type Observer interface {
	OnMatch(token string, item codify.CodifiedItem, occurrences int)
	OnFallbackFilled(sheetIndex, row int, category, setKey string, item codify.CodifiedItem)
	OnOverflow(overflow CategoryOverflow)
}
