package mesh

import "errors"

// ErrInvalidParameter indicates a malformed mesh request: too few nodes, an
// inverted interval, non-finite input or a clustering parameter that does not
// produce a strictly increasing sequence.
var ErrInvalidParameter = errors.New("pde: invalid parameter")
