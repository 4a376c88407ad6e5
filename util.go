package textenc

import "golang.org/x/exp/constraints"

// ceilDiv divides n by d, rounding up.
func ceilDiv[T constraints.Integer](n, d T) T { return (n + d - 1) / d }
