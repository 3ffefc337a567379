package mutils

import "golang.org/x/exp/constraints"

func Clamp[T constraints.Ordered](v, minV, maxV T) T {
	return min(maxV, max(minV, v))
}
