/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
)

const sizeUnits = "kMGTPE"

// humanReadableSize formats a byte count with SI prefixes.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes) / 1000
	i := 0
	for size >= 1000 && i < len(sizeUnits)-1 {
		size /= 1000
		i++
	}

	return fmt.Sprintf("%.1f %cB", size, sizeUnits[i])
}
