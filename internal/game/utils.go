package game

import (
	"fmt"
	"time"
)

type blurTap struct {
	dx, dy float64
	alpha  float64
}

// blurTaps approximates a CSS blur(px) filter with a centre draw plus four
// translucent copies offset by px along each axis.
func blurTaps(px float64) []blurTap {
	if px <= 0 {
		return []blurTap{{alpha: 1}}
	}
	const side = 0.2
	return []blurTap{
		{alpha: 1},
		{dx: -px, alpha: side},
		{dx: px, alpha: side},
		{dy: -px, alpha: side},
		{dy: px, alpha: side},
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// formatDuration formats a duration as MM:SS
func formatDuration(d time.Duration) string {
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
