package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"time"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid rain options")

const (
	DefaultHeightVh      = 100
	DefaultFontSize      = 18
	DefaultColumnSpacing = 4
	DefaultCharSpacingY  = 24

	// Stream shape
	DefaultMinChars = 2
	DefaultMaxChars = 12
	DefaultMinSpeed = 2
	DefaultMaxSpeed = 8

	DefaultCharSwitch       = 200 * time.Millisecond
	DefaultHeadBrightChance = 0.5

	// Colours
	DefaultBgColor     = "#000000"
	DefaultMatrixColor = "#6EE7B7"
	DefaultHeadColor   = "#F0D84D"

	// Layer placement
	DefaultBlurPx        = 0.5
	DefaultZIndex        = -1
	DefaultPointerEvents = "none"
	DefaultDPRCap        = 2

	DefaultResizeDebounce = 200 * time.Millisecond
)

// DefaultChars is the built-in glyph set: digits, katakana, block shades and
// a few symbols.
var DefaultChars = []string{
	"0", "1", "ア", "イ", "ウ", "エ", "オ", "カ", "キ", "ク", "ケ", "コ",
	"サ", "シ", "ス", "セ", "ソ", "タ", "チ", "ツ", "テ", "ト", "ヴ", "ヵ", "ヶ",
	"■", "█", "▓", "▒", "░", "Ξ", "ℙ", "𝔹", "ー", "ヽ", "ヾ",
}

// Options is the fully resolved rain configuration. It is treated as
// immutable once handed to a rain instance.
type Options struct {
	HeightVh      float64
	FontSize      float64
	ColumnSpacing float64
	CharSpacingY  float64

	MinChars int
	MaxChars int
	MinSpeed float64
	MaxSpeed float64

	CharSwitch       time.Duration
	HeadBrightChance float64

	BgColor     color.RGBA
	MatrixColor color.RGBA
	HeadColor   color.RGBA

	BlurPx        float64
	ZIndex        int
	PointerEvents string
	DPRCap        float64

	AutoPauseOnHidden bool
	ResizeDebounce    time.Duration

	Chars []string
}

// Default returns the stock options.
func Default() Options {
	return Options{
		HeightVh:          DefaultHeightVh,
		FontSize:          DefaultFontSize,
		ColumnSpacing:     DefaultColumnSpacing,
		CharSpacingY:      DefaultCharSpacingY,
		MinChars:          DefaultMinChars,
		MaxChars:          DefaultMaxChars,
		MinSpeed:          DefaultMinSpeed,
		MaxSpeed:          DefaultMaxSpeed,
		CharSwitch:        DefaultCharSwitch,
		HeadBrightChance:  DefaultHeadBrightChance,
		BgColor:           mustHex(DefaultBgColor),
		MatrixColor:       mustHex(DefaultMatrixColor),
		HeadColor:         mustHex(DefaultHeadColor),
		BlurPx:            DefaultBlurPx,
		ZIndex:            DefaultZIndex,
		PointerEvents:     DefaultPointerEvents,
		DPRCap:            DefaultDPRCap,
		AutoPauseOnHidden: true,
		ResizeDebounce:    DefaultResizeDebounce,
		Chars:             append([]string(nil), DefaultChars...),
	}
}

// ColumnWidth is the horizontal distance between two lanes in CSS pixels.
func (o Options) ColumnWidth() float64 {
	return o.FontSize * o.ColumnSpacing
}

// Validate reports the first option that would make the simulation
// meaningless. A nil error means the options are safe to use. Comparisons
// are written so that NaN fails them.
func (o Options) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"heightVh", o.HeightVh},
		{"fontSize", o.FontSize},
		{"columnSpacing", o.ColumnSpacing},
		{"charSpacingY", o.CharSpacingY},
		{"minSpeed", o.MinSpeed},
		{"maxSpeed", o.MaxSpeed},
		{"headBrightChance", o.HeadBrightChance},
		{"blurPx", o.BlurPx},
		{"dprCap", o.DPRCap},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be a finite number, got %v", ErrInvalid, f.name, f.v)
		}
	}

	switch {
	case !(o.HeightVh > 0):
		return fmt.Errorf("%w: heightVh must be positive, got %v", ErrInvalid, o.HeightVh)
	case !(o.FontSize > 0):
		return fmt.Errorf("%w: fontSize must be positive, got %v", ErrInvalid, o.FontSize)
	case !(o.ColumnSpacing > 0):
		return fmt.Errorf("%w: columnSpacing must be positive, got %v", ErrInvalid, o.ColumnSpacing)
	case !(o.CharSpacingY > 0):
		return fmt.Errorf("%w: charSpacingY must be positive, got %v", ErrInvalid, o.CharSpacingY)
	case o.MinChars < 1:
		return fmt.Errorf("%w: minChars must be at least 1, got %d", ErrInvalid, o.MinChars)
	case o.MinChars > o.MaxChars:
		return fmt.Errorf("%w: minChars %d > maxChars %d", ErrInvalid, o.MinChars, o.MaxChars)
	case !(o.MinSpeed >= 0):
		return fmt.Errorf("%w: minSpeed must not be negative, got %v", ErrInvalid, o.MinSpeed)
	case !(o.MinSpeed <= o.MaxSpeed):
		return fmt.Errorf("%w: minSpeed %v > maxSpeed %v", ErrInvalid, o.MinSpeed, o.MaxSpeed)
	case o.CharSwitch < 0:
		return fmt.Errorf("%w: charSwitchMs must not be negative", ErrInvalid)
	case !(o.HeadBrightChance >= 0 && o.HeadBrightChance <= 1):
		return fmt.Errorf("%w: headBrightChance %v not in [0, 1]", ErrInvalid, o.HeadBrightChance)
	case !(o.BlurPx >= 0):
		return fmt.Errorf("%w: blurPx must not be negative, got %v", ErrInvalid, o.BlurPx)
	case !(o.DPRCap >= 1):
		return fmt.Errorf("%w: dprCap must be at least 1, got %v", ErrInvalid, o.DPRCap)
	case o.ResizeDebounce < 0:
		return fmt.Errorf("%w: resizeDebounceMs must not be negative", ErrInvalid)
	case len(o.Chars) == 0:
		return fmt.Errorf("%w: chars must not be empty", ErrInvalid)
	}
	for i, c := range o.Chars {
		if c == "" {
			return fmt.Errorf("%w: chars[%d] is empty", ErrInvalid, i)
		}
	}
	return nil
}
